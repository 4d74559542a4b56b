package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-planner/pkg/constants"
)

// ParseOutputFormat normalizes a print format given on the command line or in
// the config file. An empty value selects the pretty table.
func ParseOutputFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case "":
		return constants.OutputFormatPretty, nil
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return normalized, nil
	default:
		return "", fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
}
