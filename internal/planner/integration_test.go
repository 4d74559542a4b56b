package planner_test

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-planner/internal/config"
	"github.com/iwvelando/mortgage-planner/internal/planner"
	"github.com/iwvelando/mortgage-planner/pkg/mathutil"
	"github.com/iwvelando/mortgage-planner/pkg/output"
	"github.com/iwvelando/mortgage-planner/pkg/spreadsheet"
	"github.com/iwvelando/mortgage-planner/pkg/testutil"
	"go.uber.org/zap"
)

const exampleConfig = "../../config.yaml.example"

func runExample(t *testing.T) []planner.Result {
	t.Helper()

	conf, err := config.LoadConfiguration(exampleConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Fatalf("expected the example config to be clean, got %v", warnings)
	}

	scenarios, err := conf.BuildScenarios()
	if err != nil {
		t.Fatalf("BuildScenarios failed: %v", err)
	}

	results, err := planner.Run(zap.NewNop(), scenarios)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return results
}

func TestExampleConfigEndToEnd(t *testing.T) {
	results := runExample(t)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	tests := []struct {
		scenario    string
		loanAmount  float64
		months      int
		basePayment float64
	}{
		{"Starter home", 320000, 360, 1717.82},
		{"Smaller place 15 years", 292500, 180, 2237.61},
	}
	for _, tt := range tests {
		result := testutil.FindScenario(results, tt.scenario)
		if result == nil {
			t.Fatalf("scenario %s not found", tt.scenario)
		}
		if result.Scenario.LoanAmount != tt.loanAmount {
			t.Errorf("%s: loan amount %.2f, expected %.2f", tt.scenario, result.Scenario.LoanAmount, tt.loanAmount)
		}
		if result.Schedule.Totals.MonthsToPayoff != tt.months {
			t.Errorf("%s: %d months, expected %d", tt.scenario, result.Schedule.Totals.MonthsToPayoff, tt.months)
		}
		if !mathutil.WithinTolerance(result.Schedule.BasePayment, tt.basePayment, 0.01) {
			t.Errorf("%s: base payment %.4f, expected ~%.2f", tt.scenario, result.Schedule.BasePayment, tt.basePayment)
		}
	}

	extra := testutil.FindScenario(results, "Starter home paying extra")
	if extra == nil {
		t.Fatal("extra payment scenario not found")
	}
	if extra.Schedule.Totals.ExtraPayments != 60000 {
		t.Errorf("expected 120 extra payments of 500, got %.2f", extra.Schedule.Totals.ExtraPayments)
	}
	interestSaved, monthsSaved := planner.Compare(results[0], *extra)
	if interestSaved <= 0 || monthsSaved <= 0 {
		t.Errorf("expected savings from extra payments, got %.2f interest and %d months", interestSaved, monthsSaved)
	}
}

func TestExampleConfigOutputs(t *testing.T) {
	results := runExample(t)

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, results); err != nil {
		t.Fatalf("CsvFormat failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csvBuf.String()), "\n")
	expectedLines := 1
	for _, result := range results {
		expectedLines += len(result.Schedule.Rows)
	}
	if len(lines) != expectedLines {
		t.Errorf("expected %d csv lines, got %d", expectedLines, len(lines))
	}

	var prettyBuf bytes.Buffer
	if err := output.PrettyFormat(&prettyBuf, results); err != nil {
		t.Fatalf("PrettyFormat failed: %v", err)
	}
	if strings.Count(prettyBuf.String(), "--- Results for scenario") != len(results) {
		t.Error("expected one pretty section per scenario")
	}

	dir := t.TempDir()
	exporter := spreadsheet.NewExporter(zap.NewNop())
	for _, result := range results {
		path, err := exporter.SaveToDir(dir, result.Scenario, result.Schedule)
		if err != nil {
			t.Fatalf("SaveToDir failed: %v", err)
		}
		if filepath.Base(path) != result.Scenario.Filename() {
			t.Errorf("unexpected workbook name %s", filepath.Base(path))
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("workbook %s missing or empty: %v", path, err)
		}
	}
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	first := runExample(t)
	for i := 0; i < 5; i++ {
		if again := runExample(t); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from the first run", i+2)
		}
	}
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	if !testing.Verbose() {
		t.Skip("Skipping performance test. Run with -v to enable.")
	}

	start := time.Now()
	results := runExample(t)
	computeTime := time.Since(start)

	start = time.Now()
	var buf bytes.Buffer
	exporter := spreadsheet.NewExporter(nil)
	for _, result := range results {
		buf.Reset()
		if err := exporter.Export(&buf, result.Scenario, result.Schedule); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
	}
	exportTime := time.Since(start)

	t.Logf("compute: %v, export: %v", computeTime, exportTime)
	if computeTime > 5*time.Second {
		t.Errorf("computing the example scenarios took too long: %v", computeTime)
	}
}
