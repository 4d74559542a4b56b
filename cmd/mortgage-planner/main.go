package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/mortgage-planner/internal/config"
	"github.com/iwvelando/mortgage-planner/internal/logging"
	"github.com/iwvelando/mortgage-planner/internal/optimizer"
	"github.com/iwvelando/mortgage-planner/internal/planner"
	"github.com/iwvelando/mortgage-planner/pkg/constants"
	"github.com/iwvelando/mortgage-planner/pkg/format"
	"github.com/iwvelando/mortgage-planner/pkg/output"
	"github.com/iwvelando/mortgage-planner/pkg/spreadsheet"
	"github.com/iwvelando/mortgage-planner/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	exportDir := flag.String("export-dir", "", "write one .xlsx workbook per scenario into this directory")
	targetMonths := flag.Int("target-months", 0, "solve for the extra monthly payment that pays each scenario off within this many months")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	outputFormat, err = validation.ParseOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	scenarios, err := conf.BuildScenarios()
	if err != nil {
		logger.Fatal("failed to build scenarios",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	results, err := planner.Run(logger, scenarios)
	if err != nil {
		logger.Fatal("failed to compute schedules",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, results)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, results)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Savings against the first scenario help compare the options.
	if len(results) > 1 {
		for _, result := range results[1:] {
			interestSaved, monthsSaved := planner.Compare(results[0], result)
			logger.Info(fmt.Sprintf("scenario %s vs %s: %s interest, %d months",
				result.Scenario.Name, results[0].Scenario.Name, format.Currency(interestSaved), monthsSaved),
				zap.String("op", "main"),
			)
		}
	}

	if *targetMonths > 0 {
		runner := optimizer.NewRunner(logger, optimizer.Config{})
		for _, result := range results {
			summary, err := runner.Solve(result.Scenario, *targetMonths)
			if err != nil {
				logger.Warn("failed to solve payoff target",
					zap.String("op", "main"),
					zap.String("scenario", result.Scenario.Name),
					zap.Error(err),
				)
				continue
			}
			logger.Info(fmt.Sprintf("scenario %s needs %s extra per month to pay off in %d months",
				summary.ScenarioName, summary.ValueDisplay, summary.MonthsToPayoff),
				zap.String("op", "main"),
				zap.Bool("converged", summary.Converged),
				zap.Float64("interestSaved", summary.InterestSaved),
			)
		}
	}

	dir := conf.Output.ExportDir
	if *exportDir != "" {
		dir = *exportDir
	}
	if dir == "" {
		return
	}

	exporter := spreadsheet.NewExporter(logger)
	for _, result := range results {
		if _, err := exporter.SaveToDir(dir, result.Scenario, result.Schedule); err != nil {
			logger.Fatal("failed to export scenario",
				zap.String("op", "main"),
				zap.String("scenario", result.Scenario.Name),
				zap.Error(err),
			)
		}
	}
}
