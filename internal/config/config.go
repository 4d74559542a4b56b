// Package config defines the data structures related to configuration and
// includes functions for loading the config and turning it into scenarios.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-planner/pkg/loans"
	"github.com/iwvelando/mortgage-planner/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for mortgage-planner.
type Configuration struct {
	Scenarios []Scenario
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output configuration options
type OutputConfig struct {
	Format    string `yaml:"format,omitempty"`    // pretty, csv
	ExportDir string `yaml:"exportDir,omitempty"` // write one workbook per scenario here when set
}

// Scenario holds the parameters of one mortgage option as written in the
// config file.
type Scenario struct {
	Name                string  `yaml:"name" json:"name"`
	PropertyPrice       float64 `yaml:"propertyPrice" json:"propertyPrice"`
	DownPaymentPercent  float64 `yaml:"downPaymentPercent" json:"downPaymentPercent"`
	AnnualRatePercent   float64 `yaml:"annualRatePercent" json:"annualRatePercent"`
	TermYears           int     `yaml:"termYears" json:"termYears"`
	ExtraMonthlyPayment float64 `yaml:"extraMonthlyPayment,omitempty" json:"extraMonthlyPayment,omitempty"`
	ExtraPaymentMonths  int     `yaml:"extraPaymentMonths,omitempty" json:"extraPaymentMonths,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// ToScenario derives the loan scenario described by the config entry.
func (s Scenario) ToScenario() loans.Scenario {
	return loans.NewScenario(s.Name, s.PropertyPrice, s.DownPaymentPercent, s.AnnualRatePercent,
		s.TermYears, s.ExtraMonthlyPayment, s.ExtraPaymentMonths)
}

// Warnings returns the non-fatal problems with this scenario.
func (s Scenario) Warnings() []string {
	var warnings []string
	if warning := validation.ValidateDownPayment(s.Name, s.DownPaymentPercent); warning != "" {
		warnings = append(warnings, warning)
	}
	return append(warnings, validation.ValidateExtraPayments(s.Name, s.ExtraMonthlyPayment,
		s.ExtraPaymentMonths, s.TermYears)...)
}

// BuildScenarios converts every configured scenario, failing on the first one
// the calculator cannot amortize.
func (conf *Configuration) BuildScenarios() ([]loans.Scenario, error) {
	scenarios := make([]loans.Scenario, 0, len(conf.Scenarios))
	for i, entry := range conf.Scenarios {
		scenario := entry.ToScenario()
		if err := scenario.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %d (%s): %w", i+1, entry.Name, err)
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	validator := validation.ScenarioValidator{}
	for _, scenario := range conf.Scenarios {
		validator.Scenarios = append(validator.Scenarios, validation.ScenarioConfig{
			Name:                scenario.Name,
			DownPaymentPercent:  scenario.DownPaymentPercent,
			TermYears:           scenario.TermYears,
			ExtraMonthlyPayment: scenario.ExtraMonthlyPayment,
			ExtraPaymentMonths:  scenario.ExtraPaymentMonths,
		})
	}
	return validator.ValidateAll()
}
