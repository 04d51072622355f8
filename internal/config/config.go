// Package config defines the data structures related to configuration and
// includes functions for loading the config and normalizing it into a
// computation input.
package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/capex-viability/pkg/capex"
	"github.com/iwvelando/capex-viability/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for capex-viability. Every amount is
// entered in the display currency selected by Currency.
type Configuration struct {
	Currency           string             `yaml:"currency" json:"currency"`
	ExchangeRate       float64            `yaml:"exchangeRate" json:"exchangeRate"`
	HorizonMonths      int                `yaml:"horizonMonths" json:"horizonMonths"`
	AnnualDiscountRate float64            `yaml:"annualDiscountRate" json:"annualDiscountRate"` // percent
	Scenario           string             `yaml:"scenario" json:"scenario"`
	Hubs               HubsConfig         `yaml:"hubs" json:"hubs"`
	CTO                CTOConfig          `yaml:"cto" json:"cto"`
	Catalog            []CatalogItem      `yaml:"catalog" json:"catalog"`
	Installation       InstallationConfig `yaml:"installation" json:"installation"`
	Logging            LoggingConfig      `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output             OutputConfig       `yaml:"output,omitempty" json:"output,omitempty"`
	Export             ExportConfig       `yaml:"export,omitempty" json:"export,omitempty"`
}

// HubsConfig holds the hub counts per category and the average floor area.
type HubsConfig struct {
	LM      int     `yaml:"lm" json:"lm"`
	FM      int     `yaml:"fm" json:"fm"`
	AvgArea float64 `yaml:"avgArea" json:"avgArea"` // m2 per hub
}

// CTOConfig holds both forms of the current monthly cost baseline.
type CTOConfig struct {
	Itemized     bool               `yaml:"itemized" json:"itemized"`
	Breakdown    map[string]float64 `yaml:"breakdown,omitempty" json:"breakdown,omitempty"` // per hub per month
	Consolidated float64            `yaml:"consolidated" json:"consolidated"`
}

// CatalogItem is one kit row. A known ID inherits the default description,
// quantity and list price. Price, when set, overrides the displayed
// scenario-adjusted price.
type CatalogItem struct {
	ID          string   `yaml:"id" json:"id"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	QtyPerHub   *float64 `yaml:"qtyPerHub,omitempty" json:"qtyPerHub,omitempty"`
	Price       *float64 `yaml:"price,omitempty" json:"price,omitempty"`
}

// InstallationConfig holds the per square meter installation rates.
type InstallationConfig struct {
	Cabling        float64 `yaml:"cabling" json:"cabling"`
	Infrastructure float64 `yaml:"infrastructure" json:"infrastructure"`
	Labor          float64 `yaml:"labor" json:"labor"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv, json
}

// ExportConfig holds export configuration options
type ExportConfig struct {
	Directory string `yaml:"directory,omitempty" json:"directory,omitempty"`
	Format    string `yaml:"format,omitempty" json:"format,omitempty"` // xlsx, csv
}

// newViper returns a viper instance with every default registered and
// environment overrides enabled, e.g. CAPEX_HUBS_FM=3.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("currency", "BRL")
	v.SetDefault("exchangeRate", constants.DefaultExchangeRate)
	v.SetDefault("horizonMonths", constants.DefaultHorizonMonths)
	v.SetDefault("annualDiscountRate", constants.DefaultAnnualDiscountPercent)
	v.SetDefault("scenario", capex.ScenarioBase.String())
	v.SetDefault("hubs.lm", 0)
	v.SetDefault("hubs.fm", 1)
	v.SetDefault("hubs.avgArea", constants.DefaultAvgAreaPerHub)
	v.SetDefault("cto.itemized", true)
	v.SetDefault("cto.consolidated", 0.0)
	v.SetDefault("installation.cabling", constants.DefaultCablingRate)
	v.SetDefault("installation.infrastructure", constants.DefaultInfrastructureRate)
	v.SetDefault("installation.labor", constants.DefaultLaborRate)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("export.directory", ".")
	v.SetDefault("export.format", constants.ExportFormatXLSX)

	defaults := capex.DefaultCatalog()
	catalog := make([]map[string]interface{}, 0, len(defaults))
	for _, item := range defaults {
		catalog = append(catalog, map[string]interface{}{
			"id":          item.ID,
			"description": item.Description,
			"qtyPerHub":   item.QtyPerHub,
		})
	}
	v.SetDefault("catalog", catalog)

	return v
}

// Default returns the configuration produced when no file is given.
func Default() (*Configuration, error) {
	return decode(newViper())
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a configuration document of the given
// type (yaml or json) with the same defaults as LoadConfiguration.
func LoadConfigurationFromReader(r io.Reader, configType string) (*Configuration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	v := newViper()
	v.SetConfigType(configType)
	if len(bytes.TrimSpace(data)) > 0 {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("error parsing config, %s", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}
