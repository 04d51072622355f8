package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iwvelando/capex-viability/internal/config"
	"github.com/iwvelando/capex-viability/internal/logging"
	"github.com/iwvelando/capex-viability/internal/viability"
	"github.com/iwvelando/capex-viability/pkg/capex"
	"github.com/iwvelando/capex-viability/pkg/constants"
	"github.com/iwvelando/capex-viability/pkg/output"
	"github.com/iwvelando/capex-viability/pkg/report"
	"github.com/iwvelando/capex-viability/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type options struct {
	configLocation string
	outputFormat   string
	logLevel       string
	export         bool
}

func main() {
	// A missing .env is normal; the process environment is used as is.
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	export := flag.Bool("export", false, "also write the report to the configured export directory")
	flag.Parse()

	opts := options{
		configLocation: *configLocation,
		outputFormat:   *outputFormatFlag,
		logLevel:       *logLevel,
		export:         *export,
	}
	if err := run(opts, os.Stdout, time.Now()); err != nil {
		os.Exit(1)
	}
}

func run(opts options, stdout io.Writer, now time.Time) error {
	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", opts.configLocation, err)
		return err
	}

	logger, err := logging.New(conf.Logging, opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(), zap.String("op", "main"))
		return err
	}

	in, warnings, err := conf.ToInput()
	if err != nil {
		logger.Error("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	result, err := viability.Compute(logger, in)
	if err != nil {
		msg := "failed to compute viability"
		if errors.Is(err, capex.ErrNoHubs) {
			msg = "add at least one hub"
		}
		logger.Error(msg,
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	rep := report.Build(result, now)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(stdout, rep)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(stdout, rep)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(stdout, rep)
	}
	if err != nil {
		logger.Error("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	if opts.export {
		if _, err := output.ExportFile(logger, conf.Export.Directory, rep, conf.Export.Format, now); err != nil {
			logger.Error("failed to export report",
				zap.String("op", "main"),
				zap.Error(err),
			)
			return err
		}
	}

	return nil
}
