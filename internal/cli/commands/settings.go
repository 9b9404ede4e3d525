package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/aotcfg/internal/cli/config"
	"github.com/conduit-lang/aotcfg/internal/cli/ui"
	"github.com/conduit-lang/aotcfg/internal/collect"
	"github.com/conduit-lang/aotcfg/internal/configure"
	"github.com/conduit-lang/aotcfg/internal/utils"
)

// settings bundles what every subcommand needs after flag parsing
type settings struct {
	cfg     *config.Config
	logger  *zap.Logger
	noColor bool
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	configFile, _ := cmd.Flags().GetString("config")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), noColor))
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return &settings{cfg: cfg, logger: logger, noColor: noColor}, nil
}

// newLogger builds a zap logger writing to w. Development mode uses the
// console encoder, otherwise records are JSON.
func newLogger(cfg config.LogConfig, w io.Writer) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var encoder zapcore.Encoder
	if cfg.Development {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	if cfg.Development {
		return zap.New(core, zap.Development(), zap.AddCaller()), nil
	}
	return zap.New(core), nil
}

// pass is the outcome of collectFiles
type pass struct {
	collector *collect.Collector
	result    *collect.Result
	inputs    []string
}

// collectFiles runs one collection pass over the given configuration files
// and directories, printing a diagnostic for every rejected entry. The
// returned pass is nil only when the collector could not be started.
func collectFiles(cmd *cobra.Command, s *settings, strict bool, indent int, args []string) (*pass, error) {
	collector, err := collect.New(configure.NewRegistry(),
		collect.WithLogger(s.logger),
		collect.WithStrict(strict),
		collect.WithMaxWorkers(s.cfg.Collect.MaxWorkers),
		collect.WithDedupeCacheSize(s.cfg.Collect.DedupeCacheSize),
		collect.WithIndent(indent),
	)
	if err != nil {
		return nil, err
	}

	inputs, err := utils.ExpandInputs(args)
	if err != nil {
		return nil, err
	}

	result, err := collector.Run(cmd.Context(), collect.FileProducers(inputs...)...)
	if result != nil {
		known := collector.Registry().QualifiedNames()
		for _, rejection := range result.Rejected {
			fmt.Fprint(cmd.ErrOrStderr(), ui.RejectedEntry(rejection.Producer, rejection.Err, known, s.noColor))
		}
	}
	if err != nil {
		return nil, err
	}
	return &pass{collector: collector, result: result, inputs: inputs}, nil
}
