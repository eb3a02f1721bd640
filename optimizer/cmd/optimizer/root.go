package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"frameOptimizer/optimizer/config"
	"frameOptimizer/optimizer/converter"
	"frameOptimizer/optimizer/service"
)

func newRootCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "optimizer",
		Short:         "Convert ezgif frame PNGs under public/media to WebP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			_, err = run(cmd, config.Default(cwd), out, logger)
			return err
		},
	}
}

func run(cmd *cobra.Command, cfg *config.Config, out io.Writer, logger *zap.Logger) (*service.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	conv := converter.NewConverter(logger, cfg.MaxWidth, cfg.Quality)
	processor := service.NewProcessor(conv, cfg.Pattern, out, logger)

	return processor.Run(cmd.Context(), cfg.TargetDir())
}

// Progress goes to stdout; the logger only surfaces warnings on stderr.
func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
