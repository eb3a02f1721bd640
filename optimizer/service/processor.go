package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"frameOptimizer/optimizer/converter"
	"frameOptimizer/optimizer/scan"
)

type Converter interface {
	Convert(inputPath string) (*converter.Output, error)
}

type Processor struct {
	converter Converter
	pattern   string
	out       io.Writer
	logger    *zap.Logger
	remove    func(string) error
}

func NewProcessor(conv Converter, pattern string, out io.Writer, logger *zap.Logger) *Processor {
	return &Processor{
		converter: conv,
		pattern:   pattern,
		out:       out,
		logger:    logger,
		remove:    os.Remove,
	}
}

// Run converts every file in dir matching the processor's pattern, one at a
// time in name order. Per-file failures are reported and recorded in the
// summary; only discovery errors and cancellation are returned.
func (p *Processor) Run(ctx context.Context, dir string) (*Summary, error) {
	summary := &Summary{RunID: uuid.New().String(), Dir: dir}
	logger := p.logger.With(zap.String("run_id", summary.RunID))

	fmt.Fprintf(p.out, "Optimizing images in: %s\n", dir)

	files, err := scan.Discover(dir, p.pattern)
	if err != nil {
		logger.Error("Failed to discover images", zap.String("dir", dir), zap.Error(err))
		return nil, err
	}
	summary.Total = len(files)

	if summary.Total == 0 {
		fmt.Fprintln(p.out, "No images found to optimize.")
		logger.Info("No images found", zap.String("dir", dir))
		return summary, nil
	}

	fmt.Fprintf(p.out, "Found %d images. Starting optimization...\n", summary.Total)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			logger.Warn("Run cancelled",
				zap.Int("processed", len(summary.Results)),
				zap.Int("total", summary.Total),
			)
			return summary, err
		}

		result := p.processFile(logger, i+1, path)
		summary.add(result)

		if result.Status == StatusFailed {
			fmt.Fprintf(p.out, "Error processing %s: %v\n", path, result.Err)
			continue
		}
		fmt.Fprintf(p.out, "[%d/%d] Converted: %s -> %s\n",
			result.Index, summary.Total, filepath.Base(path), filepath.Base(result.OutputPath))
	}

	fmt.Fprintln(p.out, "Optimization complete!")
	fmt.Fprintf(p.out, "Converted %d of %d images (%d failed).\n",
		summary.Converted, summary.Total, summary.Failed)

	logger.Info("Optimization complete",
		zap.Int("total", summary.Total),
		zap.Int("converted", summary.Converted),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}

func (p *Processor) processFile(logger *zap.Logger, index int, path string) (result Result) {
	start := time.Now()
	result = Result{Index: index, Path: path}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic recovered",
				zap.String("path", path),
				zap.Any("error", r),
			)
			result.Status = StatusFailed
			result.Err = fmt.Errorf("panic: %v", r)
		}
		result.Duration = time.Since(start)
	}()

	out, err := p.converter.Convert(path)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}
	result.OutputPath = out.OutputPath
	result.Width, result.Height, result.Resized = out.Width, out.Height, out.Resized

	// The WebP stays on disk if this fails.
	if err := p.remove(path); err != nil {
		logger.Error("Failed to remove source",
			zap.String("path", path),
			zap.String("output", out.OutputPath),
			zap.Error(err),
		)
		result.Status = StatusFailed
		result.Err = fmt.Errorf("failed to remove source: %w", err)
		return result
	}

	result.Status = StatusConverted
	logger.Debug("File processed",
		zap.String("path", path),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}
