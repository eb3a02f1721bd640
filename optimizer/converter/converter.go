package converter

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"frameOptimizer/optimizer/validation"
)

const (
	sourceExt = ".png"
	targetExt = ".webp"
)

var ErrNoPNGExtension = errors.New("path has no .png extension")

type Output struct {
	InputPath    string
	OutputPath   string
	SourceWidth  int
	SourceHeight int
	Width        int
	Height       int
	Resized      bool
}

type Converter struct {
	logger   *zap.Logger
	maxWidth int
	quality  float32
}

func NewConverter(logger *zap.Logger, maxWidth int, quality float32) *Converter {
	return &Converter{
		logger:   logger,
		maxWidth: maxWidth,
		quality:  quality,
	}
}

// Convert re-encodes the PNG at inputPath as WebP next to it, shrinking it to
// the configured max width first when it is wider. The source is not removed.
func (c *Converter) Convert(inputPath string) (*Output, error) {
	outputPath, err := OutputPath(inputPath)
	if err != nil {
		c.logger.Error("Failed to derive output path",
			zap.String("path", inputPath),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Info("Starting conversion",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
	)

	src, err := c.decode(inputPath)
	if err != nil {
		c.logger.Error("Failed to open image",
			zap.String("path", inputPath),
			zap.Error(err),
		)
		return nil, err
	}

	bounds := src.Bounds()
	out := &Output{
		InputPath:    inputPath,
		OutputPath:   outputPath,
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
	}

	var processedImage image.Image = src
	width, height, resize := TargetSize(out.SourceWidth, out.SourceHeight, c.maxWidth)
	if resize {
		c.logger.Info("Resizing image",
			zap.Int("from_width", out.SourceWidth),
			zap.Int("from_height", out.SourceHeight),
			zap.Int("width", width),
			zap.Int("height", height),
		)
		processedImage = imaging.Resize(src, width, height, imaging.Lanczos)
	}
	out.Width, out.Height, out.Resized = width, height, resize

	if err := writeWebP(processedImage, outputPath, c.quality); err != nil {
		c.logger.Error("Failed to save WebP",
			zap.String("path", outputPath),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to save WebP: %w", err)
	}

	c.logger.Info("Conversion completed",
		zap.String("output", outputPath),
		zap.Int("width", out.Width),
		zap.Int("height", out.Height),
	)

	return out, nil
}

func (c *Converter) decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	if err := validation.RequirePNG(file); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// OutputPath swaps the trailing .png of inputPath for .webp. Any ".png" found
// earlier in the name is kept as is.
func OutputPath(inputPath string) (string, error) {
	if filepath.Ext(inputPath) != sourceExt {
		return "", fmt.Errorf("%w: %s", ErrNoPNGExtension, inputPath)
	}
	return strings.TrimSuffix(inputPath, sourceExt) + targetExt, nil
}

// TargetSize reports the dimensions an image of width x height is encoded at.
// Images wider than maxWidth are scaled to exactly maxWidth, with the height
// floored; narrower ones keep their size.
func TargetSize(width, height, maxWidth int) (int, int, bool) {
	if width <= maxWidth {
		return width, height, false
	}
	newHeight := height * maxWidth / width
	if newHeight < 1 {
		newHeight = 1
	}
	return maxWidth, newHeight, true
}

// writeWebP encodes into a temp file beside outputPath and renames it into
// place, so an existing output is only replaced by a complete one.
func writeWebP(img image.Image, outputPath string, quality float32) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), "."+filepath.Base(outputPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = webp.Encode(w, img, &webp.Options{Quality: quality}); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, outputPath)
}
