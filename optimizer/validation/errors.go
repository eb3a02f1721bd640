package validation

import "errors"

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrNotPNG          = errors.New("file is not a PNG image")
)
