package validation

import (
	"bytes"
	"fmt"
	"io"
)

type FileType string

const (
	FileTypePNG  FileType = "png"
	FileTypeJPEG FileType = "jpeg"
	FileTypeGIF  FileType = "gif"
	FileTypeWebP FileType = "webp"
)

var magicBytes = map[FileType][]byte{
	FileTypePNG:  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	FileTypeJPEG: {0xFF, 0xD8, 0xFF},
	FileTypeGIF:  {0x47, 0x49, 0x46, 0x38},
}

// DetectFileType sniffs the leading bytes of file and rewinds it so the
// caller can decode from the start.
func DetectFileType(file io.ReadSeeker) (FileType, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	head := buffer[:n]
	if isWebP(head) {
		return FileTypeWebP, nil
	}
	for fileType, signature := range magicBytes {
		if bytes.HasPrefix(head, signature) {
			return fileType, nil
		}
	}

	return "", ErrInvalidFileType
}

// RequirePNG fails unless file starts with the PNG signature.
func RequirePNG(file io.ReadSeeker) error {
	fileType, err := DetectFileType(file)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotPNG, err)
	}
	if fileType != FileTypePNG {
		return fmt.Errorf("%w: detected %s", ErrNotPNG, fileType)
	}
	return nil
}

// RIFF....WEBP
func isWebP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[0:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}
