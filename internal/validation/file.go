package validation

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrFileType       = errors.New("invalid file type")
	ErrFileExtension  = errors.New("invalid file extension")
	ErrFileUnreadable = errors.New("could not read file")
)

// FileConstraints limits what an upload may contain. The type is sniffed from
// the first 512 bytes, not taken from the client's Content-Type.
type FileConstraints struct {
	MimeTypes  []string
	Extensions []string
	MaxSize    int64
}

// ProofConstraints accepts the screenshot formats both proof uploaders offer
var ProofConstraints = FileConstraints{
	MimeTypes:  []string{"image/jpeg", "image/png"},
	Extensions: []string{".jpg", ".jpeg", ".png"},
	MaxSize:    10 << 20,
}

// ValidateFile checks size, sniffed content type and file extension
func ValidateFile(header *multipart.FileHeader, c FileConstraints) error {
	if header.Size > c.MaxSize {
		return fmt.Errorf("%w: maximum size is %d MB", ErrFileTooLarge, c.MaxSize>>20)
	}

	detected, err := sniff(header)
	if err != nil {
		return err
	}
	if !slices.Contains(c.MimeTypes, detected) {
		return fmt.Errorf("%w (detected: %s)", ErrFileType, detected)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(c.Extensions, ext) {
		return fmt.Errorf("%w: %q", ErrFileExtension, ext)
	}
	return nil
}

func sniff(header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	return http.DetectContentType(buf[:n]), nil
}
