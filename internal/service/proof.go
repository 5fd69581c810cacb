package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/stepboard/internal/metrics"
	"github.com/templui/stepboard/internal/storage"
)

const (
	proofJPEGQuality = 70
	proofKeyLayout   = "20060102150405"
)

var ErrInvalidImage = errors.New("proof must be a JPEG or PNG image")

// ProofUpload is a screenshot attached to a submission
type ProofUpload struct {
	Filename string
	Content  io.Reader
}

type ProofService struct {
	storage storage.Storage
	now     Clock
}

func NewProofService(storage storage.Storage, now Clock) *ProofService {
	if now == nil {
		now = time.Now
	}
	return &ProofService{
		storage: storage,
		now:     now,
	}
}

// StoreCompressed decodes a JPEG or PNG and stores it re-encoded as a quality 70
// JPEG under a second-resolution timestamp key. Two uploads in the same second
// share a key and the later one wins.
func (s *ProofService) StoreCompressed(ctx context.Context, r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	var buf bytes.Buffer
	err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: proofJPEGQuality})
	if err != nil {
		return "", fmt.Errorf("failed to encode proof: %w", err)
	}

	key := s.now().Format(proofKeyLayout) + ".jpg"
	err = s.storage.Save(ctx, key, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to save proof: %w", err)
	}

	metrics.ProofUploadsTotal.WithLabelValues("compressed").Inc()
	slog.Debug("compressed proof stored", "key", key, "bytes", buf.Len())
	return key, nil
}

// StoreRaw stores the upload byte for byte under "{name}_{timestamp}.png"
func (s *ProofService) StoreRaw(ctx context.Context, name string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%s_%s.png", keySafe(name), s.now().Format(proofKeyLayout))

	err := s.storage.Save(ctx, key, r)
	if err != nil {
		return "", fmt.Errorf("failed to save proof: %w", err)
	}

	metrics.ProofUploadsTotal.WithLabelValues("raw").Inc()
	slog.Debug("raw proof stored", "key", key)
	return key, nil
}

// Exists reports whether a key refers to a stored proof
func (s *ProofService) Exists(ctx context.Context, key string) bool {
	rc, err := s.storage.Open(ctx, key)
	if err != nil {
		return false
	}
	_ = rc.Close()
	return true
}

func (s *ProofService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.storage.Open(ctx, key)
}

// URL returns a direct link when the backend offers one
func (s *ProofService) URL(ctx context.Context, key string) string {
	return s.storage.URL(ctx, key)
}

func (s *ProofService) Delete(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// keySafe drops path separators and dot runs so a name can never escape the
// upload root or produce a key the storage backends reject
func keySafe(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\':
			return '-'
		}
		return r
	}, name)
	return strings.ReplaceAll(name, "..", "_")
}
