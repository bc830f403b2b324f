package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"localcooks-backend/internal/shared/metrics"
	"localcooks-backend/internal/shared/storage/object"
)

var allowedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
}

// Uploaded describes a stored document.
type Uploaded struct {
	URL       string
	FileName  string
	MimeType  string
	SizeBytes int64
}

// Service stores certification documents in the object store.
type Service struct {
	Store          object.ObjectStore
	MaxUploadBytes int64
	// FileURL maps a storage key to the public download URL.
	FileURL func(storageKey string) string
}

// Upload validates and stores a single document. The whole payload is read
// into memory; the size ceiling keeps that bounded.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Uploaded, error) {
	if fileName == "" {
		return Uploaded{}, fmt.Errorf("%w: file name required", ErrInvalidInput)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.MaxUploadBytes+1))
	if err != nil {
		return Uploaded{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if int64(len(data)) > s.MaxUploadBytes {
		return Uploaded{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Uploaded{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	mimeType := sniffMime(data)
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return Uploaded{}, fmt.Errorf("%w: %s", ErrUnsupported, mimeType)
	}
	if mimeType == "application/pdf" {
		if err := inspectPDF(data); err != nil {
			return Uploaded{}, err
		}
	}

	storageKey, size, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return Uploaded{}, err
	}
	metrics.IncDocumentUploaded()
	metrics.ObserveUploadSizeBytes(float64(size))

	url := storageKey
	if s.FileURL != nil {
		url = s.FileURL(storageKey)
	}
	return Uploaded{
		URL:       url,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: size,
	}, nil
}

// OpenFile returns the stored object for download handlers.
func (s *Service) OpenFile(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if storageKey == "" {
		return nil, ErrInvalidInput
	}
	return s.Store.Open(ctx, storageKey)
}

func sniffMime(data []byte) string {
	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	mimeType := http.DetectContentType(data[:sniffLen])
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}
