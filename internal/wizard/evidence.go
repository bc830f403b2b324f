package wizard

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EvidenceKind discriminates the variants of Evidence.
type EvidenceKind string

const (
	// EvidenceNone means no proof has been attached for the field.
	EvidenceNone EvidenceKind = "none"
	// EvidenceFile is a local file pending upload.
	EvidenceFile EvidenceKind = "file"
	// EvidenceURL is a user-supplied cloud storage link.
	EvidenceURL EvidenceKind = "url"
)

// Evidence is a document field's proof-of-certification. Exactly one variant
// is active: File is set only when Kind == EvidenceFile, URL only when
// Kind == EvidenceURL.
type Evidence struct {
	Kind EvidenceKind
	File *FileAttachment
	URL  string
}

// FileAttachment is a local file pending upload.
type FileAttachment struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	// Open yields the file content. Each call must return a fresh reader so
	// a retried submission can re-read the attachment.
	Open func() (io.ReadCloser, error)
}

// UploadPolicy bounds what file attachments are accepted.
type UploadPolicy struct {
	MaxSizeBytes     int64
	AllowedMimeTypes map[string]struct{}
}

// DefaultMaxUploadBytes is the single configured ceiling for attachment size.
const DefaultMaxUploadBytes = 4_718_592 // 4.5 MB

// DefaultUploadPolicy returns the canonical attachment policy: PDF and common
// image formats, capped at DefaultMaxUploadBytes.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxSizeBytes: DefaultMaxUploadBytes,
		AllowedMimeTypes: map[string]struct{}{
			"application/pdf": {},
			"image/jpeg":      {},
			"image/png":       {},
			"image/webp":      {},
		},
	}
}

// Check validates an attachment against the policy.
func (p UploadPolicy) Check(f FileAttachment) error {
	if f.SizeBytes <= 0 {
		return fmt.Errorf("attachment %q is empty", f.FileName)
	}
	if p.MaxSizeBytes > 0 && f.SizeBytes > p.MaxSizeBytes {
		return fmt.Errorf("attachment %q exceeds %d bytes", f.FileName, p.MaxSizeBytes)
	}
	if len(p.AllowedMimeTypes) > 0 {
		if _, ok := p.AllowedMimeTypes[normalizeMime(f.MimeType)]; !ok {
			return fmt.Errorf("attachment %q has unsupported type %q", f.FileName, f.MimeType)
		}
	}
	return nil
}

// NoEvidence returns the empty variant.
func NoEvidence() Evidence {
	return Evidence{Kind: EvidenceNone}
}

// URLEvidence returns a remote-link variant.
func URLEvidence(url string) Evidence {
	return Evidence{Kind: EvidenceURL, URL: strings.TrimSpace(url)}
}

// FileEvidence wraps an attachment after checking it against the policy.
func FileEvidence(f FileAttachment, policy UploadPolicy) (Evidence, error) {
	if err := policy.Check(f); err != nil {
		return Evidence{}, err
	}
	return Evidence{Kind: EvidenceFile, File: &f}, nil
}

// FileEvidenceFromBytes builds a file variant from an in-memory payload.
func FileEvidenceFromBytes(fileName, mimeType string, content []byte, policy UploadPolicy) (Evidence, error) {
	att := FileAttachment{
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
	return FileEvidence(att, policy)
}

// FileEvidenceFromPath builds a file variant backed by a file on disk. The
// MIME type is inferred from the extension.
func FileEvidenceFromPath(path string, policy UploadPolicy) (Evidence, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Evidence{}, err
	}
	att := FileAttachment{
		FileName:  filepath.Base(path),
		MimeType:  mimeFromExtension(path),
		SizeBytes: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	return FileEvidence(att, policy)
}

// Present reports whether any proof is attached (file or link).
func (e Evidence) Present() bool {
	switch e.Kind {
	case EvidenceFile:
		return e.File != nil
	case EvidenceURL:
		return e.URL != ""
	default:
		return false
	}
}

func normalizeMime(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "image/jpg" {
		return "image/jpeg"
	}
	return mimeType
}

func mimeFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
