package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

// fakeStore records the last saved object in memory.
type fakeStore struct {
	savedKey  string
	savedData []byte
	saveErr   error
}

func (f *fakeStore) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	if f.saveErr != nil {
		return "", 0, "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	f.savedKey = userID + "/" + fileName
	f.savedData = data
	return f.savedKey, int64(len(data)), "", nil
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if storageKey != f.savedKey {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(f.savedData)), nil
}

func pngBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, "\x89PNG\r\n\x1a\n")
	return data
}

func newTestService(store *fakeStore) *Service {
	return &Service{
		Store:          store,
		MaxUploadBytes: 4096,
		FileURL: func(storageKey string) string {
			return "http://localhost:8080/api/files/" + storageKey
		},
	}
}

func TestUploadStoresPNG(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	uploaded, err := svc.Upload(context.Background(), "guest:test-guest", "license.png", bytes.NewReader(pngBytes(1024)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uploaded.MimeType != "image/png" {
		t.Fatalf("expected image/png, got %s", uploaded.MimeType)
	}
	if uploaded.SizeBytes != 1024 {
		t.Fatalf("expected 1024 bytes, got %d", uploaded.SizeBytes)
	}
	if uploaded.URL != "http://localhost:8080/api/files/guest:test-guest/license.png" {
		t.Fatalf("unexpected url: %s", uploaded.URL)
	}
	if len(store.savedData) != 1024 {
		t.Fatalf("expected stored data, got %d bytes", len(store.savedData))
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.Upload(context.Background(), "u-1", "big.png", bytes.NewReader(pngBytes(4097)))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.Upload(context.Background(), "u-1", "empty.png", bytes.NewReader(nil))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadRejectsMissingFileName(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.Upload(context.Background(), "u-1", "", bytes.NewReader(pngBytes(64)))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.Upload(context.Background(), "u-1", "notes.txt", bytes.NewReader([]byte("just some text")))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestUploadRejectsCorruptPDF(t *testing.T) {
	svc := newTestService(&fakeStore{})

	// Sniffs as application/pdf but has no readable structure.
	_, err := svc.Upload(context.Background(), "u-1", "broken.pdf", bytes.NewReader([]byte("%PDF-1.4 garbage")))
	if !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("expected ErrUnreadableFile, got %v", err)
	}
}

func TestOpenFileRequiresKey(t *testing.T) {
	svc := newTestService(&fakeStore{})

	if _, err := svc.OpenFile(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSniffMime(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"pdf", []byte("%PDF-1.4"), "application/pdf"},
		{"png", pngBytes(64), "image/png"},
		{"jpeg", []byte("\xff\xd8\xff\xe0then more"), "image/jpeg"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"text", []byte("hello world"), "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffMime(tt.data); got != tt.want {
				t.Fatalf("sniffMime(%s) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}
