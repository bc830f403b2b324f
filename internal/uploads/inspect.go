package uploads

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// inspectPDF rejects corrupt or unreadable PDF uploads before they are
// stored. Image formats are accepted on MIME sniffing alone.
func inspectPDF(data []byte) error {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if pdfReader.NumPage() < 1 {
		return fmt.Errorf("%w: pdf has no pages", ErrUnreadableFile)
	}
	return nil
}
