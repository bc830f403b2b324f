package wizard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Encoding is the wire shape of the final submission.
type Encoding string

const (
	EncodingJSON      Encoding = "json"
	EncodingMultipart Encoding = "multipart"
)

// ChooseEncoding picks the wire shape for a draft: any pending file upload
// forces multipart; otherwise the body is plain JSON with remote URLs passed
// through as strings.
func ChooseEncoding(d Draft) Encoding {
	for _, ev := range d.DocumentRefs {
		if ev.Kind == EvidenceFile && ev.File != nil {
			return EncodingMultipart
		}
	}
	return EncodingJSON
}

// CheckDocumentRequirements enforces the conditional-evidence rule: a "yes"
// answer requires a file or a link for that field. It returns a
// *RequirementError for the first unmet field, before any network activity.
func CheckDocumentRequirements(d Draft) error {
	if d.FoodSafetyLicense == CertYes && !d.Evidence(FieldFoodSafetyLicense).Present() {
		return &RequirementError{Field: FieldFoodSafetyLicense}
	}
	if d.FoodEstablishmentCert == CertYes && !d.Evidence(FieldFoodEstablishmentCert).Present() {
		return &RequirementError{Field: FieldFoodEstablishmentCert}
	}
	return nil
}

// scalarFields stringifies the draft's non-file fields in submission order.
func scalarFields(d Draft, userID string) [][2]string {
	fields := [][2]string{
		{"userId", userID},
		{"fullName", d.FullName},
		{"email", d.Email},
		{"phone", d.Phone},
		{"kitchenPreference", string(d.KitchenPreference)},
		{"foodSafetyLicense", string(d.FoodSafetyLicense)},
		{"foodEstablishmentCert", string(d.FoodEstablishmentCert)},
	}
	if d.Feedback != "" {
		fields = append(fields, [2]string{"feedback", d.Feedback})
	}
	for _, docField := range []string{FieldFoodSafetyLicense, FieldFoodEstablishmentCert} {
		if ev := d.Evidence(docField); ev.Kind == EvidenceURL && ev.URL != "" {
			fields = append(fields, [2]string{docField + "Url", ev.URL})
		}
	}
	return fields
}

// BuildJSONBody assembles the JSON submission payload. It must only be used
// for drafts without pending file uploads.
func BuildJSONBody(d Draft, userID string) ([]byte, error) {
	if ChooseEncoding(d) != EncodingJSON {
		return nil, fmt.Errorf("draft has pending uploads; multipart encoding required")
	}
	payload := make(map[string]string)
	for _, kv := range scalarFields(d, userID) {
		payload[kv[0]] = kv[1]
	}
	return json.Marshal(payload)
}

// BuildMultipartBody assembles a multipart/form-data submission: every
// scalar as a string part, every pending file as a binary part under its
// logical field name, all in one request.
func BuildMultipartBody(d Draft, userID string) (contentType string, body []byte, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range scalarFields(d, userID) {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return "", nil, fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}

	for _, docField := range []string{FieldFoodSafetyLicense, FieldFoodEstablishmentCert} {
		ev := d.Evidence(docField)
		if ev.Kind != EvidenceFile || ev.File == nil {
			continue
		}
		part, err := createFilePart(w, docField, ev.File.FileName, ev.File.MimeType)
		if err != nil {
			return "", nil, err
		}
		rc, err := ev.File.Open()
		if err != nil {
			return "", nil, fmt.Errorf("open attachment %s: %w", ev.File.FileName, err)
		}
		_, copyErr := io.Copy(part, rc)
		closeErr := rc.Close()
		if copyErr != nil {
			return "", nil, fmt.Errorf("read attachment %s: %w", ev.File.FileName, copyErr)
		}
		if closeErr != nil {
			return "", nil, closeErr
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func createFilePart(w *multipart.Writer, fieldName, fileName, mimeType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fieldName), quoteEscaper.Replace(fileName)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)
	return w.CreatePart(h)
}
