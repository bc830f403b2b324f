package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"localcooks-backend/internal/identity"
	"localcooks-backend/internal/shared/telemetry"
)

const defaultSubmitTimeout = 30 * time.Second

// Orchestrator performs the single terminal submission call of the wizard.
// Repeated successful calls create duplicate backend records; the session's
// in-flight guard is the only concurrency protection required.
type Orchestrator struct {
	// Endpoint is the fixed submission URL, e.g. https://host/api/applications.
	Endpoint string
	// UploadEndpoint, when UploadFirst is set, receives each pending file
	// out-of-band and yields a URL passed through in the JSON submission.
	UploadEndpoint string
	// UploadFirst switches from inline multipart files to the out-of-band
	// upload-then-JSON path.
	UploadFirst bool
	Identity    identity.Provider
	Client      *http.Client
}

// NewOrchestrator builds an orchestrator with a finite client timeout.
func NewOrchestrator(endpoint, uploadEndpoint string, provider identity.Provider) *Orchestrator {
	return &Orchestrator{
		Endpoint:       endpoint,
		UploadEndpoint: uploadEndpoint,
		Identity:       provider,
		Client:         &http.Client{Timeout: defaultSubmitTimeout},
	}
}

// Submit runs the terminal action for the session: requirement check,
// identity, optional uploads, one POST, result classification. On success
// the session's draft is discarded and the state machine reaches done; on
// any failure the draft and cursor are left untouched.
func (o *Orchestrator) Submit(ctx context.Context, s *Session) (*Record, error) {
	if errs := ValidateStep(StepCertifications, s.Draft()); errs != nil {
		return nil, errs
	}
	if !s.beginSubmit() {
		return nil, ErrSubmissionInFlight
	}
	record, err := o.submit(ctx, s.Draft())
	s.endSubmit(err == nil)
	return record, err
}

func (o *Orchestrator) submit(ctx context.Context, d Draft) (*Record, error) {
	if err := CheckDocumentRequirements(d); err != nil {
		return nil, err
	}

	if o.Identity == nil {
		return nil, ErrAuthRequired
	}
	token, err := o.Identity.Token(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &NetworkError{Err: err}
		}
		return nil, ErrAuthRequired
	}
	userID := o.Identity.UserID()
	if token == "" || userID == "" {
		return nil, ErrAuthRequired
	}

	if o.UploadFirst {
		d, err = o.uploadPendingFiles(ctx, d, token)
		if err != nil {
			return nil, err
		}
	}

	var (
		body        []byte
		contentType string
	)
	switch ChooseEncoding(d) {
	case EncodingMultipart:
		contentType, body, err = BuildMultipartBody(d, userID)
	default:
		contentType = "application/json"
		body, err = BuildJSONBody(d, userID)
	}
	if err != nil {
		return nil, err
	}

	telemetry.Info("wizard.submit", map[string]any{
		"encoding": string(ChooseEncoding(d)),
		"endpoint": o.Endpoint,
		"user_id":  userID,
	})

	resp, err := o.post(ctx, o.Endpoint, contentType, token, body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	return classify(resp)
}

// uploadPendingFiles sends each file attachment to the upload endpoint and
// replaces it with the returned URL. All uploads must complete before the
// final body is assembled; the first failure aborts the whole submission.
func (o *Orchestrator) uploadPendingFiles(ctx context.Context, d Draft, token string) (Draft, error) {
	out := d.clone()
	for field, ev := range d.DocumentRefs {
		if ev.Kind != EvidenceFile || ev.File == nil {
			continue
		}
		url, err := o.uploadOne(ctx, field, *ev.File, token)
		if err != nil {
			return Draft{}, err
		}
		out.DocumentRefs[field] = URLEvidence(url)
	}
	return out, nil
}

func (o *Orchestrator) uploadOne(ctx context.Context, field string, att FileAttachment, token string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := createFilePart(w, "file", att.FileName, att.MimeType)
	if err != nil {
		return "", err
	}
	rc, err := att.Open()
	if err != nil {
		return "", fmt.Errorf("open attachment %s: %w", att.FileName, err)
	}
	_, copyErr := io.Copy(part, rc)
	closeErr := rc.Close()
	if copyErr != nil {
		return "", fmt.Errorf("read attachment %s: %w", att.FileName, copyErr)
	}
	if closeErr != nil {
		return "", closeErr
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	resp, err := o.post(ctx, o.UploadEndpoint, w.FormDataContentType(), token, buf.Bytes())
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrAuthRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ServerError{Status: resp.StatusCode, Message: serverMessage(resp.Body)}
	}

	var uploaded struct {
		URL      string `json:"url"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", &NetworkError{Err: fmt.Errorf("decode upload response for %s: %w", field, err)}
	}
	if uploaded.URL == "" {
		return "", &ServerError{Status: resp.StatusCode, Message: "upload response missing url"}
	}
	return uploaded.URL, nil
}

func (o *Orchestrator) post(ctx context.Context, url, contentType, token string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: defaultSubmitTimeout}
	}
	return client.Do(req)
}

// classify maps the HTTP response onto the submission outcome taxonomy.
func classify(resp *http.Response) (*Record, error) {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuthRequired
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		var record Record
		if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
			return nil, &NetworkError{Err: fmt.Errorf("decode created record: %w", err)}
		}
		return &record, nil
	default:
		return nil, &ServerError{Status: resp.StatusCode, Message: serverMessage(resp.Body)}
	}
}

// serverMessage pulls a human-readable message out of an error body. Both
// the flat {error:"..."} and the nested {error:{message:"..."}} shapes are
// understood.
func serverMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &nested); err == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	return ""
}
