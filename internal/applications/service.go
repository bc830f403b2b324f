package applications

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"localcooks-backend/internal/shared/metrics"
	"localcooks-backend/internal/uploads"
	"localcooks-backend/internal/wizard"
)

// FilePart is a document received inline with a multipart submission.
type FilePart struct {
	Field    string
	FileName string
	Open     func() (io.ReadCloser, error)
}

// Submission is a parsed request body, either JSON or multipart, before
// validation.
type Submission struct {
	UserID                   string
	FullName                 string
	Email                    string
	Phone                    string
	KitchenPreference        string
	FoodSafetyLicense        string
	FoodEstablishmentCert    string
	FoodSafetyLicenseURL     string
	FoodEstablishmentCertURL string
	Feedback                 string
	Files                    []FilePart
}

// Service contains business logic for applications.
type Service struct {
	Repo Repo
	// Uploads stores inline document parts. Both submission paths go
	// through the same sniffing and allow-list checks.
	Uploads *uploads.Service
}

// Submit validates the submission against the wizard's step rules, stores
// any inline documents and records the application.
func (s *Service) Submit(ctx context.Context, sub Submission) (Application, error) {
	if strings.TrimSpace(sub.UserID) == "" {
		return Application{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}

	draft := draftFrom(sub)
	for step := wizard.StepPersonalInfo; step <= wizard.TotalSteps; step++ {
		if errs := wizard.ValidateStep(step, draft); errs != nil {
			metrics.IncApplicationRejected()
			return Application{}, errs
		}
	}
	if err := wizard.CheckDocumentRequirements(draft); err != nil {
		metrics.IncApplicationRejected()
		return Application{}, err
	}

	phone, err := wizard.NormalizePhone(sub.Phone)
	if err != nil {
		metrics.IncApplicationRejected()
		return Application{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	app := Application{
		ID:                       uuid.NewString(),
		UserID:                   sub.UserID,
		FullName:                 strings.TrimSpace(sub.FullName),
		Email:                    strings.TrimSpace(sub.Email),
		Phone:                    phone,
		KitchenPreference:        sub.KitchenPreference,
		FoodSafetyLicense:        sub.FoodSafetyLicense,
		FoodEstablishmentCert:    sub.FoodEstablishmentCert,
		FoodSafetyLicenseURL:     strings.TrimSpace(sub.FoodSafetyLicenseURL),
		FoodEstablishmentCertURL: strings.TrimSpace(sub.FoodEstablishmentCertURL),
		Feedback:                 sub.Feedback,
		Status:                   StatusInReview,
		CreatedAt:                time.Now().UTC(),
	}

	for _, part := range sub.Files {
		url, err := s.storeFile(ctx, sub.UserID, part)
		if err != nil {
			return Application{}, err
		}
		switch part.Field {
		case wizard.FieldFoodSafetyLicense:
			app.FoodSafetyLicenseURL = url
		case wizard.FieldFoodEstablishmentCert:
			app.FoodEstablishmentCertURL = url
		default:
			return Application{}, fmt.Errorf("%w: unknown document field %q", ErrInvalidInput, part.Field)
		}
	}

	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	metrics.IncApplicationSubmitted()
	return app, nil
}

// Get returns one of the caller's applications.
func (s *Service) Get(ctx context.Context, userID, applicationID string) (Application, error) {
	if userID == "" || applicationID == "" {
		return Application{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, applicationID)
}

// List returns the caller's applications, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Application, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) storeFile(ctx context.Context, userID string, part FilePart) (string, error) {
	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("open part %s: %w", part.Field, err)
	}
	defer rc.Close()

	uploaded, err := s.Uploads.Upload(ctx, userID, part.FileName, rc)
	if err != nil {
		return "", err
	}
	return uploaded.URL, nil
}

// draftFrom rebuilds a wizard draft so the server enforces the same step
// rules the client does. Inline file parts and remote links both count as
// evidence for the requirement check.
func draftFrom(sub Submission) wizard.Draft {
	d := wizard.Draft{
		FullName:              sub.FullName,
		Email:                 sub.Email,
		Phone:                 sub.Phone,
		KitchenPreference:     wizard.KitchenPreference(sub.KitchenPreference),
		FoodSafetyLicense:     wizard.CertAnswer(sub.FoodSafetyLicense),
		FoodEstablishmentCert: wizard.CertAnswer(sub.FoodEstablishmentCert),
		Feedback:              sub.Feedback,
		DocumentRefs:          make(map[string]wizard.Evidence),
	}
	if sub.FoodSafetyLicenseURL != "" {
		d.DocumentRefs[wizard.FieldFoodSafetyLicense] = wizard.URLEvidence(sub.FoodSafetyLicenseURL)
	}
	if sub.FoodEstablishmentCertURL != "" {
		d.DocumentRefs[wizard.FieldFoodEstablishmentCert] = wizard.URLEvidence(sub.FoodEstablishmentCertURL)
	}
	for _, part := range sub.Files {
		d.DocumentRefs[part.Field] = wizard.URLEvidence("pending:" + part.FileName)
	}
	return d
}
