package wizard

import (
	"errors"
	"fmt"
)

// Sentinel errors for terminal submission outcomes. The orchestrator only
// classifies; rendering the error is the caller's job.
var (
	// ErrAuthRequired means no valid identity was available. The draft is
	// retained so the user can sign in and resume.
	ErrAuthRequired = errors.New("authentication required")

	// ErrSubmissionInFlight means a submission is already pending for this
	// session.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// RequirementError reports a conditionally required document with no
// evidence attached. It is raised before any network call.
type RequirementError struct {
	Field string
}

func (e *RequirementError) Error() string {
	return fmt.Sprintf("document required for %s", e.Field)
}

// ServerError is a non-2xx response from the submission endpoint, carrying
// the server-supplied message when one was parseable.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected submission (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server rejected submission (%d)", e.Status)
}

// NetworkError wraps a transport failure. Retriable by user action; the
// draft is retained.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Record is the server's JSON representation of a created application.
type Record struct {
	ID                       string `json:"id"`
	UserID                   string `json:"userId"`
	FullName                 string `json:"fullName"`
	Email                    string `json:"email"`
	Phone                    string `json:"phone"`
	KitchenPreference        string `json:"kitchenPreference"`
	FoodSafetyLicense        string `json:"foodSafetyLicense"`
	FoodEstablishmentCert    string `json:"foodEstablishmentCert"`
	FoodSafetyLicenseURL     string `json:"foodSafetyLicenseUrl,omitempty"`
	FoodEstablishmentCertURL string `json:"foodEstablishmentCertUrl,omitempty"`
	Feedback                 string `json:"feedback,omitempty"`
	Status                   string `json:"status"`
	CreatedAt                string `json:"createdAt"`
}
