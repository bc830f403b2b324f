package applications

import "time"

// Status values an application moves through after submission.
const (
	StatusInReview = "inReview"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Application is a submitted cook application owned by a user.
type Application struct {
	ID                       string
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
	Status                   string
	CreatedAt                time.Time
}
