package applications

import "time"

// ApplicationResponse is the outward-facing representation of an application.
type ApplicationResponse struct {
	ID                       string    `json:"id"`
	UserID                   string    `json:"userId"`
	FullName                 string    `json:"fullName"`
	Email                    string    `json:"email"`
	Phone                    string    `json:"phone"`
	KitchenPreference        string    `json:"kitchenPreference"`
	FoodSafetyLicense        string    `json:"foodSafetyLicense"`
	FoodEstablishmentCert    string    `json:"foodEstablishmentCert"`
	FoodSafetyLicenseURL     string    `json:"foodSafetyLicenseUrl,omitempty"`
	FoodEstablishmentCertURL string    `json:"foodEstablishmentCertUrl,omitempty"`
	Feedback                 string    `json:"feedback,omitempty"`
	Status                   string    `json:"status"`
	CreatedAt                time.Time `json:"createdAt"`
}

func toResponse(app Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                       app.ID,
		UserID:                   app.UserID,
		FullName:                 app.FullName,
		Email:                    app.Email,
		Phone:                    app.Phone,
		KitchenPreference:        app.KitchenPreference,
		FoodSafetyLicense:        app.FoodSafetyLicense,
		FoodEstablishmentCert:    app.FoodEstablishmentCert,
		FoodSafetyLicenseURL:     app.FoodSafetyLicenseURL,
		FoodEstablishmentCertURL: app.FoodEstablishmentCertURL,
		Feedback:                 app.Feedback,
		Status:                   app.Status,
		CreatedAt:                app.CreatedAt,
	}
}

// submitRequest is the JSON submission body. Multipart submissions carry the
// same fields as string parts plus binary file parts.
type submitRequest struct {
	FullName                 string `json:"fullName"`
	Email                    string `json:"email"`
	Phone                    string `json:"phone"`
	KitchenPreference        string `json:"kitchenPreference"`
	FoodSafetyLicense        string `json:"foodSafetyLicense"`
	FoodEstablishmentCert    string `json:"foodEstablishmentCert"`
	FoodSafetyLicenseURL     string `json:"foodSafetyLicenseUrl"`
	FoodEstablishmentCertURL string `json:"foodEstablishmentCertUrl"`
	Feedback                 string `json:"feedback"`
}
