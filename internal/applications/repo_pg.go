package applications

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new application.
func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (
    id,
    user_id,
    full_name,
    email,
    phone,
    kitchen_preference,
    food_safety_license,
    food_establishment_cert,
    food_safety_license_url,
    food_establishment_cert_url,
    feedback,
    status,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	status := app.Status
	if status == "" {
		status = StatusInReview
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		app.ID,
		app.UserID,
		app.FullName,
		app.Email,
		app.Phone,
		app.KitchenPreference,
		app.FoodSafetyLicense,
		app.FoodEstablishmentCert,
		nullable(app.FoodSafetyLicenseURL),
		nullable(app.FoodEstablishmentCertURL),
		nullable(app.Feedback),
		status,
		app.CreatedAt,
	)
	return err
}

const selectColumns = `
SELECT id, user_id, full_name, email, phone, kitchen_preference, food_safety_license, food_establishment_cert, food_safety_license_url, food_establishment_cert_url, feedback, status, created_at
FROM applications`

// GetByID fetches an application by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, applicationID string) (Application, error) {
	const query = selectColumns + `
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userID, applicationID)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

// ListByUser lists applications ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Application, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = selectColumns + `
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var licenseURL, certURL, feedback sql.NullString
	if err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.FullName,
		&app.Email,
		&app.Phone,
		&app.KitchenPreference,
		&app.FoodSafetyLicense,
		&app.FoodEstablishmentCert,
		&licenseURL,
		&certURL,
		&feedback,
		&app.Status,
		&app.CreatedAt,
	); err != nil {
		return Application{}, err
	}
	if licenseURL.Valid {
		app.FoodSafetyLicenseURL = licenseURL.String
	}
	if certURL.Valid {
		app.FoodEstablishmentCertURL = certURL.String
	}
	if feedback.Valid {
		app.Feedback = feedback.String
	}
	return app, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
