package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func testApplication() Application {
	return Application{
		ID:                    "app-1",
		UserID:                "guest:test-guest",
		FullName:              "Jane Baker",
		Email:                 "jane@example.com",
		Phone:                 "+1 (709) 555-0101",
		KitchenPreference:     "commercial",
		FoodSafetyLicense:     "yes",
		FoodEstablishmentCert: "notSure",
		FoodSafetyLicenseURL:  "http://localhost:8080/api/files/abc/license.pdf",
		Status:                StatusInReview,
		CreatedAt:             time.Now().UTC(),
	}
}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	app := testApplication()

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(
			app.ID,
			app.UserID,
			app.FullName,
			app.Email,
			app.Phone,
			app.KitchenPreference,
			app.FoodSafetyLicense,
			app.FoodEstablishmentCert,
			app.FoodSafetyLicenseURL,
			nil, // food_establishment_cert_url
			nil, // feedback
			StatusInReview,
			app.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), app); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateDefaultsStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	app := testApplication()
	app.Status = ""

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(
			app.ID,
			app.UserID,
			app.FullName,
			app.Email,
			app.Phone,
			app.KitchenPreference,
			app.FoodSafetyLicense,
			app.FoodEstablishmentCert,
			app.FoodSafetyLicenseURL,
			nil,
			nil,
			StatusInReview,
			app.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), app); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func applicationColumns() []string {
	return []string{
		"id", "user_id", "full_name", "email", "phone",
		"kitchen_preference", "food_safety_license", "food_establishment_cert",
		"food_safety_license_url", "food_establishment_cert_url",
		"feedback", "status", "created_at",
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Now().UTC()

	rows := sqlmock.NewRows(applicationColumns()).
		AddRow(
			"app-1", "guest:test-guest", "Jane Baker", "jane@example.com", "+1 (709) 555-0101",
			"commercial", "yes", "notSure",
			"http://localhost:8080/api/files/abc/license.pdf", nil,
			nil, StatusInReview, created,
		)

	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs("guest:test-guest", "app-1").
		WillReturnRows(rows)

	app, err := repo.GetByID(context.Background(), "guest:test-guest", "app-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if app.ID != "app-1" {
		t.Fatalf("expected id app-1, got %s", app.ID)
	}
	if app.FoodSafetyLicenseURL == "" {
		t.Fatalf("expected license url")
	}
	if app.FoodEstablishmentCertURL != "" {
		t.Fatalf("expected empty cert url for NULL column")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs("guest:test-guest", "missing").
		WillReturnRows(sqlmock.NewRows(applicationColumns()))

	_, err = repo.GetByID(context.Background(), "guest:test-guest", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Now().UTC()

	rows := sqlmock.NewRows(applicationColumns()).
		AddRow("app-2", "guest:test-guest", "Jane Baker", "jane@example.com", "+1 (709) 555-0101",
			"commercial", "no", "no", nil, nil, nil, StatusInReview, created).
		AddRow("app-1", "guest:test-guest", "Jane Baker", "jane@example.com", "+1 (709) 555-0101",
			"home", "no", "no", nil, nil, "older", StatusInReview, created.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs("guest:test-guest", 20, 0).
		WillReturnRows(rows)

	apps, err := repo.ListByUser(context.Background(), "guest:test-guest", 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(apps))
	}
	if apps[0].ID != "app-2" {
		t.Fatalf("expected newest first, got %s", apps[0].ID)
	}
	if apps[1].Feedback != "older" {
		t.Fatalf("expected feedback scanned, got %q", apps[1].Feedback)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
