package main

// Drive the application wizard end-to-end against a running API:
//   LC_USER_ID=u-1 LC_AUTH_TOKEN=... go run ./cmd/apply -answers answers.json
//
// The answers file carries one field per wizard input, e.g.:
//   {
//     "fullName": "Jane Doe",
//     "email": "jane@example.com",
//     "phone": "709-555-0100",
//     "kitchenPreference": "home",
//     "foodSafetyLicense": "yes",
//     "foodEstablishmentCert": "notSure",
//     "foodSafetyLicenseFile": "./license.pdf",
//     "feedback": "excited to join"
//   }

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"localcooks-backend/internal/identity"
	"localcooks-backend/internal/wizard"
)

type answers struct {
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	Phone                     string `json:"phone"`
	KitchenPreference         string `json:"kitchenPreference"`
	FoodSafetyLicense         string `json:"foodSafetyLicense"`
	FoodEstablishmentCert     string `json:"foodEstablishmentCert"`
	FoodSafetyLicenseFile     string `json:"foodSafetyLicenseFile"`
	FoodSafetyLicenseURL      string `json:"foodSafetyLicenseUrl"`
	FoodEstablishmentCertFile string `json:"foodEstablishmentCertFile"`
	FoodEstablishmentCertURL  string `json:"foodEstablishmentCertUrl"`
	Feedback                  string `json:"feedback"`
}

func main() {
	answersPath := flag.String("answers", "answers.json", "path to the answers file")
	baseURL := flag.String("base-url", "http://localhost:8080", "API base URL")
	uploadFirst := flag.Bool("upload-first", false, "upload documents out-of-band instead of inline multipart")
	flag.Parse()

	if err := run(*answersPath, strings.TrimRight(*baseURL, "/"), *uploadFirst); err != nil {
		log.Fatalf("apply: %v", err)
	}
}

func run(answersPath, baseURL string, uploadFirst bool) error {
	data, err := os.ReadFile(answersPath)
	if err != nil {
		return err
	}
	var a answers
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("parse answers: %w", err)
	}

	session := wizard.NewSession()
	session.Subscribe(func(snap wizard.Snapshot) {
		fmt.Printf("step %d/%d (%s)\n", snap.Step, snap.TotalSteps, snap.State)
	})

	steps := []struct {
		name  string
		patch wizard.Patch
	}{
		{"personal info", wizard.Patch{
			FullName: wizard.StringPtr(a.FullName),
			Email:    wizard.StringPtr(a.Email),
			Phone:    wizard.StringPtr(a.Phone),
		}},
		{"kitchen preference", wizard.Patch{
			KitchenPreference: wizard.KitchenPtr(wizard.KitchenPreference(a.KitchenPreference)),
		}},
		{"certifications", wizard.Patch{
			FoodSafetyLicense:     wizard.CertPtr(wizard.CertAnswer(a.FoodSafetyLicense)),
			FoodEstablishmentCert: wizard.CertPtr(wizard.CertAnswer(a.FoodEstablishmentCert)),
			Feedback:              wizard.StringPtr(a.Feedback),
			DocumentRefs:          documentRefs(a),
		}},
	}

	for _, step := range steps {
		session.UpdateFormData(step.patch)
		if errs := wizard.ValidateStep(session.Step(), session.Draft()); errs != nil {
			return fmt.Errorf("%s: %s", step.name, errs.Error())
		}
		session.GoToNextStep()
	}

	orch := wizard.NewOrchestrator(baseURL+"/api/applications", baseURL+"/api/upload", identity.FromEnv())
	orch.UploadFirst = uploadFirst

	record, err := orch.Submit(context.Background(), session)
	if err != nil {
		var srvErr *wizard.ServerError
		switch {
		case errors.Is(err, wizard.ErrAuthRequired):
			return errors.New("not signed in; set LC_USER_ID and LC_AUTH_TOKEN")
		case errors.As(err, &srvErr):
			return fmt.Errorf("rejected by server: %s", srvErr.Error())
		default:
			return err
		}
	}

	fmt.Printf("application %s submitted (status %s)\n", record.ID, record.Status)
	return nil
}

func documentRefs(a answers) map[string]wizard.Evidence {
	refs := make(map[string]wizard.Evidence)
	policy := wizard.DefaultUploadPolicy()

	attach := func(field, filePath, url string) {
		switch {
		case filePath != "":
			ev, err := wizard.FileEvidenceFromPath(filePath, policy)
			if err != nil {
				log.Fatalf("apply: %s: %v", field, err)
			}
			refs[field] = ev
		case url != "":
			refs[field] = wizard.URLEvidence(url)
		}
	}

	attach(wizard.FieldFoodSafetyLicense, a.FoodSafetyLicenseFile, a.FoodSafetyLicenseURL)
	attach(wizard.FieldFoodEstablishmentCert, a.FoodEstablishmentCertFile, a.FoodEstablishmentCertURL)
	return refs
}
