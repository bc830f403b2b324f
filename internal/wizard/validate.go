package wizard

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldErrors maps field names to user-facing messages. An empty map means
// the step passed.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "valid"
	}
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

const maxFeedbackLen = 1000

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateStep checks the fields owned by step n against that step's rules.
// It never panics; failures come back as per-field messages.
func ValidateStep(n int, d Draft) FieldErrors {
	switch n {
	case StepPersonalInfo:
		return validatePersonalInfo(d)
	case StepKitchenPreference:
		return validateKitchenPreference(d)
	case StepCertifications:
		return validateCertifications(d)
	default:
		return FieldErrors{"step": fmt.Sprintf("unknown step %d", n)}
	}
}

func validatePersonalInfo(d Draft) FieldErrors {
	errs := FieldErrors{}
	if len(strings.TrimSpace(d.FullName)) < 2 {
		errs["fullName"] = "full name must be at least 2 characters"
	}
	if !emailPattern.MatchString(strings.TrimSpace(d.Email)) {
		errs["email"] = "enter a valid email address"
	}
	if _, err := NormalizePhone(d.Phone); err != nil {
		errs["phone"] = "enter a valid 10-digit phone number"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateKitchenPreference(d Draft) FieldErrors {
	switch d.KitchenPreference {
	case KitchenCommercial, KitchenHome, KitchenNotSure:
		return nil
	default:
		return FieldErrors{"kitchenPreference": "select one of the kitchen options"}
	}
}

func validateCertifications(d Draft) FieldErrors {
	errs := FieldErrors{}
	if !validCertAnswer(d.FoodSafetyLicense) {
		errs["foodSafetyLicense"] = "answer yes, no or notSure"
	}
	if !validCertAnswer(d.FoodEstablishmentCert) {
		errs["foodEstablishmentCert"] = "answer yes, no or notSure"
	}
	if utf8.RuneCountInString(d.Feedback) > maxFeedbackLen {
		errs["feedback"] = fmt.Sprintf("feedback must be at most %d characters", maxFeedbackLen)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validCertAnswer(a CertAnswer) bool {
	switch a {
	case CertYes, CertNo, CertNotSure:
		return true
	default:
		return false
	}
}

// NormalizePhone reduces free-form input to the canonical +1 (XXX) XXX-XXXX
// form. Formatting characters are stripped and an optional leading country
// code 1 is dropped; exactly 10 significant digits must remain.
func NormalizePhone(raw string) (string, error) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case c == ' ' || c == '-' || c == '.' || c == '(' || c == ')' || c == '+':
			// formatting only
		default:
			return "", fmt.Errorf("phone contains invalid character %q", c)
		}
	}
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", fmt.Errorf("phone must contain exactly 10 digits, got %d", len(digits))
	}
	return fmt.Sprintf("+1 (%s) %s-%s", digits[0:3], digits[3:6], digits[6:10]), nil
}
