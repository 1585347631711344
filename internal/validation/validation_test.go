package validation

import (
	"strings"
	"testing"

	"github.com/csmc-contest/backend/internal/models"
)

func validRequest() *models.RegistrationRequest {
	return &models.RegistrationRequest{
		FullName:          "Ayesha Rahman",
		SchoolName:        "Dhaka Model School",
		Grade:             7,
		Section:           "A",
		Roll:              42,
		Email:             "ayesha@example.com",
		Mobile:            "01712345678",
		FatherName:        "Abdur Rahman",
		MotherName:        "Fatema Rahman",
		DeviceFingerprint: "fp-abc-123",
	}
}

func hasIssue(issues []FieldIssue, field string) bool {
	for _, issue := range issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

func TestValidRequestPasses(t *testing.T) {
	if issues := ValidateRegistration(validRequest()); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestEmailLowercased(t *testing.T) {
	req := validRequest()
	req.Email = "  Ayesha@Example.COM "
	if issues := ValidateRegistration(req); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if req.Email != "ayesha@example.com" {
		t.Errorf("email not normalized: %q", req.Email)
	}
}

func TestMobileRules(t *testing.T) {
	bad := []string{"", "0171234567", "017123456789", "02712345678", "01712345a78", "+8801712345678"}
	for _, mobile := range bad {
		req := validRequest()
		req.Mobile = mobile
		if !hasIssue(ValidateRegistration(req), "mobile") {
			t.Errorf("mobile %q should be rejected", mobile)
		}
	}
}

func TestGradeRange(t *testing.T) {
	for _, grade := range []int{0, 4, 11} {
		req := validRequest()
		req.Grade = grade
		if !hasIssue(ValidateRegistration(req), "grade") {
			t.Errorf("grade %d should be rejected", grade)
		}
	}
	for grade := 5; grade <= 10; grade++ {
		req := validRequest()
		req.Grade = grade
		if hasIssue(ValidateRegistration(req), "grade") {
			t.Errorf("grade %d should be accepted", grade)
		}
	}
}

func TestRollMustBePositive(t *testing.T) {
	req := validRequest()
	req.Roll = 0
	if !hasIssue(ValidateRegistration(req), "roll") {
		t.Error("roll 0 should be rejected")
	}
}

func TestCollectsAllIssues(t *testing.T) {
	req := validRequest()
	req.FullName = "x"
	req.Mobile = "123"
	req.Roll = -1
	issues := ValidateRegistration(req)
	if len(issues) < 3 {
		t.Errorf("expected at least 3 issues, got %d: %v", len(issues), issues)
	}
}

func TestFingerprintBounds(t *testing.T) {
	if ValidateFingerprint("") == "" {
		t.Error("empty fingerprint should be rejected")
	}
	if ValidateFingerprint(strings.Repeat("a", 256)) == "" {
		t.Error("256-char fingerprint should be rejected")
	}
	if issue := ValidateFingerprint(strings.Repeat("a", 255)); issue != "" {
		t.Errorf("255-char fingerprint should be accepted, got %q", issue)
	}
}
