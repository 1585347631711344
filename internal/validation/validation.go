package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/csmc-contest/backend/internal/models"
)

// FieldIssue describes one failed field check, returned to the client in the
// VALIDATION_ERROR details list.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

var (
	mobileRe = regexp.MustCompile(`^01\d{9}$`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateRegistration checks all field rules on a registration request and
// normalizes it in place (trims names, lowercases email). Returns the full
// list of issues rather than stopping at the first.
func ValidateRegistration(req *models.RegistrationRequest) []FieldIssue {
	var issues []FieldIssue

	req.FullName = strings.TrimSpace(req.FullName)
	req.SchoolName = strings.TrimSpace(req.SchoolName)
	req.Section = strings.TrimSpace(req.Section)
	req.FatherName = strings.TrimSpace(req.FatherName)
	req.MotherName = strings.TrimSpace(req.MotherName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.DeviceFingerprint = strings.TrimSpace(req.DeviceFingerprint)

	issues = appendNameIssue(issues, "fullName", "Name", req.FullName, 2, 100)
	issues = appendNameIssue(issues, "schoolName", "Institute name", req.SchoolName, 2, 200)
	issues = appendNameIssue(issues, "fatherName", "Father's name", req.FatherName, 2, 100)
	issues = appendNameIssue(issues, "motherName", "Mother's name", req.MotherName, 2, 100)

	if req.Grade < 5 || req.Grade > 10 {
		issues = append(issues, FieldIssue{Field: "grade", Issue: "Grade must be between 5 and 10"})
	}

	if req.Section == "" {
		issues = append(issues, FieldIssue{Field: "section", Issue: "Section is required"})
	} else if len(req.Section) > 10 {
		issues = append(issues, FieldIssue{Field: "section", Issue: "Section must be short"})
	}

	if req.Roll <= 0 {
		issues = append(issues, FieldIssue{Field: "roll", Issue: "Roll must be a positive number"})
	}

	if !emailRe.MatchString(req.Email) {
		issues = append(issues, FieldIssue{Field: "email", Issue: "Please enter a valid email address"})
	}

	if !mobileRe.MatchString(req.Mobile) {
		issues = append(issues, FieldIssue{Field: "mobile", Issue: "Please enter a valid Bangladeshi mobile number (11 digits starting with 01)"})
	}

	if issue := ValidateFingerprint(req.DeviceFingerprint); issue != "" {
		issues = append(issues, FieldIssue{Field: "deviceFingerprint", Issue: issue})
	}

	return issues
}

// ValidateFingerprint checks the opaque device fingerprint string. The core
// assumes nothing about how it was derived, only that it is non-empty and
// bounded.
func ValidateFingerprint(fingerprint string) string {
	if fingerprint == "" {
		return "Device fingerprint is required"
	}
	if len(fingerprint) > 255 {
		return "Device fingerprint must be at most 255 characters"
	}
	return ""
}

func appendNameIssue(issues []FieldIssue, field, label, value string, min, max int) []FieldIssue {
	if len(value) < min || len(value) > max {
		issues = append(issues, FieldIssue{
			Field: field,
			Issue: fmt.Sprintf("%s must be between %d and %d characters", label, min, max),
		})
	}
	return issues
}
