package models

import (
	"time"
)

// Contestant represents a registered contestant. Rows are created exactly
// once inside the registration transaction and never mutated afterwards.
type Contestant struct {
	ID         int    `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Institute  string `db:"institute" json:"institute"`
	Grade      int    `db:"grade" json:"grade"`
	Section    string `db:"section" json:"section"`
	Roll       int    `db:"roll" json:"roll"`
	Email      string `db:"email" json:"email"`
	Mobile     string `db:"mobile" json:"mobile"`
	FatherName string `db:"father_name" json:"father_name"`
	MotherName string `db:"mother_name" json:"mother_name"`
	Category   string `db:"category" json:"category"`
	Username   string `db:"username" json:"username"`
	CreatedAt  int64  `db:"created_at" json:"created_at"`
	UpdatedAt  int64  `db:"updated_at" json:"updated_at"`
}

// UsernameSequence is the per-category counter backing username allocation.
// Exactly one row exists per category code (P, J, S).
type UsernameSequence struct {
	Category      string `db:"category" json:"category"`
	CurrentNumber int    `db:"current_number" json:"current_number"`
	UpdatedAt     int64  `db:"updated_at" json:"updated_at"`
}

// DeviceRegistration links a device fingerprint to the contestant it
// registered. At most one contestant per fingerprint.
type DeviceRegistration struct {
	ID                int    `db:"id" json:"id"`
	DeviceFingerprint string `db:"device_fingerprint" json:"device_fingerprint"`
	ContestantID      int    `db:"contestant_id" json:"contestant_id"`
	CreatedAt         int64  `db:"created_at" json:"created_at"`
}

// AdminAccount is an organizer dashboard login.
type AdminAccount struct {
	Username     string `db:"username" json:"username"`
	DisplayName  string `db:"display_name" json:"display_name"`
	PasswordHash string `db:"password_hash" json:"-"`
	CreatedAt    int64  `db:"created_at" json:"created_at"`
	UpdatedAt    int64  `db:"updated_at" json:"updated_at"`
}

// RegistrationRequest is the POST /registration body.
type RegistrationRequest struct {
	FullName          string `json:"fullName"`
	SchoolName        string `json:"schoolName"`
	Grade             int    `json:"grade"`
	Section           string `json:"section"`
	Roll              int    `json:"roll"`
	Email             string `json:"email"`
	Mobile            string `json:"mobile"`
	FatherName        string `json:"fatherName"`
	MotherName        string `json:"motherName"`
	DeviceFingerprint string `json:"deviceFingerprint"`
}

// RegistrationRecord is the public view of a completed registration,
// returned from both the register and returning-visitor endpoints.
type RegistrationRecord struct {
	Username     string `json:"username"`
	Category     string `json:"category"`
	FullName     string `json:"fullName"`
	Mobile       string `json:"mobile,omitempty"`
	Email        string `json:"email,omitempty"`
	Grade        int    `json:"grade"`
	SchoolName   string `json:"schoolName"`
	RegisteredAt string `json:"registeredAt"`
}

// FormatRegisteredAt renders a seconds-since-epoch timestamp as ISO-8601 UTC.
func FormatRegisteredAt(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).UTC().Format(time.RFC3339)
}

// CategoryCount is one row of the per-category registration stats.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}
