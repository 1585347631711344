package registration

import (
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/csmc-contest/backend/internal/category"
	"github.com/csmc-contest/backend/internal/models"
)

// ConflictError is returned when a registration collides with an existing
// contestant on email or mobile, whether caught by the advisory pre-check or
// by the unique constraint at insert time.
type ConflictError struct {
	Code             string
	Message          string
	ExistingUsername string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s (existing username %s)", e.Code, e.Message, e.ExistingUsername)
}

// Register runs the full registration flow for an already-validated request:
// duplicate pre-check, category derivation, then a single transaction that
// increments the category counter, inserts the contestant, and links the
// device fingerprint. All three writes commit or roll back together.
//
// Error kinds the caller must distinguish:
//   - *ConflictError: duplicate email or mobile
//   - ErrSequenceUpdateFailed / ErrSequenceExhausted: username allocation
//   - anything else: persistence failure
func Register(db *sqlx.DB, req *models.RegistrationRequest) (*models.RegistrationRecord, error) {
	for _, field := range []struct{ name, value string }{
		{"email", req.Email},
		{"mobile", req.Mobile},
	} {
		check, err := CheckDuplicate(db, field.name, field.value)
		if err != nil {
			return nil, fmt.Errorf("duplicate check on %s: %w", field.name, err)
		}
		if check.IsDuplicate {
			return nil, &ConflictError{
				Code:             check.Code,
				Message:          check.Message,
				ExistingUsername: check.ExistingUsername,
			}
		}
	}

	cat, err := category.FromGrade(req.Grade)
	if err != nil {
		// Unreachable behind validation; fail loudly if it happens.
		return nil, fmt.Errorf("derive category for grade %d: %w", req.Grade, err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("begin registration transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := AllocateNext(tx, cat)
	if err != nil {
		return nil, err
	}
	username := category.FormatUsername(cat, sequence)

	var inserted struct {
		ID        int   `db:"id"`
		CreatedAt int64 `db:"created_at"`
	}
	err = tx.Get(&inserted, `
		INSERT INTO contestants (name, institute, grade, section, roll, email, mobile, father_name, mother_name, category, username)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, req.FullName, req.SchoolName, req.Grade, req.Section, req.Roll,
		req.Email, req.Mobile, req.FatherName, req.MotherName, string(cat), username)
	if err != nil {
		return nil, reclassifyUniqueViolation(db, req, err)
	}

	if _, err := tx.Exec(`
		INSERT INTO device_registrations (device_fingerprint, contestant_id)
		VALUES ($1, $2)
	`, req.DeviceFingerprint, inserted.ID); err != nil {
		return nil, fmt.Errorf("insert device registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}

	log.Printf("[REG] Registered %s (%s, grade %d)", username, cat, req.Grade)

	return &models.RegistrationRecord{
		Username:     username,
		Category:     string(cat),
		FullName:     req.FullName,
		Mobile:       req.Mobile,
		Email:        req.Email,
		Grade:        req.Grade,
		SchoolName:   req.SchoolName,
		RegisteredAt: models.FormatRegisteredAt(inserted.CreatedAt),
	}, nil
}

// reclassifyUniqueViolation converts an insert-time unique violation on email
// or mobile into the same ConflictError the advisory pre-check produces. The
// pre-check races against concurrent identical submissions; the loser of that
// race lands here. The existing username is re-read outside the aborted
// transaction for the conflict response. Violations on other constraints
// (username, fingerprint) stay generic.
func reclassifyUniqueViolation(db *sqlx.DB, req *models.RegistrationRequest, err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return fmt.Errorf("insert contestant: %w", err)
	}

	var field, value string
	switch pqErr.Constraint {
	case "contestants_email_key":
		field, value = "email", req.Email
	case "contestants_mobile_key":
		field, value = "mobile", req.Mobile
	default:
		return fmt.Errorf("insert contestant: %w", err)
	}

	log.Printf("[REG] Lost duplicate race on %s, reclassifying unique violation", field)

	// Best effort: the winner committed, so the pre-check query now finds it.
	check, checkErr := CheckDuplicate(db, field, value)
	if checkErr == nil && check.IsDuplicate {
		return &ConflictError{
			Code:             check.Code,
			Message:          check.Message,
			ExistingUsername: check.ExistingUsername,
		}
	}

	if field == "email" {
		return &ConflictError{Code: CodeDuplicateEmail, Message: "Email already registered"}
	}
	return &ConflictError{Code: CodeDuplicateMobile, Message: "Mobile already registered"}
}
