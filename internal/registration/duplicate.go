package registration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Error codes returned to clients on duplicate registrations.
const (
	CodeDuplicateEmail  = "DUPLICATE_EMAIL"
	CodeDuplicateMobile = "DUPLICATE_MOBILE"
)

// DuplicateCheck is the outcome of the advisory uniqueness pre-check.
type DuplicateCheck struct {
	IsDuplicate      bool
	Code             string
	Message          string
	ExistingUsername string
}

// CheckDuplicate looks up an existing contestant by email or mobile before
// the registration transaction opens. Advisory only: the unique constraints
// on the contestants table remain the authority, and a race lost at insert
// time is reclassified by the orchestrator.
func CheckDuplicate(db *sqlx.DB, field, value string) (DuplicateCheck, error) {
	var query, code, message string
	switch field {
	case "email":
		query = `SELECT username FROM contestants WHERE email = $1 LIMIT 1`
		code = CodeDuplicateEmail
		message = "Email already registered"
	case "mobile":
		query = `SELECT username FROM contestants WHERE mobile = $1 LIMIT 1`
		code = CodeDuplicateMobile
		message = "Mobile already registered"
	default:
		return DuplicateCheck{}, fmt.Errorf("unknown duplicate-check field: %s", field)
	}

	var username string
	err := db.Get(&username, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return DuplicateCheck{}, nil
	}
	if err != nil {
		return DuplicateCheck{}, err
	}

	return DuplicateCheck{
		IsDuplicate:      true,
		Code:             code,
		Message:          message,
		ExistingUsername: username,
	}, nil
}
