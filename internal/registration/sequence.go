package registration

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/csmc-contest/backend/internal/category"
)

// ErrSequenceUpdateFailed means the counter row could not be incremented or
// read back even after the fallback insert. Fatal for the enclosing
// transaction; never retried.
var ErrSequenceUpdateFailed = errors.New("failed to update username sequence")

// ErrSequenceExhausted means the category counter hit the 4-digit ceiling.
var ErrSequenceExhausted = errors.New("username sequence exhausted for category")

// AllocateNext atomically increments the counter for the given category and
// returns the new value. It must run inside the caller's transaction: the
// row-level lock taken by the UPDATE serializes concurrent allocations in the
// same category, and a rollback of the enclosing transaction undoes the
// increment so no sequence number is ever orphaned.
func AllocateNext(tx *sqlx.Tx, cat category.Category) (int, error) {
	code := cat.Code()

	var next int
	err := tx.Get(&next, `
		UPDATE username_sequences
		SET current_number = current_number + 1, updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT
		WHERE category = $1
		RETURNING current_number
	`, code)
	if err == nil {
		return next, nil
	}

	if isSequenceCeiling(err) {
		return 0, fmt.Errorf("%w: %s", ErrSequenceExhausted, code)
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %v", ErrSequenceUpdateFailed, err)
	}

	// Counter row is missing. Migrations pre-seed all three categories, so
	// this path only runs against an unseeded database. Insert at 1 and let
	// a concurrent racer win the conflict if it got there first.
	log.Printf("[REG] Sequence row missing for category %s, seeding", code)
	if _, err := tx.Exec(`
		INSERT INTO username_sequences (category, current_number)
		VALUES ($1, 1)
		ON CONFLICT (category) DO NOTHING
	`, code); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSequenceUpdateFailed, err)
	}

	if err := tx.Get(&next, `SELECT current_number FROM username_sequences WHERE category = $1`, code); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSequenceUpdateFailed, err)
	}

	return next, nil
}

// isSequenceCeiling reports whether err is the check-constraint violation
// raised when current_number would exceed 9999.
func isSequenceCeiling(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23514" && pqErr.Constraint == "ck_username_sequences_current_number"
	}
	return false
}
