package registration

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/csmc-contest/backend/internal/models"
)

// FindByFingerprint maps a device fingerprint to the registration completed
// on that device. Returns (nil, nil) for an unknown fingerprint: a device
// that has not registered is an expected outcome, not an error.
func FindByFingerprint(db *sqlx.DB, fingerprint string) (*models.RegistrationRecord, error) {
	var row struct {
		Username  string `db:"username"`
		Category  string `db:"category"`
		Name      string `db:"name"`
		Grade     int    `db:"grade"`
		Institute string `db:"institute"`
		CreatedAt int64  `db:"created_at"`
	}

	err := db.Get(&row, `
		SELECT c.username, c.category, c.name, c.grade, c.institute, c.created_at
		FROM device_registrations d
		INNER JOIN contestants c ON c.id = d.contestant_id
		WHERE d.device_fingerprint = $1
		LIMIT 1
	`, fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &models.RegistrationRecord{
		Username:     row.Username,
		Category:     row.Category,
		FullName:     row.Name,
		Grade:        row.Grade,
		SchoolName:   row.Institute,
		RegisteredAt: models.FormatRegisteredAt(row.CreatedAt),
	}, nil
}
