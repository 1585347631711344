package registration

import (
	"github.com/jmoiron/sqlx"

	"github.com/csmc-contest/backend/internal/models"
)

// Stats is a snapshot of registration progress for the organizer dashboard
// and the live display feed.
type Stats struct {
	Total       int                       `json:"total"`
	PerCategory []models.CategoryCount    `json:"perCategory"`
	Sequences   []models.UsernameSequence `json:"sequences,omitempty"`
}

// CollectStats counts committed registrations per category and reads the
// current sequence positions.
func CollectStats(db *sqlx.DB, includeSequences bool) (*Stats, error) {
	stats := &Stats{}

	if err := db.Get(&stats.Total, `SELECT COUNT(*) FROM contestants`); err != nil {
		return nil, err
	}

	if err := db.Select(&stats.PerCategory, `
		SELECT category, COUNT(*) AS count
		FROM contestants
		GROUP BY category
		ORDER BY category
	`); err != nil {
		return nil, err
	}

	if includeSequences {
		if err := db.Select(&stats.Sequences, `
			SELECT category, current_number, updated_at
			FROM username_sequences
			ORDER BY category
		`); err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// ListContestants returns a page of contestants, optionally filtered by
// category, newest first.
func ListContestants(db *sqlx.DB, categoryFilter string, limit, offset int) ([]models.Contestant, error) {
	var contestants []models.Contestant
	if categoryFilter != "" {
		err := db.Select(&contestants, `
			SELECT id, name, institute, grade, section, roll, email, mobile, father_name, mother_name, category, username, created_at, updated_at
			FROM contestants
			WHERE category = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3
		`, categoryFilter, limit, offset)
		return contestants, err
	}

	err := db.Select(&contestants, `
		SELECT id, name, institute, grade, section, roll, email, mobile, father_name, mother_name, category, username, created_at, updated_at
		FROM contestants
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return contestants, err
}
