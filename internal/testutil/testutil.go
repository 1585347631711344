package testutil

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// schema mirrors migrations/000001_init.up.sql so tests run against a clean
// copy of the production layout, including the seeded counter rows.
const schema = `
CREATE TABLE contestants (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    institute TEXT NOT NULL,
    grade INTEGER NOT NULL,
    section TEXT NOT NULL,
    roll INTEGER NOT NULL,
    email TEXT NOT NULL UNIQUE,
    mobile TEXT NOT NULL UNIQUE,
    father_name TEXT NOT NULL,
    mother_name TEXT NOT NULL,
    category TEXT NOT NULL,
    username TEXT NOT NULL UNIQUE,
    created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
    updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,

    CONSTRAINT ck_contestants_grade CHECK (grade BETWEEN 5 AND 10),
    CONSTRAINT ck_contestants_roll CHECK (roll > 0),
    CONSTRAINT ck_contestants_mobile CHECK (mobile LIKE '01%' AND LENGTH(mobile) = 11),
    CONSTRAINT ck_contestants_category CHECK (category IN ('Primary', 'Junior', 'Senior'))
);

CREATE TABLE username_sequences (
    category TEXT PRIMARY KEY,
    current_number INTEGER NOT NULL DEFAULT 0,
    updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,

    CONSTRAINT ck_username_sequences_category CHECK (category IN ('P', 'J', 'S')),
    CONSTRAINT ck_username_sequences_current_number CHECK (current_number >= 0 AND current_number <= 9999)
);

CREATE TABLE device_registrations (
    id SERIAL PRIMARY KEY,
    device_fingerprint TEXT NOT NULL UNIQUE,
    contestant_id INTEGER NOT NULL REFERENCES contestants(id) ON DELETE CASCADE,
    created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);

CREATE TABLE admin_accounts (
    username TEXT PRIMARY KEY,
    display_name TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
    updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);

INSERT INTO username_sequences (category, current_number)
VALUES ('P', 0), ('J', 0), ('S', 0);
`

// SetupTestDB connects to the test database named by TEST_DATABASE_URL and
// rebuilds the schema. Tests that need a database skip when the variable is
// unset so the pure-function suites still run everywhere.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	_, err = db.Exec(`
		DROP TABLE IF EXISTS device_registrations CASCADE;
		DROP TABLE IF EXISTS admin_accounts CASCADE;
		DROP TABLE IF EXISTS username_sequences CASCADE;
		DROP TABLE IF EXISTS contestants CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
