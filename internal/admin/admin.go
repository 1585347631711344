package admin

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/csmc-contest/backend/internal/models"
)

// GetAdminAccount retrieves an admin account by username
func GetAdminAccount(db *sqlx.DB, username string) (*models.AdminAccount, error) {
	var account models.AdminAccount
	err := db.Get(&account, `SELECT username, display_name, password_hash, created_at, updated_at FROM admin_accounts WHERE username=$1`, username)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ValidateCredentials checks a username/password pair against the stored
// bcrypt hash and returns the account on success.
func ValidateCredentials(db *sqlx.DB, username, password string) (*models.AdminAccount, error) {
	account, err := GetAdminAccount(db, username)
	if err != nil {
		return nil, fmt.Errorf("admin account lookup failed: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return account, nil
}

// CreateAdminAccount creates or updates an admin account (used for seeding)
func CreateAdminAccount(db *sqlx.DB, username, displayName, plainPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO admin_accounts (username, display_name, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT
	`, username, displayName, string(hashed))

	return err
}

// IssueToken signs a JWT for an authenticated admin session.
func IssueToken(username, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"role": "admin",
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken parses and validates an admin JWT, returning the username.
func VerifyToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return sub, nil
}
