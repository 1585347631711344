package admin

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("organizer", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	username, err := VerifyToken(token, "test-secret")
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if username != "organizer" {
		t.Errorf("username = %s, want organizer", username)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("organizer", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := VerifyToken(token, "other-secret"); err == nil {
		t.Error("token verified with wrong secret")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := IssueToken("organizer", "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := VerifyToken(token, "test-secret"); err == nil {
		t.Error("expired token verified")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	if _, err := VerifyToken("not-a-jwt", "test-secret"); err == nil {
		t.Error("garbage token verified")
	}
}
