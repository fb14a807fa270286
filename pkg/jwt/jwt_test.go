package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", time.Minute, "magicscuts")
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "a@example.com", "user", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != userID || claims.Email != "a@example.com" || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	m := NewManager("secret", time.Minute, "magicscuts")
	userID := uuid.New()

	otherSecret, _ := NewManager("other", time.Minute, "magicscuts").GenerateAccessToken(userID, "", "", 0)
	otherIssuer, _ := NewManager("secret", time.Minute, "someone-else").GenerateAccessToken(userID, "", "", 0)
	noUser, _ := m.GenerateAccessToken(uuid.Nil, "", "", 0)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": otherSecret,
		"wrong issuer": otherIssuer,
		"nil user":     noUser,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ValidateAccessToken(token); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateExpired(t *testing.T) {
	m := NewManager("secret", time.Minute, "")
	token, err := m.GenerateAccessToken(uuid.New(), "", "", -time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	// negative ttl falls back to the configured expiry
	if _, err := m.ValidateAccessToken(token); err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}

	expired := NewManager("secret", -time.Hour, "")
	token, err = expired.GenerateAccessToken(uuid.New(), "", "", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if _, err := expired.ValidateAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
