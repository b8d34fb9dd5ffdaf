package auth

import (
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "Sup3rSecret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := CheckPassword(hash, "Sup3rSecret"); err != nil {
		t.Fatalf("expected matching password to verify: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	claims := Claims{
		AdminID:   "admin-1",
		CompanyID: "company-1",
		Email:     "admin@acme.test",
		SessionID: "session-1",
	}

	token, err := GenerateToken("secret", claims, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.AdminID != claims.AdminID || parsed.CompanyID != claims.CompanyID || parsed.SessionID != claims.SessionID {
		t.Fatalf("claims did not survive the round trip: %+v", parsed)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestHashToken(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatal("expected deterministic hashes")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Fatal("expected distinct inputs to hash differently")
	}
	if HashToken("abc") == "abc" {
		t.Fatal("hash must not equal the input")
	}
}

func TestNewSessionID(t *testing.T) {
	first, err := NewSessionID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewSessionID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatal("expected unique session identifiers")
	}
	if len(first) < 32 {
		t.Fatalf("session id too short: %d", len(first))
	}
}
