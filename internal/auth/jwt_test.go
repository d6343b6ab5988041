package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-123", time.Hour)
	token, err := mgr.Issue("0xabc", "Alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Identity != "0xabc" {
		t.Errorf("expected identity=0xabc, got %s", claims.Identity)
	}
	if claims.Subject != "0xabc" {
		t.Errorf("expected subject=0xabc, got %s", claims.Subject)
	}
	if claims.Name != "Alice" {
		t.Errorf("expected name=Alice, got %s", claims.Name)
	}
}

func TestIssueRequiresIdentity(t *testing.T) {
	mgr := NewJWTManager("test-secret", 0)
	if _, err := mgr.Issue("", "nobody"); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("expected ErrMissingIdentity, got %v", err)
	}
}

func TestIssueToken(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-123", 0)
	tok, err := mgr.IssueToken("0x7", "")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if tok.AccessToken == "" {
		t.Error("expected non-empty access token")
	}
	if tok.Identity != "0x7" {
		t.Errorf("expected identity=0x7, got %s", tok.Identity)
	}
	if tok.ExpiresIn != 86400 {
		t.Errorf("expected default expires_in=86400, got %d", tok.ExpiresIn)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	mgr1 := NewJWTManager("secret-one", time.Hour)
	mgr2 := NewJWTManager("secret-two", time.Hour)

	token, err := mgr1.Issue("0x1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = mgr2.ValidateToken(token)
	if err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	_, err := mgr.ValidateToken("not-a-jwt")
	if err == nil {
		t.Error("expected error for garbage token")
	}
	_, err = mgr.ValidateToken("")
	if err == nil {
		t.Error("expected error for empty token")
	}
}

func TestExpiredToken(t *testing.T) {
	mgr := &JWTManager{secret: []byte("test-secret"), expiry: -1 * time.Second}
	token, err := mgr.Issue("0x1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = mgr.ValidateToken(token)
	if err == nil {
		t.Error("expected error for expired token")
	}
}

func TestDifferentIdentitiesGetDifferentTokens(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	t1, _ := mgr.Issue("alice", "")
	t2, _ := mgr.Issue("bob", "")
	if t1 == t2 {
		t.Error("different identities should get different tokens")
	}
}
