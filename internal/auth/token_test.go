package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")

	token, err := issuer.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	subject, err := issuer.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if subject != "user-123" {
		t.Fatalf("unexpected subject: %q", subject)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")

	refresh, err := issuer.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	if _, err := issuer.VerifyAccessToken(refresh); err == nil {
		t.Fatal("expected refresh token to fail access verification")
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")
	other := NewTokenIssuer("different-secret", "refresh-secret")

	token, err := issuer.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestAccessTokenExpires(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")

	issuedAt := time.Now()
	issuer.now = func() time.Time { return issuedAt }
	token, err := issuer.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	issuer.now = func() time.Time { return issuedAt.Add(AccessTokenTTL - time.Minute) }
	if _, err := issuer.VerifyAccessToken(token); err != nil {
		t.Fatalf("token should still be valid inside the window: %v", err)
	}

	issuer.now = func() time.Time { return issuedAt.Add(AccessTokenTTL + time.Minute) }
	if _, err := issuer.VerifyAccessToken(token); err == nil {
		t.Fatal("expected token past the 5-hour window to be rejected")
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret")
	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := issuer.VerifyAccessToken(tokenString); err == nil {
			t.Fatalf("expected %q to be rejected", tokenString)
		}
	}
}
