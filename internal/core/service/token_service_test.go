package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/localpro/marketplace-api/internal/core/domain"
)

const (
	testAccessSecret  = "access-secret-0123456789abcdef0123456789"
	testRefreshSecret = "refresh-secret-0123456789abcdef012345678"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		Issuer:        "marketplace-test",
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

var testIdentity = domain.Identity{UserID: "u-1", Email: "ana@example.com", Role: domain.RoleCustomer}

func TestNewTokenService_RejectsWeakSecrets(t *testing.T) {
	tests := []struct {
		name            string
		access, refresh string
	}{
		{"empty", "", ""},
		{"short access", "short", testRefreshSecret},
		{"short refresh", testAccessSecret, "short"},
		{"identical", testAccessSecret, testAccessSecret},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTokenService(TokenConfig{AccessSecret: tc.access, RefreshSecret: tc.refresh}); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t)

	pair, err := svc.Issue(testIdentity)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("token type: got %q", pair.TokenType)
	}
	if pair.ExpiresIn != 900 {
		t.Errorf("expires_in: got %d, want 900", pair.ExpiresIn)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens must differ")
	}

	access, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	refresh, err := svc.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if *access != testIdentity || *refresh != testIdentity {
		t.Errorf("claims mismatch: access=%+v refresh=%+v", access, refresh)
	}
}

func TestTokenService_CrossUseRejected(t *testing.T) {
	svc := newTestTokenService(t)
	pair, _ := svc.Issue(testIdentity)

	if _, err := svc.VerifyAccess(pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("refresh token as access: expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.VerifyRefresh(pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("access token as refresh: expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Expiry(t *testing.T) {
	svc := newTestTokenService(t)
	issuedAt := time.Now().Add(-16 * time.Minute)
	svc.now = func() time.Time { return issuedAt }
	pair, _ := svc.Issue(testIdentity)
	svc.now = time.Now

	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expired access token: expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.VerifyRefresh(pair.RefreshToken); err != nil {
		t.Errorf("refresh token should still be valid: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) }
	if _, err := svc.VerifyRefresh(pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expired refresh token: expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsTamperedAndForeignTokens(t *testing.T) {
	svc := newTestTokenService(t)
	pair, _ := svc.Issue(testIdentity)

	parts := strings.Split(pair.AccessToken, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	other, err := NewTokenService(TokenConfig{
		AccessSecret:  strings.Repeat("x", 40),
		RefreshSecret: strings.Repeat("y", 40),
		Issuer:        "marketplace-test",
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	foreign, _ := other.Issue(testIdentity)

	noneClaims := tokenClaims{
		Role:      domain.RoleCustomer,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			Issuer:    "marketplace-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, noneClaims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	for name, token := range map[string]string{
		"tampered": tampered,
		"foreign":  foreign.AccessToken,
		"alg none": unsigned,
		"garbage":  "not-a-token",
		"empty":    "",
	} {
		if _, err := svc.VerifyAccess(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestTokenService_RejectsWrongIssuer(t *testing.T) {
	svc := newTestTokenService(t)
	other, _ := NewTokenService(TokenConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		Issuer:        "someone-else",
	})
	pair, _ := other.Issue(testIdentity)

	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
