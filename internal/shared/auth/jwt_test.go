package auth

import (
	"strings"
	"testing"
	"time"
)

func TestSignVerifyRoundTripCarriesRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "google:1", Email: "a@example.com", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "google:1" || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp <= claims.Iat {
		t.Fatalf("expected exp after iat")
	}
}

func TestSignDefaultsRoleToUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "google:2"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Role != RoleUser {
		t.Fatalf("expected role user, got %q", claims.Role)
	}
}

func TestSignRejectsUnknownRole(t *testing.T) {
	if _, err := SignJWT(Claims{Sub: "google:3", Role: "root"}); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestVerifyRejectsTamperedAndExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "google:4"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	parts := strings.Split(token, ".")
	if _, err := VerifyJWT(parts[0] + "." + parts[1] + ".AAAA"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for bad signature, got %v", err)
	}

	expired, err := SignJWT(Claims{Sub: "google:4", Exp: time.Now().Add(-time.Minute).Unix()})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	if _, err := VerifyJWT(expired); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyUsesDifferentSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "one")
	token, err := SignJWT(Claims{Sub: "google:5"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	t.Setenv("JWT_SECRET", "two")
	if _, err := VerifyJWT(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	if _, err := SignJWT(Claims{Sub: "google:6"}); err == nil {
		t.Fatalf("expected missing secret error in production")
	}
}

func TestResolveRole(t *testing.T) {
	admins := []string{"boss@example.com"}
	orgs := []string{"org@example.com", "boss@example.com"}

	tests := []struct {
		email string
		want  string
	}{
		{email: "Boss@Example.com ", want: RoleAdmin},
		{email: "org@example.com", want: RoleOrganization},
		{email: "someone@example.com", want: RoleUser},
		{email: "", want: RoleUser},
	}
	for _, tt := range tests {
		if got := ResolveRole(tt.email, admins, orgs); got != tt.want {
			t.Fatalf("ResolveRole(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}
