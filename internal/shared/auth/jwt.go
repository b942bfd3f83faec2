package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Roles carried in the role claim.
const (
	RoleUser         = "user"
	RoleAdmin        = "admin"
	RoleOrganization = "organization"
)

// Claims represents the identity contained in a JWT.
type Claims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Role    string `json:"role,omitempty"`
	Exp     int64  `json:"exp,omitempty"`
	Iat     int64  `json:"iat,omitempty"`
}

const tokenTTL = 7 * 24 * time.Hour

var (
	errMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// SignJWT signs the given claims with HS256 using the configured secret.
func SignJWT(claims Claims) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}
	if claims.Sub == "" {
		return "", errors.New("sub is required")
	}
	if !ValidRole(claims.Role) {
		return "", fmt.Errorf("unknown role %q", claims.Role)
	}

	now := time.Now().UTC().Unix()
	if claims.Iat == 0 {
		claims.Iat = now
	}
	if claims.Exp == 0 {
		claims.Exp = now + int64(tokenTTL/time.Second)
	}
	if claims.Role == "" {
		claims.Role = RoleUser
	}

	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	segments := []string{
		base64.RawURLEncoding.EncodeToString(headerJSON),
		base64.RawURLEncoding.EncodeToString(payloadJSON),
	}
	signingInput := strings.Join(segments, ".")

	sig := sign(signingInput, secret)
	segments = append(segments, sig)
	return strings.Join(segments, "."), nil
}

// VerifyJWT verifies a token and returns its claims.
func VerifyJWT(token string) (Claims, error) {
	secret, err := secretKey()
	if err != nil {
		return Claims{}, err
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	signingInput := strings.Join(parts[0:2], ".")
	expectedSig := sign(signingInput, secret)
	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return Claims{}, ErrInvalidToken
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}

	if claims.Sub == "" {
		return Claims{}, ErrInvalidToken
	}

	if claims.Exp > 0 && time.Now().UTC().Unix() > claims.Exp {
		return Claims{}, ErrInvalidToken
	}
	if claims.Role == "" {
		claims.Role = RoleUser
	}

	return claims, nil
}

func sign(input string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func secretKey() ([]byte, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	env := strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	if env == "production" || env == "prod" {
		if secret == "" {
			return nil, fmt.Errorf("%w: JWT_SECRET required in production", errMissingSecret)
		}
	}
	if secret == "" {
		secret = "dev-secret"
	}
	return []byte(secret), nil
}

// ValidRole reports whether role is empty or one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case "", RoleUser, RoleAdmin, RoleOrganization:
		return true
	default:
		return false
	}
}

// ResolveRole maps an email to a role using the configured allow lists.
// Admin membership wins over organization membership.
func ResolveRole(email string, adminEmails, orgEmails []string) string {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return RoleUser
	}
	for _, a := range adminEmails {
		if e == a {
			return RoleAdmin
		}
	}
	for _, o := range orgEmails {
		if e == o {
			return RoleOrganization
		}
	}
	return RoleUser
}
