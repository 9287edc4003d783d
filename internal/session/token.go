package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExtractor parses session tokens and extracts the account ID they
// were issued for. Tokens are HS256-signed JWTs with the account ID in
// the subject claim.
type TokenExtractor struct {
	secret []byte
	issuer string
}

// NewTokenExtractor creates a TokenExtractor for the given signing secret
func NewTokenExtractor(secret, issuer string) *TokenExtractor {
	return &TokenExtractor{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// ExtractAccountID verifies a raw token string and returns the account ID
// from its subject claim.
func (te *TokenExtractor) ExtractAccountID(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", fmt.Errorf("token is empty")
	}

	token, err := jwt.Parse(tokenStr,
		func(token *jwt.Token) (any, error) {
			return te.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(te.issuer),
		jwt.WithLeeway(30*time.Second),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject claim")
	}

	return subject, nil
}

// ExtractAccountIDFromHeader verifies an Authorization header value in the
// form "Bearer <token>" and returns the account ID.
func (te *TokenExtractor) ExtractAccountIDFromHeader(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return te.ExtractAccountID(strings.TrimPrefix(authHeader, "Bearer "))
}

// IssueToken signs a session token for the given account. Used by tests
// and local tooling; production tokens come from the identity service.
func (te *TokenExtractor) IssueToken(accountID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		Issuer:    te.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(te.secret)
}
