package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthService identifies players from bearer tokens issued by the external
// auth service.
type AuthService interface {
	// Enabled reports whether tokens are checked at all. Without a secret
	// every caller is a guest.
	Enabled() bool
	PlayerID(token string) (string, error)
}

type authService struct {
	secret []byte
}

// NewAuthService creates an AuthService verifying HS256 tokens with secret.
func NewAuthService(secret string) AuthService {
	return &authService{secret: []byte(secret)}
}

func (s *authService) Enabled() bool {
	return len(s.secret) > 0
}

// PlayerID verifies token and returns its subject.
func (s *authService) PlayerID(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return sub, nil
}

// IssueToken signs a token the way the auth service does. The server never
// issues tokens itself; local tooling and tests do.
func IssueToken(secret, playerID string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   playerID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	return token.SignedString([]byte(secret))
}
