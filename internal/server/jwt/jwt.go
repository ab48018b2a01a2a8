// Package jwt выпускает и проверяет токены устройств (HS256).
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer записывается в claim iss каждого токена
const Issuer = "dashsync"

var (
	// ErrMissingToken is returned when the token string is empty
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken wraps parsing and validation errors
	ErrInvalidToken = errors.New("invalid bearer token")

	// ErrEmptySecret is returned when the service is built without a signing secret
	ErrEmptySecret = errors.New("jwt secret cannot be empty")
)

// Claims represents device token claims
type Claims struct {
	Device string `json:"device"`
	jwt.RegisteredClaims
}

// Service provides device token generation and validation
type Service struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// NewService creates a new JWT service.
// ttl of zero issues tokens without expiration.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// IssueDeviceToken creates a signed token for the given device
func (s *Service) IssueDeviceToken(device string) (string, error) {
	now := s.now()

	claims := Claims{
		Device: device,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   device,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate parses the token and checks its signature, issuer and expiration
func (s *Service) Validate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.Device == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
