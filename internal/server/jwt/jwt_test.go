package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_EmptySecret(t *testing.T) {
	_, err := NewService("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestService_IssueAndValidate(t *testing.T) {
	s, err := NewService("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := s.IssueDeviceToken("laptop")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "laptop", claims.Device)
	assert.Equal(t, "laptop", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
}

func TestService_NoExpiration(t *testing.T) {
	s, err := NewService("test-secret", 0)
	require.NoError(t, err)

	token, err := s.IssueDeviceToken("phone")
	require.NoError(t, err)

	// Даже спустя годы токен без exp остается валидным
	s.now = func() time.Time { return time.Now().Add(10 * 365 * 24 * time.Hour) }

	claims, err := s.Validate(token)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestService_Validate_Errors(t *testing.T) {
	s, err := NewService("test-secret", time.Hour)
	require.NoError(t, err)

	other, err := NewService("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.IssueDeviceToken("laptop")
	require.NoError(t, err)

	expiredSvc, err := NewService("test-secret", time.Minute)
	require.NoError(t, err)
	expiredSvc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredSvc.IssueDeviceToken("laptop")
	require.NoError(t, err)

	noneToken, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{Device: "laptop"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	wrongIssuer, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		Device:           "laptop",
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: "someone-else"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noDevice, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: Issuer},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "  ", wantErr: ErrMissingToken},
		{name: "garbage", token: "not.a.token", wantErr: ErrInvalidToken},
		{name: "foreign signature", token: foreign, wantErr: ErrInvalidToken},
		{name: "expired", token: expired, wantErr: ErrInvalidToken},
		{name: "alg none", token: noneToken, wantErr: ErrInvalidToken},
		{name: "wrong issuer", token: wrongIssuer, wantErr: ErrInvalidToken},
		{name: "missing device", token: noDevice, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Validate(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
