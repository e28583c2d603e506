package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istdurstig/istdurstig-server/internal/domain"
)

func testKey() []byte {
	key := make([]byte, keyLength)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestTokenService_RoundTrip(t *testing.T) {
	now := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	svc, err := NewTokenService(testKey(), time.Hour, func() time.Time { return now })
	require.NoError(t, err)

	user := &domain.User{Aggregate: domain.Aggregate{ID: "user-1"}, Email: "ada@example.com"}
	token, expires, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expires)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestTokenService_Expired(t *testing.T) {
	now := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	svc, err := NewTokenService(testKey(), time.Hour, func() time.Time { return now })
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken(&domain.User{Aggregate: domain.Aggregate{ID: "user-1"}})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongKey(t *testing.T) {
	svc, err := NewTokenService(testKey(), time.Hour, nil)
	require.NoError(t, err)
	token, _, err := svc.GenerateAccessToken(&domain.User{Aggregate: domain.Aggregate{ID: "user-1"}})
	require.NoError(t, err)

	other := make([]byte, keyLength)
	otherSvc, err := NewTokenService(other, time.Hour, nil)
	require.NoError(t, err)

	_, err = otherSvc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Garbage(t *testing.T) {
	svc, err := NewTokenService(testKey(), time.Hour, nil)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken("v4.local.not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour, nil)
	assert.Error(t, err)

	_, err = NewTokenService(testKey(), 0, nil)
	assert.Error(t, err)
}
