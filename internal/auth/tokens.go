package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/istdurstig/istdurstig-server/internal/domain"
	"github.com/istdurstig/istdurstig-server/internal/id"
)

const (
	tokenIssuer   = "istdurstig-server"
	tokenAudience = "istdurstig-client"
)

// ErrInvalidToken is returned for any token that fails to decrypt or validate.
var ErrInvalidToken = errors.New("invalid access token")

// TokenService issues and verifies PASETO v4.local access tokens.
type TokenService struct {
	key      paseto.V4SymmetricKey
	duration time.Duration
	now      func() time.Time
}

// NewTokenService creates a token service from a 32-byte symmetric key.
// now defaults to time.Now when nil.
func NewTokenService(key []byte, duration time.Duration, now func() time.Time) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}
	if duration <= 0 {
		return nil, fmt.Errorf("token duration must be positive, got %s", duration)
	}

	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("create PASETO symmetric key: %w", err)
	}

	if now == nil {
		now = time.Now
	}
	return &TokenService{key: k, duration: duration, now: now}, nil
}

// GenerateAccessToken issues an encrypted token identifying user.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.duration)

	tokenID, err := id.Generate(id.PrefixToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token ID: %w", err)
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)
	token.SetJti(tokenID)
	//nolint:errcheck // Set only fails for values that cannot be marshaled
	_ = token.Set("user_id", user.ID)
	//nolint:errcheck // Set only fails for values that cannot be marshaled
	_ = token.Set("email", user.Email)

	return token.V4Encrypt(s.key, nil), expires, nil
}

// VerifyAccessToken decrypts and validates a token and returns its claims.
func (s *TokenService) VerifyAccessToken(raw string) (*AccessClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Local(s.key, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}
	return &claims, nil
}

// AccessTokenDuration returns the configured token lifetime.
func (s *TokenService) AccessTokenDuration() time.Duration {
	return s.duration
}
