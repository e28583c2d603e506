package providers

import (
	"github.com/samber/do/v2"

	"github.com/istdurstig/istdurstig-server/internal/auth"
	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/config"
	"github.com/istdurstig/istdurstig-server/internal/logger"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey returns the token key from ACCESS_TOKEN_KEY, or loads or
// generates one under the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		key    []byte
		err    error
		source = "environment"
	)
	if cfg.Auth.AccessTokenKeyHex != "" {
		key, err = auth.ParseKeyHex(cfg.Auth.AccessTokenKeyHex)
	} else {
		source = "file"
		key, err = auth.LoadOrGenerateKey(cfg.Data.BasePath)
	}
	if err != nil {
		return nil, err
	}

	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"source", source,
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)
	clk := do.MustInvoke[clock.Clock](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration, clk.Now)
}
