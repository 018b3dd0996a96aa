package providers

import (
	"github.com/samber/do/v2"

	"github.com/HaMeD1379/Studly-sub001/internal/auth"
	"github.com/HaMeD1379/Studly-sub001/internal/config"
	"github.com/HaMeD1379/Studly-sub001/internal/logger"
)

// AuthKey is the hex-encoded PASETO v4 symmetric key.
type AuthKey string

// ProvideAuthKey returns the configured key, or loads or generates one in the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenKeyHex != "" {
		log.Info("Authentication key loaded from configuration")
		return AuthKey(cfg.Auth.TokenKeyHex), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Storage.BasePath)
	if err != nil {
		return "", err
	}

	log.Info("Authentication key loaded",
		"data_path", cfg.Storage.BasePath,
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.AccessTokenDuration)
}
