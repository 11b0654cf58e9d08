package auth

import (
	"time"

	"halisaha-backend/internal/config"
	apperrors "halisaha-backend/internal/errors"
)

// AuthConfig holds the settings used to validate caller tokens.
// Tokens are minted by the identity provider with the shared secret.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// NewAuthConfig builds the auth configuration from the application config
func NewAuthConfig(cfg *config.Config) *AuthConfig {
	return &AuthConfig{
		JWTSecret: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		TokenTTL:  time.Hour,
	}
}

// ValidateConfig validates the auth configuration
func (c *AuthConfig) ValidateConfig() error {
	if c.JWTSecret == "" {
		return apperrors.NewConfigurationError("JWT secret is required")
	}
	if c.TokenTTL <= 0 {
		return apperrors.NewConfigurationError("token TTL must be positive")
	}
	return nil
}
