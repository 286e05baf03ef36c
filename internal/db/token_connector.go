package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the PostgreSQL password.
type TokenBasedConnector struct {
	config        *tripload.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	logger        tripload.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *tripload.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger tripload.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	c.logger.Verbose("Acquiring %s token via %s", c.providerName, c.tokenProvider)

	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s token: %w: %w", c.providerName, tripload.ErrConnectionFailed, err)
	}

	if remaining := time.Until(expiresOn); remaining < tripload.TokenExpiryWarning {
		c.logger.Warn("%s token expires in %v", c.providerName, remaining.Round(time.Second))
	}

	return connectWithPassword(ctx, c.config, token, c.logger)
}

func newAzureConnector(config *tripload.ConnectionConfig, logger tripload.Logger) (tripload.Connector, error) {
	var (
		provider TokenProvider
		err      error
	)
	if config.AzureClientSecret != "" {
		provider, err = NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	} else {
		provider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tripload.ErrInvalidConfig, err)
	}
	return NewTokenBasedConnector(config, provider, "Azure", logger), nil
}

func newAWSConnector(config *tripload.ConnectionConfig, logger tripload.Logger) (tripload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)
	provider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tripload.ErrInvalidConfig, err)
	}
	return NewTokenBasedConnector(config, provider, "AWS IAM", logger), nil
}
