package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// Recognized environment variables.
const (
	EnvDBName     = "DB_NAME"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBSSLMode  = "DB_SSLMODE"
	EnvAuthMethod = "DB_AUTH_METHOD"

	// EnvConnectTimeout is the connect timeout in whole seconds, like libpq's connect_timeout.
	EnvConnectTimeout = "DB_CONNECT_TIMEOUT"

	EnvAzureTenantID     = "AZURE_TENANT_ID"
	EnvAzureClientID     = "AZURE_CLIENT_ID"
	EnvAzureClientSecret = "AZURE_CLIENT_SECRET"
	EnvAWSRegion         = "AWS_REGION"
	EnvGoogleInstance    = "GOOGLE_INSTANCE"
)

// Getenv looks up an environment variable. os.Getenv satisfies it.
type Getenv func(key string) string

// LoadEnvironment builds the connection configuration from the process environment.
func LoadEnvironment() (*tripload.ConnectionConfig, error) {
	return ConnectionFromEnv(os.Getenv)
}

// ConnectionFromEnv builds the connection configuration from DB_* variables.
//
// DB_NAME, DB_USER, DB_HOST and DB_PORT are always required. DB_PASSWORD is
// required for standard authentication; token-based methods (DB_AUTH_METHOD
// aws|google|azure) replace it with a cloud-issued token.
//
// Every problem is reported at once, joined, and wraps tripload.ErrInvalidConfig.
func ConnectionFromEnv(getenv Getenv) (*tripload.ConnectionConfig, error) {
	var errs []error

	authMethod, err := tripload.ParseAuthMethod(getenv(EnvAuthMethod))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvAuthMethod, err))
	}

	required := []string{EnvDBName, EnvDBUser, EnvDBHost, EnvDBPort}
	if !authMethod.UsesToken() {
		required = append(required, EnvDBPassword)
	}

	var missing []string
	for _, key := range required {
		if strings.TrimSpace(getenv(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required environment variable(s) %s: %w",
			strings.Join(missing, ", "), tripload.ErrInvalidConfig))
	}

	port := 0
	if raw := strings.TrimSpace(getenv(EnvDBPort)); raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s=%q is not a valid port: %w", EnvDBPort, raw, tripload.ErrInvalidConfig))
		}
	}

	var connectTimeout time.Duration
	if raw := strings.TrimSpace(getenv(EnvConnectTimeout)); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			errs = append(errs, fmt.Errorf("%s=%q is not a whole number of seconds: %w",
				EnvConnectTimeout, raw, tripload.ErrInvalidConfig))
		}
		connectTimeout = time.Duration(seconds) * time.Second
	}

	sslMode := getenv(EnvDBSSLMode)
	if sslMode == "" {
		sslMode = tripload.DefaultSSLMode
	}

	cfg := &tripload.ConnectionConfig{
		Host:              getenv(EnvDBHost),
		Port:              port,
		Database:          getenv(EnvDBName),
		Username:          getenv(EnvDBUser),
		Password:          getenv(EnvDBPassword),
		SSLMode:           sslMode,
		AuthMethod:        authMethod,
		ConnectTimeout:    connectTimeout,
		AdditionalParams:  make(map[string]string),
		AzureTenantID:     getenv(EnvAzureTenantID),
		AzureClientID:     getenv(EnvAzureClientID),
		AzureClientSecret: getenv(EnvAzureClientSecret),
		AWSRegion:         getenv(EnvAWSRegion),
		GoogleInstance:    getenv(EnvGoogleInstance),
	}

	switch authMethod {
	case tripload.AuthMethodAWSIAM:
		if cfg.AWSRegion == "" {
			errs = append(errs, fmt.Errorf("AWS IAM auth requires %s: %w", EnvAWSRegion, tripload.ErrInvalidConfig))
		}
	case tripload.AuthMethodGoogleIAM:
		if cfg.GoogleInstance == "" {
			errs = append(errs, fmt.Errorf("Google Cloud SQL IAM auth requires %s (project:region:instance): %w",
				EnvGoogleInstance, tripload.ErrInvalidConfig))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}
