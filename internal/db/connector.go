package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// configureConn routes server notices (e.g. "relation already exists, skipping")
// to the verbose log.
func configureConn(connConfig *pgx.ConnConfig, logger tripload.Logger) {
	connConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("[%s] %s", notice.Severity, notice.Message)
	}
}

// StandardConnector opens a session with username/password authentication.
// It makes a single attempt: the loader never retries.
type StandardConnector struct {
	config *tripload.ConnectionConfig
	logger tripload.Logger
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *tripload.ConnectionConfig, logger tripload.Logger) *StandardConnector {
	return &StandardConnector{
		config: config,
		logger: logger,
	}
}

// Connect establishes the session and verifies it with a ping.
func (c *StandardConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	return connectWithPassword(ctx, c.config, c.config.Password, c.logger)
}

func connectWithPassword(ctx context.Context, config *tripload.ConnectionConfig, password string, logger tripload.Logger) (*pgx.Conn, error) {
	withPassword := *config
	withPassword.Password = password

	connConfig, err := pgx.ParseConfig(BuildConnectionString(&withPassword))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", err, tripload.ErrInvalidConfig)
	}
	configureConn(connConfig, logger)

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx) //nolint:errcheck
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}

	return conn, nil
}

// NewConnectorFactory returns a factory that picks the Connector matching the
// configuration's AuthMethod.
func NewConnectorFactory(logger tripload.Logger) tripload.ConnectorFactory {
	return func(config *tripload.ConnectionConfig) (tripload.Connector, error) {
		return NewConnector(config, logger)
	}
}

// NewConnector creates the appropriate Connector based on the ConnectionConfig's AuthMethod.
func NewConnector(config *tripload.ConnectionConfig, logger tripload.Logger) (tripload.Connector, error) {
	switch config.AuthMethod {
	case tripload.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case tripload.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case tripload.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case tripload.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, tripload.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// Every returned error wraps tripload.ErrConnectionFailed.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong DB_HOST or DB_PORT
  - Firewall blocking the connection

Original error: %w: %w`, addr, host, port, tripload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - DB_HOST is misspelled
  - DNS is not configured or reachable

Original error: %w: %w`, host, tripload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong DB_PASSWORD
  - Wrong DB_USER
  - User does not have access to the database

Original error: %w: %w`, database, tripload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  createdb %s

Original error: %w: %w`, database, database, tripload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong DB_HOST/DB_PORT (server not listening)

Original error: %w: %w`, addr, tripload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS connection error

Possible causes:
  - Server requires SSL but DB_SSLMODE is wrong
  - Certificate verification failed (try DB_SSLMODE=require)

Original error: %w: %w`, tripload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`too many connections to database "%s"

Possible causes:
  - max_connections limit reached on the server
  - Sessions left open by earlier runs

Original error: %w: %w`, database, tripload.ErrConnectionFailed, err)

	default:
		return fmt.Errorf("failed to connect to database: %w: %w", tripload.ErrConnectionFailed, err)
	}
}
