package tripload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// LoadConfig contains all parameters needed for a load run.
type LoadConfig struct {
	// DataDir is the directory relative paths below are resolved against.
	DataDir string

	// SourceFile is the columnar (Parquet) trip file.
	SourceFile string

	// OutputFile is the transformed CSV. Defaults to SourceFile with a .csv extension.
	OutputFile string

	// LookupFile is the zone lookup CSV that seeds taxi_zones.
	LookupFile string

	// StrictSchema turns a coercion column missing from the source into an error
	// instead of a warning.
	StrictSchema bool

	// SkipTransform loads an existing OutputFile without reading SourceFile.
	SkipTransform bool

	// SkipDatabase stops after the transform stage.
	SkipDatabase bool

	// Timeout is the global timeout for the entire run. Zero means no deadline.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool

	// Connection holds the resolved database parameters. Unused when SkipDatabase is set.
	Connection *ConnectionConfig
}

// SourcePath returns SourceFile resolved against DataDir.
func (c *LoadConfig) SourcePath() string {
	return c.resolve(c.SourceFile)
}

// OutputPath returns OutputFile resolved against DataDir, deriving it from
// SourceFile when unset.
func (c *LoadConfig) OutputPath() string {
	if c.OutputFile != "" {
		return c.resolve(c.OutputFile)
	}
	src := c.SourceFile
	return c.resolve(strings.TrimSuffix(src, filepath.Ext(src)) + ".csv")
}

// LookupPath returns LookupFile resolved against DataDir.
func (c *LoadConfig) LookupPath() string {
	return c.resolve(c.LookupFile)
}

func (c *LoadConfig) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.SourceFile == "" && !c.SkipTransform {
		errs = append(errs, fmt.Errorf("SourceFile is required: %w", ErrInvalidConfig))
	}

	if c.SkipTransform && c.SourceFile == "" && c.OutputFile == "" {
		errs = append(errs, fmt.Errorf("OutputFile is required when the transform stage is skipped: %w", ErrInvalidConfig))
	}

	if c.SkipTransform && c.SkipDatabase {
		errs = append(errs, fmt.Errorf("cannot skip both the transform and database stages: %w", ErrInvalidConfig))
	}

	if !c.SkipDatabase {
		if c.LookupFile == "" {
			errs = append(errs, fmt.Errorf("LookupFile is required: %w", ErrInvalidConfig))
		}
		if c.Connection == nil {
			errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
		}
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID parameters. With all three set, Service Principal auth is used;
	// otherwise the DefaultAzureCredential chain.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AWS RDS IAM auth.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance).
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// UsesToken reports whether the password is replaced by a cloud-issued token.
func (a AuthMethod) UsesToken() bool {
	return a == AuthMethodAWSIAM || a == AuthMethodGoogleIAM || a == AuthMethodAzureEntraID
}

// ParseAuthMethod maps a DB_AUTH_METHOD value to an AuthMethod.
// The empty string selects standard authentication.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("%q: %w", s, ErrUnsupportedAuthMethod)
	}
}

// TransformReport describes the outcome of the transform stage.
type TransformReport struct {
	SourcePath string
	OutputPath string
	Rows       int
	Columns    int

	// CoercedColumns lists the columns a coercion rule was applied to.
	CoercedColumns []string

	// MissingColumns lists coercion columns absent from the source.
	MissingColumns []string

	// FilledNulls counts the null cells replaced by a default, per column.
	FilledNulls map[string]int

	// SourceSHA256 and OutputSHA256 fingerprint the files read and written.
	SourceSHA256 string
	OutputSHA256 string
}

// ReferenceResult describes one reference table after the reference stage.
type ReferenceResult struct {
	Table    string
	Inserted int64
	Skipped  bool
	Total    int64
}

// ConstraintResult describes one foreign key after the constraint stage.
type ConstraintResult struct {
	Name    string
	Added   bool
	Existed bool
}

// LoadSummary is returned by a completed run.
type LoadSummary struct {
	RunID       string
	Transform   *TransformReport
	References  []ReferenceResult
	FactsCopied int64
	FactsTotal  int64
	Constraints []ConstraintResult
	Duration    time.Duration
}
