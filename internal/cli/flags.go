package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/tripload/internal/config"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// stageMode selects which part of the pipeline a command runs.
type stageMode int

const (
	modeAll stageMode = iota
	modeTransformOnly
	modeLoadOnly
)

func (m stageMode) needsDatabase() bool {
	return m != modeTransformOnly
}

// loadFlagValues holds the flags shared by run, transform and load.
type loadFlagValues struct {
	projectDir   string
	dataDir      string
	source       string
	output       string
	lookup       string
	strictSchema bool
	timeout      time.Duration
}

func addLoadFlags(cmd *cobra.Command, f *loadFlagValues) {
	flags := cmd.Flags()
	flags.StringVar(&f.projectDir, "project-dir", ".",
		"Directory holding the optional "+config.ConfigFileName+" and .env files")
	flags.StringVarP(&f.dataDir, "data-dir", "d", tripload.DefaultDataDir,
		"Directory input and output files are resolved against")
	flags.StringVar(&f.source, "source", tripload.DefaultSourceFile,
		"Parquet trip file")
	flags.StringVar(&f.output, "output", "",
		"Transformed CSV (default: source name with a .csv extension)")
	flags.StringVar(&f.lookup, "lookup", tripload.DefaultLookupFile,
		"Taxi zone lookup CSV")
	flags.BoolVar(&f.strictSchema, "strict-schema", false,
		"Fail instead of warning when a coerced column is missing from the source")
	flags.DurationVar(&f.timeout, "timeout", tripload.DefaultTimeout,
		"Timeout for the whole run (e.g. 30m, 2h); 0 disables it")
}

// loadDotEnv loads <dir>/.env when present. Variables already set in the
// environment win.
func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w: %w", path, tripload.ErrInvalidConfig, err)
	}
	return nil
}

// buildLoadConfig resolves every setting with flag > tripload.yaml > default
// precedence. Connection parameters only come from the environment.
func buildLoadConfig(cmd *cobra.Command, f *loadFlagValues, mode stageMode, getenv config.Getenv) (tripload.LoadConfig, error) {
	project, err := config.Load(f.projectDir)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return tripload.LoadConfig{}, fmt.Errorf("failed to load %s: %w: %w",
				filepath.Join(f.projectDir, config.ConfigFileName), tripload.ErrInvalidConfig, err)
		}
		project = &config.ProjectConfig{}
	}

	changed := cmd.Flags().Changed
	pick := func(name, flagValue, yamlValue string) string {
		if !changed(name) && yamlValue != "" {
			return yamlValue
		}
		return flagValue
	}

	cfg := tripload.LoadConfig{
		DataDir:       pick("data-dir", f.dataDir, project.Paths.DataDir),
		SourceFile:    pick("source", f.source, project.Paths.Source),
		OutputFile:    pick("output", f.output, project.Paths.Output),
		LookupFile:    pick("lookup", f.lookup, project.Paths.Lookup),
		StrictSchema:  f.strictSchema,
		Timeout:       f.timeout,
		SkipTransform: mode == modeLoadOnly,
		SkipDatabase:  mode == modeTransformOnly,
		Verbose:       getVerboseFlag(cmd),
	}

	if !changed("strict-schema") && project.StrictSchema != nil {
		cfg.StrictSchema = *project.StrictSchema
	}

	if !changed("timeout") && project.Timeout != "" {
		timeout, err := time.ParseDuration(project.Timeout)
		if err != nil {
			return tripload.LoadConfig{}, fmt.Errorf("invalid timeout %q in %s: %w",
				project.Timeout, config.ConfigFileName, tripload.ErrInvalidConfig)
		}
		cfg.Timeout = timeout
	}

	if mode.needsDatabase() {
		conn, err := config.ConnectionFromEnv(getenv)
		if err != nil {
			return tripload.LoadConfig{}, err
		}
		cfg.Connection = conn
	}

	return cfg, nil
}
