package transform

import (
	"context"
	"fmt"
	"sort"

	"github.com/vvka-141/tripload/internal/checksum"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// Transformer runs the transform stage: read, normalize, write.
type Transformer struct {
	logger tripload.Logger
	rules  []Rule
	strict bool
}

// NewTransformer creates a Transformer applying DefaultRules.
// With strict set a missing coercion column fails the stage instead of
// producing a warning.
func NewTransformer(logger tripload.Logger, strict bool) *Transformer {
	return &Transformer{
		logger: logger,
		rules:  DefaultRules(),
		strict: strict,
	}
}

// Run converts sourcePath to a normalized CSV at outputPath.
func (t *Transformer) Run(ctx context.Context, sourcePath, outputPath string) (*tripload.TransformReport, error) {
	t.logger.Info("Reading %s ...", sourcePath)
	table, err := ReadParquet(sourcePath)
	if err != nil {
		return nil, err
	}
	t.logger.Verbose("Read %d rows, %d columns", table.NumRows(), len(table.Columns()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Normalize(table, t.rules, t.strict)
	if err != nil {
		return nil, err
	}
	for _, name := range result.Missing {
		t.logger.Warn("Column %s not present in %s; coercion skipped", name, sourcePath)
	}
	for _, name := range sortedKeys(result.FilledNulls) {
		t.logger.Verbose("Filled %d null(s) in %s", result.FilledNulls[name], name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.logger.Info("Writing CSV to %s ...", outputPath)
	if err := WriteCSVFile(table, outputPath); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	t.logger.Info("Conversion complete!")

	sourceSum, _, err := checksum.File(sourcePath)
	if err != nil {
		return nil, err
	}
	outputSum, outputSize, err := checksum.File(outputPath)
	if err != nil {
		return nil, err
	}
	t.logger.Verbose("Source sha256 %s", sourceSum)
	t.logger.Verbose("Output sha256 %s (%d bytes)", outputSum, outputSize)

	return &tripload.TransformReport{
		SourcePath:     sourcePath,
		OutputPath:     outputPath,
		Rows:           table.NumRows(),
		Columns:        len(table.Columns()),
		CoercedColumns: result.Coerced,
		MissingColumns: result.Missing,
		FilledNulls:    result.FilledNulls,
		SourceSHA256:   sourceSum,
		OutputSHA256:   outputSum,
	}, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
