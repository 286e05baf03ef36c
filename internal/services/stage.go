package services

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/vvka-141/tripload/internal/db"
	"github.com/vvka-141/tripload/internal/schema"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// ensureTable creates table if it does not exist yet.
func ensureTable(ctx context.Context, session tripload.Session, table schema.Table) error {
	if _, err := session.Exec(ctx, table.CreateSQL()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, db.Classify(err, tripload.ErrExecutionFailed))
	}
	return nil
}

func countRows(ctx context.Context, session tripload.Session, table schema.Table) (int64, error) {
	var n int64
	if err := session.QueryRow(ctx, table.CountSQL()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table.Name, db.Classify(err, tripload.ErrExecutionFailed))
	}
	return n, nil
}

// openInput opens a stage input file. A missing file wraps ErrSourceNotFound.
func openInput(path, what string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s %s: %w: %w", what, path, tripload.ErrSourceNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s %s: %w", what, path, err)
	}
	return f, nil
}

// readCSVHeader parses the first record of r. The returned reader yields the
// whole stream again, header included, for COPY ... WITH (HEADER true).
func readCSVHeader(r io.Reader) ([]string, io.Reader, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if strings.TrimSpace(line) == "" {
		return nil, nil, fmt.Errorf("missing header row: %w", tripload.ErrSchemaMismatch)
	}

	header, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, nil, fmt.Errorf("malformed header row: %w: %w", tripload.ErrSchemaMismatch, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return header, io.MultiReader(strings.NewReader(line), br), nil
}

// validateHeader checks that every header field is a column of table, that no
// column appears twice and that every name in required is present.
func validateHeader(header []string, table schema.Table, required []string) error {
	var errs []error
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		key := strings.ToLower(name)
		switch {
		case !table.HasColumn(name):
			errs = append(errs, fmt.Errorf("unknown column %q", name))
		case seen[key]:
			errs = append(errs, fmt.Errorf("duplicate column %q", name))
		}
		seen[key] = true
	}
	for _, name := range required {
		if !seen[strings.ToLower(name)] {
			errs = append(errs, fmt.Errorf("missing column %q", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("header does not match table %s: %w: %w", table.Name, tripload.ErrSchemaMismatch, errors.Join(errs...))
	}
	return nil
}
