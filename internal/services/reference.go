package services

import (
	"context"
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/vvka-141/tripload/internal/db"
	"github.com/vvka-141/tripload/internal/logging"
	"github.com/vvka-141/tripload/internal/schema"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// ReferenceStage creates and seeds the dimension tables. Each table is
// populated only while it is empty, so repeated runs leave it untouched.
type ReferenceStage struct {
	logger tripload.Logger
}

func NewReferenceStage(logger tripload.Logger) *ReferenceStage {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReferenceStage{logger: logger}
}

// Run prepares vendors, rate_codes, payment_types and taxi_zones in that order.
// lookupPath is read only when taxi_zones is empty.
func (s *ReferenceStage) Run(ctx context.Context, session tripload.Session, lookupPath string) ([]tripload.ReferenceResult, error) {
	results := make([]tripload.ReferenceResult, 0, len(schema.Enumerations)+1)

	for _, enum := range schema.Enumerations {
		result, err := s.loadEnumeration(ctx, session, enum)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	result, err := s.loadZones(ctx, session, lookupPath)
	if err != nil {
		return results, err
	}
	return append(results, result), nil
}

func (s *ReferenceStage) loadEnumeration(ctx context.Context, session tripload.Session, enum schema.Enumeration) (tripload.ReferenceResult, error) {
	result := tripload.ReferenceResult{Table: enum.Table.Name}

	s.logger.Info("Creating %s table...", enum.Table.Name)
	if err := ensureTable(ctx, session, enum.Table); err != nil {
		return result, err
	}

	count, err := countRows(ctx, session, enum.Table)
	if err != nil {
		return result, err
	}
	if count > 0 {
		s.logger.Info("%s table already populated", enum.Label)
		result.Skipped = true
		result.Total = count
		return result, nil
	}

	sql, args := enum.InsertSQL()
	tag, err := session.Exec(ctx, sql, args...)
	if err != nil {
		return result, fmt.Errorf("failed to populate %s: %w", enum.Table.Name, db.Classify(err, tripload.ErrExecutionFailed))
	}

	result.Inserted = tag.RowsAffected()
	result.Total = result.Inserted
	s.logger.Info("%s table populated", enum.Label)
	return result, nil
}

func (s *ReferenceStage) loadZones(ctx context.Context, session tripload.Session, lookupPath string) (tripload.ReferenceResult, error) {
	table := schema.TaxiZones
	result := tripload.ReferenceResult{Table: table.Name}

	s.logger.Info("Creating %s table...", table.Name)
	if err := ensureTable(ctx, session, table); err != nil {
		return result, err
	}

	count, err := countRows(ctx, session, table)
	if err != nil {
		return result, err
	}
	if count > 0 {
		s.logger.Info("Taxi zones table already populated")
		result.Skipped = true
		result.Total = count
		return result, nil
	}

	s.logger.Info("Loading taxi zone lookup from %s...", lookupPath)
	f, err := openInput(lookupPath, "zone lookup")
	if err != nil {
		return result, err
	}
	defer f.Close()

	// Exports from spreadsheet tools often start with a byte order mark.
	header, body, err := readCSVHeader(unicode.UTF8BOM.NewDecoder().Reader(f))
	if err != nil {
		return result, fmt.Errorf("zone lookup %s: %w", lookupPath, err)
	}
	if err := validateHeader(header, table, schema.ZoneLookupColumns); err != nil {
		return result, fmt.Errorf("zone lookup %s: %w", lookupPath, err)
	}

	copied, err := session.CopyFrom(ctx, body, table.CopySQL(header))
	if err != nil {
		return result, fmt.Errorf("failed to load %s: %w", lookupPath, db.Classify(err, tripload.ErrBulkLoadFailed))
	}

	total, err := countRows(ctx, session, table)
	if err != nil {
		return result, err
	}

	result.Inserted = copied
	result.Total = total
	s.logger.Info("Taxi zones loaded: %s", logging.FormatCount(total))
	return result, nil
}
