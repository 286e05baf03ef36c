package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/tripload/internal/db"
	"github.com/vvka-141/tripload/internal/logging"
	"github.com/vvka-141/tripload/internal/schema"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// FactStage appends the transformed trip CSV to yellow_tripdata.
// Every run appends: loading the same file twice doubles its rows.
type FactStage struct {
	logger tripload.Logger
}

func NewFactStage(logger tripload.Logger) *FactStage {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &FactStage{logger: logger}
}

// FactResult reports the rows one run copied and the table total afterwards.
type FactResult struct {
	Copied int64
	Total  int64
}

// Run creates the fact table when needed and copies csvPath into it.
// The CSV header decides which columns are loaded, in which order.
func (s *FactStage) Run(ctx context.Context, session tripload.Session, csvPath string) (FactResult, error) {
	table := schema.YellowTripData
	var result FactResult

	s.logger.Info("Creating %s table...", table.Name)
	if err := ensureTable(ctx, session, table); err != nil {
		return result, err
	}
	s.logger.Info("Yellow tripdata table created")

	f, err := openInput(csvPath, "trip data")
	if err != nil {
		return result, err
	}
	defer f.Close()

	header, body, err := readCSVHeader(f)
	if err != nil {
		return result, fmt.Errorf("trip data %s: %w", csvPath, err)
	}
	if err := validateHeader(header, table, nil); err != nil {
		return result, fmt.Errorf("trip data %s: %w", csvPath, err)
	}
	s.logger.Verbose("Copying columns: %v", header)

	s.logger.Info("Loading trip data CSV into postgres...")
	result.Copied, err = session.CopyFrom(ctx, body, table.CopySQL(header))
	if err != nil {
		return result, fmt.Errorf("failed to load %s: %w", csvPath, db.Classify(err, tripload.ErrBulkLoadFailed))
	}
	s.logger.Verbose("Copied %s rows", logging.FormatCount(result.Copied))

	result.Total, err = countRows(ctx, session, table)
	if err != nil {
		return result, err
	}
	s.logger.Info("Trip data loaded successfully! Total rows: %s", logging.FormatCount(result.Total))
	return result, nil
}
