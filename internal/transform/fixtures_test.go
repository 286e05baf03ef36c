package transform

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/tripload/internal/testing/fixtures"
)

func sampleTrips() []fixtures.TripRow {
	return fixtures.SampleTrips()
}

func writeTripParquet(t *testing.T, rows []fixtures.TripRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yellow_tripdata_2025-01.parquet")
	require.NoError(t, fixtures.WriteTrips(path, rows))
	return path
}

func writeNarrow[T any](path string, rows []T) error {
	return parquet.WriteFile(path, rows)
}
