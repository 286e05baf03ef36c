package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/vvka-141/tripload/internal/testing"
	"github.com/vvka-141/tripload/internal/testing/fixtures"
	"github.com/vvka-141/tripload/pkg/tripload"
)

func writeZones(t *testing.T, records [][]string, withBOM bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxi_zone_lookup.csv")
	require.NoError(t, fixtures.WriteZoneLookup(path, records, withBOM))
	return path
}

func TestReferenceStage_PopulatesEmptyTables(t *testing.T) {
	session := newFakeSession()
	logger := testhelpers.NewRecordingLogger()
	lookup := writeZones(t, fixtures.ZoneRecords(), false)

	results, err := NewReferenceStage(logger).Run(context.Background(), session, lookup)
	require.NoError(t, err)

	assert.Equal(t, []tripload.ReferenceResult{
		{Table: "vendors", Inserted: 4, Total: 4},
		{Table: "rate_codes", Inserted: 7, Total: 7},
		{Table: "payment_types", Inserted: 7, Total: 7},
		{Table: "taxi_zones", Inserted: fixtures.ZoneCount, Total: fixtures.ZoneCount},
	}, results)

	assert.Len(t, session.execsContaining("CREATE TABLE IF NOT EXISTS"), 4)
	require.Len(t, session.copies, 1)
	assert.Equal(t,
		`COPY taxi_zones ("locationid", "borough", "zone", "service_zone") FROM STDIN WITH (FORMAT csv, HEADER true)`,
		session.copies[0].sql)

	assert.Equal(t, []string{
		"Creating vendors table...",
		"Vendors table populated",
		"Creating rate_codes table...",
		"Rate codes table populated",
		"Creating payment_types table...",
		"Payment types table populated",
		"Creating taxi_zones table...",
		"Loading taxi zone lookup from " + lookup + "...",
		"Taxi zones loaded: 265",
	}, logger.Messages("INFO"))
}

func TestReferenceStage_SecondRunSkipsPopulatedTables(t *testing.T) {
	session := newFakeSession()
	lookup := writeZones(t, fixtures.ZoneRecords(), false)
	stage := NewReferenceStage(testhelpers.NewRecordingLogger())

	_, err := stage.Run(context.Background(), session, lookup)
	require.NoError(t, err)
	before := map[string]int64{}
	for k, v := range session.counts {
		before[k] = v
	}

	results, err := stage.Run(context.Background(), session, lookup)
	require.NoError(t, err)

	assert.Equal(t, before, session.counts, "row counts must not change on a second run")
	assert.Len(t, session.execsContaining("INSERT INTO"), 3, "enumerations inserted only by the first run")
	assert.Len(t, session.copies, 1, "zones copied only by the first run")
	for _, r := range results {
		assert.True(t, r.Skipped, "%s should be skipped", r.Table)
		assert.Zero(t, r.Inserted)
	}
}

func TestReferenceStage_PartiallyPopulated(t *testing.T) {
	session := newFakeSession()
	session.counts["rate_codes"] = 2
	logger := testhelpers.NewRecordingLogger()

	results, err := NewReferenceStage(logger).Run(context.Background(), session, writeZones(t, fixtures.ZoneRecords(), false))
	require.NoError(t, err)

	assert.True(t, results[1].Skipped)
	assert.Equal(t, int64(2), results[1].Total, "a non-empty table is never topped up")
	assert.False(t, results[0].Skipped)
	assert.Contains(t, logger.Messages("INFO"), "Rate codes table already populated")
}

func TestReferenceStage_ZoneLookupWithBOM(t *testing.T) {
	session := newFakeSession()
	lookup := writeZones(t, fixtures.ZoneRecords(), true)

	_, err := NewReferenceStage(testhelpers.NewRecordingLogger()).Run(context.Background(), session, lookup)
	require.NoError(t, err)

	require.Len(t, session.copies, 1)
	assert.True(t, strings.HasPrefix(session.copies[0].body, "LocationID,"), "byte order mark must be stripped, got %q", session.copies[0].body[:12])
	assert.Equal(t, int64(fixtures.ZoneCount), session.counts["taxi_zones"])
}

func TestReferenceStage_MissingLookupFile(t *testing.T) {
	session := newFakeSession()
	missing := filepath.Join(t.TempDir(), "taxi_zone_lookup.csv")

	results, err := NewReferenceStage(testhelpers.NewRecordingLogger()).Run(context.Background(), session, missing)

	assert.ErrorIs(t, err, tripload.ErrSourceNotFound)
	assert.Len(t, results, 3, "enumerations are loaded before the lookup file is needed")
	assert.Empty(t, session.copies)
}

func TestReferenceStage_MissingLookupIgnoredWhenPopulated(t *testing.T) {
	session := newFakeSession()
	session.counts["taxi_zones"] = fixtures.ZoneCount
	missing := filepath.Join(t.TempDir(), "taxi_zone_lookup.csv")

	results, err := NewReferenceStage(testhelpers.NewRecordingLogger()).Run(context.Background(), session, missing)

	require.NoError(t, err)
	assert.True(t, results[3].Skipped)
}

func TestReferenceStage_ZoneHeaderMismatch(t *testing.T) {
	records := fixtures.ZoneRecords()
	records[0] = []string{"LocationID", "Borough", "Zone"}
	for i := 1; i < len(records); i++ {
		records[i] = records[i][:3]
	}
	session := newFakeSession()

	_, err := NewReferenceStage(testhelpers.NewRecordingLogger()).Run(context.Background(), session, writeZones(t, records, false))

	assert.ErrorIs(t, err, tripload.ErrSchemaMismatch)
	assert.ErrorContains(t, err, "service_zone")
	assert.Empty(t, session.copies)
}

func TestReferenceStage_CopyFailure(t *testing.T) {
	session := newFakeSession()
	session.copyErr = errors.New("extra data after last expected column")

	_, err := NewReferenceStage(testhelpers.NewRecordingLogger()).Run(context.Background(), session, writeZones(t, fixtures.ZoneRecords(), false))

	assert.ErrorIs(t, err, tripload.ErrBulkLoadFailed)
	assert.ErrorIs(t, err, session.copyErr)
}

func TestReferenceStage_CreateFailure(t *testing.T) {
	session := newFakeSession()
	denied := errors.New("permission denied for schema public")
	session.execErrs["CREATE TABLE IF NOT EXISTS vendors"] = denied

	results, err := NewReferenceStage(testhelpers.NewRecordingLogger()).Run(context.Background(), session, "unused.csv")

	assert.ErrorIs(t, err, tripload.ErrExecutionFailed)
	assert.ErrorIs(t, err, denied)
	assert.Empty(t, results)
	assert.Len(t, session.execs, 1, "nothing runs after the failure")
}

func TestNewReferenceStage_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() { NewReferenceStage(nil) })
}
