package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/vvka-141/tripload/internal/testing"
	"github.com/vvka-141/tripload/pkg/tripload"
)

func TestConstraintStage_AddsAllKeys(t *testing.T) {
	session := newFakeSession()
	logger := testhelpers.NewRecordingLogger()

	results, err := NewConstraintStage(logger).Run(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, []tripload.ConstraintResult{
		{Name: "fk_vendor", Added: true},
		{Name: "fk_rate_code", Added: true},
		{Name: "fk_payment_type", Added: true},
		{Name: "fk_pickup_location", Added: true},
		{Name: "fk_dropoff_location", Added: true},
	}, results)
	assert.Equal(t,
		"ALTER TABLE yellow_tripdata ADD CONSTRAINT fk_pickup_location FOREIGN KEY (PULocationID) REFERENCES taxi_zones(LocationID)",
		session.execs[3])
	assert.Equal(t, []string{
		"Adding foreign key constraints...",
		"✓ Vendor foreign key added",
		"✓ Rate code foreign key added",
		"✓ Payment type foreign key added",
		"✓ Pickup location foreign key added",
		"✓ Dropoff location foreign key added",
		"All foreign keys configured!",
	}, logger.Messages("INFO"))
}

func TestConstraintStage_SkipsExistingKeys(t *testing.T) {
	session := newFakeSession()
	session.constraints["fk_vendor"] = true
	session.constraints["fk_dropoff_location"] = true

	results, err := NewConstraintStage(testhelpers.NewRecordingLogger()).Run(context.Background(), session)
	require.NoError(t, err)

	assert.True(t, results[0].Existed)
	assert.True(t, results[1].Added)
	assert.True(t, results[4].Existed)
	assert.Len(t, session.execs, 3)
}

func TestConstraintStage_IsIdempotent(t *testing.T) {
	session := newFakeSession()
	stage := NewConstraintStage(testhelpers.NewRecordingLogger())

	_, err := stage.Run(context.Background(), session)
	require.NoError(t, err)
	results, err := stage.Run(context.Background(), session)
	require.NoError(t, err)

	assert.Len(t, session.execs, 5, "second run adds nothing")
	for _, r := range results {
		assert.True(t, r.Existed, r.Name)
	}
}

func TestConstraintStage_DanglingReference(t *testing.T) {
	session := newFakeSession()
	violation := &pgconn.PgError{
		Code:           "23503",
		Message:        `insert or update on table "yellow_tripdata" violates foreign key constraint "fk_pickup_location"`,
		ConstraintName: "fk_pickup_location",
	}
	session.execErrs["fk_pickup_location"] = violation

	results, err := NewConstraintStage(testhelpers.NewRecordingLogger()).Run(context.Background(), session)

	require.Error(t, err)
	assert.ErrorIs(t, err, tripload.ErrConstraintViolation)
	assert.ErrorIs(t, err, violation)
	assert.Contains(t, err.Error(), "fk_pickup_location")
	assert.Len(t, results, 3, "the keys before the failing one stay in place")
	assert.False(t, session.constraints["fk_dropoff_location"], "nothing runs after the failure")
}
