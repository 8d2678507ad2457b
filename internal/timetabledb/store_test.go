package timetabledb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raptor.opentransit.org/internal/appconf"
	"raptor.opentransit.org/internal/timetable"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func buildTestTimetable() *timetable.Timetable {
	tt := timetable.New()
	stationA := tt.AddStation("A")
	stationC := tt.AddStation("C")
	a := tt.AddStop("a_1", "1", stationA, 52.1, 4.9)
	c1 := tt.AddStop("c_1", "1", stationC, 52.2, 5.0)
	c2 := tt.AddStop("c_2", "2", stationC, 52.2, 5.0)

	trip := tt.AddTrip(101, "Sprinter 101")
	tt.AddStopTime(trip, a, 100, 100, 0)
	tt.AddStopTime(trip, c1, 600, 600, 2.5)

	tt.AddTransferPair(c1, c2, 120)
	tt.Finalize()
	return tt
}

func TestNewClientRejectsFileDBInTestEnv(t *testing.T) {
	_, err := NewClient(NewConfig("/tmp/should_not_exist.db", appconf.Test, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in-memory")
}

func TestGetImportMetadataEmptyStore(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetImportMetadata(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveAndLoadTimetable(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	original := buildTestTimetable()

	require.NoError(t, client.SaveTimetable(ctx, original, "deadbeef", "test.zip"))

	meta, err := client.GetImportMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", meta.FileHash)
	assert.Equal(t, "test.zip", meta.FileSource)

	loaded, err := client.LoadTimetable(ctx)
	require.NoError(t, err)

	assert.Len(t, loaded.Stations, len(original.Stations))
	assert.Equal(t, original.StopCount(), loaded.StopCount())
	assert.Len(t, loaded.Trips, len(original.Trips))
	assert.Len(t, loaded.Transfers, len(original.Transfers))

	stop := loaded.Stop("c_1")
	require.NotNil(t, stop)
	assert.Equal(t, "C", stop.Station.Name)
	assert.Equal(t, "C-1", stop.DisplayID())

	trip := loaded.Trips[0]
	assert.Equal(t, 101, trip.Hint)
	assert.Equal(t, "Sprinter 101", trip.LongName)
	require.Len(t, trip.StopTimes, 2)
	assert.Equal(t, 600, trip.StopTimes[1].Arrival)
	assert.Equal(t, 2.5, trip.StopTimes[1].Fare)

	transfer := loaded.TransferBetween(loaded.Stop("c_1"), loaded.Stop("c_2"))
	require.NotNil(t, transfer)
	assert.Equal(t, 120, transfer.Layover)

	// Finalize ran during load, so the pattern index is queryable.
	assert.NotEmpty(t, loaded.RoutesServing(loaded.Stop("a_1")))
}

func TestSaveTimetableSkipsUnchangedImport(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	tt := buildTestTimetable()

	require.NoError(t, client.SaveTimetable(ctx, tt, "cafe", "feed.zip"))
	before, err := client.GetImportMetadata(ctx)
	require.NoError(t, err)

	// Same hash and source: the import must be skipped and metadata kept.
	require.NoError(t, client.SaveTimetable(ctx, tt, "cafe", "feed.zip"))
	after, err := client.GetImportMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.ImportTime, after.ImportTime)
}

func TestSaveTimetableReplacesChangedImport(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveTimetable(ctx, buildTestTimetable(), "aaaa", "feed.zip"))

	smaller := timetable.New()
	station := smaller.AddStation("B")
	smaller.AddStop("b_1", "1", station, 0, 0)
	smaller.Finalize()

	require.NoError(t, client.SaveTimetable(ctx, smaller, "bbbb", "feed.zip"))

	loaded, err := client.LoadTimetable(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.StopCount())
	assert.Empty(t, loaded.Trips)
}

func TestLoadTimetableEmptyStore(t *testing.T) {
	client := newTestClient(t)

	_, err := client.LoadTimetable(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
