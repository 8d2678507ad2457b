package timetabledb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"raptor.opentransit.org/internal/logging"
	"raptor.opentransit.org/internal/timetable"
)

// ImportMetadata records what feed data the current snapshot was built
// from.
type ImportMetadata struct {
	FileHash   string
	FileSource string
	ImportTime int64
}

// GetImportMetadata returns the metadata of the stored snapshot, or
// sql.ErrNoRows when the store is empty.
func (c *Client) GetImportMetadata(ctx context.Context) (ImportMetadata, error) {
	var meta ImportMetadata
	err := c.DB.QueryRowContext(ctx,
		`SELECT file_hash, file_source, import_time FROM import_metadata WHERE id = 1`).
		Scan(&meta.FileHash, &meta.FileSource, &meta.ImportTime)
	return meta, err
}

// SaveTimetable replaces the stored snapshot with the given timetable.
// When the hash and source match the stored metadata the import is
// skipped entirely, which makes restarts against an unchanged feed cheap.
func (c *Client) SaveTimetable(ctx context.Context, tt *timetable.Timetable, hash, source string) error {
	logger := slog.Default().With(slog.String("component", "timetable_store"))

	existing, err := c.GetImportMetadata(ctx)
	if err == nil {
		if existing.FileHash == hash && existing.FileSource == source {
			logging.LogOperation(logger, "timetable_unchanged_skipping_import",
				slog.String("hash", shortHash(hash)))
			return nil
		}
		logging.LogOperation(logger, "timetable_changed_reimporting",
			slog.String("old_hash", shortHash(existing.FileHash)),
			slog.String("new_hash", shortHash(hash)))
	} else if err != sql.ErrNoRows {
		return fmt.Errorf("error checking import metadata: %w", err)
	}

	startTime := time.Now()

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer logging.SafeRollbackWithLogging(tx, logger, "save_timetable")

	for _, table := range []string{"stop_times", "transfers", "trips", "stops", "stations", "import_metadata"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	for _, station := range tt.Stations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stations (name) VALUES (?)`, station.Name); err != nil {
			return fmt.Errorf("unable to store station: %w", err)
		}
	}

	for _, stop := range tt.Stops {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stops (id, station_name, platform_code, lat, lon) VALUES (?, ?, ?, ?, ?)`,
			stop.ID, stop.Station.Name, stop.PlatformCode, stop.Lat, stop.Lon); err != nil {
			return fmt.Errorf("unable to store stop: %w", err)
		}
	}

	for _, trip := range tt.Trips {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO trips (hint, long_name) VALUES (?, ?)`, trip.Hint, trip.LongName)
		if err != nil {
			return fmt.Errorf("unable to store trip: %w", err)
		}
		tripID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("unable to read trip row ID: %w", err)
		}
		for _, tst := range trip.StopTimes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO stop_times (trip_id, position, stop_id, arrival, departure, fare)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				tripID, tst.Position, tst.Stop.ID, tst.Arrival, tst.Departure, tst.Fare); err != nil {
				return fmt.Errorf("unable to store stop time: %w", err)
			}
		}
	}

	for _, transfer := range tt.Transfers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transfers (from_stop_id, to_stop_id, layover) VALUES (?, ?, ?)`,
			transfer.From.ID, transfer.To.ID, transfer.Layover); err != nil {
			return fmt.Errorf("unable to store transfer: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO import_metadata (id, file_hash, file_source, import_time) VALUES (1, ?, ?, ?)`,
		hash, source, time.Now().Unix()); err != nil {
		return fmt.Errorf("error updating import metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	logging.LogOperation(logger, "timetable_snapshot_saved",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("stops", len(tt.Stops)),
		slog.Int("trips", len(tt.Trips)),
		slog.String("source", source))

	return nil
}

// LoadTimetable rebuilds a finalized timetable from the stored snapshot.
// Returns sql.ErrNoRows when the store is empty.
func (c *Client) LoadTimetable(ctx context.Context) (*timetable.Timetable, error) {
	if _, err := c.GetImportMetadata(ctx); err != nil {
		return nil, err
	}

	tt := timetable.New()

	stopRows, err := c.DB.QueryContext(ctx,
		`SELECT id, station_name, platform_code, lat, lon FROM stops ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("unable to load stops: %w", err)
	}
	defer func() { _ = stopRows.Close() }()
	for stopRows.Next() {
		var id, stationName, platformCode string
		var lat, lon float64
		if err := stopRows.Scan(&id, &stationName, &platformCode, &lat, &lon); err != nil {
			return nil, err
		}
		station := tt.AddStation(stationName)
		tt.AddStop(id, platformCode, station, lat, lon)
	}
	if err := stopRows.Err(); err != nil {
		return nil, err
	}

	tripRows, err := c.DB.QueryContext(ctx,
		`SELECT id, hint, long_name FROM trips ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("unable to load trips: %w", err)
	}
	defer func() { _ = tripRows.Close() }()
	trips := make(map[int64]*timetable.Trip)
	for tripRows.Next() {
		var id int64
		var hint int
		var longName string
		if err := tripRows.Scan(&id, &hint, &longName); err != nil {
			return nil, err
		}
		trips[id] = tt.AddTrip(hint, longName)
	}
	if err := tripRows.Err(); err != nil {
		return nil, err
	}

	stopTimeRows, err := c.DB.QueryContext(ctx,
		`SELECT trip_id, stop_id, arrival, departure, fare FROM stop_times ORDER BY trip_id, position`)
	if err != nil {
		return nil, fmt.Errorf("unable to load stop times: %w", err)
	}
	defer func() { _ = stopTimeRows.Close() }()
	for stopTimeRows.Next() {
		var tripID int64
		var stopID string
		var arrival, departure int
		var fare float64
		if err := stopTimeRows.Scan(&tripID, &stopID, &arrival, &departure, &fare); err != nil {
			return nil, err
		}
		trip, stop := trips[tripID], tt.Stop(stopID)
		if trip == nil || stop == nil {
			return nil, fmt.Errorf("stop time references unknown trip %d or stop %q", tripID, stopID)
		}
		tt.AddStopTime(trip, stop, arrival, departure, fare)
	}
	if err := stopTimeRows.Err(); err != nil {
		return nil, err
	}

	transferRows, err := c.DB.QueryContext(ctx,
		`SELECT from_stop_id, to_stop_id, layover FROM transfers`)
	if err != nil {
		return nil, fmt.Errorf("unable to load transfers: %w", err)
	}
	defer func() { _ = transferRows.Close() }()
	for transferRows.Next() {
		var fromID, toID string
		var layover int
		if err := transferRows.Scan(&fromID, &toID, &layover); err != nil {
			return nil, err
		}
		from, to := tt.Stop(fromID), tt.Stop(toID)
		if from == nil || to == nil {
			return nil, fmt.Errorf("transfer references unknown stop %q or %q", fromID, toID)
		}
		tt.AddTransfer(from, to, layover)
	}
	if err := transferRows.Err(); err != nil {
		return nil, err
	}

	tt.Finalize()
	return tt, nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
