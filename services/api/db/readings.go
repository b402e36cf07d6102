package db

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pollumap/pollumap/services/api/analytics"
)

// ReadingQuery holds filters for retrieving readings.
type ReadingQuery struct {
	StationID string
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

const readingsBase = `
    SELECT r.station_id, s.name, s.lat, s.lon, r.sample_ts, r.pol_a, r.pol_b, r.unit
    FROM pollumap.readings r
    JOIN pollumap.stations s ON s.id = r.station_id
    WHERE 1=1
`

// FetchReadings returns readings matching the query, joined with
// station metadata, ordered by sample timestamp.
func (s *Store) FetchReadings(ctx context.Context, q ReadingQuery) ([]analytics.Reading, error) {
	args := []any{}
	clause := ""
	argPos := 1
	if q.StationID != "" {
		clause += " AND r.station_id = $" + strconv.Itoa(argPos)
		args = append(args, q.StationID)
		argPos++
	}
	if q.Since != nil {
		clause += " AND r.sample_ts >= $" + strconv.Itoa(argPos)
		args = append(args, *q.Since)
		argPos++
	}
	if q.Until != nil {
		clause += " AND r.sample_ts <= $" + strconv.Itoa(argPos)
		args = append(args, *q.Until)
		argPos++
	}
	order := " ORDER BY r.sample_ts"
	limit := ""
	if q.Limit > 0 {
		limit = " LIMIT $" + strconv.Itoa(argPos)
		args = append(args, q.Limit)
	}

	sql := readingsBase + clause + order + limit

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]analytics.Reading, 0)
	for rows.Next() {
		var r analytics.Reading
		if err := rows.Scan(
			&r.StationID,
			&r.StationName,
			&r.Lat,
			&r.Lon,
			&r.SampleDate,
			&r.PollutantA,
			&r.PollutantB,
			&r.Unit,
		); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

const insertReadingSQL = `
INSERT INTO pollumap.readings (station_id, sample_ts, pol_a, pol_b, unit, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
ON CONFLICT (station_id, sample_ts) DO UPDATE
SET pol_a = EXCLUDED.pol_a,
    pol_b = EXCLUDED.pol_b,
    unit = EXCLUDED.unit,
    updated_at = NOW()`

// InsertReadings writes a reading batch, updating rows that collide
// on (station, timestamp).
func (s *Store) InsertReadings(ctx context.Context, readings []analytics.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range readings {
		batch.Queue(insertReadingSQL, r.StationID, r.SampleDate, r.PollutantA, r.PollutantB, r.Unit)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range readings {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}
