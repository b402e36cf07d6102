package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pollumap/pollumap/services/api/analytics"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Station represents a station metadata record.
type Station struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const listStationsSQL = `
    SELECT id, name, lat, lon, unit, created_at, updated_at
    FROM pollumap.stations
    ORDER BY id
`

// ListStations returns all station metadata.
func (s *Store) ListStations(ctx context.Context) ([]Station, error) {
	rows, err := s.pool.Query(ctx, listStationsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]Station, 0)
	for rows.Next() {
		var st Station
		if err := rows.Scan(
			&st.ID,
			&st.Name,
			&st.Lat,
			&st.Lon,
			&st.Unit,
			&st.CreatedAt,
			&st.UpdatedAt,
		); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

const getStationSQL = `
    SELECT id, name, lat, lon, unit, created_at, updated_at
    FROM pollumap.stations
    WHERE id = $1
`

// GetStation returns one station, or nil when the id is unknown.
func (s *Store) GetStation(ctx context.Context, stationID string) (*Station, error) {
	row := s.pool.QueryRow(ctx, getStationSQL, stationID)

	var st Station
	if err := row.Scan(
		&st.ID,
		&st.Name,
		&st.Lat,
		&st.Lon,
		&st.Unit,
		&st.CreatedAt,
		&st.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &st, nil
}

const upsertStationSQL = `
INSERT INTO pollumap.stations (id, name, lat, lon, unit, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    lat = EXCLUDED.lat,
    lon = EXCLUDED.lon,
    unit = EXCLUDED.unit,
    updated_at = NOW()`

// UpsertStations inserts/updates station metadata records.
func (s *Store) UpsertStations(ctx context.Context, stations []Station) error {
	if len(stations) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, st := range stations {
		batch.Queue(upsertStationSQL, st.ID, st.Name, st.Lat, st.Lon, st.Unit)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range stations {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// StationsFromReadings derives the distinct station rows present in
// a reading batch, in first-seen order.
func StationsFromReadings(readings []analytics.Reading) []Station {
	seen := make(map[string]bool, len(readings))
	stations := make([]Station, 0)
	for _, r := range readings {
		if seen[r.StationID] {
			continue
		}
		seen[r.StationID] = true
		stations = append(stations, Station{
			ID:   r.StationID,
			Name: r.StationName,
			Lat:  r.Lat,
			Lon:  r.Lon,
			Unit: r.Unit,
		})
	}
	return stations
}
