package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/officelocation"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const officeLocationColumns = `team_id, latitude, longitude, radius_meters, updated_by, updated_at`

type officeLocationRepository struct {
	db *database.DB
}

func NewOfficeLocationRepository(db *database.DB) officelocation.OfficeLocationRepository {
	return &officeLocationRepository{db: db}
}

func scanOfficeLocation(row pgx.Row) (officelocation.OfficeLocation, error) {
	var o officelocation.OfficeLocation
	err := row.Scan(&o.TeamID, &o.Latitude, &o.Longitude, &o.RadiusMeters, &o.UpdatedBy, &o.UpdatedAt)
	return o, err
}

// GetByTeamID implements officelocation.OfficeLocationRepository.
func (r *officeLocationRepository) GetByTeamID(ctx context.Context, teamID string) (officelocation.OfficeLocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + officeLocationColumns + ` FROM office_locations WHERE team_id = $1`

	return scanOfficeLocation(q.QueryRow(ctx, query, teamID))
}

// Upsert implements officelocation.OfficeLocationRepository.
func (r *officeLocationRepository) Upsert(ctx context.Context, loc officelocation.OfficeLocation) (officelocation.OfficeLocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO office_locations (team_id, latitude, longitude, radius_meters, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (team_id) DO UPDATE
		SET latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			radius_meters = EXCLUDED.radius_meters,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + officeLocationColumns

	saved, err := scanOfficeLocation(q.QueryRow(ctx, query,
		loc.TeamID, loc.Latitude, loc.Longitude, loc.RadiusMeters, loc.UpdatedBy,
	))
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return officelocation.OfficeLocation{}, officelocation.ErrTeamNotFound
		}
		return officelocation.OfficeLocation{}, fmt.Errorf("failed to upsert office location: %w", err)
	}
	return saved, nil
}

// List implements officelocation.OfficeLocationRepository.
func (r *officeLocationRepository) List(ctx context.Context) ([]officelocation.OfficeLocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + officeLocationColumns + ` FROM office_locations ORDER BY updated_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query office locations: %w", err)
	}
	defer rows.Close()

	var locations []officelocation.OfficeLocation
	for rows.Next() {
		o, err := scanOfficeLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan office location: %w", err)
		}
		locations = append(locations, o)
	}
	return locations, rows.Err()
}
