package officelocation

import "context"

type OfficeLocationRepository interface {
	GetByTeamID(ctx context.Context, teamID string) (OfficeLocation, error)
	Upsert(ctx context.Context, loc OfficeLocation) (OfficeLocation, error)
	List(ctx context.Context) ([]OfficeLocation, error)
}
