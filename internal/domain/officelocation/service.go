package officelocation

import "context"

type OfficeLocationService interface {
	Get(ctx context.Context, teamID string) (OfficeLocationResponse, error)
	Upsert(ctx context.Context, req UpsertOfficeLocationRequest) (OfficeLocationResponse, error)
	List(ctx context.Context) ([]OfficeLocationResponse, error)
	Check(ctx context.Context, req GeofenceCheckRequest) (GeofenceCheckResponse, error)
}
