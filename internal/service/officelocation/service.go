package officelocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/officelocation"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5"
)

type OfficeLocationServiceImpl struct {
	officelocation.OfficeLocationRepository
	defaultRadiusMeters float64
}

func NewOfficeLocationService(repository officelocation.OfficeLocationRepository, defaultRadiusMeters float64) officelocation.OfficeLocationService {
	return &OfficeLocationServiceImpl{
		OfficeLocationRepository: repository,
		defaultRadiusMeters:      defaultRadiusMeters,
	}
}

// Get implements officelocation.OfficeLocationService.
func (s *OfficeLocationServiceImpl) Get(ctx context.Context, teamID string) (officelocation.OfficeLocationResponse, error) {
	office, err := s.OfficeLocationRepository.GetByTeamID(ctx, teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return officelocation.OfficeLocationResponse{}, officelocation.ErrOfficeLocationNotFound
		}
		return officelocation.OfficeLocationResponse{}, fmt.Errorf("failed to get office location: %w", err)
	}
	return officelocation.NewOfficeLocationResponse(office), nil
}

// Upsert implements officelocation.OfficeLocationService.
func (s *OfficeLocationServiceImpl) Upsert(ctx context.Context, req officelocation.UpsertOfficeLocationRequest) (officelocation.OfficeLocationResponse, error) {
	if err := req.Validate(); err != nil {
		return officelocation.OfficeLocationResponse{}, err
	}

	var updatedBy *string
	if claims, err := jwt.ClaimsFromContext(ctx); err == nil {
		updatedBy = &claims.UserID
	}

	radius := s.defaultRadiusMeters
	if req.RadiusMeters != nil {
		radius = *req.RadiusMeters
	}

	saved, err := s.OfficeLocationRepository.Upsert(ctx, officelocation.OfficeLocation{
		TeamID:       req.TeamID,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		RadiusMeters: radius,
		UpdatedBy:    updatedBy,
	})
	if err != nil {
		if errors.Is(err, officelocation.ErrTeamNotFound) {
			return officelocation.OfficeLocationResponse{}, err
		}
		return officelocation.OfficeLocationResponse{}, fmt.Errorf("failed to save office location: %w", err)
	}

	slog.Info("Office location updated", "team_id", saved.TeamID, "radius_meters", saved.RadiusMeters)
	return officelocation.NewOfficeLocationResponse(saved), nil
}

// List implements officelocation.OfficeLocationService.
func (s *OfficeLocationServiceImpl) List(ctx context.Context) ([]officelocation.OfficeLocationResponse, error) {
	offices, err := s.OfficeLocationRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list office locations: %w", err)
	}

	responses := make([]officelocation.OfficeLocationResponse, 0, len(offices))
	for _, o := range offices {
		responses = append(responses, officelocation.NewOfficeLocationResponse(o))
	}
	return responses, nil
}

// Check implements officelocation.OfficeLocationService.
func (s *OfficeLocationServiceImpl) Check(ctx context.Context, req officelocation.GeofenceCheckRequest) (officelocation.GeofenceCheckResponse, error) {
	if err := req.Validate(); err != nil {
		return officelocation.GeofenceCheckResponse{}, err
	}

	office, err := s.OfficeLocationRepository.GetByTeamID(ctx, req.TeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return officelocation.GeofenceCheckResponse{}, officelocation.ErrOfficeLocationNotFound
		}
		return officelocation.GeofenceCheckResponse{}, fmt.Errorf("failed to get office location: %w", err)
	}

	inside, distance, err := office.Contains(*req.Latitude, *req.Longitude)
	if err != nil {
		return officelocation.GeofenceCheckResponse{}, err
	}

	return officelocation.GeofenceCheckResponse{
		TeamID:         office.TeamID,
		Inside:         inside,
		DistanceMeters: distance,
		RadiusMeters:   office.RadiusMeters,
	}, nil
}
