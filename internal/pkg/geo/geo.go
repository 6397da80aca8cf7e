package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidRadius     = errors.New("invalid geofence radius")
)

type Point struct {
	Latitude  float64
	Longitude float64
}

// Validate rejects non-finite and out of range coordinates.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, p.Latitude)
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, p.Longitude)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	// Rounding can push h a hair above 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// IsWithinGeofence reports whether the current position lies within radiusMeters
// of the office. The boundary itself counts as inside.
func IsWithinGeofence(currentLat, currentLng, officeLat, officeLng, radiusMeters float64) (bool, error) {
	current := Point{Latitude: currentLat, Longitude: currentLng}
	office := Point{Latitude: officeLat, Longitude: officeLng}

	if err := current.Validate(); err != nil {
		return false, fmt.Errorf("current position: %w", err)
	}
	if err := office.Validate(); err != nil {
		return false, fmt.Errorf("office position: %w", err)
	}
	if math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) || radiusMeters < 0 {
		return false, fmt.Errorf("%w: %v", ErrInvalidRadius, radiusMeters)
	}

	return Distance(current, office) <= radiusMeters, nil
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
