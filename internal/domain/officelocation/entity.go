package officelocation

import (
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/geo"
)

// OfficeLocation is a team's geofence centre and radius.
type OfficeLocation struct {
	TeamID       string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	UpdatedBy    *string
	UpdatedAt    time.Time
}

func (o OfficeLocation) Point() geo.Point {
	return geo.Point{Latitude: o.Latitude, Longitude: o.Longitude}
}

// Contains runs the geofence check for a device position and returns the distance.
func (o OfficeLocation) Contains(lat, lng float64) (bool, float64, error) {
	inside, err := geo.IsWithinGeofence(lat, lng, o.Latitude, o.Longitude, o.RadiusMeters)
	if err != nil {
		return false, 0, err
	}
	return inside, geo.Distance(geo.Point{Latitude: lat, Longitude: lng}, o.Point()), nil
}
