package officelocation

import (
	"math"
	"testing"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfficeLocation_Contains(t *testing.T) {
	office := OfficeLocation{Latitude: 21.0285, Longitude: 105.8542, RadiusMeters: 100}

	inside, dist, err := office.Contains(21.0285, 105.8542)
	require.NoError(t, err)
	assert.True(t, inside)
	assert.Zero(t, dist)

	// ~0.01 deg of latitude is ~1.1km
	inside, dist, err = office.Contains(21.0385, 105.8542)
	require.NoError(t, err)
	assert.False(t, inside)
	assert.InDelta(t, 1112, dist, 5)

	_, _, err = office.Contains(math.NaN(), 105)
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

func TestUpsertOfficeLocationRequest_Validate(t *testing.T) {
	lat, lng, radius := 21.0, 105.0, 150.0
	req := UpsertOfficeLocationRequest{TeamID: "123e4567-e89b-12d3-a456-426614174000", Latitude: &lat, Longitude: &lng, RadiusMeters: &radius}
	assert.NoError(t, req.Validate())

	req.RadiusMeters = nil
	assert.NoError(t, req.Validate())

	zero := 0.0
	bad := 200.0
	req = UpsertOfficeLocationRequest{TeamID: "x", Latitude: &bad, RadiusMeters: &zero}
	assert.Error(t, req.Validate())
}
