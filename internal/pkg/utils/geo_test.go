package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMeters_IdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{28.6139, 77.2090},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
	}

	for _, p := range points {
		assert.Equal(t, 0.0, HaversineMeters(p[0], p[1], p[0], p[1]))
	}
}

func TestHaversineMeters_Symmetry(t *testing.T) {
	tests := []struct {
		name           string
		lat1, lon1     float64
		lat2, lon2     float64
	}{
		{"delhi pair", 28.6139, 77.2090, 28.6229, 77.2090},
		{"hemisphere crossing", -12.0464, -77.0428, 55.7558, 37.6173},
		{"antimeridian", 10, 179.9, 10, -179.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := HaversineMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			ba := HaversineMeters(tt.lat2, tt.lon2, tt.lat1, tt.lon1)
			assert.Equal(t, ab, ba)
		})
	}
}

func TestHaversineMeters_KnownDistances(t *testing.T) {
	// One degree of latitude is ~111.2 km; 0.009 degrees is ~1000 m.
	d := HaversineMeters(28.6139, 77.2090, 28.6229, 77.2090)
	assert.InDelta(t, 1000, d, 10)

	// Delhi to Mumbai, ~1150 km.
	d = HaversineMeters(28.6139, 77.2090, 19.0760, 72.8777)
	assert.InDelta(t, 1150000, d, 20000)
}

func TestHaversineMeters_OutOfDomainDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = HaversineMeters(1000, -999, -1000, 999)
	})
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(28.6139, 77.2090))
	assert.True(t, ValidateCoordinates(-90, -180))
	assert.True(t, ValidateCoordinates(90, 180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, -180.1))
}
