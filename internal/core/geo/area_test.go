package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaKm2_EquatorialSquare(t *testing.T) {
	v := NewValidator()
	// ~1 degree square at the equator: roughly 111.3km x 111.3km in Web
	// Mercator terms.
	res := v.Validate([][]float64{
		{0, 0},
		{1, 0},
		{1, 1},
		{0, 1},
		{0, 0},
	})
	require.True(t, res.Valid)

	km2 := AreaKm2(res.Polygon)
	assert.InDelta(t, 12392, km2, 100)
}

func TestAreaKm2_ScalesWithSize(t *testing.T) {
	v := NewValidator()

	small := v.Validate([][]float64{{0, 0}, {0.1, 0}, {0.1, 0.1}, {0, 0.1}, {0, 0}})
	large := v.Validate([][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}})
	require.True(t, small.Valid)
	require.True(t, large.Valid)

	assert.Greater(t, AreaKm2(large.Polygon), AreaKm2(small.Polygon))
	assert.InDelta(t, 100, AreaKm2(large.Polygon)/AreaKm2(small.Polygon), 2)
}
