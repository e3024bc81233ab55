package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteLineToGeoJSON(t *testing.T) {
	wkbBytes, err := RouteLine(10.5, 20.25, -3.0, 4.75)
	require.NoError(t, err)
	require.NotEmpty(t, wkbBytes)

	geojson, err := ToGeoJSON(wkbBytes)
	require.NoError(t, err)
	assert.Contains(t, geojson, `"LineString"`)
	assert.Contains(t, geojson, "20.25")
	assert.Contains(t, geojson, "10.5")
	assert.Contains(t, geojson, "4.75")
}

func TestToGeoJSONEmptyInput(t *testing.T) {
	out, err := ToGeoJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestToGeoJSONGarbage(t *testing.T) {
	_, err := ToGeoJSON([]byte{0x01, 0x02})
	assert.Error(t, err)
}
