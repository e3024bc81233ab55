package geo

import (
	"encoding/binary"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// RouteLine builds the planned pickup -> dropoff path as a WKB LINESTRING.
// Coordinates are stored lng-first (X/Y order).
func RouteLine(pickupLat, pickupLng, dropoffLat, dropoffLng float64) ([]byte, error) {
	line := geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{
		{pickupLng, pickupLat},
		{dropoffLng, dropoffLat},
	})
	return wkb.Marshal(line, binary.LittleEndian)
}

// ToGeoJSON converts WKB bytes into a GeoJSON string for API responses.
// Empty input yields an empty string.
func ToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
