package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection converts the containers of the report to GeoJSON point
// features carrying their fill state as properties
func FeatureCollection(r Report) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(r.Containers))}
	if len(r.Containers) == 0 {
		return fc
	}

	bounds := geom.NewBounds(geom.XY)
	for _, row := range r.Containers {
		point := geom.NewPointFlat(geom.XY, []float64{row.Lon, row.Lat})
		bounds.Extend(point)

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       row.ID,
			Geometry: point,
			Properties: map[string]interface{}{
				"name":        row.Name,
				"zone":        row.Zone,
				"fraction":    row.Fraction,
				"filling":     row.Filling,
				"capacity":    row.Capacity,
				"fill_ratio":  row.FillRatio,
				"overflowing": row.Overflowing,
				"unit":        r.Unit,
			},
		})
	}
	fc.BBox = bounds

	return fc
}

// WriteGeoJSON writes the containers of the report as a GeoJSON FeatureCollection
func WriteGeoJSON(w io.Writer, r Report) error {
	data, err := json.Marshal(FeatureCollection(r))
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}
	return nil
}
