package osm2gpx

import (
	"io"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// PrepareGeoJSONCollection returns FeatureCollection with Point feature per waypoint.
// Feature ID is the source entity (e.g. 'way/42'), 'name' property is set for named waypoints only
func PrepareGeoJSONCollection(waypoints []Waypoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, wpt := range waypoints {
		feature := geojson.NewPointFeature([]float64{wpt.Lon(), wpt.Lat()})
		feature.ID = wpt.Source.String()
		if wpt.HasName() {
			feature.SetProperty("name", wpt.Name)
		}
		fc.AddFeature(feature)
	}
	return fc
}

// writeGeoJSON writes waypoints as GeoJSON FeatureCollection
func writeGeoJSON(w io.Writer, waypoints []Waypoint) error {
	b, err := PrepareGeoJSONCollection(waypoints).MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Can't encode GeoJSON")
	}
	_, err = w.Write(b)
	if err != nil {
		return errors.Wrap(err, "Can't write GeoJSON")
	}
	return nil
}
