package osm2gpx

import (
	"io"

	"github.com/pkg/errors"
	"github.com/tkrajina/gpxgo/gpx"
)

const gpxCreator = "osm2gpx"

// PrepareGPX returns GPX 1.1 document with one waypoint per given Waypoint
func PrepareGPX(waypoints []Waypoint) *gpx.GPX {
	doc := &gpx.GPX{
		Version:   "1.1",
		Creator:   gpxCreator,
		Waypoints: make([]gpx.GPXPoint, 0, len(waypoints)),
	}
	for _, wpt := range waypoints {
		doc.Waypoints = append(doc.Waypoints, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  wpt.Lat(),
				Longitude: wpt.Lon(),
			},
			Name: wpt.Name,
		})
	}
	return doc
}

// writeGPX writes waypoints as GPX 1.1 document
func writeGPX(w io.Writer, waypoints []Waypoint) error {
	b, err := PrepareGPX(waypoints).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return errors.Wrap(err, "Can't encode GPX")
	}
	_, err = w.Write(b)
	if err != nil {
		return errors.Wrap(err, "Can't write GPX")
	}
	return nil
}
