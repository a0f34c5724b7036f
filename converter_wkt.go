package osm2gpx

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// PrepareWKTPoint returns WKT representation of Point
func PrepareWKTPoint(pt orb.Point) string {
	return wkt.MarshalString(pt)
}

// writeCSV writes waypoints as ';'-separated values
//
//	source - string, source OSM entity (e.g. 'node/1')
//	name - string, name of waypoint (could be empty)
//	lon - float64, longitude
//	lat - float64, latitude
//	geom - geometry (WKT representation)
func writeCSV(w io.Writer, waypoints []Waypoint) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	err := writer.Write([]string{"source", "name", "lon", "lat", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, wpt := range waypoints {
		err = writer.Write([]string{
			wpt.Source.String(),
			wpt.Name,
			fmt.Sprintf("%f", wpt.Lon()),
			fmt.Sprintf("%f", wpt.Lat()),
			PrepareWKTPoint(wpt.Point),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write waypoint")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "Can't flush waypoints")
	}
	return nil
}
