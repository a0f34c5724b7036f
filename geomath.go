package osm2gpx

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/osm"
)

// nodePoint returns node position as (lon, lat) point
func nodePoint(node *osm.Node) orb.Point {
	return orb.Point{node.Lon, node.Lat}
}

// planarCentroid returns arithmetic mean of longitudes and latitudes of given points.
// Returns false for empty input
//
// Note: no projection is applied, so it is an approximation for small areas only
func planarCentroid(pts orb.MultiPoint) (orb.Point, bool) {
	if len(pts) == 0 {
		return orb.Point{}, false
	}
	centroid, _ := planar.CentroidArea(pts)
	return centroid, true
}
