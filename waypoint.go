package osm2gpx

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// Waypoint Resolved position of matched OSM entity
type Waypoint struct {
	Point orb.Point
	// Empty when neither entity has a 'name' tag nor default name has been provided
	Name string
	// Entity which has been matched by tag expression
	Source osm.FeatureID
}

// NewWaypoint returns waypoint for given position
func NewWaypoint(pt orb.Point, name string, source osm.FeatureID) Waypoint {
	return Waypoint{
		Point:  pt,
		Name:   name,
		Source: source,
	}
}

// Lon returns longitude
func (wpt Waypoint) Lon() float64 {
	return wpt.Point.Lon()
}

// Lat returns latitude
func (wpt Waypoint) Lat() float64 {
	return wpt.Point.Lat()
}

// HasName checks if waypoint is named
func (wpt Waypoint) HasName() bool {
	return wpt.Name != ""
}

// String returns pretty printed value for Waypoint
func (wpt Waypoint) String() string {
	return fmt.Sprintf("Name: '%s' | Lon: %f | Lat: %f | Source: %s", wpt.Name, wpt.Lon(), wpt.Lat(), wpt.Source)
}
