package osm2gpx

import (
	"sort"

	"github.com/paulmach/osm"
)

// Graph is read-only view over materialized OSM entities.
// Lookups may miss: the loader is allowed to omit dependencies which are not present in the source
type Graph interface {
	Get(id osm.FeatureID) (osm.Object, bool)
	Objects() []osm.Object
}

// EntityGraph In-memory implementation of Graph
type EntityGraph struct {
	objects map[osm.FeatureID]osm.Object
}

// NewEntityGraph returns empty graph
func NewEntityGraph() *EntityGraph {
	return &EntityGraph{
		objects: make(map[osm.FeatureID]osm.Object),
	}
}

// Add puts node, way or relation into the graph. Returns false for unsupported objects
func (graph *EntityGraph) Add(obj osm.Object) bool {
	fid, ok := EntityID(obj)
	if !ok {
		return false
	}
	graph.objects[fid] = obj
	return true
}

// Get returns object by its identifier
func (graph *EntityGraph) Get(id osm.FeatureID) (osm.Object, bool) {
	obj, ok := graph.objects[id]
	return obj, ok
}

// Has checks if object with given identifier is present
func (graph *EntityGraph) Has(id osm.FeatureID) bool {
	_, ok := graph.objects[id]
	return ok
}

// Len returns number of objects
func (graph *EntityGraph) Len() int {
	return len(graph.objects)
}

// Objects returns all objects: nodes first, then ways, then relations, ascending by ID within each kind
func (graph *EntityGraph) Objects() []osm.Object {
	ids := make([]osm.FeatureID, 0, len(graph.objects))
	for fid := range graph.objects {
		ids = append(ids, fid)
	}
	sort.Slice(ids, func(i, j int) bool {
		return lessFeatureID(ids[i], ids[j])
	})
	objs := make([]osm.Object, len(ids))
	for i, fid := range ids {
		objs[i] = graph.objects[fid]
	}
	return objs
}
