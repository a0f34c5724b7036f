package osm2gpx

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

const (
	// DefaultMaxIterations is the default number of work list pops allowed for single Resolve call
	DefaultMaxIterations = 1000
)

var (
	// ErrResolutionOverflow is returned when dependency walk exceeds pop ceiling (cyclic or too deep relations)
	ErrResolutionOverflow = errors.New("too many dependencies to search for")
)

// OverflowError Details of pop ceiling violation
type OverflowError struct {
	Start         osm.FeatureID
	MaxIterations int
}

func (err *OverflowError) Error() string {
	return fmt.Sprintf("%s: started with %s, ceiling is %d", ErrResolutionOverflow.Error(), err.Start, err.MaxIterations)
}

// Unwrap allows errors.Is(err, ErrResolutionOverflow)
func (err *OverflowError) Unwrap() error {
	return ErrResolutionOverflow
}

// Resolver walks dependencies of matched entity until coordinate is found
type Resolver struct {
	maxIterations int
	centroids     *lru.Cache[osm.WayID, orb.Point]
}

func (resolver *Resolver) String() string {
	return fmt.Sprintf(`
Resolver parameters:
	max_iterations: %d
	centroid cache enabled?: %t
	`,
		resolver.maxIterations,
		resolver.centroids != nil,
	)
}

// NewResolver returns resolver with DefaultMaxIterations ceiling and no centroid cache
func NewResolver(options ...func(*Resolver)) *Resolver {
	resolver := &Resolver{
		maxIterations: DefaultMaxIterations,
	}
	for _, option := range options {
		option(resolver)
	}
	return resolver
}

// WithMaxIterations sets pop ceiling. Non-positive values are ignored
func WithMaxIterations(maxIterations int) func(*Resolver) {
	return func(resolver *Resolver) {
		if maxIterations > 0 {
			resolver.maxIterations = maxIterations
		}
	}
}

// WithCentroidCache enables LRU cache of way centroids. Non-positive size disables cache
//
// Note: cache is valid only while the resolver is used against single graph
func WithCentroidCache(size int) func(*Resolver) {
	return func(resolver *Resolver) {
		if size <= 0 {
			resolver.centroids = nil
			return
		}
		cache, err := lru.New[osm.WayID, orb.Point](size)
		if err != nil {
			return
		}
		resolver.centroids = cache
	}
}

// MaxIterations returns pop ceiling
func (resolver *Resolver) MaxIterations() int {
	return resolver.maxIterations
}

// Resolve returns waypoint for the given entity.
// Name of the waypoint is taken from 'name' tag of the start entity; defaultName is used when there is no such tag.
//
// Dependencies are processed depth-first: the most recently pushed identifier is popped first.
// First node found in the graph (or first way having at least one node in the graph) terminates the walk.
//
// Returns (nil, nil) when dependencies are exhausted without any coordinate and *OverflowError when pop ceiling is exceeded
func (resolver *Resolver) Resolve(graph Graph, start osm.Object, defaultName string) (*Waypoint, error) {
	source, ok := EntityID(start)
	if !ok {
		return nil, fmt.Errorf("can't resolve object %v: only nodes, ways and relations are supported", start.ObjectID())
	}
	name, ok := findTag(EntityTags(start), "name")
	if !ok {
		name = defaultName
	}

	deps := Dependencies(start)
	pops := 0
	for len(deps) > 0 {
		if pops >= resolver.maxIterations {
			return nil, &OverflowError{Start: source, MaxIterations: resolver.maxIterations}
		}
		pops++
		fid := deps[len(deps)-1]
		deps = deps[:len(deps)-1]

		switch fid.Type() {
		case osm.TypeNode:
			obj, ok := graph.Get(fid)
			if !ok {
				continue
			}
			node, ok := obj.(*osm.Node)
			if !ok {
				continue
			}
			wpt := NewWaypoint(nodePoint(node), name, source)
			return &wpt, nil
		case osm.TypeWay:
			obj, ok := graph.Get(fid)
			if !ok {
				// Way has been referenced but not loaded. Nothing to expand
				continue
			}
			way, ok := obj.(*osm.Way)
			if !ok {
				continue
			}
			if centroid, ok := resolver.wayCentroid(graph, way); ok {
				wpt := NewWaypoint(centroid, name, source)
				return &wpt, nil
			}
			// None of way's nodes are present: push them back for later attempt
			deps = append(deps, Dependencies(way)...)
		case osm.TypeRelation:
			obj, ok := graph.Get(fid)
			if !ok {
				continue
			}
			relation, ok := obj.(*osm.Relation)
			if !ok {
				continue
			}
			deps = append(deps, Dependencies(relation)...)
		}
	}
	return nil, nil
}

// wayCentroid returns planar centroid of way's nodes which are present in the graph
func (resolver *Resolver) wayCentroid(graph Graph, way *osm.Way) (orb.Point, bool) {
	if resolver.centroids != nil {
		if centroid, ok := resolver.centroids.Get(way.ID); ok {
			return centroid, true
		}
	}
	pts := make(orb.MultiPoint, 0, len(way.Nodes))
	for _, wayNode := range way.Nodes {
		obj, ok := graph.Get(wayNode.ID.FeatureID())
		if !ok {
			continue
		}
		node, ok := obj.(*osm.Node)
		if !ok {
			continue
		}
		pts = append(pts, nodePoint(node))
	}
	centroid, ok := planarCentroid(pts)
	if !ok {
		return orb.Point{}, false
	}
	if resolver.centroids != nil {
		resolver.centroids.Add(way.ID, centroid)
	}
	return centroid, true
}
