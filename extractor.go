package osm2gpx

import (
	"context"
	"fmt"
	"sort"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/LdDl/osm2gpx"

// Extractor Parameters of the scan over materialized graph
type Extractor struct {
	defaultName string
	workers     int
	observer    Observer
}

func (extractor *Extractor) String() string {
	return fmt.Sprintf(`
Extractor parameters:
	default_name: '%s'
	workers: %d
	`,
		extractor.defaultName,
		extractor.workers,
	)
}

// WithDefaultName sets name for waypoints which entities have no 'name' tag
func WithDefaultName(defaultName string) func(*Extractor) {
	return func(extractor *Extractor) {
		extractor.defaultName = defaultName
	}
}

// WithWorkers sets number of goroutines resolving matched entities. Values less than 2 mean sequential processing
func WithWorkers(workers int) func(*Extractor) {
	return func(extractor *Extractor) {
		extractor.workers = workers
	}
}

// WithObserver sets receiver of extraction diagnostics
func WithObserver(observer Observer) func(*Extractor) {
	return func(extractor *Extractor) {
		if observer != nil {
			extractor.observer = observer
		}
	}
}

// Extract filters graph objects by tag expression and resolves waypoint for every match.
// Matches which can't be resolved (no coordinate or pop ceiling exceeded) are reported to observer and skipped.
// Result is ordered by source entity (nodes, ways, relations; ascending ID) regardless of number of workers
func Extract(ctx context.Context, graph Graph, expr *TagExpression, resolver *Resolver, options ...func(*Extractor)) ([]Waypoint, error) {
	extractor := &Extractor{
		workers:  1,
		observer: NopObserver{},
	}
	for _, option := range options {
		option(extractor)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "osm2gpx.Extract")
	defer span.End()

	matched := []osm.Object{}
	for _, obj := range graph.Objects() {
		if expr.MatchObject(obj) {
			matched = append(matched, obj)
		}
	}
	span.SetAttributes(
		attribute.String("osm2gpx.expression", expr.String()),
		attribute.Int("osm2gpx.matches", len(matched)),
		attribute.Int("osm2gpx.workers", extractor.workers),
	)

	var waypoints []Waypoint
	var err error
	if extractor.workers < 2 || len(matched) < 2 {
		waypoints, err = extractor.resolveAll(ctx, graph, resolver, matched)
	} else {
		waypoints, err = extractor.resolveParallel(ctx, graph, resolver, matched)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("osm2gpx.waypoints", len(waypoints)))
	return waypoints, nil
}

// resolveAll processes matched objects one by one
func (extractor *Extractor) resolveAll(ctx context.Context, graph Graph, resolver *Resolver, matched []osm.Object) ([]Waypoint, error) {
	waypoints := make([]Waypoint, 0, len(matched))
	for _, obj := range matched {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wpt, err := extractor.resolveOne(graph, resolver, obj)
		if err != nil {
			return nil, err
		}
		if wpt != nil {
			waypoints = append(waypoints, *wpt)
		}
	}
	return waypoints, nil
}

// resolveParallel splits matched objects between workers. Every worker accumulates own slice, slices are merged afterwards
func (extractor *Extractor) resolveParallel(ctx context.Context, graph Graph, resolver *Resolver, matched []osm.Object) ([]Waypoint, error) {
	workers := extractor.workers
	if workers > len(matched) {
		workers = len(matched)
	}
	partial := make([][]Waypoint, workers)
	group, groupCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		group.Go(func() error {
			local := []Waypoint{}
			for i := w; i < len(matched); i += workers {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				wpt, err := extractor.resolveOne(graph, resolver, matched[i])
				if err != nil {
					return err
				}
				if wpt != nil {
					local = append(local, *wpt)
				}
			}
			partial[w] = local
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	waypoints := make([]Waypoint, 0, len(matched))
	for _, local := range partial {
		waypoints = append(waypoints, local...)
	}
	sort.SliceStable(waypoints, func(i, j int) bool {
		return lessFeatureID(waypoints[i].Source, waypoints[j].Source)
	})
	return waypoints, nil
}

// resolveOne resolves single matched object. Only unexpected errors are returned: overflow is reported and swallowed
func (extractor *Extractor) resolveOne(graph Graph, resolver *Resolver, obj osm.Object) (*Waypoint, error) {
	extractor.observer.MatchFound(obj)
	wpt, err := resolver.Resolve(graph, obj, extractor.defaultName)
	if err != nil {
		if errors.Is(err, ErrResolutionOverflow) {
			extractor.observer.OverflowHit(obj, err)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "Can't resolve %s", describeEntity(obj))
	}
	if wpt == nil {
		extractor.observer.ResolutionFailed(obj)
		return nil, nil
	}
	extractor.observer.Resolved(obj, *wpt)
	return wpt, nil
}
