package osm2gpx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// OSMScanner Common interface for PBF and XML scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// FileFormat Encoding of OSM source
type FileFormat uint16

const (
	FORMAT_XML = FileFormat(iota + 1)
	FORMAT_PBF
)

func (iotaIdx FileFormat) String() string {
	return [...]string{"xml", "pbf"}[iotaIdx-1]
}

// GuessFileFormat returns format based on file extension
func GuessFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".osm", ".xml":
		return FORMAT_XML, nil
	case ".pbf":
		return FORMAT_PBF, nil
	default:
		return 0, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
}

// Loader Reads OSM data and keeps matched entities with all their (transitive) dependencies
type Loader struct {
	procs  int
	logger *slog.Logger
}

func (loader *Loader) String() string {
	return fmt.Sprintf(`
Loader parameters:
	procs: %d
	`,
		loader.procs,
	)
}

// NewLoader returns loader which decodes PBF with 4 goroutines
func NewLoader(options ...func(*Loader)) *Loader {
	loader := &Loader{
		procs:  4,
		logger: slog.New(discardHandler{}),
	}
	for _, option := range options {
		option(loader)
	}
	return loader
}

// WithProcs sets number of goroutines decoding PBF blocks
func WithProcs(procs int) func(*Loader) {
	return func(loader *Loader) {
		if procs > 0 {
			loader.procs = procs
		}
	}
}

// WithLogger sets logger for progress reporting
func WithLogger(logger *slog.Logger) func(*Loader) {
	return func(loader *Loader) {
		if logger != nil {
			loader.logger = logger
		}
	}
}

// LoadFile opens file and loads graph from it. Format is guessed by file extension
func (loader *Loader) LoadFile(ctx context.Context, filename string, match func(osm.Object) bool) (*EntityGraph, error) {
	format, err := GuessFileFormat(filename)
	if err != nil {
		return nil, err
	}
	loader.logger.Info("Opening file", slog.String("filename", filename), slog.String("format", format.String()))
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer file.Close()
	return loader.Load(ctx, file, format, match)
}

// Load scans source several times.
// First pass keeps every object satisfying match. Each next pass keeps objects referenced by objects kept on the previous pass.
// Scanning stops when there is nothing to look for or when a pass does not find anything new:
// references to objects absent in the source stay unresolved in the graph
func (loader *Loader) Load(ctx context.Context, r io.ReadSeeker, format FileFormat, match func(osm.Object) bool) (*EntityGraph, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "osm2gpx.Load")
	defer span.End()

	graph := NewEntityGraph()

	st := time.Now()
	matched, err := loader.scan(ctx, r, format, func(obj osm.Object, fid osm.FeatureID) bool {
		return match(obj)
	}, graph)
	if err != nil {
		return nil, errors.Wrap(err, "Can't scan matching objects")
	}
	loader.logger.Info("Scanned matching objects", slog.Int("pass", 1), slog.Int("objects", len(matched)), slog.Duration("elapsed", time.Since(st)))

	pending := pendingDependencies(graph, matched)
	pass := 1
	for len(pending) > 0 {
		pass++
		_, err = r.Seek(0, io.SeekStart)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't repeat seeking before pass %d", pass)
		}
		st = time.Now()
		found, err := loader.scan(ctx, r, format, func(obj osm.Object, fid osm.FeatureID) bool {
			_, ok := pending[fid]
			return ok
		}, graph)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't scan dependencies on pass %d", pass)
		}
		loader.logger.Info("Scanned dependencies", slog.Int("pass", pass), slog.Int("wanted", len(pending)), slog.Int("objects", len(found)), slog.Duration("elapsed", time.Since(st)))
		if len(found) < len(pending) {
			loader.logger.Debug("Some dependencies are missing in source", slog.Int("pass", pass), slog.Int("missing", len(pending)-len(found)))
		}
		if len(found) == 0 {
			break
		}
		pending = pendingDependencies(graph, found)
	}
	span.SetAttributes(attribute.Int("osm2gpx.passes", pass), attribute.Int("osm2gpx.objects", graph.Len()))
	loader.logger.Info("Graph loaded", slog.Int("passes", pass), slog.Int("objects", graph.Len()))
	return graph, nil
}

// scan runs single pass over the source adding every accepted object to the graph. Returns newly added objects
func (loader *Loader) scan(ctx context.Context, r io.Reader, format FileFormat, accept func(osm.Object, osm.FeatureID) bool, graph *EntityGraph) ([]osm.Object, error) {
	var scanner OSMScanner
	switch format {
	case FORMAT_XML:
		scanner = osmxml.New(ctx, r)
	case FORMAT_PBF:
		scanner = osmpbf.New(ctx, r, loader.procs)
	default:
		return nil, fmt.Errorf("Unknown file format: %d", format)
	}
	defer scanner.Close()

	added := []osm.Object{}
	for scanner.Scan() {
		obj := scanner.Object()
		fid, ok := EntityID(obj)
		if !ok {
			continue
		}
		if graph.Has(fid) || !accept(obj, fid) {
			continue
		}
		graph.Add(obj)
		added = append(added, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return added, nil
}

// pendingDependencies returns dependencies of given objects which are not in the graph yet
func pendingDependencies(graph *EntityGraph, objs []osm.Object) map[osm.FeatureID]struct{} {
	pending := make(map[osm.FeatureID]struct{})
	for _, obj := range objs {
		for _, dep := range Dependencies(obj) {
			if !graph.Has(dep) {
				pending[dep] = struct{}{}
			}
		}
	}
	return pending
}

// discardHandler drops every record. Used when no logger has been provided
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
