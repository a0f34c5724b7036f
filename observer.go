package osm2gpx

import (
	"log/slog"

	"github.com/paulmach/osm"
)

// Observer receives diagnostics of the extraction process.
// Implementations must be safe for concurrent use when extractor runs several workers
type Observer interface {
	// MatchFound is called for every entity satisfying tag expression
	MatchFound(obj osm.Object)
	// Resolved is called when waypoint has been built for matched entity
	Resolved(obj osm.Object, wpt Waypoint)
	// ResolutionFailed is called when dependencies of matched entity do not lead to any coordinate
	ResolutionFailed(obj osm.Object)
	// OverflowHit is called when dependency walk exceeds pop ceiling
	OverflowHit(obj osm.Object, err error)
}

// NopObserver ignores everything
type NopObserver struct{}

func (NopObserver) MatchFound(osm.Object)         {}
func (NopObserver) Resolved(osm.Object, Waypoint) {}
func (NopObserver) ResolutionFailed(osm.Object)   {}
func (NopObserver) OverflowHit(osm.Object, error) {}

// LogObserver writes diagnostics to structured logger
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns observer for given logger. Nil means slog.Default()
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (obs *LogObserver) MatchFound(obj osm.Object) {
	obs.logger.Debug("Matched object", slog.String("entity", describeEntity(obj)))
}

func (obs *LogObserver) Resolved(obj osm.Object, wpt Waypoint) {
	obs.logger.Info("Found waypoint",
		slog.String("entity", describeEntity(obj)),
		slog.String("name", wpt.Name),
		slog.Float64("lon", wpt.Lon()),
		slog.Float64("lat", wpt.Lat()),
	)
}

func (obs *LogObserver) ResolutionFailed(obj osm.Object) {
	obs.logger.Warn("Could not resolve dependencies to a coordinate", slog.String("entity", describeEntity(obj)))
}

func (obs *LogObserver) OverflowHit(obj osm.Object, err error) {
	obs.logger.Warn("Skipping object", slog.String("entity", describeEntity(obj)), slog.Any("error", err))
}

// MultiObserver fans events out to every observer in order
type MultiObserver []Observer

func (multi MultiObserver) MatchFound(obj osm.Object) {
	for _, obs := range multi {
		obs.MatchFound(obj)
	}
}

func (multi MultiObserver) Resolved(obj osm.Object, wpt Waypoint) {
	for _, obs := range multi {
		obs.Resolved(obj, wpt)
	}
}

func (multi MultiObserver) ResolutionFailed(obj osm.Object) {
	for _, obs := range multi {
		obs.ResolutionFailed(obj)
	}
}

func (multi MultiObserver) OverflowHit(obj osm.Object, err error) {
	for _, obs := range multi {
		obs.OverflowHit(obj, err)
	}
}
