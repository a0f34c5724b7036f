package osm2gpx

import (
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver counts extraction events per entity type
type MetricsObserver struct {
	matches    *prometheus.CounterVec
	waypoints  *prometheus.CounterVec
	unresolved *prometheus.CounterVec
	overflows  *prometheus.CounterVec
}

// NewMetricsObserver creates counters and registers them in given registerer
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	obs := &MetricsObserver{
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osm2gpx",
			Subsystem: "extract",
			Name:      "matches_total",
			Help:      "Total OSM entities matching tag expression",
		}, []string{"type"}),
		waypoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osm2gpx",
			Subsystem: "extract",
			Name:      "waypoints_total",
			Help:      "Total waypoints resolved from matched entities",
		}, []string{"type"}),
		unresolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osm2gpx",
			Subsystem: "extract",
			Name:      "unresolved_total",
			Help:      "Total matched entities whose dependencies did not lead to a coordinate",
		}, []string{"type"}),
		overflows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osm2gpx",
			Subsystem: "extract",
			Name:      "overflows_total",
			Help:      "Total matched entities skipped because of dependency walk ceiling",
		}, []string{"type"}),
	}
	for _, collector := range []prometheus.Collector{obs.matches, obs.waypoints, obs.unresolved, obs.overflows} {
		if err := reg.Register(collector); err != nil {
			return nil, errors.Wrap(err, "Can't register collector")
		}
	}
	return obs, nil
}

func (obs *MetricsObserver) MatchFound(obj osm.Object) {
	obs.matches.WithLabelValues(entityType(obj)).Inc()
}

func (obs *MetricsObserver) Resolved(obj osm.Object, _ Waypoint) {
	obs.waypoints.WithLabelValues(entityType(obj)).Inc()
}

func (obs *MetricsObserver) ResolutionFailed(obj osm.Object) {
	obs.unresolved.WithLabelValues(entityType(obj)).Inc()
}

func (obs *MetricsObserver) OverflowHit(obj osm.Object, _ error) {
	obs.overflows.WithLabelValues(entityType(obj)).Inc()
}

// WriteMetricsFile dumps gathered metrics in text exposition format (e.g. for node_exporter textfile collector)
func WriteMetricsFile(fname string, gatherer prometheus.Gatherer) error {
	err := prometheus.WriteToTextfile(fname, gatherer)
	if err != nil {
		return errors.Wrapf(err, "Can't write metrics to '%s'", fname)
	}
	return nil
}

func entityType(obj osm.Object) string {
	fid, ok := EntityID(obj)
	if !ok {
		return "unknown"
	}
	return string(fid.Type())
}
