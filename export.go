package osm2gpx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// OutputFormat Encoding of the output waypoints file
type OutputFormat uint16

const (
	OUTPUT_GPX = OutputFormat(iota + 1)
	OUTPUT_GEOJSON
	OUTPUT_CSV
)

func (iotaIdx OutputFormat) String() string {
	return [...]string{"gpx", "geojson", "csv"}[iotaIdx-1]
}

// ParseOutputFormat returns output format by its name (case insensitive)
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(name) {
	case "gpx", "":
		return OUTPUT_GPX, nil
	case "geojson", "json":
		return OUTPUT_GEOJSON, nil
	case "csv":
		return OUTPUT_CSV, nil
	default:
		return 0, fmt.Errorf("Output format '%s' is not supported. Expected values: gpx / geojson / csv", name)
	}
}

// WriteWaypoints encodes waypoints in given format
func WriteWaypoints(w io.Writer, format OutputFormat, waypoints []Waypoint) error {
	switch format {
	case OUTPUT_GPX:
		return writeGPX(w, waypoints)
	case OUTPUT_GEOJSON:
		return writeGeoJSON(w, waypoints)
	case OUTPUT_CSV:
		return writeCSV(w, waypoints)
	default:
		return fmt.Errorf("Unknown output format: %d", format)
	}
}

// ExportToFile creates (or truncates) file and writes waypoints into it
func ExportToFile(fname string, format OutputFormat, waypoints []Waypoint) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	err = WriteWaypoints(file, format, waypoints)
	if err != nil {
		return errors.Wrapf(err, "Can't export waypoints to '%s'", fname)
	}
	return file.Close()
}
