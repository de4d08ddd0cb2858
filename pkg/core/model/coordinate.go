package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a latitude/longitude pair in decimal degrees
// Values are not range checked
type Coordinate struct {
	Lat float64
	Lon float64
}

// CoordinateError reports a coordinate field that could not be parsed
type CoordinateError struct {
	RecordID string
	Field    string
	Value    string
	Err      error
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("record %q: invalid %s %q: %v", e.RecordID, e.Field, e.Value, e.Err)
}

func (e *CoordinateError) Unwrap() error {
	return e.Err
}

// ParseCoordinate parses the textual lat/lon of the record identified by recordID
func ParseCoordinate(recordID, lat, lon string) (Coordinate, error) {
	latValue, err := parseDegrees(lat)
	if err != nil {
		return Coordinate{}, &CoordinateError{RecordID: recordID, Field: "lat", Value: lat, Err: err}
	}
	lonValue, err := parseDegrees(lon)
	if err != nil {
		return Coordinate{}, &CoordinateError{RecordID: recordID, Field: "lon", Value: lon, Err: err}
	}
	return Coordinate{Lat: latValue, Lon: lonValue}, nil
}

func parseDegrees(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}
