package geodistance

import (
	"github.com/golang/geo/s2"

	"github.com/jakechorley/binfill/pkg/core/model"
)

// EarthRadiusMeters is the distance between the Earth's center and a pole.
// Distances are computed on a sphere of this radius rather than the mean radius,
// which keeps results comparable with earlier model runs.
const EarthRadiusMeters = 6356988.0

// Distance returns the great-circle distance in meters between two coordinates
// using the haversine formula
func Distance(a, b model.Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Between returns the distance between a user and a container
func Between(user *model.User, container *model.Container) float64 {
	return Distance(user.Location, container.Location)
}
