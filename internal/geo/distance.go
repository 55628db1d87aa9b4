package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// GreatCircleKm is the haversine distance between two coordinates on the Earth.
func GreatCircleKm(lat1, lng1, lat2, lng2 float64) float64 {
	return orbgeo.DistanceHaversine(orb.Point{lng1, lat1}, orb.Point{lng2, lat2}) / 1000
}

// AngularDistance is the central angle between two coordinates, in radians.
func AngularDistance(lat1, lng1, lat2, lng2 float64) float64 {
	return orbgeo.DistanceHaversine(orb.Point{lng1, lat1}, orb.Point{lng2, lat2}) / orb.EarthRadius
}
