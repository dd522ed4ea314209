// Package lighting places lights from sun angles.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/flatshadow/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a unit vector
// pointing towards the sun. Longitude is rotation around the Y axis with 0
// facing +Z; latitude is elevation from the horizon (0-90).
func SunDirection(longitude, latitude float32) math.Vec3 {
	lonRad := longitude * math32.Pi / 180
	latRad := latitude * math32.Pi / 180

	sinLat, cosLat := math32.Sincos(latRad)
	sinLon, cosLon := math32.Sincos(lonRad)

	return math.Vec3{
		X: cosLat * sinLon,
		Y: sinLat,
		Z: cosLat * cosLon,
	}
}

// SunPosition returns the point distance units from the origin towards the sun.
func SunPosition(longitude, latitude, distance float32) math.Vec3 {
	return SunDirection(longitude, latitude).Scale(distance)
}
