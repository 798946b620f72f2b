package utils

import (
	"math"
)

// Deg converts radians to degrees.
func Deg(rads float64) float64 {
	return rads / (math.Pi / 180)
}

// Rad converts degrees to radians.
func Rad(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}

// NormalizeDeg wraps an angle into the range (-180, 180].
func NormalizeDeg(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
