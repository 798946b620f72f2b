package math3d

import (
	"fmt"
	"math"

	"github.com/perchess/quadruped/utils"
)

// Vector3 is a point or direction in the body coordinate space, in cm. X is
// to the right, Y is forwards, and Z is up.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

var (
	ZeroVector3 = Vector3{}
)

// moveEpsilon is the slack allowed by MoveTowards before snapping onto the
// target, to absorb rounding accumulated over many steps.
const moveEpsilon = 1e-9

// MakeVector3 returns a new Vector3.
func MakeVector3(x float64, y float64, z float64) Vector3 {
	return Vector3{x, y, z}
}

// MakeVector3FromXY returns a Vector3 with the X and Y of the given planar
// vector, and the given Z.
func MakeVector3FromXY(v Vector2, z float64) Vector3 {
	return Vector3{v.X, v.Y, z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("[%.3f; %.3f; %.3f]", v.X, v.Y, v.Z)
}

// Zero returns true if the vector is at 0,0,0.
func (v Vector3) Zero() bool {
	return (v.X == 0) && (v.Y == 0) && (v.Z == 0)
}

// Add adds two vectors, and returns the result.
func (v Vector3) Add(vv Vector3) Vector3 {
	return Vector3{
		(v.X + vv.X),
		(v.Y + vv.Y),
		(v.Z + vv.Z),
	}
}

// Subtract returns the vector from vv to v.
func (v Vector3) Subtract(vv Vector3) Vector3 {
	return Vector3{
		(v.X - vv.X),
		(v.Y - vv.Y),
		(v.Z - vv.Z),
	}
}

// MultiplyByScalar scales each component of the vector by s.
func (v Vector3) MultiplyByScalar(s float64) Vector3 {
	return Vector3{
		(v.X * s),
		(v.Y * s),
		(v.Z * s),
	}
}

// Magnitude returns the length of the vector.
func (v Vector3) Magnitude() float64 {
	return math.Sqrt((v.X * v.X) + (v.Y * v.Y) + (v.Z * v.Z))
}

// Unit returns the vector scaled to a length of one. The zero vector has no
// direction, so is returned unchanged.
func (v Vector3) Unit() Vector3 {
	m := v.Magnitude()
	if m == 0 {
		return ZeroVector3
	}

	return Vector3{v.X / m, v.Y / m, v.Z / m}
}

// Distance calculates and returns the distance between this vector and another,
// as a float64.
func (v Vector3) Distance(vv Vector3) float64 {
	dx := v.X - vv.X
	dy := v.Y - vv.Y
	dz := v.Z - vv.Z
	return math.Sqrt((dx * dx) + (dy * dy) + (dz * dz))
}

// Similar returns true if vv is no further than epsilon from v. An epsilon of
// zero is an exact comparison.
func (v Vector3) Similar(vv Vector3, epsilon float64) bool {
	return v.Distance(vv) <= epsilon
}

// MoveTowards returns the point at most maxDistance along the line from v to
// target. Once the target is within reach, it is returned exactly, so that a
// sequence of moves always ends on it. A negative maxDistance doesn't move.
func (v Vector3) MoveTowards(target Vector3, maxDistance float64) Vector3 {
	maxDistance = math.Max(maxDistance, 0)

	d := v.Distance(target)
	if d <= maxDistance+moveEpsilon {
		return target
	}

	return v.Add(target.Subtract(v).MultiplyByScalar(maxDistance / d))
}

// Finite returns true if no coordinate is NaN or infinite.
func (v Vector3) Finite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// XY returns the projection of the vector onto the ground plane.
func (v Vector3) XY() Vector2 {
	return Vector2{v.X, v.Y}
}

// RotateHeading rotates the vector around the Z axis by the given angle (in
// degrees, counter-clockwise when viewed from above). Z is left alone.
func (v Vector3) RotateHeading(degrees float64) Vector3 {
	return MakeVector3FromXY(v.XY().Rotate(degrees), v.Z)
}

// Vector2 is a vector on the ground plane.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector2) String() string {
	return fmt.Sprintf("[%.3f; %.3f]", v.X, v.Y)
}

// Magnitude returns the length of the vector.
func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rotate returns the vector rotated counter-clockwise by the given number of
// degrees.
func (v Vector2) Rotate(degrees float64) Vector2 {
	s, c := math.Sincos(utils.Rad(degrees))
	return Vector2{
		(v.X * c) - (v.Y * s),
		(v.X * s) + (v.Y * c),
	}
}
