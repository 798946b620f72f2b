package kinematics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/perchess/quadruped/math3d"
)

// Positions holds a foot position for each leg, in the body coordinate space,
// indexed by LegID. It's a plain value, so assigning or copying it never
// shares state.
type Positions [NumLegs]math3d.Vector3

// NewPositions returns a set of positions from one vector per leg.
func NewPositions(frontLeft, frontRight, rearLeft, rearRight math3d.Vector3) Positions {
	return Positions{
		FrontLeft:  frontLeft,
		FrontRight: frontRight,
		RearLeft:   rearLeft,
		RearRight:  rearRight,
	}
}

// RelaxedStance returns the foot positions of the robot standing at rest.
func RelaxedStance() Positions {
	return NewPositions(
		math3d.Vector3{X: -15, Y: 15, Z: -13},
		math3d.Vector3{X: 15, Y: 15, Z: -13},
		math3d.Vector3{X: -15, Y: -15, Z: -13},
		math3d.Vector3{X: 15, Y: -15, Z: -13},
	)
}

// Get returns the position of a single leg.
func (p Positions) Get(id LegID) math3d.Vector3 {
	return p[id]
}

// Set replaces the position of a single leg.
func (p *Positions) Set(id LegID, v math3d.Vector3) {
	p[id] = v
}

// Copy returns an independent copy.
func (p Positions) Copy() Positions {
	return p
}

// each applies f to the position of every selected leg.
func (p *Positions) each(legs []Legs, f func(math3d.Vector3) math3d.Vector3) {
	sel := selection(legs)
	for _, id := range AllLegIDs {
		if sel.Has(id) {
			p[id] = f(p[id])
		}
	}
}

// Translate moves the selected legs by the given offset.
func (p *Positions) Translate(offset math3d.Vector3, legs ...Legs) {
	p.each(legs, func(v math3d.Vector3) math3d.Vector3 {
		return v.Add(offset)
	})
}

// Rotate turns the selected legs around the Z axis of the body by the given
// angle (in degrees, counter-clockwise from above), keeping their height.
func (p *Positions) Rotate(degrees float64, legs ...Legs) {
	p.each(legs, func(v math3d.Vector3) math3d.Vector3 {
		return v.RotateHeading(degrees)
	})
}

// RotateCenter rotates the selected legs around the body origin, as if the
// whole body pivoted by the given angles.
func (p *Positions) RotateCenter(ea math3d.EulerAngles, legs ...Legs) {
	p.RotateCenterQuat(ea.Quat(), legs...)
}

// RotateCenterQuat is RotateCenter for a rotation given as a quaternion.
func (p *Positions) RotateCenterQuat(q mgl64.Quat, legs ...Legs) {
	p.each(legs, func(v math3d.Vector3) math3d.Vector3 {
		return math3d.Rotate(v, q)
	})
}

// MoveTowards moves each leg towards its position in target, by at most
// maxStep. Legs which are within maxStep land exactly on the target. Each leg
// moves independently; they don't necessarily arrive together.
func (p *Positions) MoveTowards(target Positions, maxStep float64) {
	for _, id := range AllLegIDs {
		p[id] = p[id].MoveTowards(target[id], maxStep)
	}
}

// MoveFinished returns true if every leg is exactly at its position in other.
func (p Positions) MoveFinished(other Positions) bool {
	return p == other
}

// MoveFinishedWithin returns true if every leg is no further than tolerance
// from its position in other.
func (p Positions) MoveFinishedWithin(other Positions, tolerance float64) bool {
	for _, id := range AllLegIDs {
		if !p[id].Similar(other[id], tolerance) {
			return false
		}
	}
	return true
}

func (p Positions) String() string {
	return fmt.Sprintf("FL %s FR %s RL %s RR %s", p[FrontLeft], p[FrontRight], p[RearLeft], p[RearRight])
}
