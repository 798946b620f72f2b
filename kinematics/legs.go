// Package kinematics holds the geometry of the quadruped: the fixed
// configuration of each leg, the inverse kinematics which turn a foot
// position into joint angles, and the set of four foot positions which the
// control loop moves around.
package kinematics

import (
	"strings"
)

// LegID identifies one of the four legs. It doubles as the index into Table
// and Positions.
type LegID int

const (
	FrontLeft LegID = iota
	FrontRight
	RearLeft
	RearRight

	// NumLegs is the number of legs. Not adjustable.
	NumLegs = 4
)

// AllLegIDs lists the legs in index order.
var AllLegIDs = [NumLegs]LegID{FrontLeft, FrontRight, RearLeft, RearRight}

var legNames = [NumLegs]string{"FL", "FR", "RL", "RR"}

func (id LegID) String() string {
	if id < 0 || id >= NumLegs {
		return "??"
	}
	return legNames[id]
}

// Legs is a set of legs, as bit flags. Transforms of Positions accept any
// number of them; passing none selects every leg.
type Legs uint8

const (
	FrontLeftLeg Legs = 1 << iota
	FrontRightLeg
	RearLeftLeg
	RearRightLeg

	NoLegs  Legs = 0
	AllLegs      = FrontLeftLeg | FrontRightLeg | RearLeftLeg | RearRightLeg
)

// Flag returns the selector containing only this leg.
func (id LegID) Flag() Legs {
	return Legs(1) << uint(id)
}

// Has returns true if the given leg is in the set.
func (l Legs) Has(id LegID) bool {
	return l&id.Flag() != 0
}

func (l Legs) String() string {
	var names []string
	for _, id := range AllLegIDs {
		if l.Has(id) {
			names = append(names, id.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// selection collapses optional selector arguments into one set. No arguments
// means every leg.
func selection(legs []Legs) Legs {
	if len(legs) == 0 {
		return AllLegs
	}

	var l Legs
	for _, ll := range legs {
		l |= ll
	}
	return l
}
