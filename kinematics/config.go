package kinematics

import (
	"fmt"

	"github.com/perchess/quadruped/math3d"
	"go.uber.org/multierr"
)

const (

	// How far (in degrees) the femur and tibia links sit off the centre of
	// their motors, because of the shape of the brackets.
	femurOffset = 13
	tibiaOffset = 35
)

// Configuration holds the constants of a single leg. It is built once at
// startup and never changed.
type Configuration struct {
	ID LegID

	// Motor IDs on the actuator bus.
	Coxa  int
	Femur int
	Tibia int

	// The home heading of the leg around the body, in degrees.
	AngleOffset float64

	// The position of the coxa pivot, relative to the body origin.
	CoxaPosition math3d.Vector3

	// Added to the anatomical femur and tibia angles so that the result points
	// the motor at the desired angle. The legs are mirrored, so these differ
	// between left and right.
	FemurCorrection float64
	TibiaCorrection float64
}

// MotorIDs returns the coxa, femur, and tibia motor IDs of the leg.
func (c Configuration) MotorIDs() [3]int {
	return [3]int{c.Coxa, c.Femur, c.Tibia}
}

// Table is the configuration of every leg, indexed by LegID.
type Table [NumLegs]Configuration

// DefaultTable returns the leg configurations of the robot.
func DefaultTable() Table {
	return Table{
		FrontLeft: {
			ID: FrontLeft, Coxa: 1, Femur: 3, Tibia: 5,
			AngleOffset:     45,
			CoxaPosition:    math3d.Vector3{X: -6.5, Y: 6.5, Z: 0},
			FemurCorrection: -240 + femurOffset,
			TibiaCorrection: -330 + tibiaOffset,
		},
		FrontRight: {
			ID: FrontRight, Coxa: 2, Femur: 4, Tibia: 6,
			AngleOffset:     -45,
			CoxaPosition:    math3d.Vector3{X: 6.5, Y: 6.5, Z: 0},
			FemurCorrection: 60 + femurOffset,
			TibiaCorrection: -30 + tibiaOffset,
		},
		RearLeft: {
			ID: RearLeft, Coxa: 7, Femur: 9, Tibia: 11,
			AngleOffset:     135,
			CoxaPosition:    math3d.Vector3{X: -6.5, Y: -6.5, Z: 0},
			FemurCorrection: 60 + femurOffset,
			TibiaCorrection: -30 + tibiaOffset,
		},
		RearRight: {
			ID: RearRight, Coxa: 8, Femur: 10, Tibia: 12,
			AngleOffset:     -135,
			CoxaPosition:    math3d.Vector3{X: 6.5, Y: -6.5, Z: 0},
			FemurCorrection: -240 + femurOffset,
			TibiaCorrection: -330 + tibiaOffset,
		},
	}
}

// Coxas returns the coxa motor IDs, in leg order.
func (t Table) Coxas() []int {
	return t.joint(func(c Configuration) int { return c.Coxa })
}

// Femurs returns the femur motor IDs, in leg order.
func (t Table) Femurs() []int {
	return t.joint(func(c Configuration) int { return c.Femur })
}

// Tibias returns the tibia motor IDs, in leg order.
func (t Table) Tibias() []int {
	return t.joint(func(c Configuration) int { return c.Tibia })
}

// MotorIDs returns every motor ID, grouped by joint type.
func (t Table) MotorIDs() []int {
	ids := make([]int, 0, NumLegs*3)
	ids = append(ids, t.Coxas()...)
	ids = append(ids, t.Femurs()...)
	ids = append(ids, t.Tibias()...)
	return ids
}

func (t Table) joint(f func(Configuration) int) []int {
	ids := make([]int, NumLegs)
	for i, c := range t {
		ids[i] = f(c)
	}
	return ids
}

// Validate checks that each leg sits in its own slot and that every motor ID
// is positive and used exactly once. All problems are reported together.
func (t Table) Validate() error {
	var errs error
	seen := map[int]string{}

	for i, c := range t {
		if c.ID != LegID(i) {
			errs = multierr.Append(errs, fmt.Errorf("slot %s holds the configuration of %s", LegID(i), c.ID))
		}

		joints := [3]string{"coxa", "femur", "tibia"}
		for j, id := range c.MotorIDs() {
			name := fmt.Sprintf("%s %s", LegID(i), joints[j])

			if id <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s has invalid motor ID %d", name, id))
				continue
			}

			if other, ok := seen[id]; ok {
				errs = multierr.Append(errs, fmt.Errorf("%s reuses motor ID %d of %s", name, id, other))
				continue
			}

			seen[id] = name
		}
	}

	if errs != nil {
		return &ConfigurationError{Errors: multierr.Errors(errs)}
	}

	return nil
}
