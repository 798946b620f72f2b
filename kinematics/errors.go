package kinematics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/perchess/quadruped/math3d"
)

var (
	// ErrUnreachableDirection is returned when the target is not in front of
	// the leg, i.e. its bearing is outside of ±90° from the leg's home heading.
	ErrUnreachableDirection = errors.New("target direction unreachable")

	// ErrUnreachableDistance is returned when the target is too near or too far
	// from the femur joint for the femur and tibia to meet.
	ErrUnreachableDistance = errors.New("target distance unreachable")

	// ErrJointLimit is returned when a solved angle falls outside of the travel
	// of its motor.
	ErrJointLimit = errors.New("joint angle out of range")
)

// SolveError describes why a target could not be solved for a leg.
type SolveError struct {
	Leg    LegID
	Target math3d.Vector3
	Reason string
	Err    error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%s: %s (%s) for target %s", e.Leg, e.Err, e.Reason, e.Target)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned by Table.Validate. The robot must not be
// driven with a table which fails validation.
type ConfigurationError struct {
	Errors []error
}

func (e *ConfigurationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "invalid leg configuration: " + strings.Join(msgs, "; ")
}
