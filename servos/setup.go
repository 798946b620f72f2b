package servos

import (
	"fmt"

	"go.uber.org/multierr"
)

// Settings are applied to every motor at boot.
type Settings struct {
	ComplianceSlope ComplianceSlope
	MovingSpeed     int
}

// DefaultSettings are soft enough to absorb a bit of shock, and slow enough
// to not throw the robot around.
var DefaultSettings = Settings{
	ComplianceSlope: S32,
	MovingSpeed:     300,
}

// Setup pings (if the driver can) and configures each of the given motors, then
// enables their torque. It stops at the first motor which fails, since the
// robot can't stand with a missing motor.
func Setup(d Driver, s Settings, ids ...int) error {
	if p, ok := d.(Pinger); ok {
		for _, id := range ids {
			log.Infof("pinging motor #%d", id)
			if err := p.Ping(id); err != nil {
				return fmt.Errorf("%s (while pinging motor #%d)", err, id)
			}
		}
	}

	for _, id := range ids {
		if err := d.SetComplianceSlope(id, s.ComplianceSlope); err != nil {
			return fmt.Errorf("%s (while setting compliance slope of motor #%d)", err, id)
		}

		if err := d.SetMovingSpeed(id, s.MovingSpeed); err != nil {
			return fmt.Errorf("%s (while setting moving speed of motor #%d)", err, id)
		}

		if err := d.SetTorque(id, true); err != nil {
			return fmt.Errorf("%s (while enabling torque of motor #%d)", err, id)
		}
	}

	return nil
}

// DisableMotors turns off the torque of every given motor. This should be
// called before terminating the program, to ensure that motors don't stay
// powered up indefinitely. A failure doesn't stop the rest from being turned
// off; every error is returned.
func DisableMotors(d Driver, ids ...int) error {
	var errs error
	for _, id := range ids {
		if err := d.SetTorque(id, false); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w (while disabling torque of motor #%d)", err, id))
		}
	}

	if errs == nil {
		log.Infof("disabled %d motors", len(ids))
	}

	return errs
}
