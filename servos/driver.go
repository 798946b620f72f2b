// Package servos talks to the actuators which move the legs.
package servos

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "servos",
})

// ComplianceSlope is the stiffness of a motor around its goal position. Lower
// is stiffer. The motor only looks at the highest set bit.
type ComplianceSlope int

const (
	S2   ComplianceSlope = 2
	S4   ComplianceSlope = 4
	S8   ComplianceSlope = 8
	S16  ComplianceSlope = 16
	S32  ComplianceSlope = 32
	S64  ComplianceSlope = 64
	S128 ComplianceSlope = 128
)

// Driver is the set of commands which the control loop sends to motors.
// Angles are in actuator degrees, where 150 is the centre of travel.
type Driver interface {
	SetGoalPositionInDegrees(id int, degrees float64) error
	SetTorque(id int, enabled bool) error
	SetComplianceSlope(id int, slope ComplianceSlope) error
	SetMovingSpeed(id int, speed int) error
}

// Syncer is implemented by drivers which can hold back a batch of goal
// positions and start them all at once. The control loop wraps each tick in
// Sync, so that all legs start moving together.
type Syncer interface {
	Sync(f func() error) error
}

// Pinger is implemented by drivers which can check that a motor is present.
type Pinger interface {
	Ping(id int) error
}

// Sync runs f inside of d.Sync if d supports it, or just runs it otherwise.
func Sync(d Driver, f func() error) error {
	if s, ok := d.(Syncer); ok {
		return s.Sync(f)
	}

	return f()
}
