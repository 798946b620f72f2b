// Package servo provides a driver which records commands instead of sending
// them to motors.
package servo

import (
	"fmt"
	"sync"

	"github.com/perchess/quadruped/servos"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "fake/servo",
})

// Motor is the last known state of a single fake motor.
type Motor struct {
	Position        float64
	Torque          bool
	ComplianceSlope servos.ComplianceSlope
	MovingSpeed     int

	// The number of goal positions written.
	Moves int
}

// Driver implements servos.Driver, servos.Syncer, and servos.Pinger without
// any hardware.
type Driver struct {
	mu     sync.Mutex
	motors map[int]*Motor
	fail   map[int]error
	syncs  int
}

func New() *Driver {
	return &Driver{
		motors: map[int]*Motor{},
		fail:   map[int]error{},
	}
}

// FailOn makes every subsequent command to the given motor return err. Pass
// nil to make it work again.
func (d *Driver) FailOn(id int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err == nil {
		delete(d.fail, id)
		return
	}

	d.fail[id] = err
}

// Motor returns a copy of the state of the given motor, and whether it has
// ever been sent a command.
func (d *Driver) Motor(id int) (Motor, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.motors[id]
	if !ok {
		return Motor{}, false
	}

	return *m, true
}

// Syncs returns the number of completed calls to Sync.
func (d *Driver) Syncs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syncs
}

// motor returns the state of the given motor, or the error it's been told to
// fail with. The caller must hold the lock.
func (d *Driver) motor(id int) (*Motor, error) {
	if err, ok := d.fail[id]; ok {
		return nil, fmt.Errorf("%w (motor #%d)", err, id)
	}

	m, ok := d.motors[id]
	if !ok {
		m = &Motor{}
		d.motors[id] = m
	}

	return m, nil
}

func (d *Driver) Ping(id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.motor(id)
	return err
}

func (d *Driver) SetGoalPositionInDegrees(id int, degrees float64) error {
	if _, err := servos.DegreesToUnits(degrees); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	m, err := d.motor(id)
	if err != nil {
		return err
	}

	log.Debugf("motor #%d: goal position %.2f°", id, degrees)
	m.Position = degrees
	m.Moves++
	return nil
}

func (d *Driver) SetTorque(id int, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, err := d.motor(id)
	if err != nil {
		return err
	}

	log.Debugf("motor #%d: torque %t", id, enabled)
	m.Torque = enabled
	return nil
}

func (d *Driver) SetComplianceSlope(id int, slope servos.ComplianceSlope) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, err := d.motor(id)
	if err != nil {
		return err
	}

	m.ComplianceSlope = slope
	return nil
}

func (d *Driver) SetMovingSpeed(id int, speed int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, err := d.motor(id)
	if err != nil {
		return err
	}

	m.MovingSpeed = speed
	return nil
}

func (d *Driver) Sync(f func() error) error {
	err := f()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.syncs++

	return err
}
