package voltage

import (
	"errors"
	"fmt"
	"time"

	"github.com/perchess/quadruped"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "voltage",
})

type Config struct {

	// The time between voltage checks. These are pretty quick, but not
	// instant. Running at low voltage for too long will damage the battery,
	// so it should be checked pretty regularly.
	Interval time.Duration

	// The voltage at which the robot should shut down.
	Minimum float64
}

func DefaultConfig() Config {
	return Config{
		Interval: 5 * time.Second,
		Minimum:  9.6,
	}
}

type Voltmeter interface {
	Voltage(id int) (float64, error)
}

// VoltageCheck reads the voltage of a single motor every so often, and shuts
// the robot down when it gets too low.
type VoltageCheck struct {
	meter  Voltmeter
	id     int
	config Config
	t      time.Time
}

func New(meter Voltmeter, id int, config Config) *VoltageCheck {
	return &VoltageCheck{
		meter:  meter,
		id:     id,
		config: config,
	}
}

func (vc *VoltageCheck) Boot() error {
	return nil
}

func (vc *VoltageCheck) Tick(now time.Time, state *quadruped.State) error {
	if !vc.NeedsVoltageCheck(now) {
		return nil
	}

	err := vc.CheckVoltage(now)
	if errors.Is(err, ErrLowVoltage) {
		state.Shutdown = true
	}

	return err
}

// NeedsVoltageCheck returns true if it's been a while since we checked the
// voltage level.
func (vc *VoltageCheck) NeedsVoltageCheck(now time.Time) bool {
	return now.Sub(vc.t) >= vc.config.Interval
}

// ErrLowVoltage is returned when the battery needs charging.
var ErrLowVoltage = errors.New("low voltage")

// CheckVoltage fetches the voltage level of the motor, and returns an error if
// it's too low. In this case, the robot should be shut down as soon as
// possible to preserve the battery. A failed read isn't treated as low.
func (vc *VoltageCheck) CheckVoltage(now time.Time) error {
	vc.t = now

	val, err := vc.meter.Voltage(vc.id)
	if err != nil {
		return fmt.Errorf("%w (while reading voltage of motor #%d)", err, vc.id)
	}

	log.Infof("voltage: %.2fv", val)

	if val < vc.config.Minimum {
		return fmt.Errorf("%w: %.2fv is below %.2fv", ErrLowVoltage, val, vc.config.Minimum)
	}

	return nil
}
