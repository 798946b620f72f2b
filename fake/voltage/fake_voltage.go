// Package voltage provides a voltmeter which reads whatever it's told to.
package voltage

import (
	"go.uber.org/atomic"
)

type FakeVoltage struct {
	voltage atomic.Float64
	err     error
}

func New(voltage float64) *FakeVoltage {
	v := &FakeVoltage{}
	v.Set(voltage)
	return v
}

func (s *FakeVoltage) Set(voltage float64) {
	s.voltage.Store(voltage)
}

// Fail makes every subsequent read return err.
func (s *FakeVoltage) Fail(err error) {
	s.err = err
}

func (s *FakeVoltage) Voltage(id int) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}

	return s.voltage.Load(), nil
}
