package servos_test

import (
	"errors"
	"testing"

	"github.com/perchess/quadruped/fake/servo"
	"github.com/perchess/quadruped/servos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestSetup(t *testing.T) {
	d := servo.New()

	require.NoError(t, servos.Setup(d, servos.DefaultSettings, 1, 2, 3))

	for _, id := range []int{1, 2, 3} {
		m, ok := d.Motor(id)
		require.True(t, ok)
		assert.True(t, m.Torque)
		assert.Equal(t, servos.S32, m.ComplianceSlope)
		assert.Equal(t, 300, m.MovingSpeed)
	}
}

func TestSetupStopsAtMissingMotor(t *testing.T) {
	d := servo.New()
	missing := errors.New("no reply")
	d.FailOn(2, missing)

	err := servos.Setup(d, servos.DefaultSettings, 1, 2, 3)
	assert.ErrorIs(t, err, missing)

	// Pings happen first, so nothing was powered up.
	m, _ := d.Motor(1)
	assert.False(t, m.Torque)
}

func TestDisableMotors(t *testing.T) {
	d := servo.New()
	require.NoError(t, servos.Setup(d, servos.DefaultSettings, 1, 2, 3, 4))

	broken := errors.New("broken")
	d.FailOn(2, broken)
	d.FailOn(3, broken)

	err := servos.DisableMotors(d, 1, 2, 3, 4)
	assert.ErrorIs(t, err, broken)
	assert.Len(t, multierr.Errors(err), 2)

	// The others were still turned off.
	for _, id := range []int{1, 4} {
		m, _ := d.Motor(id)
		assert.False(t, m.Torque, "motor #%d", id)
	}
}

func TestSyncWithoutSyncer(t *testing.T) {
	called := false
	err := servos.Sync(plainDriver{}, func() error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
}

type plainDriver struct{}

func (plainDriver) SetGoalPositionInDegrees(int, float64) error          { return nil }
func (plainDriver) SetTorque(int, bool) error                            { return nil }
func (plainDriver) SetComplianceSlope(int, servos.ComplianceSlope) error { return nil }
func (plainDriver) SetMovingSpeed(int, int) error                        { return nil }
