package controller

import (
	"math"
	"time"

	"github.com/perchess/quadruped"
	"github.com/perchess/quadruped/kinematics"
	"github.com/perchess/quadruped/math3d"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "controller",
})

type Config struct {

	// How far (in cm) to shift the body when the direction is fully pressed.
	MaxShift float64

	// How far (in degrees) to twist the body when the rotation is fully
	// pressed.
	MaxTwist float64

	// The furthest (in degrees) which the body may lean on any axis.
	MaxLean float64
}

func DefaultConfig() Config {
	return Config{
		MaxShift: 3,
		MaxTwist: 15,
		MaxLean:  15,
	}
}

// Target is where the controller sends the foot positions it calculates.
type Target interface {
	SetTarget(kinematics.Positions)
}

// Controller turns the intent of the operator into target foot positions.
// The body doesn't walk; it shifts, twists, and leans over planted feet.
type Controller struct {
	legs   Target
	stance kinematics.Positions
	config Config

	// The last intent sent as a target, to avoid clobbering targets set by
	// other means while the operator isn't doing anything.
	last    quadruped.Intent
	applied bool

	halt Latch
}

func New(legs Target, stance kinematics.Positions, config Config) *Controller {
	return &Controller{
		legs:   legs,
		stance: stance,
		config: config,
	}
}

func (c *Controller) Boot() error {
	return nil
}

func (c *Controller) Tick(now time.Time, state *quadruped.State) error {

	// Halting is edge-triggered, so holding it doesn't spam the log.
	if c.halt.Run(state.Intent.Halt) {
		log.Infof("halt requested, shutting down")
		state.Shutdown = true
	}

	i := c.clamp(state.Intent)
	if c.applied && i == c.last {
		return nil
	}

	log.Debugf("intent=%s", i)
	c.legs.SetTarget(c.Pose(i))
	c.last = i
	c.applied = true

	return nil
}

// Pose returns the foot positions which put the body where the intent wants
// it. Moving the body one way is the same as moving the feet the other way,
// so every transform is inverted.
func (c *Controller) Pose(i quadruped.Intent) kinematics.Positions {
	i = c.clamp(i)
	p := c.stance.Copy()

	shift := math3d.MakeVector3FromXY(i.Direction, 0).MultiplyByScalar(-c.config.MaxShift)
	p.Translate(shift)
	p.Rotate(-i.Rotation * c.config.MaxTwist)
	p.RotateCenterQuat(i.Lean.Quat().Inverse())

	return p
}

// clamp returns the intent limited to what the robot can do.
func (c *Controller) clamp(i quadruped.Intent) quadruped.Intent {
	if i.Direction.Magnitude() > 1 {
		m := i.Direction.Magnitude()
		i.Direction = math3d.Vector2{X: i.Direction.X / m, Y: i.Direction.Y / m}
	}

	i.Rotation = clamp(i.Rotation, 1)
	i.Lean.Heading = clamp(i.Lean.Heading, c.config.MaxLean)
	i.Lean.Pitch = clamp(i.Lean.Pitch, c.config.MaxLean)
	i.Lean.Bank = clamp(i.Lean.Bank, c.config.MaxLean)

	return i
}

func clamp(v, max float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-max, math.Min(max, v))
}
