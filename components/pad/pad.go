// Package pad lets an operator drive the robot with a Sixaxis gamepad.
package pad

import (
	"io"
	"time"

	"github.com/adammck/sixaxis"
	"github.com/perchess/quadruped"
	"github.com/perchess/quadruped/math3d"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "pad",
})

const (
	stickMax   = 127.0
	triggerMax = 255.0
)

type Config struct {

	// How far (in degrees) to lean the body when the dpad or a trigger is
	// fully pressed.
	MaxLean float64
}

func DefaultConfig() Config {
	return Config{
		MaxLean: 15,
	}
}

// Pad reads the gamepad, and replaces the intent with whatever it says at the
// start of every tick.
//
// The left stick shifts the body, the right stick twists it, the dpad pitches
// it and the triggers bank it. Pressing start halts the robot.
type Pad struct {
	sa     *sixaxis.SA
	config Config
}

// New returns a pad which reads input events from r, which is usually
// something like /dev/input/event0.
func New(r io.Reader, config Config) *Pad {
	return &Pad{
		sa:     sixaxis.New(r),
		config: config,
	}
}

func (p *Pad) Boot() error {
	log.Infof("reading gamepad")
	go p.sa.Run()
	return nil
}

func (p *Pad) Tick(now time.Time, state *quadruped.State) error {
	i := p.Intent()

	if i.Halt && !state.Intent.Halt {
		log.Infof("pressed start")
	}

	state.Intent = i
	return nil
}

// Intent returns the intent described by the current state of the pad.
func (p *Pad) Intent() quadruped.Intent {
	sa := p.sa
	i := quadruped.Intent{}

	// Stick Y is positive towards the operator.
	i.Direction = math3d.Vector2{
		X: float64(sa.LeftStick.X) / stickMax,
		Y: float64(-sa.LeftStick.Y) / stickMax,
	}

	// Pushing right turns clockwise.
	i.Rotation = float64(-sa.RightStick.X) / stickMax

	if sa.Up > 0 {
		i.Lean.Pitch = p.config.MaxLean
	}

	if sa.Down > 0 {
		i.Lean.Pitch = -p.config.MaxLean
	}

	i.Lean.Bank = ((float64(sa.R2) - float64(sa.L2)) / triggerMax) * p.config.MaxLean
	i.Halt = sa.Start

	return i
}
