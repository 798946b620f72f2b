// Package quadruped hosts the components which make up the robot, and ticks
// them in order at a fixed rate.
package quadruped

import (
	"fmt"
	"time"

	"github.com/perchess/quadruped/math3d"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "quadruped",
})

// Intent is what the operator wants the robot to do, as sent by the remote.
type Intent struct {

	// The direction to shift the body in, on the horizontal plane. Each axis
	// is in [-1, 1]; positive Y is forwards.
	Direction math3d.Vector2 `json:"direction"`

	// Yaw, in [-1, 1]. Positive is counter-clockwise when viewed from above.
	Rotation float64 `json:"rotation"`

	// Posture of the body relative to the feet.
	Lean math3d.EulerAngles `json:"lean"`

	// True if the robot should power down.
	Halt bool `json:"halt"`
}

func (i Intent) String() string {
	return fmt.Sprintf("&Intent{dir=%s rot=%.2f lean=%s halt=%t}", i.Direction, i.Rotation, i.Lean, i.Halt)
}

// State is passed to each component in turn during a tick. Earlier components
// can change it to influence later ones.
type State struct {
	Intent Intent

	// Components can set this to true to indicate that the robot should shut
	// down. Once set, it stays set.
	Shutdown bool
}

type Component interface {
	Boot() error
	Tick(now time.Time, state *State) error
}

type Quadruped struct {
	Components []Component
	shutdown   atomic.Bool
}

func New() *Quadruped {
	return &Quadruped{
		Components: []Component{},
	}
}

// Add registers a component to receive ticks every frame. Components are
// ticked in the order in which they were added.
func (q *Quadruped) Add(c Component) {
	q.Components = append(q.Components, c)
}

// Boot calls Boot on each component, and stops at the first error.
func (q *Quadruped) Boot() error {
	for _, c := range q.Components {
		log.Debugf("booting %T", c)

		err := c.Boot()
		if err != nil {
			return fmt.Errorf("%w (while booting %T)", err, c)
		}
	}

	return nil
}

// Tick calls Tick on each component. Errors are logged rather than returned,
// since one misbehaving component shouldn't stop the others.
func (q *Quadruped) Tick(now time.Time) {
	state := &State{
		Shutdown: q.shutdown.Load(),
	}

	for _, c := range q.Components {
		err := c.Tick(now, state)
		if err != nil {
			log.Warnf("error while ticking %T: %s", c, err)
		}
	}

	if state.Shutdown {
		q.shutdown.Store(true)
	}
}

// RequestShutdown asks for the robot to power down on the next tick. It's
// safe to call from any goroutine.
func (q *Quadruped) RequestShutdown() {
	q.shutdown.Store(true)
}

// ShuttingDown returns true once a shutdown has been requested, either via
// RequestShutdown or by a component.
func (q *Quadruped) ShuttingDown() bool {
	return q.shutdown.Load()
}
