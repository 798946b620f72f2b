package legs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/perchess/quadruped"
	"github.com/perchess/quadruped/kinematics"
	"github.com/perchess/quadruped/math3d"
	"github.com/perchess/quadruped/servos"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
)

type State string

const (
	sDefault State = ""
	sRunning State = "sRunning"
	sHalt    State = "sHalt"
)

var errShutdown = errors.New("can't start after shutdown")

var log = logrus.WithFields(logrus.Fields{
	"pkg": "legs",
})

type Config struct {

	// The furthest (in cm) which any foot may move in a single tick.
	MaxStep float64

	// Applied to every motor at boot, and when restarting after Halt.
	Servos servos.Settings
}

func DefaultConfig() Config {
	return Config{
		MaxStep: 0.5,
		Servos:  servos.DefaultSettings,
	}
}

// Legs moves the feet towards a target, a bounded step per tick. The target
// can be set from any goroutine; everything else happens on the loop.
type Legs struct {
	driver servos.Driver
	table  kinematics.Table
	solver *kinematics.Solver
	config Config

	// The state that the legs are currently in.
	State        State
	stateCounter int

	// The foot positions which were last sent to the motors, and the goal
	// positions they were solved to. Only touched by the loop.
	current kinematics.Positions
	goals   [kinematics.NumLegs]kinematics.GoalPositions

	// Legs which couldn't be solved on the last tick, to avoid logging the
	// same warning every tick while a leg is stuck.
	failing kinematics.Legs

	target   atomic.Pointer[kinematics.Positions]
	position atomic.Pointer[kinematics.Positions]

	// True while the motors are powered down by Halt, until Start.
	halted atomic.Bool

	// Set by the loop once shutdown has been requested. Never cleared.
	shutdown atomic.Bool

	// Serializes Halt and Start, which can be called from other goroutines.
	power sync.Mutex
}

// New returns the legs component. It refuses to build with a leg table which
// doesn't validate, since driving it could send goals to the wrong motors.
func New(d servos.Driver, table kinematics.Table, solver *kinematics.Solver, config Config) (*Legs, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	if config.MaxStep <= 0 {
		return nil, fmt.Errorf("max step must be positive, got %.2f", config.MaxStep)
	}

	l := &Legs{
		driver: d,
		table:  table,
		solver: solver,
		config: config,
		State:  sDefault,
	}

	stance := kinematics.RelaxedStance()
	l.current = stance
	l.SetTarget(stance)
	l.publish()

	return l, nil
}

// Boot configures every motor, and then moves the feet to the relaxed stance
// at whatever speed the motors are set to.
func (l *Legs) Boot() error {
	err := servos.Setup(l.driver, l.config.Servos, l.table.MotorIDs()...)
	if err != nil {
		return err
	}

	goals, held := l.solve(&l.current)
	if held != kinematics.NoLegs {
		return fmt.Errorf("can't solve the initial stance %s (legs %s)", l.current, held)
	}

	l.goals = goals
	return l.drive(goals)
}

func (l *Legs) SetState(s State) {
	log.Infof("state=%v", s)
	l.stateCounter = 0
	l.State = s
}

// SetTarget sets the positions which the feet should move towards.
func (l *Legs) SetTarget(p kinematics.Positions) {
	c := p.Copy()
	l.target.Store(&c)
}

// Target returns a copy of the current target.
func (l *Legs) Target() kinematics.Positions {
	return l.target.Load().Copy()
}

// MoveLeg changes the target of a single leg, leaving the others alone.
func (l *Legs) MoveLeg(id kinematics.LegID, v math3d.Vector3) {
	for {
		old := l.target.Load()
		next := old.Copy()
		next.Set(id, v)

		if l.target.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Position returns the foot positions which were last sent to the motors.
func (l *Legs) Position() kinematics.Positions {
	return l.position.Load().Copy()
}

// Halted returns true while the motors are powered down.
func (l *Legs) Halted() bool {
	return l.halted.Load()
}

// Halt turns off every motor immediately, and stops the legs from moving until
// Start is called. It's safe to call from any goroutine.
func (l *Legs) Halt() error {
	l.power.Lock()
	defer l.power.Unlock()

	l.halted.Store(true)
	return servos.DisableMotors(l.driver, l.table.MotorIDs()...)
}

// Start powers the motors back up after Halt. The feet resume from the last
// position sent. It's safe to call from any goroutine, but fails once the
// loop has seen a shutdown.
func (l *Legs) Start() error {
	l.power.Lock()
	defer l.power.Unlock()

	if l.shutdown.Load() {
		return errShutdown
	}

	err := servos.Setup(l.driver, l.config.Servos, l.table.MotorIDs()...)
	if err != nil {
		return err
	}

	// Shutdown arrived while the motors were being set up.
	if l.shutdown.Load() {
		return multierr.Append(errShutdown, servos.DisableMotors(l.driver, l.table.MotorIDs()...))
	}

	l.halted.Store(false)
	return nil
}

func (l *Legs) Tick(now time.Time, state *quadruped.State) error {
	if state.Shutdown && l.State != sHalt {
		l.shutdown.Store(true)
		l.SetState(sHalt)
	}

	l.stateCounter += 1

	switch l.State {
	case sDefault:
		l.SetState(sRunning)

	// Power down once, and then do nothing forever.
	case sHalt:
		if l.stateCounter == 1 {
			return l.Halt()
		}

		return nil

	case sRunning:

	default:
		return fmt.Errorf("unknown state: %#v", l.State)
	}

	if l.halted.Load() {
		return nil
	}

	target := l.target.Load()
	if l.current.MoveFinished(*target) {
		return nil
	}

	next := l.current.Copy()
	next.MoveTowards(*target, l.config.MaxStep)

	goals, _ := l.solve(&next)
	err := servos.Sync(l.driver, func() error {
		return l.drive(goals)
	})

	// Commit even if some writes failed. The goals which did get through
	// are already moving, and the rest will be retried next tick.
	l.current = next
	l.goals = goals
	l.publish()

	return err
}

// solve returns the goal positions of every leg at p. Legs which can't be
// solved hold their previous position, which is written back into p; held is
// the set of those legs.
func (l *Legs) solve(p *kinematics.Positions) (goals [kinematics.NumLegs]kinematics.GoalPositions, held kinematics.Legs) {
	for _, id := range kinematics.AllLegIDs {
		g, err := l.solver.Solve(p.Get(id), l.table[id])
		if err != nil {
			if !l.failing.Has(id) {
				log.Warnf("holding leg: %s", err)
			}

			held |= id.Flag()
			p.Set(id, l.current.Get(id))
			goals[id] = l.goals[id]
			continue
		}

		if l.failing.Has(id) {
			log.Infof("%s: reachable again at %s", id, p.Get(id))
		}

		goals[id] = g
	}

	l.failing = held
	return goals, held
}

// drive sends the given goals to every motor, and returns every error.
func (l *Legs) drive(goals [kinematics.NumLegs]kinematics.GoalPositions) error {
	var errs error

	for _, id := range kinematics.AllLegIDs {
		cfg := l.table[id]
		g := goals[id]

		log.Debugf("%s %s", id, g)

		errs = multierr.Append(errs, l.driver.SetGoalPositionInDegrees(cfg.Coxa, g.Coxa))
		errs = multierr.Append(errs, l.driver.SetGoalPositionInDegrees(cfg.Femur, g.Femur))
		errs = multierr.Append(errs, l.driver.SetGoalPositionInDegrees(cfg.Tibia, g.Tibia))
	}

	return errs
}

func (l *Legs) publish() {
	p := l.current.Copy()
	l.position.Store(&p)
}
