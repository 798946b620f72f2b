package kinematics

import (
	"errors"
	"math"
	"testing"

	"github.com/perchess/quadruped/math3d"
	"github.com/perchess/quadruped/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// atBearing returns a target for the given leg, at the given raw bearing (in
// degrees, clockwise from +Y), horizontal distance from the coxa pivot, and
// height.
func atBearing(cfg Configuration, deg, horizontal, z float64) math3d.Vector3 {
	r := utils.Rad(deg)
	return cfg.CoxaPosition.Add(math3d.Vector3{
		X: horizontal * math.Sin(r),
		Y: horizontal * math.Cos(r),
		Z: z,
	})
}

func TestSolveRelaxedStance(t *testing.T) {
	s := NewSolver()
	tbl := DefaultTable()
	stance := RelaxedStance()

	type eg struct {
		leg LegID
		exp GoalPositions
	}

	// The stance is symmetrical, so every coxa is centred and the left and
	// right femurs and tibias mirror each other around 150°.
	examples := []eg{
		{FrontLeft, GoalPositions{Coxa: 150, Femur: 137.017, Tibia: 204.010}},
		{FrontRight, GoalPositions{Coxa: 150, Femur: 162.983, Tibia: 95.990}},
		{RearLeft, GoalPositions{Coxa: 150, Femur: 162.983, Tibia: 95.990}},
		{RearRight, GoalPositions{Coxa: 150, Femur: 137.017, Tibia: 204.010}},
	}

	for _, x := range examples {
		act, err := s.Solve(stance[x.leg], tbl[x.leg])
		require.NoError(t, err, "leg %s", x.leg)
		assert.InDelta(t, x.exp.Coxa, act.Coxa, 1e-9, "leg %s coxa", x.leg)
		assert.InDelta(t, x.exp.Femur, act.Femur, 0.001, "leg %s femur", x.leg)
		assert.InDelta(t, x.exp.Tibia, act.Tibia, 0.001, "leg %s tibia", x.leg)
	}
}

func TestSolveFrontLeftIsDeterministic(t *testing.T) {
	s := NewSolver()
	cfg := DefaultTable()[FrontLeft]
	target := math3d.Vector3{X: -15, Y: 15, Z: -13}

	first, err := s.Solve(target, cfg)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		act, err := s.Solve(target, cfg)
		require.NoError(t, err)
		assert.Equal(t, first, act)
	}
}

func TestRoundTrip(t *testing.T) {
	s := NewSolver()
	tbl := DefaultTable()

	targets := RelaxedStance()
	moved := RelaxedStance()
	moved.Translate(math3d.Vector3{X: 1.5, Y: -2, Z: 3})
	twisted := RelaxedStance()
	twisted.Rotate(10)

	for _, p := range []Positions{targets, moved, twisted} {
		for _, id := range AllLegIDs {
			ja, err := s.SolveJoints(p[id], tbl[id])
			require.NoError(t, err, "leg %s target %s", id, p[id])

			act := s.Forward(ja, tbl[id])
			assert.True(t, act.Similar(p[id], 1e-3), "leg %s: expected %s, got %s", id, p[id], act)
		}
	}
}

func TestMirrorSymmetry(t *testing.T) {
	s := NewSolver()
	tbl := DefaultTable()

	mirror := func(v math3d.Vector3) math3d.Vector3 {
		return math3d.Vector3{X: -v.X, Y: v.Y, Z: v.Z}
	}

	pairs := [][2]LegID{
		{FrontLeft, FrontRight},
		{RearLeft, RearRight},
	}

	targets := []math3d.Vector3{
		{X: -15, Y: 15, Z: -13},
		{X: -14, Y: 17, Z: -11},
		{X: -17, Y: 12, Z: -14},
	}

	for _, pair := range pairs {
		left, right := tbl[pair[0]], tbl[pair[1]]
		for _, v := range targets {

			// Rear targets are reflected front-to-back as well.
			if pair[0] == RearLeft {
				v.Y = -v.Y
			}

			l, err := s.Solve(v, left)
			require.NoError(t, err)

			r, err := s.Solve(mirror(v), right)
			require.NoError(t, err)

			// Mirrored motors are mounted facing each other, so their angles
			// mirror around the centre of travel.
			assert.InDelta(t, 300, l.Coxa+r.Coxa, 1e-9)
			assert.InDelta(t, 300, l.Femur+r.Femur, 1e-9)
			assert.InDelta(t, 300, l.Tibia+r.Tibia, 1e-9)
		}
	}
}

func TestDirectionBoundary(t *testing.T) {
	s := NewSolver()
	cfg := DefaultTable()[FrontLeft]

	// The front left leg is at 45°, so a raw bearing of 45° is 90° from home.
	_, err := s.Solve(atBearing(cfg, 45, 14.142, -13), cfg)
	assert.True(t, errors.Is(err, ErrUnreachableDirection), "got %v", err)

	_, err = s.Solve(atBearing(cfg, -135, 14.142, -13), cfg)
	assert.True(t, errors.Is(err, ErrUnreachableDirection), "got %v", err)

	gp, err := s.Solve(atBearing(cfg, 44.999, 14.142, -13), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 60.001, gp.Coxa, 1e-6)

	gp, err = s.Solve(atBearing(cfg, -134.999, 14.142, -13), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 239.999, gp.Coxa, 1e-6)
}

func TestDirectionBehindRearLeg(t *testing.T) {
	s := NewSolver()
	cfg := DefaultTable()[RearLeft]

	// Straight backwards is 45° from the home heading of the rear left leg,
	// so must be reachable even though the raw bearing wraps around.
	gp, err := s.Solve(atBearing(cfg, 180, 12, -13), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 195, gp.Coxa, 1e-9)

	// Straight forwards is behind it.
	_, err = s.Solve(atBearing(cfg, 0, 12, -13), cfg)
	assert.True(t, errors.Is(err, ErrUnreachableDirection), "got %v", err)
}

func TestDirectlyBelowCoxa(t *testing.T) {
	s := NewSolver()
	cfg := DefaultTable()[FrontRight]

	// atan2(0, 0) is zero, i.e. 45° from the home heading of the front right
	// leg, so this fails on distance rather than direction.
	_, err := s.Solve(cfg.CoxaPosition.Add(math3d.Vector3{Z: -3}), cfg)
	assert.True(t, errors.Is(err, ErrUnreachableDistance), "got %v", err)
}

func TestDistanceEnvelope(t *testing.T) {
	s := NewSolver()
	g := s.Geometry
	cfg := DefaultTable()[FrontLeft]

	// Home heading of the front left leg, 5cm below the coxa, at the given
	// distance from the femur joint.
	at := func(reach float64) math3d.Vector3 {
		return atBearing(cfg, -45, g.CoxaLength+math.Sqrt(reach*reach-25), -5)
	}

	_, err := s.Solve(at(g.MaxReach()+1e-6), cfg)
	assert.True(t, errors.Is(err, ErrUnreachableDistance), "got %v", err)

	ja, err := s.SolveJoints(at(g.MaxReach()-1e-6), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 180, ja.Tibia, 0.1)

	gp, err := s.Solve(at(g.MaxReach()-1e-6), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 115, gp.Tibia, 0.1)

	_, err = s.Solve(at(g.MinReach()-1e-3), cfg)
	assert.True(t, errors.Is(err, ErrUnreachableDistance), "got %v", err)

	_, err = s.Solve(at(g.MinReach()+1e-3), cfg)
	assert.False(t, errors.Is(err, ErrUnreachableDistance), "got %v", err)
}

func TestJointLimit(t *testing.T) {
	s := NewSolver()
	s.Limits = Limits{Min: 100, Max: 200}
	cfg := DefaultTable()[FrontLeft]

	// The relaxed stance puts the front left tibia at ~204°.
	_, err := s.Solve(RelaxedStance()[FrontLeft], cfg)
	assert.True(t, errors.Is(err, ErrJointLimit), "got %v", err)

	var se *SolveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, FrontLeft, se.Leg)
}

func TestSolveError(t *testing.T) {
	err := &SolveError{
		Leg:    RearRight,
		Target: math3d.Vector3{X: 1, Y: 2, Z: 3},
		Reason: "bearing is 91.000°",
		Err:    ErrUnreachableDirection,
	}

	assert.Equal(t, "RR: target direction unreachable (bearing is 91.000°) for target [1.000; 2.000; 3.000]", err.Error())
	assert.True(t, errors.Is(err, ErrUnreachableDirection))
}

func TestHeadingConvention(t *testing.T) {
	s := NewSolver()
	cfg := DefaultTable()[FrontRight]
	foot := RelaxedStance()[FrontRight]

	before, err := s.Solve(foot, cfg)
	require.NoError(t, err)

	// Turning the foot counter-clockwise about its own hip must raise the
	// coxa angle by the same amount.
	rel := foot.Subtract(cfg.CoxaPosition).RotateHeading(10)
	after, err := s.Solve(cfg.CoxaPosition.Add(rel), cfg)
	require.NoError(t, err)

	assert.InDelta(t, before.Coxa+10, after.Coxa, 1e-9)
	assert.InDelta(t, before.Femur, after.Femur, 1e-9)
	assert.InDelta(t, before.Tibia, after.Tibia, 1e-9)
}

func TestNonFiniteTarget(t *testing.T) {
	s := NewSolver()
	cfg := DefaultTable()[FrontLeft]

	for _, v := range []math3d.Vector3{
		{X: math.NaN(), Y: 15, Z: -13},
		{X: -15, Y: math.Inf(1), Z: -13},
		{X: -15, Y: 15, Z: math.NaN()},
	} {
		_, err := s.SolveJoints(v, cfg)
		assert.True(t, errors.Is(err, ErrUnreachableDistance), "got %v", err)

		_, err = s.Solve(v, cfg)
		assert.True(t, errors.Is(err, ErrUnreachableDistance), "got %v", err)
	}
}
