package kinematics

import (
	"fmt"
	"math"

	"github.com/perchess/quadruped/math3d"
	"github.com/perchess/quadruped/utils"
)

const (

	// The actuator angle at which a motor points straight along its link's
	// zero. AX-series motors travel 0-300°, so this is the middle.
	actuatorCenter = 150.0

	// The bearing of the target, relative to the home heading of the leg,
	// must be strictly inside of this many degrees either way.
	maxBearing = 90.0

	// Bearings this close to the limit are treated as on it.
	bearingEpsilon = 1e-9
)

// Geometry holds the link lengths of a leg, in cm. Every leg is the same.
type Geometry struct {
	CoxaLength  float64
	FemurLength float64
	TibiaLength float64
}

// DefaultGeometry is the geometry of the robot's legs.
var DefaultGeometry = Geometry{
	CoxaLength:  5.3,
	FemurLength: 6.5,
	TibiaLength: 13,
}

// MaxReach returns the furthest distance from the femur joint that the foot
// can reach.
func (g Geometry) MaxReach() float64 {
	return g.FemurLength + g.TibiaLength
}

// MinReach returns the nearest distance to the femur joint that the foot can
// reach.
func (g Geometry) MinReach() float64 {
	return math.Abs(g.FemurLength - g.TibiaLength)
}

// Limits is the range of angles which the motors can be sent to, in actuator
// degrees.
type Limits struct {
	Min float64
	Max float64
}

// DefaultLimits is the travel of an AX-series motor.
var DefaultLimits = Limits{Min: 0, Max: 300}

// Contains returns true if the angle is a number within the limits.
func (l Limits) Contains(deg float64) bool {
	return !math.IsNaN(deg) && deg >= l.Min && deg <= l.Max
}

// JointAngles are the anatomical angles of a leg, in degrees. Bearing is the
// direction of the foot from the coxa pivot, measured clockwise (from above)
// from the Y axis of the body. Femur is the angle of the femur from straight
// down, and Tibia is the inner angle between the femur and tibia.
type JointAngles struct {
	Bearing float64
	Femur   float64
	Tibia   float64
}

// GoalPositions are the angles to send to the three motors of a leg, in
// actuator degrees.
type GoalPositions struct {
	Coxa  float64
	Femur float64
	Tibia float64
}

func (g GoalPositions) String() string {
	return fmt.Sprintf("coxa=%.2f° femur=%.2f° tibia=%.2f°", g.Coxa, g.Femur, g.Tibia)
}

// Solver calculates the inverse kinematics of the legs. The zero value is not
// useful; use NewSolver.
type Solver struct {
	Geometry Geometry
	Limits   Limits
}

// NewSolver returns a Solver for the robot's legs.
func NewSolver() *Solver {
	return &Solver{
		Geometry: DefaultGeometry,
		Limits:   DefaultLimits,
	}
}

// Solve returns the motor angles which place the foot of the given leg at the
// target, which is in the body coordinate space. It's a pure function of its
// arguments, so it's safe to call concurrently.
func (s *Solver) Solve(target math3d.Vector3, cfg Configuration) (GoalPositions, error) {
	ja, err := s.SolveJoints(target, cfg)
	if err != nil {
		return GoalPositions{}, err
	}

	gp := s.Actuate(ja, cfg)

	// Check the final angles, so that we never command a motor past its end
	// stops. This also catches NaNs.
	for _, a := range [3]float64{gp.Coxa, gp.Femur, gp.Tibia} {
		if !s.Limits.Contains(a) {
			return GoalPositions{}, &SolveError{
				Leg:    cfg.ID,
				Target: target,
				Reason: fmt.Sprintf("%s outside of [%.0f, %.0f]", gp, s.Limits.Min, s.Limits.Max),
				Err:    ErrJointLimit,
			}
		}
	}

	return gp, nil
}

// SolveJoints returns the anatomical joint angles which place the foot of the
// given leg at the target.
func (s *Solver) SolveJoints(target math3d.Vector3, cfg Configuration) (JointAngles, error) {
	g := s.Geometry

	if !target.Finite() {
		return JointAngles{}, &SolveError{
			Leg:    cfg.ID,
			Target: target,
			Reason: "target is not finite",
			Err:    ErrUnreachableDistance,
		}
	}

	// Solve the coxa by looking at the target from above. The coxa rotates
	// around the Z axis of the body, so this is just 2d trig.
	rel := target.Subtract(cfg.CoxaPosition)
	targetAngle := utils.NormalizeDeg(utils.Deg(math.Atan2(rel.X, rel.Y)) + cfg.AngleOffset)

	// Targets behind the leg (including directly below the coxa) can't be
	// reached without flipping the femur over, so refuse them.
	if targetAngle >= maxBearing-bearingEpsilon || targetAngle <= -maxBearing+bearingEpsilon {
		return JointAngles{}, &SolveError{
			Leg:    cfg.ID,
			Target: target,
			Reason: fmt.Sprintf("bearing is %.3f°", targetAngle),
			Err:    ErrUnreachableDirection,
		}
	}

	// The femur and tibia move in the vertical plane containing the target,
	// so the rest is 2d trig on (horizontal distance, Z).
	horizontal := math.Hypot(rel.X, rel.Y) - g.CoxaLength
	reach := math.Hypot(horizontal, rel.Z)

	// The known points and lengths are:
	//
	//          (knee)
	//          /    \
	//      femur    tibia
	//        /        \
	//     (hip)--reach--(foot)
	//
	if reach > g.MaxReach() || reach < g.MinReach() {
		return JointAngles{}, &SolveError{
			Leg:    cfg.ID,
			Target: target,
			Reason: fmt.Sprintf("reach is %.3f, must be within [%.3f, %.3f]", reach, g.MinReach(), g.MaxReach()),
			Err:    ErrUnreachableDistance,
		}
	}

	tibiaInner := sss(reach, g.FemurLength, g.TibiaLength)
	femurInner := sss(g.TibiaLength, g.FemurLength, reach)

	// Angle between straight down and the line from the hip to the foot.
	elevation := utils.Deg(math.Atan2(horizontal, -rel.Z))

	return JointAngles{
		Bearing: targetAngle - cfg.AngleOffset,
		Femur:   femurInner + elevation,
		Tibia:   tibiaInner,
	}, nil
}

// Actuate converts anatomical joint angles into the actuator angles of the
// motors of the given leg.
func (s *Solver) Actuate(ja JointAngles, cfg Configuration) GoalPositions {
	targetAngle := utils.NormalizeDeg(ja.Bearing + cfg.AngleOffset)
	return GoalPositions{
		Coxa:  actuatorCenter - targetAngle,
		Femur: math.Abs(cfg.FemurCorrection + ja.Femur),
		Tibia: math.Abs(cfg.TibiaCorrection + ja.Tibia),
	}
}

// Forward returns the position of the foot of the given leg, in the body
// coordinate space, when its joints are at the given anatomical angles. It is
// the inverse of SolveJoints.
func (s *Solver) Forward(ja JointAngles, cfg Configuration) math3d.Vector3 {
	g := s.Geometry

	// Angles from straight down of each link. The tibia is folded back
	// towards the hip by however much the knee is bent.
	femur := utils.Rad(ja.Femur)
	tibia := utils.Rad(ja.Femur + ja.Tibia - 180)

	horizontal := g.CoxaLength + (g.FemurLength * math.Sin(femur)) + (g.TibiaLength * math.Sin(tibia))
	z := -(g.FemurLength * math.Cos(femur)) - (g.TibiaLength * math.Cos(tibia))

	bearing := utils.Rad(ja.Bearing)
	rel := math3d.Vector3{
		X: horizontal * math.Sin(bearing),
		Y: horizontal * math.Cos(bearing),
		Z: z,
	}

	return cfg.CoxaPosition.Add(rel)
}

// sss returns the angle (in degrees) opposite side a of a triangle, given the
// length of sides a, b, and c. The cosine is clamped, since rounding can push
// it fractionally outside of [-1, 1] at the limits of reach.
// See: http://en.wikipedia.org/wiki/Solution_of_triangles
func sss(a float64, b float64, c float64) float64 {
	cos := ((b * b) + (c * c) - (a * a)) / (2 * b * c)
	return utils.Deg(math.Acos(math.Max(-1, math.Min(1, cos))))
}
