package math3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/perchess/quadruped/utils"
)

// EulerAngles is a rotation of the body about its own origin, in degrees.
type EulerAngles struct {
	Heading float64 `json:"heading"` // z (yaw)
	Pitch   float64 `json:"pitch"`   // x
	Bank    float64 `json:"bank"`    // y (roll)
}

var (
	IdentityOrientation = EulerAngles{}
)

func (ea EulerAngles) String() string {
	return fmt.Sprintf("&Euler{h=%+.2f° p=%+.2f° b=%+.2f°}", ea.Heading, ea.Pitch, ea.Bank)
}

// Quat returns the rotation as a quaternion. The heading is applied first,
// then the pitch and bank in the rotated frame.
func (ea EulerAngles) Quat() mgl64.Quat {
	h := mgl64.QuatRotate(utils.Rad(ea.Heading), mgl64.Vec3{0, 0, 1})
	p := mgl64.QuatRotate(utils.Rad(ea.Pitch), mgl64.Vec3{1, 0, 0})
	b := mgl64.QuatRotate(utils.Rad(ea.Bank), mgl64.Vec3{0, 1, 0})
	return h.Mul(p).Mul(b)
}

// Rotate returns v rotated about the origin by the given quaternion.
func Rotate(v Vector3, q mgl64.Quat) Vector3 {
	r := q.Rotate(mgl64.Vec3{v.X, v.Y, v.Z})
	return Vector3{r[0], r[1], r[2]}
}
