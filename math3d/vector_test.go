package math3d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMagnitude(t *testing.T) {
	type eg struct {
		input Vector3
		exp   float64
	}

	examples := []eg{
		{Vector3{X: 0, Y: 0, Z: 0}, 0},
		{Vector3{X: 1, Y: 1, Z: 1}, 1.732050808},
		{Vector3{X: 1, Y: 2, Z: 3}, 3.741657387},
		{Vector3{X: 4, Y: 5, Z: 6}, 8.774964387},
	}

	for _, x := range examples {
		assert.InDelta(t, x.exp, x.input.Magnitude(), 0.01)
	}
}

func TestDistance(t *testing.T) {
	type eg struct {
		recv Vector3
		arg  Vector3
		out  float64
	}

	examples := []eg{
		{Vector3{X: 1, Y: 1, Z: 1}, Vector3{X: 1, Y: 1, Z: 1}, 0},
		{Vector3{X: 1, Y: 1, Z: 1}, Vector3{X: 2, Y: 2, Z: 2}, 1.732050808},
	}

	for _, x := range examples {
		assert.InDelta(t, x.out, x.recv.Distance(x.arg), 0.01)
	}
}

func TestUnit(t *testing.T) {
	type eg struct {
		in  Vector3
		out Vector3
	}

	examples := []eg{
		{Vector3{X: 0, Y: 0, Z: 0}, ZeroVector3},
		{Vector3{X: 1, Y: 1, Z: 1}, Vector3{X: 0.5773502691896258, Y: 0.5773502691896258, Z: 0.5773502691896258}},
		{Vector3{X: 2, Y: 2, Z: 2}, Vector3{X: 0.5773502691896258, Y: 0.5773502691896258, Z: 0.5773502691896258}},
	}

	for _, x := range examples {
		assert.Equal(t, x.out, x.in.Unit())
	}
}

func TestSubtract(t *testing.T) {
	v1 := Vector3{X: 1, Y: 2, Z: 3}
	v2 := Vector3{X: 4, Y: 5, Z: 6}

	assert.Equal(t, Vector3{X: 3, Y: 3, Z: 3}, v2.Subtract(v1))
	assert.Equal(t, Vector3{X: 5, Y: 7, Z: 9}, v2.Add(v1))
}

func TestMultiplyByScalar(t *testing.T) {
	v := Vector3{X: 1, Y: 2, Z: 3}

	vAct := v.MultiplyByScalar(0.5)
	vExp := Vector3{X: 0.5, Y: 1, Z: 1.5}
	assert.Equal(t, vExp, vAct)

	vAct = v.MultiplyByScalar(2)
	vExp = Vector3{X: 2, Y: 4, Z: 6}
	assert.Equal(t, vExp, vAct)
}

func TestSimilar(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: 1, Y: 2, Z: 3.0005}

	assert.True(t, a.Similar(a, 0))
	assert.False(t, a.Similar(b, 0))
	assert.True(t, a.Similar(b, 0.001))
	assert.False(t, a.Similar(b, 0.0001))
}

func TestMoveTowards(t *testing.T) {
	type eg struct {
		from Vector3
		to   Vector3
		max  float64
		exp  Vector3
	}

	examples := []eg{
		{Vector3{0, 0, 0}, Vector3{10, 0, 0}, 1, Vector3{1, 0, 0}},
		{Vector3{0, 0, 0}, Vector3{3, 4, 0}, 2.5, Vector3{1.5, 2, 0}},
		{Vector3{0, 0, 0}, Vector3{0, 0, -0.5}, 1, Vector3{0, 0, -0.5}},
		{Vector3{1, 2, 3}, Vector3{1, 2, 3}, 1, Vector3{1, 2, 3}},
	}

	for i, x := range examples {
		act := x.from.MoveTowards(x.to, x.max)
		assert.True(t, act.Similar(x.exp, 1e-12), "example %d: expected %s, got %s", i+1, x.exp, act)
	}
}

func TestMoveTowardsConvergesExactly(t *testing.T) {
	v := Vector3{X: 0, Y: 0, Z: 0}
	target := Vector3{X: 6, Y: 8, Z: 0}

	steps := 0
	for v != target && steps < 100 {
		v = v.MoveTowards(target, 0.5)
		steps++
	}

	assert.Equal(t, target, v)
	assert.Equal(t, 20, steps)
}

func TestRotate2D(t *testing.T) {
	type eg struct {
		in  Vector2
		deg float64
		out Vector2
	}

	examples := []eg{
		{Vector2{1, 0}, 90, Vector2{0, 1}},
		{Vector2{1, 0}, -90, Vector2{0, -1}},
		{Vector2{0, 1}, 90, Vector2{-1, 0}},
		{Vector2{3, 4}, 180, Vector2{-3, -4}},
		{Vector2{3, 4}, 360, Vector2{3, 4}},
	}

	for i, x := range examples {
		act := x.in.Rotate(x.deg)
		assert.InDelta(t, x.out.X, act.X, 1e-9, "example %d: X", i+1)
		assert.InDelta(t, x.out.Y, act.Y, 1e-9, "example %d: Y", i+1)
	}
}

func TestRotateHeadingKeepsHeight(t *testing.T) {
	v := Vector3{X: 15, Y: 15, Z: -13}
	r := v.RotateHeading(37)

	assert.Equal(t, v.Z, r.Z)
	assert.InDelta(t, v.XY().Magnitude(), r.XY().Magnitude(), 1e-9)
	assert.InDelta(t, 37, math.Atan2(r.Y, r.X)*180/math.Pi-45, 1e-9)
}

func TestString(t *testing.T) {
	assert.Equal(t, "[1.000; -2.500; 0.125]", Vector3{1, -2.5, 0.125}.String())
}

func TestMoveTowardsNegativeStep(t *testing.T) {
	from := Vector3{0, 0, 0}
	to := Vector3{10, 0, 0}

	assert.Equal(t, from, from.MoveTowards(to, -1))
	assert.Equal(t, to, to.MoveTowards(to, -1))
}

func TestFinite(t *testing.T) {
	assert.True(t, Vector3{1, -2, 3}.Finite())
	assert.False(t, Vector3{math.NaN(), 0, 0}.Finite())
	assert.False(t, Vector3{0, math.Inf(1), 0}.Finite())
	assert.False(t, Vector3{0, 0, math.Inf(-1)}.Finite())
}
