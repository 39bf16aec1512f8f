// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equation

import (
	"math"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// Rotational constrains the angle between axisA (body A's frame) and
// axisB (body B's frame) to not exceed maxAngle, used by cone/swing-twist
// limits. g = axisA.axisB - cos(maxAngle), which is negative while the
// limit is being violated; the [0, maxForce] force bounds keep the
// equation from pulling the axes apart.
type Rotational struct {
	Equation

	AxisA, AxisB math32.Vector3
	MaxAngle     float32
}

// NewRotational builds a one-sided angular limit equation, active only
// while the angle between the axes exceeds maxAngle.
func NewRotational(a, bb *body.Body, maxForce float32) *Rotational {
	r := &Rotational{}
	r.Init(a, bb, 0, maxForce)
	return r
}

// UpdateJacobian recomputes JeA/JeB as (axisB x axisA) and its negation,
// matching the teacher's RotationalEquation Jacobian.
func (r *Rotational) UpdateJacobian() {
	cross := r.AxisB
	cross.Cross(&r.AxisA)

	negCross := cross
	negCross.MultiplyScalar(-1)

	r.JeA.SetSpatial(math32.Vector3{})
	r.JeA.SetRotational(negCross)
	r.JeB.SetSpatial(math32.Vector3{})
	r.JeB.SetRotational(cross)
}

// Violation returns g = axisA.axisB - cos(maxAngle). Negative means the
// angle between the axes exceeds maxAngle.
func (r *Rotational) Violation() float32 {
	return r.AxisA.Dot(&r.AxisB) - float32(math.Cos(float64(r.MaxAngle)))
}

// ComputeRotationalB computes b using the violation as positional error.
func (r *Rotational) ComputeRotationalB(h float32) float32 {
	gq := r.Violation()
	gw := r.ComputeGW()
	giMf := r.ComputeGiMf()
	r.B = r.ComputeB(h, gq, gw, giMf)
	return r.B
}
