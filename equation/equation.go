// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equation

import (
	"math"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// DefaultStiffness/DefaultRelaxation match the teacher's equation defaults.
const (
	DefaultStiffness  = 1e7
	DefaultRelaxation = 3.0
)

// Equation is the common SPOOK-parameterized Jacobian equation base every
// concrete equation variant embeds. a, b, eps are SPOOK parameters derived
// from stiffness/relaxation/timestep (Lacoursière's formulation).
type Equation struct {
	ID         int
	BodyA      *body.Body
	BodyB      *body.Body
	MinForce   float32
	MaxForce   float32
	Multiplier float32

	a, b, eps float32

	JeA, JeB JacobianElement

	Enabled bool

	// B caches the last ComputeXxxB result, read by the pooled solver
	// during its once-per-step precomputation pass.
	B float32
}

// Init sets up minForce/maxForce and default SPOOK parameters, matching the
// teacher's Equation constructor.
func (e *Equation) Init(a, bb *body.Body, minForce, maxForce float32) {
	e.BodyA = a
	e.BodyB = bb
	e.MinForce = minForce
	e.MaxForce = maxForce
	e.Enabled = true
	e.SetSpookParams(DefaultStiffness, DefaultRelaxation, 1.0/60.0)
}

// SetSpookParams derives a, b, eps from stiffness, relaxation, and the
// solver's fixed timestep, per Lacoursière's SPOOK formulation.
func (e *Equation) SetSpookParams(stiffness, relaxation, timeStep float32) {
	d := float64(relaxation)
	k := float64(stiffness)
	h := float64(timeStep)

	e.a = float32(4.0 / (h * (1 + 4*d)))
	e.b = float32(4.0 * d / (1 + 4*d))
	e.eps = float32(4.0 / (h * h * k * (1 + 4*d)))
}

// ComputeB computes the equation's velocity-solve right-hand side:
// -Gq*a - GW*b - GiMf*h.
func (e *Equation) ComputeB(h float32, gq, gw, giMf float32) float32 {
	return -gq*e.a - gw*e.b - giMf*h
}

// ComputeGq computes G.q, the positional error along the Jacobian.
func (e *Equation) ComputeGq() float32 {
	xa, xb := e.BodyA.Position(), e.BodyB.Position()
	return e.JeA.MultiplyVectors(&xa, &zeroVec) + e.JeB.MultiplyVectors(&xb, &zeroVec)
}

var zeroVec math32.Vector3

// ComputeGW computes G.W, the relative velocity along the Jacobian.
func (e *Equation) ComputeGW() float32 {
	va, wa := e.BodyA.Velocity(), e.BodyA.AngularVelocity()
	vb, wb := e.BodyB.Velocity(), e.BodyB.AngularVelocity()
	return e.JeA.MultiplyVectors(&va, &wa) + e.JeB.MultiplyVectors(&vb, &wb)
}

// ComputeGiMf computes G * invM * f, the Jacobian applied to the bodies'
// mass-scaled external forces/torques.
func (e *Equation) ComputeGiMf() float32 {
	fa, ta := e.BodyA.Force(), e.BodyA.Torque()
	fb, tb := e.BodyB.Force(), e.BodyB.Torque()

	iMfA := fa
	iMfA.MultiplyScalar(e.BodyA.InvMassEff())
	iMtA := ta
	iMtA.ApplyMatrix3(e.BodyA.InvRotInertiaWorldEff())

	iMfB := fb
	iMfB.MultiplyScalar(e.BodyB.InvMassEff())
	iMtB := tb
	iMtB.ApplyMatrix3(e.BodyB.InvRotInertiaWorldEff())

	return e.JeA.MultiplyVectors(&iMfA, &iMtA) + e.JeB.MultiplyVectors(&iMfB, &iMtB)
}

// ComputeGiMGt computes G * invM * G^T, the raw (uninverted) effective
// mass denominator.
func (e *Equation) ComputeGiMGt() float32 {
	invMassA := e.BodyA.InvMassEff()
	invMassB := e.BodyB.InvMassEff()

	rotA := e.JeA.Rotational
	rotA.ApplyMatrix3(e.BodyA.InvRotInertiaWorldEff())
	rotB := e.JeB.Rotational
	rotB.ApplyMatrix3(e.BodyB.InvRotInertiaWorldEff())

	return e.JeA.Spatial.Dot(&e.JeA.Spatial)*invMassA +
		e.JeB.Spatial.Dot(&e.JeB.Spatial)*invMassB +
		rotA.Dot(&e.JeA.Rotational) +
		rotB.Dot(&e.JeB.Rotational)
}

// ComputeC computes the effective mass denominator including the SPOOK eps
// softening term: GiMGt + eps. Callers invert the result (1/C) to get the
// effective mass; a near-zero C signals a numerically degenerate
// constraint, in which case the caller should deactivate the part for the
// step (NumericalDegeneracy, recovered locally).
func (e *Equation) ComputeC() float32 {
	return e.ComputeGiMGt() + e.eps
}

// Eps returns the SPOOK softening parameter used to damp the running
// lambda total during iterative solving.
func (e *Equation) Eps() float32 { return e.eps }

// Degenerate reports whether c is too close to zero to invert safely.
func Degenerate(c float32) bool {
	return math.Abs(float64(c)) < 1e-12
}
