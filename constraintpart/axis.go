// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraintpart

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// Axis is a 1-DOF constraint part: Jacobian row [-n, -(rA x n), n, (rB x n)].
type Axis struct {
	N      math32.Vector3
	RA, RB math32.Vector3

	effectiveMass float32
	jeARot        math32.Vector3
	jeBRot        math32.Vector3

	TargetRelativeVelocity float32
	TotalLambda            float32

	Spring SpringSettings
	gamma  float32
	beta   float32

	active bool
}

// CalculateConstraintProperties computes the effective mass and caches
// the Jacobian's rotational terms ahead of the velocity solve. h is the
// solver timestep, used only when Spring is active.
func (p *Axis) CalculateConstraintProperties(a, b *body.Body, h float32) {
	// Jacobian row is [-n, -(rA x n), n, (rB x n)]; jeARot/jeBRot cache the
	// rotational halves with that sign baked in.
	p.jeARot = p.RA
	p.jeARot.Cross(&p.N)
	p.jeARot.MultiplyScalar(-1)
	p.jeBRot = p.RB
	p.jeBRot.Cross(&p.N)

	invIA := p.jeARot
	invIA.ApplyMatrix3(a.InvRotInertiaWorldEff())
	invIB := p.jeBRot
	invIB.ApplyMatrix3(b.InvRotInertiaWorldEff())

	denom := a.InvMassEff() + b.InvMassEff() +
		invIA.Dot(&p.jeARot) + invIB.Dot(&p.jeBRot)

	if denom < 1e-12 {
		p.active = false
		p.effectiveMass = 0
		return
	}
	p.effectiveMass = 1.0 / denom
	p.active = true

	if p.Spring.IsActive() {
		p.gamma, p.beta = computeGammaBeta(p.Spring, p.effectiveMass, h)
	} else {
		p.gamma, p.beta = 0, 1
	}
}

// IsActive reports whether the last CalculateConstraintProperties call
// produced a usable (non-degenerate) effective mass.
func (p *Axis) IsActive() bool { return p.active }

// GetTotalLambda returns the accumulated impulse for debug visualization
// and warm-start persistence.
func (p *Axis) GetTotalLambda() float32 { return p.TotalLambda }

// Deactivate clears the accumulated impulse, used when a part stops
// participating in a constraint (e.g. a motor being disabled).
func (p *Axis) Deactivate() {
	p.active = false
	p.TotalLambda = 0
}

// relativeVelocity computes J.v for the current body velocities.
func (p *Axis) relativeVelocity(a, b *body.Body) float32 {
	va, wa := a.Velocity(), a.AngularVelocity()
	vb, wb := b.Velocity(), b.AngularVelocity()

	negN := p.N
	negN.MultiplyScalar(-1)

	return negN.Dot(&va) + p.jeARot.Dot(&wa) + p.N.Dot(&vb) + p.jeBRot.Dot(&wb)
}

// WarmStart applies ratio*TotalLambda as an impulse, spreading it across
// both bodies along the cached Jacobian.
func (p *Axis) WarmStart(a, b *body.Body, ratio float32) {
	if !p.active || p.TotalLambda == 0 {
		return
	}
	p.applyImpulse(a, b, p.TotalLambda*ratio)
}

// SolveVelocityConstraint performs one Gauss-Seidel iteration, clamping
// the accumulated impulse to [minLambda, maxLambda].
func (p *Axis) SolveVelocityConstraint(a, b *body.Body, minLambda, maxLambda float32) float32 {
	if !p.active {
		return 0
	}
	jv := p.relativeVelocity(a, b)
	rhs := p.TargetRelativeVelocity - jv - p.gamma*p.TotalLambda
	lambda := p.effectiveMass * rhs

	old := p.TotalLambda
	p.TotalLambda = clampf(old+lambda, minLambda, maxLambda)
	applied := p.TotalLambda - old
	if applied != 0 {
		p.applyImpulse(a, b, applied)
	}
	return applied
}

// SolvePositionConstraint applies a pseudo-velocity (Baumgarte) position
// correction proportional to error, clamped to maxPenetrationDistance.
// Spring parts must not call this: soft constraints handle positional
// error via gamma/beta instead.
func (p *Axis) SolvePositionConstraint(a, b *body.Body, errAmt, baumgarte, maxPenetrationDistance float32) float32 {
	if !p.active || p.Spring.IsActive() {
		return 0
	}
	c := clampf(errAmt, -maxPenetrationDistance, maxPenetrationDistance)
	lambda := -p.effectiveMass * baumgarte * c
	if lambda != 0 {
		p.applyPositionImpulse(a, b, lambda)
	}
	return lambda
}

// applyImpulse directly updates both bodies' velocities using the cached
// Jacobian, rather than routing through body.ApplyImpulse (which expects
// a world point and recomputes its own lever arm) since RA/RB already
// encode the lever arm used to build jeARot/jeBRot.
func (p *Axis) applyImpulse(a, b *body.Body, lambda float32) {
	a.SetVelocity(addScaled(a.Velocity(), p.N, -lambda*a.InvMassEff()))
	a.SetAngularVelocity(addScaled(a.AngularVelocity(), rotate(p.jeARot, a.InvRotInertiaWorldEff()), lambda))

	b.SetVelocity(addScaled(b.Velocity(), p.N, lambda*b.InvMassEff()))
	b.SetAngularVelocity(addScaled(b.AngularVelocity(), rotate(p.jeBRot, b.InvRotInertiaWorldEff()), lambda))
}

func (p *Axis) applyPositionImpulse(a, b *body.Body, lambda float32) {
	dposA := p.N
	dposA.MultiplyScalar(-lambda * a.InvMassEff())
	a.SetPosition(addVec(a.Position(), dposA))

	dposB := p.N
	dposB.MultiplyScalar(lambda * b.InvMassEff())
	b.SetPosition(addVec(b.Position(), dposB))
}

func addVec(v, delta math32.Vector3) math32.Vector3 {
	v.Add(&delta)
	return v
}

func addScaled(v, axis math32.Vector3, scale float32) math32.Vector3 {
	d := axis
	d.MultiplyScalar(scale)
	v.Add(&d)
	return v
}

func rotate(v math32.Vector3, m *math32.Matrix3) math32.Vector3 {
	r := v
	r.ApplyMatrix3(m)
	return r
}
