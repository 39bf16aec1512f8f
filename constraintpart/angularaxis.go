// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraintpart

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// AngularAxis is a 1-DOF purely-rotational constraint part: Jacobian row
// [0, -axisA, 0, axisB]. Used for hinge/slider perpendicular-axis locks,
// rotational motors, and cone/swing-twist limit axes — anywhere a
// constraint targets relative angular velocity about a shared axis with
// no linear coupling.
type AngularAxis struct {
	AxisA, AxisB math32.Vector3

	effectiveMass float32

	TargetRelativeVelocity float32
	TotalLambda            float32

	Spring SpringSettings
	gamma  float32
	beta   float32

	active bool
}

// CalculateConstraintProperties computes the effective mass from the
// bodies' world-space inverse inertia tensors.
func (p *AngularAxis) CalculateConstraintProperties(a, b *body.Body, h float32) {
	ia := p.AxisA
	ia.ApplyMatrix3(a.InvRotInertiaWorldEff())
	ib := p.AxisB
	ib.ApplyMatrix3(b.InvRotInertiaWorldEff())

	denom := ia.Dot(&p.AxisA) + ib.Dot(&p.AxisB)
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

// IsActive reports whether the part's effective mass is usable.
func (p *AngularAxis) IsActive() bool { return p.active }

// GetTotalLambda returns the accumulated angular impulse.
func (p *AngularAxis) GetTotalLambda() float32 { return p.TotalLambda }

// Deactivate clears the accumulated impulse.
func (p *AngularAxis) Deactivate() {
	p.active = false
	p.TotalLambda = 0
}

func (p *AngularAxis) relativeVelocity(a, b *body.Body) float32 {
	wa, wb := a.AngularVelocity(), b.AngularVelocity()
	return wb.Dot(&p.AxisB) - wa.Dot(&p.AxisA)
}

// WarmStart applies ratio*TotalLambda as an angular impulse.
func (p *AngularAxis) WarmStart(a, b *body.Body, ratio float32) {
	if !p.active || p.TotalLambda == 0 {
		return
	}
	p.applyImpulse(a, b, p.TotalLambda*ratio)
}

// SolveVelocityConstraint performs one Gauss-Seidel iteration, clamping
// the accumulated impulse to [minLambda, maxLambda].
func (p *AngularAxis) SolveVelocityConstraint(a, b *body.Body, minLambda, maxLambda float32) float32 {
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

// SolvePositionConstraint applies a Baumgarte angular correction
// proportional to errAmt (a signed angle), clamped to maxCorrection.
func (p *AngularAxis) SolvePositionConstraint(a, b *body.Body, errAmt, baumgarte, maxCorrection float32) float32 {
	if !p.active || p.Spring.IsActive() {
		return 0
	}
	c := clampf(errAmt, -maxCorrection, maxCorrection)
	lambda := -p.effectiveMass * baumgarte * c
	if lambda != 0 {
		a.SetQuaternion(nudgeQuaternion(a.Quaternion(), p.AxisA, -lambda))
		b.SetQuaternion(nudgeQuaternion(b.Quaternion(), p.AxisB, lambda))
	}
	return lambda
}

func (p *AngularAxis) applyImpulse(a, b *body.Body, lambda float32) {
	a.SetAngularVelocity(addScaled(a.AngularVelocity(), rotate(p.AxisA, a.InvRotInertiaWorldEff()), -lambda))
	b.SetAngularVelocity(addScaled(b.AngularVelocity(), rotate(p.AxisB, b.InvRotInertiaWorldEff()), lambda))
}
