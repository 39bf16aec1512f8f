// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraintpart

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// DualAxis is a 2-DOF constraint part solving two Jacobian rows together
// with a coupled 2x2 effective-mass block, used where two perpendicular
// axes share inertia coupling (e.g. a hinge's two free-swing axes, a
// slider's two off-axis translations).
type DualAxis struct {
	Axis1, Axis2 math32.Vector3
	RA, RB       math32.Vector3

	jeARot1, jeARot2 math32.Vector3
	jeBRot1, jeBRot2 math32.Vector3

	// invK is the inverted 2x2 effective-mass block, row-major.
	invK [2][2]float32

	TargetRelativeVelocity [2]float32
	TotalLambda            [2]float32

	active bool
}

func (p *DualAxis) jacobianRow(axis math32.Vector3) (rotA, rotB math32.Vector3) {
	rotA = p.RA
	rotA.Cross(&axis)
	rotA.MultiplyScalar(-1)
	rotB = p.RB
	rotB.Cross(&axis)
	return rotA, rotB
}

// CalculateConstraintProperties builds and inverts the 2x2 effective-mass
// block for the two axes.
func (p *DualAxis) CalculateConstraintProperties(a, b *body.Body) {
	p.jeARot1, p.jeBRot1 = p.jacobianRow(p.Axis1)
	p.jeARot2, p.jeBRot2 = p.jacobianRow(p.Axis2)

	invMA, invMB := a.InvMassEff(), b.InvMassEff()
	invIA, invIB := a.InvRotInertiaWorldEff(), b.InvRotInertiaWorldEff()

	k := func(spatialI, spatialJ math32.Vector3, rotAI, rotAJ, rotBI, rotBJ math32.Vector3) float32 {
		rIA := rotAI
		rIA.ApplyMatrix3(invIA)
		rIB := rotBI
		rIB.ApplyMatrix3(invIB)
		return invMA*spatialI.Dot(&spatialJ) + invMB*spatialI.Dot(&spatialJ) +
			rIA.Dot(&rotAJ) + rIB.Dot(&rotBJ)
	}

	negAxis1 := p.Axis1
	negAxis1.MultiplyScalar(-1)
	negAxis2 := p.Axis2
	negAxis2.MultiplyScalar(-1)

	k00 := k(negAxis1, negAxis1, p.jeARot1, p.jeARot1, p.jeBRot1, p.jeBRot1)
	k11 := k(negAxis2, negAxis2, p.jeARot2, p.jeARot2, p.jeBRot2, p.jeBRot2)
	k01 := k(negAxis1, negAxis2, p.jeARot1, p.jeARot2, p.jeBRot1, p.jeBRot2)

	det := k00*k11 - k01*k01
	if det < 1e-12 && det > -1e-12 {
		p.active = false
		return
	}
	invDet := 1.0 / det
	p.invK[0][0] = k11 * invDet
	p.invK[1][1] = k00 * invDet
	p.invK[0][1] = -k01 * invDet
	p.invK[1][0] = -k01 * invDet
	p.active = true
}

// IsActive reports whether the 2x2 block inverted cleanly.
func (p *DualAxis) IsActive() bool { return p.active }

// Deactivate clears accumulated impulses.
func (p *DualAxis) Deactivate() {
	p.active = false
	p.TotalLambda = [2]float32{}
}

// GetTotalLambda returns the accumulated impulse pair.
func (p *DualAxis) GetTotalLambda() [2]float32 { return p.TotalLambda }

func (p *DualAxis) relativeVelocity(a, b *body.Body, axis, rotA, rotB math32.Vector3) float32 {
	va, wa := a.Velocity(), a.AngularVelocity()
	vb, wb := b.Velocity(), b.AngularVelocity()
	negAxis := axis
	negAxis.MultiplyScalar(-1)
	return negAxis.Dot(&va) + rotA.Dot(&wa) + axis.Dot(&vb) + rotB.Dot(&wb)
}

// SolveVelocityConstraint performs one coupled Gauss-Seidel iteration
// across both axes, each impulse unclamped (dual-axis parts are used for
// bilateral constraints; callers wanting limits should use two Axis
// parts instead).
func (p *DualAxis) SolveVelocityConstraint(a, b *body.Body) [2]float32 {
	if !p.active {
		return [2]float32{}
	}
	jv1 := p.relativeVelocity(a, b, p.Axis1, p.jeARot1, p.jeBRot1)
	jv2 := p.relativeVelocity(a, b, p.Axis2, p.jeARot2, p.jeBRot2)

	rhs1 := p.TargetRelativeVelocity[0] - jv1
	rhs2 := p.TargetRelativeVelocity[1] - jv2

	lambda1 := p.invK[0][0]*rhs1 + p.invK[0][1]*rhs2
	lambda2 := p.invK[1][0]*rhs1 + p.invK[1][1]*rhs2

	p.TotalLambda[0] += lambda1
	p.TotalLambda[1] += lambda2

	p.applyImpulse(a, b, p.Axis1, p.jeARot1, p.jeBRot1, lambda1)
	p.applyImpulse(a, b, p.Axis2, p.jeARot2, p.jeBRot2, lambda2)

	return [2]float32{lambda1, lambda2}
}

// WarmStart applies ratio*TotalLambda for both axes.
func (p *DualAxis) WarmStart(a, b *body.Body, ratio float32) {
	if !p.active {
		return
	}
	p.applyImpulse(a, b, p.Axis1, p.jeARot1, p.jeBRot1, p.TotalLambda[0]*ratio)
	p.applyImpulse(a, b, p.Axis2, p.jeARot2, p.jeBRot2, p.TotalLambda[1]*ratio)
}

func (p *DualAxis) applyImpulse(a, b *body.Body, axis, rotA, rotB math32.Vector3, lambda float32) {
	if lambda == 0 {
		return
	}
	a.SetVelocity(addScaled(a.Velocity(), axis, -lambda*a.InvMassEff()))
	a.SetAngularVelocity(addScaled(a.AngularVelocity(), rotate(rotA, a.InvRotInertiaWorldEff()), lambda))

	b.SetVelocity(addScaled(b.Velocity(), axis, lambda*b.InvMassEff()))
	b.SetAngularVelocity(addScaled(b.AngularVelocity(), rotate(rotB, b.InvRotInertiaWorldEff()), lambda))
}
