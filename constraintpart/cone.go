// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraintpart

import (
	"math"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// Cone is a unilateral angular-limit part: it only ever pushes AxisA and
// AxisB back toward each other once the angle between them exceeds
// Angle, never pulls them apart. Both bodies share the same Jacobian
// axis (cross(AxisB, AxisA)), mirroring equation.Cone's JeA=-cross,
// JeB=+cross rotational-only row.
type Cone struct {
	AxisA, AxisB math32.Vector3
	Angle        float32

	axis          math32.Vector3
	effectiveMass float32

	TotalLambda float32
	active      bool
}

// Violation returns cos(Angle) - AxisA.AxisB: positive once the swing
// angle exceeds the cone half-angle.
func (c *Cone) Violation() float32 {
	return float32(math.Cos(float64(c.Angle))) - c.AxisA.Dot(&c.AxisB)
}

// CalculateConstraintProperties computes the shared cross-product axis
// and effective mass. The part is only active while the limit is
// violated (Violation() > 0); otherwise no force is ever applied.
func (c *Cone) CalculateConstraintProperties(a, b *body.Body) {
	if c.Violation() <= 0 {
		c.active = false
		c.TotalLambda = 0
		return
	}
	axis := c.AxisB
	axis.Cross(&c.AxisA)
	c.axis = axis

	ia := axis
	ia.ApplyMatrix3(a.InvRotInertiaWorldEff())
	ib := axis
	ib.ApplyMatrix3(b.InvRotInertiaWorldEff())
	denom := ia.Dot(&axis) + ib.Dot(&axis)
	if denom < 1e-12 {
		c.active = false
		c.effectiveMass = 0
		return
	}
	c.effectiveMass = 1.0 / denom
	c.active = true
}

// IsActive reports whether the limit is currently violated.
func (c *Cone) IsActive() bool { return c.active }

// GetTotalLambda returns the accumulated corrective impulse.
func (c *Cone) GetTotalLambda() float32 { return c.TotalLambda }

// Deactivate clears the accumulated impulse.
func (c *Cone) Deactivate() {
	c.active = false
	c.TotalLambda = 0
}

func (c *Cone) relativeVelocity(a, b *body.Body) float32 {
	wa, wb := a.AngularVelocity(), b.AngularVelocity()
	return wb.Dot(&c.axis) - wa.Dot(&c.axis)
}

// WarmStart reapplies ratio*TotalLambda.
func (c *Cone) WarmStart(a, b *body.Body, ratio float32) {
	if !c.active || c.TotalLambda == 0 {
		return
	}
	c.applyImpulse(a, b, c.TotalLambda*ratio)
}

// SolveVelocityConstraint drives the violation's rate of change toward
// zero, clamped to [0, maxLambda] so the part only ever pushes the axes
// back together.
func (c *Cone) SolveVelocityConstraint(a, b *body.Body, baumgarte float32, maxLambda float32) float32 {
	if !c.active {
		return 0
	}
	bias := baumgarte * c.Violation()
	jv := c.relativeVelocity(a, b)
	lambda := c.effectiveMass * (bias - jv)

	old := c.TotalLambda
	c.TotalLambda = clampf(old+lambda, 0, maxLambda)
	applied := c.TotalLambda - old
	if applied != 0 {
		c.applyImpulse(a, b, applied)
	}
	return applied
}

func (c *Cone) applyImpulse(a, b *body.Body, lambda float32) {
	a.SetAngularVelocity(addScaled(a.AngularVelocity(), rotate(c.axis, a.InvRotInertiaWorldEff()), -lambda))
	b.SetAngularVelocity(addScaled(b.AngularVelocity(), rotate(c.axis, b.InvRotInertiaWorldEff()), lambda))
}
