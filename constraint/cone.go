// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/constraintpart"
	"github.com/ironclad-phys/ironclad/math32"
)

// Cone pins a pivot together and limits the shared axis to swing within
// a single cone angle, with no twist limit (SwingTwist adds that). A
// lighter-weight variant for joints — wheels, ragdoll shoulders without
// twist range — that only need the swing bound.
type Cone struct {
	Base

	PivotA, PivotB math32.Vector3
	AxisA, AxisB   math32.Vector3

	axisX, axisY, axisZ constraintpart.Axis
	swing                constraintpart.Cone

	MaxForce float32
	Angle    float32
}

// NewCone builds a cone-limited pivot joint between a and b.
func NewCone(a, b *body.Body, pivotA, pivotB, axisA, axisB math32.Vector3, angle, maxForce float32) *Cone {
	axisA.Normalize()
	axisB.Normalize()
	return &Cone{
		Base:     Base{BodyA: a, BodyB: b, Enabled: true, VelocityIterations: 10, PositionIterations: 2},
		PivotA:   pivotA,
		PivotB:   pivotB,
		AxisA:    axisA,
		AxisB:    axisB,
		MaxForce: maxForce,
		Angle:    angle,
	}
}

func (c *Cone) worldPivots() (ra, rb math32.Vector3) {
	qa := c.BodyA.Quaternion()
	qb := c.BodyB.Quaternion()
	ra = c.PivotA
	ra.ApplyQuaternion(&qa)
	rb = c.PivotB
	rb.ApplyQuaternion(&qb)
	return ra, rb
}

// Prepare rebuilds the pivot lock and the swing limit axis.
func (c *Cone) Prepare(h float32) {
	ra, rb := c.worldPivots()
	c.axisX.RA, c.axisX.RB = ra, rb
	c.axisY.RA, c.axisY.RB = ra, rb
	c.axisZ.RA, c.axisZ.RB = ra, rb
	c.axisX.N = math32.Vector3{X: 1}
	c.axisY.N = math32.Vector3{Y: 1}
	c.axisZ.N = math32.Vector3{Z: 1}
	c.axisX.CalculateConstraintProperties(c.BodyA, c.BodyB, h)
	c.axisY.CalculateConstraintProperties(c.BodyA, c.BodyB, h)
	c.axisZ.CalculateConstraintProperties(c.BodyA, c.BodyB, h)

	qa := c.BodyA.Quaternion()
	qb := c.BodyB.Quaternion()
	worldAxisA := c.AxisA
	worldAxisA.ApplyQuaternion(&qa)
	worldAxisB := c.AxisB
	worldAxisB.ApplyQuaternion(&qb)

	c.swing.AxisA, c.swing.AxisB = worldAxisA, worldAxisB
	c.swing.Angle = c.Angle
	c.swing.CalculateConstraintProperties(c.BodyA, c.BodyB)
}

// WarmStart reapplies the cached pivot and swing-limit impulses.
func (c *Cone) WarmStart(ratio float32) {
	c.axisX.WarmStart(c.BodyA, c.BodyB, ratio)
	c.axisY.WarmStart(c.BodyA, c.BodyB, ratio)
	c.axisZ.WarmStart(c.BodyA, c.BodyB, ratio)
	c.swing.WarmStart(c.BodyA, c.BodyB, ratio)
}

// SolveVelocity solves the pivot lock and the swing limit.
func (c *Cone) SolveVelocity() float32 {
	max := c.MaxForce
	ix := c.axisX.SolveVelocityConstraint(c.BodyA, c.BodyB, -max, max)
	iy := c.axisY.SolveVelocityConstraint(c.BodyA, c.BodyB, -max, max)
	iz := c.axisZ.SolveVelocityConstraint(c.BodyA, c.BodyB, -max, max)
	isw := c.swing.SolveVelocityConstraint(c.BodyA, c.BodyB, 0.2, max)

	m := absMax3(ix, iy, iz)
	if absf32(isw) > m {
		m = absf32(isw)
	}
	return m
}

// SolvePosition corrects the remaining pivot separation.
func (c *Cone) SolvePosition(baumgarte float32) float32 {
	worldA := c.BodyA.Position()
	worldB := c.BodyB.Position()
	ra, rb := c.worldPivots()
	worldA.Add(&ra)
	worldB.Add(&rb)
	sep := worldB
	sep.Sub(&worldA)

	c.axisX.SolvePositionConstraint(c.BodyA, c.BodyB, sep.X, baumgarte, 0.2)
	c.axisY.SolvePositionConstraint(c.BodyA, c.BodyB, sep.Y, baumgarte, 0.2)
	c.axisZ.SolvePositionConstraint(c.BodyA, c.BodyB, sep.Z, baumgarte, 0.2)
	return absMax3(sep.X, sep.Y, sep.Z)
}

// IsEnabled reports whether the constraint currently participates.
func (c *Cone) IsEnabled() bool { return c.Enabled }

// Bodies returns the constrained body pair.
func (c *Cone) Bodies() (*body.Body, *body.Body) { return c.BodyA, c.BodyB }
