// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/constraintpart"
	"github.com/ironclad-phys/ironclad/math32"
)

// Hinge pins a pivot together like Point and additionally locks both axes
// perpendicular to a shared rotation axis, leaving one free rotational
// DOF about that axis (a door hinge), with an optional motor driving
// angular velocity about it. Grounded on the teacher's Hinge/PointToPoint
// composition: the perpendicular locks are built from the hinge axis's
// two random tangents, mirroring rotEq1/rotEq2 there.
type Hinge struct {
	Base

	PivotA, PivotB math32.Vector3
	AxisA, AxisB   math32.Vector3 // local to each body, normalized

	axisX, axisY, axisZ constraintpart.Axis
	perp1, perp2        constraintpart.AngularAxis
	motor               constraintpart.AngularAxis
	limit               constraintpart.AngularAxis

	MaxForce float32

	MotorEnabled  bool
	MotorSpeed    float32
	MotorMaxForce float32

	LimitEnabled           bool
	LowerLimit, UpperLimit float32
	currentAngle          float32
}

// NewHinge builds a hinge joint between a and b.
func NewHinge(a, b *body.Body, pivotA, pivotB, axisA, axisB math32.Vector3, maxForce float32) *Hinge {
	axisA.Normalize()
	axisB.Normalize()
	return &Hinge{
		Base:          Base{BodyA: a, BodyB: b, Enabled: true, VelocityIterations: 10, PositionIterations: 2},
		PivotA:        pivotA,
		PivotB:        pivotB,
		AxisA:         axisA,
		AxisB:         axisB,
		MaxForce:      maxForce,
		MotorMaxForce: maxForce,
	}
}

func (hc *Hinge) worldPivots() (ra, rb math32.Vector3) {
	qa := hc.BodyA.Quaternion()
	qb := hc.BodyB.Quaternion()
	ra = hc.PivotA
	ra.ApplyQuaternion(&qa)
	rb = hc.PivotB
	rb.ApplyQuaternion(&qb)
	return ra, rb
}

func (hc *Hinge) worldAxes() (wa, wb math32.Vector3) {
	qa := hc.BodyA.Quaternion()
	qb := hc.BodyB.Quaternion()
	wa = hc.AxisA
	wa.ApplyQuaternion(&qa)
	wb = hc.AxisB
	wb.ApplyQuaternion(&qb)
	return wa, wb
}

// Prepare rebuilds the pivot lock, the perpendicular-axis locks, and the
// motor (if enabled).
func (hc *Hinge) Prepare(h float32) {
	ra, rb := hc.worldPivots()
	hc.axisX.RA, hc.axisX.RB = ra, rb
	hc.axisY.RA, hc.axisY.RB = ra, rb
	hc.axisZ.RA, hc.axisZ.RB = ra, rb
	hc.axisX.N = math32.Vector3{X: 1}
	hc.axisY.N = math32.Vector3{Y: 1}
	hc.axisZ.N = math32.Vector3{Z: 1}
	hc.axisX.CalculateConstraintProperties(hc.BodyA, hc.BodyB, h)
	hc.axisY.CalculateConstraintProperties(hc.BodyA, hc.BodyB, h)
	hc.axisZ.CalculateConstraintProperties(hc.BodyA, hc.BodyB, h)

	worldAxisA, worldAxisB := hc.worldAxes()
	t1, t2 := worldAxisA.RandomTangents()

	hc.perp1.AxisA, hc.perp1.AxisB = *t1, *t1
	hc.perp2.AxisA, hc.perp2.AxisB = *t2, *t2
	hc.perp1.CalculateConstraintProperties(hc.BodyA, hc.BodyB, h)
	hc.perp2.CalculateConstraintProperties(hc.BodyA, hc.BodyB, h)

	// The hinge angle is how far body B's reference tangent has turned
	// away from body A's about the hinge axis.
	qa, qb := hc.BodyA.Quaternion(), hc.BodyB.Quaternion()
	localRefA, _ := hc.AxisA.RandomTangents()
	localRefB, _ := hc.AxisB.RandomTangents()
	refA, refB := *localRefA, *localRefB
	refA.ApplyQuaternion(&qa)
	refB.ApplyQuaternion(&qb)
	refA2 := worldAxisA
	refA2.Cross(&refA)
	hc.currentAngle = signedAngleAbout(worldAxisA, refB, refA, refA2)

	if hc.LimitEnabled {
		hc.limit.AxisA, hc.limit.AxisB = worldAxisA, worldAxisB
		hc.limit.CalculateConstraintProperties(hc.BodyA, hc.BodyB, h)
	} else {
		hc.limit.Deactivate()
	}

	if hc.MotorEnabled {
		hc.motor.AxisA, hc.motor.AxisB = worldAxisA, worldAxisB
		hc.motor.TargetRelativeVelocity = hc.MotorSpeed
		hc.motor.CalculateConstraintProperties(hc.BodyA, hc.BodyB, h)
	} else {
		hc.motor.Deactivate()
	}
}

// signedAngleAbout returns the angle of axisB's projection onto the plane
// spanned by t1 and t2, measured from t1 toward t2; axisA is that plane's
// normal and is not read.
func signedAngleAbout(axisA, axisB, t1, t2 math32.Vector3) float32 {
	x := axisB.Dot(&t1)
	y := axisB.Dot(&t2)
	return math32.Atan2(y, x)
}

// WarmStart reapplies the cached pivot, perpendicular-lock, and motor
// impulses.
func (hc *Hinge) WarmStart(ratio float32) {
	hc.axisX.WarmStart(hc.BodyA, hc.BodyB, ratio)
	hc.axisY.WarmStart(hc.BodyA, hc.BodyB, ratio)
	hc.axisZ.WarmStart(hc.BodyA, hc.BodyB, ratio)
	hc.perp1.WarmStart(hc.BodyA, hc.BodyB, ratio)
	hc.perp2.WarmStart(hc.BodyA, hc.BodyB, ratio)
	if hc.MotorEnabled {
		hc.motor.WarmStart(hc.BodyA, hc.BodyB, ratio)
	}
}

// SolveVelocity solves the pivot, the two perpendicular locks, the motor,
// and (if enabled) the hinge-angle limit as a one-sided stop.
func (hc *Hinge) SolveVelocity() float32 {
	max := hc.MaxForce
	ix := hc.axisX.SolveVelocityConstraint(hc.BodyA, hc.BodyB, -max, max)
	iy := hc.axisY.SolveVelocityConstraint(hc.BodyA, hc.BodyB, -max, max)
	iz := hc.axisZ.SolveVelocityConstraint(hc.BodyA, hc.BodyB, -max, max)
	ip1 := hc.perp1.SolveVelocityConstraint(hc.BodyA, hc.BodyB, -max, max)
	ip2 := hc.perp2.SolveVelocityConstraint(hc.BodyA, hc.BodyB, -max, max)

	m := absMax3(ix, iy, iz)
	if absf32(ip1) > m {
		m = absf32(ip1)
	}
	if absf32(ip2) > m {
		m = absf32(ip2)
	}

	if hc.MotorEnabled {
		im := hc.motor.SolveVelocityConstraint(hc.BodyA, hc.BodyB, -hc.MotorMaxForce, hc.MotorMaxForce)
		if absf32(im) > m {
			m = absf32(im)
		}
	}
	if hc.LimitEnabled {
		lo, hi := limitBounds(hc.currentAngle, hc.LowerLimit, hc.UpperLimit, hc.MaxForce)
		il := hc.limit.SolveVelocityConstraint(hc.BodyA, hc.BodyB, lo, hi)
		if absf32(il) > m {
			m = absf32(il)
		}
	}
	return m
}

// SolvePosition corrects the pivot separation and the hinge angle
// against [LowerLimit, UpperLimit] when LimitEnabled.
func (hc *Hinge) SolvePosition(baumgarte float32) float32 {
	worldA := hc.BodyA.Position()
	worldB := hc.BodyB.Position()
	ra, rb := hc.worldPivots()
	worldA.Add(&ra)
	worldB.Add(&rb)
	sep := worldB
	sep.Sub(&worldA)

	hc.axisX.SolvePositionConstraint(hc.BodyA, hc.BodyB, sep.X, baumgarte, 0.2)
	hc.axisY.SolvePositionConstraint(hc.BodyA, hc.BodyB, sep.Y, baumgarte, 0.2)
	hc.axisZ.SolvePositionConstraint(hc.BodyA, hc.BodyB, sep.Z, baumgarte, 0.2)

	m := absMax3(sep.X, sep.Y, sep.Z)
	if hc.LimitEnabled {
		var errAmt float32
		if hc.currentAngle < hc.LowerLimit {
			errAmt = hc.currentAngle - hc.LowerLimit
		} else if hc.currentAngle > hc.UpperLimit {
			errAmt = hc.currentAngle - hc.UpperLimit
		}
		if errAmt != 0 {
			hc.limit.SolvePositionConstraint(hc.BodyA, hc.BodyB, errAmt, baumgarte, 0.2)
			if absf32(errAmt) > m {
				m = absf32(errAmt)
			}
		}
	}
	return m
}

// IsEnabled reports whether the constraint currently participates.
func (hc *Hinge) IsEnabled() bool { return hc.Enabled }

// Bodies returns the constrained body pair.
func (hc *Hinge) Bodies() (*body.Body, *body.Body) { return hc.BodyA, hc.BodyB }
