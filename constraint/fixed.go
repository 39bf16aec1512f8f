// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/constraintpart"
	"github.com/ironclad-phys/ironclad/math32"
)

// Fixed welds two bodies together: a Point pivot lock plus a RotationEuler
// orientation lock against the relative orientation recorded at
// construction time, giving a full 6-DOF rigid weld.
type Fixed struct {
	Base

	PivotA, PivotB math32.Vector3
	RefOrientation math32.Quaternion

	axisX, axisY, axisZ constraintpart.Axis
	rotation            constraintpart.RotationEuler

	MaxForce  float32
	MaxTorque float32
}

// NewFixed welds a and b at their current relative pose.
func NewFixed(a, b *body.Body, pivotA, pivotB math32.Vector3, maxForce, maxTorque float32) *Fixed {
	return &Fixed{
		Base:           Base{BodyA: a, BodyB: b, Enabled: true, VelocityIterations: 10, PositionIterations: 2},
		PivotA:         pivotA,
		PivotB:         pivotB,
		RefOrientation: relativeOrientation(a.Quaternion(), b.Quaternion()),
		MaxForce:       maxForce,
		MaxTorque:      maxTorque,
	}
}

func (f *Fixed) worldPivots() (ra, rb math32.Vector3) {
	qa := f.BodyA.Quaternion()
	qb := f.BodyB.Quaternion()
	ra = f.PivotA
	ra.ApplyQuaternion(&qa)
	rb = f.PivotB
	rb.ApplyQuaternion(&qb)
	return ra, rb
}

// Prepare rebuilds the three linear axes and the rotation lock.
func (f *Fixed) Prepare(h float32) {
	ra, rb := f.worldPivots()

	f.axisX.RA, f.axisX.RB = ra, rb
	f.axisY.RA, f.axisY.RB = ra, rb
	f.axisZ.RA, f.axisZ.RB = ra, rb

	f.axisX.N = math32.Vector3{X: 1}
	f.axisY.N = math32.Vector3{Y: 1}
	f.axisZ.N = math32.Vector3{Z: 1}

	f.axisX.CalculateConstraintProperties(f.BodyA, f.BodyB, h)
	f.axisY.CalculateConstraintProperties(f.BodyA, f.BodyB, h)
	f.axisZ.CalculateConstraintProperties(f.BodyA, f.BodyB, h)

	f.rotation.CalculateConstraintProperties(f.BodyA, f.BodyB)
}

// WarmStart reapplies the cached linear and angular impulses.
func (f *Fixed) WarmStart(ratio float32) {
	f.axisX.WarmStart(f.BodyA, f.BodyB, ratio)
	f.axisY.WarmStart(f.BodyA, f.BodyB, ratio)
	f.axisZ.WarmStart(f.BodyA, f.BodyB, ratio)
	f.rotation.WarmStart(f.BodyA, f.BodyB, ratio)
}

// SolveVelocity solves the linear pivot lock and the angular lock.
func (f *Fixed) SolveVelocity() float32 {
	ix := f.axisX.SolveVelocityConstraint(f.BodyA, f.BodyB, -f.MaxForce, f.MaxForce)
	iy := f.axisY.SolveVelocityConstraint(f.BodyA, f.BodyB, -f.MaxForce, f.MaxForce)
	iz := f.axisZ.SolveVelocityConstraint(f.BodyA, f.BodyB, -f.MaxForce, f.MaxForce)
	angular := f.rotation.SolveVelocityConstraint(f.BodyA, f.BodyB, -f.MaxTorque, f.MaxTorque)
	m := absMax3(ix, iy, iz)
	for _, a := range angular {
		if absf32(a) > m {
			m = absf32(a)
		}
	}
	return m
}

// SolvePosition corrects the remaining pivot separation and orientation
// drift relative to RefOrientation.
func (f *Fixed) SolvePosition(baumgarte float32) float32 {
	worldA := f.BodyA.Position()
	worldB := f.BodyB.Position()
	ra, rb := f.worldPivots()
	worldA.Add(&ra)
	worldB.Add(&rb)
	sep := worldB
	sep.Sub(&worldA)

	f.axisX.SolvePositionConstraint(f.BodyA, f.BodyB, sep.X, baumgarte, 0.2)
	f.axisY.SolvePositionConstraint(f.BodyA, f.BodyB, sep.Y, baumgarte, 0.2)
	f.axisZ.SolvePositionConstraint(f.BodyA, f.BodyB, sep.Z, baumgarte, 0.2)

	errVec := orientationError(f.BodyA.Quaternion(), f.BodyB.Quaternion(), f.RefOrientation)
	f.rotation.SolvePositionConstraint(f.BodyA, f.BodyB, errVec, baumgarte)

	return absMax3(sep.X, sep.Y, sep.Z)
}

// IsEnabled reports whether the constraint currently participates.
func (f *Fixed) IsEnabled() bool { return f.Enabled }

// Bodies returns the constrained body pair.
func (f *Fixed) Bodies() (*body.Body, *body.Body) { return f.BodyA, f.BodyB }
