// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/constraintpart"
	"github.com/ironclad-phys/ironclad/math32"
)

// SwingTwist pins a pivot together and limits the shared axis to swing
// within a cone and twist within a band, both unilateral (push-only)
// limits. Grounded on the teacher's ConeTwist: coneEq bounds the swing
// of AxisA/AxisB directly; twistEq reuses the same cone-violation shape
// against each axis's own random tangent, approximating the twist angle
// about the shared axis.
type SwingTwist struct {
	Base

	PivotA, PivotB math32.Vector3
	AxisA, AxisB   math32.Vector3 // local to each body, normalized

	axisX, axisY, axisZ constraintpart.Axis
	swing, twist         constraintpart.Cone

	MaxForce   float32
	SwingAngle float32
	TwistAngle float32
}

// NewSwingTwist builds a swing-twist (cone-twist) joint between a and b.
func NewSwingTwist(a, b *body.Body, pivotA, pivotB, axisA, axisB math32.Vector3, swingAngle, twistAngle, maxForce float32) *SwingTwist {
	axisA.Normalize()
	axisB.Normalize()
	return &SwingTwist{
		Base:       Base{BodyA: a, BodyB: b, Enabled: true, VelocityIterations: 10, PositionIterations: 2},
		PivotA:     pivotA,
		PivotB:     pivotB,
		AxisA:      axisA,
		AxisB:      axisB,
		MaxForce:   maxForce,
		SwingAngle: swingAngle,
		TwistAngle: twistAngle,
	}
}

func (s *SwingTwist) worldPivots() (ra, rb math32.Vector3) {
	qa := s.BodyA.Quaternion()
	qb := s.BodyB.Quaternion()
	ra = s.PivotA
	ra.ApplyQuaternion(&qa)
	rb = s.PivotB
	rb.ApplyQuaternion(&qb)
	return ra, rb
}

// Prepare rebuilds the pivot lock and the swing/twist limit axes.
func (s *SwingTwist) Prepare(h float32) {
	ra, rb := s.worldPivots()
	s.axisX.RA, s.axisX.RB = ra, rb
	s.axisY.RA, s.axisY.RB = ra, rb
	s.axisZ.RA, s.axisZ.RB = ra, rb
	s.axisX.N = math32.Vector3{X: 1}
	s.axisY.N = math32.Vector3{Y: 1}
	s.axisZ.N = math32.Vector3{Z: 1}
	s.axisX.CalculateConstraintProperties(s.BodyA, s.BodyB, h)
	s.axisY.CalculateConstraintProperties(s.BodyA, s.BodyB, h)
	s.axisZ.CalculateConstraintProperties(s.BodyA, s.BodyB, h)

	qa := s.BodyA.Quaternion()
	qb := s.BodyB.Quaternion()
	worldAxisA := s.AxisA
	worldAxisA.ApplyQuaternion(&qa)
	worldAxisB := s.AxisB
	worldAxisB.ApplyQuaternion(&qb)

	s.swing.AxisA, s.swing.AxisB = worldAxisA, worldAxisB
	s.swing.Angle = s.SwingAngle
	s.swing.CalculateConstraintProperties(s.BodyA, s.BodyB)

	tA, _ := s.AxisA.RandomTangents()
	tB, _ := s.AxisB.RandomTangents()
	worldTA := *tA
	worldTA.ApplyQuaternion(&qa)
	worldTB := *tB
	worldTB.ApplyQuaternion(&qb)

	s.twist.AxisA, s.twist.AxisB = worldTA, worldTB
	s.twist.Angle = s.TwistAngle
	s.twist.CalculateConstraintProperties(s.BodyA, s.BodyB)
}

// WarmStart reapplies the cached pivot and limit impulses.
func (s *SwingTwist) WarmStart(ratio float32) {
	s.axisX.WarmStart(s.BodyA, s.BodyB, ratio)
	s.axisY.WarmStart(s.BodyA, s.BodyB, ratio)
	s.axisZ.WarmStart(s.BodyA, s.BodyB, ratio)
	s.swing.WarmStart(s.BodyA, s.BodyB, ratio)
	s.twist.WarmStart(s.BodyA, s.BodyB, ratio)
}

// SolveVelocity solves the pivot lock and both unilateral limits.
func (s *SwingTwist) SolveVelocity() float32 {
	max := s.MaxForce
	ix := s.axisX.SolveVelocityConstraint(s.BodyA, s.BodyB, -max, max)
	iy := s.axisY.SolveVelocityConstraint(s.BodyA, s.BodyB, -max, max)
	iz := s.axisZ.SolveVelocityConstraint(s.BodyA, s.BodyB, -max, max)
	isw := s.swing.SolveVelocityConstraint(s.BodyA, s.BodyB, 0.2, max)
	itw := s.twist.SolveVelocityConstraint(s.BodyA, s.BodyB, 0.2, max)

	m := absMax3(ix, iy, iz)
	if absf32(isw) > m {
		m = absf32(isw)
	}
	if absf32(itw) > m {
		m = absf32(itw)
	}
	return m
}

// SolvePosition corrects the remaining pivot separation; the swing/twist
// limits are resolved purely at the velocity level via Cone's baumgarte
// bias, matching the teacher's equation-based cone/twist bias term.
func (s *SwingTwist) SolvePosition(baumgarte float32) float32 {
	worldA := s.BodyA.Position()
	worldB := s.BodyB.Position()
	ra, rb := s.worldPivots()
	worldA.Add(&ra)
	worldB.Add(&rb)
	sep := worldB
	sep.Sub(&worldA)

	s.axisX.SolvePositionConstraint(s.BodyA, s.BodyB, sep.X, baumgarte, 0.2)
	s.axisY.SolvePositionConstraint(s.BodyA, s.BodyB, sep.Y, baumgarte, 0.2)
	s.axisZ.SolvePositionConstraint(s.BodyA, s.BodyB, sep.Z, baumgarte, 0.2)
	return absMax3(sep.X, sep.Y, sep.Z)
}

// IsEnabled reports whether the constraint currently participates.
func (s *SwingTwist) IsEnabled() bool { return s.Enabled }

// Bodies returns the constrained body pair.
func (s *SwingTwist) Bodies() (*body.Body, *body.Body) { return s.BodyA, s.BodyB }
