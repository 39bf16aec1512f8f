// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/constraintpart"
	"github.com/ironclad-phys/ironclad/math32"
)

// Slider locks relative orientation and two of the three translation
// axes, leaving one free linear degree of freedom along a shared axis
// (a piston), with optional translation limits and a linear motor. The
// mirror image of Hinge: where Hinge frees one rotational DOF and locks
// the rest, Slider frees one linear DOF and locks the rest.
type Slider struct {
	Base

	PivotA, PivotB math32.Vector3
	AxisA, AxisB   math32.Vector3 // local to each body, normalized

	perp1, perp2 constraintpart.Axis
	rotation     constraintpart.RotationEuler
	limit        constraintpart.Axis
	motor        constraintpart.Axis

	MaxForce float32

	MotorEnabled  bool
	MotorSpeed    float32
	MotorMaxForce float32

	LimitEnabled           bool
	LowerLimit, UpperLimit float32
	currentPos             float32
}

// NewSlider builds a slider (prismatic) joint between a and b.
func NewSlider(a, b *body.Body, pivotA, pivotB, axisA, axisB math32.Vector3, maxForce float32) *Slider {
	axisA.Normalize()
	axisB.Normalize()
	return &Slider{
		Base:          Base{BodyA: a, BodyB: b, Enabled: true, VelocityIterations: 10, PositionIterations: 2},
		PivotA:        pivotA,
		PivotB:        pivotB,
		AxisA:         axisA,
		AxisB:         axisB,
		MaxForce:      maxForce,
		MotorMaxForce: maxForce,
	}
}

func (s *Slider) worldPivots() (ra, rb math32.Vector3) {
	qa := s.BodyA.Quaternion()
	qb := s.BodyB.Quaternion()
	ra = s.PivotA
	ra.ApplyQuaternion(&qa)
	rb = s.PivotB
	rb.ApplyQuaternion(&qb)
	return ra, rb
}

func (s *Slider) worldAxis() math32.Vector3 {
	qa := s.BodyA.Quaternion()
	axis := s.AxisA
	axis.ApplyQuaternion(&qa)
	return axis
}

// Prepare rebuilds the two perpendicular locks, the rotation lock, and
// the limit/motor axes (all sharing the same world slider axis).
func (s *Slider) Prepare(h float32) {
	ra, rb := s.worldPivots()
	axis := s.worldAxis()
	t1, t2 := axis.RandomTangents()

	s.perp1.RA, s.perp1.RB = ra, rb
	s.perp1.N = *t1
	s.perp2.RA, s.perp2.RB = ra, rb
	s.perp2.N = *t2
	s.perp1.CalculateConstraintProperties(s.BodyA, s.BodyB, h)
	s.perp2.CalculateConstraintProperties(s.BodyA, s.BodyB, h)

	s.rotation.CalculateConstraintProperties(s.BodyA, s.BodyB)

	worldA := s.BodyA.Position()
	worldA.Add(&ra)
	worldB := s.BodyB.Position()
	worldB.Add(&rb)
	sep := worldB
	sep.Sub(&worldA)
	s.currentPos = sep.Dot(&axis)

	if s.LimitEnabled {
		s.limit.RA, s.limit.RB = ra, rb
		s.limit.N = axis
		s.limit.CalculateConstraintProperties(s.BodyA, s.BodyB, h)
	} else {
		s.limit.Deactivate()
	}

	if s.MotorEnabled {
		s.motor.RA, s.motor.RB = ra, rb
		s.motor.N = axis
		s.motor.TargetRelativeVelocity = s.MotorSpeed
		s.motor.CalculateConstraintProperties(s.BodyA, s.BodyB, h)
	} else {
		s.motor.Deactivate()
	}
}

// WarmStart reapplies the cached impulses.
func (s *Slider) WarmStart(ratio float32) {
	s.perp1.WarmStart(s.BodyA, s.BodyB, ratio)
	s.perp2.WarmStart(s.BodyA, s.BodyB, ratio)
	s.rotation.WarmStart(s.BodyA, s.BodyB, ratio)
	if s.LimitEnabled {
		s.limit.WarmStart(s.BodyA, s.BodyB, ratio)
	}
	if s.MotorEnabled {
		s.motor.WarmStart(s.BodyA, s.BodyB, ratio)
	}
}

// SolveVelocity solves the perpendicular locks, the rotation lock, and
// the optional motor.
func (s *Slider) SolveVelocity() float32 {
	max := s.MaxForce
	i1 := s.perp1.SolveVelocityConstraint(s.BodyA, s.BodyB, -max, max)
	i2 := s.perp2.SolveVelocityConstraint(s.BodyA, s.BodyB, -max, max)
	rot := s.rotation.SolveVelocityConstraint(s.BodyA, s.BodyB, -max, max)

	m := absf32(i1)
	if absf32(i2) > m {
		m = absf32(i2)
	}
	for _, r := range rot {
		if absf32(r) > m {
			m = absf32(r)
		}
	}
	if s.MotorEnabled {
		im := s.motor.SolveVelocityConstraint(s.BodyA, s.BodyB, -s.MotorMaxForce, s.MotorMaxForce)
		if absf32(im) > m {
			m = absf32(im)
		}
	}
	if s.LimitEnabled {
		lo, hi := limitBounds(s.currentPos, s.LowerLimit, s.UpperLimit, s.MaxForce)
		il := s.limit.SolveVelocityConstraint(s.BodyA, s.BodyB, lo, hi)
		if absf32(il) > m {
			m = absf32(il)
		}
	}
	return m
}

// SolvePosition corrects perpendicular drift, orientation drift, and (if
// enabled) pushes the slider position back within [LowerLimit,
// UpperLimit].
func (s *Slider) SolvePosition(baumgarte float32) float32 {
	ra, rb := s.worldPivots()
	worldA := s.BodyA.Position()
	worldA.Add(&ra)
	worldB := s.BodyB.Position()
	worldB.Add(&rb)
	sep := worldB
	sep.Sub(&worldA)

	e1 := sep.Dot(&s.perp1.N)
	e2 := sep.Dot(&s.perp2.N)
	s.perp1.SolvePositionConstraint(s.BodyA, s.BodyB, e1, baumgarte, 0.2)
	s.perp2.SolvePositionConstraint(s.BodyA, s.BodyB, e2, baumgarte, 0.2)

	m := absf32(e1)
	if absf32(e2) > m {
		m = absf32(e2)
	}

	if s.LimitEnabled {
		var errAmt float32
		if s.currentPos < s.LowerLimit {
			errAmt = s.currentPos - s.LowerLimit
		} else if s.currentPos > s.UpperLimit {
			errAmt = s.currentPos - s.UpperLimit
		}
		if errAmt != 0 {
			s.limit.SolvePositionConstraint(s.BodyA, s.BodyB, errAmt, baumgarte, 0.2)
			if absf32(errAmt) > m {
				m = absf32(errAmt)
			}
		}
	}
	return m
}

// IsEnabled reports whether the constraint currently participates.
func (s *Slider) IsEnabled() bool { return s.Enabled }

// Bodies returns the constrained body pair.
func (s *Slider) Bodies() (*body.Body, *body.Body) { return s.BodyA, s.BodyB }
