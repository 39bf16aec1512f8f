// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/constraintpart"
	"github.com/ironclad-phys/ironclad/math32"
)

// Point pins two bodies' local pivot points together (a ball-socket
// joint), solved as three independent world-axis Axis parts, grounded on
// the teacher's PointToPoint constraint's eqX/eqY/eqZ contact-equation
// trio.
type Point struct {
	Base

	PivotA, PivotB math32.Vector3 // local to each body

	axisX, axisY, axisZ constraintpart.Axis

	MaxForce float32
}

// NewPoint builds a ball-socket constraint between a and b.
func NewPoint(a, b *body.Body, pivotA, pivotB math32.Vector3, maxForce float32) *Point {
	return &Point{
		Base:     Base{BodyA: a, BodyB: b, Enabled: true, VelocityIterations: 10, PositionIterations: 2},
		PivotA:   pivotA,
		PivotB:   pivotB,
		MaxForce: maxForce,
	}
}

// Prepare recomputes world-space pivot offsets and each axis's effective
// mass ahead of the velocity/position solves.
func (p *Point) Prepare(h float32) {
	qa := p.BodyA.Quaternion()
	qb := p.BodyB.Quaternion()

	ra := p.PivotA
	ra.ApplyQuaternion(&qa)
	rb := p.PivotB
	rb.ApplyQuaternion(&qb)

	p.axisX.RA, p.axisX.RB = ra, rb
	p.axisY.RA, p.axisY.RB = ra, rb
	p.axisZ.RA, p.axisZ.RB = ra, rb

	p.axisX.N = math32.Vector3{X: 1}
	p.axisY.N = math32.Vector3{Y: 1}
	p.axisZ.N = math32.Vector3{Z: 1}

	p.axisX.CalculateConstraintProperties(p.BodyA, p.BodyB, h)
	p.axisY.CalculateConstraintProperties(p.BodyA, p.BodyB, h)
	p.axisZ.CalculateConstraintProperties(p.BodyA, p.BodyB, h)
}

// WarmStart reapplies each axis's cached impulse.
func (p *Point) WarmStart(ratio float32) {
	p.axisX.WarmStart(p.BodyA, p.BodyB, ratio)
	p.axisY.WarmStart(p.BodyA, p.BodyB, ratio)
	p.axisZ.WarmStart(p.BodyA, p.BodyB, ratio)
}

// SolveVelocity drives the relative pivot velocity to zero along all
// three axes.
func (p *Point) SolveVelocity() float32 {
	max := p.MaxForce
	ix := p.axisX.SolveVelocityConstraint(p.BodyA, p.BodyB, -max, max)
	iy := p.axisY.SolveVelocityConstraint(p.BodyA, p.BodyB, -max, max)
	iz := p.axisZ.SolveVelocityConstraint(p.BodyA, p.BodyB, -max, max)
	return absMax3(ix, iy, iz)
}

// SolvePosition corrects the remaining pivot separation.
func (p *Point) SolvePosition(baumgarte float32) float32 {
	qa := p.BodyA.Quaternion()
	qb := p.BodyB.Quaternion()

	worldA := p.BodyA.Position()
	ra := p.PivotA
	ra.ApplyQuaternion(&qa)
	worldA.Add(&ra)

	worldB := p.BodyB.Position()
	rb := p.PivotB
	rb.ApplyQuaternion(&qb)
	worldB.Add(&rb)

	sep := worldB
	sep.Sub(&worldA)

	p.axisX.SolvePositionConstraint(p.BodyA, p.BodyB, sep.X, baumgarte, 0.2)
	p.axisY.SolvePositionConstraint(p.BodyA, p.BodyB, sep.Y, baumgarte, 0.2)
	p.axisZ.SolvePositionConstraint(p.BodyA, p.BodyB, sep.Z, baumgarte, 0.2)
	return absMax3(sep.X, sep.Y, sep.Z)
}

// IsEnabled reports whether the constraint currently participates.
func (p *Point) IsEnabled() bool { return p.Enabled }

// Bodies returns the constrained body pair.
func (p *Point) Bodies() (*body.Body, *body.Body) { return p.BodyA, p.BodyB }

// limitBounds returns the one-sided impulse bounds for a unilateral
// travel limit: pushing only back toward [lower, upper] once pos has
// left it, and applying no force (and decaying any stale accumulated
// impulse to zero) while pos is still inside the range.
func limitBounds(pos, lower, upper, max float32) (float32, float32) {
	switch {
	case pos <= lower:
		return 0, max
	case pos >= upper:
		return -max, 0
	default:
		return 0, 0
	}
}

func absMax3(a, b, c float32) float32 {
	m := absf32(a)
	if absf32(b) > m {
		m = absf32(b)
	}
	if absf32(c) > m {
		m = absf32(c)
	}
	return m
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
