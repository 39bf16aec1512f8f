// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/constraintpart"
	"github.com/ironclad-phys/ironclad/math32"
)

// Distance holds two bodies' local anchor points at a fixed separation,
// solved as a single Axis part along the current anchor-to-anchor
// direction.
type Distance struct {
	Base

	AnchorA, AnchorB math32.Vector3
	RestLength       float32
	MaxForce         float32

	axis constraintpart.Axis
}

// NewDistance builds a distance constraint that holds the two anchors
// restLength apart.
func NewDistance(a, b *body.Body, anchorA, anchorB math32.Vector3, restLength, maxForce float32) *Distance {
	return &Distance{
		Base:       Base{BodyA: a, BodyB: b, Enabled: true, VelocityIterations: 10, PositionIterations: 2},
		AnchorA:    anchorA,
		AnchorB:    anchorB,
		RestLength: restLength,
		MaxForce:   maxForce,
	}
}

func (d *Distance) worldAnchors() (wa, wb math32.Vector3) {
	qa := d.BodyA.Quaternion()
	qb := d.BodyB.Quaternion()

	ra := d.AnchorA
	ra.ApplyQuaternion(&qa)
	wa = d.BodyA.Position()
	wa.Add(&ra)

	rb := d.AnchorB
	rb.ApplyQuaternion(&qb)
	wb = d.BodyB.Position()
	wb.Add(&rb)
	return wa, wb
}

// Prepare rebuilds the axis along the current anchor separation.
func (d *Distance) Prepare(h float32) {
	wa, wb := d.worldAnchors()
	delta := wb
	delta.Sub(&wa)
	length := delta.Length()
	if length < 1e-8 {
		delta = math32.Vector3{X: 1}
		length = 1
	}
	n := delta
	n.MultiplyScalar(1.0 / length)

	qa := d.BodyA.Quaternion()
	qb := d.BodyB.Quaternion()
	ra := d.AnchorA
	ra.ApplyQuaternion(&qa)
	rb := d.AnchorB
	rb.ApplyQuaternion(&qb)

	d.axis.N = n
	d.axis.RA = ra
	d.axis.RB = rb
	d.axis.CalculateConstraintProperties(d.BodyA, d.BodyB, h)
}

// WarmStart reapplies the cached impulse.
func (d *Distance) WarmStart(ratio float32) {
	d.axis.WarmStart(d.BodyA, d.BodyB, ratio)
}

// SolveVelocity drives the relative separation velocity to zero.
func (d *Distance) SolveVelocity() float32 {
	return d.axis.SolveVelocityConstraint(d.BodyA, d.BodyB, -d.MaxForce, d.MaxForce)
}

// SolvePosition corrects the remaining length error against RestLength.
func (d *Distance) SolvePosition(baumgarte float32) float32 {
	wa, wb := d.worldAnchors()
	delta := wb
	delta.Sub(&wa)
	errAmt := delta.Length() - d.RestLength
	d.axis.SolvePositionConstraint(d.BodyA, d.BodyB, errAmt, baumgarte, 0.2)
	return absf32(errAmt)
}

// IsEnabled reports whether the constraint currently participates.
func (d *Distance) IsEnabled() bool { return d.Enabled }

// Bodies returns the constrained body pair.
func (d *Distance) Bodies() (*body.Body, *body.Body) { return d.BodyA, d.BodyB }
