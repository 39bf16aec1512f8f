// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

func dynamicBody(mass float32) *body.Body {
	b := body.New(body.Dynamic, mass)
	b.SetMomentOfInertia(*math32.NewVector3(1, 1, 1))
	return b
}

func TestSpookParamsAreFinite(t *testing.T) {
	e := &Equation{}
	e.SetSpookParams(1e7, 3, 1.0/60.0)
	assert.False(t, Degenerate(e.Eps())) // sanity: eps alone shouldn't be degenerate
}

func TestContactJacobianPointsAlongNormal(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	c := NewContact(a, b, 1e6)
	c.N = *math32.NewVector3(0, 1, 0)
	c.RA = *math32.NewVector3(0, -0.5, 0)
	c.RB = *math32.NewVector3(0, 0.5, 0)
	c.UpdateJacobian()

	assert.InDelta(t, -1, c.JeA.Spatial.Y, 1e-6)
	assert.InDelta(t, 1, c.JeB.Spatial.Y, 1e-6)
}

func TestContactRestitutionZeroWhenSeparating(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	c := NewContact(a, b, 1e6)
	c.RestitutionA, c.RestitutionB = 0.5, 0.5
	assert.Equal(t, float32(0), c.Restitution(1.0))
}

func TestContactRestitutionBouncesWhenApproaching(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	c := NewContact(a, b, 1e6)
	c.RestitutionA, c.RestitutionB = 1.0, 1.0
	assert.InDelta(t, 2.0, c.Restitution(-2.0), 1e-6)
}

func TestRotationalViolationNegativeWhenExceeded(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	r := NewRotational(a, b, 1e6)
	r.AxisA = *math32.NewVector3(1, 0, 0)
	r.AxisB = *math32.NewVector3(0, 1, 0)
	r.MaxAngle = 0.5 // ~28.6deg, axes are 90deg apart: violated
	assert.Less(t, r.Violation(), float32(0))
}

func TestRotationalViolationNonNegativeWithinLimit(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	r := NewRotational(a, b, 1e6)
	r.AxisA = *math32.NewVector3(1, 0, 0)
	r.AxisB = *math32.NewVector3(1, 0, 0)
	r.MaxAngle = 0.5
	assert.GreaterOrEqual(t, r.Violation(), float32(0))
}

func TestFrictionSlipForceRescale(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	f := NewFriction(a, b, 10)
	f.SetSlipForce(3)
	assert.Equal(t, float32(-3), f.MinForce)
	assert.Equal(t, float32(3), f.MaxForce)
}
