// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraintpart

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

func TestAxisVelocitySolveZeroesSeparation(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	b.SetVelocity(*math32.NewVector3(0, -1, 0))

	p := &Axis{N: *math32.NewVector3(0, 1, 0)}
	p.CalculateConstraintProperties(a, b, 1.0/60.0)
	assert.True(t, p.IsActive())

	for i := 0; i < 20; i++ {
		p.SolveVelocityConstraint(a, b, 0, 1e9)
	}

	va, vb := a.Velocity(), b.Velocity()
	rel := (vb.Y) - (va.Y)
	assert.InDelta(t, 0, rel, 1e-3)
}

func TestAxisWarmStartReappliesImpulse(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	p := &Axis{N: *math32.NewVector3(0, 1, 0)}
	p.CalculateConstraintProperties(a, b, 1.0/60.0)
	p.TotalLambda = 1.0

	before := b.Velocity()
	p.WarmStart(a, b, 1.0)
	after := b.Velocity()
	assert.Greater(t, after.Y, before.Y)
}

func TestAxisDeactivateClearsLambda(t *testing.T) {
	p := &Axis{TotalLambda: 5}
	p.Deactivate()
	assert.Equal(t, float32(0), p.GetTotalLambda())
	assert.False(t, p.IsActive())
}

func TestRotationEulerLocksRelativeSpin(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	b.SetAngularVelocity(*math32.NewVector3(1, 0, 0))

	p := &RotationEuler{}
	p.CalculateConstraintProperties(a, b)
	assert.True(t, p.IsActive())

	for i := 0; i < 20; i++ {
		p.SolveVelocityConstraint(a, b, -1e9, 1e9)
	}

	wa, wb := a.AngularVelocity(), b.AngularVelocity()
	assert.InDelta(t, wa.X, wb.X, 1e-3)
}

func TestDualAxisCoupledSolve(t *testing.T) {
	a := dynamicBody(1)
	b := dynamicBody(1)
	b.SetVelocity(*math32.NewVector3(1, 1, 0))

	p := &DualAxis{
		Axis1: *math32.NewVector3(1, 0, 0),
		Axis2: *math32.NewVector3(0, 1, 0),
	}
	p.CalculateConstraintProperties(a, b)
	assert.True(t, p.IsActive())

	for i := 0; i < 20; i++ {
		p.SolveVelocityConstraint(a, b)
	}

	va, vb := a.Velocity(), b.Velocity()
	assert.InDelta(t, va.X, vb.X, 1e-3)
	assert.InDelta(t, va.Y, vb.Y, 1e-3)
}
