// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/equation"
	"github.com/ironclad-phys/ironclad/math32"
)

func dynamicBodyAt(pool *body.Pool, pos math32.Vector3, mass float32) *body.Body {
	b := body.New(body.Dynamic, mass)
	b.SetMomentOfInertia(*math32.NewVector3(1, 1, 1))
	b.SetPosition(pos)
	b.SetQuaternion(math32.Quaternion{W: 1})
	b.UpdateInertiaWorld(true)
	pool.Add(b)
	return b
}

func relativeNormalVelocity(a, b *body.Body, n math32.Vector3) float32 {
	va, vb := a.Velocity(), b.Velocity()
	return vb.Dot(&n) - va.Dot(&n)
}

func TestGaussSeidelZeroesApproachingContactVelocity(t *testing.T) {
	pool := body.NewPool()
	a := dynamicBodyAt(pool, math32.Vector3{}, 1)
	b := dynamicBodyAt(pool, math32.Vector3{Y: 1}, 1)

	a.SetVelocity(math32.Vector3{Y: 1})
	b.SetVelocity(math32.Vector3{Y: -1})

	n := math32.Vector3{Y: 1}
	c := equation.NewContact(a, b, 1e6)
	c.N = n
	c.RA = math32.Vector3{Y: 0.5}
	c.RB = math32.Vector3{Y: -0.5}
	c.UpdateJacobian()

	h := float32(1.0 / 60.0)
	c.ComputeContactB(0, h)

	gs := NewGaussSeidel()
	gs.AddEquation(&c.Equation)

	for i := 0; i < 10; i++ {
		sol := gs.Solve(h, pool.Capacity())
		ApplySolution(sol, pool)
		c.UpdateJacobian()
		c.ComputeContactB(0, h)
	}

	assert.InDelta(t, 0, relativeNormalVelocity(a, b, n), 1e-2)
}

func TestGaussSeidelEmptyPoolReturnsZeroIterations(t *testing.T) {
	gs := NewGaussSeidel()
	sol := gs.Solve(1.0/60.0, 0)
	assert.Equal(t, 0, gs.Iterations)
	assert.Empty(t, sol.VelocityDeltas)
}

func TestGaussSeidelRespectsMaxForceClamp(t *testing.T) {
	pool := body.NewPool()
	a := dynamicBodyAt(pool, math32.Vector3{}, 1)
	b := dynamicBodyAt(pool, math32.Vector3{Y: 1}, 1)
	b.SetVelocity(math32.Vector3{Y: -100})

	c := equation.NewContact(a, b, 0.01)
	c.N = math32.Vector3{Y: 1}
	c.RA = math32.Vector3{Y: 0.5}
	c.RB = math32.Vector3{Y: -0.5}
	c.UpdateJacobian()
	c.ComputeContactB(0, 1.0/60.0)

	gs := NewGaussSeidel()
	gs.AddEquation(&c.Equation)
	sol := gs.Solve(1.0/60.0, pool.Capacity())
	ApplySolution(sol, pool)

	// Multiplier is the clamped lambda divided by h.
	assert.LessOrEqual(t, c.Multiplier*(1.0/60.0), float32(0.01)+1e-4)
}
