// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

func dynamicBodyAt(pos math32.Vector3, mass float32) *body.Body {
	b := body.New(body.Dynamic, mass)
	b.SetMomentOfInertia(*math32.NewVector3(1, 1, 1))
	b.SetPosition(pos)
	b.SetQuaternion(math32.Quaternion{W: 1})
	b.UpdateInertiaWorld(true)
	return b
}

func TestPointSolveVelocityZeroesRelativePivotVelocity(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	b.SetVelocity(math32.Vector3{X: 0, Y: 3, Z: 0})

	pivotA := math32.Vector3{X: 1}
	pivotB := math32.Vector3{X: -1}
	c := NewPoint(a, b, pivotA, pivotB, 1e6)

	h := float32(1.0 / 60.0)
	for i := 0; i < 20; i++ {
		c.Prepare(h)
		c.SolveVelocity()
	}

	wa := a.Velocity()
	ra := pivotA
	qa := a.Quaternion()
	ra.ApplyQuaternion(&qa)
	waAng := a.AngularVelocity()
	waAng.Cross(&ra)
	wa.Add(&waAng)

	wb := b.Velocity()
	rb := pivotB
	qb := b.Quaternion()
	rb.ApplyQuaternion(&qb)
	wbAng := b.AngularVelocity()
	wbAng.Cross(&rb)
	wb.Add(&wbAng)

	assert.InDelta(t, wa.X, wb.X, 1e-2)
	assert.InDelta(t, wa.Y, wb.Y, 1e-2)
	assert.InDelta(t, wa.Z, wb.Z, 1e-2)
}

func TestPointSolvePositionReducesSeparation(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 3}, 1)

	pivotA := math32.Vector3{X: 1}
	pivotB := math32.Vector3{X: -1}
	c := NewPoint(a, b, pivotA, pivotB, 1e6)

	c.Prepare(1.0 / 60.0)
	before := c.SolvePosition(0.2)
	require.NotZero(t, before)

	after := c.SolvePosition(0.2)
	assert.Less(t, absf32(after), absf32(before))
}

func TestPointBodiesAndEnabled(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 1}, 1)
	c := NewPoint(a, b, math32.Vector3{}, math32.Vector3{}, 1e6)

	assert.True(t, c.IsEnabled())
	ga, gb := c.Bodies()
	assert.Equal(t, a, ga)
	assert.Equal(t, b, gb)
}
