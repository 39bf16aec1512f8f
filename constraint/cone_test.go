// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/math32"
)

func TestConeAllowsSmallSwing(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	b.SetAngularVelocity(math32.Vector3{Z: 0.1})
	// Move b's centre with the swing so the shared pivot stays put.
	b.SetVelocity(math32.Vector3{Y: 0.1})

	c := NewCone(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 0.5, 1e6)

	h := float32(1.0 / 60.0)
	for i := 0; i < 5; i++ {
		c.Prepare(h)
		impulse := c.SolveVelocity()
		assert.Zero(t, impulse)
	}
}

func TestConeResistsExcessiveSwing(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	// Tip axisB far outside the cone immediately.
	qb := math32.Quaternion{}
	qb.SetFromAxisAngle(math32.NewVector3(0, 0, 1), 1.2)
	b.SetQuaternion(qb)
	b.UpdateInertiaWorld(true)

	c := NewCone(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 0.3, 1e6)

	h := float32(1.0 / 60.0)
	c.Prepare(h)
	impulse := c.SolveVelocity()
	assert.NotZero(t, impulse)
}
