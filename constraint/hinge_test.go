// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/math32"
)

func TestHingeAllowsRotationAboutFreeAxis(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	b.SetAngularVelocity(math32.Vector3{X: 5}) // spin purely about the hinge axis

	hc := NewHinge(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 1e6)

	h := float32(1.0 / 60.0)
	for i := 0; i < 10; i++ {
		hc.Prepare(h)
		hc.SolveVelocity()
	}

	assert.Greater(t, b.AngularVelocity().X, float32(1))
}

func TestHingeLocksPerpendicularSpin(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	b.SetAngularVelocity(math32.Vector3{Y: 5}) // spin about a locked axis

	hc := NewHinge(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 1e6)

	h := float32(1.0 / 60.0)
	for i := 0; i < 20; i++ {
		hc.Prepare(h)
		hc.SolveVelocity()
	}

	assert.InDelta(t, a.AngularVelocity().Y, b.AngularVelocity().Y, 1e-2)
}

func TestHingeLimitClampsMotorAtUpperBound(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)

	hc := NewHinge(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 1e6)
	hc.LimitEnabled = true
	hc.LowerLimit, hc.UpperLimit = -1, 1
	hc.MotorEnabled = true
	hc.MotorSpeed = 5
	hc.MotorMaxForce = 1e6

	h := float32(1.0 / 60.0)
	for i := 0; i < 300; i++ {
		hc.Prepare(h)
		hc.SolveVelocity()
		a.Integrate(h, true, false)
		b.Integrate(h, true, false)
	}

	assert.LessOrEqual(t, hc.currentAngle, hc.UpperLimit+0.05)
}

func TestHingeMotorDrivesTargetSpeed(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)

	hc := NewHinge(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 1e6)
	hc.MotorEnabled = true
	hc.MotorSpeed = 2
	hc.MotorMaxForce = 1e6

	h := float32(1.0 / 60.0)
	for i := 0; i < 60; i++ {
		hc.Prepare(h)
		hc.SolveVelocity()
	}

	rel := b.AngularVelocity().X - a.AngularVelocity().X
	assert.InDelta(t, 2, rel, 0.2)
}
