// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/math32"
)

func TestSliderAllowsFreeAxisMotion(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	b.SetVelocity(math32.Vector3{X: 3})

	sl := NewSlider(a, b, math32.Vector3{}, math32.Vector3{}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 1e6)

	h := float32(1.0 / 60.0)
	for i := 0; i < 5; i++ {
		sl.Prepare(h)
		impulse := sl.SolveVelocity()
		assert.Zero(t, impulse)
	}
}

func TestSliderLocksPerpendicularMotion(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	b.SetVelocity(math32.Vector3{Y: 3})

	sl := NewSlider(a, b, math32.Vector3{}, math32.Vector3{}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 1e6)

	h := float32(1.0 / 60.0)
	for i := 0; i < 20; i++ {
		sl.Prepare(h)
		sl.SolveVelocity()
	}
	assert.InDelta(t, a.Velocity().Y, b.Velocity().Y, 1e-2)
}

func TestSliderLimitClampsMotorAtUpperBound(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 0.5}, 1)

	sl := NewSlider(a, b, math32.Vector3{}, math32.Vector3{}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 1e6)
	sl.LimitEnabled = true
	sl.LowerLimit, sl.UpperLimit = -1, 1
	sl.MotorEnabled = true
	sl.MotorSpeed = 5
	sl.MotorMaxForce = 1e6

	h := float32(1.0 / 60.0)
	for i := 0; i < 300; i++ {
		sl.Prepare(h)
		sl.SolveVelocity()
		a.Integrate(h, true, false)
		b.Integrate(h, true, false)
	}

	assert.LessOrEqual(t, sl.currentPos, sl.UpperLimit+0.05)
	rel := b.Velocity().X - a.Velocity().X
	assert.InDelta(t, 0, rel, 0.5)
}

func TestSliderMotorDrivesTargetSpeed(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)

	sl := NewSlider(a, b, math32.Vector3{}, math32.Vector3{}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 1e6)
	sl.MotorEnabled = true
	sl.MotorSpeed = 1.5
	sl.MotorMaxForce = 1e6

	h := float32(1.0 / 60.0)
	for i := 0; i < 60; i++ {
		sl.Prepare(h)
		sl.SolveVelocity()
	}

	rel := b.Velocity().X - a.Velocity().X
	assert.InDelta(t, 1.5, rel, 0.2)
}
