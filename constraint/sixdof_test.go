// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/math32"
)

func TestSixDOFFreeAxisAllowsMotion(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	b.SetVelocity(math32.Vector3{X: 3})

	d := NewSixDOF(a, b, math32.Vector3{}, math32.Vector3{}, 1e6, 1e6)
	// all axes default to ModeFree

	h := float32(1.0 / 60.0)
	d.Prepare(h)
	impulse := d.SolveVelocity()
	assert.Zero(t, impulse)
}

func TestSixDOFLockedAxisStopsRelativeVelocity(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	b.SetVelocity(math32.Vector3{X: 3})

	d := NewSixDOF(a, b, math32.Vector3{}, math32.Vector3{}, 1e6, 1e6)
	d.LinearMode[0] = ModeLocked

	h := float32(1.0 / 60.0)
	for i := 0; i < 20; i++ {
		d.Prepare(h)
		d.SolveVelocity()
	}
	assert.InDelta(t, a.Velocity().X, b.Velocity().X, 1e-2)
}

func TestSixDOFLimitedAxisFreeWithinRangeThenResisted(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)

	d := NewSixDOF(a, b, math32.Vector3{}, math32.Vector3{}, 1e6, 1e6)
	d.LinearMode[0] = ModeLimited
	d.LinearLower[0] = -1
	d.LinearUpper[0] = 1

	h := float32(1.0 / 60.0)
	d.Prepare(h)
	assert.Zero(t, d.SolveVelocity())

	// Displace b beyond the upper bound and confirm position solve pushes back.
	b.SetPosition(math32.Vector3{X: 4})
	d.Prepare(h)
	corrected := d.SolvePosition(0.2)
	assert.NotZero(t, corrected)
}

func TestSixDOFLimitedAxisClampsVelocityOncePastBound(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 4}, 1)
	b.SetVelocity(math32.Vector3{X: 5}) // still driving further past the upper bound

	d := NewSixDOF(a, b, math32.Vector3{}, math32.Vector3{}, 1e6, 1e6)
	d.LinearMode[0] = ModeLimited
	d.LinearLower[0] = -1
	d.LinearUpper[0] = 1

	h := float32(1.0 / 60.0)
	d.Prepare(h)
	impulse := d.SolveVelocity()
	assert.NotZero(t, impulse)
	assert.Less(t, b.Velocity().X, float32(5))
}
