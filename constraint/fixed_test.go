// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/math32"
)

func TestFixedWeldLocksRelativeVelocity(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)
	b.SetVelocity(math32.Vector3{X: 1, Y: 2, Z: 0})
	b.SetAngularVelocity(math32.Vector3{Z: 1})

	f := NewFixed(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, 1e6, 1e6)

	h := float32(1.0 / 60.0)
	for i := 0; i < 30; i++ {
		f.Prepare(h)
		f.SolveVelocity()
	}

	assert.InDelta(t, a.AngularVelocity().Z, b.AngularVelocity().Z, 1e-2)
}

func TestFixedWeldHoldsOrientation(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)

	f := NewFixed(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, 1e6, 1e6)

	qb := math32.Quaternion{}
	qb.SetFromAxisAngle(math32.NewVector3(0, 1, 0), 0.2)
	b.SetQuaternion(qb)
	b.UpdateInertiaWorld(true)

	f.Prepare(1.0 / 60.0)
	corrected := f.SolvePosition(0.2)
	assert.NotZero(t, corrected)
}
