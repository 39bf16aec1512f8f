// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/math32"
)

func TestSwingTwistRestsQuietlyAtRestPose(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 2}, 1)

	st := NewSwingTwist(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 0.5, 0.3, 1e6)

	h := float32(1.0 / 60.0)
	st.Prepare(h)
	impulse := st.SolveVelocity()
	assert.Zero(t, impulse)
}

func TestSwingTwistPivotLockPullsBodiesTogether(t *testing.T) {
	a := dynamicBodyAt(math32.Vector3{}, 1)
	b := dynamicBodyAt(math32.Vector3{X: 3}, 1)

	st := NewSwingTwist(a, b, math32.Vector3{X: 1}, math32.Vector3{X: -1}, math32.Vector3{X: 1}, math32.Vector3{X: 1}, 0.5, 0.3, 1e6)

	st.Prepare(h60())
	before := st.SolvePosition(0.2)
	assert.NotZero(t, before)
	after := st.SolvePosition(0.2)
	assert.Less(t, absf32(after), absf32(before))
}

func h60() float32 { return 1.0 / 60.0 }
