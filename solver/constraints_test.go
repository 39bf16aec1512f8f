// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/constraint"
	"github.com/ironclad-phys/ironclad/math32"
)

func dynamicConstraintBody(pos math32.Vector3, mass float32) *body.Body {
	b := body.New(body.Dynamic, mass)
	b.SetMomentOfInertia(*math32.NewVector3(1, 1, 1))
	b.SetPosition(pos)
	b.SetQuaternion(math32.Quaternion{W: 1})
	b.UpdateInertiaWorld(true)
	return b
}

func TestConstraintsDriverSolvesDistanceToRestLength(t *testing.T) {
	a := dynamicConstraintBody(math32.Vector3{}, 1)
	b := dynamicConstraintBody(math32.Vector3{X: 2}, 1)
	b.SetVelocity(math32.Vector3{X: 1})

	d := constraint.NewDistance(a, b, math32.Vector3{}, math32.Vector3{}, 2, 1e6)

	var cs Constraints
	cs.Add(d)
	assert.Equal(t, 1, cs.Len())

	h := float32(1.0 / 60.0)
	for i := 0; i < 20; i++ {
		cs.Prepare(h)
		cs.SolveVelocity(1)
	}

	assert.InDelta(t, a.Velocity().X, b.Velocity().X, 1e-2)
}

func TestConstraintsDriverRemove(t *testing.T) {
	a := dynamicConstraintBody(math32.Vector3{}, 1)
	b := dynamicConstraintBody(math32.Vector3{X: 2}, 1)
	d := constraint.NewDistance(a, b, math32.Vector3{}, math32.Vector3{}, 2, 1e6)

	var cs Constraints
	cs.Add(d)
	assert.True(t, cs.Remove(d))
	assert.Equal(t, 0, cs.Len())
	assert.False(t, cs.Remove(d))
}

func TestConstraintsDriverOrdersByPriorityThenID(t *testing.T) {
	a := dynamicConstraintBody(math32.Vector3{}, 1)
	b := dynamicConstraintBody(math32.Vector3{X: 2}, 1)

	low := constraint.NewDistance(a, b, math32.Vector3{}, math32.Vector3{}, 2, 1e6)
	low.ID = constraint.NewID(2, constraint.TypeDistance, 0)
	low.Priority = 0

	high := constraint.NewDistance(a, b, math32.Vector3{}, math32.Vector3{}, 2, 1e6)
	high.ID = constraint.NewID(1, constraint.TypeDistance, 0)
	high.Priority = 5

	mid := constraint.NewDistance(a, b, math32.Vector3{}, math32.Vector3{}, 2, 1e6)
	mid.ID = constraint.NewID(0, constraint.TypeDistance, 0)
	mid.Priority = 5

	var cs Constraints
	cs.Add(low)
	cs.Add(high)
	cs.Add(mid)

	got := cs.All()
	wantOrder := []constraint.Constraint{mid, high, low}
	for i, want := range wantOrder {
		assert.Same(t, want, got[i])
	}
}

func TestConstraintsDriverSkipsDisabled(t *testing.T) {
	a := dynamicConstraintBody(math32.Vector3{}, 1)
	b := dynamicConstraintBody(math32.Vector3{X: 2}, 1)
	d := constraint.NewDistance(a, b, math32.Vector3{}, math32.Vector3{}, 2, 1e6)
	d.Enabled = false

	var cs Constraints
	cs.Add(d)
	cs.Prepare(1.0 / 60.0)
	m := cs.SolveVelocity(4)
	assert.Zero(t, m)
}
