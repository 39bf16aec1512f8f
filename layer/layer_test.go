// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableCollisionSymmetry(t *testing.T) {
	m := New()
	bp := m.AddBroadphaseLayer()
	moving := m.AddObjectLayer(bp)
	debris := m.AddObjectLayer(bp)

	require.NoError(t, m.EnableCollision(moving, debris))

	assert.True(t, m.ObjectLayerCollides(moving, debris))
	assert.True(t, m.ObjectLayerCollides(debris, moving))
	assert.True(t, m.BroadphaseLayerCollides(bp, bp))
	assert.True(t, m.ObjectVsBroadphaseCollides(moving, bp))
	assert.True(t, m.ObjectVsBroadphaseCollides(debris, bp))
}

func TestUnmappedObjectLayerErrors(t *testing.T) {
	m := New()
	err := m.EnableCollision(0, 1)
	assert.Error(t, err)
}

func TestDisjointBroadphaseLayersStayExcluded(t *testing.T) {
	m := New()
	bp1 := m.AddBroadphaseLayer()
	bp2 := m.AddBroadphaseLayer()
	a := m.AddObjectLayer(bp1)
	b := m.AddObjectLayer(bp2)

	assert.False(t, m.ObjectLayerCollides(a, b))
	assert.False(t, m.BroadphaseLayerCollides(bp1, bp2))

	require.NoError(t, m.EnableCollision(a, b))
	assert.True(t, m.ObjectLayerCollides(a, b))
	assert.True(t, m.BroadphaseLayerCollides(bp1, bp2))
}
