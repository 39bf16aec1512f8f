// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironclad-phys/ironclad/layer"
)

func TestGroupMaskSymmetricPass(t *testing.T) {
	assert.True(t, GroupMaskPasses(0b01, 0b01, 0b01, 0b01))
	assert.False(t, GroupMaskPasses(0b01, 0b10, 0b01, 0b10))
}

func TestSetFromBodyEnablesMappedLayersOnly(t *testing.T) {
	m := layer.New()
	bp := m.AddBroadphaseLayer()
	moving := m.AddObjectLayer(bp)
	notMoving := m.AddObjectLayer(bp)
	debris := m.AddObjectLayer(bp)

	require.NoError(t, m.EnableCollision(moving, moving))
	require.NoError(t, m.EnableCollision(moving, notMoving))

	f := New()
	f.SetFromBody(m, BodyLayerInfo{ObjectLayer: moving, Group: 1, Mask: 1})

	assert.True(t, f.ObjectLayerEnabled(moving))
	assert.True(t, f.ObjectLayerEnabled(notMoving))
	assert.False(t, f.ObjectLayerEnabled(debris))
	assert.True(t, f.BroadphaseLayerEnabled(bp))
	assert.Nil(t, f.Predicate)
}

func TestPassesFullCheck(t *testing.T) {
	m := layer.New()
	bp := m.AddBroadphaseLayer()
	moving := m.AddObjectLayer(bp)
	debris := m.AddObjectLayer(bp)
	require.NoError(t, m.EnableCollision(moving, debris))

	f := New()
	f.SetFromBody(m, BodyLayerInfo{ObjectLayer: moving, Group: 0x1, Mask: 0x1})

	ok := f.Passes(BodyLayerInfo{ObjectLayer: debris, Group: 0x1, Mask: 0x1}, bp, 7)
	assert.True(t, ok)

	f.Predicate = func(bodyIndex uint32) bool { return bodyIndex != 7 }
	ok = f.Passes(BodyLayerInfo{ObjectLayer: debris, Group: 0x1, Mask: 0x1}, bp, 7)
	assert.False(t, ok)
}
