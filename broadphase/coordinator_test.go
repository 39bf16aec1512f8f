// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/layer"
	"github.com/ironclad-phys/ironclad/math32"
)

func newLayers(t *testing.T) (*layer.Matrix, layer.ID) {
	m := layer.New()
	bp := m.AddBroadphaseLayer()
	ol := m.AddObjectLayer(bp)
	require.NoError(t, m.EnableCollision(ol, ol))
	return m, bp
}

func boxAt(x float32) math32.Box3 {
	var b math32.Box3
	b.Set(math32.NewVector3(x-0.5, -0.5, -0.5), math32.NewVector3(x+0.5, 0.5, 0.5))
	return b
}

func newBodyAt(pool *body.Pool, ol layer.ID, x float32, motion body.MotionType) *body.Body {
	b := body.New(motion, 1)
	b.ObjectLayer = ol
	b.SetAABB(boxAt(x))
	pool.Add(b)
	return b
}

func TestAddBodyFailsForUnmappedLayer(t *testing.T) {
	layers := layer.New()
	c := New(layers)
	b := body.New(body.Dynamic, 1)
	b.ObjectLayer = 42
	err := c.AddBody(b)
	assert.ErrorIs(t, err, ErrUnmappedLayer)
}

func TestFindCollidingPairsFindsOverlap(t *testing.T) {
	layers, _ := newLayers(t)
	pool := body.NewPool()
	c := New(layers)

	b1 := newBodyAt(pool, 0, 0, body.Dynamic)
	b2 := newBodyAt(pool, 0, 0.5, body.Dynamic)
	require.NoError(t, c.AddBody(b1))
	require.NoError(t, c.AddBody(b2))

	pairs := c.FindCollidingPairs([]*body.Body{b1, b2}, 0, nil)
	assert.Len(t, pairs, 1)
}

func TestFindCollidingPairsExcludesStaticStatic(t *testing.T) {
	layers, _ := newLayers(t)
	pool := body.NewPool()
	c := New(layers)

	b1 := newBodyAt(pool, 0, 0, body.Static)
	b2 := newBodyAt(pool, 0, 0.5, body.Static)
	require.NoError(t, c.AddBody(b1))
	require.NoError(t, c.AddBody(b2))

	pairs := c.FindCollidingPairs([]*body.Body{b1, b2}, 0, nil)
	assert.Empty(t, pairs)
}

func TestFindCollidingPairsDedupesSymmetricQueries(t *testing.T) {
	layers, _ := newLayers(t)
	pool := body.NewPool()
	c := New(layers)

	b1 := newBodyAt(pool, 0, 0, body.Dynamic)
	b2 := newBodyAt(pool, 0, 0.2, body.Dynamic)
	require.NoError(t, c.AddBody(b1))
	require.NoError(t, c.AddBody(b2))

	pairs := c.FindCollidingPairs([]*body.Body{b1, b2}, 0, nil)
	require.Len(t, pairs, 1)
	assert.NotEqual(t, pairs[0].BodyA, pairs[0].BodyB)
}

func TestFindCollidingPairsSpeculativeDistanceExpandsQuery(t *testing.T) {
	layers, _ := newLayers(t)
	pool := body.NewPool()
	c := New(layers)

	b1 := newBodyAt(pool, 0, 0, body.Dynamic)
	b2 := newBodyAt(pool, 0, 1.5, body.Dynamic)
	require.NoError(t, c.AddBody(b1))
	require.NoError(t, c.AddBody(b2))

	bodies := []*body.Body{b1, b2}
	assert.Empty(t, c.FindCollidingPairs(bodies, 0, nil))
	assert.Len(t, c.FindCollidingPairs(bodies, 0.6, nil), 1)
}

type recordingQueryListener struct {
	snapshots []Snapshot
}

func (r *recordingQueryListener) OnQuerySnapshot(s Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

func TestFindCollidingPairsNotifiesQueryListener(t *testing.T) {
	layers, _ := newLayers(t)
	pool := body.NewPool()
	c := New(layers)

	b1 := newBodyAt(pool, 0, 0, body.Dynamic)
	b2 := newBodyAt(pool, 0, 0.5, body.Dynamic)
	require.NoError(t, c.AddBody(b1))
	require.NoError(t, c.AddBody(b2))

	l := &recordingQueryListener{}
	c.FindCollidingPairs([]*body.Body{b1, b2}, 0.1, l)
	require.Len(t, l.snapshots, 2)
	assert.InDelta(t, b1.AABB().Min.X-0.1, l.snapshots[0].SpeculativeAABB.Min.X, 1e-6)
}
