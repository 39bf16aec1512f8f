// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbvh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironclad-phys/ironclad/math32"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32) math32.Box3 {
	return *math32.NewBox3(
		math32.NewVector3(minX, minY, minZ),
		math32.NewVector3(maxX, maxY, maxZ),
	)
}

func (t *Tree) checkContainment(tb *testing.T, i int32) {
	if t.nodes[i].free {
		return
	}
	if t.nodes[i].isLeaf() {
		return
	}
	l, r := t.nodes[i].left, t.nodes[i].right
	union := unionBox(&t.nodes[l].aabb, &t.nodes[r].aabb)
	require.True(tb, boxEquals(&union, &t.nodes[i].aabb), "node %d aabb does not equal union of children", i)
	t.checkContainment(tb, l)
	t.checkContainment(tb, r)
}

func TestInsertMaintainsContainment(t *testing.T) {
	tree := New()
	a := tree.Insert(0, box(0, 0, 0, 1, 1, 1))
	b := tree.Insert(1, box(5, 0, 0, 6, 1, 1))
	c := tree.Insert(2, box(0, 5, 0, 1, 6, 1))
	_ = a
	_ = b
	_ = c

	tree.checkContainment(t, tree.Root())
	assert.Equal(t, 3, tree.Count())
}

func TestLeafFitsAfterUpdate(t *testing.T) {
	tree := New()
	leaf := tree.Insert(0, box(0, 0, 0, 1, 1, 1))

	exact := box(0.01, 0.01, 0.01, 1.01, 1.01, 1.01)
	newLeaf := tree.Update(leaf, exact, nil, 0, -1)

	b := tree.NodeAABB(newLeaf)
	assert.True(t, b.ContainsBox(&exact))
}

func TestRemoveThenContainment(t *testing.T) {
	tree := New()
	a := tree.Insert(0, box(0, 0, 0, 1, 1, 1))
	tree.Insert(1, box(5, 0, 0, 6, 1, 1))
	tree.Insert(2, box(0, 5, 0, 1, 6, 1))

	tree.Remove(a)
	assert.Equal(t, 2, tree.Count())
	tree.checkContainment(t, tree.Root())
}

func TestQueryAABBFindsOverlapping(t *testing.T) {
	tree := New()
	tree.Insert(0, box(0, 0, 0, 1, 1, 1))
	tree.Insert(1, box(10, 10, 10, 11, 11, 11))

	var found []int32
	tree.QueryAABB(box(-1, -1, -1, 2, 2, 2), func(bodyIndex int32) bool {
		found = append(found, bodyIndex)
		return false
	})
	assert.Equal(t, []int32{0}, found)
}

func TestOptimizePreservesContainment(t *testing.T) {
	tree := New()
	for i := int32(0); i < 20; i++ {
		f := float32(i)
		tree.Insert(i, box(f, 0, 0, f+1, 1, 1))
	}
	tree.Optimize(20)
	tree.checkContainment(t, tree.Root())
	assert.Equal(t, 20, tree.Count())
}

func TestRebuildPreservesLeavesAndContainment(t *testing.T) {
	tree := New()
	for i := int32(0); i < 15; i++ {
		f := float32(i)
		tree.Insert(i, box(f, 0, 0, f+1, 1, 1))
	}
	tree.Rebuild()
	assert.Equal(t, 15, tree.Count())
	tree.checkContainment(t, tree.Root())
}

func TestRebuildBottomUpSmallSet(t *testing.T) {
	tree := New()
	for i := int32(0); i < 4; i++ {
		f := float32(i)
		tree.Insert(i, box(f, 0, 0, f+1, 1, 1))
	}
	tree.RebuildBottomUp()
	assert.Equal(t, 4, tree.Count())
	tree.checkContainment(t, tree.Root())
}
