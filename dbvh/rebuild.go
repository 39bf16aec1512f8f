// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbvh

import "github.com/ironclad-phys/ironclad/math32"

// TopDownBottomUpThreshold is the leaf count below which a top-down rebuild
// falls back to the bottom-up strategy.
const TopDownBottomUpThreshold = 8

// Rebuild discards the current internal-node structure and rebuilds the
// tree from scratch over its current leaves, using top-down splitting
// (falling back to bottom-up below TopDownBottomUpThreshold leaves).
func (t *Tree) Rebuild() {
	leaves := t.collectLeaves()
	t.rebuildFrom(leaves)
}

// RebuildBottomUp discards the current internal structure and rebuilds by
// always merging the globally smallest-area pair of remaining roots. O(n^2)
// in the leaf count; intended for small leaf sets.
func (t *Tree) RebuildBottomUp() {
	leaves := t.collectLeaves()
	t.bottomUp(leaves)
}

func (t *Tree) collectLeaves() []int32 {
	var leaves []int32
	for i := range t.nodes {
		if !t.nodes[i].free && t.nodes[i].isLeaf() {
			leaves = append(leaves, int32(i))
		}
	}
	// Free every internal node; leaves are kept and relinked.
	for i := range t.nodes {
		if !t.nodes[i].free && !t.nodes[i].isLeaf() {
			t.nodes[i] = node{free: true}
			t.freeList = append(t.freeList, int32(i))
		}
	}
	t.root = Null
	return leaves
}

func (t *Tree) rebuildFrom(leaves []int32) {
	if len(leaves) == 0 {
		t.root = Null
		return
	}
	if len(leaves) == 1 {
		t.nodes[leaves[0]].parent = Null
		t.root = leaves[0]
		return
	}
	if len(leaves) < TopDownBottomUpThreshold {
		t.bottomUp(leaves)
		return
	}
	t.root = t.topDown(leaves)
	t.nodes[t.root].parent = Null
}

// topDown splits leaves along the axis whose center-median yields the most
// balanced partition, recursing until a single leaf remains.
func (t *Tree) topDown(leaves []int32) int32 {
	if len(leaves) == 1 {
		return leaves[0]
	}
	if len(leaves) < TopDownBottomUpThreshold {
		return t.bottomUpSubtree(leaves)
	}

	var bounds math32.Box3
	bounds.MakeEmpty()
	var centerBounds math32.Box3
	centerBounds.MakeEmpty()
	for _, l := range leaves {
		bounds.Union(&t.nodes[l].aabb)
		c := boxCenter(&t.nodes[l].aabb)
		centerBounds.ExpandByPoint(&c)
	}
	size := centerBounds.Size(nil)
	axis := 0
	if size.Y > size.X {
		axis = 1
	}
	if axis == 0 && size.Z > size.X {
		axis = 2
	}
	if axis == 1 && size.Z > size.Y {
		axis = 2
	}

	median := axisComponent(centerBounds.Center(nil), axis)

	var left, right []int32
	for _, l := range leaves {
		c := boxCenter(&t.nodes[l].aabb)
		if axisComponent(&c, axis) < median {
			left = append(left, l)
		} else {
			right = append(right, l)
		}
	}
	// Guard against a degenerate split (all on one side).
	if len(left) == 0 || len(right) == 0 {
		mid := len(leaves) / 2
		left = leaves[:mid]
		right = leaves[mid:]
	}

	leftRoot := t.topDown(left)
	rightRoot := t.topDown(right)

	parent := t.allocNode()
	union := unionBox(&t.nodes[leftRoot].aabb, &t.nodes[rightRoot].aabb)
	t.nodes[parent] = node{left: leftRoot, right: rightRoot, aabb: union, bodyIndex: Null,
		height: maxInt32(t.nodes[leftRoot].height, t.nodes[rightRoot].height) + 1}
	t.nodes[leftRoot].parent = parent
	t.nodes[rightRoot].parent = parent
	return parent
}

func axisComponent(v *math32.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// bottomUp repeatedly merges the globally smallest-area pair among the
// given roots until one root remains, assigning it as the tree root.
func (t *Tree) bottomUp(leaves []int32) {
	t.root = t.bottomUpSubtree(leaves)
	t.nodes[t.root].parent = Null
}

func (t *Tree) bottomUpSubtree(roots []int32) int32 {
	active := append([]int32(nil), roots...)
	if len(active) == 1 {
		return active[0]
	}
	for len(active) > 1 {
		bestI, bestJ := 0, 1
		bestArea := float32(1e30)
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				u := unionBox(&t.nodes[active[i]].aabb, &t.nodes[active[j]].aabb)
				area := surfaceArea(&u)
				if area < bestArea {
					bestArea = area
					bestI, bestJ = i, j
				}
			}
		}
		a, b := active[bestI], active[bestJ]
		parent := t.allocNode()
		union := unionBox(&t.nodes[a].aabb, &t.nodes[b].aabb)
		t.nodes[parent] = node{left: a, right: b, aabb: union, bodyIndex: Null,
			height: maxInt32(t.nodes[a].height, t.nodes[b].height) + 1}
		t.nodes[a].parent = parent
		t.nodes[b].parent = parent

		// Remove a,b and append parent, preserving order otherwise.
		next := make([]int32, 0, len(active)-1)
		for k, v := range active {
			if k == bestI || k == bestJ {
				continue
			}
			next = append(next, v)
		}
		next = append(next, parent)
		active = next
	}
	return active[0]
}
