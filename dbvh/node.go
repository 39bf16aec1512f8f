// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbvh implements a dynamic bounding-volume hierarchy: one tree per
// broadphase layer, supporting incremental insert/remove/update, rotation
// based optimization, full rebuilds, and AABB/point/ray/swept-AABB queries.
package dbvh

import "github.com/ironclad-phys/ironclad/math32"

// Null marks the absence of a node, a child, or a body reference.
const Null int32 = -1

// node is one entry of the tree's flat node array. Leaf nodes have
// left == right == Null and bodyIndex >= 0; internal nodes have both
// children set and bodyIndex == Null.
type node struct {
	parent       int32
	left         int32
	right        int32
	height       int32
	aabb         math32.Box3 // fat AABB: body AABB expanded by the tree's margin
	previousAabb math32.Box3 // used for velocity-prediction expansion
	bodyIndex    int32
	free         bool
}

func (n *node) isLeaf() bool { return n.left == Null && n.right == Null }

func unionBox(a, b *math32.Box3) math32.Box3 {
	out := *a
	out.Union(b)
	return out
}

func surfaceArea(b *math32.Box3) float32 {
	size := b.Size(nil)
	return 2 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

func boxCenter(b *math32.Box3) math32.Vector3 {
	return *b.Center(nil)
}
