// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dbvh

import "github.com/ironclad-phys/ironclad/math32"

// Visitor is invoked for every leaf body index found by a query. Returning
// shouldExit == true stops the traversal early.
type Visitor func(bodyIndex int32) (shouldExit bool)

// QueryAABB visits every leaf whose fat AABB intersects the given box,
// using an explicit stack (no recursion).
func (t *Tree) QueryAABB(box math32.Box3, visit Visitor) {
	if t.root == Null {
		return
	}
	stack := []int32{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !t.nodes[n].aabb.IsIntersectionBox(&box) {
			continue
		}
		if t.nodes[n].isLeaf() {
			if visit(t.nodes[n].bodyIndex) {
				return
			}
			continue
		}
		stack = append(stack, t.nodes[n].left, t.nodes[n].right)
	}
}

// QueryPoint visits every leaf whose fat AABB contains the given point.
func (t *Tree) QueryPoint(p math32.Vector3, visit Visitor) {
	if t.root == Null {
		return
	}
	stack := []int32{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !t.nodes[n].aabb.ContainsPoint(&p) {
			continue
		}
		if t.nodes[n].isLeaf() {
			if visit(t.nodes[n].bodyIndex) {
				return
			}
			continue
		}
		stack = append(stack, t.nodes[n].left, t.nodes[n].right)
	}
}

type rayStackEntry struct {
	node     int32
	distance float32
}

// QueryRay casts a ray of the given length and visits leaves in
// nearest-first order, pruning using the best fraction seen so far
// (maintained by the caller via earlyOutFraction; pass 1.0 to disable
// pruning). visit receives the body index and the entry distance along the
// ray; it may tighten the search by calling shrink with a smaller fraction.
func (t *Tree) QueryRay(origin, direction math32.Vector3, length float32, visit func(bodyIndex int32, distance float32) (shouldExit bool, newMaxFraction float32)) {
	if t.root == Null {
		return
	}
	ray := math32.NewRay(&origin, &direction)
	maxFraction := float32(1.0)

	rootDist, ok := rayBoxEntryDistance(ray, &t.nodes[t.root].aabb, length)
	if !ok {
		return
	}
	stack := []rayStackEntry{{t.root, rootDist}}
	for len(stack) > 0 {
		// Pop the entry with the smallest distance (small trees: linear scan
		// is fine and keeps the stack simple and allocation-free beyond append).
		bestIdx := 0
		for i := 1; i < len(stack); i++ {
			if stack[i].distance < stack[bestIdx].distance {
				bestIdx = i
			}
		}
		entry := stack[bestIdx]
		stack[bestIdx] = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if entry.distance > maxFraction*length {
			continue
		}
		n := entry.node
		if t.nodes[n].isLeaf() {
			exit, newMax := visit(t.nodes[n].bodyIndex, entry.distance)
			if newMax > 0 && newMax < maxFraction {
				maxFraction = newMax
			}
			if exit {
				return
			}
			continue
		}
		left, right := t.nodes[n].left, t.nodes[n].right
		if d, ok := rayBoxEntryDistance(ray, &t.nodes[left].aabb, length); ok {
			stack = append(stack, rayStackEntry{left, d})
		}
		if d, ok := rayBoxEntryDistance(ray, &t.nodes[right].aabb, length); ok {
			stack = append(stack, rayStackEntry{right, d})
		}
	}
}

func rayBoxEntryDistance(ray *math32.Ray, box *math32.Box3, maxLen float32) (float32, bool) {
	if !ray.IsIntersectionBox(box) {
		return 0, false
	}
	hit := ray.IntersectBox(box, math32.NewVector3(0, 0, 0))
	if hit == nil {
		return 0, false
	}
	origin := ray.Origin()
	dist := hit.DistanceTo(&origin)
	if dist > maxLen {
		return 0, false
	}
	return dist, true
}

// QuerySweptAABB reduces a swept-box query (a box moving from its current
// position along `direction` for `length`) to a ray query against each
// visited node's AABB expanded by the swept box's half-extents.
func (t *Tree) QuerySweptAABB(box math32.Box3, direction math32.Vector3, length float32, visit func(bodyIndex int32, distance float32) (shouldExit bool, newMaxFraction float32)) {
	half := box.Size(nil)
	half.MultiplyScalar(0.5)
	origin := *box.Center(nil)

	if t.root == Null {
		return
	}
	ray := math32.NewRay(&origin, &direction)
	stack := []rayStackEntry{{t.root, 0}}
	maxFraction := float32(1.0)
	for len(stack) > 0 {
		bestIdx := 0
		for i := 1; i < len(stack); i++ {
			if stack[i].distance < stack[bestIdx].distance {
				bestIdx = i
			}
		}
		entry := stack[bestIdx]
		stack[bestIdx] = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if entry.distance > maxFraction*length {
			continue
		}

		n := entry.node
		expanded := t.nodes[n].aabb
		expanded.ExpandByVector(half)
		if !ray.IsIntersectionBox(&expanded) {
			continue
		}
		hit := ray.IntersectBox(&expanded, math32.NewVector3(0, 0, 0))
		if hit == nil {
			continue
		}
		origin2 := ray.Origin()
		dist := hit.DistanceTo(&origin2)
		if dist > length {
			continue
		}
		if t.nodes[n].isLeaf() {
			exit, newMax := visit(t.nodes[n].bodyIndex, dist)
			if newMax > 0 && newMax < maxFraction {
				maxFraction = newMax
			}
			if exit {
				return
			}
			continue
		}
		stack = append(stack, rayStackEntry{t.nodes[n].left, dist}, rayStackEntry{t.nodes[n].right, dist})
	}
}

// Walk visits every node (internal and leaf) in pre-order. Intended for
// debug rendering by a host collaborator; it never allocates beyond the
// explicit stack.
func (t *Tree) Walk(visit func(nodeIndex int32, isLeaf bool, aabb math32.Box3)) {
	if t.root == Null {
		return
	}
	stack := []int32{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n, t.nodes[n].isLeaf(), t.nodes[n].aabb)
		if !t.nodes[n].isLeaf() {
			stack = append(stack, t.nodes[n].left, t.nodes[n].right)
		}
	}
}
