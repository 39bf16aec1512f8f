// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshbvh

import "github.com/ironclad-phys/ironclad/math32"

func nodeBox(n FlatNode) math32.Box3 {
	return math32.Box3{Min: n.Min, Max: n.Max}
}

// RayHit describes one ray/triangle intersection.
type RayHit struct {
	TriangleIndex int32
	Distance      float32
	Point         math32.Vector3
}

type stackEntry struct {
	node     int32
	distance float32
}

// RayCollector receives candidate triangles in nearest-first node order and
// may shrink earlyOutFraction (in [0,1] of the ray's length) to prune
// remaining traversal once a close-enough hit is found.
type RayCollector struct {
	EarlyOutFraction float32
	Visit            func(hit RayHit) (newEarlyOutFraction float32)
}

// QueryRay traverses the tree with an explicit stack, reordering child
// pushes so the closer child (by ray/AABB entry distance) is popped first,
// and pruning using collector.EarlyOutFraction.
func (t *Tree) QueryRay(origin, direction math32.Vector3, length float32, collector *RayCollector) {
	if len(t.Nodes) == 0 {
		return
	}
	if collector.EarlyOutFraction <= 0 {
		collector.EarlyOutFraction = 1
	}
	ray := math32.NewRay(&origin, &direction)

	rootDist, ok := entryDistance(ray, t.Nodes[0], length)
	if !ok {
		return
	}
	stack := []stackEntry{{0, rootDist}}
	visited := 0
	for len(stack) > 0 {
		// Pop nearest.
		best := 0
		for i := 1; i < len(stack); i++ {
			if stack[i].distance < stack[best].distance {
				best = i
			}
		}
		entry := stack[best]
		stack[best] = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++

		if entry.distance > collector.EarlyOutFraction*length {
			continue
		}
		node := t.Nodes[entry.node]
		if node.IsLeaf() {
			first, count := node.LeafTriangleRange()
			for i := first; i < first+count; i++ {
				tri := t.Mesh.Triangles[i]
				a, b, c := t.Mesh.Vertices[tri.A], t.Mesh.Vertices[tri.B], t.Mesh.Vertices[tri.C]
				var pt math32.Vector3
				if ray.IntersectTriangle(&a, &b, &c, false, &pt) {
					orig := ray.Origin()
					dist := pt.DistanceTo(&orig)
					if dist > collector.EarlyOutFraction*length {
						continue
					}
					if collector.Visit != nil {
						if newFrac := collector.Visit(RayHit{TriangleIndex: i, Distance: dist, Point: pt}); newFrac > 0 {
							collector.EarlyOutFraction = newFrac
						}
					}
				}
			}
			continue
		}

		left := entry.node + 1
		right := node.RightOrTriStart
		ld, lok := entryDistance(ray, t.Nodes[left], length)
		rd, rok := entryDistance(ray, t.Nodes[right], length)
		// Push farther first so the nearer one is the last pushed — the
		// pop-nearest scan above makes explicit ordering unnecessary for
		// correctness, but pushing in near-to-far order keeps the stack
		// small in the common case.
		if lok && rok && rd < ld {
			if lok {
				stack = append(stack, stackEntry{left, ld})
			}
			if rok {
				stack = append(stack, stackEntry{right, rd})
			}
		} else {
			if rok {
				stack = append(stack, stackEntry{right, rd})
			}
			if lok {
				stack = append(stack, stackEntry{left, ld})
			}
		}
	}
}

func entryDistance(ray *math32.Ray, node FlatNode, maxLen float32) (float32, bool) {
	box := nodeBox(node)
	if !ray.IsIntersectionBox(&box) {
		return 0, false
	}
	hit := ray.IntersectBox(&box, math32.NewVector3(0, 0, 0))
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

// QueryPoint visits every leaf triangle range whose node AABB contains p.
func (t *Tree) QueryPoint(p math32.Vector3, visit func(triangleIndex int32) (shouldExit bool)) {
	if len(t.Nodes) == 0 {
		return
	}
	stack := []int32{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.Nodes[idx]
		box := nodeBox(node)
		if !box.ContainsPoint(&p) {
			continue
		}
		if node.IsLeaf() {
			first, count := node.LeafTriangleRange()
			for i := first; i < first+count; i++ {
				if visit(i) {
					return
				}
			}
			continue
		}
		stack = append(stack, idx+1, node.RightOrTriStart)
	}
}

// QueryAABB visits every leaf triangle range whose node AABB intersects box.
func (t *Tree) QueryAABB(box math32.Box3, visit func(triangleIndex int32) (shouldExit bool)) {
	if len(t.Nodes) == 0 {
		return
	}
	stack := []int32{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.Nodes[idx]
		nb := nodeBox(node)
		if !nb.IsIntersectionBox(&box) {
			continue
		}
		if node.IsLeaf() {
			first, count := node.LeafTriangleRange()
			for i := first; i < first+count; i++ {
				if visit(i) {
					return
				}
			}
			continue
		}
		stack = append(stack, idx+1, node.RightOrTriStart)
	}
}

// QuerySweptAABB reduces a moving-box query to a ray query against each
// node's AABB expanded by the swept box's half-extents.
func (t *Tree) QuerySweptAABB(box math32.Box3, direction math32.Vector3, length float32, visit func(triangleIndex int32, distance float32) (shouldExit bool)) {
	if len(t.Nodes) == 0 {
		return
	}
	half := box.Size(nil)
	half.MultiplyScalar(0.5)
	origin := *box.Center(nil)
	ray := math32.NewRay(&origin, &direction)

	stack := []int32{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.Nodes[idx]
		nb := nodeBox(node)
		nb.ExpandByVector(half)
		if !ray.IsIntersectionBox(&nb) {
			continue
		}
		hit := ray.IntersectBox(&nb, math32.NewVector3(0, 0, 0))
		if hit == nil {
			continue
		}
		orig := ray.Origin()
		dist := hit.DistanceTo(&orig)
		if dist > length {
			continue
		}
		if node.IsLeaf() {
			first, count := node.LeafTriangleRange()
			for i := first; i < first+count; i++ {
				if visit(i, dist) {
					return
				}
			}
			continue
		}
		stack = append(stack, idx+1, node.RightOrTriStart)
	}
}

// Walk visits every node in pre-order for debug rendering.
func (t *Tree) Walk(visit func(nodeIndex int32, node FlatNode)) {
	for i, n := range t.Nodes {
		visit(int32(i), n)
	}
}
