// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshbvh implements a static, flat-array, surface-area-heuristic
// BVH over an indexed triangle mesh, with ray/point/AABB/swept-AABB query
// support.
package meshbvh

import "github.com/ironclad-phys/ironclad/math32"

// Active-edge bits: a triangle edge is "active" (can generate contacts) if
// it is a boundary edge, non-manifold, or its dihedral angle exceeds a
// threshold the mesh builder decided at import time.
const (
	ActiveEdgeAB uint8 = 0b001
	ActiveEdgeBC uint8 = 0b010
	ActiveEdgeCA uint8 = 0b100
)

// Triangle is one entry of the mesh's interleaved triangle buffer:
// {index_a, index_b, index_c, normal, active_edges_bits, material_id}.
type Triangle struct {
	A, B, C     uint32
	Normal      math32.Vector3
	ActiveEdges uint8
	MaterialID  uint16
}

// Mesh is a deduplicated vertex array plus an interleaved triangle buffer.
// The triangle buffer is reordered in place by Build so that each BVH
// leaf's triangles occupy a contiguous range.
type Mesh struct {
	Vertices  []math32.Vector3
	Triangles []Triangle
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// Bounds returns the exact AABB of a triangle in world space.
func (m *Mesh) Bounds(tri Triangle) math32.Box3 {
	a, b, c := m.Vertices[tri.A], m.Vertices[tri.B], m.Vertices[tri.C]
	box := math32.Box3{}
	box.MakeEmpty()
	box.ExpandByPoint(&a)
	box.ExpandByPoint(&b)
	box.ExpandByPoint(&c)
	return box
}

func (m *Mesh) swapTriangles(a, b int) {
	m.Triangles[a], m.Triangles[b] = m.Triangles[b], m.Triangles[a]
}
