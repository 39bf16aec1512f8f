// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshio loads triangle meshes from on-disk asset formats into the
// meshbvh package's deduplicated-vertex / interleaved-triangle buffer.
package meshio

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/ironclad-phys/ironclad/math32"
	"github.com/ironclad-phys/ironclad/meshbvh"
)

// LoadGLTF reads a glTF document from path and flattens every mesh
// primitive's POSITION accessor and index buffer into a single
// meshbvh.Mesh, with triangle normals computed from vertex winding. Vertex
// deduplication is left to the source asset (glTF's accessor model already
// shares vertices referenced by multiple triangles); no additional
// dedup pass is performed here.
func LoadGLTF(path string) (*meshbvh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: opening %q: %w", path, err)
	}
	return FromDocument(doc)
}

// FromDocument flattens every mesh primitive in an already-parsed glTF
// document into a single meshbvh.Mesh.
func FromDocument(doc *gltf.Document) (*meshbvh.Mesh, error) {
	out := meshbvh.New()

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posAccessor, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], nil)
			if err != nil {
				return nil, fmt.Errorf("meshio: reading positions: %w", err)
			}

			base := uint32(len(out.Vertices))
			for _, p := range positions {
				out.Vertices = append(out.Vertices, *math32.NewVector3(p[0], p[1], p[2]))
			}

			var indices []uint32
			if prim.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("meshio: reading indices: %w", err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}

			for i := 0; i+2 < len(indices); i += 3 {
				a, b, c := base+indices[i], base+indices[i+1], base+indices[i+2]
				tri := meshbvh.Triangle{
					A: a, B: b, C: c,
					ActiveEdges: meshbvh.ActiveEdgeAB | meshbvh.ActiveEdgeBC | meshbvh.ActiveEdgeCA,
				}
				tri.Normal = faceNormal(out.Vertices[a], out.Vertices[b], out.Vertices[c])
				out.Triangles = append(out.Triangles, tri)
			}
		}
	}

	if len(out.Triangles) == 0 {
		return nil, fmt.Errorf("meshio: document contains no triangle primitives")
	}
	return out, nil
}

func faceNormal(a, b, c math32.Vector3) math32.Vector3 {
	ab := b
	ab.Sub(&a)
	ac := c
	ac.Sub(&a)
	n := ab
	n.Cross(&ac)
	n.Normalize()
	return n
}
