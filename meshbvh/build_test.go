// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshbvh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironclad-phys/ironclad/math32"
)

// cubeMesh returns the standard 12-triangle unit cube centered at the
// origin, used by the spec's mesh-BVH self-check scenario.
func cubeMesh() *Mesh {
	v := func(x, y, z float32) math32.Vector3 { return *math32.NewVector3(x, y, z) }
	m := New()
	m.Vertices = []math32.Vector3{
		v(-1, -1, -1), v(1, -1, -1), v(1, 1, -1), v(-1, 1, -1), // back (-Z)
		v(-1, -1, 1), v(1, -1, 1), v(1, 1, 1), v(-1, 1, 1), // front (+Z)
	}
	quad := func(a, b, c, d uint32) {
		m.Triangles = append(m.Triangles,
			Triangle{A: a, B: b, C: c},
			Triangle{A: a, B: c, C: d},
		)
	}
	quad(0, 1, 2, 3) // back
	quad(5, 4, 7, 6) // front
	quad(4, 0, 3, 7) // left
	quad(1, 5, 6, 2) // right
	quad(3, 2, 6, 7) // top
	quad(4, 5, 1, 0) // bottom
	return m
}

func checkCoverage(t *testing.T, tree *Tree, idx int32) math32.Box3 {
	node := tree.Nodes[idx]
	box := nodeBox(node)
	if node.IsLeaf() {
		first, count := node.LeafTriangleRange()
		var union math32.Box3
		union.MakeEmpty()
		for i := first; i < first+count; i++ {
			tb := tree.Mesh.Bounds(tree.Mesh.Triangles[i])
			union.Union(&tb)
		}
		require.True(t, box.ContainsBox(&union))
		return box
	}
	left := checkCoverage(t, tree, idx+1)
	right := checkCoverage(t, tree, node.RightOrTriStart)
	union := left
	union.Union(&right)
	require.True(t, box.Equals(&union))
	return box
}

func TestBuildSAHCoverage(t *testing.T) {
	m := cubeMesh()
	tree, err := Build(m, Settings{Strategy: StrategySAH, MaxLeafTris: 2})
	require.NoError(t, err)
	require.NotEmpty(t, tree.Nodes)
	checkCoverage(t, tree, 0)
}

func TestBuildCenterAndAverageStrategies(t *testing.T) {
	for _, s := range []Strategy{StrategyCenter, StrategyAverage} {
		m := cubeMesh()
		tree, err := Build(m, Settings{Strategy: s, MaxLeafTris: 2})
		require.NoError(t, err)
		checkCoverage(t, tree, 0)
	}
}

func TestRayHitsFrontFaceTriangles(t *testing.T) {
	m := cubeMesh()
	tree, err := Build(m, Settings{Strategy: StrategySAH, MaxLeafTris: 2})
	require.NoError(t, err)

	var hits []int32
	visited := 0
	tree.QueryRay(
		*math32.NewVector3(0, 0, -10),
		*math32.NewVector3(0, 0, 1),
		20,
		&RayCollector{
			EarlyOutFraction: 1,
			Visit: func(hit RayHit) float32 {
				visited++
				hits = append(hits, hit.TriangleIndex)
				return 0
			},
		},
	)
	assert.Len(t, hits, 2)
	for _, h := range hits {
		assert.LessOrEqual(t, h, int32(1)) // back-face triangles are indices 0,1
	}
}

func TestEmptyMeshBuildsEmptyTree(t *testing.T) {
	m := New()
	tree, err := Build(m, DefaultSettings())
	require.NoError(t, err)
	assert.Empty(t, tree.Nodes)
}
