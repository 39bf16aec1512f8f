// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshbvh

import (
	"sort"

	"github.com/ironclad-phys/ironclad/math32"
)

// Strategy selects the split heuristic used at every internal node.
type Strategy int

const (
	// StrategyCenter splits along the longest center-extent axis at the
	// midpoint of centers.
	StrategyCenter Strategy = iota
	// StrategyAverage splits along the longest node-AABB extent axis at the
	// mean of centers on that axis.
	StrategyAverage
	// StrategySAH picks the axis/position minimizing the binned surface-area
	// heuristic cost.
	StrategySAH
)

// Settings controls the build.
type Settings struct {
	Strategy   Strategy
	MaxLeafTris int
}

// DefaultSettings returns {StrategySAH, MaxLeafTris: 4}.
func DefaultSettings() Settings {
	return Settings{Strategy: StrategySAH, MaxLeafTris: 4}
}

const (
	binCount             = 32
	traversalCost        = 1.0
	triangleIntersectCost = 1.25
	sahSmallModeMax      = binCount / 4
)

// FlatNode is one entry of the tree's flat pre-order node array.
type FlatNode struct {
	Min, Max        math32.Vector3
	RightOrTriStart int32
	AxisOrNegCount  int32 // < 0 marks a leaf
}

// IsLeaf reports whether this node is a leaf.
func (n FlatNode) IsLeaf() bool { return n.AxisOrNegCount < 0 }

// LeafTriangleRange returns [first, first+count) for a leaf node.
func (n FlatNode) LeafTriangleRange() (first, count int32) {
	return n.RightOrTriStart, -n.AxisOrNegCount - 1
}

// Tree is the built, queryable flat BVH over a Mesh's (reordered) triangle
// buffer.
type Tree struct {
	Mesh  *Mesh
	Nodes []FlatNode
}

type buildDatum struct {
	center     math32.Vector3
	halfExtent math32.Vector3
}

type builder struct {
	mesh   *Mesh
	data   []buildDatum
	nodes  []FlatNode
	settings Settings
}

// Build constructs a BVH over mesh's triangles, reordering the triangle
// buffer in place. Returns an error only if the mesh is empty or degenerate
// (spec's ConfigurationError: inverted/degenerate mesh caught at build).
func Build(mesh *Mesh, settings Settings) (*Tree, error) {
	if settings.MaxLeafTris < 1 {
		settings.MaxLeafTris = 1
	}
	b := &builder{mesh: mesh, settings: settings}
	b.data = make([]buildDatum, len(mesh.Triangles))
	for i, tri := range mesh.Triangles {
		box := mesh.Bounds(tri)
		b.data[i] = buildDatum{center: *box.Center(nil), halfExtent: *box.Size(nil)}
		b.data[i].halfExtent.MultiplyScalar(0.5)
	}

	if len(mesh.Triangles) == 0 {
		return &Tree{Mesh: mesh, Nodes: nil}, nil
	}

	b.buildRange(0, len(mesh.Triangles))
	return &Tree{Mesh: mesh, Nodes: b.nodes}, nil
}

func (b *builder) swap(i, j int) {
	b.mesh.swapTriangles(i, j)
	b.data[i], b.data[j] = b.data[j], b.data[i]
}

// buildRange recursively builds the subtree over triangles [first, first+count)
// and appends it (pre-order) to b.nodes, returning the index of the node it
// emitted.
func (b *builder) buildRange(first, count int) int {
	nodeAABB, centerAABB := b.rangeBounds(first, count)

	if count <= b.settings.MaxLeafTris {
		return b.emitLeaf(nodeAABB, first, count)
	}

	axis, pos, ok := b.chooseSplit(first, count, nodeAABB, centerAABB)
	if !ok {
		return b.emitLeaf(nodeAABB, first, count)
	}

	mid := b.partition(first, count, axis, pos)
	if mid == first || mid == first+count {
		return b.emitLeaf(nodeAABB, first, count)
	}

	selfIndex := len(b.nodes)
	b.nodes = append(b.nodes, FlatNode{}) // placeholder, patched below

	b.buildRange(first, mid-first) // left child emitted immediately after self
	rightIndex := len(b.nodes)
	b.buildRange(mid, first+count-mid)

	b.nodes[selfIndex] = FlatNode{
		Min:             nodeAABB.Min,
		Max:             nodeAABB.Max,
		RightOrTriStart: int32(rightIndex),
		AxisOrNegCount:  int32(axis),
	}
	return selfIndex
}

func (b *builder) emitLeaf(box math32.Box3, first, count int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, FlatNode{
		Min:             box.Min,
		Max:             box.Max,
		RightOrTriStart: int32(first),
		AxisOrNegCount:  int32(-(count + 1)),
	})
	return idx
}

func (b *builder) rangeBounds(first, count int) (nodeAABB, centerAABB math32.Box3) {
	nodeAABB.MakeEmpty()
	centerAABB.MakeEmpty()
	for i := first; i < first+count; i++ {
		tb := b.mesh.Bounds(b.mesh.Triangles[i])
		nodeAABB.Union(&tb)
		centerAABB.ExpandByPoint(&b.data[i].center)
	}
	return
}

func longestAxis(size math32.Vector3) int {
	axis := 0
	if size.Y > axisComponent(size, axis) {
		axis = 1
	}
	if size.Z > axisComponent(size, axis) {
		axis = 2
	}
	return axis
}

func axisComponent(v math32.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// chooseSplit returns (axis, position, ok). ok is false when every axis has
// a degenerate center extent (NumericalDegeneracy: falls through to leaf).
func (b *builder) chooseSplit(first, count int, nodeAABB, centerAABB math32.Box3) (int, float32, bool) {
	switch b.settings.Strategy {
	case StrategyCenter:
		size := *centerAABB.Size(nil)
		axis := longestAxis(size)
		if axisComponent(size, axis) <= 0 {
			return 0, 0, false
		}
		center := *centerAABB.Center(nil)
		return axis, axisComponent(center, axis), true
	case StrategyAverage:
		size := *nodeAABB.Size(nil)
		axis := longestAxis(size)
		if axisComponent(size, axis) <= 0 {
			return 0, 0, false
		}
		var mean float32
		for i := first; i < first+count; i++ {
			mean += axisComponent(b.data[i].center, axis)
		}
		mean /= float32(count)
		return axis, mean, true
	default:
		return b.chooseSplitSAH(first, count, nodeAABB, centerAABB)
	}
}

func (b *builder) chooseSplitSAH(first, count int, nodeAABB, centerAABB math32.Box3) (int, float32, bool) {
	rootArea := surfaceArea(nodeAABB)
	if rootArea <= 0 {
		return 0, 0, false
	}

	bestAxis := -1
	bestPos := float32(0)
	bestCost := float32(1e30)

	size := *centerAABB.Size(nil)
	for axis := 0; axis < 3; axis++ {
		if axisComponent(size, axis) <= 1e-12 {
			continue
		}
		var axisBestPos float32
		var axisBestCost float32
		var found bool
		if count < sahSmallModeMax {
			axisBestPos, axisBestCost, found = b.sahSweepExact(first, count, axis, rootArea)
		} else {
			axisBestPos, axisBestCost, found = b.sahSweepBinned(first, count, axis, centerAABB, rootArea)
		}
		if found && axisBestCost < bestCost {
			bestCost = axisBestCost
			bestAxis = axis
			bestPos = axisBestPos
		}
	}
	if bestAxis < 0 {
		return 0, 0, false
	}
	return bestAxis, bestPos, true
}

// sahSweepExact handles "small mode": every distinct center value on the
// axis is a candidate split position.
func (b *builder) sahSweepExact(first, count, axis int, rootArea float32) (float32, float32, bool) {
	positions := make([]float32, 0, count)
	seen := make(map[float32]bool, count)
	for i := first; i < first+count; i++ {
		v := axisComponent(b.data[i].center, axis)
		if !seen[v] {
			seen[v] = true
			positions = append(positions, v)
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	if len(positions) < 2 {
		return 0, 0, false
	}

	bestCost := float32(1e30)
	bestPos := float32(0)
	found := false
	for _, pos := range positions {
		var leftBox, rightBox math32.Box3
		leftBox.MakeEmpty()
		rightBox.MakeEmpty()
		var nLeft, nRight int
		for i := first; i < first+count; i++ {
			tb := b.mesh.Bounds(b.mesh.Triangles[i])
			if axisComponent(b.data[i].center, axis) < pos {
				leftBox.Union(&tb)
				nLeft++
			} else {
				rightBox.Union(&tb)
				nRight++
			}
		}
		if nLeft == 0 || nRight == 0 {
			continue
		}
		cost := sahCost(leftBox, nLeft, rightBox, nRight, rootArea)
		if cost < bestCost {
			bestCost = cost
			bestPos = pos
			found = true
		}
	}
	return bestPos, bestCost, found
}

type sahBin struct {
	box   math32.Box3
	count int
}

// sahSweepBinned handles "large mode": bin triangle centers into binCount
// uniform bins along the axis, cache right-to-left cumulative bounds, then
// sweep left-to-right evaluating the cost at each bin boundary.
func (b *builder) sahSweepBinned(first, count, axis int, centerAABB math32.Box3, rootArea float32) (float32, float32, bool) {
	lo := axisComponent(centerAABB.Min, axis)
	hi := axisComponent(centerAABB.Max, axis)
	extent := hi - lo
	if extent <= 1e-12 {
		return 0, 0, false
	}
	scale := float32(binCount) / extent

	bins := make([]sahBin, binCount)
	for i := range bins {
		bins[i].box.MakeEmpty()
	}
	binIndex := func(i int) int {
		v := axisComponent(b.data[i].center, axis)
		idx := int((v - lo) * scale)
		if idx < 0 {
			idx = 0
		}
		if idx >= binCount {
			idx = binCount - 1
		}
		return idx
	}
	for i := first; i < first+count; i++ {
		idx := binIndex(i)
		tb := b.mesh.Bounds(b.mesh.Triangles[i])
		bins[idx].box.Union(&tb)
		bins[idx].count++
	}

	// Right-to-left cumulative bounds/counts.
	rightBox := make([]math32.Box3, binCount+1)
	rightCount := make([]int, binCount+1)
	rightBox[binCount].MakeEmpty()
	for i := binCount - 1; i >= 0; i-- {
		rightBox[i] = rightBox[i+1]
		rightBox[i].Union(&bins[i].box)
		rightCount[i] = rightCount[i+1] + bins[i].count
	}

	var leftBox math32.Box3
	leftBox.MakeEmpty()
	leftCount := 0
	bestCost := float32(1e30)
	bestPos := float32(0)
	found := false
	for i := 0; i < binCount-1; i++ {
		leftBox.Union(&bins[i].box)
		leftCount += bins[i].count
		rCount := rightCount[i+1]
		if leftCount == 0 || rCount == 0 {
			continue
		}
		cost := sahCost(leftBox, leftCount, rightBox[i+1], rCount, rootArea)
		if cost < bestCost {
			bestCost = cost
			bestPos = lo + float32(i+1)/scale
			found = true
		}
	}
	return bestPos, bestCost, found
}

func sahCost(leftBox math32.Box3, nLeft int, rightBox math32.Box3, nRight int, rootArea float32) float32 {
	pLeft := surfaceArea(leftBox) / rootArea
	pRight := surfaceArea(rightBox) / rootArea
	return traversalCost + triangleIntersectCost*(pLeft*float32(nLeft)+pRight*float32(nRight))
}

func surfaceArea(b math32.Box3) float32 {
	size := b.Size(nil)
	return 2 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// partition reorders triangles in [first, first+count) using Hoare's
// scheme so that triangles with center[axis] < pos come first, returning
// the boundary index.
func (b *builder) partition(first, count int, axis int, pos float32) int {
	i, j := first, first+count-1
	for {
		for i <= j && axisComponent(b.data[i].center, axis) < pos {
			i++
		}
		for j >= i && axisComponent(b.data[j].center, axis) >= pos {
			j--
		}
		if i >= j {
			break
		}
		b.swap(i, j)
		i++
		j--
	}
	return i
}
