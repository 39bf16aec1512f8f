// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package broadphase coordinates a set of per-broadphase-layer DBVH trees,
// routing layer-aware add/remove/update/query operations and producing
// deduplicated candidate collision pairs each step.
package broadphase

import (
	"errors"
	"sort"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/dbvh"
	"github.com/ironclad-phys/ironclad/filter"
	"github.com/ironclad-phys/ironclad/layer"
	"github.com/ironclad-phys/ironclad/math32"
)

// ErrUnmappedLayer is returned by AddBody when the body's object-layer has
// no broadphase-layer mapping in the layer matrix.
var ErrUnmappedLayer = errors.New("broadphase: object layer has no broadphase layer mapping")

const inactiveIndex = ^uint32(0)

// Coordinator owns one DBVH per broadphase layer and routes bodies into
// the correct tree via the layer matrix.
type Coordinator struct {
	Layers *layer.Matrix
	trees  map[layer.ID]*dbvh.Tree

	VelocityPrediction float32
	Lookahead          int
}

// New returns a coordinator with one (empty) tree per broadphase layer
// already registered in layers.
func New(layers *layer.Matrix) *Coordinator {
	c := &Coordinator{
		Layers:             layers,
		trees:              make(map[layer.ID]*dbvh.Tree),
		VelocityPrediction: 1.0,
		Lookahead:          1,
	}
	for i := 0; i < layers.BroadphaseLayerCount(); i++ {
		c.trees[layer.ID(i)] = dbvh.New()
	}
	return c
}

func (c *Coordinator) treeFor(bp layer.ID) *dbvh.Tree {
	t, ok := c.trees[bp]
	if !ok {
		t = dbvh.New()
		c.trees[bp] = t
	}
	return t
}

// AddBody maps b's object layer to a broadphase layer and inserts a leaf
// for it, storing the node index and broadphase layer on the body.
func (c *Coordinator) AddBody(b *body.Body) error {
	bp := c.Layers.BroadphaseLayer(b.ObjectLayer)
	if bp == layer.Invalid {
		return ErrUnmappedLayer
	}
	tree := c.treeFor(bp)
	node := tree.Insert(int32(b.Index()), b.AABB())
	b.DBVHNodeIndex = node
	b.BroadphaseLayer = bp
	return nil
}

// RemoveBody removes b's leaf and clears its broadphase bookkeeping.
func (c *Coordinator) RemoveBody(b *body.Body) {
	if b.DBVHNodeIndex < 0 || b.BroadphaseLayer == layer.Invalid {
		return
	}
	if tree, ok := c.trees[b.BroadphaseLayer]; ok {
		tree.Remove(b.DBVHNodeIndex)
	}
	b.DBVHNodeIndex = dbvh.Null
	b.BroadphaseLayer = layer.Invalid
}

// UpdateBody refits b's leaf if its exact AABB no longer fits the cached
// fat AABB; a no-op (the "still fits" fast path) otherwise.
func (c *Coordinator) UpdateBody(b *body.Body, velocity *math32.Vector3) {
	if b.DBVHNodeIndex < 0 {
		return
	}
	tree, ok := c.trees[b.BroadphaseLayer]
	if !ok {
		return
	}
	node := tree.Update(b.DBVHNodeIndex, b.AABB(), velocity, c.VelocityPrediction, c.Lookahead)
	b.DBVHNodeIndex = node
}

// ReinsertBody removes then re-adds b, used when its object layer (and
// therefore broadphase layer) changes.
func (c *Coordinator) ReinsertBody(b *body.Body) error {
	c.RemoveBody(b)
	return c.AddBody(b)
}

// OptimizeStep runs the amortized per-frame DBVH optimization pass: at
// least one rotation pass per tree, scaled to roughly 1% of each tree's
// leaf count.
func (c *Coordinator) OptimizeStep() {
	for _, t := range c.trees {
		n := t.Count() / 100
		if n < 1 {
			n = 1
		}
		t.Optimize(n)
	}
}

// Pair is a deduplicated candidate collision pair, reported as body-pool
// indices with bodyA sorted by the dedup/motion-type rule below.
type Pair struct {
	BodyA, BodyB uint32
}

// Snapshot is a queryable body the listener may consult; querying code
// supplies these pre-sorted by broadphase layer for cache locality.
type Snapshot struct {
	Body            *body.Body
	SpeculativeAABB math32.Box3
	Filter          filter.BodyLayerInfo
}

// PairListener is consulted with each body's speculative-expanded query
// snapshot before a candidate pair is queried against the tree; nil skips
// the callout entirely.
type PairListener interface {
	OnQuerySnapshot(s Snapshot)
}

// FindCollidingPairs builds the dedup index for every candidate body (its
// position in a broadphase-layer-sorted order; static and sleeping bodies
// get the inactive index and never query, only get found), queries every
// broadphase layer each active body's object layer may collide with using
// the body's AABB expanded by speculativeDistance on every side, and
// returns pairs deduplicated via dedupIndex(A) < dedupIndex(B), excluding
// static-static pairs and kinematic-vs-non-dynamic pairs unless opted in.
// listener, if non-nil, is notified of each query snapshot before its
// tree query runs.
func (c *Coordinator) FindCollidingPairs(bodies []*body.Body, speculativeDistance float32, listener PairListener) []Pair {
	sorted := append([]*body.Body(nil), bodies...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BroadphaseLayer < sorted[j].BroadphaseLayer
	})

	dedupIndex := make(map[uint32]uint32, len(sorted))
	next := uint32(0)
	for _, b := range sorted {
		if b.Motion == body.Static || b.Sleeping() {
			dedupIndex[b.Index()] = inactiveIndex
			continue
		}
		dedupIndex[b.Index()] = next
		next++
	}

	seen := make(map[[2]uint32]bool)
	var pairs []Pair

	for _, qb := range sorted {
		if dedupIndex[qb.Index()] == inactiveIndex {
			continue
		}
		speculative := qb.AABB()
		speculative.ExpandByScalar(speculativeDistance)
		if listener != nil {
			listener.OnQuerySnapshot(Snapshot{Body: qb, SpeculativeAABB: speculative})
		}
		for bp := 0; bp < c.Layers.BroadphaseLayerCount(); bp++ {
			if !c.Layers.ObjectVsBroadphaseCollides(qb.ObjectLayer, layer.ID(bp)) {
				continue
			}
			tree, ok := c.trees[layer.ID(bp)]
			if !ok {
				continue
			}
			tree.QueryAABB(speculative, func(candidateIndex int32) bool {
				c.considerCandidate(qb, uint32(candidateIndex), bodies, dedupIndex, seen, &pairs)
				return false
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		ma, mb := bodies[pairs[i].BodyA].Motion, bodies[pairs[j].BodyA].Motion
		if ma != mb {
			return ma > mb
		}
		return pairs[i].BodyA < pairs[j].BodyA
	})
	return pairs
}

func (c *Coordinator) considerCandidate(qb *body.Body, candidateIndex uint32, bodies []*body.Body, dedupIndex map[uint32]uint32, seen map[[2]uint32]bool, pairs *[]Pair) {
	if candidateIndex >= uint32(len(bodies)) {
		return
	}
	ob := bodies[candidateIndex]
	if ob == nil || ob.Index() == qb.Index() {
		return
	}
	if dedupIndex[qb.Index()] >= dedupIndex[ob.Index()] {
		return
	}
	if !pairAllowed(qb, ob) {
		return
	}
	if !c.Layers.ObjectLayerCollides(qb.ObjectLayer, ob.ObjectLayer) {
		return
	}
	key := [2]uint32{qb.Index(), ob.Index()}
	if seen[key] {
		return
	}
	seen[key] = true
	*pairs = append(*pairs, Pair{BodyA: qb.Index(), BodyB: ob.Index()})
}

// pairAllowed rejects static-static pairs and, unless opted in or a
// sensor, kinematic-vs-non-dynamic pairs.
func pairAllowed(a, b *body.Body) bool {
	if a.Motion == body.Static && b.Motion == body.Static {
		return false
	}
	kinematicVsNonDynamic := (a.Motion == body.Kinematic && b.Motion != body.Dynamic) ||
		(b.Motion == body.Kinematic && a.Motion != body.Dynamic)
	if kinematicVsNonDynamic && !(a.CollideKinematicVsNonDynamic || b.CollideKinematicVsNonDynamic || a.IsSensor || b.IsSensor) {
		return false
	}
	return true
}
