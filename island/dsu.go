// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package island partitions dynamic bodies into disjoint simulation
// islands via a body-pair union-find, so the solver can run each island
// independently and skip islands whose bodies are all asleep.
package island

// dsu is a disjoint-set (union-find) over integer body indices, with
// path compression and union by rank, grounded on the same two-phase
// find/union shape used throughout this tree's graph algorithms.
type dsu struct {
	parent []int32
	rank   []int32
}

func newDSU(n int) *dsu {
	d := &dsu{parent: make([]int32, n), rank: make([]int32, n)}
	for i := range d.parent {
		d.parent[i] = int32(i)
	}
	return d
}

func (d *dsu) find(u int32) int32 {
	for d.parent[u] != u {
		d.parent[u] = d.parent[d.parent[u]]
		u = d.parent[u]
	}
	return u
}

func (d *dsu) union(u, v int32) {
	rootU, rootV := d.find(u), d.find(v)
	if rootU == rootV {
		return
	}
	if d.rank[rootU] < d.rank[rootV] {
		d.parent[rootU] = rootV
	} else {
		d.parent[rootV] = rootU
		if d.rank[rootU] == d.rank[rootV] {
			d.rank[rootU]++
		}
	}
}
