// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package island

import "sort"

// Island is a connected group of dynamic bodies linked by at least one
// contact or constraint, solved independently of other islands.
type Island struct {
	ID          int
	BodyIndices []uint32
	Asleep      bool
}

// Pair is one contact or constraint edge between two dynamic body
// indices. Static and kinematic bodies never appear here: they never
// union two islands, since an arbitrarily large static body would
// otherwise merge the whole simulation into a single island.
type Pair struct {
	BodyA, BodyB uint32
}

// Build partitions dynamicBodies (body-pool indices of every awake-
// eligible dynamic body) into islands using pairs as union edges, and
// reports an island asleep only when every one of its bodies is asleep
// per isAsleep.
func Build(dynamicBodies []uint32, pairs []Pair, isAsleep func(bodyIndex uint32) bool) []Island {
	if len(dynamicBodies) == 0 {
		return nil
	}

	indexOf := make(map[uint32]int32, len(dynamicBodies))
	for i, b := range dynamicBodies {
		indexOf[b] = int32(i)
	}

	d := newDSU(len(dynamicBodies))
	for _, p := range pairs {
		ia, okA := indexOf[p.BodyA]
		ib, okB := indexOf[p.BodyB]
		if !okA || !okB {
			continue
		}
		d.union(ia, ib)
	}

	byRoot := make(map[int32][]uint32)
	for i, b := range dynamicBodies {
		root := d.find(int32(i))
		byRoot[root] = append(byRoot[root], b)
	}

	roots := make([]int32, 0, len(byRoot))
	for r := range byRoot {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	islands := make([]Island, 0, len(roots))
	for id, r := range roots {
		bodies := byRoot[r]
		sort.Slice(bodies, func(i, j int) bool { return bodies[i] < bodies[j] })

		asleep := true
		for _, b := range bodies {
			if isAsleep == nil || !isAsleep(b) {
				asleep = false
				break
			}
		}
		islands = append(islands, Island{ID: id, BodyIndices: bodies, Asleep: asleep})
	}
	return islands
}
