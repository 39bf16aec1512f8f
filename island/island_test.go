// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package island

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMergesConnectedBodies(t *testing.T) {
	bodies := []uint32{0, 1, 2, 3}
	pairs := []Pair{{0, 1}, {2, 3}}
	islands := Build(bodies, pairs, func(uint32) bool { return false })
	assert.Len(t, islands, 2)
	assert.ElementsMatch(t, []uint32{0, 1}, islands[0].BodyIndices)
	assert.ElementsMatch(t, []uint32{2, 3}, islands[1].BodyIndices)
}

func TestBuildIsolatedBodyIsOwnIsland(t *testing.T) {
	bodies := []uint32{0, 1, 2}
	pairs := []Pair{{0, 1}}
	islands := Build(bodies, pairs, func(uint32) bool { return false })
	assert.Len(t, islands, 2)
}

func TestBuildIslandAsleepOnlyWhenAllBodiesAsleep(t *testing.T) {
	bodies := []uint32{0, 1}
	pairs := []Pair{{0, 1}}
	sleeping := map[uint32]bool{0: true, 1: false}
	islands := Build(bodies, pairs, func(b uint32) bool { return sleeping[b] })
	assert.False(t, islands[0].Asleep)

	sleeping[1] = true
	islands = Build(bodies, pairs, func(b uint32) bool { return sleeping[b] })
	assert.True(t, islands[0].Asleep)
}
