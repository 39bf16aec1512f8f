// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironclad-phys/ironclad/material"
	"github.com/ironclad-phys/ironclad/math32"
)

func squareHits() []Hit {
	axis := math32.Vector3{X: 0, Y: 1, Z: 0}
	return []Hit{
		{PointA: math32.Vector3{X: 0, Y: 0, Z: 0}, PointB: math32.Vector3{X: 0, Y: 0, Z: 0}, PenetrationAxis: axis, Penetration: 0.1},
		{PointA: math32.Vector3{X: 1, Y: 0, Z: 0}, PointB: math32.Vector3{X: 1, Y: 0, Z: 0}, PenetrationAxis: axis, Penetration: 0.08},
		{PointA: math32.Vector3{X: 1, Y: 0, Z: 1}, PointB: math32.Vector3{X: 1, Y: 0, Z: 1}, PenetrationAxis: axis, Penetration: 0.09},
		{PointA: math32.Vector3{X: 0, Y: 0, Z: 1}, PointB: math32.Vector3{X: 0, Y: 0, Z: 1}, PenetrationAxis: axis, Penetration: 0.07},
		{PointA: math32.Vector3{X: 0.5, Y: 0, Z: 0.5}, PointB: math32.Vector3{X: 0.5, Y: 0, Z: 0.5}, PenetrationAxis: axis, Penetration: 0.05},
	}
}

func TestBuildReducesToFourCorners(t *testing.T) {
	m := Build(0, 1, squareHits(), material.Default(), material.Default(), DefaultSettings())
	require.NotNil(t, m)
	assert.LessOrEqual(t, len(m.Points), 4)
	assert.InDelta(t, 1, m.Normal.Length(), 1e-4)
}

func TestBuildKeepsFewerThanFourIntact(t *testing.T) {
	hits := squareHits()[:2]
	m := Build(0, 1, hits, material.Default(), material.Default(), DefaultSettings())
	require.NotNil(t, m)
	assert.Len(t, m.Points, 2)
}

func TestWarmStartCopiesNearbyImpulse(t *testing.T) {
	prev := &Manifold{BodyA: 0, BodyB: 1, Points: []ContactPoint{
		{PositionB: math32.Vector3{X: 0, Y: 0, Z: 0}, NormalImpulse: 2.0},
	}}
	cache := NewCache()
	cache.Put(prev)

	next := &Manifold{BodyA: 0, BodyB: 1, Points: []ContactPoint{
		{PositionB: math32.Vector3{X: 0.001, Y: 0, Z: 0}},
	}}
	cache.WarmStart(next, 1e-4, 1.0)
	assert.Equal(t, float32(2.0), next.Points[0].NormalImpulse)
}

func TestWarmStartSkipsDistantPoint(t *testing.T) {
	prev := &Manifold{BodyA: 0, BodyB: 1, Points: []ContactPoint{
		{PositionB: math32.Vector3{X: 0, Y: 0, Z: 0}, NormalImpulse: 2.0},
	}}
	cache := NewCache()
	cache.Put(prev)

	next := &Manifold{BodyA: 0, BodyB: 1, Points: []ContactPoint{
		{PositionB: math32.Vector3{X: 5, Y: 0, Z: 0}},
	}}
	cache.WarmStart(next, 1e-4, 1.0)
	assert.Equal(t, float32(0), next.Points[0].NormalImpulse)
}
