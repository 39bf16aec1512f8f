// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

// pairKey identifies a body pair for warm-start lookup; callers are
// expected to sort bodyA < bodyB before constructing one.
type pairKey struct {
	BodyA, BodyB uint32
}

// Cache stores last-frame manifolds keyed by body pair for warm-start
// impulse carry-over.
type Cache struct {
	byPair map[pairKey]*Manifold
}

// NewCache returns an empty warm-start cache.
func NewCache() *Cache {
	return &Cache{byPair: make(map[pairKey]*Manifold)}
}

// Put stores m for the next frame's lookup, replacing any prior manifold
// for the same body pair.
func (c *Cache) Put(m *Manifold) {
	c.byPair[pairKey{m.BodyA, m.BodyB}] = m
}

// Clear empties the cache (called when a pair stops colliding).
func (c *Cache) Clear(bodyA, bodyB uint32) {
	delete(c.byPair, pairKey{bodyA, bodyB})
}

// WarmStart copies cached impulses from the previous frame's manifold for
// the same body pair into m's points, for any new point within
// sqrt(preserveLambdaMaxDistSq) of a previous one, scaled by ratio.
func (c *Cache) WarmStart(m *Manifold, preserveLambdaMaxDistSq, ratio float32) {
	prev, ok := c.byPair[pairKey{m.BodyA, m.BodyB}]
	if !ok {
		return
	}
	for i := range m.Points {
		np := &m.Points[i]
		var best *ContactPoint
		bestDistSq := preserveLambdaMaxDistSq
		for j := range prev.Points {
			pp := &prev.Points[j]
			d := np.PositionB
			d.Sub(&pp.PositionB)
			distSq := d.Dot(&d)
			if distSq <= bestDistSq {
				bestDistSq = distSq
				best = pp
			}
		}
		if best != nil {
			np.NormalImpulse = best.NormalImpulse * ratio
			np.Tangent1Impulse = best.Tangent1Impulse * ratio
			np.Tangent2Impulse = best.Tangent2Impulse * ratio
		}
	}
}
