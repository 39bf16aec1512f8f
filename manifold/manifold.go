// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifold reduces raw narrow-phase hits into up-to-four-point
// contact manifolds, with normal-cosine grouping, optional
// Sutherland-Hodgman face clipping, max-area point selection, and
// warm-start impulse carry-over across frames.
package manifold

import (
	"github.com/ironclad-phys/ironclad/material"
	"github.com/ironclad-phys/ironclad/math32"
)

// Hit is one sub-shape collision result from the narrow-phase dispatch
// table (an external collaborator this package does not implement).
type Hit struct {
	PointA, PointB   math32.Vector3
	PenetrationAxis  math32.Vector3 // unit, points from A to B
	Penetration      float32
	SubShapeA        uint32
	SubShapeB        uint32
	MaterialA        uint16
	MaterialB        uint16
	// FaceB, if non-nil, is the supporting face of B used to clip hits
	// from the same sub-shape pair before reduction.
	FaceB []math32.Vector3
}

// ContactPoint is one point in a reduced manifold, carrying the three
// cached impulses used for warm starting.
type ContactPoint struct {
	PositionA, PositionB math32.Vector3
	NormalImpulse        float32
	Tangent1Impulse      float32
	Tangent2Impulse      float32
}

// Manifold is a reduced (<=4 point) contact between a sorted body pair.
type Manifold struct {
	BodyA, BodyB         uint32 // BodyA < BodyB
	Normal               math32.Vector3 // points from A to B
	Tangent1, Tangent2   math32.Vector3
	Friction             float32
	Restitution          float32
	Points               []ContactPoint
}

const defaultNormalCosMaxDelta = 0.9962 // cos(5 degrees)

// Settings configures manifold reduction.
type Settings struct {
	NormalCosMaxDeltaRotation float32
	UseManifoldReduction      bool
}

// DefaultSettings returns the spec's configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		NormalCosMaxDeltaRotation: defaultNormalCosMaxDelta,
		UseManifoldReduction:      true,
	}
}

// Build reduces hits between bodyIndexA and bodyIndexB into a manifold,
// combining materials via combine-mode priority and generating tangents
// from the manifold normal.
func Build(bodyIndexA, bodyIndexB uint32, hits []Hit, matA, matB material.Material, settings Settings) *Manifold {
	if len(hits) == 0 {
		return nil
	}

	groups := hits
	if settings.UseManifoldReduction {
		groups = largestNormalGroup(hits, settings.NormalCosMaxDeltaRotation)
	}

	clipped := groups
	if groups[0].FaceB != nil {
		clipped = clipGroupAgainstFace(groups)
	}

	m := &Manifold{
		BodyA:       bodyIndexA,
		BodyB:       bodyIndexB,
		Friction:    material.CombineFriction(matA, matB),
		Restitution: material.CombineRestitution(matA, matB),
	}

	m.Normal = averageNormal(clipped)
	m.Tangent1, m.Tangent2 = randomTangents(m.Normal)

	selected := selectMaxArea(clipped, 4)
	m.Points = make([]ContactPoint, len(selected))
	for i, h := range selected {
		m.Points[i] = ContactPoint{PositionA: h.PointA, PositionB: h.PointB}
	}
	return m
}

// largestNormalGroup returns the subset of hits whose penetration axis
// agrees (dot >= cosMaxDelta) with the deepest hit's axis.
func largestNormalGroup(hits []Hit, cosMaxDelta float32) []Hit {
	deepest := hits[0]
	for _, h := range hits {
		if h.Penetration > deepest.Penetration {
			deepest = h
		}
	}
	group := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.PenetrationAxis.Dot(&deepest.PenetrationAxis) >= cosMaxDelta {
			group = append(group, h)
		}
	}
	if len(group) == 0 {
		return hits
	}
	return group
}

func averageNormal(hits []Hit) math32.Vector3 {
	var sum math32.Vector3
	for _, h := range hits {
		sum.Add(&h.PenetrationAxis)
	}
	if sum.Length() < 1e-8 {
		return hits[0].PenetrationAxis
	}
	sum.Normalize()
	return sum
}

// randomTangents constructs two orthogonal tangents for normal n,
// following the teacher's RandomTangents convention: the cross product is
// seeded with the X axis, or with the Y axis when |n.X| > 0.9.
func randomTangents(n math32.Vector3) (t1, t2 math32.Vector3) {
	seed := math32.Vector3{X: 1, Y: 0, Z: 0}
	if absf(n.X) > 0.9 {
		seed = math32.Vector3{X: 0, Y: 1, Z: 0}
	}
	t1.CrossVectors(&n, &seed)
	t1.Normalize()
	t2.CrossVectors(&n, &t1)
	t2.Normalize()
	return t1, t2
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// selectMaxArea picks the deepest hit, then up to max-1 more that each
// maximize the area of the polygon formed with the points already
// selected (the standard deepest-plus-area-extremizing reduction).
func selectMaxArea(hits []Hit, max int) []Hit {
	if len(hits) <= max {
		return hits
	}
	remaining := append([]Hit(nil), hits...)

	deepestIdx := 0
	for i, h := range remaining {
		if h.Penetration > remaining[deepestIdx].Penetration {
			deepestIdx = i
		}
	}
	selected := []Hit{remaining[deepestIdx]}
	remaining = append(remaining[:deepestIdx], remaining[deepestIdx+1:]...)

	for len(selected) < max && len(remaining) > 0 {
		bestIdx := -1
		bestArea := float32(-1)
		for i, cand := range remaining {
			area := polygonAreaWith(selected, cand)
			if area > bestArea {
				bestArea = area
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

// polygonAreaWith returns twice the largest triangle area formed by
// candidate with any two of the already-selected points, used as a cheap
// proxy for "extremizes manifold area" during incremental selection.
func polygonAreaWith(selected []Hit, candidate Hit) float32 {
	if len(selected) == 0 {
		return 0
	}
	if len(selected) == 1 {
		d := candidate.PointB
		d.Sub(&selected[0].PointB)
		return d.Length()
	}
	best := float32(0)
	for i := 0; i < len(selected); i++ {
		for j := i + 1; j < len(selected); j++ {
			e1 := selected[i].PointB
			e1.Sub(&candidate.PointB)
			e2 := selected[j].PointB
			e2.Sub(&candidate.PointB)
			cross := e1
			cross.Cross(&e2)
			area := cross.Length()
			if area > best {
				best = area
			}
		}
	}
	return best
}
