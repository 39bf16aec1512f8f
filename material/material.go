// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package material holds per-body friction/restitution and the combine-mode
// matrix used to merge two bodies' materials into one contact's values.
//
// Combine-mode tie-breaking (MAX > MIN > GEOMETRIC_MEAN > MULTIPLY >
// AVERAGE) is a domain convention, not a mathematical law: callers may
// reasonably expect plain symmetric combination, so the ordering is
// documented here explicitly rather than silently assumed (see spec's open
// questions on material combine).
package material

import "math"

// CombineMode selects how two bodies' friction or restitution values are
// merged into one contact value.
type CombineMode int

const (
	Average CombineMode = iota
	Multiply
	GeometricMean
	Min
	Max
)

// priority, highest wins when the two bodies specify different modes.
var priority = map[CombineMode]int{
	Max:           4,
	Min:           3,
	GeometricMean: 2,
	Multiply:      1,
	Average:       0,
}

// Material carries a body's friction and restitution plus the combine mode
// each should use when paired with another body's material.
type Material struct {
	Name               string
	Friction           float32
	Restitution        float32
	FrictionCombine    CombineMode
	RestitutionCombine CombineMode
}

// Default returns friction 0.3, restitution 0.0, both combined by Average —
// matching the teacher's NewMaterial defaults.
func Default() Material {
	return Material{Friction: 0.3, Restitution: 0.0, FrictionCombine: Average, RestitutionCombine: Average}
}

// Combine merges two values given each side's preferred combine mode. The
// higher-priority mode (MAX > MIN > GEOMETRIC_MEAN > MULTIPLY > AVERAGE)
// decides which function runs; this makes Combine symmetric in (a,modeA)
// vs (b,modeB) by construction, since priority depends only on the pair of
// modes, not on argument order.
func Combine(a float32, modeA CombineMode, b float32, modeB CombineMode) float32 {
	mode := modeA
	if priority[modeB] > priority[modeA] {
		mode = modeB
	}
	switch mode {
	case Max:
		if a > b {
			return a
		}
		return b
	case Min:
		if a < b {
			return a
		}
		return b
	case GeometricMean:
		return float32(math.Sqrt(float64(a) * float64(b)))
	case Multiply:
		return a * b
	default:
		return (a + b) / 2
	}
}

// CombineFriction merges two materials' friction values.
func CombineFriction(a, b Material) float32 {
	return Combine(a.Friction, a.FrictionCombine, b.Friction, b.FrictionCombine)
}

// CombineRestitution merges two materials' restitution values.
func CombineRestitution(a, b Material) float32 {
	return Combine(a.Restitution, a.RestitutionCombine, b.Restitution, b.RestitutionCombine)
}
