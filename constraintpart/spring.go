// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package constraintpart implements the axis (1-DOF), dual-axis (2-DOF),
// and rotation-euler (3-DOF) building blocks that higher-level constraints
// (hinge, slider, distance, point, fixed, swing-twist, cone, six-DOF)
// compose. Each part tracks its own effective mass, accumulated impulse,
// and optional soft-constraint (spring) parameters, generalizing the
// SPOOK-equation math in package equation into a reusable part vocabulary.
package constraintpart

import "math"

// SpringSettings configures a part as a soft constraint instead of a rigid
// one. Either Frequency/Damping or Stiffness/Damping may be set; exactly
// one of FrequencyHz or Stiffness should be non-zero.
type SpringSettings struct {
	FrequencyHz float32
	Stiffness   float32
	Damping     float32
}

// IsActive reports whether the settings describe an enabled spring.
func (s SpringSettings) IsActive() bool {
	return s.FrequencyHz > 0 || s.Stiffness > 0
}

// computeGammaBeta derives the soft-constraint gamma/beta terms from
// spring settings, the part's effective mass, and the solver timestep,
// following the standard soft-constraint derivation (Catto, "Soft
// Constraints"; Erin Catto's GDC slides, as used throughout the
// box2d-lineage solvers in this tree). effectiveMass is the rigid part's
// 1/C (not its inverse).
func computeGammaBeta(s SpringSettings, effectiveMass, h float32) (gamma, beta float32) {
	if !s.IsActive() || effectiveMass <= 0 {
		return 0, 1
	}
	var k float32
	if s.Stiffness > 0 {
		k = s.Stiffness
	} else {
		omega := 2 * math.Pi * float64(s.FrequencyHz)
		k = float32(omega*omega) * effectiveMass
	}
	c := 2 * effectiveMass * s.Damping * float32(math.Sqrt(float64(k/effectiveMass)))

	denom := h * (c + h*k)
	if denom < 1e-12 {
		return 0, 1
	}
	gamma = 1.0 / denom
	beta = h * k / (c + h*k)
	return gamma, beta
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
