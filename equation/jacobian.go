// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package equation implements the SPOOK-parameterized Jacobian equation
// base and the concrete equation variants (contact, friction, rotational,
// cone, rotational motor) that constraint parts and higher-level
// constraints compose.
package equation

import "github.com/ironclad-phys/ironclad/math32"

// JacobianElement holds one body's half of an equation's Jacobian row: a
// linear (spatial) part and an angular (rotational) part.
type JacobianElement struct {
	Spatial    math32.Vector3
	Rotational math32.Vector3
}

// SetSpatial sets the linear part.
func (j *JacobianElement) SetSpatial(v math32.Vector3) { j.Spatial = v }

// SetRotational sets the angular part.
func (j *JacobianElement) SetRotational(v math32.Vector3) { j.Rotational = v }

// MultiplyElement computes the dot product of this Jacobian element with
// another (spatial.spatial + rotational.rotational) — used for `GiMGt`
// cross terms.
func (j *JacobianElement) MultiplyElement(other *JacobianElement) float32 {
	return j.Spatial.Dot(&other.Spatial) + j.Rotational.Dot(&other.Rotational)
}

// MultiplyVectors computes spatial.v + rotational.w — used for `Gq`/`GW`.
func (j *JacobianElement) MultiplyVectors(v, w *math32.Vector3) float32 {
	return j.Spatial.Dot(v) + j.Rotational.Dot(w)
}
