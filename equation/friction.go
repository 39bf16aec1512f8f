// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equation

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// Friction is a tangential (Coulomb) friction equation. Its max force is
// set once per step, after the contacts' normal pass, to
// frictionCoefficient * normal impulse by the world's contact solve, so
// ComputeB carries no positional term.
type Friction struct {
	Equation

	RA, RB math32.Vector3
	T      math32.Vector3
}

// NewFriction builds a friction equation along tangent t between a and b.
func NewFriction(a, bb *body.Body, slipForce float32) *Friction {
	f := &Friction{}
	f.Init(a, bb, -slipForce, slipForce)
	return f
}

// UpdateJacobian recomputes JeA/JeB from the current RA, RB, T.
func (f *Friction) UpdateJacobian() {
	negT := f.T
	negT.MultiplyScalar(-1)

	rAxT := f.RA
	rAxT.Cross(&f.T)
	rAxT.MultiplyScalar(-1)

	rBxT := f.RB
	rBxT.Cross(&f.T)

	f.JeA.SetSpatial(negT)
	f.JeA.SetRotational(rAxT)
	f.JeB.SetSpatial(f.T)
	f.JeB.SetRotational(rBxT)
}

// ComputeFrictionB computes b with zero positional error, pure velocity
// cancellation along the tangent.
func (f *Friction) ComputeFrictionB(h float32) float32 {
	gw := f.ComputeGW()
	giMf := f.ComputeGiMf()
	f.B = f.ComputeB(h, 0, gw, giMf)
	return f.B
}

// SetSlipForce rescales min/max force to the current normal impulse times
// the combined friction coefficient, called once per step after the
// contacts' normal impulses have been solved.
func (f *Friction) SetSlipForce(slipForce float32) {
	f.MinForce = -slipForce
	f.MaxForce = slipForce
}
