// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equation

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// Contact is the non-penetration equation along a single contact normal.
// Its Jacobian is [-n, -(rA x n), n, (rB x n)].
type Contact struct {
	Equation

	RestitutionA, RestitutionB float32

	// RestitutionBias is the pre-solve bounce-velocity target, added to
	// the equation's right-hand side; callers set it from Restitution()
	// evaluated against the pre-solve relative normal velocity.
	RestitutionBias float32

	// rA, rB are the contact point offsets from each body's center of mass,
	// in world space. N is the contact normal, pointing from A to B.
	RA, RB math32.Vector3
	N      math32.Vector3
}

// NewContact builds a contact equation between a and b with non-negative
// normal force (pure push, never pull).
func NewContact(a, bb *body.Body, maxForce float32) *Contact {
	c := &Contact{}
	c.Init(a, bb, 0, maxForce)
	return c
}

// UpdateJacobian recomputes JeA/JeB from the current RA, RB, N.
func (c *Contact) UpdateJacobian() {
	negN := c.N
	negN.MultiplyScalar(-1)

	rAxN := c.RA
	rAxN.Cross(&c.N)
	rAxN.MultiplyScalar(-1)

	rBxN := c.RB
	rBxN.Cross(&c.N)

	c.JeA.SetSpatial(negN)
	c.JeA.SetRotational(rAxN)
	c.JeB.SetSpatial(c.N)
	c.JeB.SetRotational(rBxN)
}

// ComputeContactB computes b using the penetration depth as the positional
// error, matching the teacher's ContactEquation.computeB.
func (c *Contact) ComputeContactB(penetration, h float32) float32 {
	gq := -penetration
	gw := c.ComputeGW()
	giMf := c.ComputeGiMf()
	c.B = c.ComputeB(h, gq, gw, giMf) + c.RestitutionBias
	return c.B
}

// Restitution returns the combined bounce velocity target for this
// contact; the world stores it in RestitutionBias, which ComputeContactB
// adds to the right-hand side.
func (c *Contact) Restitution(relativeNormalVelocity float32) float32 {
	e := (c.RestitutionA + c.RestitutionB) / 2
	if relativeNormalVelocity >= 0 {
		return 0
	}
	return -e * relativeNormalVelocity
}
