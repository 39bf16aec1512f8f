// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equation

import (
	"math"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// Cone constrains the angle between axisA and axisB to equal (rather than
// merely not exceed) a target angle; it is used to pin a cone/swing-twist
// swing axis to its rest direction once a lookahead margin is exceeded,
// and is bilateral (force range is not clamped to one sign).
type Cone struct {
	Equation

	AxisA, AxisB math32.Vector3
	Angle        float32
}

// NewCone builds a bilateral cone-axis equation between a and b.
func NewCone(a, bb *body.Body, maxForce float32) *Cone {
	c := &Cone{}
	c.Init(a, bb, -maxForce, maxForce)
	return c
}

// UpdateJacobian recomputes JeA/JeB, identical in shape to Rotational's.
func (c *Cone) UpdateJacobian() {
	cross := c.AxisB
	cross.Cross(&c.AxisA)

	negCross := cross
	negCross.MultiplyScalar(-1)

	c.JeA.SetSpatial(math32.Vector3{})
	c.JeA.SetRotational(negCross)
	c.JeB.SetSpatial(math32.Vector3{})
	c.JeB.SetRotational(cross)
}

// Violation returns g = cos(angle) - axisA.axisB.
func (c *Cone) Violation() float32 {
	return float32(math.Cos(float64(c.Angle))) - c.AxisA.Dot(&c.AxisB)
}

// ComputeConeB computes b using the violation as positional error.
func (c *Cone) ComputeConeB(h float32) float32 {
	gq := c.Violation()
	gw := c.ComputeGW()
	giMf := c.ComputeGiMf()
	c.B = c.ComputeB(h, gq, gw, giMf)
	return c.B
}
