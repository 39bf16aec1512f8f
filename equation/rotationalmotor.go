// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equation

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// RotationalMotor drives the relative angular velocity about axisA/axisB
// towards TargetSpeed, used by hinge and six-DOF angular motors. It carries
// no positional term: the equation only ever targets a velocity.
type RotationalMotor struct {
	Equation

	AxisA, AxisB math32.Vector3
	TargetSpeed  float32
}

// NewRotationalMotor builds a motor equation bounded by maxMotorForce.
func NewRotationalMotor(a, bb *body.Body, maxMotorForce float32) *RotationalMotor {
	m := &RotationalMotor{}
	m.Init(a, bb, -maxMotorForce, maxMotorForce)
	return m
}

// UpdateJacobian recomputes JeA/JeB as pure rotational terms along the
// shared motor axis.
func (m *RotationalMotor) UpdateJacobian() {
	negAxis := m.AxisA
	negAxis.MultiplyScalar(-1)

	m.JeA.SetSpatial(math32.Vector3{})
	m.JeA.SetRotational(negAxis)
	m.JeB.SetSpatial(math32.Vector3{})
	m.JeB.SetRotational(m.AxisB)
}

// ComputeMotorB computes b = -(GW - targetSpeed)*b - h*GiMf, driving the
// relative angular velocity towards TargetSpeed with no positional term.
func (m *RotationalMotor) ComputeMotorB(h float32) float32 {
	gw := m.ComputeGW()
	giMf := m.ComputeGiMf()
	m.B = -(gw-m.TargetSpeed)*m.b - h*giMf
	return m.B
}
