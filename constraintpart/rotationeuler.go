// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraintpart

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// RotationEuler is a 3-DOF constraint part that locks the relative
// orientation between two bodies to a fixed reference, solving each world
// axis independently (small-angle approximation of a full 3x3 coupled
// solve, adequate once warm-started since each step's residual angle is
// small). The positional error for each axis is read from a caller-
// supplied small-angle error vector, derived from the quaternion
// difference between the current and reference relative rotation.
type RotationEuler struct {
	effectiveMass [3]float32
	TotalLambda   [3]float32

	active [3]bool
}

// CalculateConstraintProperties computes a per-axis effective mass using
// only the rotational inertia terms (no linear coupling — pure relative
// orientation lock).
func (p *RotationEuler) CalculateConstraintProperties(a, b *body.Body) {
	invIA := a.InvRotInertiaWorldEff()
	invIB := b.InvRotInertiaWorldEff()

	axes := [3]math32.Vector3{
		*math32.NewVector3(1, 0, 0),
		*math32.NewVector3(0, 1, 0),
		*math32.NewVector3(0, 0, 1),
	}
	for i, axis := range axes {
		ia := axis
		ia.ApplyMatrix3(invIA)
		ib := axis
		ib.ApplyMatrix3(invIB)
		denom := ia.Dot(&axis) + ib.Dot(&axis)
		if denom < 1e-12 {
			p.active[i] = false
			p.effectiveMass[i] = 0
			continue
		}
		p.effectiveMass[i] = 1.0 / denom
		p.active[i] = true
	}
}

// IsActive reports whether any axis produced a usable effective mass.
func (p *RotationEuler) IsActive() bool {
	return p.active[0] || p.active[1] || p.active[2]
}

// Deactivate clears accumulated impulses for all three axes.
func (p *RotationEuler) Deactivate() {
	p.active = [3]bool{}
	p.TotalLambda = [3]float32{}
}

// GetTotalLambda returns the accumulated angular impulse per axis.
func (p *RotationEuler) GetTotalLambda() [3]float32 { return p.TotalLambda }

// WarmStart reapplies ratio*TotalLambda[i] as an angular impulse for each
// active axis.
func (p *RotationEuler) WarmStart(a, b *body.Body, ratio float32) {
	axes := [3]math32.Vector3{
		*math32.NewVector3(1, 0, 0),
		*math32.NewVector3(0, 1, 0),
		*math32.NewVector3(0, 0, 1),
	}
	for i, axis := range axes {
		if !p.active[i] || p.TotalLambda[i] == 0 {
			continue
		}
		lambda := p.TotalLambda[i] * ratio
		a.SetAngularVelocity(addScaled(a.AngularVelocity(), rotate(axis, a.InvRotInertiaWorldEff()), -lambda))
		b.SetAngularVelocity(addScaled(b.AngularVelocity(), rotate(axis, b.InvRotInertiaWorldEff()), lambda))
	}
}

// SolveVelocityConstraint drives the relative angular velocity along each
// world axis to zero, clamped to [minLambda, maxLambda] per axis.
func (p *RotationEuler) SolveVelocityConstraint(a, b *body.Body, minLambda, maxLambda float32) [3]float32 {
	var applied [3]float32
	axes := [3]math32.Vector3{
		*math32.NewVector3(1, 0, 0),
		*math32.NewVector3(0, 1, 0),
		*math32.NewVector3(0, 0, 1),
	}
	wa, wb := a.AngularVelocity(), b.AngularVelocity()
	for i, axis := range axes {
		if !p.active[i] {
			continue
		}
		relW := wb.Dot(&axis) - wa.Dot(&axis)
		lambda := -p.effectiveMass[i] * relW

		old := p.TotalLambda[i]
		p.TotalLambda[i] = clampf(old+lambda, minLambda, maxLambda)
		delta := p.TotalLambda[i] - old
		applied[i] = delta
		if delta == 0 {
			continue
		}
		a.SetAngularVelocity(addScaled(a.AngularVelocity(), rotate(axis, a.InvRotInertiaWorldEff()), -delta))
		b.SetAngularVelocity(addScaled(b.AngularVelocity(), rotate(axis, b.InvRotInertiaWorldEff()), delta))
	}
	return applied
}

// SolvePositionConstraint applies a Baumgarte correction per axis from a
// caller-supplied small-angle error vector (e.g. the vector part of the
// relative-orientation error quaternion, which approximates the rotation
// needed to correct the error for small angles).
func (p *RotationEuler) SolvePositionConstraint(a, b *body.Body, errVec math32.Vector3, baumgarte float32) {
	axes := [3]float32{errVec.X, errVec.Y, errVec.Z}
	worldAxes := [3]math32.Vector3{
		*math32.NewVector3(1, 0, 0),
		*math32.NewVector3(0, 1, 0),
		*math32.NewVector3(0, 0, 1),
	}
	for i, e := range axes {
		if !p.active[i] || e == 0 {
			continue
		}
		lambda := -p.effectiveMass[i] * baumgarte * e
		axis := worldAxes[i]
		a.SetQuaternion(nudgeQuaternion(a.Quaternion(), axis, -lambda))
		b.SetQuaternion(nudgeQuaternion(b.Quaternion(), axis, lambda))
	}
}

// nudgeQuaternion applies a small-angle rotation of magnitude*axis to q,
// matching the way Body.Integrate advances orientation from an angular
// velocity over a unit timestep.
func nudgeQuaternion(q math32.Quaternion, axis math32.Vector3, magnitude float32) math32.Quaternion {
	halfAngle := magnitude * 0.5
	dq := math32.Quaternion{
		X: axis.X * halfAngle,
		Y: axis.Y * halfAngle,
		Z: axis.Z * halfAngle,
		W: 0,
	}
	q.X += dq.W*q.X + dq.X*q.W + dq.Y*q.Z - dq.Z*q.Y
	q.Y += dq.W*q.Y - dq.X*q.Z + dq.Y*q.W + dq.Z*q.X
	q.Z += dq.W*q.Z + dq.X*q.Y - dq.Y*q.X + dq.Z*q.W
	q.W += dq.W*q.W - dq.X*q.X - dq.Y*q.Y - dq.Z*q.Z
	q.Normalize()
	return q
}
