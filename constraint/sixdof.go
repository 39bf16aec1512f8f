// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/constraintpart"
	"github.com/ironclad-phys/ironclad/math32"
)

// SixDOFMode configures one of SixDOF's six axes independently.
type SixDOFMode uint8

const (
	// ModeFree leaves the axis entirely unconstrained.
	ModeFree SixDOFMode = iota
	// ModeLocked rigidly pins the axis at its reference value.
	ModeLocked
	// ModeLimited allows free motion within [Lower, Upper], resisted only
	// once the measured value leaves that range.
	ModeLimited
)

// SixDOF is the general joint: each of the three linear axes (relative
// to PivotA/PivotB along world X/Y/Z) and each of the three angular axes
// (relative to RefOrientation) is independently Free, Locked, or Limited.
// Hinge/Slider/Point/Fixed are all special cases of this shape; SixDOF
// exists for callers that need a configuration the named variants don't
// cover.
type SixDOF struct {
	Base

	PivotA, PivotB math32.Vector3
	RefOrientation math32.Quaternion

	LinearMode               [3]SixDOFMode
	LinearLower, LinearUpper [3]float32

	AngularMode                [3]SixDOFMode
	AngularLower, AngularUpper [3]float32

	linear  [3]constraintpart.Axis
	angular [3]constraintpart.AngularAxis

	linearPos  [3]float32
	angularPos [3]float32

	MaxForce  float32
	MaxTorque float32
}

var worldAxes3 = [3]math32.Vector3{{X: 1}, {Y: 1}, {Z: 1}}

// NewSixDOF builds a fully-Free six-DOF joint at the bodies' current
// relative pose; set LinearMode/AngularMode (and the matching Lower/
// Upper bounds) per axis before use.
func NewSixDOF(a, b *body.Body, pivotA, pivotB math32.Vector3, maxForce, maxTorque float32) *SixDOF {
	return &SixDOF{
		Base:           Base{BodyA: a, BodyB: b, Enabled: true, VelocityIterations: 10, PositionIterations: 2},
		PivotA:         pivotA,
		PivotB:         pivotB,
		RefOrientation: relativeOrientation(a.Quaternion(), b.Quaternion()),
		MaxForce:       maxForce,
		MaxTorque:      maxTorque,
	}
}

func (d *SixDOF) worldPivots() (ra, rb math32.Vector3) {
	qa := d.BodyA.Quaternion()
	qb := d.BodyB.Quaternion()
	ra = d.PivotA
	ra.ApplyQuaternion(&qa)
	rb = d.PivotB
	rb.ApplyQuaternion(&qb)
	return ra, rb
}

// Prepare rebuilds every non-Free axis's constraint properties.
func (d *SixDOF) Prepare(h float32) {
	ra, rb := d.worldPivots()
	worldA := d.BodyA.Position()
	worldA.Add(&ra)
	worldB := d.BodyB.Position()
	worldB.Add(&rb)
	sep := worldB
	sep.Sub(&worldA)

	for i := 0; i < 3; i++ {
		if d.LinearMode[i] == ModeFree {
			d.linear[i].Deactivate()
			continue
		}
		d.linear[i].RA, d.linear[i].RB = ra, rb
		d.linear[i].N = worldAxes3[i]
		d.linear[i].CalculateConstraintProperties(d.BodyA, d.BodyB, h)
		d.linearPos[i] = sep.Dot(&worldAxes3[i])
	}

	errVec := orientationError(d.BodyA.Quaternion(), d.BodyB.Quaternion(), d.RefOrientation)
	angularErr := [3]float32{errVec.X, errVec.Y, errVec.Z}
	for i := 0; i < 3; i++ {
		if d.AngularMode[i] == ModeFree {
			d.angular[i].Deactivate()
			continue
		}
		d.angular[i].AxisA, d.angular[i].AxisB = worldAxes3[i], worldAxes3[i]
		d.angular[i].CalculateConstraintProperties(d.BodyA, d.BodyB, h)
		d.angularPos[i] = angularErr[i]
	}
}

// WarmStart reapplies cached impulses for every non-Free axis.
func (d *SixDOF) WarmStart(ratio float32) {
	for i := 0; i < 3; i++ {
		if d.LinearMode[i] != ModeFree {
			d.linear[i].WarmStart(d.BodyA, d.BodyB, ratio)
		}
		if d.AngularMode[i] != ModeFree {
			d.angular[i].WarmStart(d.BodyA, d.BodyB, ratio)
		}
	}
}

// SolveVelocity locks velocity on every Locked axis and, for every
// Limited axis currently outside [Lower, Upper], clamps velocity to push
// it back one-sided (never pulling it further in); Limited axes still
// inside their range apply no velocity-level force.
func (d *SixDOF) SolveVelocity() float32 {
	var m float32
	for i := 0; i < 3; i++ {
		switch d.LinearMode[i] {
		case ModeLocked:
			imp := d.linear[i].SolveVelocityConstraint(d.BodyA, d.BodyB, -d.MaxForce, d.MaxForce)
			if absf32(imp) > m {
				m = absf32(imp)
			}
		case ModeLimited:
			lo, hi := limitBounds(d.linearPos[i], d.LinearLower[i], d.LinearUpper[i], d.MaxForce)
			imp := d.linear[i].SolveVelocityConstraint(d.BodyA, d.BodyB, lo, hi)
			if absf32(imp) > m {
				m = absf32(imp)
			}
		}
		switch d.AngularMode[i] {
		case ModeLocked:
			imp := d.angular[i].SolveVelocityConstraint(d.BodyA, d.BodyB, -d.MaxTorque, d.MaxTorque)
			if absf32(imp) > m {
				m = absf32(imp)
			}
		case ModeLimited:
			lo, hi := limitBounds(d.angularPos[i], d.AngularLower[i], d.AngularUpper[i], d.MaxTorque)
			imp := d.angular[i].SolveVelocityConstraint(d.BodyA, d.BodyB, lo, hi)
			if absf32(imp) > m {
				m = absf32(imp)
			}
		}
	}
	return m
}

// SolvePosition corrects Locked axes back to their reference value and
// pushes Limited axes back within [Lower, Upper] once they leave it.
func (d *SixDOF) SolvePosition(baumgarte float32) float32 {
	var m float32
	for i := 0; i < 3; i++ {
		switch d.LinearMode[i] {
		case ModeLocked:
			e := d.linearPos[i]
			d.linear[i].SolvePositionConstraint(d.BodyA, d.BodyB, e, baumgarte, 0.2)
			if absf32(e) > m {
				m = absf32(e)
			}
		case ModeLimited:
			var errAmt float32
			if d.linearPos[i] < d.LinearLower[i] {
				errAmt = d.linearPos[i] - d.LinearLower[i]
			} else if d.linearPos[i] > d.LinearUpper[i] {
				errAmt = d.linearPos[i] - d.LinearUpper[i]
			}
			if errAmt != 0 {
				e := errAmt
				d.linear[i].SolvePositionConstraint(d.BodyA, d.BodyB, e, baumgarte, 0.2)
				if absf32(e) > m {
					m = absf32(e)
				}
			}
		}

		switch d.AngularMode[i] {
		case ModeLocked:
			e := d.angularPos[i]
			d.angular[i].SolvePositionConstraint(d.BodyA, d.BodyB, e, baumgarte, 0.2)
			if absf32(e) > m {
				m = absf32(e)
			}
		case ModeLimited:
			var errAmt float32
			if d.angularPos[i] < d.AngularLower[i] {
				errAmt = d.angularPos[i] - d.AngularLower[i]
			} else if d.angularPos[i] > d.AngularUpper[i] {
				errAmt = d.angularPos[i] - d.AngularUpper[i]
			}
			if errAmt != 0 {
				e := errAmt
				d.angular[i].SolvePositionConstraint(d.BodyA, d.BodyB, e, baumgarte, 0.2)
				if absf32(e) > m {
					m = absf32(e)
				}
			}
		}
	}
	return m
}

// sentinelRange classifies a caller-supplied [lower, upper] pair into a
// SixDOFMode using the ±3.4e38 free-range / lower==upper locked
// convention common to six-DOF joint APIs, so callers need not know
// about SixDOFMode directly.
const sentinelMagnitude = 3.4e38

func sentinelRange(lower, upper float32) (SixDOFMode, float32, float32) {
	switch {
	case lower <= -sentinelMagnitude && upper >= sentinelMagnitude:
		return ModeFree, 0, 0
	case lower == upper:
		return ModeLocked, lower, upper
	default:
		return ModeLimited, lower, upper
	}
}

// SetLinearLimit classifies and applies [lower, upper] to linear axis i
// (0=X, 1=Y, 2=Z) using the sentinel-range convention.
func (d *SixDOF) SetLinearLimit(axis int, lower, upper float32) {
	mode, lo, hi := sentinelRange(lower, upper)
	d.LinearMode[axis] = mode
	d.LinearLower[axis], d.LinearUpper[axis] = lo, hi
}

// SetAngularLimit classifies and applies [lower, upper] to angular axis i
// (0=X, 1=Y, 2=Z) using the sentinel-range convention.
func (d *SixDOF) SetAngularLimit(axis int, lower, upper float32) {
	mode, lo, hi := sentinelRange(lower, upper)
	d.AngularMode[axis] = mode
	d.AngularLower[axis], d.AngularUpper[axis] = lo, hi
}

// IsEnabled reports whether the constraint currently participates.
func (d *SixDOF) IsEnabled() bool { return d.Enabled }

// Bodies returns the constrained body pair.
func (d *SixDOF) Bodies() (*body.Body, *body.Body) { return d.BodyA, d.BodyB }
