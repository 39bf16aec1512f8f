// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import "github.com/ironclad-phys/ironclad/math32"

// relativeOrientation returns qb relative to qa: qa^-1 * qb.
func relativeOrientation(qa, qb math32.Quaternion) math32.Quaternion {
	inv := qa
	inv.Inverse()
	out := math32.Quaternion{}
	out.MultiplyQuaternions(&inv, &qb)
	return out
}

// orientationError returns a small-angle axis-angle vector describing the
// rotation still needed to bring the current relative orientation
// (qa^-1*qb) onto the reference relative orientation ref. Valid near the
// reference (the usual warm-started regime); the vector part of the
// quaternion error approximates 2x the rotation axis*angle for small
// angles.
func orientationError(qa, qb, ref math32.Quaternion) math32.Vector3 {
	current := relativeOrientation(qa, qb)
	refInv := ref
	refInv.Inverse()
	errQ := math32.Quaternion{}
	errQ.MultiplyQuaternions(&refInv, &current)
	if errQ.W < 0 {
		errQ.X, errQ.Y, errQ.Z, errQ.W = -errQ.X, -errQ.Y, -errQ.Z, -errQ.W
	}
	return math32.Vector3{X: 2 * errQ.X, Y: 2 * errQ.Y, Z: 2 * errQ.Z}
}
