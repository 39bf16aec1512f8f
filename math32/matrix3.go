// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "errors"

// Matrix3 is 3x3 matrix organized internally as column matrix
type Matrix3 [9]float32

// NewMatrix3 creates and returns a pointer to a new Matrix3
// initialized as the identity matrix.
func NewMatrix3() *Matrix3 {

	var m Matrix3
	m.Identity()
	return &m
}

// Set sets all the elements of the matrix row by row starting at row1, column1,
// row1, column2, row1, column3 and so forth.
// Returns the pointer to this updated Matrix.
func (m *Matrix3) Set(n11, n12, n13, n21, n22, n23, n31, n32, n33 float32) *Matrix3 {

	m[0] = n11
	m[3] = n12
	m[6] = n13
	m[1] = n21
	m[4] = n22
	m[7] = n23
	m[2] = n31
	m[5] = n32
	m[8] = n33
	return m
}

// Identity sets this matrix as the identity matrix.
// Returns the pointer to this updated matrix.
func (m *Matrix3) Identity() *Matrix3 {

	m.Set(
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	)
	return m
}

// Copy copies src matrix into this one.
// Returns the pointer to this updated matrix.
func (m *Matrix3) Copy(src *Matrix3) *Matrix3 {

	*m = *src
	return m
}

// MultiplyScalar multiplies each of this matrix's components by the specified scalar.
// Returns pointer to this updated matrix.
func (m *Matrix3) MultiplyScalar(s float32) *Matrix3 {

	m[0] *= s
	m[3] *= s
	m[6] *= s
	m[1] *= s
	m[4] *= s
	m[7] *= s
	m[2] *= s
	m[5] *= s
	m[8] *= s
	return m
}

// Transpose transposes this matrix.
// Returns pointer to this updated matrix.
func (m *Matrix3) Transpose() *Matrix3 {

	var tmp float32
	tmp = m[1]
	m[1] = m[3]
	m[3] = tmp
	tmp = m[2]
	m[2] = m[6]
	m[6] = tmp
	tmp = m[5]
	m[5] = m[7]
	m[7] = tmp
	return m
}

// Zero sets this matrix to all zeros.
// Returns the pointer to this updated matrix.
func (m *Matrix3) Zero() *Matrix3 {

	*m = Matrix3{}
	return m
}

// GetInverse3 sets this matrix to the inverse of the 3x3 src matrix.
// If src cannot be inverted, sets this matrix to the identity matrix and returns an error.
func (m *Matrix3) GetInverse3(src *Matrix3) error {

	var inv Matrix3
	inv[0] = src[4]*src[8] - src[5]*src[7]
	inv[1] = src[2]*src[7] - src[1]*src[8]
	inv[2] = src[1]*src[5] - src[2]*src[4]
	inv[3] = src[5]*src[6] - src[3]*src[8]
	inv[4] = src[0]*src[8] - src[2]*src[6]
	inv[5] = src[2]*src[3] - src[0]*src[5]
	inv[6] = src[3]*src[7] - src[4]*src[6]
	inv[7] = src[1]*src[6] - src[0]*src[7]
	inv[8] = src[0]*src[4] - src[1]*src[3]

	det := src[0]*inv[0] + src[1]*inv[3] + src[2]*inv[6]
	if det == 0 {
		m.Identity()
		return errors.New("math32: matrix3 cannot be inverted")
	}
	*m = inv
	m.MultiplyScalar(1.0 / det)
	return nil
}

// Multiply multiplies this matrix by other: m = m * other.
// Returns the pointer to this updated matrix.
func (m *Matrix3) Multiply(other *Matrix3) *Matrix3 {

	return m.MultiplyMatrices(m, other)
}

// MultiplyMatrices sets this matrix to the product a * b.
// Returns the pointer to this updated matrix.
func (m *Matrix3) MultiplyMatrices(a, b *Matrix3) *Matrix3 {

	a11, a12, a13 := a[0], a[3], a[6]
	a21, a22, a23 := a[1], a[4], a[7]
	a31, a32, a33 := a[2], a[5], a[8]

	b11, b12, b13 := b[0], b[3], b[6]
	b21, b22, b23 := b[1], b[4], b[7]
	b31, b32, b33 := b[2], b[5], b[8]

	var out Matrix3
	out[0] = a11*b11 + a12*b21 + a13*b31
	out[3] = a11*b12 + a12*b22 + a13*b32
	out[6] = a11*b13 + a12*b23 + a13*b33

	out[1] = a21*b11 + a22*b21 + a23*b31
	out[4] = a21*b12 + a22*b22 + a23*b32
	out[7] = a21*b13 + a22*b23 + a23*b33

	out[2] = a31*b11 + a32*b21 + a33*b31
	out[5] = a31*b12 + a32*b22 + a33*b32
	out[8] = a31*b13 + a32*b23 + a33*b33

	*m = out
	return m
}

// MakeRotationFromQuaternion sets this matrix as a rotation matrix from the specified quaternion.
// Returns the pointer to this updated matrix.
func (m *Matrix3) MakeRotationFromQuaternion(q *Quaternion) *Matrix3 {

	x, y, z, w := q.X, q.Y, q.Z, q.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	m.Set(
		1-(yy+zz), xy-wz, xz+wy,
		xy+wz, 1-(xx+zz), yz-wx,
		xz-wy, yz+wx, 1-(xx+yy),
	)
	return m
}

// Matrix3Diagonal builds a diagonal matrix from the given vector.
func Matrix3Diagonal(d *Vector3) *Matrix3 {

	m := NewMatrix3()
	m.Set(
		d.X, 0, 0,
		0, d.Y, 0,
		0, 0, d.Z,
	)
	return m
}
