// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/math32"
)

func TestFaceNormalPointsAwayFromWinding(t *testing.T) {
	a := *math32.NewVector3(0, 0, 0)
	b := *math32.NewVector3(1, 0, 0)
	c := *math32.NewVector3(0, 1, 0)

	n := faceNormal(a, b, c)
	assert.InDelta(t, 0, n.X, 1e-5)
	assert.InDelta(t, 0, n.Y, 1e-5)
	assert.InDelta(t, 1, n.Z, 1e-5)
}
