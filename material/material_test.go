// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombineIsSymmetric(t *testing.T) {
	modes := []CombineMode{Average, Multiply, GeometricMean, Min, Max}
	for _, ma := range modes {
		for _, mb := range modes {
			got1 := Combine(0.4, ma, 0.7, mb)
			got2 := Combine(0.7, mb, 0.4, ma)
			assert.InDelta(t, got1, got2, 1e-6, "modeA=%v modeB=%v", ma, mb)
		}
	}
}

func TestMaxWinsOverAllOtherModes(t *testing.T) {
	got := Combine(0.2, Average, 0.9, Max)
	assert.InDelta(t, float32(0.9), got, 1e-6)
}

func TestGeometricMean(t *testing.T) {
	got := Combine(0.25, GeometricMean, 1.0, GeometricMean)
	assert.InDelta(t, float32(0.5), got, 1e-6)
}
