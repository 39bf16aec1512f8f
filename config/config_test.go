// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	s := Default()
	assert.Equal(t, float32(-9.81), s.Gravity.Y)
	assert.Equal(t, 10, s.VelocityIterations)
	assert.Equal(t, 2, s.PositionIterations)
	assert.Equal(t, float32(0.2), s.BaumgarteFactor)
	assert.True(t, s.WarmStarting)
	assert.True(t, s.AllowSleeping)
}

func TestWriteThenLoadYAMLRoundTrips(t *testing.T) {
	s := Default()
	s.VelocityIterations = 16
	s.Gravity.Y = -1.62 // lunar gravity override

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, WriteYAML(path, s))

	loaded, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, 16, loaded.VelocityIterations)
	assert.Equal(t, float32(-1.62), loaded.Gravity.Y)
	assert.Equal(t, s.PenetrationSlop, loaded.PenetrationSlop)
}

func TestLoadYAMLMissingFileErrors(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
