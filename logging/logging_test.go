// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	assert.Empty(t, buf.String())

	l.Warnf("warn %d", 3)
	assert.Contains(t, buf.String(), "[WARN] warn 3")
}

func TestLoggerNilIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Infof("no-op") })
}

func TestSetLevelChangesFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)
	l.Infof("suppressed")
	assert.Empty(t, buf.String())

	l.SetLevel(LevelInfo)
	l.Infof("shown")
	assert.Contains(t, buf.String(), "[INFO] shown")
}
