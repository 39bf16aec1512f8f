// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironclad-phys/ironclad/math32"
)

func TestHandleRoundTrip(t *testing.T) {
	for _, idx := range []uint32{0, 1, 1000, 0xFFFFFF} {
		for _, seq := range []uint8{0, 1, 255} {
			h := NewHandle(idx, seq)
			assert.Equal(t, idx, h.Index())
			assert.Equal(t, seq, h.Sequence())
		}
	}
}

func TestStaleHandleAfterRemove(t *testing.T) {
	pool := NewPool()
	b := New(Dynamic, 1)
	h := pool.Add(b)

	assert.NotNil(t, pool.Get(h))
	assert.True(t, pool.Remove(h))
	assert.Nil(t, pool.Get(h))

	b2 := New(Dynamic, 1)
	h2 := pool.Add(b2)
	assert.Equal(t, h.Index(), h2.Index())
	assert.NotEqual(t, h.Sequence(), h2.Sequence())
	assert.Nil(t, pool.Get(h))
	assert.NotNil(t, pool.Get(h2))
}

func TestStaticBodyHasZeroInvMass(t *testing.T) {
	b := New(Static, 5)
	assert.Equal(t, float32(0), b.InvMass())
}

func TestDynamicBodyInvMass(t *testing.T) {
	b := New(Dynamic, 2)
	assert.InDelta(t, 0.5, b.InvMass(), 1e-6)
}

func TestIntegrateAdvancesPosition(t *testing.T) {
	b := New(Dynamic, 1)
	b.SetVelocity(*math32.NewVector3(1, 0, 0))
	b.Integrate(1.0/60.0, true, false)
	pos := b.Position()
	assert.InDelta(t, 1.0/60.0, pos.X, 1e-6)
}

func TestSleepZeroesVelocity(t *testing.T) {
	b := New(Dynamic, 1)
	b.SetVelocity(*math32.NewVector3(5, 0, 0))
	b.Sleep()
	v := b.Velocity()
	assert.Equal(t, float32(0), v.X)
	assert.Equal(t, Sleeping, b.SleepState())
}

func TestWakeUpResetsSleepTimer(t *testing.T) {
	b := New(Dynamic, 1)
	b.SleepTick(1.0, 0.0, 0.03, 0.5)
	assert.Equal(t, Sleepy, b.SleepState())
	b.WakeUp()
	assert.Equal(t, Awake, b.SleepState())
}
