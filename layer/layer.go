// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layer implements the object-layer / broadphase-layer collision
// matrix: three flat, append-only, symmetric bit tables deciding which
// layers are allowed to generate collision pairs.
package layer

import "fmt"

// ID identifies an object-layer or a broadphase-layer. Both id spaces are
// plain small integers assigned by the host at registration time.
type ID uint32

// Invalid marks the absence of a layer mapping.
const Invalid ID = 0xFFFFFFFF

// Matrix holds the three bit tables named in the data model: object-layer x
// object-layer, object-layer x broadphase-layer, and broadphase x
// broadphase. All three grow as new layers are registered and are never
// shrunk; entries are flat bit arrays indexed row-major.
type Matrix struct {
	objectCount     int
	broadphaseCount int

	// objectToBroadphase[o] is the broadphase-layer an object-layer maps to.
	objectToBroadphase []ID

	objectBits     []bool // O*O
	broadphaseBits []bool // B*B
	mixedBits      []bool // O*B (object row, broadphase column)
}

// New returns an empty matrix.
func New() *Matrix {
	return &Matrix{}
}

// AddBroadphaseLayer registers a new broadphase-layer and returns its id.
func (m *Matrix) AddBroadphaseLayer() ID {
	id := ID(m.broadphaseCount)
	m.broadphaseCount++
	m.growBroadphase()
	m.growMixed()
	return id
}

// AddObjectLayer registers a new object-layer mapped to the given
// broadphase-layer and returns the object-layer's id.
func (m *Matrix) AddObjectLayer(broadphase ID) ID {
	id := ID(m.objectCount)
	m.objectCount++
	m.objectToBroadphase = append(m.objectToBroadphase, broadphase)
	m.growObject()
	m.growMixed()
	return id
}

func (m *Matrix) growObject() {
	n := m.objectCount * m.objectCount
	for len(m.objectBits) < n {
		m.objectBits = append(m.objectBits, false)
	}
}

func (m *Matrix) growBroadphase() {
	n := m.broadphaseCount * m.broadphaseCount
	for len(m.broadphaseBits) < n {
		m.broadphaseBits = append(m.broadphaseBits, false)
	}
}

func (m *Matrix) growMixed() {
	n := m.objectCount * m.broadphaseCount
	for len(m.mixedBits) < n {
		m.mixedBits = append(m.mixedBits, false)
	}
}

// BroadphaseLayer returns the broadphase-layer an object-layer maps to, or
// Invalid if the object-layer was never registered.
func (m *Matrix) BroadphaseLayer(o ID) ID {
	if int(o) >= len(m.objectToBroadphase) {
		return Invalid
	}
	return m.objectToBroadphase[o]
}

// EnableCollision marks two object-layers as able to collide and propagates
// the bit symmetrically into the broadphase x broadphase and object x
// broadphase tables.
func (m *Matrix) EnableCollision(a, b ID) error {
	if int(a) >= m.objectCount || int(b) >= m.objectCount {
		return fmt.Errorf("layer: unmapped object-layer %d or %d", a, b)
	}
	m.setObject(a, b, true)

	ba, bb := m.objectToBroadphase[a], m.objectToBroadphase[b]
	m.setBroadphase(ba, bb, true)
	m.setMixed(a, bb, true)
	m.setMixed(b, ba, true)
	return nil
}

func (m *Matrix) setObject(a, b ID, v bool) {
	m.objectBits[int(a)*m.objectCount+int(b)] = v
	m.objectBits[int(b)*m.objectCount+int(a)] = v
}

func (m *Matrix) setBroadphase(a, b ID, v bool) {
	m.broadphaseBits[int(a)*m.broadphaseCount+int(b)] = v
	m.broadphaseBits[int(b)*m.broadphaseCount+int(a)] = v
}

func (m *Matrix) setMixed(o, b ID, v bool) {
	m.mixedBits[int(o)*m.broadphaseCount+int(b)] = v
}

// ObjectLayerCollides reports whether two object-layers may collide.
func (m *Matrix) ObjectLayerCollides(a, b ID) bool {
	if int(a) >= m.objectCount || int(b) >= m.objectCount {
		return false
	}
	return m.objectBits[int(a)*m.objectCount+int(b)]
}

// BroadphaseLayerCollides reports whether two broadphase-layers may collide.
func (m *Matrix) BroadphaseLayerCollides(a, b ID) bool {
	if int(a) >= m.broadphaseCount || int(b) >= m.broadphaseCount {
		return false
	}
	return m.broadphaseBits[int(a)*m.broadphaseCount+int(b)]
}

// ObjectVsBroadphaseCollides reports whether an object-layer may collide
// with bodies filed under a given broadphase-layer.
func (m *Matrix) ObjectVsBroadphaseCollides(o, b ID) bool {
	if int(o) >= m.objectCount || int(b) >= m.broadphaseCount {
		return false
	}
	return m.mixedBits[int(o)*m.broadphaseCount+int(b)]
}

// BroadphaseLayerCount returns the number of registered broadphase-layers.
func (m *Matrix) BroadphaseLayerCount() int { return m.broadphaseCount }

// ObjectLayerCount returns the number of registered object-layers.
func (m *Matrix) ObjectLayerCount() int { return m.objectCount }
