// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filter implements the per-query collision filter: per-layer
// enable bits plus a group/mask bitwise test and an optional body predicate.
package filter

import "github.com/ironclad-phys/ironclad/layer"

// Predicate decides, beyond group/mask/layer checks, whether a candidate
// body index should be considered for the query. A nil predicate accepts
// everything.
type Predicate func(bodyIndex uint32) bool

// Filter carries per-object-layer and per-broadphase-layer enable bits, a
// collision group and mask, and an optional predicate.
type Filter struct {
	objectLayers     map[layer.ID]bool
	broadphaseLayers map[layer.ID]bool
	Group            uint32
	Mask             uint32
	Predicate        Predicate
}

// New returns an empty filter (nothing enabled, group/mask zero).
func New() *Filter {
	return &Filter{
		objectLayers:     make(map[layer.ID]bool),
		broadphaseLayers: make(map[layer.ID]bool),
	}
}

// EnableObjectLayer enables querying against the given object-layer.
func (f *Filter) EnableObjectLayer(o layer.ID) { f.objectLayers[o] = true }

// EnableBroadphaseLayer enables querying against the given broadphase-layer.
func (f *Filter) EnableBroadphaseLayer(b layer.ID) { f.broadphaseLayers[b] = true }

// ObjectLayerEnabled reports whether the object-layer is enabled.
func (f *Filter) ObjectLayerEnabled(o layer.ID) bool { return f.objectLayers[o] }

// BroadphaseLayerEnabled reports whether the broadphase-layer is enabled.
func (f *Filter) BroadphaseLayerEnabled(b layer.ID) bool { return f.broadphaseLayers[b] }

// GroupMaskPasses reports whether two group/mask pairs pass each other:
// (groupA & maskB) != 0 && (groupB & maskA) != 0.
func GroupMaskPasses(groupA, maskA, groupB, maskB uint32) bool {
	return (groupA&maskB) != 0 && (groupB&maskA) != 0
}

// BodyLayerInfo is the minimal view of a body the filter needs to build
// itself from, or to test pair-passing against.
type BodyLayerInfo struct {
	ObjectLayer layer.ID
	Group       uint32
	Mask        uint32
}

// SetFromBody resets the filter to match exactly the layers the given
// body's object-layer can collide with per the layer matrix, and copies
// its group/mask. The predicate is left unset (cleared).
func (f *Filter) SetFromBody(m *layer.Matrix, b BodyLayerInfo) {
	f.objectLayers = make(map[layer.ID]bool)
	f.broadphaseLayers = make(map[layer.ID]bool)
	f.Group = b.Group
	f.Mask = b.Mask
	f.Predicate = nil

	for o := layer.ID(0); int(o) < m.ObjectLayerCount(); o++ {
		if m.ObjectLayerCollides(b.ObjectLayer, o) {
			f.objectLayers[o] = true
		}
	}
	// A broadphase-layer stays enabled if at least one still-enabled
	// object-layer maps to it; disabling an object-layer only disables its
	// broadphase-layer when no other enabled object-layer maps there.
	for bp := layer.ID(0); int(bp) < m.BroadphaseLayerCount(); bp++ {
		for o := range f.objectLayers {
			if m.BroadphaseLayer(o) == bp {
				f.broadphaseLayers[bp] = true
				break
			}
		}
	}
}

// PassesLayer reports whether a candidate body with the given object-layer
// and broadphase-layer passes this filter's layer bits.
func (f *Filter) PassesLayer(objectLayer, broadphaseLayer layer.ID) bool {
	return f.objectLayers[objectLayer] && f.broadphaseLayers[broadphaseLayer]
}

// Passes runs the full filter test: layer bits, group/mask, then predicate.
func (f *Filter) Passes(candidate BodyLayerInfo, broadphaseLayer layer.ID, bodyIndex uint32) bool {
	if !f.PassesLayer(candidate.ObjectLayer, broadphaseLayer) {
		return false
	}
	if !GroupMaskPasses(f.Group, f.Mask, candidate.Group, candidate.Mask) {
		return false
	}
	if f.Predicate != nil && !f.Predicate(bodyIndex) {
		return false
	}
	return true
}
