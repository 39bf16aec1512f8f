// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package constraint implements the higher-level constraint variants
// (hinge, slider, distance, point, fixed, swing-twist, cone, six-DOF)
// composed from constraintpart building blocks.
package constraint

import "github.com/ironclad-phys/ironclad/body"

// Type tags a constraint variant, part of its 32-bit id (index:23,
// type:5, sequence:4).
type Type uint8

const (
	TypeHinge Type = iota
	TypeSlider
	TypeDistance
	TypePoint
	TypeFixed
	TypeSwingTwist
	TypeCone
	TypeSixDOF
)

// ID is a constraint's opaque handle: {index:23, type:5, sequence:4}.
type ID uint32

const (
	indexBits    = 23
	typeBits     = 5
	sequenceBits = 4
	indexMask    = (1 << indexBits) - 1
	typeMask     = (1 << typeBits) - 1
	sequenceMask = (1 << sequenceBits) - 1
)

// NewID packs index/type/sequence into an opaque handle.
func NewID(index uint32, t Type, sequence uint8) ID {
	return ID((index & indexMask) | (uint32(t)&typeMask)<<indexBits | (uint32(sequence)&sequenceMask)<<(indexBits+typeBits))
}

// Index extracts the pool-slot index.
func (id ID) Index() uint32 { return uint32(id) & indexMask }

// ConstraintType extracts the tagged variant.
func (id ID) ConstraintType() Type { return Type((uint32(id) >> indexBits) & typeMask) }

// Sequence extracts the stale-handle guard byte.
func (id ID) Sequence() uint8 { return uint8((uint32(id) >> (indexBits + typeBits)) & sequenceMask) }

// Base carries the fields every constraint variant shares: the two
// bodies, lifecycle flags, solve priority, and per-constraint iteration
// overrides.
type Base struct {
	ID ID

	BodyA, BodyB *body.Body

	Enabled  bool
	Sleeping bool
	Priority int

	// VelocityIterations/PositionIterations override the solver's default
	// iteration counts when non-zero.
	VelocityIterations int
	PositionIterations int
}

// Iterations returns this constraint's velocity/position iteration
// counts, falling back to the given solver defaults when unset (zero).
func (b *Base) Iterations(defaultVelocity, defaultPosition int) (int, int) {
	v, p := b.VelocityIterations, b.PositionIterations
	if v == 0 {
		v = defaultVelocity
	}
	if p == 0 {
		p = defaultPosition
	}
	return v, p
}

// ConstraintPriority returns the solve-order priority: higher solves
// first.
func (b *Base) ConstraintPriority() int { return b.Priority }

// ConstraintID returns the constraint's opaque handle, used as the
// solve-order tiebreak among equal priorities.
func (b *Base) ConstraintID() ID { return b.ID }

// Constraint is the interface the solver drives every constraint
// variant through.
type Constraint interface {
	Prepare(h float32)
	WarmStart(ratio float32)
	SolveVelocity() (maxImpulse float32)
	SolvePosition(baumgarte float32) (maxError float32)
	IsEnabled() bool
	Bodies() (*body.Body, *body.Body)
	ConstraintPriority() int
	ConstraintID() ID
}
