// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "github.com/ironclad-phys/ironclad/math32"

// iterationOverrider is satisfied by any Constraint embedding
// constraint.Base, whose Iterations method is promoted automatically.
type iterationOverrider interface {
	Iterations(defaultVelocity, defaultPosition int) (int, int)
}

// Prepare rebuilds every enabled constraint's Jacobians for the step.
func (cs *Constraints) Prepare(h float32) {
	for _, c := range cs.items {
		if c.IsEnabled() {
			c.Prepare(h)
		}
	}
}

// WarmStart reapplies every enabled constraint's cached impulses, scaled
// by ratio.
func (cs *Constraints) WarmStart(ratio float32) {
	for _, c := range cs.items {
		if c.IsEnabled() {
			c.WarmStart(ratio)
		}
	}
}

// SolveVelocity runs defaultIterations velocity-solve passes over every
// enabled constraint (or the constraint's own override, if set),
// returning the largest impulse magnitude seen in the final pass.
func (cs *Constraints) SolveVelocity(defaultIterations int) float32 {
	var maxImpulse float32
	for _, c := range cs.items {
		if !c.IsEnabled() {
			continue
		}
		iterations := defaultIterations
		if o, ok := c.(iterationOverrider); ok {
			iterations, _ = o.Iterations(defaultIterations, 0)
		}
		var last float32
		for i := 0; i < iterations; i++ {
			last = c.SolveVelocity()
		}
		if a := math32.Abs(last); a > maxImpulse {
			maxImpulse = a
		}
	}
	return maxImpulse
}

// SolvePosition runs defaultIterations position-correction passes over
// every enabled constraint, returning the largest positional error seen
// in the final pass.
func (cs *Constraints) SolvePosition(baumgarte float32, defaultIterations int) float32 {
	var maxError float32
	for _, c := range cs.items {
		if !c.IsEnabled() {
			continue
		}
		iterations := defaultIterations
		if o, ok := c.(iterationOverrider); ok {
			_, iterations = o.Iterations(0, defaultIterations)
		}
		var last float32
		for i := 0; i < iterations; i++ {
			last = c.SolvePosition(baumgarte)
		}
		if a := math32.Abs(last); a > maxError {
			maxError = a
		}
	}
	return maxError
}
