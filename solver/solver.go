// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver drives the velocity and position solving passes: a
// pooled sequential-impulse Gauss-Seidel loop over contact/friction/limit
// equations, and a position-iteration pass over higher-level joint
// constraints.
package solver

import (
	"sort"

	"github.com/ironclad-phys/ironclad/constraint"
	"github.com/ironclad-phys/ironclad/equation"
	"github.com/ironclad-phys/ironclad/math32"
)

// Solution holds the per-body velocity corrections accumulated by a
// Gauss-Seidel solve, indexed by body-pool slot index.
type Solution struct {
	VelocityDeltas        []math32.Vector3
	AngularVelocityDeltas []math32.Vector3
}

// Solver pools flat equations (contacts, friction, rotational/cone
// limits, motors) to be solved together in one Gauss-Seidel pass.
type Solver struct {
	equations []*equation.Equation

	Solution
	Iterations int
}

// AddEquation adds eq to the pool.
func (s *Solver) AddEquation(eq *equation.Equation) {
	s.equations = append(s.equations, eq)
}

// RemoveEquation removes eq from the pool. Returns true if found.
func (s *Solver) RemoveEquation(eq *equation.Equation) bool {
	for i, cur := range s.equations {
		if cur == eq {
			copy(s.equations[i:], s.equations[i+1:])
			s.equations[len(s.equations)-1] = nil
			s.equations = s.equations[:len(s.equations)-1]
			return true
		}
	}
	return false
}

// ClearEquations empties the pool.
func (s *Solver) ClearEquations() {
	s.equations = s.equations[:0]
}

// Constraints runs the position-iteration pass over joint constraints
// (Hinge, Slider, Distance, Point, Fixed, SwingTwist, Cone, SixDOF),
// each solving its own velocity/position equations internally rather
// than through the pooled equation list.
type Constraints struct {
	items []constraint.Constraint
}

// Add registers c to be solved every step, keeping items ordered by
// descending priority then ascending id so solve order (and therefore
// the bias one constraint's warm-started impulse leaves for the next)
// stays deterministic regardless of registration order.
func (cs *Constraints) Add(c constraint.Constraint) {
	cs.items = append(cs.items, c)
	sortByPriority(cs.items)
}

func sortByPriority(items []constraint.Constraint) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].ConstraintPriority(), items[j].ConstraintPriority()
		if pi != pj {
			return pi > pj
		}
		return items[i].ConstraintID() < items[j].ConstraintID()
	})
}

// Remove drops c. Returns true if found.
func (cs *Constraints) Remove(c constraint.Constraint) bool {
	for i, cur := range cs.items {
		if cur == c {
			copy(cs.items[i:], cs.items[i+1:])
			cs.items[len(cs.items)-1] = nil
			cs.items = cs.items[:len(cs.items)-1]
			return true
		}
	}
	return false
}

// Len returns the number of registered constraints.
func (cs *Constraints) Len() int { return len(cs.items) }

// All returns the registered constraints, for callers that need to
// inspect the bodies a joint connects (e.g. island building).
func (cs *Constraints) All() []constraint.Constraint { return cs.items }
