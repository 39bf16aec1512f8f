// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/math32"
)

// GaussSeidel is a sequential-impulse solver over the pooled equation
// list: each equation's B and C (computed by the caller before Solve, via
// ComputeContactB/ComputeFrictionB/ComputeRotationalB/ComputeConeB/
// ComputeMotorB and ComputeC) are cached once, then every equation's
// lambda is refined in place until the accumulated delta falls below
// tolerance or maxIterations is reached.
type GaussSeidel struct {
	Solver
	MaxIterations int
	Tolerance     float32

	solveInvCs  []float32
	solveBs     []float32
	solveLambda []float32
}

// NewGaussSeidel returns a solver with the teacher's default iteration
// cap and tolerance.
func NewGaussSeidel() *GaussSeidel {
	return &GaussSeidel{MaxIterations: 20, Tolerance: 1e-7}
}

// reset sizes the per-body delta arrays to numBodies (a body pool's
// Capacity()) and clears the per-equation scratch arrays.
func (gs *GaussSeidel) reset(numBodies int) {
	gs.VelocityDeltas = make([]math32.Vector3, numBodies)
	gs.AngularVelocityDeltas = make([]math32.Vector3, numBodies)
	gs.Iterations = 0

	gs.solveInvCs = gs.solveInvCs[:0]
	gs.solveBs = gs.solveBs[:0]
	gs.solveLambda = gs.solveLambda[:0]
}

// Solve runs the Gauss-Seidel iteration over every pooled equation,
// returning the per-body velocity corrections. h is the step's fixed
// timestep; numBodies sizes the per-body delta arrays and must be at
// least one past the highest BodyA().Index()/BodyB().Index() in the
// pool. Callers apply the returned deltas to live bodies themselves,
// mirroring the teacher's split between solving and application.
func (gs *GaussSeidel) Solve(h float32, numBodies int) *Solution {
	gs.reset(numBodies)

	n := len(gs.equations)
	if n == 0 {
		return &gs.Solution
	}

	for _, eq := range gs.equations {
		gs.solveInvCs = append(gs.solveInvCs, 1.0/eq.ComputeC())
		gs.solveBs = append(gs.solveBs, eq.B)
		gs.solveLambda = append(gs.solveLambda, 0)
	}

	tolSquared := gs.Tolerance * gs.Tolerance
	iter := 0
	for ; iter < gs.MaxIterations; iter++ {
		var deltaLambdaTot float32

		for j, eq := range gs.equations {
			lambdaJ := gs.solveLambda[j]

			idxA := eq.BodyA.Index()
			idxB := eq.BodyB.Index()

			vA, wA := gs.VelocityDeltas[idxA], gs.AngularVelocityDeltas[idxA]
			vB, wB := gs.VelocityDeltas[idxB], gs.AngularVelocityDeltas[idxB]

			gwLambda := eq.JeA.MultiplyVectors(&vA, &wA) + eq.JeB.MultiplyVectors(&vB, &wB)

			deltaLambda := gs.solveInvCs[j] * (gs.solveBs[j] - gwLambda - eq.Eps()*lambdaJ)

			if lambdaJ+deltaLambda < eq.MinForce {
				deltaLambda = eq.MinForce - lambdaJ
			} else if lambdaJ+deltaLambda > eq.MaxForce {
				deltaLambda = eq.MaxForce - lambdaJ
			}
			gs.solveLambda[j] += deltaLambda
			deltaLambdaTot += math32.Abs(deltaLambda)

			spatA, spatB := eq.JeA.Spatial, eq.JeB.Spatial
			spatA.MultiplyScalar(eq.BodyA.InvMassEff() * deltaLambda)
			spatB.MultiplyScalar(eq.BodyB.InvMassEff() * deltaLambda)
			gs.VelocityDeltas[idxA].Add(&spatA)
			gs.VelocityDeltas[idxB].Add(&spatB)

			rotA, rotB := eq.JeA.Rotational, eq.JeB.Rotational
			rotA.ApplyMatrix3(eq.BodyA.InvRotInertiaWorldEff())
			rotA.MultiplyScalar(deltaLambda)
			rotB.ApplyMatrix3(eq.BodyB.InvRotInertiaWorldEff())
			rotB.MultiplyScalar(deltaLambda)
			gs.AngularVelocityDeltas[idxA].Add(&rotA)
			gs.AngularVelocityDeltas[idxB].Add(&rotB)
		}

		if deltaLambdaTot*deltaLambdaTot < tolSquared {
			iter++
			break
		}
	}

	for i, eq := range gs.equations {
		eq.Multiplier = gs.solveLambda[i] / h
	}
	gs.Iterations = iter

	return &gs.Solution
}

// ApplySolution adds the solved velocity deltas onto every live body in
// pool, looked up by its pool-slot index.
func ApplySolution(sol *Solution, pool *body.Pool) {
	pool.ForEach(func(h body.Handle, b *body.Body) {
		idx := h.Index()
		if int(idx) >= len(sol.VelocityDeltas) {
			return
		}
		v := b.Velocity()
		v.Add(&sol.VelocityDeltas[idx])
		b.SetVelocity(v)

		w := b.AngularVelocity()
		w.Add(&sol.AngularVelocityDeltas[idx])
		b.SetAngularVelocity(w)
	})
}
