// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package world ties every other package into one stepped simulation:
// broadphase, narrow-phase manifold reduction, warm-started contact and
// friction equations, joint constraints, island-aware sleeping, and
// semi-implicit Euler integration.
package world

import (
	"github.com/google/uuid"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/broadphase"
	"github.com/ironclad-phys/ironclad/config"
	"github.com/ironclad-phys/ironclad/constraint"
	"github.com/ironclad-phys/ironclad/equation"
	"github.com/ironclad-phys/ironclad/island"
	"github.com/ironclad-phys/ironclad/layer"
	"github.com/ironclad-phys/ironclad/logging"
	"github.com/ironclad-phys/ironclad/manifold"
	"github.com/ironclad-phys/ironclad/material"
	"github.com/ironclad-phys/ironclad/math32"
	"github.com/ironclad-phys/ironclad/solver"
)

// NarrowPhaseFunc resolves one candidate body pair into raw sub-shape
// hits. Shape representation and narrow-phase dispatch are an external
// collaborator this module does not implement (mirroring manifold.Hit's
// own documented assumption); callers wire in their own shape library.
type NarrowPhaseFunc func(a, b *body.Body) []manifold.Hit

// Listener receives contact and pair lifecycle events. Every method may
// be called with a nil receiver check skipped by Simulation; assign a
// no-op for any event you don't care about.
type Listener interface {
	// OnBodyPairValidate can reject a broadphase-reported pair before
	// narrow-phase runs.
	OnBodyPairValidate(a, b *body.Body) bool
	// OnContactValidate can reject a manifold before it is added to the
	// solver.
	OnContactValidate(a, b *body.Body, m *manifold.Manifold) bool
	OnContactAdded(a, b *body.Body, m *manifold.Manifold)
	OnContactPersisted(a, b *body.Body, m *manifold.Manifold)
	OnContactRemoved(bodyA, bodyB uint32)
}

// contactPoint bundles one manifold point's contact and two friction
// equations with the combined friction coefficient that scales the
// frictions' slip force once the contact's normal impulse is known.
type contactPoint struct {
	contact  *equation.Contact
	tangent1 *equation.Friction
	tangent2 *equation.Friction
	friction float32
}

// Simulation is the top-level owner of bodies, broadphase state, the
// solver, and standing joint constraints.
type Simulation struct {
	RunID uuid.UUID

	Settings   config.Settings
	Layers     *layer.Matrix
	Bodies     *body.Pool
	Broadphase *broadphase.Coordinator

	Narrow   NarrowPhaseFunc
	Listener Listener
	Log      *logging.Logger

	materials map[uint32]material.Material
	cache     *manifold.Cache
	prevPairs map[[2]uint32]bool

	constraints solver.Constraints

	time       float32
	stepNumber uint64
}

// New returns a Simulation over layers, using settings for every solver/
// sleep/broadphase tunable.
func New(layers *layer.Matrix, settings config.Settings) *Simulation {
	return &Simulation{
		RunID:      uuid.New(),
		Settings:   settings,
		Layers:     layers,
		Bodies:     body.NewPool(),
		Broadphase: broadphase.New(layers),
		Log:        logging.Default(),
		materials:  make(map[uint32]material.Material),
		cache:      manifold.NewCache(),
		prevPairs:  make(map[[2]uint32]bool),
	}
}

// AddBody pools b, routes it into the broadphase, and returns its handle.
func (s *Simulation) AddBody(b *body.Body) (body.Handle, error) {
	h := s.Bodies.Add(b)
	if err := s.Broadphase.AddBody(b); err != nil {
		s.Bodies.Remove(h)
		return body.InvalidHandle, err
	}
	return h, nil
}

// RemoveBody removes the body behind h from the pool and broadphase.
func (s *Simulation) RemoveBody(h body.Handle) {
	if b := s.Bodies.Get(h); b != nil {
		s.Broadphase.RemoveBody(b)
	}
	s.Bodies.Remove(h)
}

// SetMaterial assigns bodyIndex's material, read by contact-pair
// resolution; bodies without an assigned material use material.Default().
func (s *Simulation) SetMaterial(bodyIndex uint32, m material.Material) {
	s.materials[bodyIndex] = m
}

func (s *Simulation) materialFor(bodyIndex uint32) material.Material {
	if m, ok := s.materials[bodyIndex]; ok {
		return m
	}
	return material.Default()
}

// AddConstraint registers a standing joint to be solved every step.
func (s *Simulation) AddConstraint(c constraint.Constraint) {
	s.constraints.Add(c)
}

// RemoveConstraint unregisters c. Returns true if found.
func (s *Simulation) RemoveConstraint(c constraint.Constraint) bool {
	return s.constraints.Remove(c)
}

// Time returns the cumulative simulated time.
func (s *Simulation) Time() float32 { return s.time }

// StepNumber returns the number of completed Step calls.
func (s *Simulation) StepNumber() uint64 { return s.stepNumber }

func (s *Simulation) liveBodies() []*body.Body {
	var bodies []*body.Body
	s.Bodies.ForEach(func(_ body.Handle, b *body.Body) { bodies = append(bodies, b) })
	return bodies
}

// Step advances the simulation by dt: integrates gravity into velocities,
// refreshes the broadphase, builds and warm-starts contact/friction
// equations from narrow-phase manifolds, solves joint constraints and
// pooled equations, integrates positions, and runs sleep detection —
// mirroring the teacher's internalStep pipeline (force application,
// broadphase, contact generation, solver call, integrate, sleep tick),
// generalized to dispatch through the DBVH broadphase, manifold builder,
// and island-aware sleep instead of a naive O(n^2) pipeline.
func (s *Simulation) Step(dt float32) {
	bodies := s.liveBodies()
	byIndex := s.indexBodies(bodies)

	s.integrateGravity(bodies, dt)
	s.refreshBroadphase(bodies)

	var queryListener broadphase.PairListener
	if l, ok := s.Listener.(broadphase.PairListener); ok {
		queryListener = l
	}
	pairs := s.Broadphase.FindCollidingPairs(bodies, s.Settings.SpeculativeContactDistance, queryListener)
	points, seenPairs := s.buildContacts(pairs, byIndex, dt)
	s.expireStaleContacts(seenPairs)

	s.solveContacts(points, dt)

	s.constraints.Prepare(dt)
	if s.Settings.WarmStarting {
		s.constraints.WarmStart(s.Settings.WarmStartImpulseRatio)
	}
	s.constraints.SolveVelocity(s.Settings.VelocityIterations)
	s.constraints.SolvePosition(s.Settings.BaumgarteFactor, s.Settings.PositionIterations)

	s.integratePositions(bodies, dt)
	s.Broadphase.OptimizeStep()

	for _, b := range bodies {
		b.ClearForces()
	}

	s.tickSleep(bodies, byIndex, pairs, dt)

	s.time += dt
	s.stepNumber++
}

func (s *Simulation) indexBodies(bodies []*body.Body) map[uint32]*body.Body {
	m := make(map[uint32]*body.Body, len(bodies))
	for _, b := range bodies {
		m[b.Index()] = b
	}
	return m
}

func (s *Simulation) integrateGravity(bodies []*body.Body, dt float32) {
	g := s.Settings.Gravity
	dv := g
	dv.MultiplyScalar(dt)
	for _, b := range bodies {
		if b.Motion != body.Dynamic || b.Sleeping() {
			continue
		}
		v := b.Velocity()
		v.Add(&dv)
		b.SetVelocity(v)
	}
}

func (s *Simulation) refreshBroadphase(bodies []*body.Body) {
	for _, b := range bodies {
		if !b.AABBNeedsUpdate() {
			continue
		}
		v := b.Velocity()
		s.Broadphase.UpdateBody(b, &v)
	}
}

func pairKey(a, b uint32) [2]uint32 {
	if a < b {
		return [2]uint32{a, b}
	}
	return [2]uint32{b, a}
}

// buildContacts runs narrow-phase + manifold reduction over every
// broadphase pair, wakes colliding bodies, warm-starts from the previous
// frame's cache, and returns one contactPoint group per manifold point.
func (s *Simulation) buildContacts(pairs []broadphase.Pair, byIndex map[uint32]*body.Body, h float32) ([]contactPoint, map[[2]uint32]bool) {
	var points []contactPoint
	seen := make(map[[2]uint32]bool, len(pairs))

	for _, p := range pairs {
		a, okA := byIndex[p.BodyA]
		b, okB := byIndex[p.BodyB]
		if !okA || !okB {
			continue
		}
		if s.Listener != nil && !s.Listener.OnBodyPairValidate(a, b) {
			continue
		}
		if s.Narrow == nil {
			continue
		}
		hits := s.Narrow(a, b)
		if len(hits) == 0 {
			continue
		}

		matA, matB := s.materialFor(p.BodyA), s.materialFor(p.BodyB)
		settings := manifold.Settings{
			NormalCosMaxDeltaRotation: s.Settings.NormalCosMaxDeltaRotation,
			UseManifoldReduction:      s.Settings.UseManifoldReduction,
		}
		m := manifold.Build(p.BodyA, p.BodyB, hits, matA, matB, settings)
		if m == nil {
			continue
		}
		if s.Listener != nil && !s.Listener.OnContactValidate(a, b, m) {
			continue
		}

		key := pairKey(p.BodyA, p.BodyB)
		seen[key] = true

		if s.Settings.WarmStarting {
			s.cache.WarmStart(m, s.Settings.ContactPointPreserveLambdaMaxDistSq, s.Settings.WarmStartImpulseRatio)
		}

		if s.prevPairs[key] {
			if s.Listener != nil {
				s.Listener.OnContactPersisted(a, b, m)
			}
		} else if s.Listener != nil {
			s.Listener.OnContactAdded(a, b, m)
		}
		s.cache.Put(m)

		a.WakeUp()
		b.WakeUp()

		points = append(points, s.pointEquations(a, b, m, h)...)
	}
	s.prevPairs = seen
	return points, seen
}

func (s *Simulation) pointEquations(a, b *body.Body, m *manifold.Manifold, h float32) []contactPoint {
	posA, posB := a.Position(), b.Position()
	out := make([]contactPoint, 0, len(m.Points))

	for i := range m.Points {
		p := &m.Points[i]

		ra := p.PositionA
		ra.Sub(&posA)
		rb := p.PositionB
		rb.Sub(&posB)

		depthVec := p.PositionA
		depthVec.Sub(&p.PositionB)
		depth := depthVec.Dot(&m.Normal)

		c := equation.NewContact(a, b, 1e7)
		c.N = m.Normal
		c.RA, c.RB = ra, rb
		c.RestitutionA, c.RestitutionB = m.Restitution, m.Restitution
		c.UpdateJacobian()

		relVel := c.ComputeGW()
		if -relVel >= s.Settings.MinVelocityForRestitution {
			c.RestitutionBias = c.Restitution(relVel)
		}
		c.ComputeContactB(depth-s.Settings.PenetrationSlop, h)

		t1 := equation.NewFriction(a, b, 0)
		t1.RA, t1.RB = ra, rb
		t1.T = m.Tangent1
		t1.UpdateJacobian()
		t1.ComputeFrictionB(h)

		t2 := equation.NewFriction(a, b, 0)
		t2.RA, t2.RB = ra, rb
		t2.T = m.Tangent2
		t2.UpdateJacobian()
		t2.ComputeFrictionB(h)

		out = append(out, contactPoint{contact: c, tangent1: t1, tangent2: t2, friction: m.Friction})
	}
	return out
}

func (s *Simulation) expireStaleContacts(seen map[[2]uint32]bool) {
	for key := range s.prevPairs {
		if !seen[key] {
			s.cache.Clear(key[0], key[1])
			if s.Listener != nil {
				s.Listener.OnContactRemoved(key[0], key[1])
			}
		}
	}
}

// solveContacts solves every contact point's normal equation first (one
// pooled Gauss-Seidel pass), then rescales each point's friction slip
// force to its combined coefficient times the resolved normal impulse
// before solving friction in a second pooled pass — the standard
// sequential-impulse split the teacher's single-equation-type gs.go
// never needed, since it only ever pools one equation kind at a time.
func (s *Simulation) solveContacts(points []contactPoint, h float32) {
	if len(points) == 0 {
		return
	}
	numBodies := s.Bodies.Capacity()

	gsNormal := solver.NewGaussSeidel()
	for i := range points {
		gsNormal.AddEquation(&points[i].contact.Equation)
	}
	sol := gsNormal.Solve(h, numBodies)
	solver.ApplySolution(sol, s.Bodies)

	gsFriction := solver.NewGaussSeidel()
	for i := range points {
		normalLambda := points[i].contact.Multiplier * h
		if normalLambda < 0 {
			normalLambda = 0
		}
		slip := points[i].friction * normalLambda
		points[i].tangent1.SetSlipForce(slip)
		points[i].tangent2.SetSlipForce(slip)
		gsFriction.AddEquation(&points[i].tangent1.Equation)
		gsFriction.AddEquation(&points[i].tangent2.Equation)
	}
	sol = gsFriction.Solve(h, numBodies)
	solver.ApplySolution(sol, s.Bodies)
}

func (s *Simulation) integratePositions(bodies []*body.Body, dt float32) {
	for _, b := range bodies {
		b.Integrate(dt, true, false)
	}
}

func (s *Simulation) tickSleep(bodies []*body.Body, byIndex map[uint32]*body.Body, pairs []broadphase.Pair, dt float32) {
	for _, b := range bodies {
		if b.Motion != body.Dynamic {
			continue
		}
		speed := probeSpeed(b)
		b.SleepTick(dt, speed, s.Settings.PointVelocitySleepThreshold, s.Settings.TimeBeforeSleep)
	}

	if !s.Settings.AllowSleeping {
		return
	}

	var dynamicIndices []uint32
	for _, b := range bodies {
		if b.Motion == body.Dynamic {
			dynamicIndices = append(dynamicIndices, b.Index())
		}
	}

	islandPairs := make([]island.Pair, 0, len(pairs)+s.constraints.Len())
	for _, p := range pairs {
		islandPairs = append(islandPairs, island.Pair{BodyA: p.BodyA, BodyB: p.BodyB})
	}
	for _, c := range s.constraints.All() {
		ca, cb := c.Bodies()
		islandPairs = append(islandPairs, island.Pair{BodyA: ca.Index(), BodyB: cb.Index()})
	}

	isAsleep := func(idx uint32) bool {
		b, ok := byIndex[idx]
		return ok && b.SleepState() != body.Awake
	}
	islands := island.Build(dynamicIndices, islandPairs, isAsleep)
	for _, isl := range islands {
		if !isl.Asleep {
			continue
		}
		for _, idx := range isl.BodyIndices {
			if b, ok := byIndex[idx]; ok {
				b.Sleep()
			}
		}
	}
}

// probeSpeed approximates the spec's three-probe (COM + two farthest
// face centers) low-motion check using the body's own half-extent along
// X and Y as the two probe offsets.
func probeSpeed(b *body.Body) float32 {
	v := b.Velocity()
	w := b.AngularVelocity()
	box := b.AABB()
	size := box.Size(nil)
	half := math32.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2}

	best := v.Length()
	for _, r := range []math32.Vector3{{X: half.X}, {Y: half.Y}} {
		rel := w
		rel.Cross(&r)
		rel.Add(&v)
		if l := rel.Length(); l > best {
			best = l
		}
	}
	return best
}
