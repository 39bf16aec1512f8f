// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import (
	"github.com/ironclad-phys/ironclad/layer"
	"github.com/ironclad-phys/ironclad/math32"
)

// MotionType determines which forces and impulses apply to a body.
type MotionType int

const (
	Static MotionType = iota
	Kinematic
	Dynamic
)

// SleepState is the body's position in the sleep state machine.
type SleepState int

const (
	Awake SleepState = iota
	Sleepy
	Sleeping
)

// Event names dispatched to the body's own Listener.
const (
	EventSleepy  = "sleepy"
	EventSleep   = "sleep"
	EventWakeUp  = "wakeup"
	EventCollide = "collide"
)

// Body is one rigid body. Bodies live in a Pool; a removed body's `pooled`
// flag is set and its slot is pushed on the pool's free list. The sequence
// byte in its Handle protects lookups against stale handles.
type Body struct {
	handle Handle
	pooled bool

	Motion MotionType

	position, prevPosition, interpPosition math32.Vector3
	quaternion, prevQuaternion              math32.Quaternion
	interpQuaternion                        math32.Quaternion

	velocity, initVelocity               math32.Vector3
	angularVelocity, initAngularVelocity math32.Vector3

	force  math32.Vector3
	torque math32.Vector3

	mass    float32
	invMass float32
	invMassEff float32

	rotInertia          math32.Matrix3 // body-space diagonal (as a diagonal matrix)
	invRotInertia       math32.Matrix3
	invRotInertiaWorld  math32.Matrix3
	invRotInertiaWorldEff math32.Matrix3
	fixedRotation       bool

	LinearDamping  float32
	AngularDamping float32
	LinearFactor   math32.Vector3
	AngularFactor  math32.Vector3

	ObjectLayer layer.ID
	CollisionGroup uint32
	CollisionMask  uint32
	IsSensor       bool
	CollideKinematicVsNonDynamic bool

	sleepState    SleepState
	sleepTime     float32
	allowSleep    bool

	aabb            math32.Box3
	aabbNeedsUpdate bool
	BoundingRadius  float32

	DBVHNodeIndex    int32
	BroadphaseLayer  layer.ID
	IslandIndex      int32

	Listener EventListener
}

// EventListener receives body lifecycle events. A nil listener is legal;
// events are simply dropped.
type EventListener interface {
	OnBodyEvent(b *Body, name string)
}

func (b *Body) dispatch(name string) {
	if b.Listener != nil {
		b.Listener.OnBodyEvent(b, name)
	}
}

// New returns a body with identity transform, zero velocity, and the given
// motion type and mass. Dynamic bodies get invMass = 1/mass; static and
// kinematic bodies always have invMass = 0.
func New(motion MotionType, mass float32) *Body {
	b := &Body{
		Motion:          motion,
		quaternion:      *math32.NewQuaternion(0, 0, 0, 1),
		prevQuaternion:  *math32.NewQuaternion(0, 0, 0, 1),
		LinearFactor:    *math32.NewVector3(1, 1, 1),
		AngularFactor:   *math32.NewVector3(1, 1, 1),
		CollisionMask:   0xFFFFFFFF,
		CollisionGroup:  1,
		allowSleep:      true,
		aabbNeedsUpdate: true,
		DBVHNodeIndex:   -1,
		IslandIndex:     -1,
	}
	b.SetMass(mass)
	b.rotInertia = *math32.NewMatrix3()
	b.invRotInertia = *math32.NewMatrix3()
	b.UpdateMassProperties()
	return b
}

// SetHandle is called only by Pool.
func (b *Body) SetHandle(h Handle) { b.handle = h }

// Handle returns this body's opaque pool handle.
func (b *Body) Handle() Handle { return b.handle }

// SetMass sets the scalar mass and recomputes invMass (0 for non-dynamic
// bodies and for mass <= 0).
func (b *Body) SetMass(mass float32) {
	b.mass = mass
	if b.Motion != Dynamic || mass <= 0 {
		b.invMass = 0
		return
	}
	b.invMass = 1 / mass
}

// SetMomentOfInertia sets the body-space diagonal inertia tensor.
func (b *Body) SetMomentOfInertia(diag math32.Vector3) {
	b.rotInertia = *math32.Matrix3Diagonal(&diag)
	if b.Motion != Dynamic || b.fixedRotation {
		b.invRotInertia.Zero()
		return
	}
	if err := b.invRotInertia.GetInverse3(&b.rotInertia); err != nil {
		b.invRotInertia.Zero()
	}
}

// SetFixedRotation toggles whether this body ever receives angular impulses.
func (b *Body) SetFixedRotation(fixed bool) {
	b.fixedRotation = fixed
	b.UpdateMassProperties()
}

// Mass returns the scalar mass.
func (b *Body) Mass() float32 { return b.mass }

// InvMass returns the inverse mass (0 for static/kinematic bodies).
func (b *Body) InvMass() float32 { return b.invMass }

// InvMassEff returns the effective inverse mass used by the solver: zero
// while the body sleeps, regardless of its true inverse mass.
func (b *Body) InvMassEff() float32 {
	if b.sleepState == Sleeping {
		return 0
	}
	return b.invMassEff
}

// InvRotInertiaWorldEff returns the effective world-space inverse inertia
// tensor used by the solver.
func (b *Body) InvRotInertiaWorldEff() *math32.Matrix3 { return &b.invRotInertiaWorldEff }

// Position returns the world position.
func (b *Body) Position() math32.Vector3 { return b.position }

// SetPosition sets the world position.
func (b *Body) SetPosition(p math32.Vector3) { b.position = p; b.aabbNeedsUpdate = true }

// Quaternion returns the world orientation.
func (b *Body) Quaternion() math32.Quaternion { return b.quaternion }

// SetQuaternion sets the world orientation (assumed already normalized).
func (b *Body) SetQuaternion(q math32.Quaternion) {
	b.quaternion = q
	b.UpdateInertiaWorld(true)
	b.aabbNeedsUpdate = true
}

// Velocity returns the linear velocity.
func (b *Body) Velocity() math32.Vector3 { return b.velocity }

// SetVelocity sets the linear velocity.
func (b *Body) SetVelocity(v math32.Vector3) { b.velocity = v }

// AngularVelocity returns the angular velocity.
func (b *Body) AngularVelocity() math32.Vector3 { return b.angularVelocity }

// SetAngularVelocity sets the angular velocity.
func (b *Body) SetAngularVelocity(v math32.Vector3) { b.angularVelocity = v }

// Force returns the accumulated force for this step.
func (b *Body) Force() math32.Vector3 { return b.force }

// Torque returns the accumulated torque for this step.
func (b *Body) Torque() math32.Vector3 { return b.torque }

// ClearForces resets the per-step force/torque accumulators.
func (b *Body) ClearForces() {
	b.force = math32.Vector3{}
	b.torque = math32.Vector3{}
}

// ApplyForce accumulates a world-space force at a world-space point.
func (b *Body) ApplyForce(force, worldPoint math32.Vector3) {
	if b.Motion != Dynamic {
		return
	}
	b.force.Add(&force)
	r := worldPoint
	r.Sub(&b.position)
	r.Cross(&force)
	b.torque.Add(&r)
}

// ApplyImpulse applies a world-space impulse at a world-space point,
// changing velocity and angular velocity immediately.
func (b *Body) ApplyImpulse(impulse, worldPoint math32.Vector3) {
	if b.Motion != Dynamic {
		return
	}
	dv := impulse
	dv.MultiplyScalar(b.invMass)
	b.velocity.Add(&dv)

	r := worldPoint
	r.Sub(&b.position)
	dAngular := r
	dAngular.Cross(&impulse)
	dAngular.ApplyMatrix3(&b.invRotInertiaWorld)
	b.angularVelocity.Add(&dAngular)
}

// ApplyLocalForce accumulates a local-space force at a local-space point.
func (b *Body) ApplyLocalForce(localForce, localPoint math32.Vector3) {
	worldForce := b.VectorToWorld(localForce)
	worldPoint := b.PointToWorld(localPoint)
	b.ApplyForce(worldForce, worldPoint)
}

// ApplyLocalImpulse applies a local-space impulse at a local-space point.
func (b *Body) ApplyLocalImpulse(localImpulse, localPoint math32.Vector3) {
	worldImpulse := b.VectorToWorld(localImpulse)
	worldPoint := b.PointToWorld(localPoint)
	b.ApplyImpulse(worldImpulse, worldPoint)
}

// PointToLocal converts a world-space point into this body's local frame.
func (b *Body) PointToLocal(world math32.Vector3) math32.Vector3 {
	local := world
	local.Sub(&b.position)
	inv := b.quaternion
	inv.Conjugate()
	local.ApplyQuaternion(&inv)
	return local
}

// PointToWorld converts a local-space point into world space.
func (b *Body) PointToWorld(local math32.Vector3) math32.Vector3 {
	world := local
	world.ApplyQuaternion(&b.quaternion)
	world.Add(&b.position)
	return world
}

// VectorToWorld rotates a local-space direction into world space.
func (b *Body) VectorToWorld(local math32.Vector3) math32.Vector3 {
	world := local
	world.ApplyQuaternion(&b.quaternion)
	return world
}

// GetVelocityAtWorldPoint returns the linear velocity of the material point
// of this body currently located at worldPoint.
func (b *Body) GetVelocityAtWorldPoint(worldPoint math32.Vector3) math32.Vector3 {
	r := worldPoint
	r.Sub(&b.position)
	rel := b.angularVelocity
	rel.Cross(&r)
	out := b.velocity
	out.Add(&rel)
	return out
}

// UpdateMassProperties recomputes invMassEff/invRotInertiaWorldEff from the
// current mass/inertia and motion type; called by New and
// SetFixedRotation, but not by SetMass or SetMomentOfInertia.
func (b *Body) UpdateMassProperties() {
	if b.Motion != Dynamic {
		b.invMassEff = 0
	} else {
		b.invMassEff = b.invMass
	}
	if b.fixedRotation {
		b.invRotInertia.Zero()
	}
	b.UpdateInertiaWorld(true)
}

// UpdateInertiaWorld recomputes the world-space inverse inertia tensor
// R * invRotInertia * R^T from the current orientation. Skips the
// recomputation unless force is true or the body can rotate, matching the
// teacher's own early-exit for fixed-rotation bodies.
func (b *Body) UpdateInertiaWorld(force bool) {
	if b.fixedRotation && !force {
		return
	}
	var rot math32.Matrix3
	rot.MakeRotationFromQuaternion(&b.quaternion)

	var tmp math32.Matrix3
	tmp.MultiplyMatrices(&rot, &b.invRotInertia)

	var rotT math32.Matrix3
	rotT.Copy(&rot)
	rotT.Transpose()

	b.invRotInertiaWorld.MultiplyMatrices(&tmp, &rotT)
	b.invRotInertiaWorldEff = b.invRotInertiaWorld
	if b.sleepState == Sleeping {
		b.invRotInertiaWorldEff.Zero()
	}
}

// Integrate advances position/orientation by dt using semi-implicit Euler:
// v,w are assumed already updated by the solver; positions/orientation are
// integrated from the current (post-solve) velocities.
func (b *Body) Integrate(dt float32, quatNormalize, quatNormalizeFast bool) {
	if b.Motion == Static || b.sleepState == Sleeping {
		return
	}
	b.prevPosition = b.position
	b.prevQuaternion = b.quaternion

	v := b.velocity
	v.Multiply(&b.LinearFactor)
	delta := v
	delta.MultiplyScalar(dt)
	b.position.Add(&delta)

	w := b.angularVelocity
	w.Multiply(&b.AngularFactor)

	ax, ay, az := w.X, w.Y, w.Z
	bx, by, bz, bw := b.quaternion.X, b.quaternion.Y, b.quaternion.Z, b.quaternion.W
	halfDt := 0.5 * dt

	b.quaternion.X += halfDt * (ax*bw + ay*bz - az*by)
	b.quaternion.Y += halfDt * (ay*bw + az*bx - ax*bz)
	b.quaternion.Z += halfDt * (az*bw + ax*by - ay*bx)
	b.quaternion.W += halfDt * (-ax*bx - ay*by - az*bz)

	if quatNormalize {
		if quatNormalizeFast {
			b.quaternion.NormalizeFast()
		} else {
			b.quaternion.Normalize()
		}
	}

	b.UpdateInertiaWorld(false)
	b.aabbNeedsUpdate = true
}

// WakeUp sets the body to Awake and dispatches EventWakeUp if it was
// Sleeping; waking a Sleepy body dispatches nothing.
func (b *Body) WakeUp() {
	was := b.sleepState
	b.sleepState = Awake
	b.sleepTime = 0
	if was == Sleeping {
		b.dispatch(EventWakeUp)
	}
}

// Sleep forces the body to Sleeping and zeroes its velocities.
func (b *Body) Sleep() {
	b.sleepState = Sleeping
	b.velocity = math32.Vector3{}
	b.angularVelocity = math32.Vector3{}
	b.dispatch(EventSleep)
}

// AllowSleep reports whether this body participates in sleep detection.
func (b *Body) AllowSleep() bool { return b.allowSleep }

// SetAllowSleep toggles sleep-detection participation.
func (b *Body) SetAllowSleep(allow bool) { b.allowSleep = allow }

// SleepState returns the current sleep-state-machine state.
func (b *Body) SleepState() SleepState { return b.sleepState }

// Sleeping reports whether the body is fully asleep (not merely sleepy).
func (b *Body) Sleeping() bool { return b.sleepState == Sleeping }

// AABB returns the body's cached exact world-space bounding box, as last
// set by SetAABB. Owning this value is a shape-layer concern external to
// this package; the broadphase coordinator calls SetAABB after consulting
// the shape contract.
func (b *Body) AABB() math32.Box3 { return b.aabb }

// SetAABB stores the body's exact world-space bounding box and clears the
// needs-update flag set whenever position or orientation changes.
func (b *Body) SetAABB(box math32.Box3) {
	b.aabb = box
	b.aabbNeedsUpdate = false
}

// AABBNeedsUpdate reports whether position/orientation changed since the
// last SetAABB call.
func (b *Body) AABBNeedsUpdate() bool { return b.aabbNeedsUpdate }

// Index returns the body's pool-slot index, used as the dedup/broadphase
// identity independent of the handle's sequence byte.
func (b *Body) Index() uint32 { return b.handle.Index() }

// SleepTick advances the low-motion timer by dt given the body's current
// speed; once speed exceeds threshold the timer resets and the body wakes.
// When the timer exceeds timeBeforeSleep the body becomes Sleepy, and the
// caller (the island-level sleep pass) is expected to promote a Sleepy body
// all of whose island-mates are also Sleepy to Sleeping.
func (b *Body) SleepTick(dt, speed, threshold, timeBeforeSleep float32) {
	if !b.allowSleep || b.Motion != Dynamic {
		return
	}
	if speed >= threshold {
		if b.sleepState != Awake {
			b.dispatch(EventWakeUp)
		}
		b.sleepState = Awake
		b.sleepTime = 0
		return
	}
	b.sleepTime += dt
	if b.sleepTime > timeBeforeSleep && b.sleepState != Sleepy {
		b.sleepState = Sleepy
		b.dispatch(EventSleepy)
	}
}
