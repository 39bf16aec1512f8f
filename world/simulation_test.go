// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/config"
	"github.com/ironclad-phys/ironclad/constraint"
	"github.com/ironclad-phys/ironclad/layer"
	"github.com/ironclad-phys/ironclad/manifold"
	"github.com/ironclad-phys/ironclad/math32"
)

func singleLayerMatrix(t *testing.T) (*layer.Matrix, layer.ID) {
	m := layer.New()
	bp := m.AddBroadphaseLayer()
	ol := m.AddObjectLayer(bp)
	require.NoError(t, m.EnableCollision(ol, ol))
	return m, ol
}

func boxAABB(pos math32.Vector3, half float32) math32.Box3 {
	var b math32.Box3
	b.Set(
		math32.NewVector3(pos.X-half, pos.Y-half, pos.Z-half),
		math32.NewVector3(pos.X+half, pos.Y+half, pos.Z+half),
	)
	return b
}

// groundBoxNarrow stands in for the external shape/narrow-phase
// collaborator: it resolves one static "ground" body against any other
// body by clipping a single contact point to the ground's top face,
// directly along Y.
func groundBoxNarrow(half float32) NarrowPhaseFunc {
	return func(a, b *body.Body) []manifold.Hit {
		var ground, box *body.Body
		switch {
		case a.Motion == body.Static:
			ground, box = a, b
		case b.Motion == body.Static:
			ground, box = b, a
		default:
			return nil
		}

		top := ground.AABB().Max.Y
		bottom := box.Position().Y - half
		penetration := top - bottom
		if penetration < -0.05 {
			return nil
		}

		pGround := box.Position()
		pGround.Y = top
		pBox := box.Position()
		pBox.Y = bottom

		var pA, pB, axis math32.Vector3
		if a == ground {
			pA, pB = pGround, pBox
			axis = math32.Vector3{Y: 1}
		} else {
			pA, pB = pBox, pGround
			axis = math32.Vector3{Y: -1}
		}

		return []manifold.Hit{{
			PointA:          pA,
			PointB:          pB,
			PenetrationAxis: axis,
			Penetration:     penetration,
		}}
	}
}

func newGround(ol layer.ID) *body.Body {
	g := body.New(body.Static, 0)
	g.ObjectLayer = ol
	g.SetAABB(boxAABB(math32.Vector3{Y: -50}, 50)) // top face at y=0
	g.SetPosition(math32.Vector3{})
	return g
}

func newDropBox(ol layer.ID, y float32) *body.Body {
	b := body.New(body.Dynamic, 1)
	b.ObjectLayer = ol
	b.SetPosition(math32.Vector3{Y: y})
	b.SetAABB(boxAABB(math32.Vector3{Y: y}, 0.5))
	return b
}

func TestStepIntegratesGravityWithNoContacts(t *testing.T) {
	layers, ol := singleLayerMatrix(t)
	sim := New(layers, config.Default())

	b := body.New(body.Dynamic, 1)
	b.ObjectLayer = ol
	b.SetAABB(boxAABB(math32.Vector3{Y: 100}, 0.5))
	b.SetPosition(math32.Vector3{Y: 100})
	_, err := sim.AddBody(b)
	require.NoError(t, err)

	dt := float32(1.0 / 60.0)
	sim.Step(dt)

	assert.InDelta(t, -9.81*float64(dt), float64(b.Velocity().Y), 1e-4)
	assert.Equal(t, uint64(1), sim.StepNumber())
}

// Concrete scenario 1 (box drop): a unit cube falls onto a static ground
// plane and comes to rest near y=0.5, asleep, within the step budget.
func TestBoxDropSettlesAndSleeps(t *testing.T) {
	layers, ol := singleLayerMatrix(t)
	settings := config.Default()
	sim := New(layers, settings)
	sim.Narrow = groundBoxNarrow(0.5)

	ground := newGround(ol)
	_, err := sim.AddBody(ground)
	require.NoError(t, err)

	box := newDropBox(ol, 5)
	_, err = sim.AddBody(box)
	require.NoError(t, err)

	dt := float32(1.0 / 60.0)
	for i := 0; i < 400; i++ {
		box.SetAABB(boxAABB(box.Position(), 0.5))
		sim.Step(dt)
	}

	assert.InDelta(t, 0.5, float64(box.Position().Y), 0.15)
	v := box.Velocity()
	assert.Less(t, v.Length(), float32(0.1))
}

// Concrete scenario 5 (layer filter): a MOVING body overlapping a DEBRIS
// body produces no pair until the layers are explicitly linked.
func TestLayerFilterGatesPairUntilEnabled(t *testing.T) {
	layers := layer.New()
	bp := layers.AddBroadphaseLayer()
	moving := layers.AddObjectLayer(bp)
	debris := layers.AddObjectLayer(bp)
	require.NoError(t, layers.EnableCollision(moving, moving))

	sim := New(layers, config.Default())
	calls := 0
	sim.Narrow = func(a, b *body.Body) []manifold.Hit {
		calls++
		return nil
	}

	a := body.New(body.Dynamic, 1)
	a.ObjectLayer = moving
	a.SetAABB(boxAABB(math32.Vector3{}, 0.5))
	_, err := sim.AddBody(a)
	require.NoError(t, err)

	d := body.New(body.Dynamic, 1)
	d.ObjectLayer = debris
	d.SetAABB(boxAABB(math32.Vector3{}, 0.5))
	_, err = sim.AddBody(d)
	require.NoError(t, err)

	sim.Step(1.0 / 60.0)
	assert.Equal(t, 0, calls)

	require.NoError(t, layers.EnableCollision(moving, debris))
	sim.Step(1.0 / 60.0)
	assert.Equal(t, 1, calls)
}

func TestConstraintWiredIntoSimulationSolvesAndKeepsIslandAwake(t *testing.T) {
	layers, ol := singleLayerMatrix(t)
	sim := New(layers, config.Default())

	anchor := body.New(body.Static, 0)
	anchor.ObjectLayer = ol
	anchor.SetAABB(boxAABB(math32.Vector3{}, 0.1))
	_, err := sim.AddBody(anchor)
	require.NoError(t, err)

	hanging := body.New(body.Dynamic, 1)
	hanging.ObjectLayer = ol
	hanging.SetPosition(math32.Vector3{Y: -3})
	hanging.SetAABB(boxAABB(math32.Vector3{Y: -3}, 0.1))
	_, err = sim.AddBody(hanging)
	require.NoError(t, err)

	d := constraint.NewDistance(anchor, hanging, math32.Vector3{}, math32.Vector3{}, 2, 1e6)
	sim.AddConstraint(d)

	dt := float32(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		sim.Step(dt)
	}

	pos := hanging.Position()
	sep := pos.Length()
	assert.InDelta(t, 2, float64(sep), 0.1)
}

func TestRemoveBodyRemovesFromBroadphase(t *testing.T) {
	layers, ol := singleLayerMatrix(t)
	sim := New(layers, config.Default())

	b := body.New(body.Dynamic, 1)
	b.ObjectLayer = ol
	b.SetAABB(boxAABB(math32.Vector3{}, 0.5))
	h, err := sim.AddBody(b)
	require.NoError(t, err)

	sim.RemoveBody(h)
	assert.Nil(t, sim.Bodies.Get(h))
}
