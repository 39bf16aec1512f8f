// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ironclad-bench runs the engine's concrete validation scenarios
// (box drop, hinge swing, slider limits) for manual
// smoke-testing outside the test suite.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ironclad-phys/ironclad/body"
	"github.com/ironclad-phys/ironclad/config"
	"github.com/ironclad-phys/ironclad/constraint"
	"github.com/ironclad-phys/ironclad/layer"
	"github.com/ironclad-phys/ironclad/logging"
	"github.com/ironclad-phys/ironclad/manifold"
	"github.com/ironclad-phys/ironclad/math32"
	"github.com/ironclad-phys/ironclad/world"
)

func main() {
	scenario := flag.String("scenario", "all", "box-drop | hinge-swing | slider-limits | all")
	level := flag.String("log-level", "info", "debug | info | warn | error | silent")
	flag.Parse()

	log := logging.Default()
	log.SetLevel(parseLevel(*level))

	switch *scenario {
	case "box-drop":
		runBoxDrop(log)
	case "hinge-swing":
		runHingeSwing(log)
	case "slider-limits":
		runSliderLimits(log)
	case "all":
		runBoxDrop(log)
		runHingeSwing(log)
		runSliderLimits(log)
	default:
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", *scenario)
		os.Exit(1)
	}
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	case "silent":
		return logging.LevelSilent
	default:
		return logging.LevelInfo
	}
}

func singleLayer() (*layer.Matrix, layer.ID) {
	m := layer.New()
	bp := m.AddBroadphaseLayer()
	ol := m.AddObjectLayer(bp)
	_ = m.EnableCollision(ol, ol)
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

// groundNarrow is a stand-in for the external shape/narrow-phase
// collaborator: it resolves any body against a static ground plane by
// clipping a single contact point straight down from the body's center.
func groundNarrow(half float32) world.NarrowPhaseFunc {
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
			pA, pB, axis = pGround, pBox, math32.Vector3{Y: 1}
		} else {
			pA, pB, axis = pBox, pGround, math32.Vector3{Y: -1}
		}
		return []manifold.Hit{{PointA: pA, PointB: pB, PenetrationAxis: axis, Penetration: penetration}}
	}
}

// runBoxDrop: unit cube at y=5 falls onto a static ground plane (spec
// concrete scenario 1).
func runBoxDrop(log *logging.Logger) {
	layers, ol := singleLayer()
	sim := world.New(layers, config.Default())
	sim.Narrow = groundNarrow(0.5)
	sim.Log = log

	ground := body.New(body.Static, 0)
	ground.ObjectLayer = ol
	ground.SetAABB(boxAABB(math32.Vector3{}, 50))
	if _, err := sim.AddBody(ground); err != nil {
		log.Errorf("box-drop: add ground: %v", err)
		return
	}

	box := body.New(body.Dynamic, 1)
	box.ObjectLayer = ol
	box.SetPosition(math32.Vector3{Y: 5})
	box.SetAABB(boxAABB(math32.Vector3{Y: 5}, 0.5))
	if _, err := sim.AddBody(box); err != nil {
		log.Errorf("box-drop: add box: %v", err)
		return
	}

	dt := float32(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		box.SetAABB(boxAABB(box.Position(), 0.5))
		sim.Step(dt)
	}

	v := box.Velocity()
	log.Infof("box-drop: y=%.4f v=%.4f sleeping=%v", box.Position().Y, v.Length(), box.Sleeping())
}

// runHingeSwing: dynamic bar hinged to a static anchor, released from a
// 90 degree angle (spec concrete scenario 2).
func runHingeSwing(log *logging.Logger) {
	layers, ol := singleLayer()
	sim := world.New(layers, config.Default())
	sim.Log = log

	anchor := body.New(body.Static, 0)
	anchor.ObjectLayer = ol
	anchor.SetAABB(boxAABB(math32.Vector3{}, 0.1))
	if _, err := sim.AddBody(anchor); err != nil {
		log.Errorf("hinge-swing: add anchor: %v", err)
		return
	}

	bar := body.New(body.Dynamic, 1)
	bar.ObjectLayer = ol
	bar.SetPosition(math32.Vector3{X: 2})
	bar.SetAABB(boxAABB(math32.Vector3{X: 2}, 0.1))
	if _, err := sim.AddBody(bar); err != nil {
		log.Errorf("hinge-swing: add bar: %v", err)
		return
	}

	axis := math32.Vector3{Z: 1}
	h := constraint.NewHinge(anchor, bar, math32.Vector3{}, math32.Vector3{X: -2}, axis, axis, 1e6)
	sim.AddConstraint(h)

	dt := float32(1.0 / 60.0)
	for i := 0; i < 60; i++ {
		sim.Step(dt)
	}

	w := bar.AngularVelocity()
	log.Infof("hinge-swing: pos=%v angularVelocity.Z=%.4f", bar.Position(), w.Z)
}

// runSliderLimits: slider between a static anchor and a dynamic body,
// driven by a motor and clamped at its max limit (spec concrete scenario
// 6).
func runSliderLimits(log *logging.Logger) {
	layers, ol := singleLayer()
	sim := world.New(layers, config.Default())
	sim.Log = log

	anchor := body.New(body.Static, 0)
	anchor.ObjectLayer = ol
	anchor.SetAABB(boxAABB(math32.Vector3{}, 0.1))
	if _, err := sim.AddBody(anchor); err != nil {
		log.Errorf("slider-limits: add anchor: %v", err)
		return
	}

	slide := body.New(body.Dynamic, 1)
	slide.ObjectLayer = ol
	slide.SetAABB(boxAABB(math32.Vector3{}, 0.1))
	if _, err := sim.AddBody(slide); err != nil {
		log.Errorf("slider-limits: add slider: %v", err)
		return
	}

	axis := math32.Vector3{X: 1}
	s := constraint.NewSlider(anchor, slide, math32.Vector3{}, math32.Vector3{}, axis, axis, 1e6)
	s.LimitEnabled = true
	s.LowerLimit, s.UpperLimit = -1, 1
	s.MotorEnabled = true
	s.MotorSpeed = 2
	s.MotorMaxForce = 1e6
	sim.AddConstraint(s)

	dt := float32(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		sim.Step(dt)
	}

	log.Infof("slider-limits: position=%.4f", slide.Position().X)
}
