// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the engine's tunable defaults, loadable from and
// writable to YAML.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironclad-phys/ironclad/math32"
)

// Settings bundles every tunable the solver, broadphase, and sleep
// machinery read. Zero-value Settings is not meaningful; callers should
// start from Default().
type Settings struct {
	Gravity math32.Vector3 `yaml:"gravity"`

	SpeculativeContactDistance          float32 `yaml:"speculative_contact_distance"`
	ManifoldTolerance                   float32 `yaml:"manifold_tolerance"`
	ContactPointPreserveLambdaMaxDistSq float32 `yaml:"contact_point_preserve_lambda_max_dist_sq"`
	CollideOnlyWithActiveEdges          bool    `yaml:"collide_only_with_active_edges"`
	UseManifoldReduction                bool    `yaml:"use_manifold_reduction"`
	NormalCosMaxDeltaRotation           float32 `yaml:"normal_cos_max_delta_rotation"`

	VelocityIterations    int     `yaml:"velocity_iterations"`
	PositionIterations    int     `yaml:"position_iterations"`
	WarmStarting          bool    `yaml:"warm_starting"`
	WarmStartImpulseRatio float32 `yaml:"warm_start_impulse_ratio"`

	PenetrationSlop           float32 `yaml:"penetration_slop"`
	BaumgarteFactor           float32 `yaml:"baumgarte_factor"`
	MaxPenetrationDistance    float32 `yaml:"max_penetration_distance"`
	MinVelocityForRestitution float32 `yaml:"min_velocity_for_restitution"`

	AllowSleeping               bool    `yaml:"allow_sleeping"`
	TimeBeforeSleep             float32 `yaml:"time_before_sleep"`
	PointVelocitySleepThreshold float32 `yaml:"point_velocity_sleep_threshold"`

	LinearCastThreshold      float32 `yaml:"linear_cast_threshold"`
	LinearCastMaxPenetration float32 `yaml:"linear_cast_max_penetration"`
}

// Default returns the spec's documented default settings.
func Default() Settings {
	return Settings{
		Gravity: math32.Vector3{X: 0, Y: -9.81, Z: 0},

		SpeculativeContactDistance:          0.02,
		ManifoldTolerance:                   1e-3,
		ContactPointPreserveLambdaMaxDistSq: 1e-4,
		CollideOnlyWithActiveEdges:          true,
		UseManifoldReduction:                true,
		NormalCosMaxDeltaRotation:           0.9962, // cos(5 degrees)

		VelocityIterations:    10,
		PositionIterations:    2,
		WarmStarting:          true,
		WarmStartImpulseRatio: 1.0,

		PenetrationSlop:           0.02,
		BaumgarteFactor:           0.2,
		MaxPenetrationDistance:    0.2,
		MinVelocityForRestitution: 1.0,

		AllowSleeping:               true,
		TimeBeforeSleep:             0.5,
		PointVelocitySleepThreshold: 0.03,

		LinearCastThreshold:      0.05,
		LinearCastMaxPenetration: 0.25,
	}
}

// LoadYAML reads Settings from path, starting from Default() so a
// partial file only overrides the fields it sets.
func LoadYAML(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// WriteYAML writes s to path.
func WriteYAML(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
