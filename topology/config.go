// SPDX-License-Identifier: MIT
// Package: lvlath/builder
//
// config.go — builderConfig and its functional options.
//
// Contract (strict):
//   - Options are functional (type BuilderOption func(*builderConfig)).
//   - Option constructors VALIDATE and PANIC on meaningless inputs
//     (per lvlath 99-rules). Algorithms themselves MUST NOT panic.
//   - Determinism is explicit: seeding is done via WithSeed or WithRand.
//   - No hidden globals; everything flows through builderConfig.
//
// AI-Hints:
//   - Prefer WithSeed for reproducible stochastic builders (Random*).
//   - Use WithIDScheme to align vertex labels across tests/golden files.
//   - WithPartitionPrefix controls K_{m,n} labels; empty values mean
//     "use defaults", not an error (deterministic fallback).
//   - WithWeightFn affects weighted graphs only; core controls whether
//     weights are observed.

package topology

import (
	"math/rand"
)

// BuilderOption customizes the behavior of a constructor by mutating a
// builderConfig instance before graph construction begins.
// Complexity: applying N options costs O(N) time, O(1) space.
type BuilderOption func(cfg *builderConfig)

// builderConfig holds the resolved, immutable-once-built parameters shared
// by every topology constructor:
//   - rng:        optional shared RNG source (nil ⇒ per-call deterministic fallback).
//   - idFn:       index→vertex-ID scheme.
//   - weightFn:   rng→edge-weight generator (only consulted when g.Weighted()).
//   - leftPrefix/rightPrefix: bipartite side labels (empty ⇒ defaults "L"/"R").
type builderConfig struct {
	rng      *rand.Rand
	idFn     IDFn
	weightFn WeightFn

	leftPrefix  string
	rightPrefix string
}

// newBuilderConfig returns a builderConfig initialized with defaults, then
// applies each provided BuilderOption in order. Later options override
// earlier ones. Returned by value: constructors receive a private copy.
//
// Complexity: O(len(opts)) time, O(1) extra space.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := &builderConfig{
		rng:      nil,
		idFn:     DefaultIDFn,
		weightFn: DefaultWeightFn,

		leftPrefix:  "L",
		rightPrefix: "R",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return *cfg
}

// WithIDScheme sets the deterministic vertex ID generator: idx -> string.
// Panics on nil to surface programmer error early and keep invariants tight.
// Complexity: O(1) time, O(1) space.
func WithIDScheme(fn IDFn) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}
	return func(cfg *builderConfig) {
		cfg.idFn = fn
	}
}

// WithRand provides an explicit RNG for stochastic builders.
// Panics on nil; prefer WithSeed for reproducible runs.
// Complexity: O(1) time, O(1) space.
func WithRand(rng *rand.Rand) BuilderOption {
	if rng == nil {
		panic("builder: WithRand(nil)")
	}
	return func(cfg *builderConfig) {
		cfg.rng = rng
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
// Use this in tests and examples to lock outcomes.
// Complexity: O(1) time, O(1) space.
func WithSeed(seed int64) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.rng = rand.New(rand.NewSource(seed))
	}
}

// WithWeightFn overrides the per-edge weight generator. Panics on nil so a
// mistaken clear surfaces immediately rather than silently reverting to
// DefaultWeightFn.
// Complexity: O(1) time, O(1) space.
func WithWeightFn(fn WeightFn) BuilderOption {
	if fn == nil {
		panic("builder: WithWeightFn(nil)")
	}
	return func(cfg *builderConfig) {
		cfg.weightFn = fn
	}
}

// WithPartitionPrefix sets bipartite side labels (left/right).
// Empty values are allowed and interpreted as "use defaults", not an error.
// Complexity: O(1) time, O(1) space.
func WithPartitionPrefix(left, right string) BuilderOption {
	return func(cfg *builderConfig) {
		if left != "" {
			cfg.leftPrefix = left
		}
		if right != "" {
			cfg.rightPrefix = right
		}
	}
}

