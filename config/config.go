// Package config loads the operational parameters named in the
// specification's "Configuration inputs" table from a YAML file, with
// defaults for every field so a node can start from zero configuration.
//
// Grounded on jihwankim/chaos-utils's pkg/config.Config: same
// DefaultConfig-then-Load-overlays-the-file shape, same os.ExpandEnv pass
// over the raw bytes before unmarshaling so deployments can inject
// secrets/endpoints via environment variables, same Validate contract.
// Adapted from chaos-utils's flat chaos-framework fields to the nested
// Hyperbolic/Forwarding/Neighbor/Registry/Ricci groups this module's
// components actually consume.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document for a hyperroute node.
type Config struct {
	NodeID     string           `yaml:"node_id"`
	Hyperbolic HyperbolicConfig `yaml:"hyperbolic"`
	Forwarding ForwardingConfig `yaml:"forwarding"`
	Neighbor   NeighborConfig   `yaml:"neighbor"`
	Registry   RegistryConfig   `yaml:"registry"`
	Ricci      RicciConfig      `yaml:"ricci"`
	Embed      EmbedConfig      `yaml:"embed"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// HyperbolicConfig tunes the embedding's radial scale and how close to the
// boundary a coordinate is allowed to sit.
type HyperbolicConfig struct {
	// CurvatureParameter is ζ from spec §4.2: scales radial distance during
	// embedding.
	CurvatureParameter float64 `yaml:"curvature_parameter"`
	// BoundaryMargin keeps every stored point strictly inside the disk:
	// |p|^2 <= 1 - BoundaryMargin.
	BoundaryMargin float64 `yaml:"boundary_margin"`
}

// ForwardingConfig tunes the forwarding state machine (spec §4.6).
type ForwardingConfig struct {
	// DegreeThreshold selects Sinkhorn (deg(u)+deg(v) at most twice the
	// threshold) vs Forman (above that) curvature estimation during Ricci
	// refinement. It lives in this section
	// but only the refiner reads it (ToRefinerConfig); forward.Config has
	// no such field.
	DegreeThreshold int `yaml:"degree_threshold"`
	// PressureDecay multiplies every pressure value carried in the packet
	// header (this node's own included) once per Pressure-mode decision.
	PressureDecay float64 `yaml:"pressure_decay"`
	// PressureIncrement is added to this node's own pressure value on each
	// Pressure-mode decision, before the decay is applied.
	PressureIncrement float64 `yaml:"pressure_increment"`
	// PressureBudgetFraction is range-checked by Validate only.
	// ToForwardConfig does not carry it: the forwarder's Pressure budget is
	// always half the estimated network size, independent of this value.
	PressureBudgetFraction float64 `yaml:"pressure_budget_fraction"`
	// NetworkSizeFloor is the assumed network size N when no better
	// estimate (registry count) is available, used for Pressure's budget
	// and the TTL formula.
	NetworkSizeFloor int `yaml:"network_size_floor"`
	// LookaheadDepth and LookaheadMaxNodes bound Gravity's optional
	// bounded lookahead before transitioning to Pressure. Zero depth
	// disables the lookahead.
	LookaheadDepth    int `yaml:"lookahead_depth"`
	LookaheadMaxNodes int `yaml:"lookahead_max_nodes"`
	// HyperbolicPotentialEnabled gates the distinguished-build
	// HyperbolicPotential recovery mode.
	HyperbolicPotentialEnabled bool `yaml:"hyperbolic_potential_enabled"`
	// PotentialKHop and PotentialIterations tune HyperbolicPotential's
	// local hitting-time-potential solve.
	PotentialKHop       int `yaml:"potential_k_hop"`
	PotentialIterations int `yaml:"potential_iterations"`
	// TTLAlpha, TTLBeta, TTLMin, TTLMax parameterize the submit-time TTL
	// budget formula: ttl = max(αN, β·logN·D, TTLMin), capped at TTLMax.
	TTLAlpha float64 `yaml:"ttl_alpha"`
	TTLBeta  float64 `yaml:"ttl_beta"`
	TTLMin   int     `yaml:"ttl_min"`
	TTLMax   int     `yaml:"ttl_max"`
}

// NeighborConfig tunes liveness and discovery timing (spec §4.8).
type NeighborConfig struct {
	FailureTimeout      time.Duration `yaml:"failure_timeout"`
	HeartbeatInterval   time.Duration `yaml:"heartbeat_interval"`
	DiscoveryInterval   time.Duration `yaml:"discovery_interval"`
	CoordUpdateInterval time.Duration `yaml:"coord_update_interval"`
	MaxNeighbors        int           `yaml:"max_neighbors"`
}

// RegistryConfig tunes home-node rendezvous registration (spec §4.4).
type RegistryConfig struct {
	RegistrationTTL      time.Duration `yaml:"registration_ttl"`
	RegistrationInterval time.Duration `yaml:"registration_interval"`
}

// RicciConfig tunes the discrete Ricci-flow coordinate refiner (spec §4.3).
type RicciConfig struct {
	// ProximalAlpha is the proximal-regularization weight α that pulls a
	// refinement step back toward the previous coordinate.
	ProximalAlpha float64 `yaml:"proximal_alpha"`
	// MaxDrift bounds the hyperbolic distance a single refinement step may
	// move a node's own coordinate (invariant 9).
	MaxDrift float64 `yaml:"max_drift"`
	// Step is the Ricci-flow gradient step size.
	Step float64 `yaml:"ricci_step"`
	// FlowIterations is the number of curvature-flow passes per refinement
	// round.
	FlowIterations int `yaml:"flow_iterations"`
	// CoordIterations is the number of coordinate-update passes per
	// refinement round.
	CoordIterations int `yaml:"coord_iterations"`
}

// EmbedConfig tunes the PIE/Landmark-MDS embedding builder (spec §4.2).
type EmbedConfig struct {
	// LandmarkCount overrides the builder's default landmark-selection
	// count (by default min(2·⌊√N⌋, 64), at least 4 and at most N). Zero
	// means "let the builder decide".
	LandmarkCount int `yaml:"landmark_count"`
}

// LoggingConfig configures the base rlog.Logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config populated with every default named in the
// specification's configuration table.
func DefaultConfig() *Config {
	return &Config{
		Hyperbolic: HyperbolicConfig{
			CurvatureParameter: 1.0,
			BoundaryMargin:     0.02,
		},
		Forwarding: ForwardingConfig{
			DegreeThreshold:            10,
			PressureDecay:              0.95,
			PressureIncrement:          5.0,
			PressureBudgetFraction:     0.25,
			NetworkSizeFloor:           1024,
			LookaheadDepth:             0,
			LookaheadMaxNodes:          0,
			HyperbolicPotentialEnabled: false,
			PotentialKHop:              3,
			PotentialIterations:        20,
			TTLAlpha:                   0.01,
			TTLBeta:                    5,
			TTLMin:                     200,
			TTLMax:                     500000,
		},
		Neighbor: NeighborConfig{
			FailureTimeout:      5 * time.Second,
			HeartbeatInterval:   1 * time.Second,
			DiscoveryInterval:   5 * time.Second,
			CoordUpdateInterval: 60 * time.Second,
			MaxNeighbors:        10,
		},
		Registry: RegistryConfig{
			RegistrationTTL:      5 * time.Minute,
			RegistrationInterval: 1 * time.Minute,
		},
		Ricci: RicciConfig{
			ProximalAlpha:   0.3,
			MaxDrift:        0.1,
			Step:            0.1,
			FlowIterations:  5,
			CoordIterations: 10,
		},
		Embed: EmbedConfig{
			LandmarkCount: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path, expands environment variables in it, and unmarshals it
// over a DefaultConfig. A missing file is not an error: Load returns the
// defaults unchanged, matching chaos-utils's Load.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "hyperroute.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks field ranges and cross-field constraints the spec calls
// out (§9's open-question decision: registration_interval must stay below
// registration_ttl or a registering node would let its own record expire
// between refreshes).
func (c *Config) Validate() error {
	if c.Hyperbolic.BoundaryMargin <= 0 || c.Hyperbolic.BoundaryMargin >= 1 {
		return fmt.Errorf("hyperbolic.boundary_margin must be in (0,1)")
	}
	if c.Neighbor.MaxNeighbors < 1 {
		return fmt.Errorf("neighbor.max_neighbors must be at least 1")
	}
	if c.Neighbor.HeartbeatInterval <= 0 {
		return fmt.Errorf("neighbor.heartbeat_interval must be positive")
	}
	if c.Neighbor.FailureTimeout <= c.Neighbor.HeartbeatInterval {
		return fmt.Errorf("neighbor.failure_timeout must exceed neighbor.heartbeat_interval")
	}
	if c.Registry.RegistrationInterval >= c.Registry.RegistrationTTL {
		return fmt.Errorf("registry.registration_interval must be less than registry.registration_ttl")
	}
	if c.Ricci.MaxDrift <= 0 {
		return fmt.Errorf("ricci.max_drift must be positive")
	}
	if c.Ricci.FlowIterations < 1 {
		return fmt.Errorf("ricci.flow_iterations must be at least 1")
	}
	if c.Ricci.CoordIterations < 1 {
		return fmt.Errorf("ricci.coord_iterations must be at least 1")
	}
	if c.Forwarding.PressureBudgetFraction <= 0 || c.Forwarding.PressureBudgetFraction > 1 {
		return fmt.Errorf("forwarding.pressure_budget_fraction must be in (0,1]")
	}

	return nil
}
