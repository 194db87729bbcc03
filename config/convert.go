package config

import (
	"github.com/katalvlaran/hyperroute/forward"
	"github.com/katalvlaran/hyperroute/neighbor"
	"github.com/katalvlaran/hyperroute/ricci"
)

// ToForwardConfig projects the loaded Forwarding section onto
// forward.Config, the shape the forwarding engine actually consumes.
func (c *Config) ToForwardConfig() forward.Config {
	return forward.Config{
		PressureIncrement:          c.Forwarding.PressureIncrement,
		PressureDecay:              c.Forwarding.PressureDecay,
		NetworkSizeFloor:           c.Forwarding.NetworkSizeFloor,
		LookaheadDepth:             c.Forwarding.LookaheadDepth,
		LookaheadMaxNodes:          c.Forwarding.LookaheadMaxNodes,
		HyperbolicPotentialEnabled: c.Forwarding.HyperbolicPotentialEnabled,
		PotentialKHop:              c.Forwarding.PotentialKHop,
		PotentialIterations:        c.Forwarding.PotentialIterations,
		TTLAlpha:                   c.Forwarding.TTLAlpha,
		TTLBeta:                    c.Forwarding.TTLBeta,
		TTLMin:                     c.Forwarding.TTLMin,
		TTLMax:                     c.Forwarding.TTLMax,
	}
}

// ToRefinerConfig projects the loaded Ricci section, plus the shared
// Forwarding.DegreeThreshold knob, onto ricci.RefinerConfig.
func (c *Config) ToRefinerConfig() ricci.RefinerConfig {
	return ricci.RefinerConfig{
		DegreeThreshold: c.Forwarding.DegreeThreshold,
		ProximalAlpha:   c.Ricci.ProximalAlpha,
		MaxDrift:        c.Ricci.MaxDrift,
		Step:            c.Ricci.Step,
		FlowIterations:  c.Ricci.FlowIterations,
		CoordIterations: c.Ricci.CoordIterations,
	}
}

// ToNeighborRunnerConfig projects the loaded Neighbor section onto
// neighbor.Config, the shape the neighbor.Runner actually consumes.
func (c *Config) ToNeighborRunnerConfig() neighbor.Config {
	return neighbor.Config{
		DiscoveryInterval:   c.Neighbor.DiscoveryInterval,
		HeartbeatInterval:   c.Neighbor.HeartbeatInterval,
		CoordUpdateInterval: c.Neighbor.CoordUpdateInterval,
		FailureTimeout:      c.Neighbor.FailureTimeout,
	}
}
