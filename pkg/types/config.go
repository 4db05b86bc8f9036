// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultLateralWidth is the lane corridor width used when none is configured.
const DefaultLateralWidth = 2.0

// ExtractConfig holds settings for preceding-vehicle extraction.
type ExtractConfig struct {
	// LateralWidth is the exclusive bound on |agent.x - sv.x| for an agent
	// to count as being in the subject's lane (default 2).
	LateralWidth float64 `json:"lateral_width" yaml:"lateral_width"`
}

// RSSConfig holds the responsibility-sensitive safety constants used to
// evaluate predicates over extracted signals.
type RSSConfig struct {
	// Rho is the maximum response time of the rear vehicle.
	Rho float64 `json:"rho" yaml:"rho"`

	// AMaxAcc is the maximum allowed acceleration.
	AMaxAcc float64 `json:"a_max_acc" yaml:"a_max_acc"`

	// AMaxBr is the maximum allowed braking deceleration.
	AMaxBr float64 `json:"a_max_br" yaml:"a_max_br"`

	// AMinBr is the minimum braking required when the situation is critical.
	AMinBr float64 `json:"a_min_br" yaml:"a_min_br"`

	// DLat is the lateral distance under which two vehicles share a lane.
	DLat float64 `json:"d_lat" yaml:"d_lat"`
}

// StoreConfig holds settings for the SQLite run store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "vrss.db").
	DBPath string `json:"db" yaml:"db"`
}

// Config groups all settings read from vrss.yaml.
type Config struct {
	Extract  ExtractConfig `json:"extract" yaml:"extract"`
	RSS      RSSConfig     `json:"rss" yaml:"rss"`
	Store    StoreConfig   `json:"store" yaml:"store"`
	LogLevel string        `json:"log_level" yaml:"log_level"`
}

// DefaultRSSConfig returns the constants of the reference simulator setup.
func DefaultRSSConfig() RSSConfig {
	return RSSConfig{
		Rho:     1.0,
		AMaxAcc: 2,
		AMaxBr:  9,
		AMinBr:  7,
		DLat:    4,
	}
}

// DefaultConfig returns the configuration used when no config file is found.
func DefaultConfig() Config {
	return Config{
		Extract:  ExtractConfig{LateralWidth: DefaultLateralWidth},
		RSS:      DefaultRSSConfig(),
		Store:    StoreConfig{DBPath: "vrss.db"},
		LogLevel: "warn",
	}
}
