// Package config loads and validates SimulationConfig from an optional TOML
// file plus QSIM_-prefixed environment overrides, using viper the way the
// rest of the dependency pack's config-driven services do.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ChannelConfig holds the physical parameters of a QuantumChannel.
type ChannelConfig struct {
	DistanceMeters       int     `mapstructure:"distance_meters"`
	AttenuationDBPerM    float64 `mapstructure:"attenuation_db_per_m"`
	LightSpeedMPerPs     float64 `mapstructure:"light_speed_m_per_ps"`
	FrequencyHz          float64 `mapstructure:"frequency_hz"`
	PolarizationFidelity float64 `mapstructure:"polarization_fidelity"`
}

// ClassicalConfig holds the physical parameters of a ClassicalChannel.
type ClassicalConfig struct {
	DistanceMeters   int     `mapstructure:"distance_meters"`
	LightSpeedMPerPs float64 `mapstructure:"light_speed_m_per_ps"`
}

// SimulationConfig is the complete, validated configuration for a run.
type SimulationConfig struct {
	Seed      int64           `mapstructure:"seed"`
	HorizonPs int64           `mapstructure:"horizon_ps"`
	LogLevel  string          `mapstructure:"log_level"`
	Channel   ChannelConfig   `mapstructure:"channel"`
	Classical ClassicalConfig `mapstructure:"classical"`
}

// Default returns the configuration used when no file is supplied, matching
// the demo CLI's two-node topology.
func Default() SimulationConfig {
	return SimulationConfig{
		Seed:      1,
		HorizonPs: 1_000_000_000,
		LogLevel:  "info",
		Channel: ChannelConfig{
			DistanceMeters:       10_000,
			AttenuationDBPerM:    0.0002,
			LightSpeedMPerPs:     2e-4,
			FrequencyHz:          1e6,
			PolarizationFidelity: 0.99,
		},
		Classical: ClassicalConfig{
			DistanceMeters:   10_000,
			LightSpeedMPerPs: 2e-4,
		},
	}
}

// Load reads configuration from the optional TOML file at path (empty
// string means "defaults only"), applies QSIM_-prefixed environment
// overrides, validates the result, and returns it.
func Load(path string) (SimulationConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("QSIM")
	v.AutomaticEnv()

	cfg := Default()
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("horizon_ps", cfg.HorizonPs)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("channel.distance_meters", cfg.Channel.DistanceMeters)
	v.SetDefault("channel.attenuation_db_per_m", cfg.Channel.AttenuationDBPerM)
	v.SetDefault("channel.light_speed_m_per_ps", cfg.Channel.LightSpeedMPerPs)
	v.SetDefault("channel.frequency_hz", cfg.Channel.FrequencyHz)
	v.SetDefault("channel.polarization_fidelity", cfg.Channel.PolarizationFidelity)
	v.SetDefault("classical.distance_meters", cfg.Classical.DistanceMeters)
	v.SetDefault("classical.light_speed_m_per_ps", cfg.Classical.LightSpeedMPerPs)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return SimulationConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var out SimulationConfig
	if err := v.Unmarshal(&out); err != nil {
		return SimulationConfig{}, fmt.Errorf("config: decoding: %w", err)
	}

	if err := Validate(out); err != nil {
		return SimulationConfig{}, err
	}
	return out, nil
}

// Validate rejects physically nonsensical configuration. This is a normal
// error return, never a panic - a malformed config file is an operator
// mistake, not programmer misuse of the simulator's API.
func Validate(cfg SimulationConfig) error {
	if cfg.HorizonPs < 0 {
		return fmt.Errorf("config: horizon_ps must be non-negative, got %d", cfg.HorizonPs)
	}
	if cfg.Channel.FrequencyHz <= 0 {
		return fmt.Errorf("config: channel.frequency_hz must be positive, got %f", cfg.Channel.FrequencyHz)
	}
	if cfg.Channel.LightSpeedMPerPs <= 0 {
		return fmt.Errorf("config: channel.light_speed_m_per_ps must be positive, got %f", cfg.Channel.LightSpeedMPerPs)
	}
	if cfg.Channel.AttenuationDBPerM < 0 {
		return fmt.Errorf("config: channel.attenuation_db_per_m must be non-negative, got %f", cfg.Channel.AttenuationDBPerM)
	}
	if cfg.Channel.DistanceMeters <= 0 {
		return fmt.Errorf("config: channel.distance_meters must be positive, got %d", cfg.Channel.DistanceMeters)
	}
	if cfg.Classical.LightSpeedMPerPs <= 0 {
		return fmt.Errorf("config: classical.light_speed_m_per_ps must be positive, got %f", cfg.Classical.LightSpeedMPerPs)
	}
	if cfg.Classical.DistanceMeters <= 0 {
		return fmt.Errorf("config: classical.distance_meters must be positive, got %d", cfg.Classical.DistanceMeters)
	}
	return nil
}
