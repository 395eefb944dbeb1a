// Package config provides application-wide configuration.
// All fields have safe defaults so the binaries run locally without any
// env setup. Precedence: defaults < YAML config file < environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the bridge and the mock shop.
type Config struct {
	// Bridge
	BridgeHost string `yaml:"bridge_host"` // BRIDGE_HOST — default: "0.0.0.0"
	BridgePort int    `yaml:"bridge_port"` // BRIDGE_PORT — default: 8000

	// Upstream UCP commerce service
	UCPBaseURL             string `yaml:"ucp_base_url"`             // UCP_BASE_URL — default: "http://localhost:8080"
	UpstreamTimeoutSeconds int    `yaml:"upstream_timeout_seconds"` // UPSTREAM_TIMEOUT_SECONDS — default: 30

	// Mock flower shop
	FlowershopPort   int    `yaml:"flowershop_port"`    // FLOWERSHOP_PORT — default: 8080
	FlowershopDBPath string `yaml:"flowershop_db_path"` // FLOWERSHOP_DB_PATH — default: ":memory:"
}

const (
	envKeyBridgeHost             = "BRIDGE_HOST"
	envKeyBridgePort             = "BRIDGE_PORT"
	envKeyUCPBaseURL             = "UCP_BASE_URL"
	envKeyUpstreamTimeoutSeconds = "UPSTREAM_TIMEOUT_SECONDS"
	envKeyFlowershopPort         = "FLOWERSHOP_PORT"
	envKeyFlowershopDBPath       = "FLOWERSHOP_DB_PATH"
)

// Defaults returns the built-in configuration used when nothing is set.
func Defaults() Config {
	return Config{
		BridgeHost:             "0.0.0.0",
		BridgePort:             8000,
		UCPBaseURL:             "http://localhost:8080",
		UpstreamTimeoutSeconds: 30,
		FlowershopPort:         8080,
		FlowershopDBPath:       ":memory:",
	}
}

// Load reads configuration from environment variables, applying defaults
// for missing values.
func Load() Config {
	return applyEnv(Defaults())
}

// LoadFile reads a YAML config file, then applies environment overrides on
// top. Missing file fields keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %q: %w", path, err)
	}

	return applyEnv(cfg), nil
}

// applyEnv overrides cfg fields from environment variables where set.
func applyEnv(cfg Config) Config {
	cfg.BridgeHost = envOr(envKeyBridgeHost, cfg.BridgeHost)
	cfg.BridgePort = envIntOr(envKeyBridgePort, cfg.BridgePort)
	cfg.UCPBaseURL = envOr(envKeyUCPBaseURL, cfg.UCPBaseURL)
	cfg.UpstreamTimeoutSeconds = envIntOr(envKeyUpstreamTimeoutSeconds, cfg.UpstreamTimeoutSeconds)
	cfg.FlowershopPort = envIntOr(envKeyFlowershopPort, cfg.FlowershopPort)
	cfg.FlowershopDBPath = envOr(envKeyFlowershopDBPath, cfg.FlowershopDBPath)
	return cfg
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOr returns the integer value of the environment variable key, or
// fallback if not set or not a valid positive integer.
func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
