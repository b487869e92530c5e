package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

// PortsConfig names the MIDI ports the router looks for. Matching is by
// substring of the port name.
type PortsConfig struct {
	Input       string `json:"input"`                 // preferred controller input
	Loopback    string `json:"loopback"`              // fallback input of last resort
	Surface     string `json:"surface"`               // controller display output
	PassThrough string `json:"passThrough,omitempty"` // forward everything here instead of routing
}

// RacksConfig controls how rack outputs are created
type RacksConfig struct {
	// SkipPattern marks racks whose host listens on the controller directly
	SkipPattern string `json:"skipPattern,omitempty"`
	OutSuffix   string `json:"outSuffix"`
}

// Config is the main configuration structure
type Config struct {
	SetDir         string      `json:"setDir"`
	RunningFile    string      `json:"runningFile,omitempty"`
	Ports          PortsConfig `json:"ports"`
	Racks          RacksConfig `json:"racks"`
	FilterVolumeCC bool        `json:"filterVolumeCC,omitempty"`
	DryRunShutdown bool        `json:"dryRunShutdown,omitempty"`
	LogLevel       string      `json:"logLevel,omitempty"`
	Debug          bool        `json:"debug,omitempty"`
	Palette        string      `json:"palette,omitempty"` // GIMP palette for the monitor
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	setDir := "sets"
	if home, err := os.UserHomeDir(); err == nil {
		setDir = filepath.Join(home, "Documents", "Forte")
	}
	return &Config{
		SetDir: setDir,
		Ports: PortsConfig{
			Input:    "KeyLab",
			Loopback: "Internal MIDI",
			Surface:  "KeyLab",
		},
		Racks: RacksConfig{
			SkipPattern: "energyXT",
			OutSuffix:   " Midi Out",
		},
		LogLevel: "info",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fault.Wrap(err, fmsg.With("locate home directory"))
	}
	return filepath.Join(home, ".config", "rigrouter"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Missing fields keep their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("parse config", "The config file "+path+" is not valid JSON"))
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fault.Wrap(err, fmsg.With("create config directory"))
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("encode config"))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("write config"))
	}
	return nil
}

// RackOutName is the virtual output name for a rack, or "" when the rack
// gets no output of its own
func (c *Config) RackOutName(rackName string) string {
	if rackName == "" {
		return ""
	}
	if c.Racks.SkipPattern != "" && strings.Contains(rackName, c.Racks.SkipPattern) {
		return ""
	}
	return rackName + c.Racks.OutSuffix
}
