package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Ports.Input != "KeyLab" || cfg.Ports.Loopback != "Internal MIDI" {
		t.Errorf("ports = %+v", cfg.Ports)
	}
	if cfg.Racks.SkipPattern != "energyXT" {
		t.Errorf("skip pattern = %q", cfg.Racks.SkipPattern)
	}
}

func TestSaveAndLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.SetDir = "/gigs"
	cfg.Ports.PassThrough = "Forte"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if got.SetDir != "/gigs" || got.Ports.PassThrough != "Forte" {
		t.Errorf("round trip lost fields: %+v", got)
	}

	partial := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(partial, []byte(`{"setDir": "/x"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err = LoadFrom(partial)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if got.SetDir != "/x" || got.Racks.OutSuffix != " Midi Out" {
		t.Errorf("partial config = %+v", got)
	}
}

func TestLoadFromBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatalf("expected an error for malformed config")
	}
}

func TestRackOutName(t *testing.T) {
	cfg := DefaultConfig()
	cases := map[string]string{
		"Pianoteq":   "Pianoteq Midi Out",
		"energyXT 2": "",
		"":           "",
	}
	for rack, want := range cases {
		if got := cfg.RackOutName(rack); got != want {
			t.Errorf("RackOutName(%q) = %q, expected %q", rack, got, want)
		}
	}
}

func TestSavedPortsBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := DefaultConfig().SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var saved struct {
		Ports map[string]any `json:"ports"`
	}
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(saved.Ports) != 3 || saved.Ports["input"] != "KeyLab" || saved.Ports["surface"] != "KeyLab" {
		t.Errorf("ports block = %v, expected only input, loopback and surface", saved.Ports)
	}
}
