package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"rigrouter/config"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig", "config.json")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		flags.config, flags.force = "", false
	})

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("output = %q", out.String())
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Ports.Input != "KeyLab" || cfg.Racks.OutSuffix != " Midi Out" {
		t.Errorf("written config = %+v", cfg)
	}

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("second init must refuse to overwrite")
	}

	rootCmd.SetArgs([]string{"config", "init", "--config", path, "--force"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
}
