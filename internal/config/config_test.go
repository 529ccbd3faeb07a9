package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "agent.yaml")
	raw := []byte("gateway:\n  url: ws://example:9000/v1/ws\nsim:\n  tick_rate_hz: 10\n")
	if err := os.WriteFile(p, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Gateway.URL != "ws://example:9000/v1/ws" {
		t.Fatalf("url not overridden: %q", c.Gateway.URL)
	}
	if c.Sim.TickRateHz != 10 {
		t.Fatalf("tick rate not overridden: %d", c.Sim.TickRateHz)
	}
	// Omitted keys keep defaults.
	if c.Sim.WalkSpeed != Default().Sim.WalkSpeed {
		t.Fatalf("walk speed lost default: %v", c.Sim.WalkSpeed)
	}
}

func TestValidate_RejectsBadTickRate(t *testing.T) {
	c := Default()
	c.Sim.TickRateHz = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for zero tick rate")
	}
}
