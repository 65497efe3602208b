package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Sanity(t *testing.T) {
	d := Default()
	if d.Population.BaseGrowthRate <= 0 {
		t.Fatalf("base growth rate %v", d.Population.BaseGrowthRate)
	}
	if d.Population.DeclineStability <= 0 || d.Population.DeclineStability >= 100 {
		t.Fatalf("decline stability %v outside (0, 100)", d.Population.DeclineStability)
	}
	if d.Emergence.PoolMultiple != 100 {
		t.Fatalf("pool multiple %v, want 100", d.Emergence.PoolMultiple)
	}
	if d.Events.HistoryCap <= 0 {
		t.Fatalf("history cap %d", d.Events.HistoryCap)
	}
	if FTLTechLevel <= SpacefaringTechLevel {
		t.Fatalf("threshold ordering broken: ftl %d, spacefaring %d", FTLTechLevel, SpacefaringTechLevel)
	}
}

func TestLoad_OverlaysOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte(`
population:
  base_growth_rate: 0.05
events:
  history_cap: 128
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Population.BaseGrowthRate != 0.05 {
		t.Fatalf("growth rate = %v, want override 0.05", got.Population.BaseGrowthRate)
	}
	if got.Events.HistoryCap != 128 {
		t.Fatalf("history cap = %d, want override 128", got.Events.HistoryCap)
	}
	// Untouched sections keep their defaults.
	if got.Technology.BaseCost != Default().Technology.BaseCost {
		t.Fatalf("base cost = %v, default lost", got.Technology.BaseCost)
	}
	if got.Population.DeclineStability != Default().Population.DeclineStability {
		t.Fatalf("decline stability = %v, default lost", got.Population.DeclineStability)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if got.Population.BaseGrowthRate != Default().Population.BaseGrowthRate {
		t.Fatalf("error path should still return defaults")
	}
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("population: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
