package storage

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/sim"
)

func runSingle(t *testing.T) (*config.Config, *sim.Result) {
	t.Helper()
	cfg := config.GetPreset("single")
	s, err := cfg.NewSimulator()
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	result, err := sim.New(s).Run(context.Background(), sim.Config{MaxTicks: 5000, SampleEvery: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return cfg, result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result := runSingle(t)
	runID, err := st.Save("single", 5, cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scene != "single" {
		t.Errorf("expected scene 'single', got '%s'", meta.Scene)
	}
	if !meta.Settled || meta.Ticks != result.Ticks {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Bodies != 1 || meta.Height != 400 {
		t.Errorf("unexpected scene shape %+v", meta)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != len(result.Samples) {
		t.Fatalf("expected %d samples, got %d", len(result.Samples), len(samples))
	}
	last := samples[len(samples)-1]
	if last.Y != 388 || last.Moving || last.Phase != "stopping" || last.Color != "pink2" {
		t.Errorf("unexpected last sample %+v", last)
	}

	loaded, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if loaded.Height != 400 || len(loaded.Bodies) != 1 {
		t.Errorf("unexpected config %+v", loaded)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	cfg, result := runSingle(t)
	first, err := st.Save("single", 5, cfg, result)
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.Save("single", 5, cfg, result)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("run ids collided: %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/absent")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSamples("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreSaveFailureRemovesRunDir(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result := runSingle(t)
	result.WaterDensity = math.NaN()
	if _, err := st.Save("broken", 5, cfg, result); err == nil {
		t.Fatal("expected error for a density JSON cannot encode")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directory left behind, found %d entries", len(entries))
	}
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
