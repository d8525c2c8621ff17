package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTuningFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	tuning, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tuning != DefaultTuning() {
		t.Fatalf("expected defaults, got %+v", tuning)
	}
}

func TestLoadTuningParsesYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("starting_map: crypt\npath_worker_count: 8\npath_queue_depth: 128\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tuning.StartingMap != "crypt" || tuning.PathWorkerCount != 8 || tuning.PathQueueDepth != 128 {
		t.Fatalf("unexpected tuning: %+v", tuning)
	}
}

func TestLoadTuningRejectsNonPositiveWorkerCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("path_worker_count: 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadTuning(path); err == nil {
		t.Fatalf("expected an error for a zero worker count")
	}
}

func TestLoadTuningRejectsNonPositiveTickHz(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("tick_hz: 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadTuning(path); err == nil {
		t.Fatalf("expected an error for a zero tick rate")
	}
}

func TestSplitCSVTrimsEmptyEntries(t *testing.T) {
	got := splitCSV("a,b,,c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
