// Package config loads boot-time configuration from two sources, matching
// the ambient-stack split the examples show: deployment secrets/overrides
// from a .env file via github.com/joho/godotenv (the getEnv-over-.env
// idiom grounded on underpostnet-cyberia-server/src/api/config.go), and
// simulation tuning constants from a checked-in YAML file via
// gopkg.in/yaml.v3 (the struct-tag-plus-os.ReadFile idiom grounded on
// rdtc8822-debug-L1JGO-Whale/internal/data/npc.go's LoadNpcTable).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
)

// Env holds deployment-specific settings sourced from the process
// environment, with a .env file (if present) loaded first.
type Env struct {
	ListenAddr     string
	AssetDir       string
	TuningPath     string
	AllowedOrigins []string
	DrainBudget    time.Duration
}

// LoadEnv loads .env (if present; a missing file is not an error — matches
// godotenv.Load's own convention of silently doing nothing in production
// where secrets come from the real environment instead) then reads the
// named variables with defaults.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		ListenAddr:     getEnv("RIDGEWORLD_ADDR", ":8080"),
		AssetDir:       getEnv("RIDGEWORLD_ASSET_DIR", "assets/maps"),
		TuningPath:     getEnv("RIDGEWORLD_TUNING_PATH", "config.yaml"),
		AllowedOrigins: splitCSV(getEnv("RIDGEWORLD_ALLOWED_ORIGINS", "*")),
		DrainBudget:    parseDuration(getEnv("RIDGEWORLD_DRAIN_BUDGET", "1ms"), time.Millisecond),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// Tuning captures the simulation constants spec.md names explicitly
// (path worker pool sizing, starting map, spawn area) that operators may
// want to adjust per deployment without a rebuild.
type Tuning struct {
	TickHz          int             `yaml:"tick_hz"`
	StartingMap     mapdata.MapName `yaml:"starting_map"`
	SpawnCenterX    float64         `yaml:"spawn_center_x"`
	SpawnCenterY    float64         `yaml:"spawn_center_y"`
	SpawnExtentX    float64         `yaml:"spawn_extent_x"`
	SpawnExtentY    float64         `yaml:"spawn_extent_y"`
	PathWorkerCount int             `yaml:"path_worker_count"`
	PathQueueDepth  int             `yaml:"path_queue_depth"`
}

// SpawnRect converts the flat YAML fields into a geom.Rect.
func (t Tuning) SpawnRect() geom.Rect {
	return geom.Rect{
		Center:  geom.Vec2{X: t.SpawnCenterX, Y: t.SpawnCenterY},
		Extents: geom.Vec2{X: t.SpawnExtentX, Y: t.SpawnExtentY},
	}
}

// DefaultTuning matches spec.md's own named defaults (2 path workers, a
// queue deep enough to absorb a burst of simultaneous repaths).
func DefaultTuning() Tuning {
	return Tuning{
		TickHz:          40,
		StartingMap:     "overworld",
		SpawnCenterX:    512,
		SpawnCenterY:    512,
		SpawnExtentX:    256,
		SpawnExtentY:    256,
		PathWorkerCount: 2,
		PathQueueDepth:  64,
	}
}

// LoadTuning reads path as YAML, falling back to DefaultTuning() if the
// file does not exist — a fresh checkout should boot without any config
// authoring.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultTuning(), nil
	}
	if err != nil {
		return Tuning{}, fmt.Errorf("config: read tuning file: %w", err)
	}
	tuning := DefaultTuning()
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return Tuning{}, fmt.Errorf("config: parse tuning file: %w", err)
	}
	if tuning.TickHz <= 0 {
		return Tuning{}, fmt.Errorf("config: tick_hz must be positive, got %d", tuning.TickHz)
	}
	if tuning.PathWorkerCount <= 0 {
		return Tuning{}, fmt.Errorf("config: path_worker_count must be positive, got %d", tuning.PathWorkerCount)
	}
	if tuning.PathQueueDepth <= 0 {
		return Tuning{}, fmt.Errorf("config: path_queue_depth must be positive, got %d", tuning.PathQueueDepth)
	}
	return tuning, nil
}
