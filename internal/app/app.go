// Package app wires every component into a runnable server process.
// Grounded on internal/app/app.go's Run(ctx, cfg) shape: construct the
// logger, build the simulation, start it on its own goroutine, build the
// HTTP handler, and block in http.Server.ListenAndServe.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"ridgeworld/server/internal/config"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/sim"
	"ridgeworld/server/internal/telemetry"
	"ridgeworld/server/internal/transport/httpapi"
	"ridgeworld/server/internal/transport/ws"
)

// Config bundles the override points a caller (tests, cmd/server) may
// want to supply instead of letting Run build its own.
type Config struct {
	Logger telemetry.Logger
	Env    *config.Env
	Tuning *config.Tuning
}

// Run boots the server and blocks in http.Server.ListenAndServe until ctx
// is cancelled or the listener fails.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		built, err := telemetry.NewProductionLogger()
		if err != nil {
			return fmt.Errorf("app: build logger: %w", err)
		}
		logger = built
	}

	env := config.Env{}
	if cfg.Env != nil {
		env = *cfg.Env
	} else {
		env = config.LoadEnv()
	}

	tuning := config.Tuning{}
	if cfg.Tuning != nil {
		tuning = *cfg.Tuning
	} else {
		loaded, err := config.LoadTuning(env.TuningPath)
		if err != nil {
			return fmt.Errorf("app: load tuning: %w", err)
		}
		tuning = loaded
	}

	repo, err := mapdata.Load(env.AssetDir)
	if err != nil {
		return fmt.Errorf("app: load map data: %w", err)
	}
	if !repo.Exists(tuning.StartingMap) {
		return fmt.Errorf("app: starting map %q not found under %s", tuning.StartingMap, env.AssetDir)
	}

	wsServer := ws.NewServer(logger)

	loop := sim.NewLoop(repo, wsServer, sim.Config{
		TickHz:          tuning.TickHz,
		StartingMap:     tuning.StartingMap,
		SpawnRect:       tuning.SpawnRect(),
		PathWorkerCount: tuning.PathWorkerCount,
		PathQueueDepth:  tuning.PathQueueDepth,
		DrainBudget:     env.DrainBudget,
	}, rand.New(rand.NewSource(time.Now().UnixNano())), logger)

	stop := make(chan struct{})
	go loop.Run(stop)
	defer func() {
		close(stop)
		loop.Stop()
	}()

	router := httpapi.NewRouter(wsServer, loop, env.AllowedOrigins)
	httpServer := &http.Server{Addr: env.ListenAddr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	logger.Infof("server listening", telemetry.F("addr", env.ListenAddr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("app: http server failed: %w", err)
	}
	return nil
}
