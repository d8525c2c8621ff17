// Package httpapi builds the HTTP surface around the websocket upgrade
// route: a health check and a debug mirror of the two debug queries
// (SPEC_FULL.md's "Supplemented Features" — debugging over plain HTTP
// without a live socket).
//
// Grounded on underpostnet-cyberia-server/src/api/router.go's
// middleware-stack-then-Route idiom.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
)

// DebugSource is the subset of the tick loop's state the debug mirror
// needs; internal/sim.Loop satisfies it.
type DebugSource interface {
	DebugQuadtreeRects(mapName mapdata.MapName) ([]geom.Rect, bool)
	DebugObjectPath(id object.ID) []geom.Vec3
}

// WebSocketHandler upgrades a connection; internal/transport/ws.Server
// satisfies this via its HandleUpgrade method.
type WebSocketHandler interface {
	HandleUpgrade(w http.ResponseWriter, r *http.Request)
}

// NewRouter builds the full HTTP router: CORS, request id/logging/panic
// recovery middleware, /healthz, /ws, and the /debug mirror.
func NewRouter(ws WebSocketHandler, debug DebugSource, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/ws", ws.HandleUpgrade)

	r.Get("/debug/quadtree", handleDebugQuadtree(debug))
	r.Get("/debug/path", handleDebugObjectPath(debug))

	return r
}

func handleDebugQuadtree(debug DebugSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mapName := mapdata.MapName(r.URL.Query().Get("map"))
		if mapName == "" {
			http.Error(w, "missing map query parameter", http.StatusBadRequest)
			return
		}
		rects, ok := debug.DebugQuadtreeRects(mapName)
		if !ok {
			http.Error(w, "unknown map", http.StatusNotFound)
			return
		}
		writeJSON(w, rects)
	}
}

func handleDebugObjectPath(debug DebugSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.URL.Query().Get("object"), 10, 64)
		if err != nil {
			http.Error(w, "invalid or missing object query parameter", http.StatusBadRequest)
			return
		}
		writeJSON(w, debug.DebugObjectPath(object.ID(id)))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
