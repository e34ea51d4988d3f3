package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/dshills/match3sim/pkg/board"
	"github.com/dshills/match3sim/pkg/config"
	"github.com/dshills/match3sim/pkg/engine"
	"github.com/dshills/match3sim/pkg/events"
	"github.com/dshills/match3sim/pkg/export"
	"github.com/dshills/match3sim/pkg/geom"
)

var (
	ticksServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "match3sim_ticks_total",
		Help: "Total number of engine ticks driven by the server.",
	})
	swapsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match3sim_swaps_total",
		Help: "Total number of swap requests, partitioned by outcome.",
	}, []string{"outcome"})
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// session wraps one live Engine plus the lock guarding it from the
// handful of HTTP handlers that touch it concurrently.
type session struct {
	id   string
	mu   sync.Mutex
	eng  *engine.Engine
	coll *events.Buffered
}

// runServer exposes a live engine over a small chi-routed HTTP API: a
// swap endpoint, a state endpoint, health and metrics endpoints, and a
// websocket stream that pushes the engine's event trace to a connected
// renderer as the simulation runs on its own ticker. There is no
// endpoint for stepping the simulation by hand.
func runServer(ctx context.Context, cfg *config.LevelConfig, addr string, verbose bool) error {
	gs, err := board.NewGameStateFromLevelConfig(cfg)
	if err != nil {
		return fmt.Errorf("constructing board: %w", err)
	}

	simCfg := config.DefaultSimConfig()
	coll := events.NewBuffered()
	eng := engine.New(gs, simCfg, nil)
	eng.SetCollector(coll)
	sess := &session{id: uuid.NewString(), eng: eng, coll: coll}
	if verbose {
		log.Printf("session %s: board %dx%d seed=%d", sess.id, gs.Width, gs.Height, gs.Seed)
	}

	limiter := rate.NewLimiter(rate.Every(time.Second/20), 10)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/swap", rateLimited(limiter, sess.handleSwap))
	r.Get("/state", sess.handleState)
	r.Get("/ws", sess.handleWebsocket)

	srv := &http.Server{Addr: addr, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		if verbose {
			log.Printf("match3sim server listening on %s", addr)
		}
		errCh <- srv.ListenAndServe()
	}()

	go sess.driveTicks(ctx, simCfg.TickRateHz)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}
}

func rateLimited(l *rate.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

type swapRequest struct {
	From scriptPos `json:"from"`
	To   scriptPos `json:"to"`
}

func (s *session) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.eng.Swap(geom.Pos(req.From.X, req.From.Y), geom.Pos(req.To.X, req.To.Y))
	s.mu.Unlock()

	if err != nil {
		swapsServed.WithLabelValues("rejected").Inc()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	swapsServed.WithLabelValues("accepted").Inc()
	w.WriteHeader(http.StatusAccepted)
}

type sessionState struct {
	SessionID string `json:"sessionId"`
	export.BoardDump
}

func (s *session) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sessionState{SessionID: s.id, BoardDump: export.DumpBoard(s.eng.GS)})
}

// handleWebsocket upgrades the connection and streams every event the
// engine emits from this point on, drained off the Buffered collector
// on the same cadence as the server's own tick driver.
func (s *session) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			evs := s.coll.Drain()
			s.mu.Unlock()
			if len(evs) == 0 {
				continue
			}
			if err := conn.WriteJSON(evs); err != nil {
				return
			}
		}
	}
}

// driveTicks runs the engine forward on its own clock, independent of
// any connected websocket client, so the board keeps resolving cascades
// and gravity even between client polls.
func (s *session) driveTicks(ctx context.Context, tickRateHz float64) {
	dt := 1.0 / tickRateHz
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.eng.Tick(dt)
			s.mu.Unlock()
			ticksServed.Inc()
		}
	}
}
