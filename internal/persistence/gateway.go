package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// Logger is the minimal logging surface the gateway needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Gateway is the two-tier persistence facade.
//
// The durable tier (SQLite) is preferred; when it fails its availability
// probe the gateway degrades to the memory tier for the rest of the
// session, so gameplay never blocks on storage. The probe runs lazily on
// the first operation and its verdict is cached.
//
// Save never returns an error: a failed durable write falls through to
// memory, and a memory write cannot fail. Load returns nil for missing
// or malformed snapshots rather than an error, because a broken save is
// equivalent to no save.
type Gateway struct {
	mu       sync.Mutex
	durable  Store
	fallback Store
	probed   bool
	healthy  bool
	logger   Logger
}

// NewGateway creates a gateway over a durable store and a memory
// fallback. durable may be nil, in which case the gateway runs
// memory-only from the start.
func NewGateway(durable Store, fallback Store) *Gateway {
	return &Gateway{
		durable:  durable,
		fallback: fallback,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the gateway.
func (g *Gateway) SetLogger(logger Logger) {
	g.logger = logger
}

// active returns the tier to use, running the availability probe on
// first call.
func (g *Gateway) active(ctx context.Context) Store {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.probed {
		g.probed = true
		g.healthy = g.durable != nil && g.durable.Ping(ctx) == nil
		if !g.healthy {
			g.logger.Warn("durable storage unavailable, using in-memory saves")
		}
	}
	if g.healthy {
		return g.durable
	}
	return g.fallback
}

// demote marks the durable tier failed so later operations skip it.
func (g *Gateway) demote(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.healthy {
		g.healthy = false
		g.logger.Warn("durable storage failed, degrading to in-memory saves", "error", err)
	}
}

// Durable reports whether saves are currently going to durable storage.
// Before the first operation this reflects the probe that call will run.
func (g *Gateway) Durable(ctx context.Context) bool {
	g.active(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.healthy
}

// Save writes a snapshot to the active tier. It never returns an error:
// a durable failure degrades the gateway and retries on the fallback.
func (g *Gateway) Save(ctx context.Context, state *GameState) {
	state.Version = SchemaVersion
	state.SavedAt = time.Now().UTC()

	payload, err := json.Marshal(state)
	if err != nil {
		// Cannot happen for GameState, but a lost save is not fatal.
		g.logger.Error("failed to encode snapshot", "error", err)
		return
	}

	store := g.active(ctx)
	if err := store.Put(ctx, DefaultSlot, payload); err != nil {
		g.demote(err)
		if err := g.fallback.Put(ctx, DefaultSlot, payload); err != nil {
			g.logger.Error("fallback save failed", "error", err)
			return
		}
	}
	g.logger.Debug("game saved", "bytes", len(payload), "durable", g.Durable(ctx))
}

// Load reads the snapshot from the active tier.
//
// Returns:
//   - *GameState: The snapshot, or nil when none exists or the stored
//     payload is malformed or from an incompatible schema version
func (g *Gateway) Load(ctx context.Context) *GameState {
	store := g.active(ctx)
	payload, err := store.Get(ctx, DefaultSlot)
	if err != nil {
		// An empty slot is normal on both tiers; a real read failure on
		// the durable tier degrades the session.
		if !errors.Is(err, ErrSlotEmpty) && g.Durable(ctx) {
			g.demote(err)
		}
		return nil
	}
	return decodeSnapshot(payload, g.logger)
}

// Clear removes the snapshot from both tiers, regardless of which is
// active. Used on game reset so a degraded session cannot resurrect a
// stale durable save later.
func (g *Gateway) Clear(ctx context.Context) {
	if g.durable != nil {
		if err := g.durable.Delete(ctx, DefaultSlot); err != nil {
			g.logger.Warn("failed to clear durable save", "error", err)
		}
	}
	//nolint:errcheck // memory delete cannot fail
	g.fallback.Delete(ctx, DefaultSlot)
}

func decodeSnapshot(payload []byte, logger Logger) *GameState {
	var state GameState
	if err := json.Unmarshal(payload, &state); err != nil {
		logger.Warn("discarding malformed snapshot", "error", err)
		return nil
	}
	if !state.Valid() {
		logger.Warn("discarding incompatible snapshot", "version", state.Version)
		return nil
	}
	return &state
}
