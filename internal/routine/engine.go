package routine

import (
	"fmt"
	"sync"
	"time"

	"github.com/wattquest/wattquest-core/internal/device"
)

// maxRunHistory bounds the in-memory execution log.
const maxRunHistory = 50

// Engine executes routines against a device registry and keeps a short
// execution history.
//
// All public methods are thread-safe.
type Engine struct {
	mu       sync.RWMutex
	routines []Routine
	registry *device.Registry
	history  []Run
}

// NewEngine creates an engine over the built-in routines.
func NewEngine(registry *device.Registry) *Engine {
	return &Engine{
		routines: Defaults(),
		registry: registry,
	}
}

// List returns the available routines in display order.
func (e *Engine) List() []Routine {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Routine, len(e.routines))
	copy(out, e.routines)
	return out
}

// Run executes a routine by ID, applying its patches to every matching
// device in the registry.
//
// Returns:
//   - Run: The execution record, including affected device IDs
//   - error: ErrRoutineNotFound for unknown IDs
func (e *Engine) Run(id string) (Run, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var routine *Routine
	for i := range e.routines {
		if e.routines[i].ID == id {
			routine = &e.routines[i]
			break
		}
	}
	if routine == nil {
		return Run{}, fmt.Errorf("%w: %s", ErrRoutineNotFound, id)
	}

	var affected []string
	for _, d := range e.registry.List() {
		patch := routine.patchFor(d)
		if patch.IsZero() {
			continue
		}
		if _, err := e.registry.Update(d.ID, patch); err != nil {
			// List and Update see the same registry; a miss here means
			// the device vanished mid-run, which we treat as skipped.
			continue
		}
		affected = append(affected, d.ID)
	}

	run := Run{
		ID:              newRunID(),
		RoutineID:       routine.ID,
		RoutineName:     routine.Name,
		DevicesAffected: affected,
		RanAt:           time.Now().UTC(),
	}

	e.history = append(e.history, run)
	if len(e.history) > maxRunHistory {
		e.history = e.history[len(e.history)-maxRunHistory:]
	}
	return run, nil
}

// History returns past executions, most recent last.
func (e *Engine) History() []Run {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Run, len(e.history))
	copy(out, e.history)
	return out
}

// ClearHistory drops the execution log. Used on game reset.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}
