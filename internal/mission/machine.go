package mission

import (
	"fmt"
	"sync"
)

// Machine tracks campaign progress as a set of completed mission IDs.
//
// Missions are strictly sequential: Evaluate only ever considers the
// lowest incomplete mission, so a later objective that happens to be
// satisfied early does not complete out of order.
//
// All public methods are thread-safe.
type Machine struct {
	mu        sync.RWMutex
	missions  []Mission
	completed map[int]bool
}

// NewMachine creates a machine over the given mission list with no
// progress.
func NewMachine(missions []Mission) *Machine {
	return &Machine{
		missions:  missions,
		completed: make(map[int]bool),
	}
}

// Current returns the lowest incomplete mission, or false when the
// campaign is finished.
func (m *Machine) Current() (Mission, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentLocked()
}

func (m *Machine) currentLocked() (Mission, bool) {
	for _, ms := range m.missions {
		if !m.completed[ms.ID] {
			return ms, true
		}
	}
	return Mission{}, false
}

// Evaluate checks the current mission's objective against the snapshot
// and marks it complete when satisfied. It keeps advancing while newly
// unlocked missions are also already satisfied, so a single action can
// complete several in a row.
//
// Returns:
//   - []Mission: Missions completed by this evaluation, in order
func (m *Machine) Evaluate(ctx Context) []Mission {
	m.mu.Lock()
	defer m.mu.Unlock()

	var done []Mission
	for {
		cur, ok := m.currentLocked()
		if !ok || cur.check == nil || !cur.check(ctx) {
			return done
		}
		m.completed[cur.ID] = true
		done = append(done, cur)
	}
}

// Complete marks a mission complete by ID, regardless of its predicate.
// Completing an already complete mission is a no-op.
//
// Returns:
//   - error: ErrMissionNotFound for unknown IDs, ErrMissionLocked when
//     an earlier mission is still incomplete
func (m *Machine) Complete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var target *Mission
	for i := range m.missions {
		if m.missions[i].ID == id {
			target = &m.missions[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: mission %d", ErrMissionNotFound, id)
	}
	if m.completed[id] {
		return nil
	}

	cur, ok := m.currentLocked()
	if !ok || cur.ID != id {
		return fmt.Errorf("%w: mission %d", ErrMissionLocked, id)
	}
	m.completed[id] = true
	return nil
}

// Reset clears all progress.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = make(map[int]bool)
}

// Statuses returns every mission with its completion and active flags,
// in play order. Exactly one mission is active unless all are complete.
func (m *Machine) Statuses() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cur, hasCur := m.currentLocked()
	out := make([]Status, 0, len(m.missions))
	for _, ms := range m.missions {
		out = append(out, Status{
			Mission:   ms,
			Completed: m.completed[ms.ID],
			Active:    hasCur && cur.ID == ms.ID,
		})
	}
	return out
}

// CompletedIDs returns the completed mission IDs in play order, for
// persistence snapshots.
func (m *Machine) CompletedIDs() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, 0, len(m.completed))
	for _, ms := range m.missions {
		if m.completed[ms.ID] {
			ids = append(ids, ms.ID)
		}
	}
	return ids
}

// Restore installs a saved completed set. IDs that do not match a known
// mission are dropped silently, so old saves survive campaign changes.
func (m *Machine) Restore(ids []int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.completed = make(map[int]bool)
	known := make(map[int]bool, len(m.missions))
	for _, ms := range m.missions {
		known[ms.ID] = true
	}
	for _, id := range ids {
		if known[id] {
			m.completed[id] = true
		}
	}
}

// AllComplete reports whether every mission is done.
func (m *Machine) AllComplete() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.currentLocked()
	return !ok
}

// CompletedCount returns how many missions are complete.
func (m *Machine) CompletedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.completed)
}

// TotalCount returns the number of missions in the campaign.
func (m *Machine) TotalCount() int {
	return len(m.missions)
}
