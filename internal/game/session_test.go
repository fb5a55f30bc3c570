package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wattquest/wattquest-core/internal/persistence"
	"github.com/wattquest/wattquest-core/internal/world"
)

const testSecret = "test-secret-0123456789abcdef-0123456789abcdef"

func testOptions() Options {
	// Zero latencies make every effect synchronous.
	return Options{
		ProximityThreshold: 15,
		SafeWatts:          300,
		AvatarStep:         2.5,
	}
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	return newTestSessionWith(t, opts, persistence.NewGateway(nil, persistence.NewMemoryStore()))
}

func newTestSessionWith(t *testing.T, opts Options, gw *persistence.Gateway) *Session {
	t.Helper()

	codec, err := persistence.NewCodec(persistence.CodecConfig{Secret: testSecret})
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	s := New(opts, gw, codec)
	t.Cleanup(s.Close)
	return s
}

// eventSink collects session events for assertions.
type eventSink struct {
	mu     sync.Mutex
	events []Event
}

func (c *eventSink) Notify(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *eventSink) ofType(t EventType) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Event
	for _, e := range c.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// walkAndConnect moves the avatar beside a device and connects it.
func walkAndConnect(t *testing.T, s *Session, id string) {
	t.Helper()
	if _, err := s.WalkToDevice(id); err != nil {
		t.Fatalf("WalkToDevice(%s): %v", id, err)
	}
	if err := s.Connect(id); err != nil {
		t.Fatalf("Connect(%s): %v", id, err)
	}
}

func TestSessionInitialSnapshot(t *testing.T) {
	s := newTestSession(t, testOptions())

	v := s.Snapshot(context.Background())
	if len(v.Devices) != 6 {
		t.Errorf("expected 6 devices, got %d", len(v.Devices))
	}
	if v.TotalWatts != 3810 {
		t.Errorf("expected 3810W, got %d", v.TotalWatts)
	}
	if !v.OverBudget {
		t.Error("seed state should be over budget")
	}
	if v.ActiveTab != "home" {
		t.Errorf("expected home tab, got %s", v.ActiveTab)
	}
	if v.Avatar.X != 50 || v.Avatar.Y != 80 {
		t.Errorf("unexpected spawn: %+v", v.Avatar)
	}
	if v.CompletedCount != 0 || v.AllComplete {
		t.Error("campaign should start fresh")
	}
}

func TestSessionConnectProximityGate(t *testing.T) {
	s := newTestSession(t, testOptions())
	sink := &eventSink{}
	s.AddNotifier(sink)

	// Spawn at 50,80 is out of range of the TV at 25,30.
	err := s.Connect("tv-1")
	if !errors.Is(err, world.ErrTooFar) {
		t.Fatalf("expected ErrTooFar, got %v", err)
	}
	if len(sink.ofType(EventInteractionDenied)) != 1 {
		t.Error("denied interaction should emit an event")
	}

	walkAndConnect(t, s, "tv-1")
	d, _ := s.Device("tv-1")
	if !d.IsConnected {
		t.Error("TV should be connected")
	}

	// Idempotent.
	if err := s.Connect("tv-1"); err != nil {
		t.Errorf("reconnecting should be a no-op, got %v", err)
	}
}

func TestSessionConnectUnknownDevice(t *testing.T) {
	s := newTestSession(t, testOptions())

	if err := s.Connect("ghost-1"); err == nil {
		t.Error("expected error for unknown device")
	}
}

func TestSessionTogglePower(t *testing.T) {
	s := newTestSession(t, testOptions())

	// Control before connection is rejected.
	if err := s.TogglePower("tv-1"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}

	walkAndConnect(t, s, "tv-1")
	if err := s.TogglePower("tv-1"); err != nil {
		t.Fatalf("TogglePower failed: %v", err)
	}

	d, _ := s.Device("tv-1")
	if d.IsOn {
		t.Error("TV should be off after toggle")
	}
	if got := s.Snapshot(context.Background()).TotalWatts; got != 3660 {
		t.Errorf("expected 3660W, got %d", got)
	}

	// Connected devices toggle from anywhere.
	s.MoveAvatar(world.Position{X: 90, Y: 90})
	if err := s.TogglePower("tv-1"); err != nil {
		t.Errorf("remote toggle of a connected device failed: %v", err)
	}
}

func TestSessionConnectLatency(t *testing.T) {
	opts := testOptions()
	opts.ConnectLatency = 100 * time.Millisecond
	s := newTestSession(t, opts)

	if _, err := s.WalkToDevice("tv-1"); err != nil {
		t.Fatalf("WalkToDevice: %v", err)
	}
	if err := s.Connect("tv-1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	// Not committed yet.
	d, _ := s.Device("tv-1")
	if d.IsConnected {
		t.Fatal("connection should still be in flight")
	}

	// A second operation on the same device is rejected.
	if err := s.Connect("tv-1"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	waitFor(t, time.Second, func() bool {
		d, _ := s.Device("tv-1")
		return d.IsConnected
	})
}

func TestSessionResetCancelsPendingEffects(t *testing.T) {
	opts := testOptions()
	opts.ConnectLatency = 200 * time.Millisecond
	s := newTestSession(t, opts)

	if _, err := s.WalkToDevice("tv-1"); err != nil {
		t.Fatalf("WalkToDevice: %v", err)
	}
	if err := s.Connect("tv-1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	s.ResetGame(context.Background())
	time.Sleep(400 * time.Millisecond)

	d, _ := s.Device("tv-1")
	if d.IsConnected {
		t.Error("reset should cancel the in-flight connection")
	}
}

func TestSessionAdjustValue(t *testing.T) {
	s := newTestSession(t, testOptions())

	if err := s.AdjustValue("ac-1", 2); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}

	walkAndConnect(t, s, "ac-1")
	if err := s.AdjustValue("ac-1", 2); err != nil {
		t.Fatalf("AdjustValue failed: %v", err)
	}

	d, _ := s.Device("ac-1")
	if v, _ := d.Value.Number(); v != 20 {
		t.Errorf("expected 20, got %v", v)
	}
}

func TestSessionFinishWasher(t *testing.T) {
	s := newTestSession(t, testOptions())

	if err := s.FinishWasher("washer-1"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}

	walkAndConnect(t, s, "washer-1")
	walkAndConnect(t, s, "tv-1")
	if err := s.FinishWasher("tv-1"); !errors.Is(err, ErrNotWasher) {
		t.Fatalf("expected ErrNotWasher, got %v", err)
	}

	// Put minutes back on the cycle: collection is blocked.
	if err := s.AdjustValue("washer-1", 5); err != nil {
		t.Fatalf("AdjustValue failed: %v", err)
	}
	if err := s.FinishWasher("washer-1"); !errors.Is(err, ErrCycleRunning) {
		t.Fatalf("expected ErrCycleRunning, got %v", err)
	}

	if err := s.AdjustValue("washer-1", -5); err != nil {
		t.Fatalf("AdjustValue failed: %v", err)
	}
	if err := s.FinishWasher("washer-1"); err != nil {
		t.Fatalf("FinishWasher failed: %v", err)
	}

	d, _ := s.Device("washer-1")
	if d.IsOn || d.Status != "Finished" {
		t.Errorf("washer should be off and finished, got %+v", d)
	}
}

func TestSessionSelectTab(t *testing.T) {
	s := newTestSession(t, testOptions())

	if err := s.SelectTab("energy"); err != nil {
		t.Fatalf("SelectTab failed: %v", err)
	}
	if got := s.Snapshot(context.Background()).ActiveTab; got != "energy" {
		t.Errorf("expected energy tab, got %s", got)
	}

	if err := s.SelectTab("settings"); !errors.Is(err, ErrInvalidTab) {
		t.Errorf("expected ErrInvalidTab, got %v", err)
	}
}

func TestSessionRunRoutine(t *testing.T) {
	s := newTestSession(t, testOptions())
	sink := &eventSink{}
	s.AddNotifier(sink)

	run, err := s.RunRoutine("power-save")
	if err != nil {
		t.Fatalf("RunRoutine failed: %v", err)
	}
	if run.RoutineID != "power-save" || len(run.DevicesAffected) != 5 {
		t.Errorf("unexpected run record: %+v", run)
	}

	v := s.Snapshot(context.Background())
	if v.TotalWatts != 100 {
		t.Errorf("expected 100W after power save, got %d", v.TotalWatts)
	}
	if v.LastRoutine != "power-save" {
		t.Errorf("expected last routine recorded, got %q", v.LastRoutine)
	}
	if len(sink.ofType(EventRoutineRan)) != 1 {
		t.Error("routine run should emit an event")
	}
	if len(s.RoutineHistory()) != 1 {
		t.Error("routine run should be in history")
	}
}

func TestSessionCampaignWalkthrough(t *testing.T) {
	s := newTestSession(t, testOptions())
	sink := &eventSink{}
	s.AddNotifier(sink)

	walkAndConnect(t, s, "tv-1")
	if err := s.TogglePower("tv-1"); err != nil {
		t.Fatalf("TogglePower: %v", err)
	}
	walkAndConnect(t, s, "airfryer-1")
	if err := s.TogglePower("airfryer-1"); err != nil {
		t.Fatalf("TogglePower: %v", err)
	}
	walkAndConnect(t, s, "washer-1")
	if err := s.FinishWasher("washer-1"); err != nil {
		t.Fatalf("FinishWasher: %v", err)
	}
	if _, err := s.RunRoutine("power-save"); err != nil {
		t.Fatalf("RunRoutine: %v", err)
	}
	if err := s.SelectTab("energy"); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}

	v := s.Snapshot(context.Background())
	if !v.AllComplete {
		t.Fatalf("campaign should be complete, got %d/%d", v.CompletedCount, v.TotalCount)
	}
	if got := len(sink.ofType(EventMissionCompleted)); got != 5 {
		t.Errorf("expected 5 mission events, got %d", got)
	}
	if got := len(sink.ofType(EventCampaignComplete)); got != 1 {
		t.Errorf("expected 1 campaign event, got %d", got)
	}
}

func TestSessionDebounceSupersedes(t *testing.T) {
	opts := testOptions()
	opts.NotificationDelay = 200 * time.Millisecond
	s := newTestSession(t, opts)

	// Finish the first four missions so the power mission is current.
	walkAndConnect(t, s, "tv-1")
	walkAndConnect(t, s, "airfryer-1")
	if err := s.TogglePower("airfryer-1"); err != nil {
		t.Fatalf("TogglePower: %v", err)
	}
	walkAndConnect(t, s, "washer-1")
	if _, err := s.RunRoutine("power-save"); err != nil {
		t.Fatalf("RunRoutine: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		return s.Snapshot(context.Background()).CompletedCount == 4
	})

	// Arm the final mission, then contradict it inside the window.
	if err := s.SelectTab("energy"); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}
	if err := s.TogglePower("airfryer-1"); err != nil {
		t.Fatalf("TogglePower: %v", err)
	}
	time.Sleep(400 * time.Millisecond)

	if s.Snapshot(context.Background()).AllComplete {
		t.Fatal("contradicted objective must not complete")
	}

	// Satisfy it again and let the window elapse.
	if err := s.TogglePower("airfryer-1"); err != nil {
		t.Fatalf("TogglePower: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		return s.Snapshot(context.Background()).AllComplete
	})
}

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	gw := persistence.NewGateway(nil, persistence.NewMemoryStore())
	s := newTestSessionWith(t, testOptions(), gw)
	ctx := context.Background()

	walkAndConnect(t, s, "tv-1")
	if err := s.TogglePower("tv-1"); err != nil {
		t.Fatalf("TogglePower: %v", err)
	}
	s.SaveNow(ctx)

	// A fresh session over the same gateway restores the state.
	s2 := newTestSessionWith(t, testOptions(), gw)
	if err := s2.LoadSaved(ctx); err != nil {
		t.Fatalf("LoadSaved failed: %v", err)
	}

	d, _ := s2.Device("tv-1")
	if !d.IsConnected || d.IsOn {
		t.Errorf("restored TV should be connected and off, got %+v", d)
	}
	if got := s2.Snapshot(ctx).CompletedCount; got != 1 {
		t.Errorf("expected 1 restored mission, got %d", got)
	}
}

func TestSessionLoadWithoutSave(t *testing.T) {
	s := newTestSession(t, testOptions())

	if err := s.LoadSaved(context.Background()); !errors.Is(err, ErrNoSave) {
		t.Errorf("expected ErrNoSave, got %v", err)
	}
}

func TestSessionAutoSave(t *testing.T) {
	gw := persistence.NewGateway(nil, persistence.NewMemoryStore())
	s := newTestSessionWith(t, testOptions(), gw)
	ctx := context.Background()

	// Any committed mutation saves without an explicit SaveNow.
	walkAndConnect(t, s, "tv-1")

	s2 := newTestSessionWith(t, testOptions(), gw)
	if err := s2.LoadSaved(ctx); err != nil {
		t.Fatalf("expected auto-saved snapshot, got %v", err)
	}
}

func TestSessionExportImportCode(t *testing.T) {
	s := newTestSession(t, testOptions())
	ctx := context.Background()

	walkAndConnect(t, s, "tv-1")
	code, err := s.ExportCode()
	if err != nil {
		t.Fatalf("ExportCode failed: %v", err)
	}

	s.ResetGame(ctx)
	d, _ := s.Device("tv-1")
	if d.IsConnected {
		t.Fatal("reset should disconnect the TV")
	}

	if err := s.ImportCode(ctx, code); err != nil {
		t.Fatalf("ImportCode failed: %v", err)
	}
	d, _ = s.Device("tv-1")
	if !d.IsConnected {
		t.Error("import should restore the connection")
	}

	if err := s.ImportCode(ctx, "garbage"); !errors.Is(err, persistence.ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
}

func TestSessionResetGame(t *testing.T) {
	gw := persistence.NewGateway(nil, persistence.NewMemoryStore())
	s := newTestSessionWith(t, testOptions(), gw)
	ctx := context.Background()

	walkAndConnect(t, s, "tv-1")
	s.SaveNow(ctx)
	s.ResetGame(ctx)

	v := s.Snapshot(ctx)
	if v.TotalWatts != 3810 || v.CompletedCount != 0 || v.ActiveTab != "home" {
		t.Errorf("reset state wrong: %+v", v)
	}
	if err := s.LoadSaved(ctx); !errors.Is(err, ErrNoSave) {
		t.Errorf("reset should clear saves, got %v", err)
	}
}

func TestSessionNearbyDevice(t *testing.T) {
	s := newTestSession(t, testOptions())
	ctx := context.Background()

	s.MoveAvatar(world.Position{X: 26, Y: 31})
	v := s.Snapshot(ctx)
	if v.NearbyDevice == nil || v.NearbyDevice.ID != "tv-1" {
		t.Errorf("expected tv-1 nearby, got %+v", v.NearbyDevice)
	}

	s.MoveAvatar(world.Position{X: 55, Y: 55})
	if v := s.Snapshot(ctx); v.NearbyDevice != nil {
		t.Errorf("expected nothing nearby, got %+v", v.NearbyDevice)
	}
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
