package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wattquest/wattquest-core/internal/device"
	"github.com/wattquest/wattquest-core/internal/mission"
	"github.com/wattquest/wattquest-core/internal/persistence"
	"github.com/wattquest/wattquest-core/internal/routine"
	"github.com/wattquest/wattquest-core/internal/world"
)

// Logger is the minimal logging surface the session needs.
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

// PowerRecorder receives household power readings after each committed
// mutation. Recording is best-effort; failures are logged, not surfaced.
type PowerRecorder interface {
	Record(ctx context.Context, watts int) error
}

// Options holds the gameplay tuning knobs.
type Options struct {
	// ProximityThreshold is the interaction range, in percent units.
	// The boundary counts as in range.
	ProximityThreshold float64

	// SafeWatts is the household power ceiling the final mission and
	// the over-budget alert check against.
	SafeWatts int

	// AvatarStep is the distance of one directional move.
	AvatarStep float64

	// ConnectLatency simulates the cloud handshake when connecting a
	// device. Zero makes connects synchronous.
	ConnectLatency time.Duration

	// ToggleLatency simulates the cloud round trip of a power toggle.
	// Zero makes toggles synchronous.
	ToggleLatency time.Duration

	// NotificationDelay debounces mission success: the objective is
	// re-checked against current state when the delay fires, so a
	// contradicting action within the window supersedes completion.
	// Zero evaluates synchronously.
	NotificationDelay time.Duration
}

// avatarSpawn is the starting position on the floor plan.
var avatarSpawn = world.Position{X: 50, Y: 80}

// ValidTabs are the dashboard tabs the player can switch to.
var ValidTabs = []string{"home", "devices", "energy", "automation", "menu"}

// Session is the single-player game aggregate. It owns the device
// registry, mission machine, routine engine, avatar and persistence
// gateway, and serializes every mutation behind one mutex so the
// mutate, evaluate, notify sequence is atomic per action.
type Session struct {
	mu   sync.Mutex
	opts Options

	registry *device.Registry
	machine  *mission.Machine
	engine   *routine.Engine
	avatar   *world.Avatar
	gateway  *persistence.Gateway
	codec    *persistence.Codec
	recorder PowerRecorder

	notifiers []Notifier
	logger    Logger

	activeTab   string
	lastRoutine string

	// pending holds in-flight simulated-latency timers keyed by device
	// ID. A device with an entry here rejects further operations.
	pending map[string]*time.Timer

	// evalTimer is the debounced mission evaluation, nil when idle.
	evalTimer *time.Timer

	closed bool
}

// New creates a session with fresh seed state.
//
// Parameters:
//   - opts: Gameplay tuning, usually derived from configuration
//   - gateway: Persistence facade, required
//   - codec: Save-code codec, required
func New(opts Options, gateway *persistence.Gateway, codec *persistence.Codec) *Session {
	registry := device.NewRegistry()
	return &Session{
		opts:      opts,
		registry:  registry,
		machine:   mission.NewMachine(mission.DefaultMissions(opts.SafeWatts)),
		engine:    routine.NewEngine(registry),
		avatar:    world.NewAvatar(avatarSpawn, opts.AvatarStep),
		gateway:   gateway,
		codec:     codec,
		logger:    noopLogger{},
		activeTab: "home",
		pending:   make(map[string]*time.Timer),
	}
}

// SetLogger sets the session logger and propagates it to owned parts.
func (s *Session) SetLogger(logger Logger) {
	s.logger = logger
	s.registry.SetLogger(logger)
	s.gateway.SetLogger(logger)
}

// SetPowerRecorder attaches an optional power history recorder.
func (s *Session) SetPowerRecorder(r PowerRecorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// AddNotifier registers an event sink. Notifiers are called in
// registration order while the session lock is held, so they must not
// call back into the session.
func (s *Session) AddNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

// Close cancels all pending effects. The session is unusable afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelPendingLocked()
}

// --- read surface ---

// View is the full render state for one frame of the dashboard.
type View struct {
	Devices        []device.Device  `json:"devices"`
	TotalWatts     int              `json:"total_watts"`
	SafeWatts      int              `json:"safe_watts"`
	OverBudget     bool             `json:"over_budget"`
	Avatar         world.Position   `json:"avatar"`
	ActiveTab      string           `json:"active_tab"`
	NearbyDevice   *device.Device   `json:"nearby_device,omitempty"`
	Missions       []mission.Status `json:"missions"`
	CompletedCount int              `json:"completed_count"`
	TotalCount     int              `json:"total_count"`
	AllComplete    bool             `json:"all_complete"`
	LastRoutine    string           `json:"last_routine,omitempty"`
	DurableSaves   bool             `json:"durable_saves"`
}

// Snapshot returns the current render state.
func (s *Session) Snapshot(ctx context.Context) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices := s.registry.List()
	watts := s.registry.TotalActivePowerWatts()
	pos := s.avatar.Position()

	v := View{
		Devices:        devices,
		TotalWatts:     watts,
		SafeWatts:      s.opts.SafeWatts,
		OverBudget:     watts > s.opts.SafeWatts,
		Avatar:         pos,
		ActiveTab:      s.activeTab,
		Missions:       s.machine.Statuses(),
		CompletedCount: s.machine.CompletedCount(),
		TotalCount:     s.machine.TotalCount(),
		AllComplete:    s.machine.AllComplete(),
		LastRoutine:    s.lastRoutine,
		DurableSaves:   s.gateway.Durable(ctx),
	}
	if d, ok := world.NearestInRange(pos, devices, s.opts.ProximityThreshold); ok {
		v.NearbyDevice = &d
	}
	return v
}

// Devices returns the device list.
func (s *Session) Devices() []device.Device {
	return s.registry.List()
}

// Device returns a single device by ID.
func (s *Session) Device(id string) (device.Device, error) {
	return s.registry.Get(id)
}

// Missions returns the campaign with completion flags.
func (s *Session) Missions() []mission.Status {
	return s.machine.Statuses()
}

// Routines returns the available automations.
func (s *Session) Routines() []routine.Routine {
	return s.engine.List()
}

// RoutineHistory returns past routine executions.
func (s *Session) RoutineHistory() []routine.Run {
	return s.engine.History()
}

// --- avatar ---

// MoveAvatar places the avatar at an absolute position, clamped to the
// playfield.
func (s *Session) MoveAvatar(p world.Position) world.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.avatar.MoveTo(p)
	s.emitLocked(EventAvatarMoved, pos)
	return pos
}

// StepAvatar moves the avatar one step in the given direction.
func (s *Session) StepAvatar(dir world.Direction) world.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.avatar.Step(dir)
	s.emitLocked(EventAvatarMoved, pos)
	return pos
}

// WalkToDevice snaps the avatar to the standing spot beside a device.
//
// Returns:
//   - world.Position: The resulting avatar position
//   - error: device.ErrDeviceNotFound for unknown IDs
func (s *Session) WalkToDevice(id string) (world.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.registry.Get(id)
	if err != nil {
		return world.Position{}, err
	}
	pos := s.avatar.WalkTo(d.X, d.Y)
	s.emitLocked(EventAvatarMoved, pos)
	return pos, nil
}

// RequestInteract checks the proximity gate for a device. An attempt
// out of range emits an interaction.denied event and returns
// world.ErrTooFar.
//
// Returns:
//   - device.Device: The device, when in range
//   - error: device.ErrDeviceNotFound or world.ErrTooFar
func (s *Session) RequestInteract(id string) (device.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateInteractLocked(id)
}

func (s *Session) gateInteractLocked(id string) (device.Device, error) {
	d, err := s.registry.Get(id)
	if err != nil {
		return device.Device{}, err
	}
	if err := world.CheckInteract(s.avatar.Position(), d, s.opts.ProximityThreshold); err != nil {
		s.emitLocked(EventInteractionDenied, map[string]any{
			"device_id": d.ID,
			"message":   fmt.Sprintf("%s is too far away. Walk closer to interact.", d.Name),
		})
		return device.Device{}, err
	}
	return d, nil
}

// --- device control ---

// Connect starts the simulated cloud handshake for a device. The
// connection commits after the configured latency; with zero latency it
// commits before Connect returns. Connecting an already connected
// device is a no-op.
//
// Returns:
//   - error: device.ErrDeviceNotFound, world.ErrTooFar, or ErrBusy
func (s *Session) Connect(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.gateInteractLocked(id)
	if err != nil {
		return err
	}
	if d.IsConnected {
		return nil
	}
	if _, inFlight := s.pending[id]; inFlight {
		return ErrBusy
	}

	patch := device.Patch{IsConnected: device.Bool(true)}
	s.startEffectLocked(id, s.opts.ConnectLatency, patch)
	return nil
}

// TogglePower flips a connected device on or off after the configured
// latency. The target state is captured at call time. Connected devices
// are controllable from anywhere; only the initial connection is
// proximity gated.
//
// Returns:
//   - error: device.ErrDeviceNotFound, ErrNotConnected or ErrBusy
func (s *Session) TogglePower(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.registry.Get(id)
	if err != nil {
		return err
	}
	if !d.IsConnected {
		return fmt.Errorf("%w: %s", ErrNotConnected, id)
	}
	if _, inFlight := s.pending[id]; inFlight {
		return ErrBusy
	}

	patch := device.Patch{IsOn: device.Bool(!d.IsOn)}
	s.startEffectLocked(id, s.opts.ToggleLatency, patch)
	return nil
}

// AdjustValue shifts a connected device's numeric value by delta.
// Applies immediately; value tweaks skip the simulated cloud trip.
//
// Returns:
//   - error: device.ErrDeviceNotFound, ErrNotConnected or ErrBusy
func (s *Session) AdjustValue(id string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.registry.Get(id)
	if err != nil {
		return err
	}
	if !d.IsConnected {
		return fmt.Errorf("%w: %s", ErrNotConnected, id)
	}
	if _, inFlight := s.pending[id]; inFlight {
		return ErrBusy
	}

	s.applyPatchLocked(id, device.Patch{Value: device.Val(d.Value.Add(delta))})
	return nil
}

// FinishWasher collects a finished wash cycle: the washer must be at
// zero minutes remaining, and collecting forces it off.
//
// Returns:
//   - error: device.ErrDeviceNotFound, ErrNotConnected, ErrNotWasher
//     or ErrCycleRunning
func (s *Session) FinishWasher(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.registry.Get(id)
	if err != nil {
		return err
	}
	if !d.IsConnected {
		return fmt.Errorf("%w: %s", ErrNotConnected, id)
	}
	if d.Type != device.TypeWasher {
		return fmt.Errorf("%w: %s", ErrNotWasher, id)
	}
	if minutes, _ := d.Value.Number(); minutes > 0 {
		return fmt.Errorf("%w: %.0f minutes left", ErrCycleRunning, minutes)
	}

	s.applyPatchLocked(id, device.Patch{
		IsOn:   device.Bool(false),
		Status: device.String("Finished"),
	})
	return nil
}

// --- dashboard ---

// SelectTab switches the active dashboard tab and re-evaluates the
// current mission, since the final mission is gated on the energy tab.
//
// Returns:
//   - error: ErrInvalidTab for unknown tabs
func (s *Session) SelectTab(tab string) error {
	valid := false
	for _, t := range ValidTabs {
		if t == tab {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %s", ErrInvalidTab, tab)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeTab = tab
	s.scheduleEvaluationLocked()
	return nil
}

// RunRoutine executes an automation and commits its device changes as
// one mutation.
//
// Returns:
//   - routine.Run: The execution record
//   - error: routine.ErrRoutineNotFound for unknown IDs
func (s *Session) RunRoutine(id string) (routine.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.engine.Run(id)
	if err != nil {
		return routine.Run{}, err
	}
	s.lastRoutine = id

	s.emitLocked(EventRoutineRan, run)
	s.commitLocked()
	return run, nil
}

// --- persistence ---

// SaveNow persists the current state through the gateway. Storage
// failures degrade transparently; SaveNow itself cannot fail.
func (s *Session) SaveNow(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gateway.Save(ctx, s.stateLocked())
	s.emitLocked(EventGameSaved, map[string]any{"durable": s.gateway.Durable(ctx)})
}

// LoadSaved restores the last saved snapshot.
//
// Returns:
//   - error: ErrNoSave when no usable snapshot exists
func (s *Session) LoadSaved(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.gateway.Load(ctx)
	if state == nil {
		return ErrNoSave
	}
	return s.restoreLocked(state)
}

// ExportCode packs the current state into a portable signed save code.
func (s *Session) ExportCode() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codec.Encode(s.stateLocked())
}

// ImportCode restores state from a save code produced by ExportCode.
//
// Returns:
//   - error: persistence.ErrInvalidCode for garbage, tampered or
//     expired codes
func (s *Session) ImportCode(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.codec.Decode(code)
	if err != nil {
		return err
	}
	if err := s.restoreLocked(state); err != nil {
		return err
	}
	// An imported game becomes the local save.
	s.gateway.Save(ctx, state)
	return nil
}

// ResetGame cancels all pending effects and returns everything to seed
// state, clearing saved snapshots on both storage tiers.
func (s *Session) ResetGame(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelPendingLocked()
	s.registry.ResetToDefaults()
	s.machine.Reset()
	s.engine.ClearHistory()
	s.avatar.MoveTo(avatarSpawn)
	s.activeTab = "home"
	s.lastRoutine = ""
	s.gateway.Clear(ctx)

	s.logger.Info("game reset to defaults")
	s.emitLocked(EventGameReset, nil)
}

// --- internals ---

// startEffectLocked schedules a device patch after the given latency,
// or applies it immediately when the latency is zero.
func (s *Session) startEffectLocked(id string, latency time.Duration, patch device.Patch) {
	if latency <= 0 {
		s.applyPatchLocked(id, patch)
		return
	}

	s.pending[id] = time.AfterFunc(latency, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		// A reset or close between scheduling and firing cancels the
		// effect; the map entry is gone in that case.
		if _, ok := s.pending[id]; !ok {
			return
		}
		delete(s.pending, id)
		s.applyPatchLocked(id, patch)
	})
}

// applyPatchLocked commits a device mutation and runs the follow-up
// sequence: events, power recording, mission evaluation, auto-save.
func (s *Session) applyPatchLocked(id string, patch device.Patch) {
	d, err := s.registry.Update(id, patch)
	if err != nil {
		s.logger.Error("patch failed", "device_id", id, "error", err)
		return
	}

	s.emitLocked(EventDeviceUpdated, d)
	s.commitLocked()
}

// commitLocked is the shared tail of every committed mutation.
func (s *Session) commitLocked() {
	watts := s.registry.TotalActivePowerWatts()
	s.emitLocked(EventPowerChanged, map[string]any{
		"total_watts": watts,
		"safe_watts":  s.opts.SafeWatts,
	})
	if watts > s.opts.SafeWatts {
		s.emitLocked(EventPowerAlert, map[string]any{
			"total_watts": watts,
			"safe_watts":  s.opts.SafeWatts,
		})
	}

	if s.recorder != nil {
		if err := s.recorder.Record(context.Background(), watts); err != nil {
			s.logger.Warn("power recording failed", "error", err)
		}
	}

	s.scheduleEvaluationLocked()
	s.gateway.Save(context.Background(), s.stateLocked())
}

// scheduleEvaluationLocked arms the debounced mission check. While the
// current objective is satisfied a timer counts down; a mutation that
// contradicts the objective disarms it, so completion only commits when
// the condition still holds at fire time.
func (s *Session) scheduleEvaluationLocked() {
	if s.closed {
		return
	}

	cur, ok := s.machine.Current()
	if !ok {
		return
	}

	if !cur.Satisfied(s.missionContextLocked()) {
		if s.evalTimer != nil {
			s.evalTimer.Stop()
			s.evalTimer = nil
		}
		return
	}

	if s.opts.NotificationDelay <= 0 {
		s.fireEvaluationLocked()
		return
	}
	if s.evalTimer != nil {
		return
	}
	s.evalTimer = time.AfterFunc(s.opts.NotificationDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.evalTimer == nil || s.closed {
			return
		}
		s.evalTimer = nil
		s.fireEvaluationLocked()
	})
}

// fireEvaluationLocked commits mission completions that still hold.
func (s *Session) fireEvaluationLocked() {
	done := s.machine.Evaluate(s.missionContextLocked())
	if len(done) == 0 {
		return
	}

	for _, m := range done {
		s.logger.Info("mission complete", "mission_id", m.ID, "title", m.Title)
		s.emitLocked(EventMissionCompleted, m)
	}
	if s.machine.AllComplete() {
		s.emitLocked(EventCampaignComplete, map[string]any{
			"total_watts": s.registry.TotalActivePowerWatts(),
		})
	}
	s.gateway.Save(context.Background(), s.stateLocked())
}

func (s *Session) missionContextLocked() mission.Context {
	return mission.Context{
		Devices:     s.registry.List(),
		TotalWatts:  s.registry.TotalActivePowerWatts(),
		ActiveTab:   s.activeTab,
		LastRoutine: s.lastRoutine,
	}
}

func (s *Session) stateLocked() *persistence.GameState {
	return &persistence.GameState{
		Devices:           s.registry.List(),
		Avatar:            s.avatar.Position(),
		CompletedMissions: s.machine.CompletedIDs(),
		GameClear:         s.machine.AllComplete(),
		ActiveTab:         s.activeTab,
		LastRoutine:       s.lastRoutine,
	}
}

// restoreLocked installs a snapshot, cancelling in-flight effects first.
func (s *Session) restoreLocked(state *persistence.GameState) error {
	if err := s.registry.Replace(state.Devices); err != nil {
		return err
	}

	s.cancelPendingLocked()
	s.machine.Restore(state.CompletedMissions)
	s.avatar.MoveTo(state.Avatar)
	s.activeTab = state.ActiveTab
	if s.activeTab == "" {
		s.activeTab = "home"
	}
	s.lastRoutine = state.LastRoutine

	s.logger.Info("game restored",
		"devices", len(state.Devices),
		"missions_complete", len(state.CompletedMissions))
	s.emitLocked(EventGameLoaded, map[string]any{
		"saved_at": state.SavedAt,
	})
	return nil
}

func (s *Session) cancelPendingLocked() {
	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
	if s.evalTimer != nil {
		s.evalTimer.Stop()
		s.evalTimer = nil
	}
}

func (s *Session) emitLocked(t EventType, payload any) {
	event := Event{Type: t, Payload: payload, Time: time.Now().UTC()}
	for _, n := range s.notifiers {
		n.Notify(event)
	}
}
