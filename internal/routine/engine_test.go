package routine

import (
	"errors"
	"testing"

	"github.com/wattquest/wattquest-core/internal/device"
)

func TestEngineList(t *testing.T) {
	e := NewEngine(device.NewRegistry())

	routines := e.List()
	if len(routines) != 4 {
		t.Fatalf("expected 4 routines, got %d", len(routines))
	}
	if routines[0].ID != "power-save" {
		t.Errorf("expected power-save first, got %s", routines[0].ID)
	}
}

func TestEngineRunPowerSave(t *testing.T) {
	r := device.NewRegistry()
	e := NewEngine(r)

	run, err := e.Run("power-save")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Everything off except the refrigerator.
	for _, d := range r.List() {
		wantOn := d.Type == device.TypeRefrigerator
		if d.IsOn != wantOn {
			t.Errorf("device %s: IsOn=%v, want %v", d.ID, d.IsOn, wantOn)
		}
	}
	if got := r.TotalActivePowerWatts(); got != 100 {
		t.Errorf("expected 100W after power save, got %d", got)
	}

	if len(run.DevicesAffected) != 5 {
		t.Errorf("expected 5 affected devices, got %v", run.DevicesAffected)
	}
	if run.ID == "" || run.RanAt.IsZero() {
		t.Error("run record should carry an ID and timestamp")
	}
}

func TestEngineRunAway(t *testing.T) {
	r := device.NewRegistry()
	e := NewEngine(r)

	if _, err := e.Run("away"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ac, _ := r.Get("ac-1")
	if v, _ := ac.Value.Number(); !ac.IsOn || v != 27 || ac.Status != "Fan Only" {
		t.Errorf("AC should be fan-only at 27, got %+v", ac)
	}
	light, _ := r.Get("light-1")
	if light.IsOn {
		t.Error("light should be off")
	}
	tv, _ := r.Get("tv-1")
	if tv.IsOn {
		t.Error("TV should be off")
	}
	fryer, _ := r.Get("airfryer-1")
	if !fryer.IsOn {
		t.Error("air fryer should be untouched")
	}
}

func TestEngineRunSleep(t *testing.T) {
	r := device.NewRegistry()
	e := NewEngine(r)

	if _, err := e.Run("sleep"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ac, _ := r.Get("ac-1")
	if v, _ := ac.Value.Number(); !ac.IsOn || v != 26 || ac.Status != "Sleep" {
		t.Errorf("AC should be sleeping at 26, got %+v", ac)
	}
	light, _ := r.Get("light-1")
	if light.IsOn {
		t.Error("light should be off")
	}
}

func TestEngineRunMovie(t *testing.T) {
	r := device.NewRegistry()
	if _, err := r.Update("tv-1", device.Patch{IsOn: device.Bool(false)}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	e := NewEngine(r)

	if _, err := e.Run("movie"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	tv, _ := r.Get("tv-1")
	if !tv.IsOn {
		t.Error("TV should be on")
	}
	light, _ := r.Get("light-1")
	if v, _ := light.Value.Number(); !light.IsOn || v != 30 {
		t.Errorf("light should be dimmed to 30, got %+v", light)
	}
}

func TestEngineRunNotFound(t *testing.T) {
	e := NewEngine(device.NewRegistry())

	_, err := e.Run("no-such-routine")
	if !errors.Is(err, ErrRoutineNotFound) {
		t.Errorf("expected ErrRoutineNotFound, got %v", err)
	}
}

func TestEngineHistory(t *testing.T) {
	e := NewEngine(device.NewRegistry())

	if _, err := e.Run("power-save"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := e.Run("movie"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	hist := e.History()
	if len(hist) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(hist))
	}
	if hist[0].RoutineID != "power-save" || hist[1].RoutineID != "movie" {
		t.Errorf("wrong order: %s, %s", hist[0].RoutineID, hist[1].RoutineID)
	}

	e.ClearHistory()
	if len(e.History()) != 0 {
		t.Error("expected empty history after clear")
	}
}
