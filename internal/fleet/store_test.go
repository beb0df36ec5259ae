package fleet

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/calebmoran/glowlink/internal/lighting"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	registry, err := NewRegistry([]string{"Ben", "Roo"})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return NewStore(registry)
}

// =============================================================================
// Initialisation Tests
// =============================================================================

func TestNewStore_Defaults(t *testing.T) {
	store := testStore(t)

	records := store.List()
	if len(records) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(records))
	}

	wantLighting, _ := lighting.Default(lighting.ModeColour)
	for _, rec := range records {
		if rec.Lighting != wantLighting {
			t.Errorf("record %q lighting = %+v, want colour default", rec.Identity, rec.Lighting)
		}
		if rec.Status != nil {
			t.Errorf("record %q status = %+v, want nil before first report", rec.Identity, rec.Status)
		}
		if rec.Selected {
			t.Errorf("record %q selected = true, want false", rec.Identity)
		}
	}
}

// =============================================================================
// Mutation Tests
// =============================================================================

func TestSetLighting(t *testing.T) {
	store := testStore(t)

	state := lighting.State{Mode: lighting.ModeRainbow, Speed: 7}
	if err := store.SetLighting("Ben", state); err != nil {
		t.Fatalf("SetLighting() error = %v", err)
	}

	rec, err := store.Get("Ben")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Lighting != state {
		t.Errorf("lighting = %+v, want %+v", rec.Lighting, state)
	}

	// The other device is untouched.
	other, _ := store.Get("Roo")
	if other.Lighting.Mode != lighting.ModeColour {
		t.Errorf("Roo lighting mode = %q, want untouched colour default", other.Lighting.Mode)
	}
}

func TestSetLighting_UnknownDevice(t *testing.T) {
	store := testStore(t)

	err := store.SetLighting("Intruder", lighting.State{Mode: lighting.ModeColour, Colour: "#000000"})
	if !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("SetLighting() error = %v, want ErrUnknownDevice", err)
	}
}

func TestSetStatus_RetainsLatestOnly(t *testing.T) {
	store := testStore(t)

	first := lighting.Report{BatteryPercentage: 90, ObservedAt: 100}
	second := lighting.Report{BatteryPercentage: 85, ObservedAt: 130}

	if err := store.SetStatus("Ben", first); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if err := store.SetStatus("Ben", second); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	rec, _ := store.Get("Ben")
	if rec.Status == nil || *rec.Status != second {
		t.Errorf("status = %+v, want latest report only", rec.Status)
	}
}

func TestToggleSelected(t *testing.T) {
	store := testStore(t)

	selected, err := store.ToggleSelected("Ben")
	if err != nil || !selected {
		t.Fatalf("ToggleSelected() = %v, %v; want true, nil", selected, err)
	}

	got := store.Selected()
	if len(got) != 1 || got[0] != "Ben" {
		t.Errorf("Selected() = %v, want [Ben]", got)
	}

	selected, err = store.ToggleSelected("Ben")
	if err != nil || selected {
		t.Fatalf("ToggleSelected() = %v, %v; want false, nil", selected, err)
	}
	if len(store.Selected()) != 0 {
		t.Errorf("Selected() = %v, want empty", store.Selected())
	}
}

// =============================================================================
// Liveness Tests
// =============================================================================

func TestOnline(t *testing.T) {
	store := testStore(t)
	now := time.Unix(1756640000, 0)

	// No report yet: always offline.
	online, err := store.Online("Ben", now, lighting.DefaultOfflineThreshold)
	if err != nil {
		t.Fatalf("Online() error = %v", err)
	}
	if online {
		t.Error("Online() = true before any report, want false")
	}

	if err := store.SetStatus("Ben", lighting.Report{ObservedAt: now.Unix() - 10}); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	online, _ = store.Online("Ben", now, lighting.DefaultOfflineThreshold)
	if !online {
		t.Error("Online() = false for fresh report, want true")
	}

	if err := store.SetStatus("Ben", lighting.Report{ObservedAt: now.Unix() - 120}); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	online, _ = store.Online("Ben", now, lighting.DefaultOfflineThreshold)
	if online {
		t.Error("Online() = true for stale report, want false")
	}
}

// =============================================================================
// Isolation and Restore Tests
// =============================================================================

func TestGet_ReturnsCopy(t *testing.T) {
	store := testStore(t)
	if err := store.SetStatus("Ben", lighting.Report{BatteryPercentage: 50}); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	rec, _ := store.Get("Ben")
	rec.Lighting.Colour = "#dead00"
	rec.Status.BatteryPercentage = 1

	fresh, _ := store.Get("Ben")
	if fresh.Lighting.Colour == "#dead00" {
		t.Error("Get() exposed internal lighting state")
	}
	if fresh.Status.BatteryPercentage != 50 {
		t.Error("Get() exposed internal status report")
	}
}

func TestRestore(t *testing.T) {
	store := testStore(t)

	store.Restore(map[string]Snapshot{
		"Ben": {
			Lighting: lighting.State{Mode: lighting.ModeStrobe, Colour: "#ff00ff", Speed: 4},
			Selected: true,
		},
		"Ghost": {
			Lighting: lighting.State{Mode: lighting.ModeColour, Colour: "#000000"},
		},
	})

	rec, _ := store.Get("Ben")
	if rec.Lighting.Mode != lighting.ModeStrobe || !rec.Selected {
		t.Errorf("restored record = %+v, want strobe + selected", rec)
	}

	// Unknown snapshot entries are ignored, not admitted.
	if len(store.List()) != 2 {
		t.Errorf("List() length = %d after restore, want 2", len(store.List()))
	}
}

func TestStore_ConcurrentMutation(t *testing.T) {
	store := testStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.SetLighting("Ben", lighting.State{Mode: lighting.ModeRainbow, Speed: float64(i)})
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = store.SetStatus("Roo", lighting.Report{ObservedAt: int64(i)})
		}(i)
	}
	wg.Wait()

	rec, _ := store.Get("Ben")
	if rec.Lighting.Mode != lighting.ModeRainbow {
		t.Errorf("lighting mode = %q after concurrent writes, want rainbow", rec.Lighting.Mode)
	}
}
