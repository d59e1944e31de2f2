package sessions

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/proxysurf/launcher/internal/models"
)

// fakeSource stands in for a live browser session.
type fakeSource struct {
	mu         sync.Mutex
	snapshot   models.StorageSnapshot
	captureErr error
	captures   int
	closes     int
}

func (f *fakeSource) CaptureSnapshot() (models.StorageSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.captures++
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.snapshot, nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closes++
	return nil
}

func (f *fakeSource) setCaptureErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captureErr = err
}

func (f *fakeSource) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.captures, f.closes
}

func validSnapshot(body string) models.StorageSnapshot {
	return models.StorageSnapshot(`{"cookies":[{"name":"sid","value":"` + body + `"}],"origins":[]}`)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expect      Strategy
		expectError bool
	}{
		{name: "memory", input: "memory", expect: StrategyMemory},
		{name: "disk", input: "disk", expect: StrategyDisk},
		{name: "empty defaults to memory", input: "", expect: StrategyMemory},
		{name: "case insensitive", input: "Disk", expect: StrategyDisk},
		{name: "unknown errors", input: "both", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := ParseStrategy(tt.input)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if strategy != tt.expect {
				t.Errorf("Expected %s, got %s", tt.expect, strategy)
			}
		})
	}
}

func TestController_Shutdown_PersistsFinalSnapshot(t *testing.T) {
	store := newTestStore(t)
	source := &fakeSource{snapshot: validSnapshot("final")}

	controller := NewController(store, source, models.EngineFirefox, Options{Persist: true})
	controller.Shutdown("SIGINT")

	loaded, ok := store.LoadIfPresent(models.EngineFirefox)
	if !ok {
		t.Fatal("Expected a snapshot file after shutdown")
	}
	if !loaded.Equal(source.snapshot) {
		t.Errorf("Expected final capture on disk, got %s", loaded)
	}

	_, closes := source.counts()
	if closes != 1 {
		t.Errorf("Expected the session handle to be closed once, got %d", closes)
	}
}

func TestController_Shutdown_Idempotent(t *testing.T) {
	store := newTestStore(t)
	source := &fakeSource{snapshot: validSnapshot("first")}

	controller := NewController(store, source, models.EngineChromium, Options{Persist: true})
	controller.Shutdown("SIGINT")

	captures, closes := source.counts()

	// A repeated signal must not capture, write or close again
	source.mu.Lock()
	source.snapshot = validSnapshot("second")
	source.mu.Unlock()

	controller.Shutdown("SIGTERM")

	capturesAfter, closesAfter := source.counts()
	if capturesAfter != captures {
		t.Errorf("Expected no further captures, got %d -> %d", captures, capturesAfter)
	}
	if closesAfter != closes || closes != 1 {
		t.Errorf("Expected exactly one close, got %d", closesAfter)
	}

	loaded, ok := store.LoadIfPresent(models.EngineChromium)
	if !ok {
		t.Fatal("Expected a snapshot file after shutdown")
	}
	if !loaded.Equal(validSnapshot("first")) {
		t.Error("Second shutdown produced a second write")
	}
}

func TestController_Shutdown_Concurrent(t *testing.T) {
	store := newTestStore(t)
	source := &fakeSource{snapshot: validSnapshot("concurrent")}

	controller := NewController(store, source, models.EngineChromium, Options{Persist: true})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			controller.Shutdown("SIGTERM")
		}()
	}
	wg.Wait()

	captures, closes := source.counts()
	if captures != 1 {
		t.Errorf("Expected one final capture, got %d", captures)
	}
	if closes != 1 {
		t.Errorf("Expected one close, got %d", closes)
	}
}

func TestController_Shutdown_FallsBackToCache(t *testing.T) {
	store := newTestStore(t)
	source := &fakeSource{snapshot: validSnapshot("cached")}

	controller := NewController(store, source, models.EngineWebkit, Options{Persist: true})

	// One successful refresh populates the cache
	controller.refresh()

	// The session has begun closing: captures now fail
	source.setCaptureErr(errors.New("context closed"))

	controller.Shutdown("SIGTERM")

	loaded, ok := store.LoadIfPresent(models.EngineWebkit)
	if !ok {
		t.Fatal("Expected the cached snapshot to be persisted")
	}
	if !loaded.Equal(validSnapshot("cached")) {
		t.Errorf("Expected cached snapshot on disk, got %s", loaded)
	}
}

func TestController_Shutdown_NoSnapshotSkipsWrite(t *testing.T) {
	store := newTestStore(t)
	source := &fakeSource{captureErr: errors.New("context closed")}

	controller := NewController(store, source, models.EngineChromium, Options{Persist: true})
	controller.Shutdown("SIGINT")

	if _, ok := store.LoadIfPresent(models.EngineChromium); ok {
		t.Error("Expected no snapshot file when capture failed with no cache")
	}

	// Even without a snapshot, the handle must still be closed
	_, closes := source.counts()
	if closes != 1 {
		t.Errorf("Expected one close, got %d", closes)
	}
}

func TestController_Shutdown_PersistDisabled(t *testing.T) {
	store := newTestStore(t)
	source := &fakeSource{snapshot: validSnapshot("ignored")}

	controller := NewController(store, source, models.EngineChromium, Options{Persist: false})
	controller.StartPeriodicRefresh()

	if controller.scheduler != nil {
		t.Error("Expected no scheduler when persistence is disabled")
	}

	controller.Shutdown("SIGINT")

	captures, closes := source.counts()
	if captures != 0 {
		t.Errorf("Expected no captures, got %d", captures)
	}
	if closes != 1 {
		t.Errorf("Expected one close, got %d", closes)
	}

	if _, ok := store.LoadIfPresent(models.EngineChromium); ok {
		t.Error("Expected no snapshot file when persistence is disabled")
	}
}

func TestController_Refresh_FailureSwallowed(t *testing.T) {
	store := newTestStore(t)
	source := &fakeSource{snapshot: validSnapshot("good")}

	controller := NewController(store, source, models.EngineChromium, Options{
		Persist:  true,
		Strategy: StrategyMemory,
	})

	controller.refresh()

	// Later captures fail; the cached value must be retained
	source.setCaptureErr(errors.New("transient"))
	controller.refresh()

	if !controller.getCached().Equal(validSnapshot("good")) {
		t.Error("Expected previous cached snapshot to be retained after a failed refresh")
	}
}

func TestController_Refresh_MemoryStrategy(t *testing.T) {
	store := newTestStore(t)
	source := &fakeSource{snapshot: validSnapshot("memory")}

	controller := NewController(store, source, models.EngineChromium, Options{
		Persist:  true,
		Strategy: StrategyMemory,
	})

	controller.refresh()

	// Memory strategy only caches; nothing reaches disk until shutdown
	if _, ok := store.LoadIfPresent(models.EngineChromium); ok {
		t.Error("Expected no disk write from a memory-strategy refresh")
	}

	if !controller.getCached().Equal(source.snapshot) {
		t.Error("Expected refresh to cache the captured snapshot")
	}
}

func TestController_Refresh_DiskStrategy(t *testing.T) {
	store := newTestStore(t)
	source := &fakeSource{snapshot: validSnapshot("disk")}

	controller := NewController(store, source, models.EngineChromium, Options{
		Persist:  true,
		Strategy: StrategyDisk,
	})

	controller.refresh()

	loaded, ok := store.LoadIfPresent(models.EngineChromium)
	if !ok {
		t.Fatal("Expected a disk-strategy refresh to write through")
	}
	if !loaded.Equal(source.snapshot) {
		t.Errorf("Expected captured snapshot on disk, got %s", loaded)
	}
}

func TestController_PeriodicRefresh_UpdatesFile(t *testing.T) {
	store := newTestStore(t)

	// Seed a stale snapshot, as if loaded from a previous run
	stale := validSnapshot("stale")
	if err := store.Write(models.EngineChromium, stale); err != nil {
		t.Fatalf("Failed to seed snapshot: %v", err)
	}

	source := &fakeSource{snapshot: validSnapshot("fresh")}

	controller := NewController(store, source, models.EngineChromium, Options{
		Persist:  true,
		Strategy: StrategyDisk,
		Interval: 50 * time.Millisecond,
	})
	controller.StartPeriodicRefresh()

	deadline := time.After(2 * time.Second)
	for {
		loaded, ok := store.LoadIfPresent(models.EngineChromium)
		if ok && loaded.Equal(source.snapshot) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for the periodic refresh to update the file")
		case <-time.After(10 * time.Millisecond):
		}
	}

	controller.Shutdown("SIGTERM")

	loaded, ok := store.LoadIfPresent(models.EngineChromium)
	if !ok {
		t.Fatal("Expected snapshot file after shutdown")
	}
	if loaded.Equal(stale) {
		t.Error("Final contents should reflect the most recent capture, not the originally loaded one")
	}
}
