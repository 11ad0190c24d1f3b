package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKey_Stability(t *testing.T) {
	base := Key("Redstone Furnace", "ru")

	// Surrounding whitespace does not change the key.
	if Key("  Redstone Furnace\n", "ru") != base {
		t.Error("expected trimmed text to produce the same key")
	}

	// NFC and NFD encodings of the same text share one entry.
	if Key("Café", "ru") != Key("Café", "ru") {
		t.Error("expected NFC-equivalent texts to produce the same key")
	}

	// The language is part of the key.
	if Key("Redstone Furnace", "uk") == base {
		t.Error("expected different languages to produce different keys")
	}
}

func TestCache_LookupStore(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.json"))

	if _, ok := c.Lookup("Redstone Furnace", "ru"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Store("Redstone Furnace", "ru", "Редстоуновая печь")
	got, ok := c.Lookup("Redstone Furnace", "ru")
	if !ok || got != "Редстоуновая печь" {
		t.Fatalf("expected stored translation, got %q (ok=%v)", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestCache_PersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := New(path)
	c.Store("Redstone Furnace", "ru", "Редстоуновая печь")
	if err := c.Persist(); err != nil {
		t.Fatalf("failed to persist: %v", err)
	}

	reloaded := New(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	got, ok := reloaded.Lookup("Redstone Furnace", "ru")
	if !ok || got != "Редстоуновая печь" {
		t.Fatalf("expected reloaded translation, got %q (ok=%v)", got, ok)
	}
}

func TestCache_LoadMergeKeepsMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	// Persist an older translation.
	old := New(path)
	old.Store("Pulverizer", "ru", "старый перевод")
	if err := old.Persist(); err != nil {
		t.Fatalf("failed to persist: %v", err)
	}

	// A fresh in-memory entry for the same key survives the merge.
	c := New(path)
	c.Store("Pulverizer", "ru", "Дробитель")
	if err := c.Load(); err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	got, _ := c.Lookup("Pulverizer", "ru")
	if got != "Дробитель" {
		t.Errorf("expected in-memory entry to win the merge, got %q", got)
	}
}

func TestCache_LoadMissingFile(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err := c.Load(); err != nil {
		t.Fatalf("expected missing file to be a no-op, got %v", err)
	}
}

func TestCache_PersistSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := New(path)
	if err := c.Persist(); err != nil {
		t.Fatalf("failed to persist: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected clean cache not to touch disk")
	}
}

func TestCache_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := New(path)
	c.Store("Redstone Furnace", "ru", "Редстоуновая печь")
	if err := c.Persist(); err != nil {
		t.Fatalf("failed to persist: %v", err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache after clear, got %d entries", c.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected persisted file to be removed")
	}
}
