package collector

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCollect_FlatLangFile(t *testing.T) {
	var root any
	data := `{
		"block.thermal.machine_furnace": "Redstone Furnace",
		"block.thermal.machine_pulverizer": "Pulverizer",
		"config.thermal.count": 5
	}`
	if err := json.Unmarshal([]byte(data), &root); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	found := Collect(root)
	if len(found) != 2 {
		t.Fatalf("expected 2 strings, got %d", len(found))
	}

	// Map keys are visited sorted, so order is deterministic.
	if found[0].Text != "Redstone Furnace" || found[1].Text != "Pulverizer" {
		t.Errorf("unexpected collection order: %q, %q", found[0].Text, found[1].Text)
	}
	if found[0].Key != "block.thermal.machine_furnace" {
		t.Errorf("expected map key on found string, got %q", found[0].Key)
	}
}

func TestCollect_NestedBookPage(t *testing.T) {
	var root any
	data := `{
		"name": "Getting Started",
		"pages": [
			{"type": "text", "text": "Welcome to the guide."},
			{"type": "crafting", "recipe": "thermal:machine_furnace"}
		]
	}`
	if err := json.Unmarshal([]byte(data), &root); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	found := Collect(root)
	texts := make([]string, 0, len(found))
	for _, f := range found {
		texts = append(texts, f.Text)
	}
	want := []string{
		"Getting Started",
		"Welcome to the guide.",
		"text",
		"thermal:machine_furnace",
		"crafting",
	}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("unexpected texts: %v", texts)
	}

	// The nested page text carries its own map key, not the parent's.
	for _, f := range found {
		if f.Text == "Welcome to the guide." && f.Key != "text" {
			t.Errorf("expected key 'text' for nested string, got %q", f.Key)
		}
	}
}

func TestCollect_PathsAreIndependent(t *testing.T) {
	var root any
	data := `{"a": {"b": "one", "c": "two"}}`
	if err := json.Unmarshal([]byte(data), &root); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	found := Collect(root)
	if len(found) != 2 {
		t.Fatalf("expected 2 strings, got %d", len(found))
	}
	wantFirst := Path{MapStep("a"), MapStep("b")}
	wantSecond := Path{MapStep("a"), MapStep("c")}
	if !reflect.DeepEqual(found[0].Path, wantFirst) {
		t.Errorf("unexpected first path: %v", found[0].Path)
	}
	if !reflect.DeepEqual(found[1].Path, wantSecond) {
		t.Errorf("unexpected second path: %v", found[1].Path)
	}
}

func TestCollect_NonMapRoot(t *testing.T) {
	if got := Collect("just a string"); got != nil {
		t.Errorf("expected nil for scalar root, got %v", got)
	}
	if got := Collect([]any{"a", "b"}); got != nil {
		t.Errorf("expected nil for array root, got %v", got)
	}
	if got := Collect(nil); got != nil {
		t.Errorf("expected nil for nil root, got %v", got)
	}
}
