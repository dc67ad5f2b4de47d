package resume

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestItem_IsBare(t *testing.T) {
	if !(Item{Content: "text"}).IsBare() {
		t.Error("expected item without title and level to be bare")
	}
	if (Item{Title: "Engineer", Level: Level(3)}).IsBare() {
		t.Error("expected titled item to not be bare")
	}
}

func TestDocument_EmptyAndItemCount(t *testing.T) {
	var d Document
	if !d.Empty() {
		t.Error("expected zero document to be empty")
	}

	d = Document{
		Sections: []Section{
			{ID: "A", Title: "A", Items: []Item{{Content: "x"}, {Title: "y", Level: Level(4)}}},
			{ID: "B", Title: "B", Items: []Item{}},
		},
	}
	if d.Empty() {
		t.Error("expected document with sections to not be empty")
	}
	if d.ItemCount() != 2 {
		t.Errorf("expected 2 items, got %d", d.ItemCount())
	}
}

func TestItem_JSONOmitsNilLevel(t *testing.T) {
	b, err := json.Marshal(Item{Content: "Go, Rust"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(b), "level") {
		t.Errorf("expected no level key for bare item, got %s", b)
	}

	b, err = json.Marshal(Item{Title: "Engineer", Level: Level(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(b), `"level":3`) {
		t.Errorf("expected level 3 in json, got %s", b)
	}
}
