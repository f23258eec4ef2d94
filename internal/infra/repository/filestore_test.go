package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "content"))
	ctx := context.Background()

	doc := json.RawMessage(`[{"id":1,"title":"Race A"}]`)
	if err := store.Put(ctx, "events", doc); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	raw, err := store.Get(ctx, "events")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("stored document unparsable: %v", err)
	}
	if len(got) != 1 || got[0]["title"] != "Race A" {
		t.Fatalf("unexpected round trip result: %v", got)
	}
}

func TestFileStoreMissingAndGarbageReadAsNotFound(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound for missing file, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.Get(ctx, "broken"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound for garbage file, got %v", err)
	}
}
