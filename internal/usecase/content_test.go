package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

type mockSignaler struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (m *mockSignaler) Publish(ctx context.Context, event domain.ChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockSignaler) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

type mockPinger struct {
	mu    sync.Mutex
	pings int
}

func (m *mockPinger) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pings++
	return nil
}

func newTestFacade(t *testing.T) (*ContentUsecase, *memStore, *memStore, *mockSignaler) {
	t.Helper()
	db := newMemStore()
	file := newMemStore()
	health := domain.NewHealthState(time.Minute)
	structs := NewStructManager(db, file, health)
	t.Cleanup(structs.Close)
	signal := &mockSignaler{}

	// the legacy failover path reads db first, then file, writing both
	legacy := &dualStore{primary: db, fallback: file}
	uc := NewContentUsecase(structs, legacy, &mockPinger{}, health, signal, time.Minute)
	return uc, db, file, signal
}

// dualStore reproduces the failover repository over the test memStores
// without importing the infra package.
type dualStore struct {
	primary  *memStore
	fallback *memStore
}

func (d *dualStore) Get(ctx context.Context, id string) (json.RawMessage, error) {
	if raw, err := d.primary.Get(ctx, id); err == nil {
		return raw, nil
	}
	return d.fallback.Get(ctx, id)
}

func (d *dualStore) Put(ctx context.Context, id string, doc json.RawMessage) error {
	perr := d.primary.Put(ctx, id, doc)
	ferr := d.fallback.Put(ctx, id, doc)
	if perr != nil && ferr != nil {
		return domain.ErrAllStoresFailed
	}
	return nil
}

func TestContentScenarioEventsThenNews(t *testing.T) {
	uc, _, _, signal := newTestFacade(t)
	ctx := context.Background()

	got := uc.GetContent(ctx, domain.ResourceEvents, domain.ResourceList{})
	if list, ok := got.(domain.ResourceList); !ok || len(list) != 0 {
		t.Fatalf("expected empty events initially, got %v", got)
	}

	initial := uc.Status(ctx).SchemaVersion

	if err := uc.SaveContent(ctx, domain.ResourceEvents, []any{
		map[string]any{"id": 1, "title": "Race A"},
	}); err != nil {
		t.Fatalf("events save failed: %v", err)
	}

	got = uc.GetContent(ctx, domain.ResourceEvents, domain.ResourceList{})
	list, ok := got.(domain.ResourceList)
	if !ok || len(list) != 1 || list[0].(map[string]any)["title"] != "Race A" {
		t.Fatalf("events round trip failed: %v", got)
	}

	if err := uc.SaveContent(ctx, domain.ResourceNews, []any{
		map[string]any{"id": 1, "title": "News A"},
	}); err != nil {
		t.Fatalf("news save failed: %v", err)
	}

	got = uc.GetContent(ctx, domain.ResourceEvents, domain.ResourceList{})
	list, ok = got.(domain.ResourceList)
	if !ok || len(list) != 1 || list[0].(map[string]any)["title"] != "Race A" {
		t.Fatalf("events changed by news write: %v", got)
	}

	if v := uc.Status(ctx).SchemaVersion; v != initial+2 {
		t.Fatalf("expected schemaVersion %d, got %d", initial+2, v)
	}
	if signal.count() != 2 {
		t.Fatalf("expected 2 change events, got %d", signal.count())
	}
}

func TestGetContentFallsBackToFileWhenPrimaryDown(t *testing.T) {
	uc, db, file, _ := newTestFacade(t)
	ctx := context.Background()

	file.seed("legacy-banner", `[{"id":"b1","path":"/img/banner.jpg"}]`)
	db.failGet = true

	got := uc.GetContent(ctx, "legacy-banner", domain.ResourceList{})
	list, ok := got.([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("expected file content, got %v", got)
	}
}

func TestGetContentReturnsFallbackWhenNothingExists(t *testing.T) {
	uc, _, _, _ := newTestFacade(t)
	ctx := context.Background()

	fallback := domain.ResourceList{map[string]any{"id": "default"}}
	got := uc.GetContent(ctx, "nonexistent-legacy", fallback)
	list, ok := got.(domain.ResourceList)
	if !ok || len(list) != 1 || list[0].(map[string]any)["id"] != "default" {
		t.Fatalf("expected fallback, got %v", got)
	}
}

func TestSaveContentLegacyPathWritesBothStores(t *testing.T) {
	uc, db, file, _ := newTestFacade(t)
	ctx := context.Background()

	if err := uc.SaveContent(ctx, "legacy-banner", []any{map[string]any{"id": "b1"}}); err != nil {
		t.Fatalf("legacy save failed: %v", err)
	}
	if db.get("legacy-banner") == nil {
		t.Fatalf("expected legacy write in primary store")
	}
	if file.get("legacy-banner") == nil {
		t.Fatalf("expected legacy write in file store")
	}
}

func TestSaveContentRejectsNonArrayForListResource(t *testing.T) {
	uc, _, _, _ := newTestFacade(t)
	ctx := context.Background()

	err := uc.SaveContent(ctx, domain.ResourceEvents, map[string]any{"id": 1})
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSaveContentStructMergesPartialDocument(t *testing.T) {
	uc, _, _, _ := newTestFacade(t)
	ctx := context.Background()

	if err := uc.SaveContent(ctx, domain.ResourceEvents, []any{map[string]any{"id": 1}}); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	err := uc.SaveContent(ctx, domain.StructID, map[string]any{
		"resources": map[string]any{
			"news": []any{map[string]any{"id": 9, "title": "fresh"}},
		},
	})
	if err != nil {
		t.Fatalf("struct save failed: %v", err)
	}

	s, ok := uc.GetContent(ctx, domain.StructID, nil).(domain.ContentStruct)
	if !ok {
		t.Fatalf("expected composite document")
	}
	if len(s.Resources[domain.ResourceNews]) != 1 {
		t.Fatalf("expected news applied: %v", s.Resources[domain.ResourceNews])
	}
	if len(s.Resources[domain.ResourceEvents]) != 1 {
		t.Fatalf("partial struct save wiped events: %v", s.Resources[domain.ResourceEvents])
	}
}

func TestSaveContentStructRejectsNonObject(t *testing.T) {
	uc, _, _, _ := newTestFacade(t)

	err := uc.SaveContent(context.Background(), domain.StructID, []any{"not a document"})
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
