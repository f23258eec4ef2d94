package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

type stubStore struct {
	docs    map[string]json.RawMessage
	failGet bool
	failPut bool
	puts    int
}

func newStubStore() *stubStore {
	return &stubStore{docs: map[string]json.RawMessage{}}
}

func (s *stubStore) Get(ctx context.Context, id string) (json.RawMessage, error) {
	if s.failGet {
		return nil, domain.NotFoundError{Resource: id}
	}
	raw, ok := s.docs[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: id}
	}
	return raw, nil
}

func (s *stubStore) Put(ctx context.Context, id string, doc json.RawMessage) error {
	if s.failPut {
		return errors.New("store down")
	}
	s.puts++
	s.docs[id] = doc
	return nil
}

func TestFailoverGetPrefersFirstStore(t *testing.T) {
	primary := newStubStore()
	fallback := newStubStore()
	primary.docs["x"] = json.RawMessage(`"primary"`)
	fallback.docs["x"] = json.RawMessage(`"fallback"`)

	f := NewFailover(primary, fallback)
	raw, err := f.Get(context.Background(), "x")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(raw) != `"primary"` {
		t.Fatalf("expected primary value, got %s", raw)
	}
}

func TestFailoverGetFallsThrough(t *testing.T) {
	primary := newStubStore()
	primary.failGet = true
	fallback := newStubStore()
	fallback.docs["x"] = json.RawMessage(`"fallback"`)

	f := NewFailover(primary, fallback)
	raw, err := f.Get(context.Background(), "x")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(raw) != `"fallback"` {
		t.Fatalf("expected fallback value, got %s", raw)
	}
}

func TestFailoverPutSucceedsWhenAnyStoreAccepts(t *testing.T) {
	primary := newStubStore()
	primary.failPut = true
	fallback := newStubStore()

	f := NewFailover(primary, fallback)
	if err := f.Put(context.Background(), "x", json.RawMessage(`[]`)); err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if fallback.puts != 1 {
		t.Fatalf("expected fallback write, got %d", fallback.puts)
	}

	fallback.failPut = true
	if err := f.Put(context.Background(), "x", json.RawMessage(`[]`)); !errors.Is(err, domain.ErrAllStoresFailed) {
		t.Fatalf("expected ErrAllStoresFailed, got %v", err)
	}
}
