package repository

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

// Store is a keyed JSON document store.
type Store interface {
	Get(ctx context.Context, id string) (json.RawMessage, error)
	Put(ctx context.Context, id string, doc json.RawMessage) error
}

// Failover makes the dual-store fallback policy explicit: reads try each
// backing store in order and return the first hit, writes go to every store
// and succeed when at least one accepts. Used for the legacy per-resource
// path; composite writes go through the structure manager instead.
type Failover struct {
	stores []Store
}

func NewFailover(stores ...Store) *Failover {
	return &Failover{stores: stores}
}

func (f *Failover) Get(ctx context.Context, id string) (json.RawMessage, error) {
	for _, store := range f.stores {
		raw, err := store.Get(ctx, id)
		if err == nil {
			return raw, nil
		}
	}
	return nil, domain.NotFoundError{Resource: id}
}

func (f *Failover) Put(ctx context.Context, id string, doc json.RawMessage) error {
	ok := false
	for _, store := range f.stores {
		if err := store.Put(ctx, id, doc); err != nil {
			log.Printf("failover: write %s failed on one store: %v", id, err)
			continue
		}
		ok = true
	}
	if !ok {
		return domain.ErrAllStoresFailed
	}
	return nil
}
