package usecase

import (
	"context"
	"encoding/json"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

// ContentStore defines storage operations for keyed JSON documents.
type ContentStore interface {
	Get(ctx context.Context, id string) (json.RawMessage, error)
	Put(ctx context.Context, id string, doc json.RawMessage) error
}

// Pinger probes store connectivity for reconnect attempts.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Signaler broadcasts content-change events.
type Signaler interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}
