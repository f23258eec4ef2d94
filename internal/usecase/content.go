package usecase

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/zeebo/xxh3"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

// ContentUsecase is the public content facade. Known composite resource ids
// and the composite document id route through the structure manager; any
// other id takes the legacy direct path over the failover store. Reads never
// fail outward, writes fail only when every backing store refused.
type ContentUsecase struct {
	structs *StructManager
	legacy  ContentStore
	pinger  Pinger
	health  *domain.HealthState
	signal  Signaler
	cache   *cache.Cache
}

func NewContentUsecase(
	structs *StructManager,
	legacy ContentStore,
	pinger Pinger,
	health *domain.HealthState,
	signal Signaler,
	cacheTTL time.Duration,
) *ContentUsecase {
	return &ContentUsecase{
		structs: structs,
		legacy:  legacy,
		pinger:  pinger,
		health:  health,
		signal:  signal,
		cache:   cache.New(cacheTTL, 2*cacheTTL),
	}
}

// GetContent returns the content stored under id, or the fallback when
// nothing usable exists anywhere. Absence and legitimate emptiness are
// indistinguishable to the caller.
func (u *ContentUsecase) GetContent(ctx context.Context, id string, fallback domain.ResourceList) any {
	ctx, span := tracer.Start(ctx, "ContentUsecase.GetContent")
	defer span.End()

	u.maybeReconnect()

	if id == domain.StructID {
		s, err := u.structs.GetStruct(ctx)
		if err != nil {
			return domain.NewContentStruct()
		}
		return s
	}

	if domain.IsKnownResource(id) {
		return u.structs.GetResource(ctx, id, fallback)
	}

	if cached, found := u.cache.Get(id); found {
		if raw, ok := cached.(json.RawMessage); ok {
			var value any
			if err := json.Unmarshal(raw, &value); err == nil {
				return value
			}
		}
	}

	raw, err := u.legacy.Get(ctx, id)
	if err != nil {
		return fallback
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fallback
	}
	u.cache.Set(id, raw, cache.DefaultExpiration)
	return value
}

// SaveContent persists the submitted content under id. It returns nil when
// at least one backing store accepted the write, a ValidationError when the
// payload shape is overtly wrong for the resource, and ErrAllStoresFailed
// when nothing was persisted.
func (u *ContentUsecase) SaveContent(ctx context.Context, id string, data any) error {
	ctx, span := tracer.Start(ctx, "ContentUsecase.SaveContent")
	defer span.End()

	u.maybeReconnect()

	if id == domain.StructID {
		incoming, err := decodeIncomingStruct(data)
		if err != nil {
			return err
		}
		s, err := u.structs.SaveStruct(ctx, incoming)
		if err != nil {
			return err
		}
		u.publishChange(ctx, id, s.SchemaVersion, revisionOf(s))
		return nil
	}

	if domain.IsKnownResource(id) {
		list, ok := domain.CoerceList(data)
		if !ok {
			return domain.ValidationError{Reason: "expected an array for resource " + id}
		}
		if err := domain.ValidateResource(id, list); err != nil {
			return err
		}
		s, err := u.structs.SaveResource(ctx, id, list)
		if err != nil {
			return err
		}
		u.publishChange(ctx, id, s.SchemaVersion, revisionOf(s))
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return domain.ValidationError{Reason: "payload is not serializable"}
	}
	if err := u.legacy.Put(ctx, id, raw); err != nil {
		return err
	}
	u.cache.Delete(id)
	u.publishChange(ctx, id, 0, revisionOf(data))
	return nil
}

// Status reports the store health and current composite revision.
type Status struct {
	Healthy       bool      `json:"healthy"`
	SchemaVersion int64     `json:"schemaVersion"`
	Revision      string    `json:"revision"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (u *ContentUsecase) Status(ctx context.Context) Status {
	s, _ := u.structs.GetStruct(ctx)
	return Status{
		Healthy:       u.health.IsHealthy(),
		SchemaVersion: s.SchemaVersion,
		Revision:      revisionOf(s),
		UpdatedAt:     s.UpdatedAt,
	}
}

// maybeReconnect fires a single best-effort background probe when the
// primary store is marked unhealthy and the cooldown has elapsed. It never
// blocks the calling request.
func (u *ContentUsecase) maybeReconnect() {
	if u.pinger == nil || !u.health.ShouldAttemptReconnect(time.Now()) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := u.pinger.Ping(ctx); err != nil {
			log.Printf("content: reconnect probe failed: %v", err)
		}
	}()
}

func (u *ContentUsecase) publishChange(ctx context.Context, resource string, version int64, revision string) {
	if u.signal == nil {
		return
	}
	event := domain.ChangeEvent{
		Resource:      resource,
		SchemaVersion: version,
		Revision:      revision,
		At:            time.Now().UTC(),
	}
	if err := u.signal.Publish(ctx, event); err != nil {
		log.Printf("content: change publish failed: %v", err)
	}
}

func decodeIncomingStruct(data any) (domain.ContentStruct, error) {
	if _, ok := data.(map[string]any); !ok {
		return domain.ContentStruct{}, domain.ValidationError{Reason: "expected a composite document object"}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return domain.ContentStruct{}, domain.ValidationError{Reason: "payload is not serializable"}
	}
	s, err := domain.DecodeIncomingStruct(raw)
	if err != nil {
		return domain.ContentStruct{}, domain.ValidationError{Reason: "malformed composite document"}
	}
	return s, nil
}

func revisionOf(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strconv.FormatUint(xxh3.Hash(raw), 16)
}
