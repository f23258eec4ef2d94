package usecase

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

var tracer = otel.Tracer("content")

// StructManager owns the unified composite document: loading it with the
// primary-then-file fallback order, hydrating empty resources from legacy
// per-resource storage, merging updates and persisting the result to both
// stores plus the legacy mirrors. All mutations go through the write queue.
type StructManager struct {
	db     ContentStore
	file   ContentStore
	health *domain.HealthState
	queue  *writeQueue
}

func NewStructManager(db ContentStore, file ContentStore, health *domain.HealthState) *StructManager {
	return &StructManager{
		db:     db,
		file:   file,
		health: health,
		queue:  newWriteQueue(),
	}
}

// Close stops the write queue worker. Pending writers finish first.
func (m *StructManager) Close() {
	m.queue.Close()
}

// GetStruct resolves the composite document: primary store first, then the
// file store (mirroring a file hit back into the primary store), and finally
// a fresh document synthesized from whatever legacy per-resource data exists.
// A document whose empty resources could be hydrated from legacy storage is
// re-persisted so the next read is complete.
func (m *StructManager) GetStruct(ctx context.Context) (domain.ContentStruct, error) {
	ctx, span := tracer.Start(ctx, "StructManager.GetStruct")
	defer span.End()

	if raw, err := m.db.Get(ctx, domain.StructID); err == nil {
		if s, derr := domain.DecodeStruct(raw); derr == nil {
			if m.hydrate(ctx, &s) {
				m.persistHydration(ctx)
			}
			return s, nil
		}
	}

	if raw, err := m.file.Get(ctx, domain.StructID); err == nil {
		if s, derr := domain.DecodeStruct(raw); derr == nil {
			if enc, eerr := domain.EncodeStruct(s); eerr == nil {
				if perr := m.db.Put(ctx, domain.StructID, enc); perr != nil {
					log.Printf("struct: mirror to primary store failed: %v", perr)
				}
			}
			if m.hydrate(ctx, &s) {
				m.persistHydration(ctx)
			}
			return s, nil
		}
	}

	// Neither store has the composite document yet. The bootstrap write runs
	// under the queue and re-reads state there: a writer queued ahead of it may
	// have created the document already, and persisting the stale pre-read
	// skeleton over it would erase that write.
	s := domain.NewContentStruct()
	err := m.queue.RunExclusive(ctx, func(ctx context.Context) error {
		cur, found := m.load(ctx)
		changed := m.hydrate(ctx, &cur)
		var perr error
		if changed || (!found && m.health.IsHealthy()) {
			perr = m.persist(ctx, &cur)
		}
		s = cur
		return perr
	})
	if err != nil {
		log.Printf("struct: initial persist failed: %v", err)
	}
	return s, nil
}

// GetResource returns a deep copy of one resource sequence, or the fallback
// when the resource is absent.
func (m *StructManager) GetResource(ctx context.Context, id string, fallback domain.ResourceList) domain.ResourceList {
	s, err := m.GetStruct(ctx)
	if err != nil {
		return fallback
	}
	list, ok := s.Resources[id]
	if !ok {
		return fallback
	}
	return domain.CopyList(list)
}

// SaveResource replaces one resource sequence inside the composite document.
// Site-content is merged by page identity instead of replaced, so pages the
// payload does not mention survive. Returns the persisted document.
func (m *StructManager) SaveResource(ctx context.Context, id string, incoming domain.ResourceList) (domain.ContentStruct, error) {
	ctx, span := tracer.Start(ctx, "StructManager.SaveResource")
	defer span.End()

	if incoming == nil {
		incoming = domain.ResourceList{}
	}

	var result domain.ContentStruct
	err := m.queue.RunExclusive(ctx, func(ctx context.Context) error {
		cur := m.current(ctx)
		m.hydrate(ctx, &cur)

		if id == domain.ResourceSiteContent {
			domain.EnsurePageIDs(incoming)
			cur.Resources[id] = domain.MergePages(cur.Resources[id], incoming)
		} else {
			cur.Resources[id] = incoming
		}

		if err := m.persist(ctx, &cur); err != nil {
			return err
		}
		result = cur
		return nil
	})
	return result, err
}

// SaveStruct merges a full incoming document: each resource sequence present
// in the payload overwrites the current one, untouched resources stay.
// Returns the persisted document.
func (m *StructManager) SaveStruct(ctx context.Context, incoming domain.ContentStruct) (domain.ContentStruct, error) {
	ctx, span := tracer.Start(ctx, "StructManager.SaveStruct")
	defer span.End()

	var result domain.ContentStruct
	err := m.queue.RunExclusive(ctx, func(ctx context.Context) error {
		cur := m.current(ctx)
		m.hydrate(ctx, &cur)

		domain.MergeStruct(&cur, incoming)

		if err := m.persist(ctx, &cur); err != nil {
			return err
		}
		result = cur
		return nil
	})
	return result, err
}

// current loads the composite document without side effects: primary store,
// then file store, then an empty skeleton.
func (m *StructManager) current(ctx context.Context) domain.ContentStruct {
	s, _ := m.load(ctx)
	return s
}

// load reads the composite document with the same fallback order as current
// and reports whether either store actually had one.
func (m *StructManager) load(ctx context.Context) (domain.ContentStruct, bool) {
	if raw, err := m.db.Get(ctx, domain.StructID); err == nil {
		if s, derr := domain.DecodeStruct(raw); derr == nil {
			return s, true
		}
	}
	if raw, err := m.file.Get(ctx, domain.StructID); err == nil {
		if s, derr := domain.DecodeStruct(raw); derr == nil {
			return s, true
		}
	}
	return domain.NewContentStruct(), false
}

// hydrate fills empty known resources from legacy per-resource storage,
// primary store first. Reports whether anything changed.
func (m *StructManager) hydrate(ctx context.Context, s *domain.ContentStruct) bool {
	changed := false
	for _, id := range domain.KnownResources {
		if len(s.Resources[id]) > 0 {
			continue
		}
		raw, err := m.db.Get(ctx, id)
		if err != nil {
			raw, err = m.file.Get(ctx, id)
		}
		if err != nil {
			continue
		}
		list := domain.CoerceRawList(raw)
		if len(list) == 0 {
			continue
		}
		s.Resources[id] = list
		changed = true
	}
	return changed
}

// persistHydration re-runs hydration under the queue and persists the result,
// so a read that found stale emptiness repairs the stored document without
// racing concurrent writers.
func (m *StructManager) persistHydration(ctx context.Context) {
	err := m.queue.RunExclusive(ctx, func(ctx context.Context) error {
		cur := m.current(ctx)
		if !m.hydrate(ctx, &cur) {
			return nil
		}
		return m.persist(ctx, &cur)
	})
	if err != nil {
		log.Printf("struct: hydration persist failed: %v", err)
	}
}

// persist stamps the version metadata and writes the composite document to
// both stores, then mirrors every resource sequence into its legacy
// per-resource key in both stores for consumers still reading the old
// endpoints. Succeeds when at least one write landed anywhere.
func (m *StructManager) persist(ctx context.Context, s *domain.ContentStruct) error {
	s.SchemaVersion++
	s.UpdatedAt = time.Now().UTC()

	enc, err := domain.EncodeStruct(*s)
	if err != nil {
		return err
	}

	ok := false
	if err := m.db.Put(ctx, domain.StructID, enc); err == nil {
		ok = true
	} else {
		log.Printf("struct: primary store write failed: %v", err)
	}
	if err := m.file.Put(ctx, domain.StructID, enc); err == nil {
		ok = true
	} else {
		log.Printf("struct: file store write failed: %v", err)
	}

	for id, list := range s.Resources {
		raw, merr := json.Marshal(list)
		if merr != nil {
			continue
		}
		if err := m.db.Put(ctx, id, raw); err == nil {
			ok = true
		}
		if err := m.file.Put(ctx, id, raw); err == nil {
			ok = true
		}
	}

	if !ok {
		return domain.ErrAllStoresFailed
	}
	return nil
}
