package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

// Migrator copies legacy per-resource JSON files into the primary store at
// boot. Re-running it re-upserts the same data, so it is safe to invoke on
// every start.
type Migrator struct {
	db   ContentStore
	file ContentStore
}

func NewMigrator(db ContentStore, file ContentStore) *Migrator {
	return &Migrator{db: db, file: file}
}

// MigrateFilesToDB walks every known resource id plus the composite document
// and upserts existing file content into the primary store. Per-resource
// failures are logged and do not abort the remaining resources.
func (m *Migrator) MigrateFilesToDB(ctx context.Context) {
	ids := append([]string{domain.StructID}, domain.KnownResources...)
	for _, id := range ids {
		raw, err := m.file.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				log.Printf("migration: read %s failed: %v", id, err)
			}
			continue
		}
		if err := m.db.Put(ctx, id, raw); err != nil {
			log.Printf("migration: upsert %s failed: %v", id, err)
		}
	}
}
