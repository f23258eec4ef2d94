package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
	"github.com/aliyabuz25/forsaj-cms/internal/infra/database/models"
)

// DBStore is the primary store adapter: one row per resource id in the
// content_entries table. Query failures flip the shared health state so the
// rest of the process knows the database may be down.
type DBStore struct {
	db     *gorm.DB
	health *domain.HealthState
}

func NewDBStore(db *gorm.DB, health *domain.HealthState) *DBStore {
	return &DBStore{db: db, health: health}
}

func (s *DBStore) Get(ctx context.Context, id string) (json.RawMessage, error) {
	var entry models.ContentEntry
	err := s.db.WithContext(ctx).
		Where("key = ?", id).
		Take(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.NotFoundError{Resource: id}
	}
	if err != nil {
		s.health.MarkUnhealthy()
		return nil, domain.NotFoundError{Resource: id}
	}

	return s.decodeEntry(entry, id)
}

// decodeEntry validates a fetched row. A document that is not parseable JSON
// counts as a store failure, not just a miss, so the health flag flips and the
// facade can start serving fallbacks.
func (s *DBStore) decodeEntry(entry models.ContentEntry, id string) (json.RawMessage, error) {
	if !json.Valid([]byte(entry.Document)) {
		s.health.MarkUnhealthy()
		return nil, domain.NotFoundError{Resource: id}
	}

	s.health.MarkHealthy()
	return json.RawMessage(entry.Document), nil
}

func (s *DBStore) Put(ctx context.Context, id string, doc json.RawMessage) error {
	entry := models.ContentEntry{
		Key:      id,
		Document: string(doc),
		MDate:    time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "m_date"}),
	}).Create(&entry).Error
	if err != nil {
		s.health.MarkUnhealthy()
		return errors.Wrap(err, "DBStore.Put: upsert failed")
	}

	s.health.MarkHealthy()
	return nil
}

// Ping probes the underlying connection and updates the health state. Used by
// the facade's opportunistic reconnect.
func (s *DBStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		s.health.MarkUnhealthy()
		return errors.Wrap(err, "DBStore.Ping: no connection pool")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		s.health.MarkUnhealthy()
		return errors.Wrap(err, "DBStore.Ping: ping failed")
	}
	s.health.MarkHealthy()
	return nil
}
