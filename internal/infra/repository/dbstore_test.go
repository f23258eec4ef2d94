package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
	"github.com/aliyabuz25/forsaj-cms/internal/infra/database/models"
)

func TestDecodeEntryMarksUnparseableRowUnhealthy(t *testing.T) {
	health := domain.NewHealthState(time.Minute)
	s := &DBStore{health: health}

	_, err := s.decodeEntry(models.ContentEntry{Key: "events", Document: `{"broken`}, "events")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found for unparseable row, got %v", err)
	}
	if health.IsHealthy() {
		t.Fatalf("expected health flag flipped by unparseable row")
	}
}

func TestDecodeEntryValidRowMarksHealthy(t *testing.T) {
	health := domain.NewHealthState(time.Minute)
	health.MarkUnhealthy()
	s := &DBStore{health: health}

	raw, err := s.decodeEntry(models.ContentEntry{Key: "events", Document: `[{"id":1}]`}, "events")
	if err != nil {
		t.Fatalf("expected valid row to decode, got %v", err)
	}
	if string(raw) != `[{"id":1}]` {
		t.Fatalf("unexpected document: %s", raw)
	}
	if !health.IsHealthy() {
		t.Fatalf("expected health flag restored by successful read")
	}
}
