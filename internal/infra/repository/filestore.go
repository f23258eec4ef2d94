package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

// FileStore is the fallback adapter: one pretty-printed JSON file per
// resource id under a content directory. Missing or unparsable files read as
// NotFound so the caller can fall through silently.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (json.RawMessage, error) {
	raw, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, domain.NotFoundError{Resource: id}
	}
	if !json.Valid(raw) {
		return nil, domain.NotFoundError{Resource: id}
	}
	return json.RawMessage(raw), nil
}

func (s *FileStore) Put(ctx context.Context, id string, doc json.RawMessage) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "FileStore.Put: mkdir failed")
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, doc, "", "  "); err != nil {
		return errors.Wrap(err, "FileStore.Put: invalid document")
	}
	pretty.WriteByte('\n')

	if err := os.WriteFile(s.path(id), pretty.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "FileStore.Put: write %s failed", s.path(id))
	}
	return nil
}
