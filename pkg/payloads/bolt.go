package payloads

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var payloadBucket = []byte("payloads")

// BoltStore is a bbolt-backed payload store. All payloads live in a single
// bucket within one DB file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the payload database at path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create payload store directory")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open payload store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(payloadBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create payload bucket")
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get implements Store.
func (s *BoltStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(payloadBucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			out = make(json.RawMessage, len(v))
			copy(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get payload %s", key)
	}
	return out, nil
}

// Put implements Store.
func (s *BoltStore) Put(_ context.Context, key string, value json.RawMessage) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(payloadBucket).Put([]byte(key), value)
	})
	return errors.Wrapf(err, "put payload %s", key)
}

var _ Store = (*BoltStore)(nil)
