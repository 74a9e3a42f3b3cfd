package cache

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dvincze/phototz/internal/model"
)

// RecordStore memoizes extracted metadata records keyed by file
// identity. A nil store is valid and caches nothing.
type RecordStore struct {
	cache Cache
	ttl   time.Duration
}

// NewRecordStore creates a record store over the given cache.
func NewRecordStore(c Cache, ttl time.Duration) *RecordStore {
	return &RecordStore{cache: c, ttl: ttl}
}

// Get returns the cached record for path, if the file is unchanged
// since the record was stored.
func (s *RecordStore) Get(path string) (model.Record, bool) {
	if s == nil || s.cache == nil {
		return nil, false
	}
	key, err := FileKey(path)
	if err != nil {
		return nil, false
	}
	raw, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	var rec model.Record
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		_ = s.cache.Delete(key)
		return nil, false
	}
	return rec, true
}

// Put stores the record for path under the file's current identity.
func (s *RecordStore) Put(path string, rec model.Record) error {
	if s == nil || s.cache == nil {
		return nil
	}
	key, err := FileKey(path)
	if err != nil {
		return err
	}
	raw, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	return s.cache.Set(key, raw, s.ttl)
}
