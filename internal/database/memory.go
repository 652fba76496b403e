package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. Documents live for the lifetime of
// the process and are returned in insertion order.
type MemoryStore struct {
	name string

	mu          sync.RWMutex
	collections map[string][]Document
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(name string) *MemoryStore {
	if name == "" {
		name = "memory"
	}
	return &MemoryStore{
		name:        name,
		collections: make(map[string][]Document),
	}
}

func (s *MemoryStore) Name() string {
	return s.name
}

func (s *MemoryStore) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	stored := stamp(doc, time.Now().UTC())
	stored["_id"] = id

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], stored)
	s.mu.Unlock()

	return id, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, limit int64) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.collections[collection]
	if limit > 0 && int64(len(stored)) > limit {
		stored = stored[:limit]
	}

	// Copies, so callers cannot mutate stored documents.
	docs := make([]Document, 0, len(stored))
	for _, doc := range stored {
		cp := make(Document, len(doc))
		for k, v := range doc {
			cp[k] = v
		}
		docs = append(docs, cp)
	}
	return docs, nil
}

func (s *MemoryStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}
