package docstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"saldo/internal/pagination"
)

type memoryDoc struct {
	owner string
	data  []byte
}

// MemoryStore is an in-process Store. It backs the `memory` backend for
// local development and keeps service tests free of database setup.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]memoryDoc
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]memoryDoc)}
}

func (s *MemoryStore) Read(ctx context.Context, collection, key string) (Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][key]
	if !ok {
		return Doc{Key: key}, nil
	}
	return Doc{
		Key:    key,
		Owner:  doc.owner,
		Exists: true,
		Data:   slices.Clone(doc.data),
	}, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, key, owner string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]memoryDoc)
		s.collections[collection] = docs
	}
	docs[key] = memoryDoc{owner: owner, data: slices.Clone(data)}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, key string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][key]
	if !ok {
		return ErrNotFound
	}

	merged, err := mergeFields(doc.data, fields)
	if err != nil {
		return err
	}
	s.collections[collection][key] = memoryDoc{owner: doc.owner, data: merged}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], key)
	return nil
}

func (s *MemoryStore) DeleteByPrefix(ctx context.Context, collection, keyPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.collections[collection] {
		if strings.HasPrefix(key, keyPrefix) {
			delete(s.collections[collection], key)
		}
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection, member string, limit, offset int) ([]Doc, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Doc
	for key, doc := range s.collections[collection] {
		if member != "" && !slices.Contains(strings.Fields(doc.owner), member) {
			continue
		}
		docs = append(docs, Doc{
			Key:    key,
			Owner:  doc.owner,
			Exists: true,
			Data:   slices.Clone(doc.data),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })

	total := int64(len(docs))
	return pagination.Slice(docs, limit, offset), total, nil
}
