package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It uses maps guarded by an RWMutex and is suitable for development,
// testing, or single-instance deployments without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	proofs   map[string]ProofRecord // proof hash -> record
	usecases map[int64]UseCase
	nextID   int64
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		proofs:   make(map[string]ProofRecord),
		usecases: make(map[int64]UseCase),
		nextID:   1,
	}
}

// SaveProof persists a proof record in memory. The first record for a
// given proof hash wins.
func (m *MemoryStore) SaveProof(ctx context.Context, rec ProofRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.proofs[rec.ProofHash]; exists {
		return nil
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.proofs[rec.ProofHash] = rec
	return nil
}

// GetProofByHash retrieves a proof record by hash.
func (m *MemoryStore) GetProofByHash(ctx context.Context, hash string) (*ProofRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.proofs[hash]
	if !exists {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// ListProofs returns the most recent proof records, newest first.
func (m *MemoryStore) ListProofs(ctx context.Context, limit int) ([]ProofRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ProofRecord, 0, len(m.proofs))
	for _, rec := range m.proofs {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CreateUseCase registers a use case with an auto-incremented ID.
func (m *MemoryStore) CreateUseCase(ctx context.Context, params UseCaseParams) (*UseCase, error) {
	hash, err := params.RecordHash()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	uc := UseCase{
		ID:           m.nextID,
		CreatedAt:    time.Now().UTC(),
		SystemName:   params.SystemName,
		Purpose:      params.Purpose,
		Context:      params.Context,
		DataUsed:     params.DataUsed,
		Safeguards:   params.Safeguards,
		ExtraDetails: params.ExtraDetails,
		RecordHash:   hash,
	}
	m.usecases[uc.ID] = uc
	m.nextID++
	return &uc, nil
}

// GetUseCase retrieves a use case by ID.
func (m *MemoryStore) GetUseCase(ctx context.Context, id int64) (*UseCase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uc, exists := m.usecases[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &uc, nil
}

// ListUseCases returns all registered use cases, newest first.
func (m *MemoryStore) ListUseCases(ctx context.Context) ([]UseCase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]UseCase, 0, len(m.usecases))
	for _, uc := range m.usecases {
		result = append(result, uc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Close is a no-op for MemoryStore as there are no resources to release.
func (m *MemoryStore) Close() error {
	return nil
}
