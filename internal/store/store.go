package store

import (
	"context"
	"errors"
	"time"

	"github.com/lawtocode/clearance/internal/proof"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines persistence for proof records and registered use cases.
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveProof persists a proof record. Saving the same proof hash twice
	// is idempotent: the original record wins.
	SaveProof(ctx context.Context, rec ProofRecord) error

	// GetProofByHash retrieves a proof record by its proof hash.
	// Returns ErrNotFound if no such record exists.
	GetProofByHash(ctx context.Context, hash string) (*ProofRecord, error)

	// ListProofs returns the most recent proof records, newest first.
	ListProofs(ctx context.Context, limit int) ([]ProofRecord, error)

	// CreateUseCase registers a use case and returns it with its assigned
	// ID and creation time.
	CreateUseCase(ctx context.Context, params UseCaseParams) (*UseCase, error)

	// GetUseCase retrieves a use case by ID.
	// Returns ErrNotFound if no such record exists.
	GetUseCase(ctx context.Context, id int64) (*UseCase, error)

	// ListUseCases returns all registered use cases, newest first.
	ListUseCases(ctx context.Context) ([]UseCase, error)

	// Close releases any resources held by the store.
	Close() error
}

// ProofRecord is a persisted clearance check: the envelope plus the
// columns it is queried by.
type ProofRecord struct {
	ID        string     `json:"id"`
	LawTitle  string     `json:"law_title"`
	Verdict   string     `json:"verdict"`
	ProofHash string     `json:"proof_hash"`
	Log       *proof.Log `json:"log"`
	CreatedAt time.Time  `json:"created_at"`
}

// UseCase is a registered description of a system subject to clearance
// checks. RecordHash commits to the descriptive fields so later edits
// are detectable.
type UseCase struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	SystemName   string    `json:"system_name"`
	Purpose      string    `json:"purpose,omitempty"`
	Context      string    `json:"context,omitempty"`
	DataUsed     string    `json:"data_used,omitempty"`
	Safeguards   string    `json:"safeguards,omitempty"`
	ExtraDetails string    `json:"extra_details,omitempty"`
	RecordHash   string    `json:"record_hash"`
}

// UseCaseParams contains the caller-supplied fields of a use case.
type UseCaseParams struct {
	SystemName   string `json:"system_name"`
	Purpose      string `json:"purpose,omitempty"`
	Context      string `json:"context,omitempty"`
	DataUsed     string `json:"data_used,omitempty"`
	Safeguards   string `json:"safeguards,omitempty"`
	ExtraDetails string `json:"extra_details,omitempty"`
}

// RecordHash computes the tamper-evidence hash for a use case record.
func (p UseCaseParams) RecordHash() (string, error) {
	return proof.Hash(p)
}
