package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lawtocode/clearance/internal/proof"
)

// PostgresStore is a PostgreSQL implementation of the Store interface.
// Proof envelopes are stored as JSONB alongside the columns they are
// queried by; use cases map one row per registration.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// SaveProof persists a proof record. Conflicting proof hashes keep the
// original row (idempotent re-checks).
func (p *PostgresStore) SaveProof(ctx context.Context, rec ProofRecord) error {
	logBytes, err := json.Marshal(rec.Log)
	if err != nil {
		return fmt.Errorf("marshal proof log: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO proofs (id, law_title, verdict, proof_hash, log)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (proof_hash) DO NOTHING`,
		rec.ID, rec.LawTitle, rec.Verdict, rec.ProofHash, logBytes)
	if err != nil {
		return fmt.Errorf("insert proof: %w", err)
	}
	return nil
}

// GetProofByHash retrieves a proof record by hash.
func (p *PostgresStore) GetProofByHash(ctx context.Context, hash string) (*ProofRecord, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, law_title, verdict, proof_hash, log, created_at
		 FROM proofs WHERE proof_hash = $1`, hash)

	rec, err := scanProof(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListProofs returns the most recent proof records, newest first.
func (p *PostgresStore) ListProofs(ctx context.Context, limit int) ([]ProofRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.pool.Query(ctx,
		`SELECT id, law_title, verdict, proof_hash, log, created_at
		 FROM proofs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ProofRecord
	for rows.Next() {
		rec, err := scanProof(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

// CreateUseCase registers a use case row and returns it.
func (p *PostgresStore) CreateUseCase(ctx context.Context, params UseCaseParams) (*UseCase, error) {
	hash, err := params.RecordHash()
	if err != nil {
		return nil, err
	}

	uc := UseCase{
		SystemName:   params.SystemName,
		Purpose:      params.Purpose,
		Context:      params.Context,
		DataUsed:     params.DataUsed,
		Safeguards:   params.Safeguards,
		ExtraDetails: params.ExtraDetails,
		RecordHash:   hash,
	}
	err = p.pool.QueryRow(ctx,
		`INSERT INTO usecases (system_name, purpose, context, data_used, safeguards, extra_details, record_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		uc.SystemName, uc.Purpose, uc.Context, uc.DataUsed, uc.Safeguards, uc.ExtraDetails, uc.RecordHash,
	).Scan(&uc.ID, &uc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert usecase: %w", err)
	}
	return &uc, nil
}

// GetUseCase retrieves a use case by ID.
func (p *PostgresStore) GetUseCase(ctx context.Context, id int64) (*UseCase, error) {
	var uc UseCase
	err := p.pool.QueryRow(ctx,
		`SELECT id, created_at, system_name, purpose, context, data_used, safeguards, extra_details, record_hash
		 FROM usecases WHERE id = $1`, id,
	).Scan(&uc.ID, &uc.CreatedAt, &uc.SystemName, &uc.Purpose, &uc.Context,
		&uc.DataUsed, &uc.Safeguards, &uc.ExtraDetails, &uc.RecordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &uc, nil
}

// ListUseCases returns all registered use cases, newest first.
func (p *PostgresStore) ListUseCases(ctx context.Context) ([]UseCase, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, created_at, system_name, purpose, context, data_used, safeguards, extra_details, record_hash
		 FROM usecases ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []UseCase
	for rows.Next() {
		var uc UseCase
		if err := rows.Scan(&uc.ID, &uc.CreatedAt, &uc.SystemName, &uc.Purpose, &uc.Context,
			&uc.DataUsed, &uc.Safeguards, &uc.ExtraDetails, &uc.RecordHash); err != nil {
			return nil, err
		}
		result = append(result, uc)
	}
	return result, rows.Err()
}

// Close releases the underlying connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanProof(row pgx.Row) (*ProofRecord, error) {
	var rec ProofRecord
	var logBytes []byte
	if err := row.Scan(&rec.ID, &rec.LawTitle, &rec.Verdict, &rec.ProofHash, &logBytes, &rec.CreatedAt); err != nil {
		return nil, err
	}
	var l proof.Log
	if err := json.Unmarshal(logBytes, &l); err != nil {
		return nil, fmt.Errorf("decode proof log: %w", err)
	}
	rec.Log = &l
	return &rec, nil
}
