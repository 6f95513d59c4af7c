// Package proof builds tamper-evident records of clearance checks. The
// proof hash is a SHA-256 digest over the canonical JSON of everything
// that was checked and decided: law title, parsed schema, input document,
// per-rule results and the verdict. Re-running the same inputs reproduces
// the hash; changing any of them breaks it.
//
// Timestamps live on the envelope, never inside the hashed payload, so
// the hash is a pure function of the evaluation.
package proof

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/lawtocode/clearance/internal/dcl"
	"github.com/lawtocode/clearance/internal/engine"
)

// Log is the full audit envelope returned to callers and persisted for
// later verification.
type Log struct {
	LawTitle    string          `json:"law_title"`
	Schema      *dcl.Schema     `json:"schema"`
	DataChecked any             `json:"data_checked"`
	Results     []engine.Result `json:"results"`
	Verdict     engine.Verdict  `json:"verdict"`
	GeneratedAt time.Time       `json:"generated_at"`
	ProofHash   string          `json:"proof_hash"`
}

// payload is the hashed subset of a Log. Schema timestamps are excluded
// for the same reason envelope timestamps are: two parses of the same law
// text must commit to the same hash.
type payload struct {
	LawTitle string          `json:"law_title"`
	Rules    []dcl.Rule      `json:"rules"`
	Source   string          `json:"source_text"`
	Data     any             `json:"data_checked"`
	Results  []engine.Result `json:"results"`
	Verdict  engine.Verdict  `json:"verdict"`
}

// Hash returns the SHA-256 hex digest of the canonical JSON of v.
func Hash(v any) (string, error) {
	canonical, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Build assembles a Log for an evaluation and computes its proof hash.
func Build(schema *dcl.Schema, data any, report engine.Report) (*Log, error) {
	h, err := Hash(payload{
		LawTitle: schema.LawTitle,
		Rules:    schema.Rules,
		Source:   schema.SourceText,
		Data:     data,
		Results:  report.Results,
		Verdict:  report.Verdict,
	})
	if err != nil {
		return nil, err
	}

	return &Log{
		LawTitle:    schema.LawTitle,
		Schema:      schema,
		DataChecked: data,
		Results:     report.Results,
		Verdict:     report.Verdict,
		GeneratedAt: time.Now().UTC(),
		ProofHash:   h,
	}, nil
}

// Verify recomputes the proof hash of a Log and reports whether it still
// matches. A false return means the record was altered after it was
// issued.
func Verify(l *Log) bool {
	if l == nil || l.Schema == nil {
		return false
	}
	h, err := Hash(payload{
		LawTitle: l.LawTitle,
		Rules:    l.Schema.Rules,
		Source:   l.Schema.SourceText,
		Data:     l.DataChecked,
		Results:  l.Results,
		Verdict:  l.Verdict,
	})
	return err == nil && h == l.ProofHash
}
