package webhook

import "time"

// Event types that can trigger webhook deliveries.
const (
	EventChecked = "clearance.checked"
	EventFailed  = "clearance.failed"
)

// Event is the payload delivered to the configured webhook endpoint when
// a clearance check completes. EventFailed is sent for NON-COMPLIANT
// verdicts in addition to the generic EventChecked.
type Event struct {
	Type      string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	LawTitle  string    `json:"law_title"`
	Verdict   string    `json:"verdict"`
	ProofHash string    `json:"proof_hash"`
	RuleCount int       `json:"rule_count"`
	RequestID string    `json:"request_id,omitempty"`
}

// Endpoint is a webhook delivery target.
type Endpoint struct {
	URL    string
	Secret string
}
