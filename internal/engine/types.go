package engine

// Verdict is the overall outcome of a clearance check.
type Verdict string

const (
	VerdictCompliant    Verdict = "COMPLIANT"
	VerdictNonCompliant Verdict = "NON-COMPLIANT"
)

// Result records the outcome of one rule against the checked document.
type Result struct {
	RuleID  string `json:"rule_id"`
	Field   string `json:"field,omitempty"`
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// Report is the deterministic output of Evaluate: per-rule results in
// schema order plus the overall verdict.
type Report struct {
	Results []Result `json:"results"`
	Verdict Verdict  `json:"verdict"`
}

// Compliant reports whether every rule passed.
func (r Report) Compliant() bool { return r.Verdict == VerdictCompliant }
