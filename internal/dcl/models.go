package dcl

import "time"

// RuleType identifies a DCL constraint keyword.
type RuleType string

// Supported rule types (string values for clean JSON serialization).
const (
	TypeRequire    RuleType = "required"
	TypeEquals     RuleType = "equals"
	TypeNotEquals  RuleType = "not_equals"
	TypeMax        RuleType = "max"
	TypeMin        RuleType = "min"
	TypeIn         RuleType = "in"
	TypeMatches    RuleType = "matches"
	TypeMinVersion RuleType = "min_version"
	TypeExpr       RuleType = "expr"
)

// Rule is a single parsed DCL constraint.
// Field is a dotted path into the checked document ("order.total").
// Value holds the comparison operand; its concrete type depends on Type:
// a scalar for equals/max/min, a []any for in, a string pattern for
// matches/min_version, and a decoded JSON object for expr.
type Rule struct {
	ID    string   `json:"id"`
	Type  RuleType `json:"type"`
	Field string   `json:"field,omitempty"`
	Value any      `json:"value,omitempty"`
}

// Schema is the DCL output: an ordered rule set plus the source text it
// was parsed from. Rule order follows source line order.
type Schema struct {
	LawTitle    string    `json:"law_title"`
	Rules       []Rule    `json:"rules"`
	SourceText  string    `json:"source_text"`
	GeneratedAt time.Time `json:"generated_at"`
}
