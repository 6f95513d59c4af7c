package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/diegoholiveira/jsonlogic/v3"

	"github.com/lawtocode/clearance/internal/dcl"
)

// RuleHandler evaluates one rule type. docValue is the resolved field
// value (nil when the field is absent), present reports whether the field
// path resolved, and doc is the full document for handlers that look at
// more than one field.
type RuleHandler interface {
	Check(docValue any, present bool, ruleValue any, doc any) (bool, string)
}

var ruleHandlers = map[dcl.RuleType]RuleHandler{
	dcl.TypeRequire:    requireHandler{},
	dcl.TypeEquals:     equalsHandler{negate: false},
	dcl.TypeNotEquals:  equalsHandler{negate: true},
	dcl.TypeMax:        boundHandler{cmp: func(v, bound float64) bool { return v <= bound }, word: "<="},
	dcl.TypeMin:        boundHandler{cmp: func(v, bound float64) bool { return v >= bound }, word: ">="},
	dcl.TypeIn:         inListHandler{},
	dcl.TypeMatches:    matchesHandler{},
	dcl.TypeMinVersion: minVersionHandler{},
	dcl.TypeExpr:       exprHandler{},
}

func getRuleHandler(t dcl.RuleType) (RuleHandler, bool) {
	h, ok := ruleHandlers[t]
	return h, ok
}

// regexCache keeps compiled regex by pattern for the hot evaluation path.
// Expected value type is *regexp.Regexp.
var regexCache sync.Map

func getCompiledRegex(pattern string) (*regexp.Regexp, bool) {
	if cached, ok := regexCache.Load(pattern); ok {
		rx, ok := cached.(*regexp.Regexp)
		return rx, ok
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return nil, false
	}
	regexCache.Store(pattern, rx)
	return rx, true
}

type requireHandler struct{}

func (requireHandler) Check(docValue any, present bool, _ any, _ any) (bool, string) {
	passed := present && docValue != nil && docValue != ""
	return passed, fmt.Sprintf("field is required; present=%v", passed)
}

type equalsHandler struct {
	negate bool
}

func (h equalsHandler) Check(docValue any, present bool, ruleValue any, _ any) (bool, string) {
	word := "must equal"
	if h.negate {
		word = "must not equal"
	}
	detail := fmt.Sprintf("%s %v; actual=%v", word, ruleValue, describe(docValue, present))
	// A missing field fails both variants; absence is not inequality.
	if !present {
		return false, detail
	}
	passed := looseEqual(docValue, ruleValue) != h.negate
	return passed, detail
}

type boundHandler struct {
	cmp  func(v, bound float64) bool
	word string
}

func (h boundHandler) Check(docValue any, present bool, ruleValue any, _ any) (bool, string) {
	bound, ok := toFloat64(ruleValue)
	if !ok {
		return false, fmt.Sprintf("bound %v is not numeric", ruleValue)
	}
	detail := fmt.Sprintf("must be %s %v; actual=%v", h.word, ruleValue, describe(docValue, present))
	v, ok := toFloat64(docValue)
	if !present || !ok {
		return false, detail
	}
	return h.cmp(v, bound), detail
}

type inListHandler struct{}

func (inListHandler) Check(docValue any, present bool, ruleValue any, _ any) (bool, string) {
	options, _ := ruleValue.([]any)
	detail := fmt.Sprintf("must be in %v; actual=%v", options, describe(docValue, present))
	if !present {
		return false, detail
	}
	for _, option := range options {
		if looseEqual(docValue, option) {
			return true, detail
		}
	}
	return false, detail
}

type matchesHandler struct{}

func (matchesHandler) Check(docValue any, present bool, ruleValue any, _ any) (bool, string) {
	pattern, _ := toString(ruleValue)
	detail := fmt.Sprintf("must match /%s/; actual=%v", pattern, describe(docValue, present))
	s, ok := toString(docValue)
	if !present || !ok {
		return false, detail
	}
	rx, ok := getCompiledRegex(pattern)
	if !ok {
		return false, fmt.Sprintf("pattern /%s/ does not compile", pattern)
	}
	return rx.MatchString(s), detail
}

type minVersionHandler struct{}

func (minVersionHandler) Check(docValue any, present bool, ruleValue any, _ any) (bool, string) {
	floorRaw, _ := toString(ruleValue)
	detail := fmt.Sprintf("version must be >= %s; actual=%v", floorRaw, describe(docValue, present))
	s, ok := toString(docValue)
	if !present || !ok {
		return false, detail
	}
	floor, err := semver.NewVersion(floorRaw)
	if err != nil {
		return false, detail
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return false, fmt.Sprintf("version must be >= %s; actual=%q is not semver", floorRaw, s)
	}
	return !v.LessThan(floor), detail
}

type exprHandler struct{}

func (exprHandler) Check(_ any, _ bool, ruleValue any, doc any) (bool, string) {
	ruleBytes, err := json.Marshal(ruleValue)
	if err != nil {
		return false, fmt.Sprintf("expression failed: %v", err)
	}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Sprintf("expression failed: %v", err)
	}

	var resultBuf bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleBytes), bytes.NewReader(docBytes), &resultBuf); err != nil {
		return false, fmt.Sprintf("expression failed: %v", err)
	}

	var out any
	if err := json.Unmarshal(resultBuf.Bytes(), &out); err != nil {
		return false, fmt.Sprintf("expression failed: %v", err)
	}
	passed := isTruthy(out)
	return passed, fmt.Sprintf("expression evaluated to %v", passed)
}

// isTruthy follows JavaScript-like truthiness rules for expression output.
func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// ---- coercion helpers ----

func toString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// looseEqual compares a document value to a rule operand. Numbers compare
// numerically regardless of concrete type; strings and bools compare
// directly.
func looseEqual(docValue, ruleValue any) bool {
	if a, ok := toFloat64(docValue); ok {
		b, ok := toFloat64(ruleValue)
		return ok && a == b
	}
	if a, ok := toString(docValue); ok {
		b, ok := toString(ruleValue)
		return ok && a == b
	}
	if a, ok := docValue.(bool); ok {
		b, ok := ruleValue.(bool)
		return ok && a == b
	}
	return false
}

func describe(docValue any, present bool) string {
	if !present {
		return "<missing>"
	}
	return fmt.Sprintf("%v", docValue)
}
