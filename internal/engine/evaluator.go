// Package engine evaluates a parsed DCL schema against a JSON document
// and produces a clearance verdict. Evaluation is a pure function of its
// inputs: no I/O, no shared state, identical inputs always yield the same
// Report.
package engine

import (
	"fmt"
	"strings"

	"github.com/lawtocode/clearance/internal/dcl"
)

// Evaluate runs every rule of the schema against doc, in schema order.
// The verdict is COMPLIANT iff every rule passed. Unknown rule types fail
// their rule rather than aborting the check.
func Evaluate(schema *dcl.Schema, doc any) Report {
	report := Report{
		Results: make([]Result, 0, len(schema.Rules)),
		Verdict: VerdictCompliant,
	}

	for _, rule := range schema.Rules {
		result := evaluateRule(rule, doc)
		report.Results = append(report.Results, result)
		if !result.Passed {
			report.Verdict = VerdictNonCompliant
		}
	}
	return report
}

func evaluateRule(rule dcl.Rule, doc any) Result {
	handler, ok := getRuleHandler(rule.Type)
	if !ok {
		return Result{
			RuleID:  rule.ID,
			Field:   rule.Field,
			Passed:  false,
			Details: fmt.Sprintf("unknown rule type %q", rule.Type),
		}
	}

	value, present := ResolvePath(doc, rule.Field)
	passed, details := handler.Check(value, present, rule.Value, doc)
	if rule.Field != "" {
		details = fmt.Sprintf("field %q %s", rule.Field, details)
	}
	return Result{
		RuleID:  rule.ID,
		Field:   rule.Field,
		Passed:  passed,
		Details: details,
	}
}

// ResolvePath walks a dotted path through nested JSON objects. The second
// return is false when any segment is missing or the value en route is
// not an object. An empty path never resolves.
func ResolvePath(doc any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := doc
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
