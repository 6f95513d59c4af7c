package engine

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/lawtocode/clearance/internal/dcl"
)

func TestRuleHandlers(t *testing.T) {
	doc := map[string]any{
		"manufacturer": "ACME",
		"weight":       42.0,
		"category":     "electronics",
		"certified":    true,
		"email":        "sales@acme.example",
		"firmware":     "1.4.0",
		"empty":        "",
		"order":        map[string]any{"total": 99.0},
	}

	tests := []struct {
		name string
		rule dcl.Rule
		want bool
	}{
		{name: "require present", rule: dcl.Rule{Type: dcl.TypeRequire, Field: "manufacturer"}, want: true},
		{name: "require missing", rule: dcl.Rule{Type: dcl.TypeRequire, Field: "importer"}, want: false},
		{name: "require empty string", rule: dcl.Rule{Type: dcl.TypeRequire, Field: "empty"}, want: false},
		{name: "require nested", rule: dcl.Rule{Type: dcl.TypeRequire, Field: "order.total"}, want: true},
		{name: "equals string", rule: dcl.Rule{Type: dcl.TypeEquals, Field: "category", Value: "electronics"}, want: true},
		{name: "equals bool", rule: dcl.Rule{Type: dcl.TypeEquals, Field: "certified", Value: true}, want: true},
		{name: "equals number cross-type", rule: dcl.Rule{Type: dcl.TypeEquals, Field: "weight", Value: 42}, want: true},
		{name: "equals mismatch", rule: dcl.Rule{Type: dcl.TypeEquals, Field: "category", Value: "toys"}, want: false},
		{name: "equals missing field", rule: dcl.Rule{Type: dcl.TypeEquals, Field: "importer", Value: "x"}, want: false},
		{name: "not_equals", rule: dcl.Rule{Type: dcl.TypeNotEquals, Field: "category", Value: "toys"}, want: true},
		{name: "not_equals hit", rule: dcl.Rule{Type: dcl.TypeNotEquals, Field: "category", Value: "electronics"}, want: false},
		{name: "not_equals missing field fails", rule: dcl.Rule{Type: dcl.TypeNotEquals, Field: "importer", Value: "x"}, want: false},
		{name: "max ok", rule: dcl.Rule{Type: dcl.TypeMax, Field: "weight", Value: float64(50)}, want: true},
		{name: "max exceeded", rule: dcl.Rule{Type: dcl.TypeMax, Field: "weight", Value: float64(40)}, want: false},
		{name: "max non-numeric value", rule: dcl.Rule{Type: dcl.TypeMax, Field: "category", Value: float64(10)}, want: false},
		{name: "max missing field", rule: dcl.Rule{Type: dcl.TypeMax, Field: "height", Value: float64(10)}, want: false},
		{name: "min boundary", rule: dcl.Rule{Type: dcl.TypeMin, Field: "weight", Value: float64(42)}, want: true},
		{name: "min nested", rule: dcl.Rule{Type: dcl.TypeMin, Field: "order.total", Value: float64(50)}, want: true},
		{name: "in hit", rule: dcl.Rule{Type: dcl.TypeIn, Field: "category", Value: []any{"electronics", "furniture"}}, want: true},
		{name: "in miss", rule: dcl.Rule{Type: dcl.TypeIn, Field: "category", Value: []any{"toys"}}, want: false},
		{name: "matches", rule: dcl.Rule{Type: dcl.TypeMatches, Field: "email", Value: `^[^@]+@acme\.example$`}, want: true},
		{name: "matches non-string", rule: dcl.Rule{Type: dcl.TypeMatches, Field: "weight", Value: `4.`}, want: false},
		{name: "min_version ok", rule: dcl.Rule{Type: dcl.TypeMinVersion, Field: "firmware", Value: "1.2.0"}, want: true},
		{name: "min_version too old", rule: dcl.Rule{Type: dcl.TypeMinVersion, Field: "firmware", Value: "2.0.0"}, want: false},
		{name: "min_version not semver value", rule: dcl.Rule{Type: dcl.TypeMinVersion, Field: "category", Value: "1.0.0"}, want: false},
		{name: "expr truthy", rule: dcl.Rule{Type: dcl.TypeExpr, Value: map[string]any{"<": []any{map[string]any{"var": "weight"}, float64(50)}}}, want: true},
		{name: "expr falsy", rule: dcl.Rule{Type: dcl.TypeExpr, Value: map[string]any{">": []any{map[string]any{"var": "weight"}, float64(50)}}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := evaluateRule(tt.rule, doc)
			if res.Passed != tt.want {
				t.Fatalf("evaluateRule(%+v) passed=%v, want %v (details: %s)", tt.rule, res.Passed, tt.want, res.Details)
			}
		})
	}
}

func TestEvaluate_VerdictAndDeterminism(t *testing.T) {
	schema := &dcl.Schema{
		LawTitle: "demo",
		Rules: []dcl.Rule{
			{ID: "r1", Type: dcl.TypeRequire, Field: "manufacturer"},
			{ID: "r2", Type: dcl.TypeMax, Field: "weight", Value: float64(50)},
		},
	}
	doc := map[string]any{"manufacturer": "ACME", "weight": 42.0}

	got1 := Evaluate(schema, doc)
	got2 := Evaluate(schema, doc)

	if !reflect.DeepEqual(got1, got2) {
		t.Fatalf("Evaluate should be deterministic, got %#v and %#v", got1, got2)
	}
	if got1.Verdict != VerdictCompliant {
		t.Fatalf("Verdict = %s, want %s", got1.Verdict, VerdictCompliant)
	}
	if len(got1.Results) != 2 {
		t.Fatalf("result count = %d, want 2", len(got1.Results))
	}
	if got1.Results[0].RuleID != "r1" || got1.Results[1].RuleID != "r2" {
		t.Fatalf("results out of schema order: %#v", got1.Results)
	}
}

func TestEvaluate_SingleFailureFlipsVerdict(t *testing.T) {
	schema := &dcl.Schema{
		Rules: []dcl.Rule{
			{ID: "r1", Type: dcl.TypeMin, Field: "age", Value: float64(18)},
		},
	}

	compliant := Evaluate(schema, map[string]any{"age": 20.0})
	if compliant.Verdict != VerdictCompliant {
		t.Fatalf("age 20: verdict = %s", compliant.Verdict)
	}

	nonCompliant := Evaluate(schema, map[string]any{"age": 15.0})
	if nonCompliant.Verdict != VerdictNonCompliant {
		t.Fatalf("age 15: verdict = %s", nonCompliant.Verdict)
	}
	if nonCompliant.Compliant() {
		t.Fatal("Compliant() should be false")
	}
}

func TestEvaluate_NotEqualsMissingField(t *testing.T) {
	schema := &dcl.Schema{
		Rules: []dcl.Rule{
			{ID: "r1", Type: dcl.TypeNotEquals, Field: "status", Value: "banned"},
		},
	}

	// Omitting the field entirely must not satisfy the rule.
	report := Evaluate(schema, map[string]any{"other": 1.0})
	if report.Verdict != VerdictNonCompliant {
		t.Fatalf("missing field: verdict = %s, want NON-COMPLIANT", report.Verdict)
	}

	report = Evaluate(schema, map[string]any{"status": "active"})
	if report.Verdict != VerdictCompliant {
		t.Fatalf("different value: verdict = %s, want COMPLIANT", report.Verdict)
	}
}

func TestEvaluate_NonObjectDocument(t *testing.T) {
	schema := &dcl.Schema{
		Rules: []dcl.Rule{
			{ID: "r1", Type: dcl.TypeRequire, Field: "name"},
		},
	}
	report := Evaluate(schema, []any{"not", "an", "object"})
	if report.Verdict != VerdictNonCompliant {
		t.Fatalf("verdict = %s, want NON-COMPLIANT", report.Verdict)
	}
}

func TestEvaluate_UnknownRuleType(t *testing.T) {
	schema := &dcl.Schema{
		Rules: []dcl.Rule{{ID: "r1", Type: dcl.RuleType("bogus"), Field: "x"}},
	}
	report := Evaluate(schema, map[string]any{"x": 1.0})
	if report.Verdict != VerdictNonCompliant {
		t.Fatalf("unknown rule type should fail the check, got %s", report.Verdict)
	}
}

func TestResolvePath(t *testing.T) {
	var doc any
	if err := json.Unmarshal([]byte(`{"a": {"b": {"c": 7}}, "top": "x"}`), &doc); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		want    any
		present bool
	}{
		{path: "top", want: "x", present: true},
		{path: "a.b.c", want: float64(7), present: true},
		{path: "a.b", want: map[string]any{"c": float64(7)}, present: true},
		{path: "a.missing", present: false},
		{path: "top.deeper", present: false},
		{path: "", present: false},
	}
	for _, tt := range tests {
		got, present := ResolvePath(doc, tt.path)
		if present != tt.present {
			t.Fatalf("ResolvePath(%q) present=%v, want %v", tt.path, present, tt.present)
		}
		if present && !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ResolvePath(%q) = %#v, want %#v", tt.path, got, tt.want)
		}
	}
}
