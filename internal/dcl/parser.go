// Package dcl parses the compliance rule language ("DCL") into a Schema.
//
// The language is line-oriented: one rule per line, blank lines and lines
// starting with '#' are skipped. Supported forms:
//
//	require     <field>
//	equals      <field> <value>
//	not_equals  <field> <value>
//	max         <field> <number>
//	min         <field> <number>
//	in          <field> [a, b, c]
//	matches     <field> <regex>
//	min_version <field> <semver>
//	expr        <jsonlogic object>
//
// <field> is a dotted path into the checked JSON document. Scalar values
// are auto-cast: true/false, integers, floats, quoted strings, then bare
// strings.
package dcl

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// ParseError reports a rule line that does not conform to the DCL grammar.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("dcl: line %d: %s", e.Line, e.Msg)
	}
	return "dcl: " + e.Msg
}

func errLine(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// fieldPattern limits field paths to dotted identifier segments.
var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Parse converts rule text into a Schema. Every non-comment, non-blank
// line must parse; the first offending line aborts with a *ParseError.
// A text that yields zero rules is itself a ParseError: a law with no
// rules has no defined verdict.
func Parse(title, text string) (*Schema, error) {
	if strings.TrimSpace(title) == "" {
		title = "Untitled Law Snippet"
	}

	var parsed []Rule
	for i, line := range strings.Split(text, "\n") {
		rule, ok, err := ParseLine(line, i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			parsed = append(parsed, rule)
		}
	}

	if len(parsed) == 0 {
		return nil, &ParseError{Msg: "law text contains no rules"}
	}

	return &Schema{
		LawTitle:    title,
		Rules:       parsed,
		SourceText:  text,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// ParseLine parses a single source line. The second return is false for
// blank and comment lines, which are not rules.
func ParseLine(line string, lineNo int) (Rule, bool, error) {
	raw := strings.TrimSpace(line)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return Rule{}, false, nil
	}

	parts := strings.Fields(raw)
	keyword := strings.ToLower(parts[0])
	id := fmt.Sprintf("r%d", lineNo)

	// expr takes the whole remainder as a jsonlogic document and has no
	// field component.
	if keyword == "expr" {
		rest := strings.TrimSpace(strings.TrimPrefix(raw, parts[0]))
		if rest == "" {
			return Rule{}, false, errLine(lineNo, "expr requires a jsonlogic expression")
		}
		var logic any
		if err := json.Unmarshal([]byte(rest), &logic); err != nil {
			return Rule{}, false, errLine(lineNo, "expr is not valid JSON: %v", err)
		}
		return Rule{ID: id, Type: TypeExpr, Value: logic}, true, nil
	}

	if len(parts) < 2 {
		return Rule{}, false, errLine(lineNo, "rule %q needs a field", keyword)
	}
	field := parts[1]
	if !fieldPattern.MatchString(field) {
		return Rule{}, false, errLine(lineNo, "invalid field path %q", field)
	}

	switch keyword {
	case "require":
		return Rule{ID: id, Type: TypeRequire, Field: field}, true, nil

	case "equals", "not_equals":
		if len(parts) < 3 {
			return Rule{}, false, errLine(lineNo, "%s %s: missing value", keyword, field)
		}
		value := AutoCast(strings.Join(parts[2:], " "))
		t := TypeEquals
		if keyword == "not_equals" {
			t = TypeNotEquals
		}
		return Rule{ID: id, Type: t, Field: field, Value: value}, true, nil

	case "max", "min":
		if len(parts) < 3 {
			return Rule{}, false, errLine(lineNo, "%s %s: missing bound", keyword, field)
		}
		bound, ok := AutoCast(parts[2]).(float64)
		if !ok {
			return Rule{}, false, errLine(lineNo, "%s %s: bound %q is not a number", keyword, field, parts[2])
		}
		t := TypeMax
		if keyword == "min" {
			t = TypeMin
		}
		return Rule{ID: id, Type: t, Field: field, Value: bound}, true, nil

	case "in":
		open := strings.Index(raw, "[")
		end := strings.LastIndex(raw, "]")
		if open < 0 || end < open {
			return Rule{}, false, errLine(lineNo, "in %s: expected [a, b, c] list", field)
		}
		var items []any
		for _, part := range strings.Split(raw[open+1:end], ",") {
			if s := strings.TrimSpace(part); s != "" {
				items = append(items, AutoCast(s))
			}
		}
		if len(items) == 0 {
			return Rule{}, false, errLine(lineNo, "in %s: list is empty", field)
		}
		return Rule{ID: id, Type: TypeIn, Field: field, Value: items}, true, nil

	case "matches":
		if len(parts) < 3 {
			return Rule{}, false, errLine(lineNo, "matches %s: missing pattern", field)
		}
		pattern := strings.Join(parts[2:], " ")
		if _, err := regexp.Compile(pattern); err != nil {
			return Rule{}, false, errLine(lineNo, "matches %s: bad pattern: %v", field, err)
		}
		return Rule{ID: id, Type: TypeMatches, Field: field, Value: pattern}, true, nil

	case "min_version":
		if len(parts) < 3 {
			return Rule{}, false, errLine(lineNo, "min_version %s: missing version", field)
		}
		if _, err := semver.NewVersion(parts[2]); err != nil {
			return Rule{}, false, errLine(lineNo, "min_version %s: %q is not semver", field, parts[2])
		}
		return Rule{ID: id, Type: TypeMinVersion, Field: field, Value: parts[2]}, true, nil
	}

	return Rule{}, false, errLine(lineNo, "unknown rule keyword %q", keyword)
}

// AutoCast converts a raw token to the most specific scalar it can:
// bool, then number (float64, matching JSON decoding), then a
// quote-stripped or bare string.
func AutoCast(token string) any {
	t := strings.TrimSpace(token)
	switch strings.ToLower(t) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(t, 64); err == nil {
		return n
	}
	if len(t) >= 2 {
		if (t[0] == '\'' && t[len(t)-1] == '\'') || (t[0] == '"' && t[len(t)-1] == '"') {
			return t[1 : len(t)-1]
		}
	}
	return t
}
