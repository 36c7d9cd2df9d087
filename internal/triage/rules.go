package triage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Rule associates one medical department with the trigger keywords that
// indicate it. Keywords may be single words or multi-word phrases; phrases
// match as consecutive token runs.
type Rule struct {
	Department  string   `json:"department"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

// DefaultRule is the fallback returned when no keyword matches at all.
type DefaultRule struct {
	Department  string `json:"department"`
	Description string `json:"description"`
}

// compiledRule holds a rule with its keywords pre-tokenized.
type compiledRule struct {
	department  string
	description string
	keywords    []string   // original keyword text, for match reporting
	phrases     [][]string // normalized tokens per keyword
}

// RuleSet is an immutable, validated rule table. It is built once at startup
// and safe for concurrent use. Declaration order is significant: ties between
// entries with equal match counts resolve to the first-declared entry.
type RuleSet struct {
	rules []compiledRule
	def   DefaultRule
}

// ruleFile is the on-disk JSON shape accepted by LoadRuleSet.
type ruleFile struct {
	Rules   []Rule      `json:"rules"`
	Default DefaultRule `json:"default"`
}

// NewRuleSet validates and compiles a rule table. Each entry must name a
// department exactly once and carry at least one non-empty keyword.
func NewRuleSet(rules []Rule, def DefaultRule) (*RuleSet, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("rule set must contain at least one rule")
	}
	if def.Department == "" {
		return nil, fmt.Errorf("default department must not be empty")
	}

	seen := make(map[string]bool, len(rules))
	compiled := make([]compiledRule, 0, len(rules))

	for i, r := range rules {
		if r.Department == "" {
			return nil, fmt.Errorf("rule %d: department must not be empty", i)
		}
		if seen[r.Department] {
			return nil, fmt.Errorf("rule %d: duplicate department %q", i, r.Department)
		}
		seen[r.Department] = true

		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): at least one keyword required", i, r.Department)
		}

		cr := compiledRule{
			department:  r.Department,
			description: r.Description,
			keywords:    make([]string, 0, len(r.Keywords)),
			phrases:     make([][]string, 0, len(r.Keywords)),
		}
		for _, kw := range r.Keywords {
			phrase := Normalize(kw)
			if len(phrase) == 0 {
				return nil, fmt.Errorf("rule %d (%s): keyword %q is empty after normalization", i, r.Department, kw)
			}
			cr.keywords = append(cr.keywords, kw)
			cr.phrases = append(cr.phrases, phrase)
		}
		compiled = append(compiled, cr)
	}

	return &RuleSet{rules: compiled, def: def}, nil
}

// LoadRuleSet reads a rule table from a JSON file. The file replaces the
// built-in table entirely; a missing "default" entry is an error.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var rf ruleFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	rs, err := NewRuleSet(rf.Rules, rf.Default)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rs, nil
}

// Default returns the fallback department and description.
func (rs *RuleSet) Default() DefaultRule {
	return rs.def
}

// Departments returns the department names in declaration order, ending with
// the default department.
func (rs *RuleSet) Departments() []string {
	out := make([]string, 0, len(rs.rules)+1)
	for _, r := range rs.rules {
		out = append(out, r.department)
	}
	return append(out, rs.def.Department)
}

// DefaultRuleSet returns the built-in rule table. Keywords are kept in the
// token form patients actually write ("dizziness", not "dizzy") since
// matching is whole-token.
func DefaultRuleSet() *RuleSet {
	rs, err := NewRuleSet([]Rule{
		{
			Department:  "Cardiology",
			Keywords:    []string{"chest pain", "heart", "palpitations", "cardiac"},
			Description: "Your description points to cardiac symptoms. We recommend a consultation with a cardiologist for proper evaluation.",
		},
		{
			Department:  "Neurology",
			Keywords:    []string{"headache", "migraine", "dizziness", "numbness", "seizure", "fever"},
			Description: "Your symptoms suggest a neurological concern. A neurologist can diagnose and treat conditions of the nervous system.",
		},
		{
			Department:  "Orthopedics",
			Keywords:    []string{"joint pain", "back pain", "fracture", "bone", "arthritis"},
			Description: "Your musculoskeletal symptoms are best evaluated by an orthopedic specialist.",
		},
		{
			Department:  "Gastroenterology",
			Keywords:    []string{"stomach", "abdominal", "nausea", "digestive", "bowel"},
			Description: "Your digestive symptoms indicate that a gastroenterology consultation would be beneficial.",
		},
		{
			Department:  "Dermatology",
			Keywords:    []string{"skin", "rash", "acne", "itching", "eczema"},
			Description: "Your skin-related symptoms suggest a consultation with a dermatologist.",
		},
		{
			Department:  "Ophthalmology",
			Keywords:    []string{"eye", "vision", "sight", "blind"},
			Description: "Your vision-related symptoms require evaluation by an ophthalmologist.",
		},
		{
			Department:  "ENT",
			Keywords:    []string{"ear", "nose", "throat", "hearing", "sinus"},
			Description: "Your symptoms are best assessed by an ear, nose and throat specialist.",
		},
	}, DefaultRule{
		Department:  "General Medicine",
		Description: "We recommend starting with a general medicine consultation for initial evaluation and referral to a specialist if needed.",
	})
	if err != nil {
		// the built-in table is validated by tests; a failure here is a bug
		panic(err)
	}
	return rs
}

// Normalize lowercases the text, strips punctuation, and splits it into
// whitespace-separated tokens. Malformed or empty input yields an empty slice.
func Normalize(text string) []string {
	lowered := strings.ToLower(text)
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return ' '
	}, lowered)
	return strings.Fields(mapped)
}
