package triage

// Engine matches normalized symptom tokens against a RuleSet. It is pure and
// stateless: no I/O, no shared mutable state, safe for concurrent use.
type Engine struct {
	rules *RuleSet
}

// NewEngine creates an engine over the given rule set. A nil rule set falls
// back to the built-in table.
func NewEngine(rules *RuleSet) *Engine {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &Engine{rules: rules}
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() *RuleSet {
	return e.rules
}

// Analyze maps a free-text symptom description to a suggested department.
// It never fails: empty, arbitrarily long, or keyword-free input degrades to
// the default department with confidence none.
func (e *Engine) Analyze(symptomText string) Result {
	tokens := Normalize(symptomText)

	bestIdx := -1
	bestCount := 0
	var bestMatched []string

	for i := range e.rules.rules {
		matched := e.rules.rules[i].match(tokens)
		// strictly greater keeps the first-declared entry on ties
		if len(matched) > bestCount {
			bestIdx = i
			bestCount = len(matched)
			bestMatched = matched
		}
	}

	if bestIdx < 0 {
		def := e.rules.def
		return Result{
			SuggestedDepartment: def.Department,
			Confidence:          ConfidenceNone,
			Description:         def.Description,
		}
	}

	winner := &e.rules.rules[bestIdx]
	return Result{
		SuggestedDepartment: winner.department,
		Confidence:          confidenceFor(bestCount, len(winner.phrases)),
		Description:         winner.description,
		MatchedKeywords:     bestMatched,
	}
}

// confidenceFor derives the confidence label from the winning match count m
// and the entry's keyword count k. Callers guarantee m >= 1 and k >= 1.
func confidenceFor(m, k int) Confidence {
	switch {
	case 2*m >= k:
		return ConfidenceHigh
	case m >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// match returns the rule's keywords present in the token slice. Single-word
// keywords match whole tokens; multi-word keywords match consecutive runs.
func (r *compiledRule) match(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	var matched []string
	for i, phrase := range r.phrases {
		if containsPhrase(tokens, phrase) {
			matched = append(matched, r.keywords[i])
		}
	}
	return matched
}

func containsPhrase(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		j := 0
		for ; j < len(phrase); j++ {
			if tokens[i+j] != phrase[j] {
				break
			}
		}
		if j == len(phrase) {
			return true
		}
	}
	return false
}
