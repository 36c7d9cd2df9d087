package triage

import (
	"reflect"
	"strings"
	"testing"
)

func TestAnalyze_DocumentedSample(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	r := e.Analyze("fever headache dizziness")

	if r.SuggestedDepartment != "Neurology" {
		t.Errorf("department = %q, want Neurology", r.SuggestedDepartment)
	}
	if r.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %q, want high", r.Confidence)
	}
	if r.Description == "" {
		t.Error("expected non-empty description")
	}
	if len(r.MatchedKeywords) != 3 {
		t.Errorf("matched = %v, want 3 keywords", r.MatchedKeywords)
	}
}

func TestAnalyze_Departments(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)

	tests := []struct {
		name     string
		input    string
		wantDept string
		wantConf Confidence
	}{
		{"cardiac phrase and keyword", "sharp chest pain and heart racing", "Cardiology", ConfidenceHigh},
		{"single cardiac keyword", "my heart feels strange", "Cardiology", ConfidenceLow},
		{"orthopedic phrases", "joint pain and back pain after a fall", "Orthopedics", ConfidenceMedium},
		{"gastro", "stomach cramps with nausea and abdominal bloating", "Gastroenterology", ConfidenceHigh},
		{"dermatology", "itchy rash on my skin", "Dermatology", ConfidenceMedium},
		{"ophthalmology", "blurry vision in my left eye", "Ophthalmology", ConfidenceHigh},
		{"ent", "sore throat and blocked nose with sinus pressure", "ENT", ConfidenceHigh},
		{"no keywords", "I feel generally unwell and tired", "General Medicine", ConfidenceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := e.Analyze(tt.input)
			if r.SuggestedDepartment != tt.wantDept {
				t.Errorf("Analyze(%q) department = %q, want %q", tt.input, r.SuggestedDepartment, tt.wantDept)
			}
			if r.Confidence != tt.wantConf {
				t.Errorf("Analyze(%q) confidence = %q, want %q", tt.input, r.Confidence, tt.wantConf)
			}
		})
	}
}

func TestAnalyze_EmptyAndMalformedInput(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)

	inputs := []string{
		"",
		"   ",
		"\t\n",
		"!!! ??? ...",
		"1234567890",
		strings.Repeat("x", 100_000),
	}

	for _, in := range inputs {
		r := e.Analyze(in)
		if r.SuggestedDepartment != "General Medicine" {
			t.Errorf("Analyze(%.20q) department = %q, want General Medicine", in, r.SuggestedDepartment)
		}
		if r.Confidence != ConfidenceNone {
			t.Errorf("Analyze(%.20q) confidence = %q, want none", in, r.Confidence)
		}
		if r.Description == "" {
			t.Errorf("Analyze(%.20q) returned empty description", in)
		}
	}
}

func TestAnalyze_CaseInsensitive(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)

	lower := e.Analyze("fever")
	upper := e.Analyze("FEVER")
	mixed := e.Analyze("FeVeR")

	if !reflect.DeepEqual(lower, upper) || !reflect.DeepEqual(lower, mixed) {
		t.Errorf("case variants differ: %+v vs %+v vs %+v", lower, upper, mixed)
	}
}

func TestAnalyze_PunctuationStripped(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)

	plain := e.Analyze("headache dizziness fever")
	noisy := e.Analyze("Headache!! Dizziness, (fever)...")

	if plain.SuggestedDepartment != noisy.SuggestedDepartment {
		t.Errorf("department = %q vs %q, want equal", plain.SuggestedDepartment, noisy.SuggestedDepartment)
	}
	if plain.Confidence != noisy.Confidence {
		t.Errorf("confidence = %q vs %q, want equal", plain.Confidence, noisy.Confidence)
	}
}

func TestAnalyze_WholeTokenMatching(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)

	// "early" must not trigger the ENT "ear" keyword
	r := e.Analyze("symptoms started early this morning")
	if r.SuggestedDepartment != "General Medicine" {
		t.Errorf("department = %q, want General Medicine (no partial-word matches)", r.SuggestedDepartment)
	}

	// a split phrase must not match: "chest" and "pain" far apart
	r = e.Analyze("chest feels fine but pain in my legs")
	if r.SuggestedDepartment == "Cardiology" {
		t.Error("non-consecutive tokens matched the phrase \"chest pain\"")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	const input = "stomach pain with nausea and a headache"

	first := e.Analyze(input)
	for range 50 {
		if got := e.Analyze(input); got.SuggestedDepartment != first.SuggestedDepartment ||
			got.Confidence != first.Confidence {
			t.Fatalf("Analyze(%q) unstable: %+v vs %+v", input, got, first)
		}
	}
}

func TestAnalyze_TieBreakFirstDeclared(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)

	// one Cardiology keyword, one Neurology keyword; Cardiology is declared first
	const input = "heart headache"
	for range 20 {
		r := e.Analyze(input)
		if r.SuggestedDepartment != "Cardiology" {
			t.Fatalf("Analyze(%q) = %q, want first-declared Cardiology", input, r.SuggestedDepartment)
		}
	}
}

func TestAnalyze_HighestCountWins(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)

	// two Gastroenterology keywords beat one Cardiology keyword
	r := e.Analyze("heart stomach nausea")
	if r.SuggestedDepartment != "Gastroenterology" {
		t.Errorf("department = %q, want Gastroenterology", r.SuggestedDepartment)
	}
	if len(r.MatchedKeywords) != 2 {
		t.Errorf("matched = %v, want 2 keywords", r.MatchedKeywords)
	}
}

func TestAnalyze_RepeatedTokensCountOnce(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)

	r := e.Analyze("heart heart heart heart")
	if r.SuggestedDepartment != "Cardiology" {
		t.Fatalf("department = %q, want Cardiology", r.SuggestedDepartment)
	}
	// 1 of 4 Cardiology keywords matched, regardless of repetition
	if r.Confidence != ConfidenceLow {
		t.Errorf("confidence = %q, want low", r.Confidence)
	}
}

func TestAnalyze_CustomRuleSet(t *testing.T) {
	t.Parallel()

	rs, err := NewRuleSet([]Rule{
		{Department: "A", Keywords: []string{"alpha", "beta"}, Description: "a"},
		{Department: "B", Keywords: []string{"gamma"}, Description: "b"},
	}, DefaultRule{Department: "Z", Description: "z"})
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}

	e := NewEngine(rs)

	if r := e.Analyze("alpha beta"); r.SuggestedDepartment != "A" || r.Confidence != ConfidenceHigh {
		t.Errorf("got %+v, want A/high", r)
	}
	if r := e.Analyze("gamma"); r.SuggestedDepartment != "B" || r.Confidence != ConfidenceHigh {
		// 1 of 1 keywords matched
		t.Errorf("got %+v, want B/high", r)
	}
	if r := e.Analyze("delta"); r.SuggestedDepartment != "Z" || r.Confidence != ConfidenceNone {
		t.Errorf("got %+v, want Z/none", r)
	}
}

func TestConfidenceFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m, k int
		want Confidence
	}{
		{1, 1, ConfidenceHigh},
		{3, 6, ConfidenceHigh},
		{2, 4, ConfidenceHigh},
		{2, 5, ConfidenceMedium},
		{2, 6, ConfidenceMedium},
		{1, 4, ConfidenceLow},
		{1, 3, ConfidenceLow},
		{1, 2, ConfidenceHigh},
	}

	for _, tt := range tests {
		if got := confidenceFor(tt.m, tt.k); got != tt.want {
			t.Errorf("confidenceFor(%d, %d) = %q, want %q", tt.m, tt.k, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \t ", nil},
		{"lowercases", "FEVER Chills", []string{"fever", "chills"}},
		{"strips punctuation", "head-ache, fever!", []string{"head", "ache", "fever"}},
		{"keeps digits", "fever for 3 days", []string{"fever", "for", "3", "days"}},
		{"collapses runs", "a ,,  b", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Normalize(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Normalize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAnalyze_Concurrent(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	done := make(chan struct{})

	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 200 {
				_ = e.Analyze("chest pain and dizziness")
			}
		}()
	}
	for range 8 {
		<-done
	}
}
