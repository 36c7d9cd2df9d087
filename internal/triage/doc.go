// Package triage maps free-text symptom descriptions to a suggested medical
// department. It defines the RuleSet (static keyword configuration), Engine
// (pure whole-token matcher), and Service (metrics, logging, optional LLM
// description advisor).
package triage
