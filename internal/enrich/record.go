package enrich

import (
	"fmt"
	"strings"

	"codeberg.org/charvel/ankivocab/internal/vocab"
)

// Record is one enriched vocabulary term. The linguistic fields are set if
// and only if SpellingIssue is empty.
type Record struct {
	Term          vocab.Term
	Stressed      string
	Romanized     string
	English       string
	Notes         string
	SpellingIssue string
}

// validate enforces the mutual-exclusivity contract on a single record.
func (r Record) validate() error {
	if r.SpellingIssue != "" {
		if r.Stressed != "" || r.Romanized != "" || r.English != "" {
			return fmt.Errorf("record %q carries both a spelling issue and linguistic fields", r.Term.Text)
		}
		return nil
	}
	if r.Stressed == "" || r.Romanized == "" || r.English == "" {
		return fmt.Errorf("record %q is missing linguistic fields and reports no spelling issue", r.Term.Text)
	}
	return nil
}

// ConfigError reports a missing or unusable service configuration detected
// before any request is made.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "enrichment configuration error: " + e.Reason
}

// ContractViolationError reports a response that breaks the service
// contract: wrong item count, altered echo fields, or a record violating
// mutual exclusivity. It carries the raw payload for diagnosis because a
// contract break means the upstream cannot be trusted.
type ContractViolationError struct {
	Batch  int
	Reason string
	Raw    string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("enrichment service contract violation in batch %d: %s", e.Batch, e.Reason)
}

// SpellingIssue is one input term the service flagged as misspelled.
type SpellingIssue struct {
	Term    vocab.Term
	Problem string
}

// Result carries the outcome of a full enrichment run. Records holds every
// successfully enriched term; Issues holds every flagged one. A run with any
// issues must not proceed to audio synthesis or output writing.
type Result struct {
	Records []Record
	Issues  []SpellingIssue
}

// IssueReport formats the accumulated spelling issues for the user, one
// line per flagged term.
func (r *Result) IssueReport() string {
	var sb strings.Builder
	for _, issue := range r.Issues {
		fmt.Fprintf(&sb, "%s: '%s': %s\n", issue.Term.Category, issue.Term.Text, issue.Problem)
	}
	return sb.String()
}
