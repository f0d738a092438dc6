package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"codeberg.org/charvel/ankivocab/internal/vocab"
)

// fakeModel answers each Generate call by enriching the prompt's terms
// mechanically, or with canned output/errors when configured.
type fakeModel struct {
	// flagged maps term text to a spelling complaint.
	flagged map[string]string
	// canned, when non-empty, is returned verbatim for every call.
	canned string
	err    error
	calls  []string
}

func (m *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	m.calls = append(m.calls, prompt)
	if m.err != nil {
		return "", m.err
	}
	if m.canned != "" {
		return m.canned, nil
	}

	start := strings.Index(prompt, "[")
	var items []batchItem
	if err := json.Unmarshal([]byte(prompt[start:]), &items); err != nil {
		return "", fmt.Errorf("fake model could not parse prompt: %w", err)
	}

	var list noteList
	for _, item := range items {
		note := noteItem{Russian: item.Russian, Category: item.Category}
		if problem, ok := m.flagged[item.Russian]; ok {
			note.SpellingError = problem
		} else {
			note.StressedRussian = item.Russian + "́"
			note.Romanized = "romanized-" + item.Russian
			note.English = "english-" + item.Russian
		}
		list.Notes = append(list.Notes, note)
	}
	out, err := json.Marshal(list)
	return string(out), err
}

func terms(texts ...string) []vocab.Term {
	var result []vocab.Term
	for _, text := range texts {
		result = append(result, vocab.Term{Text: text, Category: "Numbers"})
	}
	return result
}

func TestEnrichAllValid(t *testing.T) {
	model := &fakeModel{}
	d := NewDispatcher(model, 10)

	result, err := d.Enrich(context.Background(), terms("один", "два"))
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}

	if len(result.Issues) != 0 {
		t.Errorf("issues = %v, want none", result.Issues)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	first := result.Records[0]
	if first.Term.Text != "один" || first.English != "english-один" || first.Romanized != "romanized-один" {
		t.Errorf("unexpected record: %+v", first)
	}
	if first.SpellingIssue != "" {
		t.Errorf("valid record carries spelling issue: %+v", first)
	}
}

func TestEnrichBatchPartitioning(t *testing.T) {
	model := &fakeModel{}
	d := NewDispatcher(model, 2)

	result, err := d.Enrich(context.Background(), terms("а", "б", "в", "г", "д"))
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}

	if len(model.calls) != 3 {
		t.Errorf("model called %d times, want 3 batches for 5 terms at size 2", len(model.calls))
	}
	if len(result.Records) != 5 {
		t.Errorf("records = %d, want 5", len(result.Records))
	}
}

func TestEnrichSpellingIssuesDoNotStopLaterBatches(t *testing.T) {
	model := &fakeModel{flagged: map[string]string{"цетыре": "should be 'четыре'"}}
	d := NewDispatcher(model, 1)

	result, err := d.Enrich(context.Background(), terms("один", "цетыре", "три"))
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}

	if len(model.calls) != 3 {
		t.Errorf("model called %d times, want all 3 batches sent", len(model.calls))
	}
	if len(result.Records) != 2 {
		t.Errorf("records = %d, want 2 valid records kept", len(result.Records))
	}
	if len(result.Issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(result.Issues))
	}
	issue := result.Issues[0]
	if issue.Term.Text != "цетыре" || issue.Problem != "should be 'четыре'" {
		t.Errorf("unexpected issue: %+v", issue)
	}

	report := result.IssueReport()
	if !strings.Contains(report, "цетыре") || !strings.Contains(report, "четыре") {
		t.Errorf("issue report missing detail: %q", report)
	}
}

func TestEnrichContractViolations(t *testing.T) {
	tests := []struct {
		name   string
		canned string
	}{
		{
			name:   "not JSON",
			canned: "sorry, I cannot help with that",
		},
		{
			name:   "wrong count",
			canned: `{"notes":[]}`,
		},
		{
			name: "altered echo",
			canned: `{"notes":[{"russian":"другой","category":"Numbers",` +
				`"stressed_russian":"х","romanized":"x","english":"x"}]}`,
		},
		{
			name: "issue and linguistic fields together",
			canned: `{"notes":[{"russian":"один","category":"Numbers",` +
				`"stressed_russian":"оди́н","romanized":"odin","english":"one",` +
				`"spelling_error":"bogus"}]}`,
		},
		{
			name:   "neither issue nor linguistic fields",
			canned: `{"notes":[{"russian":"один","category":"Numbers"}]}`,
		},
		{
			name: "partial linguistic fields",
			canned: `{"notes":[{"russian":"один","category":"Numbers",` +
				`"stressed_russian":"оди́н"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(&fakeModel{canned: tt.canned}, 10)

			_, err := d.Enrich(context.Background(), terms("один"))
			var violation *ContractViolationError
			if !errors.As(err, &violation) {
				t.Fatalf("Enrich error = %v, want ContractViolationError", err)
			}
			if violation.Raw == "" {
				t.Error("contract violation lost the raw payload")
			}
		})
	}
}

func TestEnrichModelErrorIsFatal(t *testing.T) {
	d := NewDispatcher(&fakeModel{err: fmt.Errorf("upstream down")}, 10)

	if _, err := d.Enrich(context.Background(), terms("один")); err == nil {
		t.Fatal("Enrich expected error, got nil")
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	model := &fakeModel{}
	d := NewDispatcher(model, 10)

	result, err := d.Enrich(context.Background(), nil)
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if len(model.calls) != 0 {
		t.Errorf("model called %d times for empty input, want 0", len(model.calls))
	}
	if len(result.Records) != 0 || len(result.Issues) != 0 {
		t.Errorf("unexpected result for empty input: %+v", result)
	}
}

func TestNewDispatcherDefaultBatchSize(t *testing.T) {
	d := NewDispatcher(&fakeModel{}, 0)
	if d.batchSize != DefaultBatchSize {
		t.Errorf("batchSize = %d, want %d", d.batchSize, DefaultBatchSize)
	}
}
