package enrich

import (
	"context"
	"encoding/json"
	"fmt"

	"codeberg.org/charvel/ankivocab/internal/vocab"
)

// DefaultBatchSize bounds how many terms go into one service request. Small
// batches keep payloads tractable and limit how much a single malformed
// response can spoil.
const DefaultBatchSize = 20

// batchItem is the request wire format for one term.
type batchItem struct {
	Russian  string `json:"russian"`
	Category string `json:"category"`
}

// noteItem is the response wire format for one term.
type noteItem struct {
	Russian         string `json:"russian"`
	Category        string `json:"category"`
	StressedRussian string `json:"stressed_russian"`
	Romanized       string `json:"romanized"`
	English         string `json:"english"`
	SpellingError   string `json:"spelling_error"`
}

type noteList struct {
	Notes []noteItem `json:"notes"`
}

// Dispatcher partitions terms into batches, forwards each to the model, and
// assembles validated records. Batches are sent sequentially; a spelling
// issue in one batch does not stop later batches, but a contract violation
// aborts immediately.
type Dispatcher struct {
	model     Model
	batchSize int
}

// NewDispatcher creates a dispatcher over the given model. batchSize <= 0
// selects DefaultBatchSize.
func NewDispatcher(model Model, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Dispatcher{model: model, batchSize: batchSize}
}

// Enrich processes all terms of a run. The returned Result separates
// enriched records from spelling issues; the caller decides whether any
// issues withhold the run's output. Errors are contract violations or
// transport failures and are fatal.
func (d *Dispatcher) Enrich(ctx context.Context, terms []vocab.Term) (*Result, error) {
	result := &Result{}

	for start := 0; start < len(terms); start += d.batchSize {
		end := min(start+d.batchSize, len(terms))
		batch := terms[start:end]

		records, issues, err := d.enrichBatch(ctx, start/d.batchSize, batch)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, records...)
		result.Issues = append(result.Issues, issues...)
	}

	return result, nil
}

func (d *Dispatcher) enrichBatch(ctx context.Context, batchNum int, terms []vocab.Term) ([]Record, []SpellingIssue, error) {
	items := make([]batchItem, len(terms))
	for i, t := range terms {
		items[i] = batchItem{Russian: t.Text, Category: t.Category}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	prompt := fmt.Sprintf("Process these Russian texts according to the schema: %s", payload)
	raw, err := d.model.Generate(ctx, prompt)
	if err != nil {
		return nil, nil, err
	}

	var list noteList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, nil, &ContractViolationError{
			Batch:  batchNum,
			Reason: fmt.Sprintf("response is not valid JSON: %v", err),
			Raw:    raw,
		}
	}
	if len(list.Notes) != len(terms) {
		return nil, nil, &ContractViolationError{
			Batch:  batchNum,
			Reason: fmt.Sprintf("sent %d terms, received %d records", len(terms), len(list.Notes)),
			Raw:    raw,
		}
	}

	var records []Record
	var issues []SpellingIssue
	for i, note := range list.Notes {
		record := Record{
			Term:          vocab.Term{Text: note.Russian, Category: note.Category},
			Stressed:      note.StressedRussian,
			Romanized:     note.Romanized,
			English:       note.English,
			SpellingIssue: note.SpellingError,
		}

		if record.Term != terms[i] {
			return nil, nil, &ContractViolationError{
				Batch:  batchNum,
				Reason: fmt.Sprintf("record %d echoes %+v, sent %+v", i, record.Term, terms[i]),
				Raw:    raw,
			}
		}
		if err := record.validate(); err != nil {
			return nil, nil, &ContractViolationError{
				Batch:  batchNum,
				Reason: err.Error(),
				Raw:    raw,
			}
		}

		if record.SpellingIssue != "" {
			issues = append(issues, SpellingIssue{Term: record.Term, Problem: record.SpellingIssue})
			continue
		}
		records = append(records, record)
	}
	return records, issues, nil
}
