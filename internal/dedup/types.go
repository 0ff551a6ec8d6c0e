// Package dedup removes or reweights near-duplicate documents in a text corpus.
// exact dedup drops repeated content hashes, fuzzy dedup drops documents whose
// MinHash signature collides with an earlier kept document in an LSH index, and
// soft dedup keeps every document but discounts members of near-duplicate clusters.
package dedup

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// default JSON key holding the document text
	TextKey = "text"

	// JSON key soft dedup writes the weight to
	WeightKey = "weight"
)

// names a deduplication strategy
type Strategy string

const (
	StrategyExact Strategy = "exact"
	StrategyFuzzy Strategy = "fuzzy"
	StrategySoft  Strategy = "soft"
)

// lists every strategy the dispatcher knows
func Strategies() []Strategy {
	return []Strategy{StrategyExact, StrategyFuzzy, StrategySoft}
}

// resolves a strategy name, ignoring case and surrounding spaces
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))

	switch s {
	case StrategyExact, StrategyFuzzy, StrategySoft:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q (%w)", ErrUnknownStrategy, name, ErrInvalidConfig)
	}
}

// Document is a caller-owned record. the engine reads Text and, for soft dedup,
// writes Weight on a copy. every other field travels untouched in Meta.
type Document struct {
	Text   string
	Weight float64
	Meta   map[string]any
}

// creates a document with the default weight
func NewDocument(text string) Document {
	return Document{Text: text, Weight: 1.0}
}

// returns a copy of the document carrying the given weight
func (d Document) WithWeight(weight float64) Document {
	cp := Document{Text: d.Text, Weight: weight}

	if d.Meta != nil {
		cp.Meta = make(map[string]any, len(d.Meta))
		for k, v := range d.Meta {
			cp.Meta[k] = v
		}
	}

	return cp
}

// builds a document from a decoded JSON object, reading the text from textKey
func FromMap(m map[string]any, textKey string) (Document, error) {
	if textKey == "" {
		textKey = TextKey
	}

	var doc Document

	for k, v := range m {
		switch k {
		case textKey:
			if v == nil {
				continue
			}

			text, ok := v.(string)
			if !ok {
				return Document{}, fmt.Errorf("field %q must be a string, got %T", textKey, v)
			}

			doc.Text = text

		case WeightKey:
			if v == nil {
				continue
			}

			w, ok := v.(float64)
			if !ok {
				return Document{}, fmt.Errorf("field %q must be a number, got %T", WeightKey, v)
			}

			doc.Weight = w

		default:
			if doc.Meta == nil {
				doc.Meta = make(map[string]any)
			}
			doc.Meta[k] = v
		}
	}

	return doc, nil
}

// flattens the document back into a JSON object, writing the text under textKey
func (d Document) Map(textKey string) map[string]any {
	if textKey == "" {
		textKey = TextKey
	}

	out := make(map[string]any, len(d.Meta)+2)
	for k, v := range d.Meta {
		out[k] = v
	}

	out[textKey] = d.Text
	if d.Weight != 0 {
		out[WeightKey] = d.Weight
	}

	return out
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map(TextKey))
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	doc, err := FromMap(raw, TextKey)
	if err != nil {
		return err
	}

	*d = doc
	return nil
}

// outcome of admitting a single document to a filtering deduplicator
type Decision int

const (
	// empty text, neither kept nor counted as a duplicate
	DecisionSkipped Decision = iota
	DecisionKept
	DecisionDuplicate
)

func (d Decision) String() string {
	switch d {
	case DecisionKept:
		return "kept"
	case DecisionDuplicate:
		return "duplicate"
	default:
		return "skipped"
	}
}
