package problem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind describes the shape of answer a problem expects.
type Kind string

const (
	KindText   Kind = "text"   // e.g. "photosynthesis"
	KindNumber Kind = "number" // e.g. 42, 3.14
	KindList   Kind = "list"   // ordered parts, e.g. ["x = 2", "y = 5"]
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindNumber, KindList:
		return true
	}
	return false
}

// Hint is a single piece of scaffolding the learner can reveal.
type Hint struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Problem is a question together with its expected answer and
// correctness criteria.
type Problem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`

	// Topic is what the tutor talks about when asked to explain,
	// e.g. "loops" or "fractions".
	Topic string `json:"topic"`

	// Kind is the answer shape the learner must provide.
	Kind Kind `json:"kind"`

	// Expected is the canonical correct answer. Its kind matches Kind.
	Expected Answer `json:"expected"`

	// Tolerance is the allowed absolute difference for number problems.
	// Zero means the answer must match exactly.
	Tolerance float64 `json:"tolerance,omitempty"`

	// Hints are revealed one at a time, in order, by the clients.
	Hints []Hint `json:"hints,omitempty"`

	// Solution is the worked explanation shown once the learner gives up.
	Solution string `json:"solution"`

	// Difficulty is 1 (easy) to 5 (hard).
	Difficulty int `json:"difficulty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Hint returns the hint with the given id.
func (p *Problem) Hint(id string) (Hint, bool) {
	for _, h := range p.Hints {
		if h.ID == id {
			return h, true
		}
	}
	return Hint{}, false
}

// CheckShape returns a *ShapeError when a does not have the shape p expects.
// A nil answer always has an acceptable shape.
func (p *Problem) CheckShape(a *Answer) error {
	if a == nil || a.Kind == p.Kind {
		return nil
	}
	return &ShapeError{Want: p.Kind, Got: a.Kind}
}

// ShapeError reports an answer whose shape does not match the problem.
// It is a caller error, never a validation outcome.
type ShapeError struct {
	Want Kind
	Got  Kind
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("answer shape %q does not match problem kind %q", e.Got, e.Want)
}

// Answer is a learner's (or the expected) answer: text, a number, or an
// ordered list of text parts. Only the field matching Kind is meaningful.
type Answer struct {
	Kind   Kind
	Text   string
	Number float64
	Parts  []string
}

// TextAnswer returns a text answer.
func TextAnswer(s string) *Answer {
	return &Answer{Kind: KindText, Text: s}
}

// NumberAnswer returns a number answer.
func NumberAnswer(n float64) *Answer {
	return &Answer{Kind: KindNumber, Number: n}
}

// ListAnswer returns an ordered list answer.
func ListAnswer(parts ...string) *Answer {
	return &Answer{Kind: KindList, Parts: parts}
}

// IsEmpty reports whether the answer carries nothing to grade: blank text,
// or a list with no non-blank parts. Numbers are never empty.
func (a *Answer) IsEmpty() bool {
	if a == nil {
		return true
	}
	switch a.Kind {
	case KindText:
		return strings.TrimSpace(a.Text) == ""
	case KindList:
		for _, p := range a.Parts {
			if strings.TrimSpace(p) != "" {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of a.
func (a *Answer) Clone() *Answer {
	if a == nil {
		return nil
	}
	c := *a
	if a.Parts != nil {
		c.Parts = append([]string(nil), a.Parts...)
	}
	return &c
}

// String renders the answer for display.
func (a *Answer) String() string {
	if a == nil {
		return ""
	}
	switch a.Kind {
	case KindNumber:
		return formatNumber(a.Number)
	case KindList:
		return strings.Join(a.Parts, ", ")
	}
	return a.Text
}

// MarshalJSON encodes the answer as a JSON string, number or array of strings.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindText:
		return json.Marshal(a.Text)
	case KindNumber:
		return json.Marshal(a.Number)
	case KindList:
		parts := a.Parts
		if parts == nil {
			parts = []string{}
		}
		return json.Marshal(parts)
	}
	return nil, fmt.Errorf("answer: unknown kind %q", a.Kind)
}

// UnmarshalJSON infers the kind from the JSON value type.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("answer: empty value")
	}

	switch data[0] {
	case 'n':
		// null leaves the answer untouched.
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Answer{Kind: KindText, Text: s}
	case '[':
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("answer: list parts must be strings: %w", err)
		}
		*a = Answer{Kind: KindList, Parts: parts}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer: must be a string, number or list of strings: %w", err)
		}
		*a = Answer{Kind: KindNumber, Number: n}
	}
	return nil
}
