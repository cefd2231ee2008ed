package problem

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Feedback messages. They depend only on the (problem, answer) pair.
const (
	FeedbackNoAnswer      = "No answer was given. Enter an answer before submitting."
	FeedbackCorrect       = "Correct! Well done."
	FeedbackWrongText     = "That's not the answer we were looking for. Check your wording and try again."
	FeedbackWrongNumber   = "Not quite. Check your calculation and try again."
	FeedbackNoPartCorrect = "None of the parts are correct yet. Start with the first one."
)

// Result is the outcome of grading one submission.
type Result struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`

	// PartialCredit is the fraction of the answer that is correct, in [0, 1].
	// Nil for a correct single-value answer.
	PartialCredit *float64 `json:"partialCredit,omitempty"`
}

// Credit returns the partial credit, treating an absent value on a correct
// result as full credit.
func (r Result) Credit() float64 {
	if r.PartialCredit != nil {
		return *r.PartialCredit
	}
	if r.IsCorrect {
		return 1
	}
	return 0
}

// Validate grades a against p.
//
// Normalization rules:
//   - Text is compared case-insensitively with surrounding whitespace trimmed
//     and inner whitespace runs collapsed to a single space.
//   - Numbers match when they differ by at most p.Tolerance.
//   - Lists match part by part, in order, using the text rules.
//
// A nil or blank answer is graded as "no answer". An answer whose kind
// differs from p.Kind is a caller error and returns a *ShapeError.
func Validate(p *Problem, a *Answer) (Result, error) {
	if p == nil {
		return Result{}, errors.New("validate: nil problem")
	}
	if a == nil {
		return noAnswer(), nil
	}
	if err := p.CheckShape(a); err != nil {
		return Result{}, err
	}
	if a.IsEmpty() {
		return noAnswer(), nil
	}

	switch p.Kind {
	case KindText:
		if textEqual(a.Text, p.Expected.Text) {
			return Result{IsCorrect: true, Feedback: FeedbackCorrect}, nil
		}
		return Result{Feedback: FeedbackWrongText, PartialCredit: credit(0)}, nil

	case KindNumber:
		if numberEqual(a.Number, p.Expected.Number, p.Tolerance) {
			return Result{IsCorrect: true, Feedback: FeedbackCorrect}, nil
		}
		return Result{Feedback: FeedbackWrongNumber, PartialCredit: credit(0)}, nil

	case KindList:
		return gradeList(p.Expected.Parts, a.Parts), nil
	}

	return Result{}, fmt.Errorf("validate: problem %q has unknown kind %q", p.ID, p.Kind)
}

// gradeList awards one unit per part matching its expected counterpart.
// The denominator is the larger of the expected and given part counts, so
// extra parts keep an otherwise complete answer from full credit.
func gradeList(expected, given []string) Result {
	total := max(len(expected), len(given))
	if total == 0 {
		return noAnswer()
	}

	matched := 0
	for i := range min(len(expected), len(given)) {
		if textEqual(given[i], expected[i]) {
			matched++
		}
	}

	fraction := float64(matched) / float64(total)
	switch {
	case matched == total:
		return Result{IsCorrect: true, Feedback: FeedbackCorrect, PartialCredit: credit(1)}
	case matched == 0:
		return Result{Feedback: FeedbackNoPartCorrect, PartialCredit: credit(0)}
	}

	feedback := fmt.Sprintf("%d of %d parts are correct. Keep going!", matched, total)
	if len(given) > len(expected) {
		feedback = fmt.Sprintf("%d of %d parts are correct, and the answer has %d extra part(s).",
			matched, total, len(given)-len(expected))
	}
	return Result{Feedback: feedback, PartialCredit: credit(fraction)}
}

func noAnswer() Result {
	return Result{Feedback: FeedbackNoAnswer, PartialCredit: credit(0)}
}

func credit(f float64) *float64 {
	return &f
}

// NormalizeText folds case and collapses whitespace.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func textEqual(a, b string) bool {
	return NormalizeText(a) == NormalizeText(b)
}

func numberEqual(got, want, tolerance float64) bool {
	if math.IsNaN(got) || math.IsInf(got, 0) {
		return false
	}
	if tolerance <= 0 {
		return got == want
	}
	return math.Abs(got-want) <= tolerance
}

// ParseAnswer converts raw learner input into an answer of the given kind.
// List parts are separated by commas. Blank input yields nil.
func ParseAnswer(kind Kind, input string) (*Answer, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	switch kind {
	case KindText:
		return TextAnswer(input), nil
	case KindNumber:
		n, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", input)
		}
		return NumberAnswer(n), nil
	case KindList:
		raw := strings.Split(input, ",")
		parts := make([]string, 0, len(raw))
		for _, p := range raw {
			parts = append(parts, strings.TrimSpace(p))
		}
		return ListAnswer(parts...), nil
	}
	return nil, fmt.Errorf("unknown answer kind %q", kind)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
