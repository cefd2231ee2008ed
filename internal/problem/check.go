package problem

import (
	"fmt"
	"math"
	"strings"
)

// Checker inspects a problem definition before it is stored.
// Implementations should be stateless and safe for concurrent use.
type Checker interface {
	// Name returns a short identifier used in error messages,
	// e.g. "structural" or "hints".
	Name() string

	// Check returns nil if the problem passes, a *CheckError otherwise.
	Check(p *Problem) *CheckError
}

// CheckError describes why a problem definition was rejected.
type CheckError struct {
	Checker string
	Message string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("checker %q: %s", e.Checker, e.Message)
}

// DefaultCheckers returns the standard checker chain.
func DefaultCheckers() []Checker {
	return []Checker{
		&StructuralChecker{},
		&ExpectedChecker{},
		&HintChecker{},
	}
}

// Check runs checkers in order (DefaultCheckers when none are given) and
// returns the first failure.
func Check(p *Problem, checkers ...Checker) error {
	if len(checkers) == 0 {
		checkers = DefaultCheckers()
	}
	for _, c := range checkers {
		if cerr := c.Check(p); cerr != nil {
			return cerr
		}
	}
	return nil
}

// StructuralChecker checks required fields, length limits and enum values.
type StructuralChecker struct{}

func (c *StructuralChecker) Name() string { return "structural" }

func (c *StructuralChecker) Check(p *Problem) *CheckError {
	fail := func(msg string) *CheckError {
		return &CheckError{Checker: c.Name(), Message: msg}
	}

	switch {
	case strings.TrimSpace(p.Title) == "":
		return fail("title is empty")
	case len(p.Title) > 120:
		return fail("title exceeds 120 characters")
	case strings.TrimSpace(p.Prompt) == "":
		return fail("prompt is empty")
	case len(p.Prompt) > 2000:
		return fail("prompt exceeds 2000 characters")
	case len(p.Solution) > 4000:
		return fail("solution exceeds 4000 characters")
	case p.Difficulty < 1 || p.Difficulty > 5:
		return fail("difficulty must be between 1 and 5")
	case !p.Kind.Valid():
		return fail(`kind must be "text", "number" or "list"`)
	}
	return nil
}

// ExpectedChecker checks that the expected answer fits the problem kind.
type ExpectedChecker struct{}

func (c *ExpectedChecker) Name() string { return "expected" }

func (c *ExpectedChecker) Check(p *Problem) *CheckError {
	fail := func(msg string) *CheckError {
		return &CheckError{Checker: c.Name(), Message: msg}
	}

	if p.Expected.Kind != p.Kind {
		return fail(fmt.Sprintf("expected answer is %q but problem kind is %q", p.Expected.Kind, p.Kind))
	}
	if p.Expected.IsEmpty() {
		return fail("expected answer is empty")
	}
	if p.Kind == KindList {
		for i, part := range p.Expected.Parts {
			if strings.TrimSpace(part) == "" {
				return fail(fmt.Sprintf("expected part %d is blank", i+1))
			}
		}
	}
	if p.Kind == KindNumber && (math.IsNaN(p.Expected.Number) || math.IsInf(p.Expected.Number, 0)) {
		return fail("expected number must be finite")
	}
	if p.Tolerance < 0 {
		return fail("tolerance must not be negative")
	}
	if p.Tolerance > 0 && p.Kind != KindNumber {
		return fail("tolerance only applies to number problems")
	}
	return nil
}

// HintChecker checks hint identifiers and text.
type HintChecker struct{}

func (c *HintChecker) Name() string { return "hints" }

func (c *HintChecker) Check(p *Problem) *CheckError {
	seen := make(map[string]bool, len(p.Hints))
	for i, h := range p.Hints {
		if strings.TrimSpace(h.ID) == "" {
			return &CheckError{Checker: c.Name(), Message: fmt.Sprintf("hint %d has no id", i+1)}
		}
		if seen[h.ID] {
			return &CheckError{Checker: c.Name(), Message: fmt.Sprintf("duplicate hint id %q", h.ID)}
		}
		seen[h.ID] = true
		if strings.TrimSpace(h.Text) == "" {
			return &CheckError{Checker: c.Name(), Message: fmt.Sprintf("hint %q is empty", h.ID)}
		}
	}
	return nil
}
