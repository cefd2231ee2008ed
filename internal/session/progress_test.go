package session

import (
	"math"
	"testing"
)

func TestProgress_Record_Correct(t *testing.T) {
	var p Progress

	p.Record("a", true, 1)

	if p.Attempted != 1 {
		t.Errorf("Attempted = %d, want 1", p.Attempted)
	}
	if p.Solved != 1 {
		t.Errorf("Solved = %d, want 1", p.Solved)
	}
	if p.Accuracy != 1.0 {
		t.Errorf("Accuracy = %f, want 1.0", p.Accuracy)
	}
}

func TestProgress_Record_Incorrect(t *testing.T) {
	var p Progress

	p.Record("a", false, 0)

	if p.Attempted != 1 {
		t.Errorf("Attempted = %d, want 1", p.Attempted)
	}
	if p.Solved != 0 {
		t.Errorf("Solved = %d, want 0", p.Solved)
	}
	if p.Accuracy != 0.0 {
		t.Errorf("Accuracy = %f, want 0.0", p.Accuracy)
	}
}

func TestProgress_RetriesCountOnce(t *testing.T) {
	var p Progress

	p.Record("list", false, 0.5)
	p.Record("list", false, 0.25)
	p.Record("list", true, 1)
	p.Record("list", true, 1)

	if p.Attempted != 1 {
		t.Errorf("Attempted = %d, want 1", p.Attempted)
	}
	if p.Solved != 1 {
		t.Errorf("Solved = %d, want 1", p.Solved)
	}
	if math.Abs(p.Credit-1) > 1e-9 {
		t.Errorf("Credit = %f, want 1", p.Credit)
	}
}

func TestProgress_Mixed(t *testing.T) {
	var p Progress

	p.Record("a", true, 1)
	p.Record("b", false, 0.5)
	p.Record("c", false, 0)
	p.Record("d", true, 1)

	if p.Attempted != 4 {
		t.Errorf("Attempted = %d, want 4", p.Attempted)
	}
	if p.Solved != 2 {
		t.Errorf("Solved = %d, want 2", p.Solved)
	}
	if math.Abs(p.Accuracy-0.5) > 1e-9 {
		t.Errorf("Accuracy = %f, want 0.5", p.Accuracy)
	}
	if math.Abs(p.Credit-2.5) > 1e-9 {
		t.Errorf("Credit = %f, want 2.5", p.Credit)
	}
	if best, ok := p.Best("b"); !ok || best != 0.5 {
		t.Errorf("Best(b) = %v, %v", best, ok)
	}
	if _, ok := p.Best("z"); ok {
		t.Error("expected no best credit for an unseen problem")
	}
}
