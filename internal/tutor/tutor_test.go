package tutor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/tutorly/internal/store"
)

func instant(opts ...Option) *RuleResponder {
	return New(append([]Option{WithDelay(0)}, opts...)...)
}

func TestAsk_HintRule(t *testing.T) {
	r := instant()

	resp, err := r.Ask(context.Background(), "Can I get a HINT?", Context{Topic: "loops"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	want := "Try breaking down the problem into smaller parts. What's the first step you've tried?"
	if resp.Content != want {
		t.Errorf("Content = %q, want %q", resp.Content, want)
	}
	if resp.MatchedRule != "hint" {
		t.Errorf("MatchedRule = %q, want hint", resp.MatchedRule)
	}
}

func TestAsk_ExplainIncludesTopic(t *testing.T) {
	r := instant()

	resp, err := r.Ask(context.Background(), "Please EXPLAIN this", Context{Topic: "recursion"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(resp.Content, "recursion") {
		t.Errorf("Content %q does not mention the topic", resp.Content)
	}
	if strings.Contains(resp.Content, "{topic}") {
		t.Errorf("Content %q has an unexpanded placeholder", resp.Content)
	}
}

func TestAsk_ExplainWithoutTopic(t *testing.T) {
	resp, err := instant().Ask(context.Background(), "explain", Context{})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(resp.Content, DefaultTopic) {
		t.Errorf("Content %q should fall back to %q", resp.Content, DefaultTopic)
	}
}

func TestAsk_Fallback(t *testing.T) {
	resp, err := instant().Ask(context.Background(), "what is 2+2?", Context{Topic: "arithmetic"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if resp.Content != FallbackReply {
		t.Errorf("Content = %q, want fallback", resp.Content)
	}
	if resp.MatchedRule != "" {
		t.Errorf("MatchedRule = %q, want empty", resp.MatchedRule)
	}
}

func TestAsk_FirstMatchWins(t *testing.T) {
	r := instant()

	resp, err := r.Ask(context.Background(), "explain the hint please", Context{Topic: "loops"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if resp.Content != HintReply {
		t.Errorf("expected the earlier hint rule to win, got %q", resp.Content)
	}

	reordered := instant(WithRules(
		Rule{Name: "explain", When: Contains("explain"), Reply: Topic(ExplainReply)},
		Rule{Name: "hint", When: Contains("hint"), Reply: Static(HintReply)},
	))
	resp, err = reordered.Ask(context.Background(), "explain the hint please", Context{Topic: "loops"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if resp.MatchedRule != "explain" {
		t.Errorf("MatchedRule = %q, want explain after reordering", resp.MatchedRule)
	}
}

func TestAsk_CatchAllRule(t *testing.T) {
	r := instant(WithRules(Rule{Name: "any", When: Always(), Reply: Static("always")}))
	resp, err := r.Ask(context.Background(), "anything", Context{})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if resp.Content != "always" {
		t.Errorf("Content = %q", resp.Content)
	}
}

func TestAsk_SuggestionsAreStatic(t *testing.T) {
	r := instant()
	questions := []string{"hint", "explain", "???", ""}

	for _, q := range questions {
		resp, err := r.Ask(context.Background(), q, Context{Topic: "loops"})
		if err != nil {
			t.Fatalf("ask(%q): %v", q, err)
		}
		if len(resp.Suggestions) != len(DefaultSuggestions) {
			t.Fatalf("ask(%q) suggestions = %v", q, resp.Suggestions)
		}
		for i := range DefaultSuggestions {
			if resp.Suggestions[i] != DefaultSuggestions[i] {
				t.Errorf("ask(%q) suggestion %d = %q", q, i, resp.Suggestions[i])
			}
		}
	}

	// Mutating a response must not leak into the next one.
	resp, _ := r.Ask(context.Background(), "x", Context{})
	resp.Suggestions[0] = "mutated"
	again, _ := r.Ask(context.Background(), "x", Context{})
	if again.Suggestions[0] != DefaultSuggestions[0] {
		t.Error("suggestions slice is shared between responses")
	}
}

func TestAsk_Timestamp(t *testing.T) {
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 2*3600))
	r := instant(WithClock(func() time.Time { return fixed }))

	resp, err := r.Ask(context.Background(), "hint", Context{})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if resp.Timestamp != "2024-05-06T05:08:09Z" {
		t.Errorf("Timestamp = %q", resp.Timestamp)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("timestamp is not RFC 3339: %v", err)
	}
}

func TestAsk_Delay(t *testing.T) {
	r := New(WithDelay(30 * time.Millisecond))

	start := time.Now()
	if _, err := r.Ask(context.Background(), "hint", Context{}); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Ask returned after %v, expected at least the configured delay", elapsed)
	}
}

func TestAsk_ContextCancelled(t *testing.T) {
	r := New(WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	resp, err := r.Ask(ctx, "hint", Context{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if resp != nil {
		t.Error("expected no response on cancellation")
	}
}

func TestNew_Defaults(t *testing.T) {
	r := New()
	if r.delay != DefaultDelay {
		t.Errorf("delay = %v, want %v", r.delay, DefaultDelay)
	}
	if len(r.rules) != 2 || r.rules[0].Name != "hint" || r.rules[1].Name != "explain" {
		t.Errorf("rules = %v", r.rules)
	}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []store.TutorEventData
	err    error
}

func (f *fakeEvents) AppendTutor(_ context.Context, data store.TutorEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return f.err
}

func TestWithLogging_RecordsEvent(t *testing.T) {
	events := &fakeEvents{}
	var buf bytes.Buffer
	r := WithLogging(instant(), events, zerolog.New(&buf))

	resp, err := r.Ask(context.Background(), "hint please", Context{Topic: "loops", ProblemID: "p1"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if resp.Content != HintReply {
		t.Errorf("Content = %q", resp.Content)
	}

	if len(events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.events))
	}
	ev := events.events[0]
	if ev.Topic != "loops" || ev.ProblemID != "p1" || ev.MatchedRule != "hint" || !ev.Success {
		t.Errorf("event = %+v", ev)
	}
	if !strings.Contains(buf.String(), "tutor question answered") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestWithLogging_RecordsFailure(t *testing.T) {
	events := &fakeEvents{}
	r := WithLogging(New(WithDelay(time.Hour)), events, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Ask(ctx, "hint", Context{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want canceled", err)
	}
	if len(events.events) != 1 || events.events[0].Success || events.events[0].ErrorMessage == "" {
		t.Errorf("events = %+v", events.events)
	}
}

func TestWithLogging_EventFailureDoesNotFailAsk(t *testing.T) {
	events := &fakeEvents{err: errors.New("disk full")}
	r := WithLogging(instant(), events, zerolog.Nop())

	if _, err := r.Ask(context.Background(), "hint", Context{}); err != nil {
		t.Errorf("ask should succeed when event logging fails, got %v", err)
	}
}
