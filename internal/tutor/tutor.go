package tutor

import (
	"context"
	"strings"
	"time"
)

// DefaultDelay is the simulated network latency of a tutor reply.
const DefaultDelay = time.Second

// DefaultSuggestions are the follow-up prompts returned with every reply.
var DefaultSuggestions = []string{
	"Can I get a hint?",
	"Can you explain this topic?",
	"What should I try next?",
}

// Context describes what the learner is working on.
type Context struct {
	// Topic is the subject of the active problem, e.g. "loops".
	Topic string `json:"topic"`

	ProblemID     string   `json:"problemId,omitempty"`
	Attempts      int      `json:"attempts,omitempty"`
	HintsRevealed []string `json:"hintsRevealed,omitempty"`
}

// Response is a tutor reply.
type Response struct {
	Content string `json:"content"`

	// Timestamp is the generation time in RFC 3339 format.
	Timestamp string `json:"timestamp"`

	Suggestions []string `json:"suggestions"`

	// MatchedRule names the rule that produced Content, empty for the
	// fallback reply.
	MatchedRule string `json:"-"`
}

// Responder answers free-text learner questions.
type Responder interface {
	// Ask returns a reply to question. It blocks for the responder's
	// latency and returns ctx.Err() if ctx is done first.
	Ask(ctx context.Context, question string, c Context) (*Response, error)
}

// RuleResponder answers from an ordered rule table after a fixed delay.
// It holds no per-call state and is safe for concurrent use.
type RuleResponder struct {
	rules       []Rule
	fallback    string
	suggestions []string
	delay       time.Duration
	now         func() time.Time
}

// Option configures a RuleResponder.
type Option func(*RuleResponder)

// WithRules replaces the default rule table.
func WithRules(rules ...Rule) Option {
	return func(r *RuleResponder) { r.rules = rules }
}

// WithDelay sets the simulated latency. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(r *RuleResponder) { r.delay = d }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *RuleResponder) { r.now = now }
}

// WithSuggestions replaces the follow-up prompts.
func WithSuggestions(s ...string) Option {
	return func(r *RuleResponder) { r.suggestions = s }
}

// New returns a RuleResponder using DefaultRules and DefaultDelay.
func New(opts ...Option) *RuleResponder {
	r := &RuleResponder{
		rules:       DefaultRules(),
		fallback:    FallbackReply,
		suggestions: DefaultSuggestions,
		delay:       DefaultDelay,
		now:         time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Ask picks the first rule whose predicate matches the lower-cased
// question and renders its reply. Without a match it returns the generic
// clarifying prompt.
func (r *RuleResponder) Ask(ctx context.Context, question string, c Context) (*Response, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	q := strings.ToLower(question)
	resp := &Response{
		Content:     r.fallback,
		Timestamp:   r.now().UTC().Format(time.RFC3339),
		Suggestions: append([]string(nil), r.suggestions...),
	}
	for _, rule := range r.rules {
		if rule.When.Matches(q) {
			resp.Content = rule.Reply.Render(c)
			resp.MatchedRule = rule.Name
			break
		}
	}
	return resp, nil
}

func (r *RuleResponder) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
