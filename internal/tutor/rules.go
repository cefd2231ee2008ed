package tutor

import (
	"fmt"
	"strings"
)

// Canned replies.
const (
	HintReply     = "Try breaking down the problem into smaller parts. What's the first step you've tried?"
	ExplainReply  = "Let's go through {topic} step by step. Which part of {topic} feels least clear right now?"
	FallbackReply = "I'm not sure I understood. Could you tell me which part of the problem you're stuck on, or ask for a hint?"

	// DefaultTopic fills {topic} when the context has none.
	DefaultTopic = "this topic"
)

// MatchKind selects how a Predicate tests a question.
type MatchKind string

const (
	MatchContains MatchKind = "contains" // question contains Keyword
	MatchAny      MatchKind = "any"      // always matches
)

// Predicate decides whether a rule applies to a lower-cased question.
type Predicate struct {
	Kind    MatchKind `json:"kind"`
	Keyword string    `json:"keyword,omitempty"`
}

// Contains matches questions containing keyword, case-insensitively.
func Contains(keyword string) Predicate {
	return Predicate{Kind: MatchContains, Keyword: strings.ToLower(keyword)}
}

// Always matches every question.
func Always() Predicate {
	return Predicate{Kind: MatchAny}
}

// Matches reports whether the predicate holds for q, which must already be
// lower-cased.
func (p Predicate) Matches(q string) bool {
	switch p.Kind {
	case MatchContains:
		return p.Keyword != "" && strings.Contains(q, p.Keyword)
	case MatchAny:
		return true
	}
	return false
}

// ReplyKind selects how a Reply renders its text.
type ReplyKind string

const (
	ReplyStatic ReplyKind = "static" // Text as is
	ReplyTopic  ReplyKind = "topic"  // Text with {topic} substituted
)

// Reply produces the content of a response.
type Reply struct {
	Kind ReplyKind `json:"kind"`
	Text string    `json:"text"`
}

// Static returns a reply that always renders text.
func Static(text string) Reply {
	return Reply{Kind: ReplyStatic, Text: text}
}

// Topic returns a reply that substitutes {topic} with the context topic.
func Topic(template string) Reply {
	return Reply{Kind: ReplyTopic, Text: template}
}

// Render produces the reply text for c.
func (r Reply) Render(c Context) string {
	if r.Kind != ReplyTopic {
		return r.Text
	}
	topic := strings.TrimSpace(c.Topic)
	if topic == "" {
		topic = DefaultTopic
	}
	return strings.ReplaceAll(r.Text, "{topic}", topic)
}

// Rule pairs a predicate with a reply. Rules are evaluated in order and the
// first match wins.
type Rule struct {
	Name  string    `json:"name"`
	When  Predicate `json:"when"`
	Reply Reply     `json:"reply"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s(%s %q)", r.Name, r.When.Kind, r.When.Keyword)
}

// DefaultRules returns the built-in rule table. "hint" is checked before
// "explain", so a question containing both gets the hint reply.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "hint", When: Contains("hint"), Reply: Static(HintReply)},
		{Name: "explain", When: Contains("explain"), Reply: Topic(ExplainReply)},
	}
}
