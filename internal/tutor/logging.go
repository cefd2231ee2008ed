package tutor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/tutorly/internal/store"
)

// EventLog receives one event per tutor question. store.EventRepo
// satisfies it.
type EventLog interface {
	AppendTutor(ctx context.Context, data store.TutorEventData) error
}

// LoggingResponder is a decorator that records every question as an event.
type LoggingResponder struct {
	inner  Responder
	events EventLog
	log    zerolog.Logger
}

// WithLogging wraps a Responder with event logging.
func WithLogging(r Responder, events EventLog, log zerolog.Logger) Responder {
	return &LoggingResponder{inner: r, events: events, log: log}
}

func (l *LoggingResponder) Ask(ctx context.Context, question string, c Context) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Ask(ctx, question, c)

	data := store.TutorEventData{
		Topic:     c.Topic,
		ProblemID: c.ProblemID,
		Question:  question,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.MatchedRule = resp.MatchedRule
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	var ev *zerolog.Event
	if err != nil {
		ev = l.log.Warn().Err(err)
	} else {
		ev = l.log.Info()
	}
	ev.Str("topic", c.Topic).
		Str("rule", data.MatchedRule).
		Int64("latency_ms", data.LatencyMs).
		Msg("tutor question answered")

	// Record the event, but don't fail the request if that fails. The
	// caller's context may already be cancelled.
	if logErr := l.events.AppendTutor(context.WithoutCancel(ctx), data); logErr != nil {
		l.log.Warn().Err(logErr).Msg("failed to record tutor event")
	}

	return resp, err
}
