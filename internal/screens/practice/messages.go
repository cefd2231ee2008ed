package practice

import (
	"time"

	"github.com/abhisek/tutorly/internal/tutor"
)

// tutorReplyMsg is sent when the tutor has answered (or failed to).
type tutorReplyMsg struct {
	Response *tutor.Response
	Err      error
}

// timerTickMsg is sent every second to refresh the elapsed time.
type timerTickMsg time.Time
