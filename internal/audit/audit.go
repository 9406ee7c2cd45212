// Package audit records completed match runs for traceability. The default
// sink writes structured log lines; quality teams can plug their own.
package audit

import (
	"time"

	"github.com/rs/zerolog"
)

// Entry describes one finished match run.
type Entry struct {
	RequestID  string
	FamilyID   string
	SourcePart string
	Candidates int
	TopPart    string
	TopScore   int
	Elapsed    time.Duration
}

// Sink consumes match audit entries. Record must be safe for concurrent use
// and must not block the request path for long.
type Sink interface {
	Record(e Entry)
}

// LogSink writes entries through zerolog.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(e Entry) {
	s.log.Info().
		Str("req_id", e.RequestID).
		Str("family_id", e.FamilyID).
		Str("source_part", e.SourcePart).
		Int("candidates", e.Candidates).
		Str("top_part", e.TopPart).
		Int("top_score", e.TopScore).
		Dur("elapsed", e.Elapsed).
		Msg("match audit")
}

// NopSink drops every entry.
type NopSink struct{}

func (NopSink) Record(Entry) {}
