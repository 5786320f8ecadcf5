package clog

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/rgranger/optcx/internal/engine"
)

// EventLogger is the interface every duel observer implements.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory, for test assertions and replay ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger { return &MemoryLogger{} }

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent { return l.events }

// EventsOfKind returns every logged event whose StateChange matches kind.
func (l *MemoryLogger) EventsOfKind(kind engine.StateChangeKind) []GameEvent {
	var out []GameEvent
	for _, e := range l.events {
		if e.Change.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger { return &TextLogger{w: w} }

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	for len(phase) < 16 {
		phase += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- ZapLogger: structured logging through zap ---

// ZapLogger routes every event through a zap.Logger at Info level with
// structured fields. No command in this module constructs one; cmd/web
// uses zap directly for its own server logs.
type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

// NewZapLogger wraps an already-configured zap.Logger.
func NewZapLogger(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	l.z.Info("duel event",
		zap.Int("seq", event.Seq),
		zap.Int("turn", event.Turn),
		zap.String("phase", event.Phase),
		zap.String("kind", event.Change.Kind.String()),
		zap.Int("card_id", event.Change.CardID),
		zap.Int("player_id", event.Change.PlayerID),
		zap.String("details", event.Details),
	)
}

// NewGameEvent wraps a StateChange with its turn/phase context and a
// human-readable summary, ready for any EventLogger.
func NewGameEvent(turn int, phase string, c engine.StateChange) GameEvent {
	return GameEvent{Turn: turn, Phase: phase, Change: c, Details: Summarize(c)}
}
