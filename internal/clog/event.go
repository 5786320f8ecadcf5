// Package clog is the engine's observability surface: every StateChange the
// Action Resolver and Duel turn loop produce is wrapped into a GameEvent and
// handed to an EventLogger, the way the teacher routes its own GameEvent
// stream through an EventLogger interface.
package clog

import "github.com/rgranger/optcx/internal/engine"

// GameEvent is one observable occurrence in a match: a StateChange annotated
// with the turn/phase context it happened in, plus a human-readable summary.
type GameEvent struct {
	Seq     int
	Turn    int
	Phase   string
	Change  engine.StateChange
	Details string
}

func playerName(p int) string {
	if p < 0 {
		return "—"
	}
	return []string{"P1", "P2"}[p%2]
}

// Summarize renders a terse, human-readable line for a StateChange — the
// text NewGameEvent stores as the event's Details, which TextLogger prints
// and ZapLogger records in its "details" field.
func Summarize(c engine.StateChange) string {
	switch c.Kind {
	case engine.ChangeCardMoved:
		return playerName(c.PlayerID) + ": card " + itoa(c.CardID) + " moved " + c.FromZone.String() + " → " + c.ToZone.String()
	case engine.ChangePowerChanged:
		return "card " + itoa(c.CardID) + " power changed by " + itoa(c.Amount) + " (" + c.Detail + ")"
	case engine.ChangeKeywordAdded:
		return "card " + itoa(c.CardID) + " gained keyword effect (" + c.Detail + ")"
	case engine.ChangeDonChanged:
		return playerName(c.PlayerID) + ": DON change " + itoa(c.Amount) + " (" + c.Detail + ")"
	case engine.ChangeLifeChanged:
		return playerName(c.PlayerID) + ": life changed by " + itoa(c.Amount)
	case engine.ChangeCardDestroyed:
		return "card " + itoa(c.CardID) + " destroyed (" + c.Detail + ")"
	case engine.ChangeCostChanged:
		return "card " + itoa(c.CardID) + " cost changed by " + itoa(c.Amount)
	case engine.ChangeEffectApplied:
		return c.Detail
	case engine.ChangeEffectRemoved:
		return "card " + itoa(c.CardID) + " effect removed (" + c.Detail + ")"
	case engine.ChangePlayerDrew:
		return playerName(c.PlayerID) + " drew a card"
	case engine.ChangeTargetLost:
		return "target " + itoa(c.CardID) + " lost (fizzled)"
	case engine.ChangeMatchAborted:
		return "match aborted: " + c.Detail
	default:
		return c.Kind.String()
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
