package engine

// Context is the tuple passed to every resolver: the state, the source card
// and player, the triggering event (if any), and any already-selected
// targets (populated once the orchestrator resumes from AwaitingChoice).
type Context struct {
	State           *GameState
	Source          *GameCard
	SourcePlayer    int
	Event           *Event
	SelectedTargets []int
}

// opponent is a small helper mirroring GameState.Opponent for readability at call sites.
func (c *Context) opponent() int { return c.State.Opponent(c.SourcePlayer) }
