package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgranger/optcx/internal/engine"
)

func buildDuel(seed int64, onChange func(engine.StateChange)) *engine.Duel {
	filler := testDef("FILLER", "Filler", 1, 1000)
	deck := make([]*engine.CardDefinition, 20)
	for i := range deck {
		deck[i] = filler
	}
	cfg := engine.DuelConfig{
		Deck0:         deck,
		Deck1:         deck,
		Leader0:       testDef("L0", "Leader Zero", 0, 5000),
		Leader1:       testDef("L1", "Leader One", 0, 5000),
		Seed:          seed,
		MaxTurns:      6,
		OnStateChange: onChange,
	}
	p0 := newScriptedController(engine.ActionEndTurn)
	p1 := newScriptedController(engine.ActionEndTurn)
	return engine.NewDuel(cfg, p0, p1)
}

// TestDuel_DeterministicReplay is the spec's "deterministic replay" testable
// property: the same seed must produce byte-identical state-change logs.
func TestDuel_DeterministicReplay(t *testing.T) {
	var log1, log2 []engine.StateChange
	d1 := buildDuel(42, func(c engine.StateChange) { log1 = append(log1, c) })
	d2 := buildDuel(42, func(c engine.StateChange) { log2 = append(log2, c) })

	w1, err := d1.Run(context.Background())
	require.NoError(t, err)
	w2, err := d2.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, w1, w2)
	assert.Equal(t, log1, log2)
	assert.NotEmpty(t, log1)
}

// TestDuel_ZoneExclusivity asserts a card is never present in more than one
// zone slice at once over the course of a full match.
func TestDuel_ZoneExclusivity(t *testing.T) {
	d := buildDuel(7, func(engine.StateChange) {})
	_, err := d.Run(context.Background())
	require.NoError(t, err)

	for pi := 0; pi < 2; pi++ {
		p := d.State.Players[pi]
		seen := map[int]int{}
		count := func(id int) { seen[id]++ }
		for _, c := range p.Hand {
			count(c.InstanceID)
		}
		for _, c := range p.Field {
			count(c.InstanceID)
		}
		for _, c := range p.Deck {
			count(c.InstanceID)
		}
		for _, c := range p.Trash {
			count(c.InstanceID)
		}
		for _, c := range p.LifeCards {
			count(c.InstanceID)
		}
		for id, n := range seen {
			assert.Equal(t, 1, n, "card %d appeared in %d zones simultaneously", id, n)
		}
	}
}

// TestDuel_LifeConsistency checks Life always equals len(LifeCards), the
// module's own invariant for the life counter, across a full match.
func TestDuel_LifeConsistency(t *testing.T) {
	var lastCheck error
	var d *engine.Duel
	d = buildDuel(13, func(c engine.StateChange) {
		for pi := 0; pi < 2; pi++ {
			p := d.State.Players[pi]
			if p.Life != len(p.LifeCards) {
				lastCheck = assert.AnError
			}
		}
	})
	_, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.NoError(t, lastCheck)
}

// TestDuel_GameEndsWithinTurnLimit exercises the basic run loop wiring: a
// duel where neither side ever attacks still terminates, at the turn cap.
func TestDuel_GameEndsWithinTurnLimit(t *testing.T) {
	d := buildDuel(5, func(engine.StateChange) {})
	winner, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -1, winner, "a match with no attacks should draw out at the turn cap")
	assert.True(t, d.State.Turn >= 6)
}
