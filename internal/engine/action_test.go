package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgranger/optcx/internal/engine"
)

// TestActionResolver_PlayFromTrashClearsHasAttacked covers §4.7's "playing to
// field ... clears hasAttacked": a card that attacked earlier this turn,
// left the field, and is replayed must be able to attack again.
func TestActionResolver_PlayFromTrashClearsHasAttacked(t *testing.T) {
	gs := engine.NewGameState()
	card := putOnField(gs, 0, testDef("C1", "Zoro", 2, 3000))
	card.HasAttacked = true
	gs.Players[0].RemoveFromField(card.InstanceID)
	card.Zone = engine.ZoneTrash
	gs.Players[0].Trash = append(gs.Players[0].Trash, card)

	resolver := engine.NewActionResolver(gs)
	ctx := &engine.Context{State: gs, SourcePlayer: 0, SelectedTargets: []int{card.InstanceID}}
	_, err := resolver.Execute(ctx, &engine.Action{
		Kind:   engine.ActionPlayFromTrash,
		Target: engine.TargetSpec{Kind: engine.TargetYourTrash, Min: 1, Max: 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, engine.ZoneField, card.Zone)
	assert.False(t, card.HasAttacked, "replaying the card this turn must clear its stale HasAttacked flag")
}
