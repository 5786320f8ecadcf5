package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgranger/optcx/internal/engine"
)

// TestOrchestrator_DrawOnPlayScenario is the "draw on play" end-to-end
// scenario: a card whose OnPlay effect is gated by a DON-count condition
// draws a card once the condition holds, via the full
// dispatch -> condition -> cost -> action pipeline.
func TestOrchestrator_DrawOnPlayScenario(t *testing.T) {
	gs := engine.NewGameState()
	nami := testDef("ST01-003", "Nami", 1, 1000)
	nami.Effects = []*engine.EffectDefinition{{
		ID:      "nami-onplay",
		Trigger: engine.TriggerOnPlay,
		Conditions: []engine.Condition{
			{Kind: engine.CondDonCountOrMore, Scope: engine.ScopeSelf, Count: 2},
		},
		Actions: []*engine.Action{
			{Kind: engine.ActionDrawCards, Target: engine.TargetSpec{Kind: engine.TargetNone}, Params: engine.ActionParams{Amount: 1}},
		},
	}}
	deckCard := putInHand(gs, 0, testDef("ST01-999", "Filler", 1, 1000))
	gs.Players[0].Deck = append(gs.Players[0].Deck, deckCard)
	played := putOnField(gs, 0, nami)

	o := engine.NewOrchestrator(gs)
	changes, err := o.HandleEvent(&engine.Event{Kind: engine.EventCardPlayed, CardID: played.InstanceID, PlayerID: 0})
	require.NoError(t, err)
	assert.Equal(t, engine.StatusComplete, o.Status())
	assert.Empty(t, changes, "condition not yet satisfied: no DON in play")

	addActiveDon(gs, 0, 2)
	handBefore := gs.Players[0].HandCount()
	changes, err = o.HandleEvent(&engine.Event{Kind: engine.EventCardPlayed, CardID: played.InstanceID, PlayerID: 0})
	require.NoError(t, err)
	assert.Equal(t, handBefore+1, gs.Players[0].HandCount())

	var drew bool
	for _, c := range changes {
		if c.Kind == engine.ChangePlayerDrew {
			drew = true
		}
	}
	assert.True(t, drew)
}

// TestOrchestrator_KoWithCostScenario pays a DON cost then KOs an opponent
// character under a power threshold.
func TestOrchestrator_KoWithCostScenario(t *testing.T) {
	gs := engine.NewGameState()
	source := putOnField(gs, 0, testDef("SRC", "Source", 0, 0))
	addActiveDon(gs, 0, 1)
	weak := putOnField(gs, 1, testDef("W", "Weak", 2, 4000))
	strong := putOnField(gs, 1, testDef("S", "Strong", 4, 9000))

	eff := &engine.EffectDefinition{
		ID:      "gum-gum-pistol",
		Trigger: engine.TriggerMain,
		Costs:   []engine.Cost{{Kind: engine.CostRestDon, Count: 1}},
		Actions: []*engine.Action{
			{Kind: engine.ActionKoPowerOrLess, Target: engine.TargetSpec{Kind: engine.TargetOpponentCharacter, Min: 1, Max: 1}, Params: engine.ActionParams{Threshold: 5000}},
		},
	}
	source.Def.Effects = []*engine.EffectDefinition{eff}

	o := engine.NewOrchestrator(gs)
	// A played Event card resolves its Main-trigger effect off EventCardPlayed,
	// the same event a hand-to-field play fires.
	changes, err := o.HandleEvent(&engine.Event{Kind: engine.EventCardPlayed, CardID: source.InstanceID, PlayerID: 0})
	require.NoError(t, err)

	assert.Equal(t, 0, gs.Players[0].ActiveDonCount(), "the DON cost must have been paid")
	assert.Equal(t, engine.ZoneTrash, weak.Zone)
	assert.NotContains(t, gs.Players[1].Field, weak)
	assert.Equal(t, engine.ZoneField, strong.Zone, "the above-threshold character must survive")

	var koChange bool
	for _, c := range changes {
		if c.Kind == engine.ChangeCardDestroyed && c.CardID == weak.InstanceID {
			koChange = true
		}
	}
	assert.True(t, koChange)
}

// TestOrchestrator_OptionalTriggerSuspendsAndResumes exercises the
// AwaitingChoice suspension point (§4.8) for an optional effect.
func TestOrchestrator_OptionalTriggerSuspendsAndResumes(t *testing.T) {
	gs := engine.NewGameState()
	def := testDef("C1", "Optional Drawer", 2, 2000)
	def.Effects = []*engine.EffectDefinition{{
		ID:       "opt-draw",
		Trigger:  engine.TriggerStartOfTurn,
		Optional: true,
		Actions: []*engine.Action{
			{Kind: engine.ActionDrawCards, Target: engine.TargetSpec{Kind: engine.TargetNone}, Params: engine.ActionParams{Amount: 1}},
		},
	}}
	deckCard := testDef("FILLER", "Filler", 1, 1000)
	gs.Players[0].Deck = append(gs.Players[0].Deck, gs.CreateGameCard(deckCard, 0))
	putOnField(gs, 0, def)

	o := engine.NewOrchestrator(gs)
	_, err := o.HandleEvent(&engine.Event{Kind: engine.EventStartOfTurn, PlayerID: 0})
	require.NoError(t, err)
	require.Equal(t, engine.StatusAwaitingChoice, o.Status())
	require.NotNil(t, o.Prompt())
	assert.Equal(t, engine.ChoiceOptionalTrigger, o.Prompt().Kind)

	handBefore := gs.Players[0].HandCount()
	token := o.Prompt().Token
	_, err = o.Resume(token, []int{1}) // accept
	require.NoError(t, err)
	assert.Equal(t, handBefore+1, gs.Players[0].HandCount())
}

// TestOrchestrator_PreSuspensionActionIsNotReappliedOnResume covers a
// multi-action effect where an earlier, unconditional action (Draw 1) already
// executed before a later action (KO up to 2) suspends for an ambiguous
// target choice. Resuming that choice must not re-run the already-completed
// draw.
func TestOrchestrator_PreSuspensionActionIsNotReappliedOnResume(t *testing.T) {
	gs := engine.NewGameState()
	source := putOnField(gs, 0, testDef("SRC", "Source", 0, 0))
	deckCard := testDef("FILLER", "Filler", 1, 1000)
	gs.Players[0].Deck = append(gs.Players[0].Deck, gs.CreateGameCard(deckCard, 0))

	foeA := putOnField(gs, 1, testDef("F1", "Foe A", 1, 1000))
	foeB := putOnField(gs, 1, testDef("F2", "Foe B", 1, 1000))
	foeC := putOnField(gs, 1, testDef("F3", "Foe C", 1, 1000))

	source.Def.Effects = []*engine.EffectDefinition{{
		ID:      "draw-then-ko",
		Trigger: engine.TriggerMain,
		Actions: []*engine.Action{
			{Kind: engine.ActionDrawCards, Target: engine.TargetSpec{Kind: engine.TargetNone}, Params: engine.ActionParams{Amount: 1}},
			{Kind: engine.ActionKoCharacter, Target: engine.TargetSpec{Kind: engine.TargetOpponentCharacter, Min: 0, Max: 2}},
		},
	}}

	o := engine.NewOrchestrator(gs)
	handBefore := gs.Players[0].HandCount()
	_, err := o.HandleEvent(&engine.Event{Kind: engine.EventCardPlayed, CardID: source.InstanceID, PlayerID: 0})
	require.NoError(t, err)
	require.Equal(t, engine.StatusAwaitingChoice, o.Status(), "3 legal KO targets exceeds Max of 2, so the effect must suspend")
	assert.Equal(t, handBefore+1, gs.Players[0].HandCount(), "the unconditional Draw 1 already ran before suspension")

	_, err = o.Resume(o.Prompt().Token, []int{foeA.InstanceID, foeB.InstanceID})
	require.NoError(t, err)

	assert.Equal(t, handBefore+1, gs.Players[0].HandCount(), "Resume must not re-execute the Draw action that already ran")
	assert.Equal(t, engine.ZoneTrash, foeA.Zone)
	assert.Equal(t, engine.ZoneTrash, foeB.Zone)
	assert.Equal(t, engine.ZoneField, foeC.Zone, "foeC was not selected and must remain on field")
}

func TestOrchestrator_OptionalTriggerDeclined(t *testing.T) {
	gs := engine.NewGameState()
	def := testDef("C1", "Optional Drawer", 2, 2000)
	def.Effects = []*engine.EffectDefinition{{
		ID: "opt-draw", Trigger: engine.TriggerStartOfTurn, Optional: true,
		Actions: []*engine.Action{{Kind: engine.ActionDrawCards, Target: engine.TargetSpec{Kind: engine.TargetNone}, Params: engine.ActionParams{Amount: 1}}},
	}}
	putOnField(gs, 0, def)

	o := engine.NewOrchestrator(gs)
	_, err := o.HandleEvent(&engine.Event{Kind: engine.EventStartOfTurn, PlayerID: 0})
	require.NoError(t, err)

	handBefore := gs.Players[0].HandCount()
	_, err = o.Resume(o.Prompt().Token, []int{0}) // decline
	require.NoError(t, err)
	assert.Equal(t, handBefore, gs.Players[0].HandCount())
}
