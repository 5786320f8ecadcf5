package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgranger/optcx/internal/engine"
)

func onPlayDef(id string) *engine.CardDefinition {
	def := testDef(id, "Zoro", 3, 5000)
	def.Effects = []*engine.EffectDefinition{
		{ID: id + "-onplay", Trigger: engine.TriggerOnPlay, Actions: []*engine.Action{
			{Kind: engine.ActionDrawCards, Target: engine.TargetSpec{Kind: engine.TargetNone}, Params: engine.ActionParams{Amount: 1}},
		}},
	}
	return def
}

func TestTriggerDispatcher_OnPlayScopedToTheEventCard(t *testing.T) {
	gs := engine.NewGameState()
	played := putOnField(gs, 0, onPlayDef("C1"))
	bystander := putOnField(gs, 0, onPlayDef("C2")) // also has OnPlay, but was not just played

	d := engine.NewTriggerDispatcher(gs)
	candidates := d.Dispatch(&engine.Event{Kind: engine.EventCardPlayed, CardID: played.InstanceID, PlayerID: 0})

	require.Len(t, candidates, 1)
	assert.Equal(t, played.InstanceID, candidates[0].Source.InstanceID)
	assert.NotEqual(t, bystander.InstanceID, candidates[0].Source.InstanceID)
}

func TestTriggerDispatcher_MandatoryBeforeOptional(t *testing.T) {
	gs := engine.NewGameState()
	mandatoryDef := testDef("C1", "Mandatory", 1, 1000)
	mandatoryDef.Effects = []*engine.EffectDefinition{{ID: "m", Trigger: engine.TriggerStartOfTurn}}
	optionalDef := testDef("C2", "Optional", 1, 1000)
	optionalDef.Effects = []*engine.EffectDefinition{{ID: "o", Trigger: engine.TriggerStartOfTurn, Optional: true}}

	putOnField(gs, 0, optionalDef)
	putOnField(gs, 0, mandatoryDef)

	d := engine.NewTriggerDispatcher(gs)
	candidates := d.Dispatch(&engine.Event{Kind: engine.EventStartOfTurn, PlayerID: 0})

	require.Len(t, candidates, 2)
	assert.False(t, candidates[0].Effect.Optional)
	assert.True(t, candidates[1].Effect.Optional)
}

func TestTriggerDispatcher_ActivePlayerBeforeOpponent(t *testing.T) {
	gs := engine.NewGameState()
	gs.ActivePlayer = 1
	def := testDef("C1", "Passive", 1, 1000)
	def.Effects = []*engine.EffectDefinition{{ID: "p", Trigger: engine.TriggerStartOfTurn}}

	putOnField(gs, 0, def)
	putOnField(gs, 1, def)

	d := engine.NewTriggerDispatcher(gs)
	candidates := d.Dispatch(&engine.Event{Kind: engine.EventStartOfTurn, PlayerID: 1})

	require.Len(t, candidates, 2)
	assert.Equal(t, 1, candidates[0].Player, "the active player's trigger should be ordered first")
}

func TestTriggerDispatcher_OncePerTurnSuppressesRepeat(t *testing.T) {
	gs := engine.NewGameState()
	def := testDef("C1", "Sanji", 2, 3000)
	def.Effects = []*engine.EffectDefinition{{
		ID: "sanji-ko", Trigger: engine.TriggerOnKo, OncePerTurn: true,
		Actions: []*engine.Action{{Kind: engine.ActionGainActiveDon, Target: engine.TargetSpec{Kind: engine.TargetNone}, Params: engine.ActionParams{Amount: 1}}},
	}}
	sanji := putOnField(gs, 0, def)

	o := engine.NewOrchestrator(gs)
	_, err := o.HandleEvent(&engine.Event{Kind: engine.EventCharacterKod, CardID: sanji.InstanceID, PlayerID: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Players[0].DonCount())

	_, err = o.HandleEvent(&engine.Event{Kind: engine.EventCharacterKod, CardID: sanji.InstanceID, PlayerID: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Players[0].DonCount(), "OncePerTurn must suppress the second KO event this turn")
}

func hitLeaderDef(id string) *engine.CardDefinition {
	def := testDef(id, "Nami", 2, 2000)
	def.Effects = []*engine.EffectDefinition{
		{ID: id + "-hitleader", Trigger: engine.TriggerHitLeader, Actions: []*engine.Action{
			{Kind: engine.ActionDrawCards, Target: engine.TargetSpec{Kind: engine.TargetNone}, Params: engine.ActionParams{Amount: 1}},
		}},
	}
	return def
}

func putAsLeader(gs *engine.GameState, player int, def *engine.CardDefinition) *engine.GameCard {
	c := gs.CreateGameCard(def, player)
	c.Zone = engine.ZoneLeader
	gs.Players[player].Leader = c
	return c
}

func TestTriggerDispatcher_HitLeaderScopedToLeaderOwnerNotAttacker(t *testing.T) {
	gs := engine.NewGameState()
	attacker := putOnField(gs, 0, testDef("A1", "Luffy", 3, 5000))
	defenderLeader := putAsLeader(gs, 1, testDef("L1", "Leader", 0, 5000))
	defenderCard := putOnField(gs, 1, hitLeaderDef("C1"))

	d := engine.NewTriggerDispatcher(gs)
	candidates := d.Dispatch(&engine.Event{
		Kind: engine.EventLeaderHit, CardID: attacker.InstanceID, PlayerID: 0, TargetID: defenderLeader.InstanceID,
	})

	require.Len(t, candidates, 1, "a HitLeader effect on the defending player's own card must fire when their leader is hit")
	assert.Equal(t, defenderCard.InstanceID, candidates[0].Source.InstanceID)
}

func TestTriggerDispatcher_HitLeaderDoesNotFireForAttackingPlayersOwnCard(t *testing.T) {
	gs := engine.NewGameState()
	attacker := putOnField(gs, 0, testDef("A1", "Luffy", 3, 5000))
	attackerSideCard := putOnField(gs, 0, hitLeaderDef("C1")) // same side as the attacker, not the defender
	defenderLeader := putAsLeader(gs, 1, testDef("L1", "Leader", 0, 5000))
	_ = attackerSideCard

	d := engine.NewTriggerDispatcher(gs)
	candidates := d.Dispatch(&engine.Event{
		Kind: engine.EventLeaderHit, CardID: attacker.InstanceID, PlayerID: 0, TargetID: defenderLeader.InstanceID,
	})

	assert.Empty(t, candidates, "HitLeader must be scoped to cards owned by the player whose leader was hit, not the attacker's side")
}

func TestTriggerDispatcher_UnmappedEventYieldsNoCandidates(t *testing.T) {
	gs := engine.NewGameState()
	def := testDef("C1", "Anything", 1, 1000)
	def.Effects = []*engine.EffectDefinition{{ID: "x", Trigger: engine.TriggerOnPlay}}
	putOnField(gs, 0, def)

	d := engine.NewTriggerDispatcher(gs)
	assert.Empty(t, d.Dispatch(&engine.Event{Kind: engine.EventPhaseChange}))
}
