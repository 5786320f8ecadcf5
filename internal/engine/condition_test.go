package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgranger/optcx/internal/engine"
)

func TestConditionEvaluator_DonCountOrMore(t *testing.T) {
	gs := engine.NewGameState()
	addActiveDon(gs, 0, 2)
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	eval := engine.NewConditionEvaluator()

	assert.True(t, eval.AllSatisfied(ctx, []engine.Condition{
		{Kind: engine.CondDonCountOrMore, Scope: engine.ScopeSelf, Count: 2},
	}))
	assert.False(t, eval.AllSatisfied(ctx, []engine.Condition{
		{Kind: engine.CondDonCountOrMore, Scope: engine.ScopeSelf, Count: 3},
	}))
}

func TestConditionEvaluator_DonCountOrMoreCountsOnlyActiveDon(t *testing.T) {
	gs := engine.NewGameState()
	addActiveDon(gs, 0, 2)
	gs.Players[0].DonField[0].State = engine.StateRested
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	eval := engine.NewConditionEvaluator()

	assert.False(t, eval.AllSatisfied(ctx, []engine.Condition{
		{Kind: engine.CondDonCountOrMore, Scope: engine.ScopeSelf, Count: 2},
	}), "one of the two DON is Rested, so Active count is only 1")
	assert.True(t, eval.AllSatisfied(ctx, []engine.Condition{
		{Kind: engine.CondDonCountOrLess, Scope: engine.ScopeSelf, Count: 1},
	}))
}

func TestConditionEvaluator_ScopeOpponentReadsOtherPlayer(t *testing.T) {
	gs := engine.NewGameState()
	addActiveDon(gs, 1, 4)
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	eval := engine.NewConditionEvaluator()

	assert.True(t, eval.AllSatisfied(ctx, []engine.Condition{
		{Kind: engine.CondDonCountOrMore, Scope: engine.ScopeOpponent, Count: 4},
	}))
}

func TestConditionEvaluator_LifeLessThanOpponent(t *testing.T) {
	gs := engine.NewGameState()
	gs.Players[0].Life = 2
	gs.Players[1].Life = 5
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	eval := engine.NewConditionEvaluator()

	assert.True(t, eval.AllSatisfied(ctx, []engine.Condition{{Kind: engine.CondLifeLessThanOpponent}}))
	assert.False(t, eval.AllSatisfied(ctx, []engine.Condition{{Kind: engine.CondLifeMoreThanOpponent}}))
}

func TestConditionEvaluator_NegatedFlipsResult(t *testing.T) {
	gs := engine.NewGameState()
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	eval := engine.NewConditionEvaluator()

	cond := engine.Condition{Kind: engine.CondHandEmpty, Negated: true}
	assert.False(t, eval.AllSatisfied(ctx, []engine.Condition{cond})) // hand IS empty, negated -> false
}

func TestConditionEvaluator_AllMustHoldForAND(t *testing.T) {
	gs := engine.NewGameState()
	addActiveDon(gs, 0, 1)
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	eval := engine.NewConditionEvaluator()

	conds := []engine.Condition{
		{Kind: engine.CondDonCountOrMore, Scope: engine.ScopeSelf, Count: 1},
		{Kind: engine.CondHandEmpty},
	}
	assert.True(t, eval.AllSatisfied(ctx, conds))

	putInHand(gs, 0, testDef("C1", "Nami", 1, 1000))
	assert.False(t, eval.AllSatisfied(ctx, conds))
}

func TestConditionEvaluator_DonAttachedOrMoreReadsSourceCardOnly(t *testing.T) {
	gs := engine.NewGameState()
	zoro := putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	sanji := putOnField(gs, 0, testDef("C2", "Sanji", 3, 5000))
	addActiveDon(gs, 0, 2)
	gs.Players[0].DonField[0].State = engine.StateAttached
	gs.Players[0].DonField[0].AttachedTo = zoro.InstanceID
	gs.Players[0].DonField[1].State = engine.StateAttached
	gs.Players[0].DonField[1].AttachedTo = sanji.InstanceID

	eval := engine.NewConditionEvaluator()
	ctx := &engine.Context{State: gs, Source: zoro, SourcePlayer: 0}

	assert.True(t, eval.AllSatisfied(ctx, []engine.Condition{{Kind: engine.CondDonAttachedOrMore, Count: 1}}),
		"zoro has exactly 1 DON attached to it, even though the player's board has 2 attached in total")
	assert.False(t, eval.AllSatisfied(ctx, []engine.Condition{{Kind: engine.CondDonAttachedOrMore, Count: 2}}),
		"sanji's attached DON must not count toward zoro's own DonAttachedOrMore condition")
}

func TestConditionEvaluator_IsRestedReadsSourceCard(t *testing.T) {
	gs := engine.NewGameState()
	zoro := putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	zoro.State = engine.StateRested
	ctx := &engine.Context{State: gs, Source: zoro, SourcePlayer: 0}
	eval := engine.NewConditionEvaluator()

	assert.True(t, eval.AllSatisfied(ctx, []engine.Condition{{Kind: engine.CondIsRested}}))
	assert.False(t, eval.AllSatisfied(ctx, []engine.Condition{{Kind: engine.CondIsActive}}))
}
