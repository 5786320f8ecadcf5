package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgranger/optcx/internal/engine"
)

func TestCostEngine_CanPayRestDon(t *testing.T) {
	gs := engine.NewGameState()
	addActiveDon(gs, 0, 1)
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	e := engine.NewCostEngine()

	assert.True(t, e.CanPay(ctx, []engine.Cost{{Kind: engine.CostRestDon, Count: 1}}))
	assert.False(t, e.CanPay(ctx, []engine.Cost{{Kind: engine.CostRestDon, Count: 2}}))
}

func TestCostEngine_PayAllRestsExactCount(t *testing.T) {
	gs := engine.NewGameState()
	addActiveDon(gs, 0, 3)
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	e := engine.NewCostEngine()

	require.NoError(t, e.PayAll(ctx, []engine.Cost{{Kind: engine.CostRestDon, Count: 2}}, nil))
	assert.Equal(t, 1, gs.Players[0].ActiveDonCount())
	assert.Equal(t, 3, gs.Players[0].DonCount())
}

func TestCostEngine_RestSelfRequiresActiveSource(t *testing.T) {
	gs := engine.NewGameState()
	stage := putOnField(gs, 0, testDef("S1", "Merry Go Round", 1, 0))
	ctx := &engine.Context{State: gs, Source: stage, SourcePlayer: 0}
	e := engine.NewCostEngine()

	assert.True(t, e.CanPay(ctx, []engine.Cost{{Kind: engine.CostRestSelf}}))
	require.NoError(t, e.PayAll(ctx, []engine.Cost{{Kind: engine.CostRestSelf}}, nil))
	assert.Equal(t, engine.StateRested, stage.State)
	assert.False(t, e.CanPay(ctx, []engine.Cost{{Kind: engine.CostRestSelf}}))
}

func TestCostEngine_PayLifeInsufficientFails(t *testing.T) {
	gs := engine.NewGameState()
	gs.Players[0].Life = 1
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	e := engine.NewCostEngine()

	assert.False(t, e.CanPay(ctx, []engine.Cost{{Kind: engine.CostPayLife, Count: 2}}))
	err := e.PayAll(ctx, []engine.Cost{{Kind: engine.CostPayLife, Count: 2}}, nil)
	assert.Error(t, err)
	assert.Equal(t, 1, gs.Players[0].Life) // failed charge must not mutate life
}

func TestCostEngine_TrashFromHandWithTraitFilter(t *testing.T) {
	gs := engine.NewGameState()
	strawHat := testDef("C1", "Usopp", 2, 2000)
	strawHat.Traits = []string{"Straw Hat Crew"}
	marine := testDef("C2", "Marine Soldier", 1, 1000)
	marine.Traits = []string{"Marines"}
	c1 := putInHand(gs, 0, strawHat)
	putInHand(gs, 0, marine)

	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	e := engine.NewCostEngine()
	cost := engine.Cost{Kind: engine.CostTrashFromHand, Count: 1, Trait: "Straw Hat Crew"}

	assert.True(t, e.CanPay(ctx, []engine.Cost{cost}))
	require.NoError(t, e.PayAll(ctx, []engine.Cost{cost}, map[int][]int{0: {c1.InstanceID}}))
	assert.Equal(t, 1, gs.Players[0].HandCount())
	assert.Equal(t, 1, gs.Players[0].TrashCount())
}
