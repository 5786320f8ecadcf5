package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgranger/optcx/internal/engine"
)

func TestTargetResolver_YourCharacterBaseCandidates(t *testing.T) {
	gs := engine.NewGameState()
	zoro := putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	putOnField(gs, 1, testDef("C2", "Smoker", 4, 6000))

	r := engine.NewTargetResolver()
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	ids := r.LegalTargets(ctx, engine.TargetSpec{Kind: engine.TargetYourCharacter})

	assert.Equal(t, []int{zoro.InstanceID}, ids)
}

func TestTargetResolver_OpponentCharacter(t *testing.T) {
	gs := engine.NewGameState()
	putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	smoker := putOnField(gs, 1, testDef("C2", "Smoker", 4, 6000))

	r := engine.NewTargetResolver()
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	ids := r.LegalTargets(ctx, engine.TargetSpec{Kind: engine.TargetOpponentCharacter})

	assert.Equal(t, []int{smoker.InstanceID}, ids)
}

func TestTargetResolver_FilterTraitNarrowsCandidates(t *testing.T) {
	gs := engine.NewGameState()
	strawHat := testDef("C1", "Zoro", 3, 5000)
	strawHat.Traits = []string{"Straw Hat Crew"}
	marine := testDef("C2", "Marine Soldier", 2, 2000)
	marine.Traits = []string{"Marines"}

	zoro := putOnField(gs, 0, strawHat)
	putOnField(gs, 0, marine)

	r := engine.NewTargetResolver()
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	spec := engine.TargetSpec{
		Kind: engine.TargetYourCharacter,
		Filters: []engine.Filter{
			{Property: engine.FilterTrait, Operator: engine.OpEquals, Value: engine.FilterValue{Str: "Straw Hat Crew"}},
		},
	}
	ids := r.LegalTargets(ctx, spec)

	assert.Equal(t, []int{zoro.InstanceID}, ids)
}

func TestTargetResolver_FilterCostOrLess(t *testing.T) {
	gs := engine.NewGameState()
	cheap := putOnField(gs, 0, testDef("C1", "Cheap", 2, 2000))
	putOnField(gs, 0, testDef("C2", "Pricey", 5, 6000))

	r := engine.NewTargetResolver()
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	spec := engine.TargetSpec{
		Kind: engine.TargetYourCharacter,
		Filters: []engine.Filter{
			{Property: engine.FilterCost, Operator: engine.OpOrLess, Value: engine.FilterValue{Int: 2}},
		},
	}
	ids := r.LegalTargets(ctx, spec)

	assert.Equal(t, []int{cheap.InstanceID}, ids)
}

func TestTargetResolver_DynamicSymbolResolvedAtEvaluationTime(t *testing.T) {
	gs := engine.NewGameState()
	addActiveDon(gs, 0, 3)
	cheap := putOnField(gs, 0, testDef("C1", "Cheap", 3, 2000))
	putOnField(gs, 0, testDef("C2", "Pricier", 5, 6000))

	r := engine.NewTargetResolver()
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	// "cost equal to your current DON count" — must read live state, not a
	// value captured when the card definition was written.
	spec := engine.TargetSpec{
		Kind: engine.TargetYourCharacter,
		Filters: []engine.Filter{
			{Property: engine.FilterCost, Operator: engine.OpEquals, Value: engine.FilterValue{Symbol: engine.SymbolDonCount}},
		},
	}
	ids := r.LegalTargets(ctx, spec)
	assert.Equal(t, []int{cheap.InstanceID}, ids)

	addActiveDon(gs, 0, 2) // now 5 DON: the same filter now matches the other character
	ids = r.LegalTargets(ctx, spec)
	assert.NotContains(t, ids, cheap.InstanceID)
}

func TestTargetResolver_TargetNoneYieldsNoCandidates(t *testing.T) {
	gs := engine.NewGameState()
	r := engine.NewTargetResolver()
	ctx := &engine.Context{State: gs, SourcePlayer: 0}
	assert.Empty(t, r.LegalTargets(ctx, engine.TargetSpec{Kind: engine.TargetNone}))
}
