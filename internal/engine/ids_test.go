package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgranger/optcx/internal/engine"
)

func TestDeterministicRNG_SameSeedSameSequence(t *testing.T) {
	a := engine.NewDeterministicRNG(42)
	b := engine.NewDeterministicRNG(42)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestDeterministicRNG_DifferentSeedsDiverge(t *testing.T) {
	a := engine.NewDeterministicRNG(1)
	b := engine.NewDeterministicRNG(2)
	assert.NotEqual(t, a.Next(), b.Next())
}

func TestDeterministicRNG_ZeroSeedDoesNotDegenerate(t *testing.T) {
	r := engine.NewDeterministicRNG(0)
	assert.NotEqual(t, uint64(0), r.Next())
}

func TestDeterministicRNG_IntnWithinBounds(t *testing.T) {
	r := engine.NewDeterministicRNG(7)
	for i := 0; i < 200; i++ {
		n := r.Intn(10)
		assert.True(t, n >= 0 && n < 10)
	}
}

func TestDeterministicRNG_ShuffleDeckIsReplayStable(t *testing.T) {
	build := func() *engine.PlayerState {
		gs := engine.NewGameState()
		for i := 0; i < 20; i++ {
			c := gs.CreateGameCard(testDef("C", "Card", 1, 1000), 0)
			gs.Players[0].Deck = append(gs.Players[0].Deck, c)
		}
		return gs.Players[0]
	}

	p1, p2 := build(), build()
	engine.NewDeterministicRNG(99).ShuffleDeck(p1)
	engine.NewDeterministicRNG(99).ShuffleDeck(p2)

	for i := range p1.Deck {
		assert.Equal(t, p1.Deck[i].InstanceID, p2.Deck[i].InstanceID)
	}
}
