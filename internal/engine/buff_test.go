package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgranger/optcx/internal/engine"
)

func TestBuffTracker_EffectivePowerSumsActiveBuffs(t *testing.T) {
	gs := engine.NewGameState()
	zoro := putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	tracker := engine.NewBuffTracker(gs)

	tracker.AddBuff(zoro, 1000, engine.DurationThisTurn, 0)
	assert.Equal(t, 6000, tracker.EffectivePower(zoro))
}

func TestBuffTracker_ThisTurnBuffExpiresNextTurn(t *testing.T) {
	gs := engine.NewGameState()
	zoro := putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	tracker := engine.NewBuffTracker(gs)

	gs.Turn = 1
	tracker.AddBuff(zoro, 1000, engine.DurationThisTurn, 0)
	assert.Equal(t, 6000, tracker.EffectivePower(zoro))

	gs.Turn = 2
	assert.Equal(t, 5000, tracker.EffectivePower(zoro), "a ThisTurn buff applied on turn 1 must not count on turn 2")

	tracker.PruneEndOfTurn()
	assert.Empty(t, zoro.Buffs)
}

func TestBuffTracker_ThisBattleBuffScopedToCombatID(t *testing.T) {
	gs := engine.NewGameState()
	zoro := putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	tracker := engine.NewBuffTracker(gs)

	gs.Combat = &engine.Combat{ID: 1}
	tracker.AddBuff(zoro, 2000, engine.DurationThisBattle, 0)
	assert.Equal(t, 7000, tracker.EffectivePower(zoro))

	gs.Combat = &engine.Combat{ID: 2} // a later, unrelated combat
	assert.Equal(t, 5000, tracker.EffectivePower(zoro))
}

func TestBuffTracker_PermanentBuffSurvivesPruning(t *testing.T) {
	gs := engine.NewGameState()
	zoro := putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	tracker := engine.NewBuffTracker(gs)

	tracker.AddBuff(zoro, 500, engine.DurationPermanent, 0)
	tracker.PruneEndOfTurn()
	gs.Combat = &engine.Combat{ID: 7}
	tracker.PruneEndOfCombat()

	assert.Equal(t, 5500, tracker.EffectivePower(zoro))
}

func TestBuffTracker_AttachedDonAddsThousandEach(t *testing.T) {
	gs := engine.NewGameState()
	zoro := putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	addActiveDon(gs, 0, 2)
	for _, d := range gs.Players[0].DonField {
		d.State = engine.StateAttached
		d.AttachedTo = zoro.InstanceID
	}

	tracker := engine.NewBuffTracker(gs)
	assert.Equal(t, 7000, tracker.EffectivePower(zoro))
}

func TestBuffTracker_PruneZoneExitClearsEverything(t *testing.T) {
	gs := engine.NewGameState()
	zoro := putOnField(gs, 0, testDef("C1", "Zoro", 3, 5000))
	tracker := engine.NewBuffTracker(gs)
	tracker.AddBuff(zoro, 1000, engine.DurationPermanent, 0)
	zoro.Restrictions = []string{"cant_attack"}
	zoro.PreventKOBy = []int{99}

	tracker.PruneZoneExit(zoro)

	assert.Empty(t, zoro.Buffs)
	assert.Empty(t, zoro.Restrictions)
	assert.Empty(t, zoro.PreventKOBy)
	assert.Equal(t, 5000, tracker.EffectivePower(zoro))
}

// donGatedPassiveDef mirrors SPEC_FULL.md scenario 6: a Passive ability
// granting +2000 power while at least 2 DON are attached to this card.
func donGatedPassiveDef(id, name string, cost, power int) *engine.CardDefinition {
	def := testDef(id, name, cost, power)
	def.Effects = []*engine.EffectDefinition{
		{
			ID:      id + "-passive",
			Trigger: engine.TriggerPassive,
			Conditions: []engine.Condition{
				{Kind: engine.CondDonAttachedOrMore, Count: 2},
			},
			Actions: []*engine.Action{
				{Kind: engine.ActionBuffSelf, Params: engine.ActionParams{Amount: 2000}},
			},
			Description: "While this Character has 2 or more DON!! cards attached, it gains +2000 power.",
		},
	}
	return def
}

func TestBuffTracker_DonGatedPassiveAppliesOnlyWhenConditionHolds(t *testing.T) {
	gs := engine.NewGameState()
	usopp := putOnField(gs, 0, donGatedPassiveDef("C1", "Usopp", 3, 5000))
	addActiveDon(gs, 0, 2)
	tracker := engine.NewBuffTracker(gs)

	don0, don1 := gs.Players[0].DonField[0], gs.Players[0].DonField[1]
	don0.State = engine.StateAttached
	don0.AttachedTo = usopp.InstanceID

	assert.Equal(t, 6000, tracker.EffectivePower(usopp), "1 attached DON: +1000 flat only, passive threshold of 2 not met")

	don1.State = engine.StateAttached
	don1.AttachedTo = usopp.InstanceID
	assert.Equal(t, 9000, tracker.EffectivePower(usopp), "2 attached DON: +2000 flat plus the passive's +2000")

	don1.State = engine.StateActive
	don1.AttachedTo = 0
	assert.Equal(t, 6000, tracker.EffectivePower(usopp), "detaching drops back below the passive threshold")
}

func TestBuffTracker_PassiveDoesNotApplyOffField(t *testing.T) {
	gs := engine.NewGameState()
	usopp := putOnField(gs, 0, donGatedPassiveDef("C1", "Usopp", 3, 5000))
	addActiveDon(gs, 0, 2)
	for _, d := range gs.Players[0].DonField {
		d.State = engine.StateAttached
		d.AttachedTo = usopp.InstanceID
	}
	tracker := engine.NewBuffTracker(gs)
	assert.Equal(t, 9000, tracker.EffectivePower(usopp))

	usopp.Zone = engine.ZoneTrash
	assert.Equal(t, 5000+2000, tracker.EffectivePower(usopp), "DON flat bonus still reads attachment state, but the Passive query is gated to Field/Leader")
}

func TestBuffTracker_EffectivePowerNeverNegative(t *testing.T) {
	gs := engine.NewGameState()
	nami := putOnField(gs, 0, testDef("C1", "Nami", 1, 1000))
	tracker := engine.NewBuffTracker(gs)
	tracker.AddBuff(nami, -5000, engine.DurationPermanent, 0)

	assert.Equal(t, 0, tracker.EffectivePower(nami))
}
