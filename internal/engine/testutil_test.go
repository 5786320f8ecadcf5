package engine_test

import (
	"context"

	"github.com/rgranger/optcx/internal/engine"
)

func intp(n int) *int { return &n }

// scriptedController is a minimal PlayerController for duel-level tests,
// modeled on the teacher's scripted-duel idiom: it always chooses the first
// legal action whose Kind appears in priority, defaulting to ending the
// phase, and records every StateChange it is notified of.
type scriptedController struct {
	priority []engine.PlayerActionKind
	notified []engine.StateChange
}

func newScriptedController(priority ...engine.PlayerActionKind) *scriptedController {
	return &scriptedController{priority: priority}
}

func (s *scriptedController) ChooseAction(_ context.Context, _ *engine.GameState, actions []engine.PlayerAction) (engine.PlayerAction, error) {
	for _, want := range s.priority {
		for _, a := range actions {
			if a.Kind == want {
				return a, nil
			}
		}
	}
	for _, a := range actions {
		if a.Kind == engine.ActionEndTurn {
			return a, nil
		}
	}
	return actions[0], nil
}

func (s *scriptedController) ChooseCards(_ context.Context, _ *engine.GameState, _ string, candidates []*engine.GameCard, min, _ int) ([]*engine.GameCard, error) {
	if min == 0 || len(candidates) == 0 {
		return nil, nil
	}
	return candidates[:min], nil
}

func (s *scriptedController) ChooseYesNo(_ context.Context, _ *engine.GameState, _ string) (bool, error) {
	return false, nil
}

func (s *scriptedController) Notify(_ context.Context, change engine.StateChange) error {
	s.notified = append(s.notified, change)
	return nil
}

// testDef builds a minimal character definition for state-level resolver
// tests that don't need a full registry.
func testDef(id, name string, cost, power int) *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:        id,
		Name:      name,
		Kind:      engine.KindCharacter,
		Colors:    []engine.Color{engine.ColorRed},
		Cost:      intp(cost),
		BasePower: intp(power),
	}
}

// putOnField instantiates def for player and seats it on the field, Active.
func putOnField(gs *engine.GameState, player int, def *engine.CardDefinition) *engine.GameCard {
	c := gs.CreateGameCard(def, player)
	c.Zone = engine.ZoneField
	c.State = engine.StateActive
	gs.Players[player].Field = append(gs.Players[player].Field, c)
	return c
}

// putInHand instantiates def for player and places it in hand.
func putInHand(gs *engine.GameState, player int, def *engine.CardDefinition) *engine.GameCard {
	c := gs.CreateGameCard(def, player)
	c.Zone = engine.ZoneHand
	gs.Players[player].Hand = append(gs.Players[player].Hand, c)
	return c
}

// addActiveDon adds n Active DON cards to a player's DON field.
func addActiveDon(gs *engine.GameState, player, n int) {
	donDef := &engine.CardDefinition{ID: "DON", Name: "DON!!", Kind: engine.KindEvent}
	for i := 0; i < n; i++ {
		d := gs.CreateGameCard(donDef, player)
		d.Zone = engine.ZoneDonField
		d.State = engine.StateActive
		gs.Players[player].DonField = append(gs.Players[player].DonField, d)
	}
}
