// Package cards is a representative sample card-definition catalog: plain
// data values for the registry to load, exercising a cross-section of the
// engine's trigger, condition, cost, and action taxonomies. It replaces the
// teacher's closure-based card catalog with the declarative shape the
// engine's Action Resolver and Trigger Dispatcher expect.
package cards

import "github.com/rgranger/optcx/internal/engine"

func intp(n int) *int { return &n }

// Definitions returns the sample catalog, ready for engine.Registry.LoadDefinitions.
func Definitions() []*engine.CardDefinition {
	return []*engine.CardDefinition{
		strawHatLeader(),
		marineboundLeader(),
		zoroRoronoa(),
		nami(),
		usopp(),
		sanji(),
		gumGumPistol(),
		oneTwo(),
		counterSlash(),
		supplyRun(),
		merryGoRound(),
	}
}

func strawHatLeader() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:     "ST01-L",
		Name:   "Monkey D. Luffy",
		Kind:   engine.KindLeader,
		Colors: []engine.Color{engine.ColorRed},
		Traits: []string{"Straw Hat Crew"},
	}
}

func marineboundLeader() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:     "ST02-L",
		Name:   "Smoker",
		Kind:   engine.KindLeader,
		Colors: []engine.Color{engine.ColorBlue},
		Traits: []string{"Marines"},
	}
}

func zoroRoronoa() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:        "ST01-002",
		Name:      "Roronoa Zoro",
		Kind:      engine.KindCharacter,
		Colors:    []engine.Color{engine.ColorRed},
		Cost:      intp(3),
		BasePower: intp(5000),
		Counter:   intp(1000),
		Traits:    []string{"Straw Hat Crew", "Supernovas"},
		Effects: []*engine.EffectDefinition{
			{
				ID:      "ST01-002-onplay",
				Trigger: engine.TriggerOnPlay,
				Actions: []*engine.Action{
					{
						Kind:   engine.ActionBuffSelf,
						Target: engine.TargetSpec{Kind: engine.TargetNone},
						Params: engine.ActionParams{Amount: 1000, Duration: engine.DurationThisTurn},
					},
				},
				Description: "On Play: This character gains +1000 power during this turn.",
			},
		},
	}
}

func nami() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:        "ST01-003",
		Name:      "Nami",
		Kind:      engine.KindCharacter,
		Colors:    []engine.Color{engine.ColorRed},
		Cost:      intp(1),
		BasePower: intp(1000),
		Traits:    []string{"Straw Hat Crew"},
		Effects: []*engine.EffectDefinition{
			{
				ID:      "ST01-003-onplay",
				Trigger: engine.TriggerOnPlay,
				Conditions: []engine.Condition{
					{Kind: engine.CondDonCountOrMore, Scope: engine.ScopeSelf, Count: 2},
				},
				Actions: []*engine.Action{
					{
						Kind:   engine.ActionDrawCards,
						Target: engine.TargetSpec{Kind: engine.TargetNone},
						Params: engine.ActionParams{Amount: 1},
					},
				},
				Description: "On Play: If you have 2 or more DON!! cards, draw 1 card.",
			},
		},
	}
}

func usopp() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:        "ST01-004",
		Name:      "Usopp",
		Kind:      engine.KindCharacter,
		Colors:    []engine.Color{engine.ColorRed},
		Cost:      intp(2),
		BasePower: intp(2000),
		Counter:   intp(2000),
		Traits:    []string{"Straw Hat Crew"},
		Effects: []*engine.EffectDefinition{
			{
				ID:      "ST01-004-counter",
				Trigger: engine.TriggerCounter,
				Actions: []*engine.Action{
					{
						Kind:   engine.ActionBuffAny,
						Target: engine.TargetSpec{Kind: engine.TargetYourCharacter, Min: 0, Max: 1},
						Params: engine.ActionParams{Amount: 1000, Duration: engine.DurationThisBattle},
					},
				},
				Description: "Counter: Give up to 1 of your Characters +1000 power during this battle.",
			},
		},
	}
}

func sanji() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:        "ST01-005",
		Name:      "Vinsmoke Sanji",
		Kind:      engine.KindCharacter,
		Colors:    []engine.Color{engine.ColorRed},
		Cost:      intp(2),
		BasePower: intp(3000),
		Traits:    []string{"Straw Hat Crew"},
		Keywords:  []string{"blocker"},
		Effects: []*engine.EffectDefinition{
			{
				ID:          "ST01-005-onko",
				Trigger:     engine.TriggerOnKo,
				OncePerTurn: true,
				Actions: []*engine.Action{
					{
						Kind:   engine.ActionGainActiveDon,
						Target: engine.TargetSpec{Kind: engine.TargetNone},
						Params: engine.ActionParams{Amount: 1},
					},
				},
				Description: "[Once Per Turn] When this character is KO'd, gain 1 active DON!!.",
			},
		},
	}
}

func gumGumPistol() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:     "ST01-006",
		Name:   "Gum-Gum Pistol",
		Kind:   engine.KindEvent,
		Colors: []engine.Color{engine.ColorRed},
		Cost:   intp(1),
		Traits: []string{"Straw Hat Crew"},
		Effects: []*engine.EffectDefinition{
			{
				ID:      "ST01-006-main",
				Trigger: engine.TriggerMain,
				Costs: []engine.Cost{
					{Kind: engine.CostRestDon, Count: 1},
				},
				Actions: []*engine.Action{
					{
						Kind:   engine.ActionKoPowerOrLess,
						Target: engine.TargetSpec{Kind: engine.TargetOpponentCharacter, Min: 0, Max: 1},
						Params: engine.ActionParams{Threshold: 5000},
					},
				},
				Description: "Main: Rest 1 of your DON!!: KO up to 1 of your opponent's Characters with 5000 power or less.",
			},
		},
	}
}

func oneTwo() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:     "ST01-007",
		Name:   "1000-2000",
		Kind:   engine.KindEvent,
		Colors: []engine.Color{engine.ColorRed},
		Cost:   intp(0),
		Effects: []*engine.EffectDefinition{
			{
				ID:      "ST01-007-main",
				Trigger: engine.TriggerMain,
				Actions: []*engine.Action{
					{
						Kind:   engine.ActionBuffAny,
						Target: engine.TargetSpec{Kind: engine.TargetYourCharacter, Min: 0, Max: 1},
						Params: engine.ActionParams{Amount: 1000, Duration: engine.DurationThisTurn},
						Children: []*engine.Action{
							{
								Kind:   engine.ActionDrawCards,
								Target: engine.TargetSpec{Kind: engine.TargetNone},
								Params: engine.ActionParams{Amount: 1},
							},
						},
					},
				},
				Description: "Main: Up to 1 of your Characters gains +1000 power during this turn. Then draw 1 card.",
			},
		},
	}
}

func counterSlash() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:     "ST01-008",
		Name:   "Counter Slash",
		Kind:   engine.KindEvent,
		Colors: []engine.Color{engine.ColorRed},
		Cost:   intp(0),
		Effects: []*engine.EffectDefinition{
			{
				ID:      "ST01-008-counter",
				Trigger: engine.TriggerCounter,
				Actions: []*engine.Action{
					{
						Kind:   engine.ActionBuffAny,
						Target: engine.TargetSpec{Kind: engine.TargetYourCharacter, Min: 0, Max: 1},
						Params: engine.ActionParams{Amount: 2000, Duration: engine.DurationThisBattle},
					},
				},
				Description: "Counter: Up to 1 of your Characters gains +2000 power during this battle.",
			},
		},
	}
}

func supplyRun() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:        "ST01-009",
		Name:      "Going Merry Crew",
		Kind:      engine.KindCharacter,
		Colors:    []engine.Color{engine.ColorRed},
		Cost:      intp(4),
		BasePower: intp(6000),
		Traits:    []string{"Straw Hat Crew"},
		Effects: []*engine.EffectDefinition{
			{
				ID:      "ST01-009-onattack",
				Trigger: engine.TriggerOnAttack,
				Conditions: []engine.Condition{
					{Kind: engine.CondDonAttachedOrMore, Scope: engine.ScopeSelf, Count: 1},
				},
				Actions: []*engine.Action{
					{
						Kind:   engine.ActionKoCostOrLess,
						Target: engine.TargetSpec{Kind: engine.TargetOpponentCharacter, Min: 0, Max: 1},
						Params: engine.ActionParams{Threshold: 2},
					},
				},
				Description: "On Attack: If this character has a DON!! card attached, you may KO up to 1 of your opponent's Characters with a cost of 2 or less.",
			},
		},
	}
}

func merryGoRound() *engine.CardDefinition {
	return &engine.CardDefinition{
		ID:     "ST01-010",
		Name:   "Merry Go Round",
		Kind:   engine.KindStage,
		Colors: []engine.Color{engine.ColorRed},
		Cost:   intp(1),
		Effects: []*engine.EffectDefinition{
			{
				ID:      "ST01-010-activate",
				Trigger: engine.TriggerActivateMain,
				Costs: []engine.Cost{
					{Kind: engine.CostRestSelf},
				},
				Actions: []*engine.Action{
					{
						Kind:   engine.ActionBuffField,
						Target: engine.TargetSpec{Kind: engine.TargetYourCharacter, Filters: []engine.Filter{
							{Property: engine.FilterTrait, Operator: engine.OpEquals, Value: engine.FilterValue{Str: "Straw Hat Crew"}},
						}},
						Params: engine.ActionParams{Amount: 500, Duration: engine.DurationThisTurn},
					},
				},
				Description: "[Activate: Main] Rest this card: All of your Straw Hat Crew characters gain +500 power during this turn.",
			},
		},
	}
}
