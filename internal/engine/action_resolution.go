package engine

import "fmt"

// dispatchCombatAndBeyond covers every ActionKind not handled directly in
// action.go: KO, rest/activate, DON, life, protection, keyword grants, cost
// modification, search, and the miscellaneous tail of §4.7's taxonomy. Kept
// in a second file the way the teacher splits battle/tech/special/equip.
func (r *ActionResolver) dispatchCombatAndBeyond(ctx *Context, a *Action) ([]StateChange, error) {
	switch a.Kind {
	case ActionKoCharacter, ActionKoCostOrLess, ActionKoPowerOrLess, ActionKoAll:
		return r.execKo(ctx, a)
	case ActionRestCharacter, ActionActivateCharacter, ActionRestDon, ActionActiveDon, ActionFreeze:
		return r.execRestActivate(ctx, a)
	case ActionGainActiveDon, ActionGainRestedDon, ActionAddDon, ActionReturnDon, ActionAttachDon, ActionOpponentReturnDon:
		return r.execDon(ctx, a)
	case ActionAddToLife, ActionTakeLife, ActionTrashLife, ActionLookAtLife, ActionReorderLife, ActionPreventLifeAdd:
		return r.execLife(ctx, a)
	case ActionPreventKO, ActionImmuneKO, ActionImmuneKOUntil, ActionImmuneEffects, ActionImmuneCombat, ActionCantAttack, ActionCantBeBlocked, ActionCantBeRested:
		return r.execProtection(ctx, a)
	case ActionGrantKeyword, ActionBecomeBlocker, ActionUnblockable, ActionGrantRushVsCharacters, ActionCanAttackActive:
		return r.execKeyword(ctx, a)
	case ActionReduceCost, ActionIncreaseCost, ActionDebuffCost:
		return r.execCostMod(ctx, a)
	case ActionSearchAndSelect, ActionSearchDeck, ActionLookAtTopDeck:
		return r.execSearch(ctx, a)
	case ActionSwapPower, ActionRedirectAttack, ActionRevealHand, ActionSilence, ActionWinGame, ActionTakeAnotherTurn:
		return r.execMisc(ctx, a)
	default:
		return nil, fmt.Errorf("unhandled action kind %v", a.Kind)
	}
}

// --- KO ---

func (r *ActionResolver) execKo(ctx *Context, a *Action) ([]StateChange, error) {
	var targets []int
	switch a.Kind {
	case ActionKoCostOrLess:
		targets = r.filteredByThreshold(ctx, a, func(c *GameCard) int { return c.EffectiveCost() })
	case ActionKoPowerOrLess:
		targets = r.filteredByThreshold(ctx, a, r.buffs.EffectivePower)
	default: // KoCharacter, KoAll (KoAll relies on an unfiltered TargetSpec matching the whole field)
		targets = r.resolveTargets(ctx, a)
	}

	var changes []StateChange
	for _, id := range targets {
		card, owner := ctx.State.FindCard(id)
		if card == nil {
			continue
		}
		if card.ImmuneKOUntilTurn > ctx.State.Turn {
			continue
		}
		if replaced, repChanges := applyPreventKO(ctx.State, card); replaced {
			changes = append(changes, repChanges...)
			continue
		}
		p := ctx.State.Players[owner]
		p.RemoveFromField(id)
		r.buffs.PruneZoneExit(card)
		card.Zone = ZoneTrash
		p.Trash = append(p.Trash, card)
		changes = append(changes, StateChange{Kind: ChangeCardDestroyed, CardID: id, PlayerID: owner, FromZone: ZoneField, ToZone: ZoneTrash})
	}
	return changes, nil
}

// applyPreventKO checks c for an outstanding PreventKO replacement marker
// (§4.7: "the replacement source card is trashed instead, at most once per
// KO event"). If c carries one, the most recently applied protecting source
// card is trashed in c's place, the marker is popped, and c survives this KO
// — leaving any remaining markers to protect against a later KO this same
// turn. Reports false (no replacement available) once PreventKOBy is empty,
// so a subsequent KO on c proceeds normally.
func applyPreventKO(gs *GameState, c *GameCard) (bool, []StateChange) {
	if len(c.PreventKOBy) == 0 {
		return false, nil
	}
	sourceID := c.PreventKOBy[len(c.PreventKOBy)-1]
	c.PreventKOBy = c.PreventKOBy[:len(c.PreventKOBy)-1]

	var changes []StateChange
	if s, owner := gs.FindCard(sourceID); s != nil {
		if removed := gs.Players[owner].RemoveFromField(s.InstanceID); removed != nil {
			NewBuffTracker(gs).PruneZoneExit(s)
			s.Zone = ZoneTrash
			gs.Players[owner].Trash = append(gs.Players[owner].Trash, s)
			changes = append(changes, StateChange{Kind: ChangeCardDestroyed, CardID: s.InstanceID, PlayerID: owner, FromZone: ZoneField, ToZone: ZoneTrash, Detail: "PreventKO replacement"})
		}
	}
	return true, changes
}

func (r *ActionResolver) filteredByThreshold(ctx *Context, a *Action, metric func(*GameCard) int) []int {
	candidates := r.resolveTargets(ctx, a)
	out := make([]int, 0, len(candidates))
	for _, id := range candidates {
		c, _ := ctx.State.FindCard(id)
		if c != nil && metric(c) <= a.Params.Threshold {
			out = append(out, id)
		}
	}
	return out
}

// --- Rest / activate ---

func (r *ActionResolver) execRestActivate(ctx *Context, a *Action) ([]StateChange, error) {
	var changes []StateChange
	switch a.Kind {
	case ActionRestDon, ActionActiveDon:
		p := ctx.State.Players[ctx.SourcePlayer]
		from, to := StateActive, StateRested
		if a.Kind == ActionActiveDon {
			from, to = StateRested, StateActive
		}
		flipped := 0
		for _, d := range p.DonField {
			if flipped >= a.Params.Amount {
				break
			}
			if d.State == from {
				d.State = to
				flipped++
			}
		}
		changes = append(changes, StateChange{Kind: ChangeDonChanged, PlayerID: ctx.SourcePlayer, Amount: flipped, Detail: a.Kind.String()})
	default:
		targets := r.resolveTargets(ctx, a)
		for _, id := range targets {
			card, owner := ctx.State.FindCard(id)
			if card == nil {
				continue
			}
			switch a.Kind {
			case ActionRestCharacter:
				card.State = StateRested
			case ActionFreeze:
				card.State = StateRested
				card.TransientKeywords["frozen"] = true
			case ActionActivateCharacter:
				card.State = StateActive
			}
			changes = append(changes, StateChange{Kind: ChangeCardMoved, CardID: id, PlayerID: owner, Detail: a.Kind.String()})
		}
	}
	return changes, nil
}

// --- DON ---

func (r *ActionResolver) execDon(ctx *Context, a *Action) ([]StateChange, error) {
	p := ctx.State.Players[ctx.SourcePlayer]
	var changes []StateChange
	switch a.Kind {
	case ActionGainActiveDon, ActionGainRestedDon, ActionAddDon:
		state := StateActive
		if a.Kind == ActionGainRestedDon {
			state = StateRested
		}
		for i := 0; i < a.Params.Amount; i++ {
			d := ctx.State.CreateGameCard(donDefinition, ctx.SourcePlayer)
			d.State = state
			d.Zone = ZoneDonField
			p.DonField = append(p.DonField, d)
		}
		changes = append(changes, StateChange{Kind: ChangeDonChanged, PlayerID: ctx.SourcePlayer, Amount: a.Params.Amount, Detail: a.Kind.String()})
	case ActionReturnDon, ActionOpponentReturnDon:
		player := ctx.SourcePlayer
		if a.Kind == ActionOpponentReturnDon {
			player = ctx.opponent()
		}
		op := ctx.State.Players[player]
		returned := 0
		for _, d := range op.DonField {
			if returned >= a.Params.Amount {
				break
			}
			if d.State == StateAttached {
				d.State = StateActive
				d.AttachedTo = 0
				returned++
			}
		}
		changes = append(changes, StateChange{Kind: ChangeDonChanged, PlayerID: player, Amount: returned, Detail: "ReturnDon"})
	case ActionAttachDon:
		targets := r.resolveTargets(ctx, a)
		for _, id := range targets {
			count := a.Params.AttachCount
			if count == 0 {
				count = CharacterDonAttach
				if c, _ := ctx.State.FindCard(id); c != nil && c.Def.Kind == KindLeader {
					count = LeaderDonAttach
				}
			}
			attached := 0
			for _, d := range p.DonField {
				if attached >= count {
					break
				}
				if d.State == StateActive {
					d.State = StateAttached
					d.AttachedTo = id
					attached++
				}
			}
			changes = append(changes, StateChange{Kind: ChangeDonChanged, CardID: id, PlayerID: ctx.SourcePlayer, Amount: attached, Detail: "AttachDon"})
		}
	}
	return changes, nil
}

// donDefinition is the synthetic catalog entry instantiated for gained DON
// resource cards (DON cards have no cost/power and live only in DonField).
var donDefinition = &CardDefinition{ID: "DON", Name: "DON!!", Kind: KindEvent}

// --- Life ---

func (r *ActionResolver) execLife(ctx *Context, a *Action) ([]StateChange, error) {
	p := ctx.State.Players[ctx.SourcePlayer]
	var changes []StateChange
	switch a.Kind {
	case ActionAddToLife:
		for i := 0; i < a.Params.Amount && len(p.Deck) > 0; i++ {
			card := p.Deck[0]
			p.Deck = p.Deck[1:]
			card.Zone = ZoneLife
			p.LifeCards = append(p.LifeCards, card)
		}
		p.Life = len(p.LifeCards)
		changes = append(changes, StateChange{Kind: ChangeLifeChanged, PlayerID: ctx.SourcePlayer, Amount: a.Params.Amount})
	case ActionTakeLife:
		opp := ctx.State.Players[ctx.opponent()]
		for i := 0; i < a.Params.Amount && len(opp.LifeCards) > 0; i++ {
			card := opp.LifeCards[0]
			opp.LifeCards = opp.LifeCards[1:]
			card.Zone = ZoneHand
			opp.Hand = append(opp.Hand, card)
		}
		opp.Life = len(opp.LifeCards)
		changes = append(changes, StateChange{Kind: ChangeLifeChanged, PlayerID: ctx.opponent(), Amount: -a.Params.Amount})
	case ActionTrashLife:
		for i := 0; i < a.Params.Amount && len(p.LifeCards) > 0; i++ {
			card := p.LifeCards[0]
			p.LifeCards = p.LifeCards[1:]
			card.Zone = ZoneTrash
			p.Trash = append(p.Trash, card)
		}
		p.Life = len(p.LifeCards)
		changes = append(changes, StateChange{Kind: ChangeLifeChanged, PlayerID: ctx.SourcePlayer, Amount: -a.Params.Amount})
	case ActionLookAtLife, ActionReorderLife:
		// Visibility/ordering-only; no zone or count change. Client-facing reveal
		// is handled by the caller via the returned StateChange detail.
		changes = append(changes, StateChange{Kind: ChangeEffectApplied, PlayerID: ctx.SourcePlayer, Detail: a.Kind.String()})
	case ActionPreventLifeAdd:
		changes = append(changes, StateChange{Kind: ChangeEffectApplied, PlayerID: ctx.opponent(), Detail: "PreventLifeAdd"})
	}
	return changes, nil
}

// --- Replacement / protection ---

func (r *ActionResolver) execProtection(ctx *Context, a *Action) ([]StateChange, error) {
	targets := r.resolveTargets(ctx, a)
	if a.Target.Kind == TargetNone && ctx.Source != nil {
		targets = []int{ctx.Source.InstanceID}
	}
	var changes []StateChange
	for _, id := range targets {
		card, _ := ctx.State.FindCard(id)
		if card == nil {
			continue
		}
		switch a.Kind {
		case ActionPreventKO:
			card.PreventKOBy = append(card.PreventKOBy, ctx.sourceID())
		case ActionImmuneKO:
			card.ImmuneKOUntilTurn = 1 << 30 // effectively permanent
		case ActionImmuneKOUntil:
			card.ImmuneKOUntilTurn = ctx.State.Turn + a.Params.RestrictTurn
		case ActionImmuneEffects:
			card.Immunities = append(card.Immunities, "effects")
		case ActionImmuneCombat:
			card.Immunities = append(card.Immunities, "combat")
		case ActionCantAttack:
			card.Restrictions = append(card.Restrictions, "cant_attack")
		case ActionCantBeBlocked:
			card.Restrictions = append(card.Restrictions, "cant_be_blocked")
		case ActionCantBeRested:
			card.Restrictions = append(card.Restrictions, "cant_be_rested")
		}
		changes = append(changes, StateChange{Kind: ChangeEffectApplied, CardID: id, Detail: a.Kind.String()})
	}
	return changes, nil
}

// --- Keyword grants ---

func (r *ActionResolver) execKeyword(ctx *Context, a *Action) ([]StateChange, error) {
	targets := r.resolveTargets(ctx, a)
	if a.Target.Kind == TargetNone && ctx.Source != nil {
		targets = []int{ctx.Source.InstanceID}
	}
	var changes []StateChange
	for _, id := range targets {
		card, _ := ctx.State.FindCard(id)
		if card == nil {
			continue
		}
		switch a.Kind {
		case ActionGrantKeyword:
			card.TransientKeywords[a.Params.Keyword] = true
		case ActionBecomeBlocker:
			card.TransientKeywords["blocker"] = true
		case ActionUnblockable:
			card.TransientKeywords["unblockable"] = true
		case ActionGrantRushVsCharacters:
			card.HasRushVsCharacters = true
		case ActionCanAttackActive:
			card.TransientKeywords["can_attack_active"] = true
		}
		changes = append(changes, StateChange{Kind: ChangeKeywordAdded, CardID: id, Detail: a.Kind.String()})
	}
	return changes, nil
}

// --- Cost modification ---

func (r *ActionResolver) execCostMod(ctx *Context, a *Action) ([]StateChange, error) {
	targets := r.resolveTargets(ctx, a)
	var changes []StateChange
	for _, id := range targets {
		card, _ := ctx.State.FindCard(id)
		if card == nil || card.Def.Cost == nil {
			continue
		}
		base := card.EffectiveCost()
		delta := a.Params.Amount
		switch a.Kind {
		case ActionReduceCost, ActionDebuffCost:
			delta = -delta
		}
		next := base + delta
		if next < 0 {
			next = 0
		}
		card.ModifiedCost = &next
		changes = append(changes, StateChange{Kind: ChangeCostChanged, CardID: id, Amount: delta})
	}
	return changes, nil
}

// --- Search ---

func (r *ActionResolver) execSearch(ctx *Context, a *Action) ([]StateChange, error) {
	p := ctx.State.Players[ctx.SourcePlayer]
	var changes []StateChange
	switch a.Kind {
	case ActionSearchDeck, ActionSearchAndSelect:
		// Candidates are surfaced to the orchestrator as a choice prompt;
		// ctx.SelectedTargets holds the chosen card(s) once resumed.
		for _, id := range ctx.SelectedTargets {
			card := p.RemoveFromDeck(id)
			if card == nil {
				continue
			}
			card.Zone = ZoneHand
			p.Hand = append(p.Hand, card)
			changes = append(changes, StateChange{Kind: ChangeCardMoved, CardID: id, PlayerID: ctx.SourcePlayer, FromZone: ZoneDeck, ToZone: ZoneHand})
		}
		// Shuffle remaining deck is modeled by the caller (DeterministicRNG owns shuffling).
	case ActionLookAtTopDeck:
		changes = append(changes, StateChange{Kind: ChangeEffectApplied, PlayerID: ctx.SourcePlayer, Detail: "LookAtTopDeck", Amount: a.Params.Count})
	}
	return changes, nil
}

// --- Miscellaneous ---

func (r *ActionResolver) execMisc(ctx *Context, a *Action) ([]StateChange, error) {
	var changes []StateChange
	switch a.Kind {
	case ActionSwapPower:
		targets := r.resolveTargets(ctx, a)
		if len(targets) != 2 {
			return nil, fmt.Errorf("SwapPower requires exactly two targets, got %d", len(targets))
		}
		a1, _ := ctx.State.FindCard(targets[0])
		a2, _ := ctx.State.FindCard(targets[1])
		if a1 == nil || a2 == nil {
			return nil, fmt.Errorf("SwapPower target not found")
		}
		p1, p2 := r.buffs.EffectivePower(a1), r.buffs.EffectivePower(a2)
		r.buffs.AddBuff(a1, p2-p1, DurationThisTurn, ctx.sourceID())
		r.buffs.AddBuff(a2, p1-p2, DurationThisTurn, ctx.sourceID())
		changes = append(changes, StateChange{Kind: ChangePowerChanged, CardID: targets[0]}, StateChange{Kind: ChangePowerChanged, CardID: targets[1]})
	case ActionRedirectAttack:
		targets := r.resolveTargets(ctx, a)
		if len(targets) == 1 && ctx.State.Combat != nil {
			ctx.State.Combat.TargetID = targets[0]
			ctx.State.Combat.TargetIsLeader = false
			changes = append(changes, StateChange{Kind: ChangeEffectApplied, CardID: targets[0], Detail: "RedirectAttack"})
		}
	case ActionRevealHand:
		changes = append(changes, StateChange{Kind: ChangeEffectApplied, PlayerID: ctx.opponent(), Detail: "RevealHand"})
	case ActionSilence:
		targets := r.resolveTargets(ctx, a)
		for _, id := range targets {
			card, _ := ctx.State.FindCard(id)
			if card == nil {
				continue
			}
			card.Def = silencedCopy(card.Def)
			changes = append(changes, StateChange{Kind: ChangeEffectRemoved, CardID: id, Detail: "Silence"})
		}
	case ActionWinGame:
		ctx.State.SetWinner(ctx.SourcePlayer)
		changes = append(changes, StateChange{Kind: ChangeEffectApplied, PlayerID: ctx.SourcePlayer, Detail: "WinGame"})
	case ActionTakeAnotherTurn:
		changes = append(changes, StateChange{Kind: ChangeEffectApplied, PlayerID: ctx.SourcePlayer, Detail: "TakeAnotherTurn"})
	}
	return changes, nil
}

// silencedCopy returns a definition-view with the definition's own Effects
// stripped, leaving keywords, stats, and traits intact (§4.7 Silence: removes
// effects, not printed stats). Keywords granted on the GameCard are untouched.
func silencedCopy(def *CardDefinition) *CardDefinition {
	cp := *def
	cp.Effects = nil
	return &cp
}
