package engine

import "fmt"

// ActionResolver executes declarative Actions against game state (§4.7),
// producing the StateChange log the orchestrator and clients observe.
// It never invents new rules decisions — targets not already resolved by
// the orchestrator (ctx.SelectedTargets) are auto-resolved against every
// legal candidate, matching the "all"/"each" phrasing used across the
// action taxonomy (BuffField, KoAll, OpponentDiscard, ...).
type ActionResolver struct {
	targets *TargetResolver
	buffs   *BuffTracker
}

// NewActionResolver binds a resolver to a game state.
func NewActionResolver(gs *GameState) *ActionResolver {
	return &ActionResolver{targets: NewTargetResolver(), buffs: NewBuffTracker(gs)}
}

// Execute runs one Action (and, in order, its Children) and returns the
// StateChanges it produced.
func (r *ActionResolver) Execute(ctx *Context, a *Action) ([]StateChange, error) {
	changes, err := r.dispatch(ctx, a)
	if err != nil {
		return changes, err
	}
	for _, child := range a.Children {
		childChanges, err := r.Execute(ctx, child)
		changes = append(changes, childChanges...)
		if err != nil {
			return changes, err
		}
	}
	return changes, nil
}

// LegalTargets returns the candidate instance ids a's own semantics would
// apply to, honoring threshold-narrowing actions (KoCostOrLess,
// KoPowerOrLess) whose filter isn't expressed in the TargetSpec itself. The
// orchestrator uses this — not the raw TargetResolver — to decide whether an
// action is actually ambiguous enough to need a player choice.
func (r *ActionResolver) LegalTargets(ctx *Context, a *Action) []int {
	switch a.Kind {
	case ActionKoCostOrLess:
		return r.filteredByThreshold(ctx, a, func(c *GameCard) int { return c.EffectiveCost() })
	case ActionKoPowerOrLess:
		return r.filteredByThreshold(ctx, a, r.buffs.EffectivePower)
	default:
		return r.targets.LegalTargets(ctx, a.Target)
	}
}

// resolveTargets returns the instance ids an action should apply to: the
// orchestrator's already-chosen selection if present, else every legal
// candidate (the "apply to all matching" reading used by field-wide and
// opponent-wide actions).
func (r *ActionResolver) resolveTargets(ctx *Context, a *Action) []int {
	if a.Target.Kind == TargetNone {
		return nil
	}
	if len(ctx.SelectedTargets) > 0 {
		return ctx.SelectedTargets
	}
	return r.targets.LegalTargets(ctx, a.Target)
}

func (r *ActionResolver) dispatch(ctx *Context, a *Action) ([]StateChange, error) {
	switch a.Kind {
	case ActionBuffSelf, ActionBuffPower, ActionBuffAny, ActionBuffOther, ActionBuffField, ActionBuffCombat, ActionDebuffPower, ActionSetPowerZero, ActionSetBasePower:
		return r.execBuff(ctx, a)
	case ActionDrawCards, ActionMillDeck, ActionDrawFromTrash, ActionDrawAndTrash:
		return r.execDraw(ctx, a)
	case ActionDiscardFromHand, ActionOpponentDiscard, ActionOpponentTrashFromHand:
		return r.execDiscard(ctx, a)
	case ActionReturnToHand, ActionSendToDeckBottom, ActionSendToDeckTop, ActionSendToTrash, ActionPlayFromHand, ActionPlayFromTrash, ActionPlayFromDeck:
		return r.execZoneMove(ctx, a)
	default:
		return r.dispatchCombatAndBeyond(ctx, a)
	}
}

// --- Power buffs ---

func (r *ActionResolver) execBuff(ctx *Context, a *Action) ([]StateChange, error) {
	var targets []int
	switch a.Kind {
	case ActionBuffSelf:
		if ctx.Source == nil {
			return nil, fmt.Errorf("BuffSelf with no source card")
		}
		targets = []int{ctx.Source.InstanceID}
	default:
		targets = r.resolveTargets(ctx, a)
	}

	var changes []StateChange
	for _, id := range targets {
		c, _ := ctx.State.FindCard(id)
		if c == nil {
			continue
		}
		switch a.Kind {
		case ActionSetPowerZero:
			r.buffs.AddBuff(c, -r.buffs.EffectivePower(c), DurationThisTurn, ctx.sourceID())
		case ActionSetBasePower:
			if c.Def.BasePower != nil {
				delta := a.Params.Amount - *c.Def.BasePower
				r.buffs.AddBuff(c, delta, DurationPermanent, ctx.sourceID())
			}
		case ActionDebuffPower:
			r.buffs.AddBuff(c, -a.Params.Amount, a.Params.Duration, ctx.sourceID())
		case ActionBuffCombat:
			r.buffs.AddBuff(c, a.Params.Amount, DurationThisBattle, ctx.sourceID())
			if ctx.State.Combat != nil {
				ctx.State.Combat.EffectBuffTotal += a.Params.Amount
			}
		default: // BuffSelf, BuffPower, BuffAny, BuffOther, BuffField
			r.buffs.AddBuff(c, a.Params.Amount, a.Params.Duration, ctx.sourceID())
		}
		changes = append(changes, StateChange{Kind: ChangePowerChanged, CardID: id, Amount: a.Params.Amount, Detail: a.Kind.String()})
	}
	return changes, nil
}

// --- Draw ---

func (r *ActionResolver) execDraw(ctx *Context, a *Action) ([]StateChange, error) {
	p := ctx.State.Players[ctx.SourcePlayer]
	var changes []StateChange
	switch a.Kind {
	case ActionDrawCards:
		for i := 0; i < a.Params.Amount; i++ {
			if card := p.DrawCard(); card != nil {
				changes = append(changes, StateChange{Kind: ChangeCardMoved, CardID: card.InstanceID, PlayerID: ctx.SourcePlayer, FromZone: ZoneDeck, ToZone: ZoneHand})
				changes = append(changes, StateChange{Kind: ChangePlayerDrew, PlayerID: ctx.SourcePlayer, Amount: 1})
			}
		}
	case ActionMillDeck:
		for i := 0; i < a.Params.Amount && len(p.Deck) > 0; i++ {
			card := p.Deck[0]
			p.Deck = p.Deck[1:]
			card.Zone = ZoneTrash
			p.Trash = append(p.Trash, card)
			changes = append(changes, StateChange{Kind: ChangeCardMoved, CardID: card.InstanceID, PlayerID: ctx.SourcePlayer, FromZone: ZoneDeck, ToZone: ZoneTrash})
		}
	case ActionDrawFromTrash:
		targets := r.resolveTargets(ctx, a)
		for _, id := range targets {
			card := p.RemoveFromTrash(id)
			if card == nil {
				continue
			}
			card.Zone = ZoneHand
			p.Hand = append(p.Hand, card)
			changes = append(changes, StateChange{Kind: ChangeCardMoved, CardID: id, PlayerID: ctx.SourcePlayer, FromZone: ZoneTrash, ToZone: ZoneHand})
		}
	case ActionDrawAndTrash:
		for i := 0; i < a.Params.Amount; i++ {
			card := p.DrawCard()
			if card == nil {
				continue
			}
			p.RemoveFromHand(card.InstanceID)
			card.Zone = ZoneTrash
			p.Trash = append(p.Trash, card)
			changes = append(changes, StateChange{Kind: ChangeCardMoved, CardID: card.InstanceID, PlayerID: ctx.SourcePlayer, FromZone: ZoneDeck, ToZone: ZoneTrash})
		}
	}
	return changes, nil
}

// --- Discard ---

func (r *ActionResolver) execDiscard(ctx *Context, a *Action) ([]StateChange, error) {
	var changes []StateChange
	targets := r.resolveTargets(ctx, a)
	for _, id := range targets {
		card, owner := ctx.State.FindCard(id)
		if card == nil {
			continue
		}
		p := ctx.State.Players[owner]
		p.RemoveFromHand(id)
		card.Zone = ZoneTrash
		p.Trash = append(p.Trash, card)
		changes = append(changes, StateChange{Kind: ChangeCardMoved, CardID: id, PlayerID: owner, FromZone: ZoneHand, ToZone: ZoneTrash})
	}
	return changes, nil
}

// --- Zone movement ---

func (r *ActionResolver) execZoneMove(ctx *Context, a *Action) ([]StateChange, error) {
	var changes []StateChange
	targets := r.resolveTargets(ctx, a)
	for _, id := range targets {
		card, owner := ctx.State.FindCard(id)
		if card == nil {
			continue
		}
		p := ctx.State.Players[owner]
		from := card.Zone
		r.removeFromCurrentZone(p, card)
		if ctx.State.IsOnFieldOrLeader(card) || from == ZoneField || from == ZoneLeader {
			r.buffs.PruneZoneExit(card)
		}

		switch a.Kind {
		case ActionReturnToHand:
			card.Zone = ZoneHand
			p.Hand = append(p.Hand, card)
		case ActionSendToDeckBottom:
			card.Zone = ZoneDeck
			p.Deck = append(p.Deck, card)
		case ActionSendToDeckTop:
			card.Zone = ZoneDeck
			p.Deck = append([]*GameCard{card}, p.Deck...)
		case ActionSendToTrash:
			card.Zone = ZoneTrash
			p.Trash = append(p.Trash, card)
		case ActionPlayFromHand, ActionPlayFromTrash, ActionPlayFromDeck:
			if !p.FreeFieldSlot() && card.Def.Kind == KindCharacter {
				// no room: the placement fails and the card, already removed from its origin, goes to the trash
				p.Trash = append(p.Trash, card)
				card.Zone = ZoneTrash
				continue
			}
			card.Zone = ZoneField
			card.State = StateActive
			if a.Params.PlayRested {
				card.State = StateRested
			}
			card.TurnPlayed = ctx.State.Turn
			card.Controller = ctx.SourcePlayer
			card.HasAttacked = false
			p.Field = append(p.Field, card)
		}
		changes = append(changes, StateChange{Kind: ChangeCardMoved, CardID: id, PlayerID: owner, FromZone: from, ToZone: card.Zone})
	}
	return changes, nil
}

func (r *ActionResolver) removeFromCurrentZone(p *PlayerState, card *GameCard) {
	switch card.Zone {
	case ZoneHand:
		p.RemoveFromHand(card.InstanceID)
	case ZoneField:
		p.RemoveFromField(card.InstanceID)
	case ZoneTrash:
		p.RemoveFromTrash(card.InstanceID)
	case ZoneDeck:
		p.RemoveFromDeck(card.InstanceID)
	}
}

// sourceID returns the source card's instance id, or 0 if there is none
// (global/field-wide effects with no single source card).
func (c *Context) sourceID() int {
	if c.Source == nil {
		return 0
	}
	return c.Source.InstanceID
}
