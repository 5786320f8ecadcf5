package engine

import "fmt"

// CostEngine checks affordability and charges declared Costs atomically
// (§4.4, §8 "cost atomicity": either every cost is paid or none is).
type CostEngine struct{}

// NewCostEngine constructs a stateless cost engine.
func NewCostEngine() *CostEngine { return &CostEngine{} }

// CanPay reports whether every declared cost (skipping Optional ones the
// caller chose not to pay — selection happens upstream) can currently be paid.
func (e *CostEngine) CanPay(ctx *Context, costs []Cost) bool {
	p := ctx.State.Players[ctx.SourcePlayer]
	for _, c := range costs {
		if !e.affordable(ctx, p, c) {
			return false
		}
	}
	return true
}

func (e *CostEngine) affordable(ctx *Context, p *PlayerState, c Cost) bool {
	switch c.Kind {
	case CostSpendDon:
		return p.ActiveDonCount() >= c.Count
	case CostRestDon:
		return p.ActiveDonCount() >= c.Count
	case CostReturnDon:
		return e.attachedDonCountFor(ctx, p) >= c.Count
	case CostTrashFromHand:
		return e.trashableFromHand(p, c) >= c.Count
	case CostTrashCharacter:
		return p.FieldCount() >= c.Count
	case CostRestSelf:
		return ctx.Source != nil && ctx.Source.State == StateActive
	case CostTrashSelf:
		return ctx.Source != nil
	case CostPayLife:
		return p.LifeCount() >= c.Count
	default:
		return false
	}
}

func (e *CostEngine) trashableFromHand(p *PlayerState, c Cost) int {
	if c.Trait == "" {
		return p.HandCount()
	}
	n := 0
	for _, card := range p.Hand {
		if card.Def.HasTrait(c.Trait) {
			n++
		}
	}
	return n
}

func (e *CostEngine) attachedDonCountFor(ctx *Context, p *PlayerState) int {
	if ctx.Source == nil {
		return 0
	}
	n := 0
	for _, d := range p.DonField {
		if d.State == StateAttached && d.AttachedTo == ctx.Source.InstanceID {
			n++
		}
	}
	return n
}

// PayAll charges every declared cost. Callers MUST call CanPay first and pass
// any required selections (e.g. which hand cards to trash) via selections —
// keyed by cost index. PayAll never partially applies: if any individual
// charge fails it returns an error without having mutated state for that
// specific charge (the caller is expected to have pre-validated via CanPay).
func (e *CostEngine) PayAll(ctx *Context, costs []Cost, selections map[int][]int) error {
	p := ctx.State.Players[ctx.SourcePlayer]
	for i, c := range costs {
		if err := e.pay(ctx, p, c, selections[i]); err != nil {
			return fmt.Errorf("cost %d: %w", i, err)
		}
	}
	return nil
}

func (e *CostEngine) pay(ctx *Context, p *PlayerState, c Cost, selected []int) error {
	switch c.Kind {
	case CostSpendDon, CostRestDon:
		return e.restActiveDon(p, c.Count)
	case CostReturnDon:
		return e.returnAttachedDon(ctx, p, c.Count)
	case CostTrashFromHand:
		return e.trashSelectedFromHand(p, selected, c.Count)
	case CostTrashCharacter:
		return e.trashSelectedCharacters(ctx, selected, c.Count)
	case CostRestSelf:
		if ctx.Source == nil {
			return fmt.Errorf("no source card to rest")
		}
		ctx.Source.State = StateRested
		return nil
	case CostTrashSelf:
		if ctx.Source == nil {
			return fmt.Errorf("no source card to trash")
		}
		return e.trashCard(ctx, ctx.Source)
	case CostPayLife:
		if p.LifeCount() < c.Count {
			return fmt.Errorf("insufficient life")
		}
		p.Life -= c.Count
		return nil
	default:
		return fmt.Errorf("unknown cost kind %d", c.Kind)
	}
}

func (e *CostEngine) restActiveDon(p *PlayerState, count int) error {
	rested := 0
	for _, d := range p.DonField {
		if rested >= count {
			break
		}
		if d.State == StateActive {
			d.State = StateRested
			rested++
		}
	}
	if rested < count {
		return fmt.Errorf("insufficient active DON")
	}
	return nil
}

func (e *CostEngine) returnAttachedDon(ctx *Context, p *PlayerState, count int) error {
	if ctx.Source == nil {
		return fmt.Errorf("no source card for DON return")
	}
	returned := 0
	for _, d := range p.DonField {
		if returned >= count {
			break
		}
		if d.State == StateAttached && d.AttachedTo == ctx.Source.InstanceID {
			d.State = StateActive
			d.AttachedTo = 0
			returned++
		}
	}
	if returned < count {
		return fmt.Errorf("insufficient attached DON")
	}
	return nil
}

func (e *CostEngine) trashSelectedFromHand(p *PlayerState, selected []int, count int) error {
	if len(selected) < count {
		return fmt.Errorf("insufficient hand selections")
	}
	for i := 0; i < count; i++ {
		c := p.RemoveFromHand(selected[i])
		if c == nil {
			return fmt.Errorf("selected card %d not in hand", selected[i])
		}
		c.Zone = ZoneTrash
		p.Trash = append(p.Trash, c)
	}
	return nil
}

func (e *CostEngine) trashSelectedCharacters(ctx *Context, selected []int, count int) error {
	if len(selected) < count {
		return fmt.Errorf("insufficient character selections")
	}
	tracker := NewBuffTracker(ctx.State)
	for i := 0; i < count; i++ {
		card, owner := ctx.State.FindCard(selected[i])
		if card == nil {
			return fmt.Errorf("selected character %d not found", selected[i])
		}
		p := ctx.State.Players[owner]
		p.RemoveFromField(card.InstanceID)
		tracker.PruneZoneExit(card)
		card.Zone = ZoneTrash
		p.Trash = append(p.Trash, card)
	}
	return nil
}

func (e *CostEngine) trashCard(ctx *Context, c *GameCard) error {
	owner := c.Owner
	p := ctx.State.Players[owner]
	switch c.Zone {
	case ZoneField:
		p.RemoveFromField(c.InstanceID)
	case ZoneHand:
		p.RemoveFromHand(c.InstanceID)
	default:
		return fmt.Errorf("card in unexpected zone %v for trash-self", c.Zone)
	}
	NewBuffTracker(ctx.State).PruneZoneExit(c)
	c.Zone = ZoneTrash
	p.Trash = append(p.Trash, c)
	return nil
}
