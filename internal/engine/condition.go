package engine

// ConditionEvaluator checks declared Conditions against the current game
// state (§4.3). Conditions gate whether an effect's actions may even be
// attempted; they never themselves mutate state.
type ConditionEvaluator struct{}

// NewConditionEvaluator constructs a stateless evaluator.
func NewConditionEvaluator() *ConditionEvaluator { return &ConditionEvaluator{} }

// AllSatisfied reports whether every declared condition holds for ctx.
func (e *ConditionEvaluator) AllSatisfied(ctx *Context, conds []Condition) bool {
	for _, c := range conds {
		if !e.satisfied(ctx, c) {
			return false
		}
	}
	return true
}

func (e *ConditionEvaluator) satisfied(ctx *Context, c Condition) bool {
	result := e.evaluate(ctx, c)
	if c.Negated {
		return !result
	}
	return result
}

func (e *ConditionEvaluator) evaluate(ctx *Context, c Condition) bool {
	gs := ctx.State
	player := e.scopedPlayer(ctx, c.Scope)
	p := gs.Players[player]

	switch c.Kind {
	case CondDonCountOrMore:
		return p.ActiveDonCount() >= c.Count
	case CondDonCountOrLess:
		return p.ActiveDonCount() <= c.Count
	case CondDonAttachedOrMore:
		return ctx.Source != nil && e.attachedDonCount(gs, ctx.Source.InstanceID) >= c.Count
	case CondLifeCountOrMore:
		return p.LifeCount() >= c.Count
	case CondLifeCountOrLess:
		return p.LifeCount() <= c.Count
	case CondLifeLessThanOpponent:
		return p.LifeCount() < gs.Players[gs.Opponent(player)].LifeCount()
	case CondLifeMoreThanOpponent:
		return p.LifeCount() > gs.Players[gs.Opponent(player)].LifeCount()
	case CondHandCountOrMore:
		return p.HandCount() >= c.Count
	case CondHandCountOrLess:
		return p.HandCount() <= c.Count
	case CondHandEmpty:
		return p.HandCount() == 0
	case CondCharacterCountOrMore:
		return p.FieldCount() >= c.Count
	case CondCharacterCountOrLess:
		return p.FieldCount() <= c.Count
	case CondHasCharacterWithTrait:
		return e.hasCharacterWithTrait(p, c.Traits)
	case CondHasCharacterWithName:
		return e.hasCharacterWithName(p, c.Names)
	case CondLeaderHasTrait:
		return p.Leader != nil && hasAnyTrait(p.Leader.Def, c.Traits)
	case CondLeaderIs:
		return p.Leader != nil && containsStr(c.Names, p.Leader.Def.Name)
	case CondTrashCountOrMore:
		return p.TrashCount() >= c.Count
	case CondIsRested:
		return ctx.Source != nil && ctx.Source.State == StateRested
	case CondIsActive:
		return ctx.Source != nil && ctx.Source.State == StateActive
	case CondYourTurn:
		return gs.ActivePlayer == ctx.SourcePlayer
	case CondOpponentTurn:
		return gs.ActivePlayer != ctx.SourcePlayer
	default:
		return false
	}
}

// scopedPlayer resolves which player's state a condition's Scope refers to.
func (e *ConditionEvaluator) scopedPlayer(ctx *Context, scope Scope) int {
	if scope == ScopeOpponent {
		return ctx.opponent()
	}
	return ctx.SourcePlayer
}

// attachedDonCount counts DON currently attached to the card with the given
// instance ID, the source-card-scoped reading §4.3 specifies for
// DonAttachedOrMore (distinct from CondDonCountOrMore's player-wide DON pool).
func (e *ConditionEvaluator) attachedDonCount(gs *GameState, cardInstanceID int) int {
	n := 0
	for pi := 0; pi < 2; pi++ {
		for _, d := range gs.Players[pi].DonField {
			if d.State == StateAttached && d.AttachedTo == cardInstanceID {
				n++
			}
		}
	}
	return n
}

func (e *ConditionEvaluator) hasCharacterWithTrait(p *PlayerState, traits []string) bool {
	for _, c := range p.Field {
		if hasAnyTrait(c.Def, traits) {
			return true
		}
	}
	return false
}

func (e *ConditionEvaluator) hasCharacterWithName(p *PlayerState, names []string) bool {
	for _, c := range p.Field {
		if containsStr(names, c.Def.Name) {
			return true
		}
	}
	return false
}

func hasAnyTrait(def *CardDefinition, traits []string) bool {
	for _, t := range traits {
		if def.HasTrait(t) {
			return true
		}
	}
	return false
}

func containsStr(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
