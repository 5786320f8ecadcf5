package engine

// TargetResolver enumerates eligible target identifiers for an Action's
// TargetSpec against a Context (§4.2).
type TargetResolver struct{}

// NewTargetResolver constructs a stateless resolver (state lives in Context).
func NewTargetResolver() *TargetResolver { return &TargetResolver{} }

// LegalTargets returns the eligible target instance ids for spec, possibly empty.
func (r *TargetResolver) LegalTargets(ctx *Context, spec TargetSpec) []int {
	candidates := r.baseCandidates(ctx, spec.Kind)
	for _, f := range spec.Filters {
		candidates = r.applyFilter(ctx, candidates, f)
	}
	ids := make([]int, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.InstanceID)
	}
	return ids
}

func (r *TargetResolver) baseCandidates(ctx *Context, kind TargetKind) []*GameCard {
	gs := ctx.State
	me := ctx.SourcePlayer
	opp := ctx.opponent()

	switch kind {
	case TargetYourCharacter:
		return gs.Players[me].Field
	case TargetOpponentCharacter:
		return gs.Players[opp].Field
	case TargetAnyCharacter:
		return append(append([]*GameCard{}, gs.Players[me].Field...), gs.Players[opp].Field...)
	case TargetYourLeader:
		return nonNil(gs.Players[me].Leader)
	case TargetOpponentLeader:
		return nonNil(gs.Players[opp].Leader)
	case TargetLeaderOrCharacterYours:
		return append(nonNil(gs.Players[me].Leader), gs.Players[me].Field...)
	case TargetLeaderOrCharacterOpponent:
		return append(nonNil(gs.Players[opp].Leader), gs.Players[opp].Field...)
	case TargetLeaderOrCharacterAny:
		out := append(nonNil(gs.Players[me].Leader), gs.Players[me].Field...)
		out = append(out, nonNil(gs.Players[opp].Leader)...)
		return append(out, gs.Players[opp].Field...)
	case TargetYourHand:
		return gs.Players[me].Hand
	case TargetYourTrash:
		return gs.Players[me].Trash
	case TargetYourDeck:
		return gs.Players[me].Deck
	case TargetYourDon:
		return gs.Players[me].DonField
	case TargetOpponentDon:
		return gs.Players[opp].DonField
	case TargetYourStage:
		return nonNil(gs.Players[me].Stage)
	case TargetOpponentStage:
		return nonNil(gs.Players[opp].Stage)
	case TargetYourLife:
		return gs.Players[me].LifeCards
	case TargetOpponentLife:
		return gs.Players[opp].LifeCards
	case TargetNone:
		return nil
	default:
		return nil
	}
}

func nonNil(c *GameCard) []*GameCard {
	if c == nil {
		return nil
	}
	return []*GameCard{c}
}

func (r *TargetResolver) applyFilter(ctx *Context, cards []*GameCard, f Filter) []*GameCard {
	out := cards[:0:0]
	tracker := NewBuffTracker(ctx.State)
	for _, c := range cards {
		if matchesFilter(ctx, tracker, c, f) {
			out = append(out, c)
		}
	}
	return out
}

func matchesFilter(ctx *Context, tracker *BuffTracker, c *GameCard, f Filter) bool {
	switch f.Property {
	case FilterCost:
		return compareInt(c.EffectiveCost(), f.Operator, resolveIntValue(ctx, f.Value))
	case FilterBasePower:
		if c.Def.BasePower == nil {
			return false
		}
		return compareInt(*c.Def.BasePower, f.Operator, resolveIntValue(ctx, f.Value))
	case FilterPower:
		return compareInt(tracker.EffectivePower(c), f.Operator, resolveIntValue(ctx, f.Value))
	case FilterColor:
		return matchesColorSet(c, f)
	case FilterTrait:
		return matchesStrSet(c.Def.Traits, f)
	case FilterType:
		return int(c.Def.Kind) == f.Value.Int
	case FilterName:
		return matchesName(c, f)
	case FilterState:
		return int(c.State) == f.Value.Int
	default:
		return false
	}
}

func matchesColorSet(c *GameCard, f Filter) bool {
	has := func(col Color) bool { return c.Def.HasColor(col) }
	switch f.Operator {
	case OpContains:
		for _, col := range f.Value.ColorSet {
			if has(col) {
				return true
			}
		}
		return false
	case OpNot:
		for _, col := range f.Value.ColorSet {
			if has(col) {
				return false
			}
		}
		return true
	case OpEquals:
		return len(f.Value.ColorSet) == 1 && has(f.Value.ColorSet[0])
	case OpNotEquals:
		return !(len(f.Value.ColorSet) == 1 && has(f.Value.ColorSet[0]))
	default:
		return false
	}
}

func matchesStrSet(have []string, f Filter) bool {
	contains := func(needle string) bool {
		for _, h := range have {
			if h == needle {
				return true
			}
		}
		return false
	}
	set := f.Value.StrSet
	if len(set) == 0 && f.Value.Str != "" {
		set = []string{f.Value.Str} // a single-value operand
	}
	switch f.Operator {
	case OpContains:
		for _, n := range set {
			if contains(n) {
				return true
			}
		}
		return false
	case OpNot:
		for _, n := range set {
			if contains(n) {
				return false
			}
		}
		return true
	case OpEquals:
		return len(set) == 1 && contains(set[0])
	case OpNotEquals:
		return !(len(set) == 1 && contains(set[0]))
	default:
		return false
	}
}

func matchesName(c *GameCard, f Filter) bool {
	switch f.Operator {
	case OpEquals:
		return c.Def.Name == f.Value.Str
	case OpNotEquals:
		return c.Def.Name != f.Value.Str
	case OpContains:
		for _, n := range f.Value.StrSet {
			if c.Def.Name == n {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func compareInt(have int, op FilterOperator, want int) bool {
	switch op {
	case OpEquals:
		return have == want
	case OpNotEquals:
		return have != want
	case OpOrLess:
		return have <= want
	case OpOrMore:
		return have >= want
	default:
		return false
	}
}

// resolveIntValue resolves a FilterValue to an integer, honoring dynamic
// symbols against the current context (§4.2, §8 "dynamic filter resolution":
// resolution happens here, at evaluation time, never at definition time).
func resolveIntValue(ctx *Context, v FilterValue) int {
	if v.Symbol == SymbolNone {
		return v.Int
	}
	gs := ctx.State
	me := gs.Players[ctx.SourcePlayer]
	opp := gs.Players[ctx.opponent()]
	switch v.Symbol {
	case SymbolDonCount:
		return me.DonCount()
	case SymbolActiveDonCount:
		return me.ActiveDonCount()
	case SymbolTrashCount:
		return me.TrashCount()
	case SymbolHandCount:
		return me.HandCount()
	case SymbolFieldCount:
		return me.FieldCount()
	case SymbolLifeCount:
		return me.LifeCount()
	case SymbolDeckCount:
		return me.DeckCount()
	case SymbolOpponentDonCount:
		return opp.DonCount()
	case SymbolOpponentActiveDonCount:
		return opp.ActiveDonCount()
	case SymbolOpponentTrashCount:
		return opp.TrashCount()
	case SymbolOpponentHandCount:
		return opp.HandCount()
	case SymbolOpponentFieldCount:
		return opp.FieldCount()
	case SymbolOpponentLifeCount:
		return opp.LifeCount()
	case SymbolOpponentDeckCount:
		return opp.DeckCount()
	default:
		return 0
	}
}
