package engine

// BuffTracker is the sole authority for reading effective power and for
// pruning expired Power Buffs (§4.5). Combat and effect evaluation must call
// through EffectivePower, never sum card.Buffs directly.
type BuffTracker struct {
	gs   *GameState
	cond *ConditionEvaluator
}

// NewBuffTracker binds a tracker to a game state.
func NewBuffTracker(gs *GameState) *BuffTracker {
	return &BuffTracker{gs: gs, cond: NewConditionEvaluator()}
}

// EffectivePower computes base power + active buff deltas + 1000 per attached
// DON + currently-satisfied Passive conditional grants (§4.5, §9). Base power
// absence (Events, Stages) returns 0.
func (t *BuffTracker) EffectivePower(c *GameCard) int {
	if c.Def.BasePower == nil {
		return 0
	}
	power := *c.Def.BasePower
	for _, b := range c.Buffs {
		if t.isActive(b) {
			power += b.Delta
		}
	}
	power += 1000 * t.attachedDonCount(c)
	power += t.passiveDelta(c)
	if power < 0 {
		power = 0
	}
	return power
}

// passiveDelta evaluates every TriggerPassive EffectDefinition on c on demand
// and sums the power grant of those whose conditions currently hold. Per §9,
// passives are queries, not queued resolutions: nothing ever enqueues a
// Pending Effect for TriggerPassive, so this is the only place they resolve.
func (t *BuffTracker) passiveDelta(c *GameCard) int {
	if c.Zone != ZoneField && c.Zone != ZoneLeader {
		return 0
	}
	delta := 0
	ctx := &Context{State: t.gs, Source: c, SourcePlayer: c.Owner}
	for _, eff := range c.Def.Effects {
		if eff.Trigger != TriggerPassive {
			continue
		}
		if !t.cond.AllSatisfied(ctx, eff.Conditions) {
			continue
		}
		for _, a := range eff.Actions {
			delta += passiveActionDelta(a)
		}
	}
	return delta
}

// passiveActionDelta reads the power-grant magnitude of a Passive effect's
// action without going through the Action Resolver — Passive grants are
// read-only queries against the card's own power, never state mutations.
func passiveActionDelta(a *Action) int {
	switch a.Kind {
	case ActionBuffSelf, ActionBuffPower:
		return a.Params.Amount
	case ActionDebuffPower:
		return -a.Params.Amount
	default:
		return 0
	}
}

// attachedDonCount counts DON cards currently attached to c.
func (t *BuffTracker) attachedDonCount(c *GameCard) int {
	n := 0
	for pi := 0; pi < 2; pi++ {
		for _, d := range t.gs.Players[pi].DonField {
			if d.State == StateAttached && d.AttachedTo == c.InstanceID {
				n++
			}
		}
	}
	return n
}

// isActive reports whether a single buff currently counts toward power (§4.5).
func (t *BuffTracker) isActive(b *PowerBuff) bool {
	switch b.Duration {
	case DurationPermanent:
		return true
	case DurationThisTurn:
		return b.AppliedTurn == t.gs.Turn
	case DurationThisBattle:
		return t.gs.Combat != nil && t.gs.Combat.ID == b.CombatID
	default:
		return false
	}
}

// AddBuff installs a new Power Buff on c.
func (t *BuffTracker) AddBuff(c *GameCard, delta int, duration BuffDuration, sourceID int) *PowerBuff {
	b := &PowerBuff{
		SourceID:    sourceID,
		Delta:       delta,
		Duration:    duration,
		AppliedTurn: t.gs.Turn,
	}
	if duration == DurationThisBattle && t.gs.Combat != nil {
		b.CombatID = t.gs.Combat.ID
	}
	c.Buffs = append(c.Buffs, b)
	return b
}

// PruneEndOfTurn drops every ThisTurn buff on both players' leaders and field
// characters; cards in other zones are not visited.
func (t *BuffTracker) PruneEndOfTurn() {
	for pi := 0; pi < 2; pi++ {
		p := t.gs.Players[pi]
		for _, c := range allCardsInPlay(p) {
			c.Buffs = filterBuffs(c.Buffs, func(b *PowerBuff) bool {
				return b.Duration != DurationThisTurn
			})
			clearTransientKeywords(c)
		}
	}
}

// PruneEndOfCombat drops every ThisBattle buff tied to the current combat.
func (t *BuffTracker) PruneEndOfCombat() {
	if t.gs.Combat == nil {
		return
	}
	combatID := t.gs.Combat.ID
	for pi := 0; pi < 2; pi++ {
		p := t.gs.Players[pi]
		for _, c := range allCardsInPlay(p) {
			c.Buffs = filterBuffs(c.Buffs, func(b *PowerBuff) bool {
				return !(b.Duration == DurationThisBattle && b.CombatID == combatID)
			})
			clearTransientKeywords(c)
		}
	}
}

// PruneZoneExit drops every buff on a card as it leaves Field/Leader (§4.5, §8).
func (t *BuffTracker) PruneZoneExit(c *GameCard) {
	c.Buffs = nil
	c.TransientKeywords = map[string]bool{}
	c.Restrictions = nil
	c.Immunities = nil
	c.PreventKOBy = nil
	c.ImmuneKOUntilTurn = 0
	c.HasRushVsCharacters = false
}

func filterBuffs(buffs []*PowerBuff, keep func(*PowerBuff) bool) []*PowerBuff {
	out := buffs[:0]
	for _, b := range buffs {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// clearTransientKeywords wipes granted keywords at a turn/combat boundary,
// except "frozen" — that tag must survive until the owner's next Refresh
// phase actually reads and consumes it (refreshPhase in duel.go), which can
// fall after one or more PruneEndOfTurn/PruneEndOfCombat calls.
func clearTransientKeywords(c *GameCard) {
	frozen := c.TransientKeywords["frozen"]
	c.TransientKeywords = map[string]bool{}
	if frozen {
		c.TransientKeywords["frozen"] = true
	}
}

func allCardsInPlay(p *PlayerState) []*GameCard {
	out := make([]*GameCard, 0, len(p.Field)+1)
	if p.Leader != nil {
		out = append(out, p.Leader)
	}
	out = append(out, p.Field...)
	return out
}
