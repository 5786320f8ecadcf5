package engine

import "fmt"

// combatPhase runs the attacker's declare/block/counter/damage cycle for
// every attack the active player chooses to make, then returns to Main
// Phase bookkeeping handled by the caller (§3 Combat, §4.6 combat triggers).
func (d *Duel) combatPhase() error {
	gs := d.State
	gs.Phase = PhaseCombat
	ap := gs.ActivePlayer

	for !gs.CheckWinCondition() {
		attackers := d.legalAttackers(ap)
		if len(attackers) == 0 {
			break
		}
		actions := append(attackers, PlayerAction{Kind: ActionEndTurn})
		chosen, err := d.Controllers[ap].ChooseAction(d.ctx, gs, actions)
		if err != nil {
			return err
		}
		if chosen.Kind != ActionDeclareAttack {
			break
		}
		if err := d.resolveAttack(ap, chosen.CardID, chosen.TargetID); err != nil {
			return err
		}
	}
	return nil
}

func (d *Duel) legalAttackers(player int) []PlayerAction {
	p := d.State.Players[player]
	opp := d.State.Players[d.State.Opponent(player)]
	var out []PlayerAction
	addAttacksFrom := func(c *GameCard) {
		if c.State != StateActive || c.HasAttacked || c.HasRestriction("cant_attack") {
			return
		}
		if c.TurnPlayed == d.State.Turn && !c.HasKeyword("rush") {
			return
		}
		if opp.Leader != nil {
			out = append(out, PlayerAction{Kind: ActionDeclareAttack, CardID: c.InstanceID, TargetID: opp.Leader.InstanceID})
		}
		for _, target := range opp.Field {
			if c.HasRushVsCharacters || target.State == StateRested {
				out = append(out, PlayerAction{Kind: ActionDeclareAttack, CardID: c.InstanceID, TargetID: target.InstanceID})
			}
		}
	}
	if p.Leader != nil {
		addAttacksFrom(p.Leader)
	}
	for _, c := range p.Field {
		addAttacksFrom(c)
	}
	return out
}

// resolveAttack runs one full attack: declare, block, counter, damage.
func (d *Duel) resolveAttack(attackerPlayer, attackerID, targetID int) error {
	gs := d.State
	attacker, _ := gs.FindCard(attackerID)
	if attacker == nil {
		return NewEngineError(ErrIllegalAction, fmt.Sprintf("attacker %d not found", attackerID), nil)
	}
	target, targetOwner := gs.FindCard(targetID)
	if target == nil {
		return NewEngineError(ErrIllegalAction, fmt.Sprintf("attack target %d not found", targetID), nil)
	}

	attacker.State = StateRested
	attacker.HasAttacked = true
	gs.Combat = &Combat{
		ID:             gs.NextCombatID(),
		AttackerID:     attackerID,
		TargetID:       targetID,
		TargetIsLeader: target.Def.Kind == KindLeader,
	}
	d.emit(StateChange{Kind: ChangeEffectApplied, CardID: attackerID, PlayerID: attackerPlayer, Detail: "AttackDeclared"})
	d.fireEvent(&Event{Kind: EventAttackDeclared, CardID: attackerID, PlayerID: attackerPlayer, TargetID: targetID})
	d.fireEvent(&Event{Kind: EventOpponentAttackDeclared, CardID: attackerID, PlayerID: gs.Opponent(attackerPlayer), TargetID: targetID})

	defenderPlayer := targetOwner
	blockerID := d.offerBlock(defenderPlayer, attackerID)
	if blockerID != 0 {
		gs.Combat.BlockerID = blockerID
		gs.Combat.TargetID = blockerID
		gs.Combat.TargetIsLeader = false
		blocker, _ := gs.FindCard(blockerID)
		if blocker != nil {
			blocker.State = StateRested
		}
		d.emit(StateChange{Kind: ChangeEffectApplied, CardID: blockerID, PlayerID: defenderPlayer, Detail: "BlockDeclared"})
		d.fireEvent(&Event{Kind: EventBlockDeclared, CardID: blockerID, PlayerID: defenderPlayer, TargetID: attackerID})
	}

	d.fireEvent(&Event{Kind: EventCounterWindow, CardID: attackerID, PlayerID: defenderPlayer})

	d.resolveDamage(attackerPlayer, defenderPlayer)

	NewBuffTracker(gs).PruneEndOfCombat()
	gs.Combat = nil
	return nil
}

// offerBlock asks the defending player's controller whether to block with
// any active character carrying the "blocker" keyword, returning the chosen
// blocker's instance id (0 = no block).
func (d *Duel) offerBlock(defenderPlayer, attackerID int) int {
	p := d.State.Players[defenderPlayer]
	var candidates []*GameCard
	for _, c := range p.Field {
		if c.State == StateActive && c.HasKeyword("blocker") && !c.HasRestriction("cant_be_rested") {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return 0
	}
	chosen, err := d.Controllers[defenderPlayer].ChooseCards(d.ctx, d.State, "Declare a blocker?", candidates, 0, 1)
	if err != nil || len(chosen) == 0 {
		return 0
	}
	return chosen[0].InstanceID
}

func (d *Duel) resolveDamage(attackerPlayer, defenderPlayer int) {
	gs := d.State
	combat := gs.Combat
	if combat == nil {
		return
	}
	tracker := NewBuffTracker(gs)
	attacker, _ := gs.FindCard(combat.AttackerID)
	if attacker == nil {
		return
	}
	attackPower := tracker.EffectivePower(attacker)

	if combat.BlockerID != 0 {
		blocker, _ := gs.FindCard(combat.BlockerID)
		if blocker == nil {
			return
		}
		defPower := tracker.EffectivePower(blocker)
		if attackPower > defPower {
			d.koCharacter(blocker, defenderPlayer)
		} else if defPower > attackPower {
			d.koCharacter(attacker, attackerPlayer)
		}
		d.fireEvent(&Event{Kind: EventAfterBattle, CardID: combat.AttackerID, PlayerID: attackerPlayer, TargetID: combat.BlockerID})
		return
	}

	target, _ := gs.FindCard(combat.TargetID)
	if target == nil {
		return
	}
	if combat.TargetIsLeader {
		defPower := tracker.EffectivePower(target)
		if attackPower >= defPower {
			d.dealLifeDamage(defenderPlayer)
			d.fireEvent(&Event{Kind: EventLeaderHit, CardID: combat.AttackerID, PlayerID: attackerPlayer, TargetID: combat.TargetID})
		}
	} else {
		defPower := tracker.EffectivePower(target)
		if attackPower >= defPower {
			d.koCharacter(target, defenderPlayer)
		}
	}
	d.fireEvent(&Event{Kind: EventAfterBattle, CardID: combat.AttackerID, PlayerID: attackerPlayer, TargetID: combat.TargetID})
}

func (d *Duel) koCharacter(c *GameCard, owner int) {
	gs := d.State
	if c.ImmuneKOUntilTurn > gs.Turn {
		return
	}
	if replaced, repChanges := applyPreventKO(gs, c); replaced {
		for _, rc := range repChanges {
			d.emit(rc)
		}
		return
	}
	gs.Players[owner].RemoveFromField(c.InstanceID)
	NewBuffTracker(gs).PruneZoneExit(c)
	c.Zone = ZoneTrash
	gs.Players[owner].Trash = append(gs.Players[owner].Trash, c)
	d.emit(StateChange{Kind: ChangeCardDestroyed, CardID: c.InstanceID, PlayerID: owner, FromZone: ZoneField, ToZone: ZoneTrash})
	d.fireEvent(&Event{Kind: EventCharacterKod, CardID: c.InstanceID, PlayerID: owner})
}

func (d *Duel) dealLifeDamage(defenderPlayer int) {
	gs := d.State
	p := gs.Players[defenderPlayer]
	if len(p.LifeCards) == 0 {
		gs.SetWinner(gs.Opponent(defenderPlayer))
		d.emit(StateChange{Kind: ChangeCardDestroyed, PlayerID: defenderPlayer, Detail: "life reaches zero"})
		d.fireEvent(&Event{Kind: EventLifeReachesZero, PlayerID: defenderPlayer})
		return
	}
	card := p.LifeCards[0]
	p.LifeCards = p.LifeCards[1:]
	p.Life = len(p.LifeCards)
	card.Zone = ZoneHand
	p.Hand = append(p.Hand, card)
	d.emit(StateChange{Kind: ChangeLifeChanged, PlayerID: defenderPlayer, Amount: -1})
	d.fireEvent(&Event{Kind: EventLifeAddedToHand, CardID: card.InstanceID, PlayerID: defenderPlayer})
	if len(p.LifeCards) == 0 {
		gs.SetWinner(gs.Opponent(defenderPlayer))
		d.fireEvent(&Event{Kind: EventLifeReachesZero, PlayerID: defenderPlayer})
	}
}
