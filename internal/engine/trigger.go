package engine

import "sort"

// triggersForEvent maps a fired EventKind to the TriggerKinds that listen
// for it. Scoping qualifiers (YourTurn, OpponentTurn, Mandatory, Immediate,
// OncePerTurn) aren't listed here, so an effect whose Trigger is one of them
// is never matched; once a base match is found the dispatcher applies the
// candidate EffectDefinition's OncePerTurn flag.
var triggersForEvent = map[EventKind][]TriggerKind{
	EventCardPlayed:               {TriggerOnPlay, TriggerOnPlayFromTrigger, TriggerDeployedFromHand, TriggerCardDrawn, TriggerMain},
	EventAttackDeclared:           {TriggerOnAttack},
	EventBlockDeclared:            {TriggerOnBlock},
	EventCounterWindow:            {TriggerCounter},
	EventAfterBattle:              {TriggerAfterBattle},
	EventDonAttached:              {TriggerAttachDon, TriggerDonX},
	EventDonTapped:                {TriggerDonTap},
	EventDonReturned:              {TriggerDonReturned},
	EventCharacterKod:             {TriggerOnKo, TriggerAfterKoCharacter, TriggerAnyCharacterKod, TriggerOpponentCharacterKod, TriggerKoAlly},
	EventPreKo:                    {TriggerPreKo},
	EventLifeAddedToHand:          {TriggerLifeTrigger, TriggerLifeAddedToHand},
	EventLifeReachesZero:          {TriggerLifeReachesZero},
	EventLeaderHit:                {TriggerHitLeader, TriggerAnyHitLeader},
	EventEndOfTurn:                {TriggerEndOfTurn},
	EventStartOfTurn:              {TriggerStartOfTurn},
	EventOpponentAttackDeclared:   {TriggerOpponentAttack},
	EventOpponentEventPlayed:      {TriggerOpponentPlaysEvent},
	EventOpponentDeployed:         {TriggerOpponentDeploys},
	EventOpponentActivatesBlocker: {TriggerOpponentActivatesBlocker},
	EventTrashed:                  {TriggerTrashX, TriggerTrashSelf, TriggerTrashAlly},
	EventCardDrawn:                {TriggerCardDrawn},
	EventPhaseChange:              nil,
}

// Candidate is one EffectDefinition matched to a firing Event, paired with
// the card and player it belongs to.
type Candidate struct {
	Effect *EffectDefinition
	Source *GameCard
	Player int
}

// TriggerDispatcher scans the registry-backed set of cards in play (plus
// hand, for triggers like OnPlay that fire before a card occupies a board
// zone) for EffectDefinitions whose trigger matches a fired Event (§4.6).
type TriggerDispatcher struct {
	gs *GameState
}

// NewTriggerDispatcher binds a dispatcher to a game state.
func NewTriggerDispatcher(gs *GameState) *TriggerDispatcher { return &TriggerDispatcher{gs: gs} }

// Dispatch returns every matching candidate for ev, ordered per §4.6 priority:
// mandatory triggers before optional, then active-player-owned before
// opponent-owned, stable within each bucket.
func (d *TriggerDispatcher) Dispatch(ev *Event) []Candidate {
	wanted := triggersForEvent[ev.Kind]
	if len(wanted) == 0 {
		return nil
	}
	var out []Candidate
	for pi := 0; pi < 2; pi++ {
		p := d.gs.Players[pi]
		for _, c := range d.ownedTriggerSources(p) {
			for _, eff := range c.Def.Effects {
				if !d.matchesTrigger(eff.Trigger, wanted) {
					continue
				}
				if !d.scopeMatches(eff, pi, c, ev) {
					continue
				}
				if eff.OncePerTurn && p.resolvedOncePerTurn[onceKey(eff, c)] {
					continue
				}
				out = append(out, Candidate{Effect: eff, Source: c, Player: pi})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := !out[i].Effect.Optional, !out[j].Effect.Optional
		if mi != mj {
			return mi // mandatory sorts first
		}
		activeI := out[i].Player == d.gs.ActivePlayer
		activeJ := out[j].Player == d.gs.ActivePlayer
		return activeI && !activeJ
	})
	return out
}

// ownedTriggerSources returns every card whose Effects could plausibly fire:
// leader, field, and stage (always "in play"), plus hand (OnPlay resolves
// from the card that was just played, before it necessarily lands on a
// persistent zone).
func (d *TriggerDispatcher) ownedTriggerSources(p *PlayerState) []*GameCard {
	out := allCardsInPlay(p)
	if p.Stage != nil {
		out = append(out, p.Stage)
	}
	out = append(out, p.Hand...)
	return out
}

func (d *TriggerDispatcher) matchesTrigger(have TriggerKind, wanted []TriggerKind) bool {
	for _, w := range wanted {
		if have == w {
			return true
		}
	}
	return false
}

// scopeMatches applies the qualifier triggers (YourTurn/OpponentTurn) and
// basic event-card identity checks. Most per-card triggers only fire for the
// specific card the event is about — without this an OnPlay effect sitting on
// the field would refire every time any other card in the game gets played.
func (d *TriggerDispatcher) scopeMatches(eff *EffectDefinition, owner int, source *GameCard, ev *Event) bool {
	switch eff.Trigger {
	case TriggerYourTurn:
		return owner == d.gs.ActivePlayer
	case TriggerOpponentTurn:
		return owner != d.gs.ActivePlayer
	case TriggerTrashSelf, TriggerOnPlay, TriggerOnPlayFromTrigger, TriggerDeployedFromHand,
		TriggerOnAttack, TriggerOnBlock, TriggerOnKo, TriggerPreKo, TriggerAfterKoCharacter,
		TriggerAttachDon, TriggerDonX, TriggerDonTap, TriggerDonReturned, TriggerMain:
		return ev.CardID == source.InstanceID
	case TriggerAnyCharacterKod, TriggerKoAlly:
		return owner == ev.PlayerID
	case TriggerOpponentCharacterKod:
		return owner != ev.PlayerID
	case TriggerHitLeader:
		_, hitOwner := d.gs.FindCard(ev.TargetID)
		return owner == hitOwner
	}
	return true
}

func onceKey(eff *EffectDefinition, source *GameCard) string {
	return eff.ID + "@" + itoa(source.InstanceID)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
