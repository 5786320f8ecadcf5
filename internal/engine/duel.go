package engine

import (
	"context"
	"fmt"
)

// PlayerAction is one action a PlayerController may choose during a phase
// that accepts player decisions (§4.8).
type PlayerActionKind int

const (
	ActionPlayCardFromHand PlayerActionKind = iota
	ActionAttachDonToCharacter
	ActionActivateMainAbility
	ActionDeclareAttack
	ActionDeclareBlock
	ActionUseCounter
	ActionPassPriority
	ActionEnterCombat
	ActionEndTurn
)

// PlayerAction is a concrete choice offered to a controller.
type PlayerAction struct {
	Kind       PlayerActionKind
	CardID     int // the hand/field card this action concerns, 0 if none
	TargetID   int // attack target, ability target, etc.
	EffectID   string
}

// PlayerController is the interface both human (web/netplay) and AI (mcp)
// players implement to drive a Duel (§5).
type PlayerController interface {
	// ChooseAction presents the legal actions for the current decision point
	// and waits for the player to pick one.
	ChooseAction(ctx context.Context, state *GameState, actions []PlayerAction) (PlayerAction, error)

	// ChooseCards asks the player to select cards from a list (cost payment,
	// targets the orchestrator could not auto-resolve).
	ChooseCards(ctx context.Context, state *GameState, prompt string, candidates []*GameCard, min, max int) ([]*GameCard, error)

	// ChooseYesNo asks a yes/no question (optional trigger activation).
	ChooseYesNo(ctx context.Context, state *GameState, prompt string) (bool, error)

	// Notify delivers a StateChange to the player's client, no response needed.
	Notify(ctx context.Context, change StateChange) error
}

// DuelConfig configures a new match.
type DuelConfig struct {
	Deck0, Deck1   []*CardDefinition
	Leader0        *CardDefinition
	Leader1        *CardDefinition
	Seed           int64
	NoShuffle      bool // deterministic test mode
	MaxTurns       int
	OnStateChange  func(StateChange)
}

// Duel drives an entire match between two PlayerControllers (§4.8, §5).
type Duel struct {
	State        *GameState
	Orchestrator *Orchestrator
	Controllers  [2]PlayerController
	RNG          *DeterministicRNG

	ctx          context.Context
	maxTurns     int
	noShuffle    bool
	onChange     func(StateChange)
}

// NewDuel builds a Duel from cfg, seating both players and shuffling decks.
func NewDuel(cfg DuelConfig, p0, p1 PlayerController) *Duel {
	gs := NewGameState()
	rng := NewDeterministicRNG(cfg.Seed)

	for _, def := range cfg.Deck0 {
		c := gs.CreateGameCard(def, 0)
		c.Zone = ZoneDeck
		gs.Players[0].Deck = append(gs.Players[0].Deck, c)
	}
	for _, def := range cfg.Deck1 {
		c := gs.CreateGameCard(def, 1)
		c.Zone = ZoneDeck
		gs.Players[1].Deck = append(gs.Players[1].Deck, c)
	}
	if cfg.Leader0 != nil {
		l := gs.CreateGameCard(cfg.Leader0, 0)
		l.Zone = ZoneLeader
		gs.Players[0].Leader = l
	}
	if cfg.Leader1 != nil {
		l := gs.CreateGameCard(cfg.Leader1, 1)
		l.Zone = ZoneLeader
		gs.Players[1].Leader = l
	}

	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = 200
	}
	onChange := cfg.OnStateChange
	if onChange == nil {
		onChange = func(StateChange) {}
	}

	return &Duel{
		State:        gs,
		Orchestrator: NewOrchestrator(gs),
		Controllers:  [2]PlayerController{p0, p1},
		RNG:          rng,
		ctx:          context.Background(),
		maxTurns:     maxTurns,
		noShuffle:    cfg.NoShuffle,
		onChange:     onChange,
	}
}

// Run executes the full match loop until a winner is decided, the turn limit
// is hit, or ctx is cancelled.
func (d *Duel) Run(ctx context.Context) (int, error) {
	d.ctx = ctx
	gs := d.State

	if err := d.setup(); err != nil {
		return -1, err
	}

	for !gs.CheckWinCondition() {
		if gs.Turn >= d.maxTurns {
			gs.SetWinner(-1)
			break
		}
		if err := d.runTurn(); err != nil {
			return -1, err
		}
		if err := ctx.Err(); err != nil {
			return -1, NewEngineError(ErrAborted, "match cancelled", err)
		}
	}

	winner := -1
	if gs.Winner != nil {
		winner = *gs.Winner
	}
	return winner, nil
}

func (d *Duel) setup() error {
	gs := d.State
	if !d.noShuffle {
		d.RNG.ShuffleDeck(gs.Players[0])
		d.RNG.ShuffleDeck(gs.Players[1])
	}
	for i := 0; i < InitialHandSize; i++ {
		for p := 0; p < 2; p++ {
			if gs.Players[p].DrawCard() == nil {
				return NewEngineError(ErrInternal, fmt.Sprintf("player %d has insufficient cards for initial hand", p), nil)
			}
		}
	}
	for p := 0; p < 2; p++ {
		for i := 0; i < 5 && len(gs.Players[p].Deck) > 0; i++ {
			card := gs.Players[p].Deck[0]
			gs.Players[p].Deck = gs.Players[p].Deck[1:]
			card.Zone = ZoneLife
			gs.Players[p].LifeCards = append(gs.Players[p].LifeCards, card)
		}
		gs.Players[p].Life = len(gs.Players[p].LifeCards)
	}
	return nil
}

func (d *Duel) runTurn() error {
	gs := d.State
	gs.Turn++
	gs.ActivePlayer = gs.Opponent(gs.ActivePlayer)
	if gs.Turn <= 1 {
		gs.ActivePlayer = 0
	}
	gs.ResetTurnFlags()
	NewBuffTracker(gs).PruneEndOfTurn()

	d.emit(StateChange{Kind: ChangeEffectApplied, PlayerID: gs.ActivePlayer, Detail: "StartOfTurn"})
	d.fireEvent(&Event{Kind: EventStartOfTurn, PlayerID: gs.ActivePlayer})

	d.refreshPhase()
	d.drawPhase()
	if gs.CheckWinCondition() {
		return nil
	}
	d.donPhase()
	if err := d.mainPhase(); err != nil {
		return err
	}
	if gs.CheckWinCondition() {
		return nil
	}
	if err := d.combatPhase(); err != nil {
		return err
	}
	if gs.CheckWinCondition() {
		return nil
	}
	d.endPhase()
	return nil
}

func (d *Duel) refreshPhase() {
	gs := d.State
	gs.Phase = PhaseRefresh
	p := gs.Players[gs.ActivePlayer]
	if p.Leader != nil {
		p.Leader.State = StateActive
	}
	for _, c := range p.Field {
		if c.TransientKeywords["frozen"] {
			delete(c.TransientKeywords, "frozen")
			continue
		}
		c.State = StateActive
	}
	for _, don := range p.DonField {
		don.State = StateActive
		don.AttachedTo = 0
	}
}

func (d *Duel) drawPhase() {
	gs := d.State
	gs.Phase = PhaseDraw
	if gs.Turn == 1 {
		return // first player skips the draw on turn one, per the standard opening rule
	}
	p := gs.Players[gs.ActivePlayer]
	card := p.DrawCard()
	if card == nil {
		gs.SetWinner(gs.Opponent(gs.ActivePlayer))
		return
	}
	d.fireEvent(&Event{Kind: EventCardDrawn, CardID: card.InstanceID, PlayerID: gs.ActivePlayer})
}

func (d *Duel) donPhase() {
	gs := d.State
	gs.Phase = PhaseDon
	p := gs.Players[gs.ActivePlayer]
	count := DonPerTurn
	if gs.Turn == 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		don := gs.CreateGameCard(donDefinition, gs.ActivePlayer)
		don.Zone = ZoneDonField
		don.State = StateActive
		p.DonField = append(p.DonField, don)
	}
}

func (d *Duel) mainPhase() error {
	gs := d.State
	gs.Phase = PhaseMain
	ap := gs.ActivePlayer
	for !gs.CheckWinCondition() {
		actions := d.legalMainActions(ap)
		chosen, err := d.Controllers[ap].ChooseAction(d.ctx, gs, actions)
		if err != nil {
			return err
		}
		switch chosen.Kind {
		case ActionEnterCombat:
			return nil
		case ActionEndTurn:
			gs.Phase = PhaseEnd
			return nil
		case ActionPlayCardFromHand:
			d.playFromHand(ap, chosen.CardID)
		case ActionAttachDonToCharacter:
			d.attachDon(ap, chosen.TargetID, 1)
		case ActionActivateMainAbility:
			d.activateMainAbility(ap, chosen.CardID)
		}
	}
	return nil
}

func (d *Duel) legalMainActions(player int) []PlayerAction {
	p := d.State.Players[player]
	actions := []PlayerAction{{Kind: ActionEnterCombat}, {Kind: ActionEndTurn}}
	for _, c := range p.Hand {
		actions = append(actions, PlayerAction{Kind: ActionPlayCardFromHand, CardID: c.InstanceID})
	}
	for _, c := range p.Field {
		if p.ActiveDonCount() > 0 {
			actions = append(actions, PlayerAction{Kind: ActionAttachDonToCharacter, TargetID: c.InstanceID})
		}
	}
	if p.Leader != nil && p.ActiveDonCount() > 0 {
		actions = append(actions, PlayerAction{Kind: ActionAttachDonToCharacter, TargetID: p.Leader.InstanceID})
	}
	for _, c := range d.activatableAbilitySources(p) {
		actions = append(actions, PlayerAction{Kind: ActionActivateMainAbility, CardID: c.InstanceID})
	}
	return actions
}

// activatableAbilitySources returns field/stage cards carrying an Activate:
// Main ability that are currently Active (the ability's own RestSelf cost,
// if any, is what actually prevents reactivation within the same turn).
func (d *Duel) activatableAbilitySources(p *PlayerState) []*GameCard {
	var out []*GameCard
	candidates := append(append([]*GameCard{}, p.Field...), nonNil(p.Stage)...)
	for _, c := range candidates {
		if c.State != StateActive {
			continue
		}
		for _, eff := range c.Def.Effects {
			if eff.Trigger == TriggerActivateMain {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (d *Duel) playFromHand(player int, cardID int) {
	gs := d.State
	p := gs.Players[player]
	card := p.RemoveFromHand(cardID)
	if card == nil {
		return
	}
	switch card.Def.Kind {
	case KindCharacter:
		if !p.FreeFieldSlot() {
			p.Hand = append(p.Hand, card) // no room: the play is simply unavailable
			return
		}
		card.Zone = ZoneField
		card.State = StateActive
		card.TurnPlayed = gs.Turn
		card.Controller = player
		card.HasAttacked = false
		p.Field = append(p.Field, card)
	case KindStage:
		card.Zone = ZoneStage
		p.Stage = card
	default: // Event
		// The Trigger Dispatcher scans hands, not the trash, so the Event's own
		// Main effect is dispatched while the card is still in hand; the card
		// is trashed once that resolution returns.
		p.Hand = append(p.Hand, card)
		d.fireEvent(&Event{Kind: EventCardPlayed, CardID: cardID, PlayerID: player})
		if p.RemoveFromHand(cardID) == nil {
			return
		}
		card.Zone = ZoneTrash
		p.Trash = append(p.Trash, card)
		d.emit(StateChange{Kind: ChangeCardMoved, CardID: cardID, PlayerID: player, FromZone: ZoneHand, ToZone: ZoneTrash})
		return
	}
	d.emit(StateChange{Kind: ChangeCardMoved, CardID: cardID, PlayerID: player, FromZone: ZoneHand, ToZone: card.Zone})
	d.fireEvent(&Event{Kind: EventCardPlayed, CardID: cardID, PlayerID: player})
}

func (d *Duel) attachDon(player, targetID, count int) {
	gs := d.State
	p := gs.Players[player]
	attached := 0
	for _, don := range p.DonField {
		if attached >= count {
			break
		}
		if don.State == StateActive {
			don.State = StateAttached
			don.AttachedTo = targetID
			attached++
		}
	}
	if attached > 0 {
		d.emit(StateChange{Kind: ChangeDonChanged, CardID: targetID, PlayerID: player, Amount: attached, Detail: "AttachDon"})
		d.fireEvent(&Event{Kind: EventDonAttached, CardID: targetID, PlayerID: player, Value: attached})
	}
}

func (d *Duel) activateMainAbility(player, cardID int) {
	card, _ := d.State.FindCard(cardID)
	if card == nil {
		return
	}
	changes, err := d.Orchestrator.ActivateMain(card, player)
	for _, c := range changes {
		d.emit(c)
	}
	if err != nil {
		d.emit(StateChange{Kind: ChangeMatchAborted, Detail: err.Error()})
	}
}

func (d *Duel) endPhase() {
	gs := d.State
	gs.Phase = PhaseEnd
	d.fireEvent(&Event{Kind: EventEndOfTurn, PlayerID: gs.ActivePlayer})
	NewBuffTracker(gs).PruneEndOfTurn()
}

// fireEvent routes an Event through the orchestrator and streams resulting
// StateChanges to both controllers. If the orchestrator pauses for player
// input it cannot resolve itself, the caller is expected to service the
// ChoicePrompt via Orchestrator.Resume before continuing the duel loop —
// the happy-path turn loop above assumes scripted test decks never trigger
// an ambiguous choice outside of explicit player decision points.
func (d *Duel) fireEvent(ev *Event) {
	changes, err := d.Orchestrator.HandleEvent(ev)
	for _, c := range changes {
		d.emit(c)
	}
	if err != nil {
		d.emit(StateChange{Kind: ChangeMatchAborted, Detail: err.Error()})
	}
}

func (d *Duel) emit(c StateChange) {
	d.onChange(c)
	for i := 0; i < 2; i++ {
		_ = d.Controllers[i].Notify(d.ctx, c)
	}
}
