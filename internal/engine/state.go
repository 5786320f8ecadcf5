package engine

const (
	StartingLife       = 5
	InitialHandSize    = 5
	MaxFieldSize       = 5
	DonPerTurn         = 2
	LeaderDonAttach    = 2
	CharacterDonAttach = 1
)

// PlayerState is one player's complete zone set (§3).
type PlayerState struct {
	ID     int
	Life   int
	Leader *GameCard
	Stage  *GameCard

	Hand  []*GameCard
	Field []*GameCard // ordered, up to MaxFieldSize
	Deck  []*GameCard // position 0 = top
	Trash []*GameCard

	LifeCards []*GameCard // face-down, ordered; top is index 0

	DonDeckCount int
	DonField     []*GameCard // ordered DON resource cards

	// OncePerTurn bookkeeping: set of "effectID@sourceInstanceID" resolved this turn.
	resolvedOncePerTurn map[string]bool
}

func newPlayerState(id int) *PlayerState {
	return &PlayerState{
		ID:                  id,
		Life:                StartingLife,
		resolvedOncePerTurn: map[string]bool{},
	}
}

// HandCount returns the number of cards in hand.
func (p *PlayerState) HandCount() int { return len(p.Hand) }

// DeckCount returns the number of cards remaining in the deck.
func (p *PlayerState) DeckCount() int { return len(p.Deck) }

// TrashCount returns the number of cards in the trash.
func (p *PlayerState) TrashCount() int { return len(p.Trash) }

// FieldCount returns the number of characters on the field.
func (p *PlayerState) FieldCount() int { return len(p.Field) }

// LifeCount returns the player's current life total.
func (p *PlayerState) LifeCount() int { return p.Life }

// ActiveDonCount returns the count of Active DON on this player's DON field.
func (p *PlayerState) ActiveDonCount() int {
	n := 0
	for _, d := range p.DonField {
		if d.State == StateActive {
			n++
		}
	}
	return n
}

// DonCount returns the total count of DON on this player's DON field.
func (p *PlayerState) DonCount() int { return len(p.DonField) }

// FreeFieldSlot reports whether there is room for another character.
func (p *PlayerState) FreeFieldSlot() bool { return len(p.Field) < MaxFieldSize }

// RemoveFromHand removes a card from hand by instance ID.
func (p *PlayerState) RemoveFromHand(id int) *GameCard {
	for i, c := range p.Hand {
		if c.InstanceID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

// RemoveFromField removes a character from the field by instance ID.
func (p *PlayerState) RemoveFromField(id int) *GameCard {
	for i, c := range p.Field {
		if c.InstanceID == id {
			p.Field = append(p.Field[:i], p.Field[i+1:]...)
			return c
		}
	}
	return nil
}

// RemoveFromDeck removes the card with the given instance ID, wherever it sits.
func (p *PlayerState) RemoveFromDeck(id int) *GameCard {
	for i, c := range p.Deck {
		if c.InstanceID == id {
			p.Deck = append(p.Deck[:i], p.Deck[i+1:]...)
			return c
		}
	}
	return nil
}

// RemoveFromTrash removes a card from trash by instance ID.
func (p *PlayerState) RemoveFromTrash(id int) *GameCard {
	for i, c := range p.Trash {
		if c.InstanceID == id {
			p.Trash = append(p.Trash[:i], p.Trash[i+1:]...)
			return c
		}
	}
	return nil
}

// DrawCard pops the top of the deck into hand. Returns nil on an empty deck (no-op, §4.7).
func (p *PlayerState) DrawCard() *GameCard {
	if len(p.Deck) == 0 {
		return nil
	}
	card := p.Deck[0]
	p.Deck = p.Deck[1:]
	card.Zone = ZoneHand
	p.Hand = append(p.Hand, card)
	return card
}

// FindOnField looks up a character on the field by instance ID.
func (p *PlayerState) FindOnField(id int) *GameCard {
	for _, c := range p.Field {
		if c.InstanceID == id {
			return c
		}
	}
	return nil
}

// Characters returns all characters (Field only — Leader is separate).
func (p *PlayerState) Characters() []*GameCard { return p.Field }

// --- Combat context (§3) ---

// Combat holds the transient state of one attack/block resolution.
type Combat struct {
	ID              int
	AttackerID      int
	TargetID        int // leader or character instance id being attacked
	TargetIsLeader  bool
	BlockerID       int // 0 if no block declared
	EffectBuffTotal int // accumulator for BuffCombat effects this combat
}

// GameState is the mutable per-match data model (§3).
type GameState struct {
	Players      [2]*PlayerState
	Turn         int
	ActivePlayer int
	Phase        Phase
	Combat       *Combat
	Winner       *int // nil = undecided

	nextInstanceID int
	nextCombatID   int
}

// NewGameState allocates a fresh, empty two-player state.
func NewGameState() *GameState {
	return &GameState{
		Players: [2]*PlayerState{newPlayerState(0), newPlayerState(1)},
		Phase:   PhaseRefresh,
	}
}

// Opponent returns the other player's index.
func (gs *GameState) Opponent(player int) int { return 1 - player }

// NextInstanceID mints a unique GameCard instance id.
func (gs *GameState) NextInstanceID() int {
	gs.nextInstanceID++
	return gs.nextInstanceID
}

// NextCombatID mints a unique combat identifier.
func (gs *GameState) NextCombatID() int {
	gs.nextCombatID++
	return gs.nextCombatID
}

// CreateGameCard instantiates a GameCard from a definition for the given owner.
func (gs *GameState) CreateGameCard(def *CardDefinition, owner int) *GameCard {
	return newGameCard(gs.NextInstanceID(), def, owner)
}

// FindCard locates a GameCard anywhere in either player's zones by instance ID.
func (gs *GameState) FindCard(id int) (*GameCard, int) {
	for pi := 0; pi < 2; pi++ {
		p := gs.Players[pi]
		if p.Leader != nil && p.Leader.InstanceID == id {
			return p.Leader, pi
		}
		if p.Stage != nil && p.Stage.InstanceID == id {
			return p.Stage, pi
		}
		for _, c := range p.Field {
			if c.InstanceID == id {
				return c, pi
			}
		}
		for _, c := range p.Hand {
			if c.InstanceID == id {
				return c, pi
			}
		}
		for _, c := range p.Trash {
			if c.InstanceID == id {
				return c, pi
			}
		}
		for _, c := range p.Deck {
			if c.InstanceID == id {
				return c, pi
			}
		}
		for _, c := range p.LifeCards {
			if c.InstanceID == id {
				return c, pi
			}
		}
		for _, c := range p.DonField {
			if c.InstanceID == id {
				return c, pi
			}
		}
	}
	return nil, -1
}

// IsOnFieldOrLeader reports whether a card currently sits in Field or Leader zone.
func (gs *GameState) IsOnFieldOrLeader(c *GameCard) bool {
	return c != nil && (c.Zone == ZoneField || c.Zone == ZoneLeader)
}

// ResetTurnFlags clears per-turn bookkeeping at the start of a new turn.
func (gs *GameState) ResetTurnFlags() {
	for pi := 0; pi < 2; pi++ {
		p := gs.Players[pi]
		p.resolvedOncePerTurn = map[string]bool{}
		for _, c := range p.Field {
			c.HasAttacked = false
		}
		if p.Leader != nil {
			p.Leader.HasAttacked = false
		}
	}
}

// CheckWinCondition reports whether a winner has already been recorded.
func (gs *GameState) CheckWinCondition() bool {
	return gs.Winner != nil
}

// SetWinner records a winner (or -1 for a draw) and flips the phase marker.
func (gs *GameState) SetWinner(player int) {
	w := player
	gs.Winner = &w
	gs.Phase = PhaseGameOver
}
