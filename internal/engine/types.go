package engine

import "fmt"

// --- Card kind / zones / state ---

// CardKind is the static type printed on a card.
type CardKind int

const (
	KindLeader CardKind = iota
	KindCharacter
	KindEvent
	KindStage
)

func (k CardKind) String() string {
	switch k {
	case KindLeader:
		return "Leader"
	case KindCharacter:
		return "Character"
	case KindEvent:
		return "Event"
	case KindStage:
		return "Stage"
	default:
		return "Unknown"
	}
}

// Color is one of the game's card colors. Cards may carry more than one.
type Color int

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
	ColorPurple
	ColorBlack
	ColorYellow
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "Red"
	case ColorGreen:
		return "Green"
	case ColorBlue:
		return "Blue"
	case ColorPurple:
		return "Purple"
	case ColorBlack:
		return "Black"
	case ColorYellow:
		return "Yellow"
	default:
		return "Unknown"
	}
}

// Zone is where a GameCard currently lives.
type Zone int

const (
	ZoneDeck Zone = iota
	ZoneHand
	ZoneField
	ZoneLeader
	ZoneStage
	ZoneTrash
	ZoneLife
	ZoneDonField
)

func (z Zone) String() string {
	switch z {
	case ZoneDeck:
		return "Deck"
	case ZoneHand:
		return "Hand"
	case ZoneField:
		return "Field"
	case ZoneLeader:
		return "Leader"
	case ZoneStage:
		return "Stage"
	case ZoneTrash:
		return "Trash"
	case ZoneLife:
		return "Life"
	case ZoneDonField:
		return "DonField"
	default:
		return "Unknown"
	}
}

// CardState is the Active/Rested/Attached state of a card in play.
type CardState int

const (
	StateActive CardState = iota
	StateRested
	StateAttached
)

func (s CardState) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateRested:
		return "Rested"
	case StateAttached:
		return "Attached"
	default:
		return "Unknown"
	}
}

// Phase is the current step of a turn.
type Phase int

const (
	PhaseRefresh Phase = iota
	PhaseDraw
	PhaseDon
	PhaseMain
	PhaseCombat
	PhaseEnd
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseRefresh:
		return "Refresh Phase"
	case PhaseDraw:
		return "Draw Phase"
	case PhaseDon:
		return "DON!! Phase"
	case PhaseMain:
		return "Main Phase"
	case PhaseCombat:
		return "Combat Phase"
	case PhaseEnd:
		return "End Phase"
	case PhaseGameOver:
		return "Game Over"
	default:
		return "Unknown"
	}
}

// BuffDuration controls when a Power Buff expires.
type BuffDuration int

const (
	DurationThisTurn BuffDuration = iota
	DurationThisBattle
	DurationPermanent
)

func (d BuffDuration) String() string {
	switch d {
	case DurationThisTurn:
		return "ThisTurn"
	case DurationThisBattle:
		return "ThisBattle"
	case DurationPermanent:
		return "Permanent"
	default:
		return "Unknown"
	}
}

// --- Card Definition (immutable, §3) ---

// CardDefinition is the static, immutable catalog entry for one card identifier.
type CardDefinition struct {
	ID        string
	Name      string
	Kind      CardKind
	Colors    []Color
	Cost      *int // nil when the kind has no cost (Leader, costless Stage)
	BasePower *int
	Counter   *int
	Traits    []string
	Keywords  []string
	Effects   []*EffectDefinition
}

func (c *CardDefinition) String() string {
	return c.Name
}

// HasTrait reports whether the definition carries the given trait.
func (c *CardDefinition) HasTrait(trait string) bool {
	for _, t := range c.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// HasKeyword reports whether the definition carries the given base keyword.
func (c *CardDefinition) HasKeyword(kw string) bool {
	for _, k := range c.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// HasColor reports whether the definition carries the given color.
func (c *CardDefinition) HasColor(col Color) bool {
	for _, cc := range c.Colors {
		if cc == col {
			return true
		}
	}
	return false
}

// --- Power Buff (§3) ---

// PowerBuff is a single timed power modifier attached to a GameCard.
type PowerBuff struct {
	ID          int
	SourceID    int
	Delta       int
	Duration    BuffDuration
	AppliedTurn int
	CombatID    int // valid only when Duration == DurationThisBattle
}

// --- GameCard (mutable, §3) ---

// GameCard is one physical card instance tracked for the lifetime of a match.
type GameCard struct {
	InstanceID int
	DefID      string
	Def        *CardDefinition

	Zone       Zone
	State      CardState
	Owner      int
	Controller int

	AttachedTo  int // instance id of the character this DON is attached to, 0 if none
	TurnPlayed  int
	HasAttacked bool

	Keywords          map[string]bool // persistent keyword grants
	TransientKeywords map[string]bool // cleared at combat/turn boundary per the granting action

	Restrictions []string // e.g. "cant_attack", "cant_be_blocked", "cant_be_rested"
	Immunities   []string // e.g. "effects", "combat" (KO immunity uses ImmuneKOUntilTurn)

	ModifiedCost *int // cost-modifier override, nil = use Def.Cost

	Buffs []*PowerBuff

	HasRushVsCharacters bool

	// PreventKOBy holds instance ids of protecting source cards, in install order.
	// On KO, the last (most recently installed) entry is consumed instead of the target.
	PreventKOBy []int

	// ImmuneKOUntilTurn is the turn number immunity to KO expires, 0 = not set.
	ImmuneKOUntilTurn int
}

func newGameCard(id int, def *CardDefinition, owner int) *GameCard {
	return &GameCard{
		InstanceID:        id,
		DefID:             def.ID,
		Def:               def,
		Owner:             owner,
		Controller:        owner,
		Zone:              ZoneDeck,
		State:             StateActive,
		Keywords:          map[string]bool{},
		TransientKeywords: map[string]bool{},
	}
}

func (c *GameCard) String() string {
	if c == nil {
		return "(none)"
	}
	return fmt.Sprintf("%s#%d", c.Def.Name, c.InstanceID)
}

// HasKeyword reports a base OR granted keyword, persistent or transient.
func (c *GameCard) HasKeyword(kw string) bool {
	if c.Def.HasKeyword(kw) {
		return true
	}
	if c.Keywords[kw] {
		return true
	}
	if c.TransientKeywords[kw] {
		return true
	}
	return false
}

// HasRestriction reports whether a named restriction is currently installed.
func (c *GameCard) HasRestriction(r string) bool {
	for _, x := range c.Restrictions {
		if x == r {
			return true
		}
	}
	return false
}

// HasImmunity reports whether a named immunity is currently installed.
func (c *GameCard) HasImmunity(i string) bool {
	for _, x := range c.Immunities {
		if x == i {
			return true
		}
	}
	return false
}

// EffectiveCost returns the card's current cost, honoring any cost-modifier override.
func (c *GameCard) EffectiveCost() int {
	if c.ModifiedCost != nil {
		return *c.ModifiedCost
	}
	if c.Def.Cost != nil {
		return *c.Def.Cost
	}
	return 0
}
