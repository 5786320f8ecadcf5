package engine

// TriggerKind is the closed set of events an EffectDefinition can key off of.
// This is the sum-type rendering of spec §6's trigger taxonomy: the source's
// open-coded closures become data the Trigger Dispatcher can scan without
// invoking card-specific code.
type TriggerKind int

const (
	TriggerPassive TriggerKind = iota
	TriggerActivateMain
	TriggerMain
	TriggerOncePerTurn
	TriggerOnPlay
	TriggerOnPlayFromTrigger
	TriggerOnAttack
	TriggerOnBlock
	TriggerCounter
	TriggerAfterBattle
	TriggerDonX
	TriggerDonTap
	TriggerAttachDon
	TriggerDonReturned
	TriggerOnKo
	TriggerPreKo
	TriggerAfterKoCharacter
	TriggerAnyCharacterKod
	TriggerOpponentCharacterKod
	TriggerKoAlly
	TriggerLifeTrigger
	TriggerLifeAddedToHand
	TriggerLifeReachesZero
	TriggerHitLeader
	TriggerAnyHitLeader
	TriggerEndOfTurn
	TriggerStartOfTurn
	TriggerYourTurn
	TriggerOpponentTurn
	TriggerOpponentAttack
	TriggerOpponentPlaysEvent
	TriggerOpponentDeploys
	TriggerOpponentActivatesBlocker
	TriggerTrashX
	TriggerTrashSelf
	TriggerTrashAlly
	TriggerCardDrawn
	TriggerDeployedFromHand
	TriggerWhileRested
	TriggerMandatory
	TriggerHandEmpty
	TriggerImmediate
)

// EventKind is the closed set of domain events the Trigger Dispatcher scans against.
// Distinct from TriggerKind: an Event is a fact that happened; a TriggerKind is
// what an effect declares it listens for. Most map 1:1; a handful of triggers
// (YourTurn, OpponentTurn, Mandatory, Immediate) are scoping qualifiers rather
// than standalone events: no EventKind routes to them, so the dispatcher
// never matches an effect whose Trigger is one of these.
type EventKind int

const (
	EventCardPlayed EventKind = iota
	EventAttackDeclared
	EventBlockDeclared
	EventCounterWindow
	EventAfterBattle
	EventDonAttached
	EventDonTapped
	EventDonReturned
	EventCharacterKod
	EventPreKo
	EventLifeAddedToHand
	EventLifeReachesZero
	EventLeaderHit
	EventEndOfTurn
	EventStartOfTurn
	EventOpponentAttackDeclared
	EventOpponentEventPlayed
	EventOpponentDeployed
	EventOpponentActivatesBlocker
	EventTrashed
	EventCardDrawn
	EventPhaseChange
)

// Event is one domain occurrence fed to the Trigger Dispatcher.
type Event struct {
	Kind      EventKind
	CardID    int // the card instance the event is about, 0 if none
	PlayerID  int // the player who caused the event
	TargetID  int // secondary card reference (e.g. the attacked leader's instance id)
	Value     int // numeric payload (e.g. DON count for DonX)
}

// ConditionKind is the closed set of activation-condition predicates (§4.3).
type ConditionKind int

const (
	CondDonCountOrMore ConditionKind = iota
	CondDonCountOrLess
	CondDonAttachedOrMore
	CondLifeCountOrMore
	CondLifeCountOrLess
	CondLifeLessThanOpponent
	CondLifeMoreThanOpponent
	CondHandCountOrMore
	CondHandCountOrLess
	CondHandEmpty
	CondCharacterCountOrMore
	CondCharacterCountOrLess
	CondHasCharacterWithTrait
	CondHasCharacterWithName
	CondLeaderHasTrait
	CondLeaderIs
	CondTrashCountOrMore
	CondIsRested
	CondIsActive
	CondYourTurn
	CondOpponentTurn
)

// Scope selects whose side of the board a count-based condition reads from.
type Scope int

const (
	ScopeSelf Scope = iota
	ScopeOpponent
)

// Condition is a single activation predicate (AND-combined on an EffectDefinition).
type Condition struct {
	Kind     ConditionKind
	Scope    Scope
	Count    int
	Traits   []string
	Names    []string
	Negated  bool
}

// CostKind is the closed set of payable costs (§4.4).
type CostKind int

const (
	CostSpendDon CostKind = iota
	CostRestDon
	CostReturnDon
	CostTrashFromHand
	CostTrashCharacter
	CostRestSelf
	CostTrashSelf
	CostPayLife
)

// Cost is a single declared cost on an EffectDefinition.
type Cost struct {
	Kind     CostKind
	Count    int
	Trait    string // optional narrowing filter, e.g. TrashCharacter of a trait
	Optional bool   // "you may" prefix
}

// TargetKind selects the base candidate pool before filters are applied (§4.2).
type TargetKind int

const (
	TargetYourCharacter TargetKind = iota
	TargetOpponentCharacter
	TargetAnyCharacter
	TargetYourLeader
	TargetOpponentLeader
	TargetLeaderOrCharacterYours
	TargetLeaderOrCharacterOpponent
	TargetLeaderOrCharacterAny
	TargetYourHand
	TargetYourTrash
	TargetYourDeck
	TargetYourDon
	TargetOpponentDon
	TargetYourStage
	TargetOpponentStage
	TargetYourLife
	TargetOpponentLife
	TargetNone // actions with no target selection (e.g. DrawCards)
)

// FilterProperty is a filterable card property (§4.2).
type FilterProperty int

const (
	FilterCost FilterProperty = iota
	FilterBasePower
	FilterPower
	FilterColor
	FilterTrait
	FilterType
	FilterName
	FilterState
)

// FilterOperator compares a property against a value (§4.2).
type FilterOperator int

const (
	OpEquals FilterOperator = iota
	OpNotEquals
	OpOrLess
	OpOrMore
	OpContains
	OpNot
)

// DynamicSymbol is a value resolved against the context at evaluation time,
// never at definition time (§4.2, §8 "dynamic filter resolution").
type DynamicSymbol int

const (
	SymbolNone DynamicSymbol = iota
	SymbolDonCount
	SymbolActiveDonCount
	SymbolTrashCount
	SymbolHandCount
	SymbolFieldCount
	SymbolLifeCount
	SymbolDeckCount
	SymbolOpponentDonCount
	SymbolOpponentActiveDonCount
	SymbolOpponentTrashCount
	SymbolOpponentHandCount
	SymbolOpponentFieldCount
	SymbolOpponentLifeCount
	SymbolOpponentDeckCount
)

// FilterValue is either a literal integer/string/set, or a DynamicSymbol resolved
// at evaluation time against the current Context.
type FilterValue struct {
	Symbol  DynamicSymbol
	Int     int
	Str     string
	StrSet  []string
	ColorSet []Color
}

// Filter is one declarative narrowing clause applied in order (§4.2).
type Filter struct {
	Property FilterProperty
	Operator FilterOperator
	Value    FilterValue
}
