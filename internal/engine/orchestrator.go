package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// ResolutionStatus reports whether the orchestrator is idle, paused awaiting
// a player choice it cannot auto-resolve, or done with its last resolution.
type ResolutionStatus int

const (
	StatusIdle ResolutionStatus = iota
	StatusAwaitingChoice
	StatusComplete
)

// ChoiceKind distinguishes what a suspended ChoicePrompt is asking for.
type ChoiceKind int

const (
	ChoiceTargets ChoiceKind = iota
	ChoiceCostSelection
	ChoiceOptionalCost
	ChoiceOptionalTrigger
)

// ChoicePrompt describes a single suspension point the orchestrator cannot
// resolve on its own — it must be answered via Resume before resolution
// continues (§4.8's "AwaitingChoice" state, the module's resumability model).
type ChoicePrompt struct {
	Token      string
	Kind       ChoiceKind
	Player     int
	Candidates []int
	Min, Max   int
	// pending identifies what this prompt feeds back into once answered.
	costIndex int
}

// pendingResolution tracks one EffectDefinition working its way through
// condition check, cost payment, and action execution.
type pendingResolution struct {
	candidate   Candidate
	ctx         *Context
	costSelections map[int][]int
	actionQueue []*Action
	changes     []StateChange
}

// Orchestrator drives candidate effects from trigger match through full
// resolution, pausing at ChoicePrompts and resuming from player answers
// (§4.8). It owns no rules logic of its own beyond sequencing: targets,
// conditions, costs, and actions are delegated to their dedicated resolvers.
type Orchestrator struct {
	gs         *GameState
	dispatcher *TriggerDispatcher
	conditions *ConditionEvaluator
	costs      *CostEngine
	targets    *TargetResolver
	actions    *ActionResolver

	status  ResolutionStatus
	pending *pendingResolution
	prompt  *ChoicePrompt
	log     []StateChange
}

// NewOrchestrator wires every resolver against a single game state.
func NewOrchestrator(gs *GameState) *Orchestrator {
	return &Orchestrator{
		gs:         gs,
		dispatcher: NewTriggerDispatcher(gs),
		conditions: NewConditionEvaluator(),
		costs:      NewCostEngine(),
		targets:    NewTargetResolver(),
		actions:    NewActionResolver(gs),
		status:     StatusIdle,
	}
}

// Status reports the orchestrator's current resolution state.
func (o *Orchestrator) Status() ResolutionStatus { return o.status }

// Prompt returns the current ChoicePrompt, or nil if not awaiting one.
func (o *Orchestrator) Prompt() *ChoicePrompt { return o.prompt }

// HandleEvent dispatches ev to every matching EffectDefinition and resolves
// them in priority order, returning the accumulated StateChange log. If an
// effect needs player input it cannot resolve (ambiguous targets, an
// optional cost, an optional trigger), HandleEvent returns early with
// Status() == StatusAwaitingChoice; the caller must answer via Resume.
func (o *Orchestrator) HandleEvent(ev *Event) ([]StateChange, error) {
	candidates := o.dispatcher.Dispatch(ev)
	o.log = nil
	for _, c := range candidates {
		done, err := o.resolveOne(c, ev)
		if err != nil {
			return o.log, err
		}
		if !done {
			return o.log, nil // suspended; caller must Resume
		}
	}
	o.status = StatusComplete
	return o.log, nil
}

func (o *Orchestrator) resolveOne(c Candidate, ev *Event) (bool, error) {
	ctx := &Context{State: o.gs, Source: c.Source, SourcePlayer: c.Player, Event: ev}

	if !o.conditions.AllSatisfied(ctx, c.Effect.Conditions) {
		return true, nil
	}
	if !o.costs.CanPay(ctx, c.Effect.Costs) {
		return true, nil
	}

	if c.Effect.Optional {
		o.suspendForOptionalTrigger(c, ctx)
		return false, nil
	}

	return o.payAndResolveActions(c, ctx)
}

func (o *Orchestrator) suspendForOptionalTrigger(c Candidate, ctx *Context) {
	o.pending = &pendingResolution{candidate: c, ctx: ctx, costSelections: map[int][]int{}}
	o.prompt = &ChoicePrompt{
		Token:      uuid.NewString(),
		Kind:       ChoiceOptionalTrigger,
		Player:     c.Player,
		Candidates: []int{0, 1}, // 0 = decline, 1 = accept
		Min:        1,
		Max:        1,
	}
	o.status = StatusAwaitingChoice
}

func (o *Orchestrator) payAndResolveActions(c Candidate, ctx *Context) (bool, error) {
	if idx, needsChoice := o.firstAmbiguousCost(c.Effect.Costs, ctx); needsChoice {
		o.pending = &pendingResolution{candidate: c, ctx: ctx, costSelections: map[int][]int{}}
		o.prompt = &ChoicePrompt{
			Token:      uuid.NewString(),
			Kind:       ChoiceCostSelection,
			Player:     c.Player,
			Candidates: o.costSelectionPool(c.Effect.Costs[idx], ctx),
			Min:        c.Effect.Costs[idx].Count,
			Max:        c.Effect.Costs[idx].Count,
			costIndex:  idx,
		}
		o.status = StatusAwaitingChoice
		return false, nil
	}

	if err := o.costs.PayAll(ctx, c.Effect.Costs, nil); err != nil {
		return true, fmt.Errorf("paying costs for effect %q: %w", c.Effect.ID, err)
	}
	if c.Player < 0 || c.Player > 1 {
		return true, fmt.Errorf("invalid player %d", c.Player)
	}
	o.gs.Players[c.Player].resolvedOncePerTurn[onceKey(c.Effect, c.Source)] = true

	for i, action := range c.Effect.Actions {
		if needsTargetChoice(action) {
			legal := o.actions.LegalTargets(ctx, action)
			if len(legal) > action.Target.Max && action.Target.Max > 0 {
				// Only the remaining actions (this one and those after it) belong in
				// actionQueue — everything before index i already executed above and
				// had its StateChanges appended to o.log; re-running them on Resume
				// would double-apply them.
				o.pending = &pendingResolution{candidate: c, ctx: ctx, actionQueue: c.Effect.Actions[i:]}
				o.prompt = &ChoicePrompt{
					Token:      uuid.NewString(),
					Kind:       ChoiceTargets,
					Player:     c.Player,
					Candidates: legal,
					Min:        action.Target.Min,
					Max:        action.Target.Max,
				}
				o.status = StatusAwaitingChoice
				return false, nil
			}
		}
		changes, err := o.actions.Execute(ctx, action)
		o.log = append(o.log, changes...)
		if err != nil {
			return true, fmt.Errorf("resolving action %v for effect %q: %w", action.Kind, c.Effect.ID, err)
		}
	}
	return true, nil
}

// needsTargetChoice reports whether a's target spec could plausibly require
// player selection (as opposed to TargetNone, or a single-choice "all legal").
func needsTargetChoice(a *Action) bool {
	return a.Target.Kind != TargetNone && a.Target.Max > 0
}

func (o *Orchestrator) firstAmbiguousCost(costs []Cost, ctx *Context) (int, bool) {
	for i, c := range costs {
		switch c.Kind {
		case CostTrashFromHand, CostTrashCharacter:
			if c.Count > 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func (o *Orchestrator) costSelectionPool(c Cost, ctx *Context) []int {
	p := ctx.State.Players[ctx.SourcePlayer]
	switch c.Kind {
	case CostTrashFromHand:
		ids := make([]int, 0, len(p.Hand))
		for _, card := range p.Hand {
			if c.Trait == "" || card.Def.HasTrait(c.Trait) {
				ids = append(ids, card.InstanceID)
			}
		}
		return ids
	case CostTrashCharacter:
		ids := make([]int, 0, len(p.Field))
		for _, card := range p.Field {
			ids = append(ids, card.InstanceID)
		}
		return ids
	default:
		return nil
	}
}

// ActivateMain resolves a source card's "Activate: Main" ability directly,
// bypassing event dispatch — unlike OnPlay/OnAttack/etc., an Activate: Main
// ability isn't a reaction to a domain event, it's a player-chosen action in
// its own right (§4.6). Returns StatusAwaitingChoice the same way HandleEvent
// does if the ability needs player input it can't auto-resolve.
func (o *Orchestrator) ActivateMain(source *GameCard, player int) ([]StateChange, error) {
	var eff *EffectDefinition
	for _, e := range source.Def.Effects {
		if e.Trigger == TriggerActivateMain {
			eff = e
			break
		}
	}
	if eff == nil {
		return nil, NewEngineError(ErrIllegalAction, fmt.Sprintf("%s has no Activate: Main ability", source), nil)
	}
	c := Candidate{Effect: eff, Source: source, Player: player}
	o.log = nil
	done, err := o.resolveOne(c, &Event{Kind: EventCardPlayed, CardID: source.InstanceID, PlayerID: player})
	if err != nil {
		return o.log, err
	}
	if !done {
		return o.log, nil
	}
	o.status = StatusComplete
	return o.log, nil
}

// Resume answers the outstanding ChoicePrompt with selected instance ids (or,
// for ChoiceOptionalTrigger/ChoiceOptionalCost, a single 0/1 entry) and
// continues resolution from where it paused.
func (o *Orchestrator) Resume(token string, selected []int) ([]StateChange, error) {
	if o.prompt == nil || o.prompt.Token != token {
		return nil, fmt.Errorf("no outstanding prompt with token %q", token)
	}
	prompt := o.prompt
	pending := o.pending
	o.prompt = nil
	o.status = StatusIdle
	o.log = nil

	switch prompt.Kind {
	case ChoiceOptionalTrigger:
		if len(selected) == 0 || selected[0] == 0 {
			return nil, nil // declined
		}
		return o.payAndResolveActionsPublic(pending.candidate, pending.ctx)
	case ChoiceCostSelection:
		pending.ctx.SelectedTargets = nil
		if err := o.costs.PayAll(pending.ctx, pending.candidate.Effect.Costs, map[int][]int{prompt.costIndex: selected}); err != nil {
			return nil, fmt.Errorf("paying selected cost: %w", err)
		}
		o.gs.Players[pending.candidate.Player].resolvedOncePerTurn[onceKey(pending.candidate.Effect, pending.candidate.Source)] = true
		for _, action := range pending.candidate.Effect.Actions {
			changes, err := o.actions.Execute(pending.ctx, action)
			o.log = append(o.log, changes...)
			if err != nil {
				return o.log, err
			}
		}
		return o.log, nil
	case ChoiceTargets:
		pending.ctx.SelectedTargets = selected
		for _, action := range pending.actionQueue {
			changes, err := o.actions.Execute(pending.ctx, action)
			o.log = append(o.log, changes...)
			if err != nil {
				return o.log, err
			}
		}
		return o.log, nil
	}
	return nil, fmt.Errorf("unhandled prompt kind %d", prompt.Kind)
}

func (o *Orchestrator) payAndResolveActionsPublic(c Candidate, ctx *Context) ([]StateChange, error) {
	done, err := o.payAndResolveActions(c, ctx)
	if err != nil {
		return o.log, err
	}
	if !done {
		return nil, nil // a further prompt was raised; caller sees Status()/Prompt()
	}
	return o.log, nil
}
