package mcp

import (
	"context"
	"fmt"

	"github.com/rgranger/optcx/internal/clog"
	"github.com/rgranger/optcx/internal/engine"
	"github.com/rgranger/optcx/internal/netplay"
)

// MCPController implements engine.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	player     int
	session    *GameSession
	responseCh chan any
}

// NewMCPController creates a controller for the given player.
func NewMCPController(player int, session *GameSession) *MCPController {
	return &MCPController{
		player:     player,
		session:    session,
		responseCh: make(chan any),
	}
}

// ChooseAction implements engine.PlayerController.
func (c *MCPController) ChooseAction(ctx context.Context, state *engine.GameState, actions []engine.PlayerAction) (engine.PlayerAction, error) {
	var views []netplay.ActionView
	for i, a := range actions {
		views = append(views, netplay.ActionView{Index: i, Desc: describeAction(a)})
	}

	c.session.pendingCh <- &PendingDecision{
		Type:    DecisionChooseAction,
		Player:  c.player,
		State:   netplay.BuildStateView(state, c.player),
		Actions: views,
	}

	resp := <-c.responseCh
	ar := resp.(ActionResponse)

	if ar.Index < 0 || ar.Index >= len(actions) {
		return actions[0], nil
	}
	return actions[ar.Index], nil
}

// ChooseCards implements engine.PlayerController.
func (c *MCPController) ChooseCards(ctx context.Context, state *engine.GameState, prompt string, candidates []*engine.GameCard, min, max int) ([]*engine.GameCard, error) {
	tracker := engine.NewBuffTracker(state)
	var views []netplay.CardView
	for i, card := range candidates {
		views = append(views, netplay.CardView{
			Index: i,
			Name:  card.Def.Name,
			Cost:  card.EffectiveCost(),
			Power: tracker.EffectivePower(card),
		})
	}

	c.session.pendingCh <- &PendingDecision{
		Type:       DecisionChooseCards,
		Player:     c.player,
		State:      netplay.BuildStateView(state, c.player),
		Prompt:     prompt,
		Candidates: views,
		Min:        min,
		Max:        max,
	}

	resp := <-c.responseCh
	cr := resp.(CardsResponse)

	var result []*engine.GameCard
	for _, idx := range cr.Indices {
		if idx >= 0 && idx < len(candidates) {
			result = append(result, candidates[idx])
		}
	}
	return result, nil
}

// ChooseYesNo implements engine.PlayerController.
func (c *MCPController) ChooseYesNo(ctx context.Context, state *engine.GameState, prompt string) (bool, error) {
	c.session.pendingCh <- &PendingDecision{
		Type:   DecisionChooseYesNo,
		Player: c.player,
		State:  netplay.BuildStateView(state, c.player),
		Prompt: prompt,
	}

	resp := <-c.responseCh
	yr := resp.(YesNoResponse)
	return yr.Answer, nil
}

// Notify implements engine.PlayerController. Only Claude's controller
// appends events, to avoid duplicate entries in the session's event log.
func (c *MCPController) Notify(ctx context.Context, change engine.StateChange) error {
	if c.player == c.session.claudePlayer {
		c.session.appendEvent(netplay.EventView{
			Player:  change.PlayerID,
			Kind:    change.Kind.String(),
			CardID:  change.CardID,
			Details: clog.Summarize(change),
		})
	}
	return nil
}

func describeAction(a engine.PlayerAction) string {
	switch a.Kind {
	case engine.ActionPlayCardFromHand:
		return fmt.Sprintf("play card %d", a.CardID)
	case engine.ActionAttachDonToCharacter:
		return fmt.Sprintf("attach DON to %d", a.TargetID)
	case engine.ActionActivateMainAbility:
		return fmt.Sprintf("activate %d", a.CardID)
	case engine.ActionDeclareAttack:
		return fmt.Sprintf("attack %d → %d", a.CardID, a.TargetID)
	case engine.ActionDeclareBlock:
		return fmt.Sprintf("block with %d", a.CardID)
	case engine.ActionUseCounter:
		return fmt.Sprintf("use counter %d", a.CardID)
	case engine.ActionPassPriority:
		return "pass"
	case engine.ActionEnterCombat:
		return "enter combat"
	case engine.ActionEndTurn:
		return "end turn"
	default:
		return "unknown action"
	}
}
