package netplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/rgranger/optcx/internal/engine"
)

// NetworkController implements engine.PlayerController over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// BuildStateView creates a StateView from the perspective of the given player.
func BuildStateView(state *engine.GameState, player int) *StateView {
	me := player
	opp := state.Opponent(player)
	myPlayer := state.Players[me]
	oppPlayer := state.Players[opp]
	tracker := engine.NewBuffTracker(state)

	sv := &StateView{
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		IsYourTurn: state.ActivePlayer == me,
	}
	sv.You = buildPlayerView(myPlayer, tracker, true)
	for _, c := range myPlayer.Hand {
		sv.You.Hand = append(sv.You.Hand, c.Def.Name)
	}
	sv.Opponent = buildPlayerView(oppPlayer, tracker, false)
	return sv
}

func buildPlayerView(p *engine.PlayerState, tracker *engine.BuffTracker, owner bool) PlayerView {
	pv := PlayerView{
		Life:       p.LifeCount(),
		HandCount:  p.HandCount(),
		TrashCount: p.TrashCount(),
		DeckCount:  p.DeckCount(),
		ActiveDon:  p.ActiveDonCount(),
		TotalDon:   p.DonCount(),
		Leader:     cardZoneView(p.Leader, tracker),
	}
	for _, c := range p.Field {
		pv.Field = append(pv.Field, cardZoneView(c, tracker))
	}
	if p.Stage != nil {
		zv := cardZoneView(p.Stage, tracker)
		pv.Stage = &zv
	}
	return pv
}

func cardZoneView(c *engine.GameCard, tracker *engine.BuffTracker) ZoneView {
	if c == nil {
		return ZoneView{Empty: true}
	}
	return ZoneView{Name: c.Def.Name, Power: tracker.EffectivePower(c), State: c.State.String()}
}

func (nc *NetworkController) buildStateView(state *engine.GameState) *StateView {
	return BuildStateView(state, nc.player)
}

func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseAction implements engine.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *engine.GameState, actions []engine.PlayerAction) (engine.PlayerAction, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	var views []ActionView
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Desc: describeAction(a)})
	}

	msg := ServerMessage{Type: "choose_action", Actions: views, State: nc.buildStateView(state)}
	if err := nc.send(msg); err != nil {
		return engine.PlayerAction{}, fmt.Errorf("send choose_action: %w", err)
	}
	resp, err := nc.recv()
	if err != nil {
		return engine.PlayerAction{}, fmt.Errorf("recv action: %w", err)
	}
	if resp.Index < 0 || resp.Index >= len(actions) {
		return actions[0], nil
	}
	return actions[resp.Index], nil
}

// ChooseCards implements engine.PlayerController.
func (nc *NetworkController) ChooseCards(ctx context.Context, state *engine.GameState, prompt string, candidates []*engine.GameCard, min, max int) ([]*engine.GameCard, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	tracker := engine.NewBuffTracker(state)
	var views []CardView
	for i, c := range candidates {
		views = append(views, CardView{Index: i, Name: c.Def.Name, Cost: c.EffectiveCost(), Power: tracker.EffectivePower(c)})
	}

	msg := ServerMessage{Type: "choose_cards", Prompt: prompt, Candidates: views, Min: min, Max: max, State: nc.buildStateView(state)}
	if err := nc.send(msg); err != nil {
		return nil, fmt.Errorf("send choose_cards: %w", err)
	}
	resp, err := nc.recv()
	if err != nil {
		return nil, fmt.Errorf("recv cards: %w", err)
	}
	var result []*engine.GameCard
	for _, idx := range resp.Indices {
		if idx >= 0 && idx < len(candidates) {
			result = append(result, candidates[idx])
		}
	}
	return result, nil
}

// ChooseYesNo implements engine.PlayerController.
func (nc *NetworkController) ChooseYesNo(ctx context.Context, state *engine.GameState, prompt string) (bool, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{Type: "choose_yes_no", Prompt: prompt, State: nc.buildStateView(state)}
	if err := nc.send(msg); err != nil {
		return false, fmt.Errorf("send choose_yes_no: %w", err)
	}
	resp, err := nc.recv()
	if err != nil {
		return false, fmt.Errorf("recv yes_no: %w", err)
	}
	return resp.Answer, nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", Winner: winner})
}

// Notify implements engine.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, change engine.StateChange) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type: "notify",
		Event: &EventView{
			Player:  change.PlayerID,
			Kind:    change.Kind.String(),
			CardID:  change.CardID,
			Details: change.Detail,
		},
	}
	return nc.send(msg)
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
