package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	stdnet "net"

	"github.com/rgranger/optcx/internal/deckfile"
	"github.com/rgranger/optcx/internal/engine"
	"github.com/rgranger/optcx/internal/netplay"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionChooseCards  DecisionType = "choose_cards"
	DecisionChooseYesNo  DecisionType = "choose_yes_no"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type       DecisionType          `json:"type"`
	Player     int                   `json:"player"`
	State      *netplay.StateView    `json:"state"`
	Actions    []netplay.ActionView  `json:"actions,omitempty"`
	Prompt     string                `json:"prompt,omitempty"`
	Candidates []netplay.CardView    `json:"candidates,omitempty"`
	Min        int                   `json:"min,omitempty"`
	Max        int                   `json:"max,omitempty"`
}

// Response types sent back from MCP tools to controllers.

type ActionResponse struct {
	Index int
}

type CardsResponse struct {
	Indices []int
}

type YesNoResponse struct {
	Answer bool
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []netplay.EventView `json:"events"`
	State    *netplay.StateView  `json:"state,omitempty"`
	Pending  *PendingView        `json:"pending,omitempty"`
	GameOver bool                `json:"game_over"`
	Winner   int                 `json:"winner,omitempty"`
	Port     string              `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type       DecisionType         `json:"type"`
	ForPlayer  string               `json:"for_player"`
	Actions    []netplay.ActionView `json:"actions,omitempty"`
	Prompt     string               `json:"prompt,omitempty"`
	Candidates []netplay.CardView   `json:"candidates,omitempty"`
	Min        int                  `json:"min,omitempty"`
	Max        int                  `json:"max,omitempty"`
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	duel         *engine.Duel
	claudeCtrl   *MCPController
	humanCtrl    *netplay.NetworkController
	claudePlayer int

	listener  stdnet.Listener
	humanConn stdnet.Conn

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []netplay.EventView
	gameOver bool
	winner   int
}

// NewGameSession creates a new game session. It starts a TCP listener,
// waits for the human player to connect via the CLI's join command, then
// starts the duel.
func NewGameSession(decksFile string, reg *engine.Registry, claudeDeck string, claudePlayer int, port string) (*GameSession, error) {
	claudeEntry, err := deckfile.ByName(decksFile, claudeDeck, reg)
	if err != nil {
		return nil, fmt.Errorf("load claude deck: %w", err)
	}

	// Start TCP listener for the human player.
	ln, err := stdnet.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", port, err)
	}

	// Accept one connection (blocks until the human joins).
	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("accept: %w", err)
	}

	// Read join message to get the human's deck choice.
	dec := json.NewDecoder(conn)
	var joinMsg netplay.ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("read join message: %w", err)
	}

	humanEntry, err := deckfile.ByName(decksFile, joinMsg.DeckName, reg)
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("load human deck: %w", err)
	}

	sess := &GameSession{
		claudePlayer: claudePlayer,
		pendingCh:    make(chan *PendingDecision, 1),
		winner:       -1,
		listener:     ln,
		humanConn:    conn,
	}

	humanPlayer := 1 - claudePlayer
	sess.claudeCtrl = NewMCPController(claudePlayer, sess)
	sess.humanCtrl = netplay.NewNetworkController(conn, humanPlayer)

	// Assign decks to player indices.
	var leader0, leader1 *engine.CardDefinition
	var deck0, deck1 []*engine.CardDefinition
	var ctrl0, ctrl1 engine.PlayerController
	if claudePlayer == 0 {
		leader0, deck0 = claudeEntry.Leader, claudeEntry.Cards
		leader1, deck1 = humanEntry.Leader, humanEntry.Cards
		ctrl0, ctrl1 = sess.claudeCtrl, sess.humanCtrl
	} else {
		leader0, deck0 = humanEntry.Leader, humanEntry.Cards
		leader1, deck1 = claudeEntry.Leader, claudeEntry.Cards
		ctrl0, ctrl1 = sess.humanCtrl, sess.claudeCtrl
	}

	cfg := engine.DuelConfig{
		Deck0:   deck0,
		Deck1:   deck1,
		Leader0: leader0,
		Leader1: leader1,
	}

	sess.duel = engine.NewDuel(cfg, ctrl0, ctrl1)

	// Start the duel in a goroutine.
	go func() {
		winner, err := sess.duel.Run(context.Background())
		if err != nil {
			sess.mu.Lock()
			sess.gameOver = true
			sess.mu.Unlock()
		}

		// Notify the human over TCP.
		_ = sess.humanCtrl.SendGameOver(winner)

		sess.humanConn.Close()
		sess.listener.Close()

		// Notify Claude via the pending channel.
		sess.pendingCh <- &PendingDecision{
			Type:   DecisionGameOver,
			Player: winner,
			State:  netplay.BuildStateView(sess.duel.State, sess.claudePlayer),
		}

		sess.mu.Lock()
		sess.gameOver = true
		sess.winner = winner
		sess.mu.Unlock()
	}()

	return sess, nil
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev netplay.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []netplay.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending() (*ToolResponse, error) {
	pending := <-s.pendingCh
	s.currentPending = pending

	events := s.drainEvents()

	resp := &ToolResponse{
		Events: events,
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		s.mu.Unlock()
		resp.State = pending.State
		resp.Pending = nil
		return resp, nil
	}

	resp.State = pending.State
	resp.Pending = &PendingView{
		Type:       pending.Type,
		ForPlayer:  s.playerLabel(pending.Player),
		Actions:    pending.Actions,
		Prompt:     pending.Prompt,
		Candidates: pending.Candidates,
		Min:        pending.Min,
		Max:        pending.Max,
	}

	return resp, nil
}

// playerLabel returns "claude" or "human" for the given player index.
func (s *GameSession) playerLabel(player int) string {
	if player == s.claudePlayer {
		return "claude"
	}
	return "human"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
