package netplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/rgranger/optcx/internal/clog"
	"github.com/rgranger/optcx/internal/deckfile"
	"github.com/rgranger/optcx/internal/engine"
)

// Server hosts a duel between two TCP clients.
type Server struct {
	DeckFile string
	Port     string
	HostDeck string // host's deck name, as it appears in DeckFile
	Registry *engine.Registry
}

// Run starts the server, waits for a client to join, then runs the duel.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("Waiting for opponent on port %s...\n", s.Port)

	// Accept exactly one connection (the joiner).
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Printf("Opponent connected from %s\n", conn.RemoteAddr())

	// Read the joiner's deck choice.
	dec := json.NewDecoder(conn)
	var joinMsg ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}

	// Load decks.
	hostDeck, err := deckfile.ByName(s.DeckFile, s.HostDeck, s.Registry)
	if err != nil {
		return fmt.Errorf("load host deck: %w", err)
	}
	joinerDeck, err := deckfile.ByName(s.DeckFile, joinMsg.DeckName, s.Registry)
	if err != nil {
		return fmt.Errorf("load joiner deck: %w", err)
	}

	fmt.Printf("Host: %s (%d cards)\n", hostDeck.Name, len(hostDeck.Cards))
	fmt.Printf("Joiner: %s (%d cards)\n", joinerDeck.Name, len(joinerDeck.Cards))

	// Create a pipe for the host's local connection.
	hostConn, hostServerConn := net.Pipe()

	// Create controllers. Player 0 = host, Player 1 = joiner.
	hostCtrl := NewNetworkController(hostServerConn, 0)
	joinerCtrl := NewNetworkController(conn, 1)

	// Create duel, routing every StateChange through a text logger on stdout.
	logger := clog.NewTextLogger(os.Stdout)
	var duel *engine.Duel
	duel = engine.NewDuel(engine.DuelConfig{
		Deck0:   hostDeck.Cards,
		Deck1:   joinerDeck.Cards,
		Leader0: hostDeck.Leader,
		Leader1: joinerDeck.Leader,
		OnStateChange: func(change engine.StateChange) {
			logger.Log(clog.NewGameEvent(duel.State.Turn, duel.State.Phase.String(), change))
		},
	}, hostCtrl, joinerCtrl)

	// Run the host's local REPL in a goroutine.
	errCh := make(chan error, 2)
	go func() {
		client := &Client{conn: hostConn, playerName: "P1"}
		errCh <- client.RunREPL(ctx)
	}()

	// Run the duel.
	go func() {
		winner, err := duel.Run(ctx)
		if err != nil {
			errCh <- fmt.Errorf("duel error: %w", err)
			return
		}

		gameOverMsg := ServerMessage{Type: "game_over", Winner: winner}

		joinerCtrl.mu.Lock()
		_ = joinerCtrl.send(gameOverMsg)
		joinerCtrl.mu.Unlock()

		hostCtrl.mu.Lock()
		_ = hostCtrl.send(gameOverMsg)
		hostCtrl.mu.Unlock()

		errCh <- nil
	}()

	// Wait for either the duel or the REPL to finish.
	err = <-errCh
	return err
}
