package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/coder/websocket"

	"github.com/rgranger/optcx/internal/engine"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	CardKind string   `json:"cardKind"`
	Colors   []string `json:"colors,omitempty"`
	Cost     *int     `json:"cost,omitempty"`
	Power    *int     `json:"power,omitempty"`
	Counter  *int     `json:"counter,omitempty"`
	Traits   []string `json:"traits,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	ArtPath  string   `json:"artPath,omitempty"`
}

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Name   string   `json:"name"`
	Leader string   `json:"leader"`
	Cards  []string `json:"cards"`
}

// Server is the optcx web UI server.
type Server struct {
	artDir     string
	decksFile  string
	registry   *engine.Registry
	artMapping map[string]string // card name → art file path
	mux        *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(artDir, decksFile, mappingFile string, reg *engine.Registry) (*Server, error) {
	artMapping := make(map[string]string)
	data, err := os.ReadFile(mappingFile)
	if err != nil {
		log.Printf("Warning: could not load art mapping: %v", err)
	} else {
		if err := json.Unmarshal(data, &artMapping); err != nil {
			log.Printf("Warning: could not parse art mapping: %v", err)
		}
	}

	s := &Server{
		artDir:     artDir,
		decksFile:  decksFile,
		registry:   reg,
		artMapping: artMapping,
		mux:        http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.Handle("GET /art/", http.StripPrefix("/art/", http.FileServer(http.Dir(s.artDir))))

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, def := range s.registry.All() {
		ci := CardInfo{
			ID:       def.ID,
			Name:     def.Name,
			CardKind: def.Kind.String(),
			Cost:     def.Cost,
			Power:    def.BasePower,
			Counter:  def.Counter,
			Traits:   def.Traits,
			Keywords: def.Keywords,
		}
		for _, col := range def.Colors {
			ci.Colors = append(ci.Colors, col.String())
		}
		if artPath, ok := s.artMapping[def.Name]; ok {
			ci.ArtPath = "/art/" + artPath
		}
		cards = append(cards, ci)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.decksFile)
	if err != nil {
		http.Error(w, "could not read decks file", http.StatusInternalServerError)
		return
	}

	df, err := parseDeckFileYAML(data)
	if err != nil {
		http.Error(w, "could not parse decks file", http.StatusInternalServerError)
		return
	}

	var decks []DeckInfo
	for _, d := range df.Decks {
		di := DeckInfo{Name: d.Name, Leader: d.Leader}
		seen := make(map[string]bool)
		for _, cc := range d.Cards {
			if seen[cc.ID] {
				continue
			}
			seen[cc.ID] = true
			if def, ok := s.registry.Lookup(cc.ID); ok {
				di.Cards = append(di.Cards, def.Name)
			} else {
				di.Cards = append(di.Cards, cc.ID)
			}
		}
		decks = append(decks, di)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decks)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser.
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		log.Printf("WebSocket read connect: %v", err)
		return
	}

	var connectMsg struct {
		Type     string `json:"type"`
		Addr     string `json:"addr"`
		DeckName string `json:"deck_name"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open TCP connection to the duel server.
	tcpConn, err := net.Dial("tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to game server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	// Send join message over TCP.
	joinMsg, _ := json.Marshal(map[string]interface{}{
		"type":      "join",
		"deck_name": connectMsg.DeckName,
	})
	joinMsg = append(joinMsg, '\n')
	if _, err := tcpConn.Write(joinMsg); err != nil {
		log.Printf("TCP write join: %v", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser).
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					log.Printf("TCP read error: %v", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser responses to server).
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				log.Printf("TCP write error: %v", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
