// Package deckfile loads YAML decklist files into engine card definitions,
// adapted from the teacher's flat deck-file format to the leader + main-deck
// shape of the target game. Deck size is not checked.
package deckfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rgranger/optcx/internal/engine"
)

// File is the top-level YAML structure: one or more named decks.
type File struct {
	Decks []Entry `yaml:"decks"`
}

// Entry is a single deck: its leader and its main deck.
type Entry struct {
	Name   string      `yaml:"name"`
	Leader string      `yaml:"leader"`
	Cards  []CardCount `yaml:"cards"`
}

// CardCount is a card identifier and how many copies the deck runs.
type CardCount struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// Deck is a resolved, registry-backed deck ready to hand to DuelConfig.
type Deck struct {
	Name   string
	Leader *engine.CardDefinition
	Cards  []*engine.CardDefinition
}

// Parse reads and resolves every deck in path against reg.
func Parse(path string, reg *engine.Registry) ([]Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	decks := make([]Deck, 0, len(f.Decks))
	for _, entry := range f.Decks {
		deck, err := resolveEntry(entry, reg)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", entry.Name, err)
		}
		decks = append(decks, deck)
	}
	return decks, nil
}

// ByName parses path and returns the single deck matching name.
func ByName(path, name string, reg *engine.Registry) (Deck, error) {
	decks, err := Parse(path, reg)
	if err != nil {
		return Deck{}, err
	}
	for _, d := range decks {
		if d.Name == name {
			return d, nil
		}
	}
	return Deck{}, fmt.Errorf("deck %q not found in %s", name, path)
}

func resolveEntry(entry Entry, reg *engine.Registry) (Deck, error) {
	leader, ok := reg.Lookup(entry.Leader)
	if !ok {
		return Deck{}, fmt.Errorf("leader %q not in registry", entry.Leader)
	}
	var cards []*engine.CardDefinition
	for _, cc := range entry.Cards {
		def, ok := reg.Lookup(cc.ID)
		if !ok {
			return Deck{}, fmt.Errorf("card %q not in registry", cc.ID)
		}
		for i := 0; i < cc.Count; i++ {
			cards = append(cards, def)
		}
	}
	return Deck{Name: entry.Name, Leader: leader, Cards: cards}, nil
}
