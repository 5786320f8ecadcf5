package web

import (
	"gopkg.in/yaml.v3"

	"github.com/rgranger/optcx/internal/deckfile"
)

func parseDeckFileYAML(data []byte) (deckfile.File, error) {
	var df deckfile.File
	err := yaml.Unmarshal(data, &df)
	return df, err
}
