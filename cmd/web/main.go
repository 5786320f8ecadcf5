package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rgranger/optcx/internal/cards"
	"github.com/rgranger/optcx/internal/engine"
	"github.com/rgranger/optcx/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	artDir := flag.String("art", "./card_art", "path to card art directory")
	decksFile := flag.String("decks", "decks.yaml", "path to decks YAML file")
	mappingFile := flag.String("mapping", "card_art_mapping.json", "path to card art mapping JSON")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	reg := engine.NewRegistry(func(format string, args ...any) {
		logger.Sugar().Warnf(format, args...)
	})
	reg.LoadDefinitions(cards.Definitions())

	srv, err := web.NewServer(*artDir, *decksFile, *mappingFile, reg)
	if err != nil {
		logger.Fatal("failed to create web server", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("optcx web UI listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(addr); err != nil {
		logger.Fatal("web server exited", zap.Error(err))
	}
}
