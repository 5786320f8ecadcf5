package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/rgranger/optcx/internal/cards"
	"github.com/rgranger/optcx/internal/engine"
	optcxmcp "github.com/rgranger/optcx/internal/mcp"
)

func main() {
	decks := flag.String("decks", "decks.yaml", "path to decks YAML file")
	port := flag.String("port", "9999", "TCP port for human player connection")
	flag.Parse()

	reg := engine.NewRegistry(func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})
	reg.LoadDefinitions(cards.Definitions())

	optcxmcp.SetDecksFile(*decks)
	optcxmcp.SetRegistry(reg)
	optcxmcp.SetPort(*port)

	s := server.NewMCPServer("optcx", "1.0.0")
	optcxmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
