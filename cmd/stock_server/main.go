// Command stock_server is the worker process: it loads the fallback price
// table, announces readiness on stdout, and answers NDJSON tool requests
// from stdin until a shutdown request or EOF. All logging goes to stderr so
// stdout stays a clean protocol channel.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/aidamian/mcp-workshop/internal/logging"
	"github.com/aidamian/mcp-workshop/internal/quote"
	"github.com/aidamian/mcp-workshop/internal/worker"
)

func main() {
	csvPath := flag.String("csv", "stocks_data.csv", "path to the fallback price table")
	noLive := flag.Bool("no-live", false, "skip live quote lookups and serve fallback data only")
	debug := flag.Bool("debug", false, "enable verbose logging")
	flag.Parse()

	_ = godotenv.Load()

	log := logging.NewConsole(os.Stderr, "[stock-server]", color.New(color.FgMagenta))
	log.SetDebug(*debug)

	table := quote.LoadFallbackTable(*csvPath, log)

	var live quote.LiveSource
	if !*noLive {
		live = quote.NewYahooSource()
	}

	resolver := quote.NewResolver(live, table, log)
	w := worker.New(resolver, log)

	if err := w.Run(context.Background(), os.Stdin, os.Stdout); err != nil {
		log.Errorf("worker terminated: %v", err)
		os.Exit(1)
	}
}
