// Command stock_client is the interactive side of the workshop: it spawns
// the stock_server worker, routes natural-language prompts to tool calls,
// and renders the worker's answers.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/aidamian/mcp-workshop/internal/client"
	"github.com/aidamian/mcp-workshop/internal/config"
	"github.com/aidamian/mcp-workshop/internal/logging"
	"github.com/aidamian/mcp-workshop/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath, "path to the yaml configuration")
	debug := flag.Bool("debug", false, "enable verbose routing and transport logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.NewConsole(os.Stderr, "[mcp-client]", color.New(color.FgYellow))
	log.SetDebug(*debug)
	resultLog := logging.NewConsole(os.Stdout, "[result]", color.New(color.FgGreen))

	var rt router.Router
	if cfg.Router.APIKey != "" {
		log.Infof("Deepseek routing is enabled.")
		rt = router.NewDeepseek(cfg.Router.APIKey, cfg.Router.Model, log)
	} else {
		log.Infof("Deepseek API key not found. Falling back to keyword routing.")
		rt = router.NewHeuristic(log)
	}

	workerArgs := []string{"-csv", cfg.Worker.FallbackCSV}
	if cfg.Worker.NoLive {
		workerArgs = append(workerArgs, "-no-live")
	}
	grace := time.Duration(cfg.Client.ShutdownGraceSeconds) * time.Second

	cli := client.New(cfg.Worker.Binary, workerArgs, log, client.WithShutdownGrace(grace))
	if err := cli.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	defer func() {
		if err := cli.Shutdown(); err != nil {
			log.Warnf("worker shutdown: %v", err)
		}
	}()

	log.Infof("Type 'exit' or 'quit' to leave, 'tools' to list available tools.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("What is your query? → ")
		if !scanner.Scan() {
			fmt.Println()
			log.Infof("Goodbye.")
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			log.Infof("Goodbye.")
			return nil
		case "tools":
			printCatalog(cli, log)
			continue
		}

		call, err := rt.Route(input)
		if err != nil {
			log.Warnf("⚠ %v", err)
			continue
		}
		log.Debugf("routed tool call: %s %v", call.Tool, call.Arguments)

		result, err := cli.Invoke(call.Tool, call.Arguments)
		if err != nil {
			log.Warnf("⚠ %v", err)
			continue
		}
		resultLog.Infof("%s", renderResult(call, result))
	}

	return scanner.Err()
}

func printCatalog(cli *client.Client, log *logging.Console) {
	defs, err := cli.Describe()
	if err != nil {
		log.Warnf("⚠ %v", err)
		return
	}
	for _, def := range defs {
		fmt.Printf("%s - %s\n", def.Name, def.Description)
		if def.Parameters == nil || def.Parameters.Properties == nil {
			continue
		}
		for pair := def.Parameters.Properties.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Printf("  %s: %s\n", pair.Key, pair.Value.Description)
		}
	}
}
