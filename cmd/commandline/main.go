package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethanbaker/tubescript/pkg/gateway"
	"github.com/ethanbaker/tubescript/pkg/history"
	"github.com/ethanbaker/tubescript/pkg/llm"
	"github.com/ethanbaker/tubescript/pkg/localstore"
	"github.com/ethanbaker/tubescript/pkg/logger"
	"github.com/ethanbaker/tubescript/pkg/orchestrator"
	"github.com/ethanbaker/tubescript/pkg/script"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/ethanbaker/tubescript/pkg/utils"
	"go.uber.org/zap"
)

const defaultApiURL = "http://localhost:8080/api"

func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	// The prompt owns stdout, so logs go to stderr at warn unless configured
	logCfg := logger.ConfigFromEnv(cfg)
	logCfg.Level = cfg.GetWithDefault("LOG_LEVEL", "warn")
	logCfg.OutputPath = cfg.GetWithDefault("LOG_OUTPUT", "stderr")
	l, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("[COMMANDLINE]: Failed to create logger: %v", err)
	}
	defer l.Sync()

	store, err := localstore.Open(cfg)
	if err != nil {
		l.Fatal("[COMMANDLINE]: Failed to open local store", zap.Error(err))
	}

	cache, err := history.Open(store, history.WithLogger(l))
	if err != nil {
		l.Fatal("[COMMANDLINE]: Failed to load history", zap.Error(err))
	}

	instructions := script.DefaultInstructions()
	if path := cfg.Get("TUBESCRIPT_INSTRUCTIONS"); path != "" {
		if instructions, err = script.LoadInstructions(utils.ExpandHome(path)); err != nil {
			l.Fatal("[COMMANDLINE]: Failed to load instructions", zap.Error(err))
		}
	}

	// Wait out the backend's whole retry budget before giving up on a call
	timeout := gateway.Budget(
		cfg.GetIntWithDefault("GATEWAY_MAX_ATTEMPTS", gateway.DefaultMaxAttempts),
		cfg.GetDurationWithDefault("LLM_TIMEOUT", llm.DefaultTimeout),
		cfg.GetDurationWithDefault("GATEWAY_RETRY_DELAY", 0),
	)
	client := sdk.NewClient(cfg.GetWithDefault("TUBESCRIPT_API_URL", defaultApiURL),
		sdk.WithApiKey(cfg.Get("API_KEY")),
		sdk.WithTimeout(max(timeout, sdk.DefaultTimeout)),
	)

	app := &cli{
		cfg:     cfg,
		client:  client,
		history: cache,
		in:      bufio.NewScanner(os.Stdin),
		out:     os.Stdout,
	}
	app.orch = orchestrator.New(client, store,
		orchestrator.WithHistory(cache),
		orchestrator.WithInstructions(instructions),
		orchestrator.WithLogger(l),
		orchestrator.WithStateObserver(app.onState),
	)

	// Start interactive session
	ctx := context.Background()
	if err := app.run(ctx); err != nil {
		l.Fatal("[COMMANDLINE]: Interactive session failed", zap.Error(err))
	}
}

// run reads commands until quit or end of input
func (a *cli) run(ctx context.Context) error {
	fmt.Fprintln(a.out, "TubeScript started. Type 'help' for commands, 'quit' to exit.")
	if !a.orch.LoggedIn() {
		fmt.Fprintln(a.out, "You are not logged in. Use 'login <email>'.")
	}

	for {
		fmt.Fprint(a.out, "\n> ")

		if !a.in.Scan() {
			break
		}

		input := strings.TrimSpace(a.in.Text())
		if input == "" {
			continue
		}

		name, args, _ := strings.Cut(input, " ")
		if name == "quit" || name == "exit" {
			break
		}

		if err := a.dispatch(ctx, strings.ToLower(name), strings.TrimSpace(args)); err != nil {
			fmt.Fprintf(a.out, "Error: %s\n", sdk.Message(err))
		}
	}

	if err := a.in.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}
