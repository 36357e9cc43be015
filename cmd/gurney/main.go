// Package main provides the Gurney CLI: a web-browsing agent that
// drives a browser toward a stated goal by asking an LLM for one action
// at a time.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/gurney/pkg/agent"
	"github.com/entrhq/gurney/pkg/browser"
	"github.com/entrhq/gurney/pkg/config"
	"github.com/entrhq/gurney/pkg/llm/openai"
	"github.com/entrhq/gurney/pkg/logging"
	"github.com/entrhq/gurney/pkg/run"
	"github.com/entrhq/gurney/pkg/secrets"
)

const version = "0.1.0"

// cliConfig holds command-line configuration.
type cliConfig struct {
	Prompt      string
	URL         string
	BaseURL     string
	Model       string
	APIKey      string
	ConfigFile  string
	MaxSteps    int
	NoHeadless  bool
	ShowVersion bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("Gurney v%s\n", version)
		return
	}

	if cli.Prompt == "" {
		fmt.Fprintln(os.Stderr, "error: -prompt is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	outcome, err := execute(ctx, cli)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch outcome.State {
	case run.StateSuccess:
		fmt.Printf("\nAGENT ANSWER:\n\n%s\n", outcome.Result)
	case run.StateExhausted:
		fmt.Fprintln(os.Stderr, "\nReached max steps without an answer.")
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "\nRun failed: %v\n", outcome.Err)
		os.Exit(1)
	}
}

func parseFlags() *cliConfig {
	cli := &cliConfig{}

	flag.StringVar(&cli.Prompt, "prompt", "", "Goal / task for the agent (required)")
	flag.StringVar(&cli.URL, "url", "", "Starting URL (default from config)")
	flag.StringVar(&cli.BaseURL, "base-url", "", "OpenAI-compatible API base URL (default from config)")
	flag.StringVar(&cli.Model, "model", "", "Model name (default from config)")
	flag.StringVar(&cli.APIKey, "api-key", "", "API key (default OPENAI_API_KEY)")
	flag.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (default ~/.gurney/config.yaml)")
	flag.IntVar(&cli.MaxSteps, "max-steps", 0, "Max interaction steps (default from config)")
	flag.BoolVar(&cli.NoHeadless, "no-headless", false, "Show the browser window")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Gurney - web-browsing agent powered by an OpenAI-compatible LLM\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gurney [options]\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gurney -prompt \"Find the pricing plans\"\n")
		fmt.Fprintf(os.Stderr, "  gurney -prompt \"Log in and describe the dashboard\" -no-headless\n\n")
	}

	flag.Parse()
	return cli
}

func execute(ctx context.Context, cli *cliConfig) (run.Outcome, error) {
	cfg, err := config.Load(cli.ConfigFile)
	if err != nil {
		return run.Outcome{}, err
	}

	// Flags win over config file and environment.
	if cli.BaseURL != "" {
		cfg.LLM.BaseURL = cli.BaseURL
	}
	if cli.Model != "" {
		cfg.LLM.Model = cli.Model
	}
	if cli.APIKey != "" {
		cfg.LLM.APIKey = cli.APIKey
	}

	session := run.Session{
		Goal:     cli.Prompt,
		StartURL: cli.URL,
		MaxSteps: cfg.ClampSteps(cli.MaxSteps),
	}
	if session.StartURL == "" {
		session.StartURL = cfg.StartURL
	}

	log, logErr := logging.NewLogger("cli")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", logErr)
	}
	defer log.Close()

	provider, err := openai.NewProvider(cfg.LLM.APIKey,
		openai.WithBaseURL(cfg.LLM.BaseURL),
		openai.WithModel(cfg.LLM.Model),
	)
	if err != nil {
		return run.Outcome{}, err
	}

	policy, err := run.NewNavigationPolicy(cfg.AllowedURLs)
	if err != nil {
		return run.Outcome{}, err
	}

	fmt.Printf("Navigating to %s ...\n", session.StartURL)

	b, err := browser.Launch(browser.LaunchOptions{
		Headless: !cli.NoHeadless,
		Logger:   log,
	})
	if err != nil {
		return run.Outcome{}, err
	}
	defer func() {
		if path, shotErr := b.Screenshot("exit"); shotErr == nil {
			fmt.Printf("Screenshot saved: %s\n", path)
		}
		_ = b.Close()
	}()

	if err := b.Navigate(session.StartURL); err != nil {
		return run.Outcome{}, err
	}

	runner := &run.Runner{
		Decider:  agent.New(provider, session.Goal, agent.WithLogger(log)),
		Page:     b,
		Executor: b,
		Injector: secrets.NewInjector(cfg.Credentials.Username, cfg.Credentials.Password),
		Policy:   policy,
		Log:      log,
	}

	return runner.Run(ctx, session), nil
}
