// Package main provides the Gurney HTTP server, suitable for running
// as a containerized service. Each POST /run launches an isolated
// browser session, executes the agent loop to completion, and returns
// the outcome.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/gurney/pkg/agent"
	"github.com/entrhq/gurney/pkg/browser"
	"github.com/entrhq/gurney/pkg/config"
	"github.com/entrhq/gurney/pkg/llm/openai"
	"github.com/entrhq/gurney/pkg/logging"
	"github.com/entrhq/gurney/pkg/run"
	"github.com/entrhq/gurney/pkg/secrets"
	"github.com/entrhq/gurney/pkg/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		addr       string
		configFile string
	)
	flag.StringVar(&addr, "addr", defaultAddr(), "Listen address")
	flag.StringVar(&configFile, "config", "", "Path to configuration file (default ~/.gurney/config.yaml)")
	flag.Parse()

	if err := serve(addr, configFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// defaultAddr honors the PORT convention of container platforms.
func defaultAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

func serve(addr, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log, logErr := logging.NewLogger("server")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", logErr)
	}
	defer log.Close()

	provider, err := openai.NewProvider(cfg.LLM.APIKey,
		openai.WithBaseURL(cfg.LLM.BaseURL),
		openai.WithModel(cfg.LLM.Model),
	)
	if err != nil {
		return err
	}

	policy, err := run.NewNavigationPolicy(cfg.AllowedURLs)
	if err != nil {
		return err
	}

	injector := secrets.NewInjector(cfg.Credentials.Username, cfg.Credentials.Password)

	runFn := func(ctx context.Context, session run.Session) run.Outcome {
		b, err := browser.Launch(browser.LaunchOptions{Headless: true, Logger: log})
		if err != nil {
			return run.Outcome{State: run.StateFatal, Err: err}
		}
		defer func() {
			_, _ = b.Screenshot("exit")
			_ = b.Close()
		}()

		if err := b.Navigate(session.StartURL); err != nil {
			return run.Outcome{State: run.StateFatal, Err: err}
		}

		runner := &run.Runner{
			Decider:  agent.New(provider, session.Goal, agent.WithLogger(log)),
			Page:     b,
			Executor: b,
			Injector: injector,
			Policy:   policy,
			Log:      log,
		}
		return runner.Run(ctx, session)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: server.New(cfg, runFn, log).Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		fmt.Printf("Gurney server listening on %s\n", addr)
		errChan <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Infof("received %v, shutting down", sig)
		fmt.Println("\nShutting down gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
