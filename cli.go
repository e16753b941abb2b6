package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	consolex "github.com/tanpawarit/Chative-Voice-Desk/agent/agents/console"
	llmx "github.com/tanpawarit/Chative-Voice-Desk/agent/llm"
	"github.com/tanpawarit/Chative-Voice-Desk/agent/mcpserver"
	promptx "github.com/tanpawarit/Chative-Voice-Desk/agent/prompt"
	configx "github.com/tanpawarit/Chative-Voice-Desk/pkg/config"
	logx "github.com/tanpawarit/Chative-Voice-Desk/pkg/logger"
	openrouterx "github.com/tanpawarit/Chative-Voice-Desk/pkg/openrouter"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "voice-desk",
		Usage:   "Tool backends for voice assistants",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Usage: "Path to a .env file"},
			&cli.StringFlag{Name: "assistant", Aliases: []string{"a"}, Usage: "Assistant: shopping|grocery|barista|sales|game|tutor (overrides VOICEDESK_ASSISTANT)"},
		},
		Before: func(c *cli.Context) error {
			logCfg, err := configx.New[logx.Config]("LOG", envOptions(c)...)
			if err != nil {
				return fmt.Errorf("load log config: %w", err)
			}
			logx.Init(*logCfg)
			return nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			chatCmd(),
			checkLLMCmd(),
			ordersCmd(),
		},
	}
	// Keep errors as return values so main decides how to exit.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func envOptions(c *cli.Context) []configx.Option {
	if path := strings.TrimSpace(c.String("env")); path != "" {
		return []configx.Option{configx.WithEnvFile(path)}
	}
	return nil
}

func openApp(c *cli.Context) (*deskApp, error) {
	envOpts := envOptions(c)
	cfg, kind, err := loadAppConfig(envOpts, c.String("assistant"))
	if err != nil {
		return nil, err
	}
	return buildApp(c.Context, cfg, kind, envOpts)
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

// serveCmd exposes the assistant's tools to a voice runtime over MCP.
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the assistant's tools over MCP (stdio by default)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "http", Usage: "Listen address for streamable HTTP instead of stdio, e.g. :8080"},
			&cli.StringFlag{Name: "metrics", Usage: "Listen address for the Prometheus /metrics endpoint, e.g. :9090"},
		},
		Action: func(c *cli.Context) error {
			app, err := openApp(c)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signalContext(c)
			defer stop()

			if addr := strings.TrimSpace(c.String("metrics")); addr != "" {
				go serveMetrics(ctx, addr)
			}
			if addr := strings.TrimSpace(c.String("http")); addr != "" {
				return mcpserver.RunHTTP(ctx, app.orchestrator, Version, addr)
			}
			return mcpserver.Run(app.orchestrator, Version)
		},
	}
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics endpoint stopped")
	}
}

// chatCmd drives the assistant from the terminal with an OpenRouter model.
func chatCmd() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Talk to the assistant in the terminal (text only)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-steps", Value: 8, Usage: "Maximum model turns per reply"},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signalContext(c)
			defer stop()

			app, err := openApp(c)
			if err != nil {
				return err
			}
			defer app.Close()

			llmCfg, err := configx.New[llmx.Config]("OPENROUTER", envOptions(c)...)
			if err != nil {
				return fmt.Errorf("load openrouter config: %w", err)
			}
			if err := llmCfg.Validate(); err != nil {
				return err
			}
			orCfg := llmCfg.OpenRouterFor(app.assistant)
			chatModel, err := orCfg.New(ctx)
			if err != nil {
				return err
			}

			runner, err := consolex.New(
				ctx,
				chatModel,
				app.orchestrator,
				app.orchestrator.ToolInfos(),
				promptx.LoadPromptSet().For(app.assistant),
				consolex.WithMaxSteps(c.Int("max-steps")),
			)
			if err != nil {
				return err
			}

			conv := runner.NewConversation(uuid.NewString())
			defer func() {
				_ = app.orchestrator.EndSession(context.Background(), conv.SessionID)
			}()

			out := c.App.Writer
			fmt.Fprintf(out, "%s assistant ready (session %s). Type \"exit\" to quit.\n", app.assistant, conv.SessionID)
			scanner := bufio.NewScanner(c.App.Reader)
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				reply, err := runner.Reply(ctx, conv, line)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					fmt.Fprintf(out, "error: %v\n", err)
					continue
				}
				fmt.Fprintln(out, reply)
			}
		},
	}
}

// checkLLMCmd verifies the OpenRouter key and model for the selected assistant.
func checkLLMCmd() *cli.Command {
	return &cli.Command{
		Name:  "check-llm",
		Usage: "Check the OpenRouter key and the assistant's model",
		Action: func(c *cli.Context) error {
			envOpts := envOptions(c)
			_, kind, err := loadAppConfig(envOpts, c.String("assistant"))
			if err != nil {
				return err
			}
			llmCfg, err := configx.New[llmx.Config]("OPENROUTER", envOpts...)
			if err != nil {
				return fmt.Errorf("load openrouter config: %w", err)
			}
			if err := llmCfg.Validate(); err != nil {
				return err
			}

			orCfg := llmCfg.OpenRouterFor(kind)
			if err := openrouterx.CheckModel(c.Context, orCfg); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "ok: %s uses %s\n", kind, orCfg.Model)
			return nil
		},
	}
}

// ordersCmd inspects the persisted order history.
func ordersCmd() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "Inspect persisted orders",
		Subcommands: []*cli.Command{
			{
				Name:  "last",
				Usage: "Print the most recent order",
				Action: func(c *cli.Context) error {
					cfg, kind, err := loadAppConfig(envOptions(c), c.String("assistant"))
					if err != nil {
						return err
					}
					ledger, err := buildLedger(c.Context, cfg, kind)
					if err != nil {
						return err
					}
					defer ledger.Close()

					text, err := lastOrderText(c.Context, ledger)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, text)
					return nil
				},
			},
		},
	}
}
