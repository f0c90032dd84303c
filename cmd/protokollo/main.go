// Command protokollo is the main entry point for the Protokollo meeting
// analysis bot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/protokollo/protokollo/internal/config"
	discordbot "github.com/protokollo/protokollo/internal/discord"
	"github.com/protokollo/protokollo/internal/discord/commands"
	"github.com/protokollo/protokollo/internal/health"
	"github.com/protokollo/protokollo/internal/media"
	"github.com/protokollo/protokollo/internal/observe"
	"github.com/protokollo/protokollo/internal/pipeline"
	"github.com/protokollo/protokollo/internal/report"
	"github.com/protokollo/protokollo/internal/session"
	"github.com/protokollo/protokollo/pkg/provider/llm"
	"github.com/protokollo/protokollo/pkg/provider/llm/anyllm"
	oaillm "github.com/protokollo/protokollo/pkg/provider/llm/openai"
	"github.com/protokollo/protokollo/pkg/provider/stt"
	"github.com/protokollo/protokollo/pkg/provider/stt/deepgram"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "protokollo: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "protokollo: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("protokollo starting",
		"config", *configPath,
		"health_addr", cfg.Server.HealthAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "protokollo"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Media collaborators ───────────────────────────────────────────────────
	downloader, err := media.NewDownloader(cfg.Pipeline.WorkDir, logger,
		media.WithMaxDownloadBytes(cfg.Pipeline.MaxDownloadBytes))
	if err != nil {
		slog.Error("failed to create downloader", "err", err)
		return 1
	}
	converter := media.NewConverter(cfg.Pipeline.WorkDir, logger)

	// ── Providers ─────────────────────────────────────────────────────────────
	sttProvider, err := buildSTT(cfg.Providers.STT)
	if err != nil {
		slog.Error("failed to create stt provider", "name", cfg.Providers.STT.Name, "err", err)
		return 1
	}
	slog.Info("provider created", "kind", "stt", "name", sttProvider.Name())

	llmProvider, err := buildLLM(cfg.Providers.LLM)
	if err != nil {
		slog.Error("failed to create llm provider", "name", cfg.Providers.LLM.Name, "err", err)
		return 1
	}
	slog.Info("provider created", "kind", "llm", "name", llmProvider.Name())

	// ── Pipeline ──────────────────────────────────────────────────────────────
	renderer := &report.Renderer{
		FontDir: cfg.Reports.FontDir,
		Log:     logger,
	}

	runner, err := pipeline.NewRunner(downloader, converter, sttProvider, llmProvider, renderer, logger,
		pipeline.WithMetrics(observe.NewPipelineMetrics(metrics)),
		pipeline.WithTimeouts(pipeline.Timeouts{
			Download:   cfg.Pipeline.DownloadTimeout.Std(),
			Transcribe: cfg.Pipeline.TranscribeTimeout.Std(),
			Analyze:    cfg.Pipeline.AnalyzeTimeout.Std(),
		}),
		pipeline.WithMaxChunkBytes(cfg.Pipeline.MaxChunkBytes),
	)
	if err != nil {
		slog.Error("failed to wire pipeline", "err", err)
		return 1
	}

	// ── Discord bot ───────────────────────────────────────────────────────────
	bot, err := discordbot.New(ctx, discordbot.Config{
		Token:   cfg.Discord.Token,
		GuildID: cfg.Discord.GuildID,
	})
	if err != nil {
		slog.Error("failed to create Discord bot", "err", err)
		return 1
	}
	slog.Info("discord bot connected", "guild_id", cfg.Discord.GuildID)

	if _, err := commands.New(commands.Config{
		Bot:             bot,
		Store:           session.NewStore(),
		Runner:          runner,
		DefaultLanguage: cfg.Reports.DefaultLanguage,
		Metrics:         metrics,
		Log:             logger,
	}); err != nil {
		slog.Error("failed to register commands", "err", err)
		return 1
	}

	// ── Health server ─────────────────────────────────────────────────────────
	var healthSrv *http.Server
	if cfg.Server.HealthAddr != "" {
		healthSrv = health.NewServer(cfg.Server.HealthAddr,
			health.Checker{Name: "discord", Check: func(context.Context) error {
				if !bot.Ready() {
					return errors.New("gateway not connected")
				}
				return nil
			}},
			health.Checker{Name: "workdir", Check: func(context.Context) error {
				_, err := os.Stat(cfg.Pipeline.WorkDir)
				return err
			}},
			health.Checker{Name: "fonts", Check: func(context.Context) error {
				if cfg.Reports.FontDir == "" {
					return nil // core-font fallback is a supported mode
				}
				_, err := os.Stat(cfg.Reports.FontDir)
				return err
			}},
		)
		go func() {
			if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("health server error", "err", err)
			}
		}()
		slog.Info("health server listening", "addr", cfg.Server.HealthAddr)
	}

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg)
	slog.Info("bot ready — press Ctrl+C to shut down")

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slog.Info("shutdown signal received, stopping…")

	if err := bot.Close(); err != nil {
		slog.Warn("discord bot close error", "err", err)
	}
	if healthSrv != nil {
		if err := healthSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("health server shutdown error", "err", err)
		}
	}

	slog.Info("goodbye")
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// buildSTT constructs the speech-to-text provider named in the config.
func buildSTT(entry config.ProviderEntry) (stt.Provider, error) {
	switch entry.Name {
	case "deepgram":
		var opts []deepgram.Option
		if entry.Model != "" {
			opts = append(opts, deepgram.WithModel(entry.Model))
		}
		if entry.BaseURL != "" {
			opts = append(opts, deepgram.WithEndpoint(entry.BaseURL))
		}
		return deepgram.New(entry.APIKey, opts...)
	default:
		return nil, fmt.Errorf("unknown stt provider %q", entry.Name)
	}
}

// buildLLM constructs the analysis provider named in the config. "openai"
// uses the native client for its JSON response mode; everything else goes
// through the any-llm multiplexer.
func buildLLM(entry config.ProviderEntry) (llm.Provider, error) {
	switch entry.Name {
	case "openai":
		var opts []oaillm.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaillm.WithBaseURL(entry.BaseURL))
		}
		return oaillm.New(entry.APIKey, entry.Model, opts...)

	case "anthropic", "gemini", "ollama", "deepseek", "mistral", "groq", "llamacpp", "llamafile":
		var opts []anyllmlib.Option
		if entry.APIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
		}
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.New(entry.Name, entry.Model, opts...)

	default:
		return nil, fmt.Errorf("unknown llm provider %q", entry.Name)
	}
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║        Protokollo — startup summary   ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printProvider("STT", cfg.Providers.STT.Name, cfg.Providers.STT.Model)
	printProvider("LLM", cfg.Providers.LLM.Name, cfg.Providers.LLM.Model)
	printValue("Guild", cfg.Discord.GuildID)
	printValue("Work dir", cfg.Pipeline.WorkDir)
	printValue("Font dir", cfg.Reports.FontDir)
	printValue("Default lang", cfg.Reports.DefaultLanguage)
	printValue("Health addr", cfg.Server.HealthAddr)
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printProvider(kind, name, model string) {
	value := name
	if value == "" {
		value = "(not configured)"
	} else if model != "" {
		value = name + " / " + model
	}
	printValue(kind, value)
}

func printValue(kind, value string) {
	if value == "" {
		value = "(not set)"
	}
	if len([]rune(value)) > 19 {
		value = string([]rune(value)[:16]) + "…"
	}
	fmt.Printf("║  %-14s  : %-19s ║\n", kind, value)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
