package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/powerfulmoves/archon-tts/internal/audio"
	"github.com/powerfulmoves/archon-tts/internal/bus"
	"github.com/powerfulmoves/archon-tts/internal/capability"
	"github.com/powerfulmoves/archon-tts/internal/config"
	"github.com/powerfulmoves/archon-tts/internal/natsserver"
	"github.com/powerfulmoves/archon-tts/internal/prosody"
	"github.com/powerfulmoves/archon-tts/internal/runtime"
	"github.com/powerfulmoves/archon-tts/internal/service"
	"github.com/powerfulmoves/archon-tts/internal/sessionstore"
	"github.com/powerfulmoves/archon-tts/internal/synth"
	"github.com/powerfulmoves/archon-tts/internal/tts"
)

var version = "0.1.0-dev"

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "archon-tts.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.Telemetry.LogLevel)}))

	audio.UseFallbackFilter(cfg.Stitch.FallbackFilter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var embedded *natsserver.EmbeddedServer
	if cfg.Bus.Embedded {
		embedded, err = natsserver.Start(cfg.Bus, logger)
		if err != nil {
			logger.Error("failed to start embedded bus", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer embedded.Shutdown()
	}

	busClient, err := bus.Connect(ctx, cfg.Bus, logger)
	if err != nil {
		logger.Error("failed to connect to bus", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer busClient.Close()

	store, err := sessionstore.Open(ctx, cfg.SessionStore, logger)
	if err != nil {
		logger.Error("failed to open session store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	registry, err := capability.NewRegistry(ctx, cfg.Node, busClient, logger)
	if err != nil {
		logger.Error("failed to start capability registry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer registry.Close()

	synthesizer, err := buildSynthesizer(cfg.TTS)
	if err != nil {
		logger.Error("failed to build synthesizer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	orchestrator := synth.New(synthesizer, synth.Options{
		Prosody: prosody.Options{
			FirstChunkWords:          cfg.Prosody.FirstChunkWords,
			MaxSyllablesBeforeBreath: cfg.Prosody.MaxSyllablesBeforeBreath,
			MinWordsPerChunk:         cfg.Prosody.MinWordsPerChunk,
		},
		Concurrency: cfg.Stitch.Concurrency,
		Seed:        cfg.Stitch.Seed,
	}, logger)

	speakService := service.NewService(ctx, cfg, busClient, orchestrator, store, logger)
	if err := speakService.Start(); err != nil {
		logger.Error("failed to start speak service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer speakService.Close()

	rt := runtime.New(cfg, logger)
	rt.RegisterHealth(busClient)
	rt.RegisterHealth(registry)
	rt.RegisterHealth(speakService)

	if err := rt.Start(ctx); err != nil {
		logger.Error("runtime exited with error", slog.String("error", err.Error()))
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func buildSynthesizer(cfg config.TTSConfig) (tts.Synthesizer, error) {
	switch cfg.Mode {
	case "exec":
		return tts.NewExecSynth(cfg.Command, cfg.SampleRate)
	default:
		return tts.NewMockSynth(cfg.SampleRate), nil
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
