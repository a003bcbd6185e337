// Command shopmind is the retail help assistant server: intent and category
// classification plus voice search transcription.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/andrei-vlg/shopmind/internal/config"
	"github.com/andrei-vlg/shopmind/internal/handoff"
	"github.com/andrei-vlg/shopmind/internal/health"
	"github.com/andrei-vlg/shopmind/internal/nlp"
	"github.com/andrei-vlg/shopmind/internal/nlp/encode"
	"github.com/andrei-vlg/shopmind/internal/nlp/encode/embed"
	"github.com/andrei-vlg/shopmind/internal/nlp/head"
	"github.com/andrei-vlg/shopmind/internal/nlp/lexicon"
	"github.com/andrei-vlg/shopmind/internal/observe"
	"github.com/andrei-vlg/shopmind/internal/onnx"
	"github.com/andrei-vlg/shopmind/internal/server"
	"github.com/andrei-vlg/shopmind/internal/speech"
	"github.com/andrei-vlg/shopmind/internal/speech/snap"
)

// Model artifact file names inside the configured artifact directories.
const (
	intentModelFile   = "intent_model.onnx"
	categoryModelFile = "category_model.onnx"
	sttModelFile      = "stt_model.onnx"
	sttVocabFile      = "stt_vocab.json"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "shopmind: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "shopmind: %v\n", err)
		}
		return 1
	}

	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("shopmind starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Metrics ───────────────────────────────────────────────────────────────
	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "shopmind"})
	if err != nil {
		slog.Error("failed to initialise metrics", "err", err)
		return 1
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			slog.Warn("metrics shutdown error", "err", err)
		}
	}()

	// ── ONNX runtime ──────────────────────────────────────────────────────────
	if err := onnx.Init(cfg.Speech.OnnxruntimeLib); err != nil {
		slog.Error("failed to initialise onnx runtime", "err", err)
		return 1
	}

	// ── Label store and encoders ──────────────────────────────────────────────
	store, err := lexicon.Load(cfg.NLP.ArtifactDir)
	if err != nil {
		slog.Error("failed to load label store", "err", err)
		return 1
	}

	var embedClient *embed.Client
	if cfg.NLP.Embeddings.BaseURL != "" || cfg.NLP.Embeddings.Model != "" {
		embedClient, err = embed.New(cfg.NLP.Embeddings.BaseURL, cfg.NLP.Embeddings.Model)
		if err != nil {
			slog.Warn("embeddings backend unavailable; transformer heads will fall back to rules", "err", err)
		}
	}

	intentEnc := encode.Build(store.IntentMeta, embedClient)
	categoryEnc := encode.Build(store.CategoryMeta, embedClient)

	// ── Classifier heads ──────────────────────────────────────────────────────
	intentHead, err := loadHead("intent", filepath.Join(cfg.NLP.ArtifactDir, intentModelFile), store.IntentMeta.Representation, intentEnc)
	if err != nil {
		slog.Error("failed to load head model", "head", "intent", "err", err)
		return 1
	}
	categoryHead, err := loadHead("category", filepath.Join(cfg.NLP.ArtifactDir, categoryModelFile), store.CategoryMeta.Representation, categoryEnc)
	if err != nil {
		slog.Error("failed to load head model", "head", "category", "err", err)
		return 1
	}

	// ── Admin hand-off store ──────────────────────────────────────────────────
	var (
		handoffSvc handoff.Service
		pgStore    *handoff.Store
	)
	if cfg.Handoff.PostgresDSN != "" {
		pgStore, err = handoff.NewStore(ctx, cfg.Handoff.PostgresDSN)
		if err != nil {
			slog.Error("failed to connect hand-off store", "err", err)
			return 1
		}
		defer pgStore.Close()
		handoffSvc = pgStore
	} else {
		handoffSvc = handoff.NewMemStore()
	}

	classifier := nlp.NewClassifier(store, intentEnc, categoryEnc,
		nlp.WithIntentHead(intentHead),
		nlp.WithCategoryHead(categoryHead),
		nlp.WithHandoff(handoffSvc),
	)

	// ── Speech engine (optional) ──────────────────────────────────────────────
	var speechSvc *speech.Service
	if cfg.Speech.ArtifactDir != "" {
		speechSvc, err = buildSpeech(cfg.Speech.ArtifactDir)
		if err != nil {
			slog.Error("failed to initialise speech engine", "err", err)
			return 1
		}
		defer speechSvc.Close()
	}

	// ── Health checks ─────────────────────────────────────────────────────────
	checkers := []health.Checker{
		{Name: "labels", Check: func(context.Context) error {
			if len(store.Categories) == 0 {
				return errors.New("no categories loaded")
			}
			return nil
		}},
	}
	if pgStore != nil {
		checkers = append(checkers, health.Checker{Name: "database", Check: pgStore.Ping})
	}

	srv := server.New(cfg.Server.ListenAddr, classifier, speechSvc, health.New(checkers...))

	slog.Info("server ready — press Ctrl+C to shut down")
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// loadHead loads an ONNX head when its model file exists. A missing file is
// tolerated (the rule router takes over); a file that exists but fails to
// load is a startup fault.
func loadHead(name, path, rep string, enc encode.Encoder) (*head.Head, error) {
	if _, err := os.Stat(path); err != nil {
		slog.Warn("head model not found; rule routing only", "head", name, "path", path)
		return nil, nil
	}
	return head.LoadONNX(name, path, rep, enc)
}

func buildSpeech(dir string) (*speech.Service, error) {
	tokens, err := speech.LoadTokenTable(filepath.Join(dir, sttVocabFile))
	if err != nil {
		return nil, err
	}
	lex, err := snap.Load(dir)
	if err != nil {
		return nil, err
	}
	model, err := speech.LoadONNXModel(filepath.Join(dir, sttModelFile), tokens.Size())
	if err != nil {
		return nil, err
	}
	return speech.NewService(model, tokens, lex, nil), nil
}

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
