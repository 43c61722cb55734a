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

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/truthortrap/trap-server-go/internal/challenge"
	"github.com/truthortrap/trap-server-go/internal/config"
	"github.com/truthortrap/trap-server-go/internal/game"
	"github.com/truthortrap/trap-server-go/internal/game/rules"
	"github.com/truthortrap/trap-server-go/internal/server"
	"github.com/truthortrap/trap-server-go/internal/session"
	"github.com/truthortrap/trap-server-go/internal/storage"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Truth or Trap server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path, logger)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()

	var src rules.Source
	if cfg.Game.Seed != 0 {
		src = rules.NewSeeded(cfg.Game.Seed)
		logger.Info("using fixed random seed", zap.Uint64("seed", cfg.Game.Seed))
	} else {
		src = rules.NewSeeded(uint64(time.Now().UnixNano()))
	}

	provider, closeProvider, err := buildProvider(ctx, cfg.Challenges, src, logger)
	if err != nil {
		logger.Fatal("failed to initialize challenge provider", zap.Error(err))
	}
	defer closeProvider()

	replays := game.NewReplayRecorder(logger.Named("replay"), cfg.Storage.ReplayDir)

	sess := session.New(ctx, session.Options{
		Logger:        logger.Named("session"),
		Source:        src,
		Provider:      provider,
		Store:         store,
		Replays:       replays,
		SnapshotKey:   cfg.Storage.SnapshotKey,
		Language:      cfg.Language(),
		Difficulty:    cfg.Difficulty(),
		AutoAdvance:   cfg.Game.AutoAdvance,
		PickDelay:     cfg.Game.PickDelay,
		RevealDelay:   cfg.Game.RevealDelay,
		LookupTimeout: cfg.Challenges.LookupTimeout,
	})
	logger.Info("session initialized",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("auto_advance", cfg.Game.AutoAdvance),
	)

	hub := server.NewHub(sess, logger.Named("hub"))
	hubCtx, stopHub := context.WithCancel(ctx)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(hubCtx)
	}()

	srv := server.New(sess, hub, logger.Named("http"), cfg.Server.HTTP.RequestTimeout)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTP.Address,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.HTTP.ReadTimeout,
		WriteTimeout:      cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:       cfg.Server.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", zap.String("address", cfg.Server.HTTP.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serveErr:
		logger.Error("HTTP server error", zap.Error(err))
	}

	logger.Info("shutting down gracefully...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}

	stopHub()
	<-hubDone
	if err := sess.Close(); err != nil {
		logger.Warn("failed to close session", zap.Error(err))
	}
	cancel()

	logger.Info("Truth or Trap server stopped")
}

// buildProvider assembles the challenge chain: the generative provider first when
// enabled, then the static corpus.
func buildProvider(ctx context.Context, cfg config.ChallengesConfig, src rules.Source, logger *zap.Logger) (challenge.Provider, func(), error) {
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	chain := challenge.NewChain(logger.Named("challenges"))

	if cfg.AI.Enabled {
		client, err := challenge.DialGemini(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() { _ = client.Close() })
		chain.Add("gemini", challenge.NewGeminiProvider(client, challenge.Setting(cfg.AI.Setting), cfg.AI.Timeout, logger.Named("gemini")))
		logger.Info("generative challenges enabled", zap.String("model", cfg.AI.Model))
	}

	corpus, err := loadCorpus(ctx, cfg)
	if err != nil {
		closeAll()
		return nil, func() {}, err
	}
	chain.Add("static", challenge.NewStaticProvider(corpus, src, logger.Named("static")))
	logger.Info("challenge corpus loaded",
		zap.String("source", cfg.Source),
		zap.Int("entries", corpus.Len()),
	)

	return chain, closeAll, nil
}

func loadCorpus(ctx context.Context, cfg config.ChallengesConfig) (*challenge.Corpus, error) {
	switch cfg.Source {
	case config.SourceFile:
		return challenge.LoadCorpusFile(cfg.File)
	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		return challenge.LoadCorpusDB(ctx, pool)
	default:
		return challenge.EmbeddedCorpus()
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
