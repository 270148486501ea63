package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/unogame/internal/config"
	"github.com/mcoot/unogame/internal/dependencies/clock"
	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/events"
	"github.com/mcoot/unogame/internal/services/bot"
	"github.com/mcoot/unogame/internal/services/deck"
	"github.com/mcoot/unogame/internal/services/game"
	"github.com/mcoot/unogame/internal/services/rules"
	"github.com/mcoot/unogame/internal/services/scoring"
	"github.com/mcoot/unogame/internal/storage"
	"github.com/mcoot/unogame/internal/storage/archive"
	"github.com/mcoot/unogame/internal/storage/memory"
	redisstorage "github.com/mcoot/unogame/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Archive *archive.Archive

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Deck           *deck.Engine
	ScoringService *scoring.Service
	Executor       *rules.Executor
	Pipelines      *rules.PipelineCache
	GameController *game.Controller
	BotService     *bot.Service
	HubManager     *events.HubManager
	Publisher      *events.Publisher

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ArchivePath is the sqlite results database. Defaults to ":memory:".
	ArchivePath string
	// StrictEffects rejects effects naming unknown fields instead of dropping them
	StrictEffects bool
	// HandSize and DrawToMatchLimit fall back to the engine defaults when zero
	HandSize         int
	DrawToMatchLimit int
}

// FromConfig builds a factory Config from the server configuration
func FromConfig(cfg config.Config, logger *slog.Logger) Config {
	out := Config{
		Logger:           logger,
		StorageType:      cfg.Storage.Type,
		ArchivePath:      cfg.Archive.Path,
		StrictEffects:    cfg.Engine.StrictEffects,
		HandSize:         cfg.Engine.HandSize,
		DrawToMatchLimit: cfg.Engine.DrawToMatchLimit,
	}
	if cfg.Storage.Type == config.StorageTypeRedis {
		out.RedisConfig = &redisstorage.Config{
			URL:          cfg.Storage.Redis.URL,
			PoolSize:     cfg.Storage.Redis.PoolSize,
			MinIdleConns: cfg.Storage.Redis.MinIdleConns,
			GameTTL:      cfg.Storage.Redis.GameTTL,
			MaxTxRetries: cfg.Storage.Redis.MaxTxRetries,
		}
	}
	return out
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	var closers []io.Closer
	switch cfg.StorageType {
	case "", config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory' or 'redis'", cfg.StorageType)
	}

	archivePath := cfg.ArchivePath
	if archivePath == "" {
		archivePath = ":memory:"
	}
	results, err := archive.Open(archivePath)
	if err != nil {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, err
	}

	app := newWithDependencies(store, results, clock.New(), random.New(), cfg, logger)
	app.closers = append(closers, results)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, results *archive.Archive, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	deckEngine := deck.NewEngine(deck.NewCache(), rnd, cfg.DrawToMatchLimit, logger)
	scoringService := scoring.New()
	executor := rules.NewExecutor(rules.NewAggregator(rules.NewFieldValidator(cfg.StrictEffects, logger)), logger)
	pipelines := rules.NewPipelineCache()
	hubManager := events.NewHubManager(logger)
	publisher := events.NewPublisher(hubManager, logger)

	gameController := game.NewController(game.Deps{
		Storage:   store,
		Deck:      deckEngine,
		Scoring:   scoringService,
		Executor:  executor,
		Pipelines: pipelines,
		Publisher: publisher,
		Archive:   results,
		Clock:     clk,
		Random:    rnd,
		HandSize:  cfg.HandSize,
		Logger:    logger,
	})
	botService := bot.NewService(gameController, map[string]bot.Strategy{
		bot.StrategyRandom: bot.NewRandomStrategy(rnd),
		bot.StrategyGreedy: bot.NewGreedyStrategy(),
	}, rnd, logger)

	return &App{
		Storage:        store,
		Archive:        results,
		Clock:          clk,
		Random:         rnd,
		Deck:           deckEngine,
		ScoringService: scoringService,
		Executor:       executor,
		Pipelines:      pipelines,
		GameController: gameController,
		BotService:     botService,
		HubManager:     hubManager,
		Publisher:      publisher,
	}
}

// Close disconnects event streams and releases storage connections
func (a *App) Close() error {
	a.HubManager.Close()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
