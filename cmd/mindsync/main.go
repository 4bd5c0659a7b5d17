package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/mindsync/internal/api"
	"github.com/alexanderramin/mindsync/internal/assessment"
	"github.com/alexanderramin/mindsync/internal/cache"
	"github.com/alexanderramin/mindsync/internal/cli"
	"github.com/alexanderramin/mindsync/internal/config"
	"github.com/alexanderramin/mindsync/internal/conversation"
	"github.com/alexanderramin/mindsync/internal/db"
	"github.com/alexanderramin/mindsync/internal/intelligence"
	"github.com/alexanderramin/mindsync/internal/lexicon"
	"github.com/alexanderramin/mindsync/internal/llm"
	"github.com/alexanderramin/mindsync/internal/observability"
	"github.com/alexanderramin/mindsync/internal/repository"
	"github.com/alexanderramin/mindsync/internal/triage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		if lex, err = lexicon.Load(cfg.LexiconPath); err != nil {
			return fmt.Errorf("loading lexicon: %w", err)
		}
	}

	// Wire repositories
	sessionRepo := repository.NewSQLiteChatSessionRepo(database)
	messageRepo := repository.NewSQLiteMessageRepo(database)
	screeningRepo := repository.NewSQLiteScreeningRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// The model-backed classifier and companion are only wired when the LLM is enabled.
	classifierOpts := []triage.Option{triage.WithLogger(logger)}
	usecases := observability.NewLogUseCaseObserver(logger)
	convOpts := []conversation.Option{
		conversation.WithHistoryLimit(cfg.HistoryLimit),
		conversation.WithObserver(usecases),
	}

	llmCfg := llm.LoadConfig()
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(logger)
		}
		llmClient, err := llm.NewClient(ctx, llmCfg, observer)
		if err != nil {
			return fmt.Errorf("creating llm client: %w", err)
		}
		classifierOpts = append(classifierOpts, triage.WithExternal(intelligence.NewSentimentService(llmClient)))
		convOpts = append(convOpts, conversation.WithCompanion(intelligence.NewCompanionService(llmClient)))
	}

	screeningCache, closeCache, err := openScreeningCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	classifier := triage.NewClassifier(lex, classifierOpts...)
	conv := conversation.NewService(classifier, sessionRepo, messageRepo, uow, convOpts...)
	screenings := assessment.NewService(screeningCache, screeningRepo, assessment.WithObserver(usecases))

	app := &cli.App{
		Classifier:   classifier,
		Conversation: conv,
		Screenings:   screenings,
		DefaultAddr:  cfg.Addr,
	}

	// Detect interactive terminal for the menu and prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context, addr string) error {
		handler := api.NewRouter(&api.Container{
			Classifier:   classifier,
			Conversation: conv,
			Screenings:   screenings,
			Logger:       logger,
		})
		return api.Serve(ctx, addr, handler, logger)
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// openScreeningCache returns the in-progress screening store selected by
// cfg and a function releasing it.
func openScreeningCache(ctx context.Context, cfg config.Config) (cache.ScreeningCache, func(), error) {
	if cfg.ScreeningStore != config.StoreRedis {
		return cache.NewMemoryCache(cfg.ScreeningTTL), func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	return cache.NewRedisCache(client, cfg.ScreeningTTL), func() { _ = client.Close() }, nil
}
