package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/AllieBaig/lingoquest/internal/app"
	"github.com/AllieBaig/lingoquest/internal/config"
	"github.com/AllieBaig/lingoquest/internal/dom"
	"github.com/AllieBaig/lingoquest/internal/domain"
	"github.com/AllieBaig/lingoquest/internal/events"
	"github.com/AllieBaig/lingoquest/internal/game"
	"github.com/AllieBaig/lingoquest/internal/i18n"
	"github.com/AllieBaig/lingoquest/internal/infra/memory"
	pgloader "github.com/AllieBaig/lingoquest/internal/infra/postgres"
	redisinfra "github.com/AllieBaig/lingoquest/internal/infra/redis"
	transport "github.com/AllieBaig/lingoquest/internal/transport/http"
	"github.com/AllieBaig/lingoquest/internal/worker"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pgPool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pgPool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pgPool.Close()
	}

	var loader memory.PoolLoader = memory.NewStaticPoolLoader(samplePools())
	if pgPool != nil {
		loader = pgloader.NewPoolLoader(pgPool)
	} else if cfg.Pools.SeedPath != "" {
		loader = memory.NewFilePoolLoader(cfg.Pools.SeedPath)
	}

	poolTTL := config.TTLDuration(cfg.Pools.TTL, 10*time.Minute)
	var poolRepo app.PoolRepository
	if redisClient != nil {
		poolRepo = redisinfra.NewPoolRepository(redisClient, loader, poolTTL)
	} else {
		poolRepo = memory.NewPoolRepository(loader, poolTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	bus := events.NewBus()
	defer bus.Close()

	rnd := game.NewRand()
	service := app.NewGameService(sessions, poolRepo, rnd, bus)

	pools, err := poolRepo.GetPools(ctx)
	if err != nil {
		return err
	}
	counts := make(map[domain.Category]int, len(pools))
	for cat, items := range pools {
		counts[cat] = len(items)
	}
	_ = bus.Publish(ctx, events.EventPoolsLoaded, events.PoolsLoadedPayload{Counts: counts})

	qworker := worker.New(rnd)
	if err := qworker.Initialize(pools); err != nil {
		return err
	}

	engine := i18n.NewEngine()
	if cfg.I18n.LocalesDir != "" {
		catalogs, err := i18n.LoadCatalogDir(cfg.I18n.LocalesDir)
		if err != nil {
			return err
		}
		for lang, catalog := range catalogs {
			engine.AddCatalog(lang, catalog)
		}
		if cfg.I18n.DefaultLanguage != "" {
			if err := engine.SetLanguage(cfg.I18n.DefaultLanguage); err != nil {
				log.Printf("default language %q unavailable, staying on %q: %v",
					cfg.I18n.DefaultLanguage, engine.Language(), err)
			}
		}
	}

	var prefs i18n.Store
	if redisClient != nil {
		prefs = redisinfra.NewKVStore(redisClient)
	} else {
		prefs = memory.NewKVStore()
	}

	// The HTML shell is held server-side; the translator re-translates it
	// on every language switch and "/" renders the current state.
	var shellDoc *dom.Document
	var shellTranslator *dom.Translator
	if cfg.I18n.ShellPath != "" {
		markup, err := os.ReadFile(cfg.I18n.ShellPath)
		if err != nil {
			return err
		}
		shellDoc, err = dom.ParseString(string(markup))
		if err != nil {
			return err
		}
		shellTranslator = dom.NewTranslator(shellDoc, engine)
		defer shellTranslator.StopObserving()
	}

	var applier i18n.DocumentApplier
	if shellTranslator != nil {
		applier = shellTranslator
	}
	langManager := i18n.NewManager(engine, applier, prefs, bus)
	if err := langManager.Restore(ctx); err != nil {
		log.Printf("restore language preference: %v", err)
	}

	wsHandler := transport.NewWSHandler(qworker)
	gameHandler := transport.NewGameHandler(service, langManager)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/worker", wsHandler.ServeWS)
	gameHandler.Register(mux)
	if shellDoc != nil {
		mux.Handle("/", transport.NewShellHandler(shellDoc, shellTranslator))
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting lingoquest on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// samplePools provides a minimal data set so the server runs without a
// database or seed file.
func samplePools() domain.Pools {
	return domain.Pools{
		domain.CategoryNames: {
			{ID: "n1", Name: "Asha", Difficulty: domain.DifficultyEasy},
			{ID: "n2", Name: "Ravi", Difficulty: domain.DifficultyEasy},
			{ID: "n3", Name: "Meera", Difficulty: domain.DifficultyEasy},
			{ID: "n4", Name: "Kiran", Difficulty: domain.DifficultyEasy},
		},
		domain.CategoryPlaces: {
			{ID: "p1", Name: "Agra", Difficulty: domain.DifficultyEasy},
			{ID: "p2", Name: "Pune", Difficulty: domain.DifficultyEasy},
			{ID: "p3", Name: "Goa", Difficulty: domain.DifficultyEasy},
			{ID: "p4", Name: "Delhi", Difficulty: domain.DifficultyEasy},
		},
		domain.CategoryAnimals: {
			{ID: "a1", Name: "Lion", Difficulty: domain.DifficultyEasy},
			{ID: "a2", Name: "Tiger", Difficulty: domain.DifficultyEasy},
			{ID: "a3", Name: "Zebra", Difficulty: domain.DifficultyEasy},
			{ID: "a4", Name: "Otter", Difficulty: domain.DifficultyEasy},
		},
		domain.CategoryThings: {
			{ID: "t1", Name: "Lamp", Difficulty: domain.DifficultyEasy},
			{ID: "t2", Name: "Chair", Difficulty: domain.DifficultyEasy},
			{ID: "t3", Name: "Kite", Difficulty: domain.DifficultyEasy},
			{ID: "t4", Name: "Drum", Difficulty: domain.DifficultyEasy},
		},
	}
}
