package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trivia-service/internal/app"
	"trivia-service/internal/config"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
	infrapg "trivia-service/internal/infra/postgres"
	infraredis "trivia-service/internal/infra/redis"
	"trivia-service/internal/notify"
	transport "trivia-service/internal/transport/http"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		// No config file: run fully in-memory for local development.
		cfg = config.Config{}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
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

	var users app.UserRepository
	var corpus app.ClueCorpus
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		db := openBun(cfg.Postgres.URL)
		defer db.Close()

		users = infrapg.NewUserRepository(db)
		pgCorpus := infrapg.NewClueCorpus(pool)
		if redisClient != nil {
			countTTL := config.TTLDuration(cfg.Clue.CountCacheTTL, 10*time.Minute)
			corpus = infraredis.NewCachedCorpus(pgCorpus, infraredis.NewMatchCountCache(redisClient, pgCorpus, countTTL))
		} else {
			corpus = pgCorpus
		}
	} else {
		users = memory.NewUserRepository()
		corpus = memory.NewClueCorpus(sampleClues())
		logger.Warn("postgres not configured, using in-memory stores")
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, defaultSessionTTL)
	var sessions app.SessionStore
	if redisClient != nil {
		sessions = infraredis.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore(sessionTTL)
	}

	var notifier notify.Notifier
	if cfg.SMTP.Addr != "" {
		notifier = notify.NewSMTPSender(cfg.SMTP.Addr, cfg.SMTP.From, cfg.Server.BaseURL, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		notifier = notify.NewLogSender(logger)
	}

	trivia := app.NewTriviaService(users, corpus, logger)
	auth := app.NewAuthService(users, logger)
	reset := app.NewPasswordResetService(users, notifier, logger)

	var google *transport.GoogleOAuth
	if cfg.Google.ClientID != "" {
		google = transport.NewGoogleOAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	}

	handler := transport.NewHandler(trivia, auth, reset, users, sessions, google, logger)
	mux := http.NewServeMux()
	handler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting trivia service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleClues gives the in-memory corpus something to serve; production runs
// seed a real dump into Postgres instead.
func sampleClues() []domain.Clue {
	return []domain.Clue{
		{Round: 1, Value: 200, Category: "ANIMALS", Answer: "This mammal is the tallest land animal", Question: "What is a giraffe?"},
		{Round: 1, Value: 400, Category: "U.S. HISTORY", Answer: "He was the first U.S. president", Question: "Who is George Washington?"},
		{Round: 2, Value: 800, Category: "SCIENCE", Answer: "The chemical symbol for gold", Question: "What is Au?"},
		{Round: 2, Value: 1600, Category: "WORLD CAPITALS", Answer: "This city is the capital of Australia", Question: "What is Canberra?"},
		{Round: 3, Value: 0, Category: "LITERATURE", Answer: "Author of \"Moby-Dick\"", Question: "Who is Herman Melville?"},
	}
}
