package main

import (
	"context"

	"github.com/hirewise/hirewise/internal/ai"
	"github.com/hirewise/hirewise/internal/cache"
	"github.com/hirewise/hirewise/internal/cloudinary"
	"github.com/hirewise/hirewise/internal/config"
	"github.com/hirewise/hirewise/internal/database"
	"github.com/hirewise/hirewise/internal/email"
	"github.com/hirewise/hirewise/internal/github"
	"github.com/hirewise/hirewise/internal/handler"
	"github.com/hirewise/hirewise/internal/interview"
	"github.com/hirewise/hirewise/internal/logger"
	"github.com/hirewise/hirewise/internal/matching"
	"github.com/hirewise/hirewise/internal/repository"
	"github.com/hirewise/hirewise/internal/sourcing"
	"github.com/hirewise/hirewise/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type application struct {
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Logger  *zap.Logger
	Config  *config.Config
	Repo    *repository.Repository
	Pool    *worker.Pool
	Handler *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded: %s", cfg)

	pool, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()

	rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(ctx, rdb); err != nil {
		sugar.Warnw("redis unreachable, view counters and rate limiting degraded", "err", err)
	}
	defer rdb.Close()

	provider, err := ai.NewFromConfig(cfg.AI)
	if err != nil {
		sugar.Fatal(err)
	}

	repo := repository.NewRepository(pool)
	tasks := worker.New(log, 4)
	defer tasks.Stop()
	storage := cloudinary.NewClient(cfg.Cloudinary)

	h := &handler.Handler{
		Logger:     log,
		Repo:       repo,
		Redis:      rdb,
		Provider:   provider,
		Storage:    storage,
		Email:      email.NewSender(cfg.SMTP, log),
		Interviews: interview.NewService(provider, repo, log, cfg.Interview.DeadlineTTL),
		Matching:   matching.NewService(provider, storage, repo, repo, log),
		Sourcing:   sourcing.NewService(github.NewClient(cfg.GitHub.Token, cfg.GitHub.Timeout), provider, repo, repo, log),
		Pool:       tasks,
		Cfg:        cfg,
	}

	app := &application{
		DB:      pool,
		Redis:   rdb,
		Logger:  log,
		Config:  cfg,
		Repo:    repo,
		Pool:    tasks,
		Handler: h,
	}

	app.startJanitor(ctx)

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
