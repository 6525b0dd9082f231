package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smspocoredondo/DashUPA/common/database"
	"github.com/smspocoredondo/DashUPA/common/logger"
	commonredis "github.com/smspocoredondo/DashUPA/common/redis"
	"github.com/smspocoredondo/DashUPA/internal/config"
	httpapi "github.com/smspocoredondo/DashUPA/internal/http"
	"github.com/smspocoredondo/DashUPA/internal/repository"
	"github.com/smspocoredondo/DashUPA/internal/service"
	"github.com/smspocoredondo/DashUPA/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "dashupa")
	if err != nil {
		log, _ = zap.NewProduction()
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Profiles: 内置 + 可选 YAML（文件变更时热加载）
	profiles, err := config.LoadProfiles(cfg.Analysis.ProfilesFile)
	if err != nil {
		log.Fatal("Failed to load profiles", zap.Error(err))
	}
	registry := config.NewProfileRegistry(profiles, log)
	if cfg.Analysis.ProfilesFile != "" {
		go func() {
			if err := config.WatchProfiles(ctx, cfg.Analysis.ProfilesFile, registry, log); err != nil {
				log.Warn("Profiles watcher stopped", zap.Error(err))
			}
		}()
	}

	// Dataset store: Redis（可选），不可用时使用进程内存
	var kv store.KV = store.NewMemoryKV()
	var redisClient *commonredis.Client
	if cfg.RedisEnabled {
		c := commonredis.NewRedisClient(&cfg.Redis)
		if err := commonredis.Ping(ctx, c); err == nil {
			redisClient = c
			kv = store.NewRedisKV(c)
			log.Info("Redis enabled for dataset store", zap.String("addr", cfg.Redis.Addr))
		} else {
			_ = c.Close()
			log.Warn("Redis enabled but connection failed, falling back to memory", zap.Error(err))
		}
	}
	datasets := store.NewDatasetStore(kv, cfg.Dataset.TTL)

	// Analysis history: Postgres（可选），不可用时使用内存
	var db *sql.DB
	var runs repository.RunsRepository = repository.NewMemoryRunsRepo()
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			pg := repository.NewPostgresRunsRepository(d, log)
			if err := pg.EnsureSchema(ctx); err != nil {
				log.Warn("Failed to ensure analysis_runs schema, falling back to memory", zap.Error(err))
				_ = d.Close()
			} else {
				db = d
				runs = pg
				log.Info("DB enabled for analysis history")
			}
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory", zap.Error(err))
		}
	}

	svc := service.NewAnalysisService(datasets, runs, registry, cfg.Analysis, log)

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterDatasetRoutes(httpapi.NewDatasetHandler(svc, cfg.Dataset.MaxUploadMB, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = commonredis.Close(redisClient)
	_ = database.Close(db)
}
