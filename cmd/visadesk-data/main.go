package main

import (
	"context"
	"database/sql"
	"time"

	"visadesk-data/internal/config"
	"visadesk-data/internal/database"
	httpapi "visadesk-data/internal/http"
	"visadesk-data/internal/logger"
	"visadesk-data/internal/repository"
	"visadesk-data/internal/service"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "visadesk-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var (
		employeesRepo repository.EmployeesRepository
		auditRepo     repository.AuditRepository
		db            *sql.DB
		redisClient   *redis.Client
	)

	switch cfg.Storage.Backend {
	case "postgres":
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		emps := repository.NewPostgresEmployeesRepo(db)
		audit := repository.NewPostgresAuditRepo(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := emps.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatal("failed to ensure employees schema", zap.Error(err))
		}
		if err := audit.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatal("failed to ensure audit schema", zap.Error(err))
		}
		cancel()
		employeesRepo, auditRepo = emps, audit
	case "redis":
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		employeesRepo = repository.NewRedisEmployeesRepo(redisClient)
		auditRepo = repository.NewRedisAuditRepo(redisClient)
	case "memory":
		employeesRepo = repository.NewMemoryEmployeesRepo()
		auditRepo = repository.NewMemoryAuditRepo()
	default: // file
		emps, err := repository.NewFileEmployeesRepo(cfg.Storage.DataDir)
		if err != nil {
			log.Fatal("failed to open employees store", zap.Error(err))
		}
		audit, err := repository.NewFileAuditRepo(cfg.Storage.DataDir)
		if err != nil {
			log.Fatal("failed to open audit store", zap.Error(err))
		}
		employeesRepo, auditRepo = emps, audit
	}
	log.Info("storage backend ready", zap.String("backend", cfg.Storage.Backend))

	notifier := service.NewImportNotifier(cfg.ImportWebhookURL, log)
	svc := service.NewTrackerService(employeesRepo, auditRepo, notifier, cfg.AlertDays, log)

	router := httpapi.NewRouter(log)
	router.RegisterImportRoutes(httpapi.NewImportHandler(svc, log))
	router.RegisterEmployeeRoutes(httpapi.NewEmployeeHandler(svc, log))
	router.RegisterAuditRoutes(httpapi.NewAuditHandler(svc, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)
	if err := srv.Run(); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
