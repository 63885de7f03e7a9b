package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"todoapp/internal/config"
	"todoapp/internal/db"
	"todoapp/internal/handler"
	"todoapp/internal/httpserver"
	redisclient "todoapp/internal/redis"
	"todoapp/internal/repository"
	"todoapp/internal/service/auth"
	"todoapp/internal/service/todo"
	"todoapp/internal/session"
	"todoapp/pkg/logger"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}
	if cfg.Session.Secret == config.InsecureDefaultSecret {
		log.Warn("SESSION_SECRET not set, using insecure default; do not run this in production")
	}

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.Migrate(context.Background(), dbConn, log); err != nil {
		log.Fatal("DB migration failed", zap.Error(err))
	}

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	// Init session store
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	sessions := session.NewStore(rdb, cfg.Session.Secret, sessionTTL)

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn)
	listRepo := repository.NewListRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)

	// Init Services
	authService := auth.NewService(userRepo, sessions)
	todoService := todo.NewService(listRepo, taskRepo)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService, sessionTTL, log)
	homeHandler := handler.NewHomeHandler(todoService, log)
	listHandler := handler.NewListHandler(todoService, log)
	taskHandler := handler.NewTaskHandler(todoService, log)

	// Router
	router := httpserver.NewRouter(
		authHandler,
		homeHandler,
		listHandler,
		taskHandler,
		sessions,
		log,
		dbConn,
		rdb,
	)

	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
