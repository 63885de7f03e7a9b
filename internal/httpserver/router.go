package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"todoapp/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	homeHandler *handler.HomeHandler,
	listHandler *handler.ListHandler,
	taskHandler *handler.TaskHandler,
	sessions SessionResolver,
	logger *zap.Logger,
	db *pgxpool.Pool,
	rdb *redis.Client,
) *Router {
	r := gin.Default()

	r.Use(requestLogger(logger))
	r.Use(requestMetrics())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(500, gin.H{"status": "redis_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(SessionMiddleware(sessions))

	// Page routes; these branch on the session themselves.
	r.GET("/", homeHandler.Home)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// JSON API; login required.
	api := r.Group("/")
	api.Use(RequireUser())
	{
		api.POST("/create-list", listHandler.CreateList)
		api.POST("/delete-list/:list_id", listHandler.DeleteList)
		api.GET("/get-tasks-for-list/:list_id", taskHandler.GetTasksForList)
		api.POST("/add-task", taskHandler.AddTask)
		api.POST("/toggle-task/:task_id", taskHandler.ToggleTask)
		api.POST("/delete-task/:task_id", taskHandler.DeleteTask)
		api.POST("/update-task-text/:task_id", taskHandler.UpdateTaskText)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
