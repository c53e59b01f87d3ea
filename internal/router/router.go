package router

import (
	"time"

	"digitask/internal/config"
	"digitask/internal/handler"
	"digitask/internal/middleware"
	"digitask/internal/model"
	"digitask/internal/repository"
	"digitask/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires the full dependency graph: repositories over the DB, services
// over repositories, handlers over services, and routes over handlers.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, publisher service.EventPublisher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	productRepo := repository.NewProductRepository(db)
	invRepo := repository.NewInventoryRepository(db)
	movRepo := repository.NewMovementRepository(db)
	trackingRepo := repository.NewTrackingRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg)
	warehouseSvc := service.NewWarehouseService(warehouseRepo)
	productSvc := service.NewProductService(productRepo)
	stockSvc := service.NewStockService(invRepo, movRepo, warehouseRepo, productRepo, notifRepo, publisher)
	trackingSvc := service.NewTrackingService(trackingRepo, warehouseRepo, publisher)
	taskSvc := service.NewTaskService(taskRepo, stockSvc, notifRepo, publisher)
	notifSvc := service.NewNotificationService(notifRepo)
	chatSvc := service.NewChatService(chatRepo, publisher)

	// Handlers
	healthH := handler.NewHealthHandler(db, rdb)
	authH := handler.NewAuthHandler(authSvc)
	warehouseH := handler.NewWarehouseHandler(warehouseSvc)
	productH := handler.NewProductHandler(productSvc)
	stockH := handler.NewStockHandler(stockSvc)
	trackingH := handler.NewTrackingHandler(trackingSvc)
	taskH := handler.NewTaskHandler(taskSvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	chatH := handler.NewChatHandler(chatSvc)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		middleware.CORS(),
		middleware.RateLimiter(300, time.Minute),
	)

	r.GET("/health", healthH.Check)

	api := r.Group("/api")

	// Public auth endpoints
	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Everything below requires a valid token
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(cfg.JWTSecret))

	dispatcherUp := middleware.RequireRole(model.RoleDispatcher, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// User administration (admin)
	users := authed.Group("/users", adminOnly)
	{
		users.POST("", authH.CreateUser)
		users.GET("", authH.ListUsers)
		users.DELETE("/:id", authH.DeactivateUser)
	}

	// Warehouses (read: everyone; write: dispatcher/admin)
	warehouses := authed.Group("/warehouses")
	{
		warehouses.GET("", warehouseH.List)
		warehouses.GET("/:id", warehouseH.Get)
		warehouses.POST("", dispatcherUp, warehouseH.Create)
		warehouses.PUT("/:id", dispatcherUp, warehouseH.Update)
		warehouses.DELETE("/:id", adminOnly, warehouseH.Delete)
	}

	// Products (read: everyone; write: dispatcher/admin)
	products := authed.Group("/products")
	{
		products.GET("", productH.List)
		products.GET("/:id", productH.Get)
		products.POST("", dispatcherUp, productH.Create)
		products.PUT("/:id", dispatcherUp, productH.Update)
		products.DELETE("/:id", adminOnly, productH.Delete)
		products.POST("/:id/restore", adminOnly, productH.Restore)
	}

	// Inventory ledger
	stock := authed.Group("/stock")
	{
		stock.POST("/adjust", dispatcherUp, stockH.Adjust)
		stock.GET("/balances", stockH.Balances)
		stock.GET("/movements", stockH.Movements)
		stock.GET("/alerts", dispatcherUp, stockH.Alerts)
	}

	// Live tracking
	tracking := authed.Group("/tracking")
	{
		tracking.POST("/location", trackingH.RecordSample)
		tracking.POST("/presence", trackingH.SetPresence)
		tracking.GET("/live-map", dispatcherUp, trackingH.LiveMap)
		tracking.GET("/history/:user_id", dispatcherUp, trackingH.History)
		tracking.POST("/purge", adminOnly, trackingH.Purge)
	}

	// Tasks
	tasks := authed.Group("/tasks")
	{
		tasks.GET("", taskH.List)
		tasks.GET("/:id", taskH.Get)
		tasks.POST("", dispatcherUp, taskH.Create)
		tasks.PATCH("/:id/status", taskH.UpdateStatus)
		tasks.DELETE("/:id", dispatcherUp, taskH.Delete)
	}

	// Notifications
	notifications := authed.Group("/notifications")
	{
		notifications.GET("", notifH.List)
		notifications.POST("/:id/read", notifH.MarkRead)
	}

	// Group chat
	chat := authed.Group("/chat")
	{
		chat.GET("/groups", chatH.ListGroups)
		chat.POST("/groups", chatH.CreateGroup)
		chat.GET("/groups/:id/messages", chatH.Messages)
		chat.POST("/groups/:id/messages", chatH.PostMessage)
	}

	return r
}
