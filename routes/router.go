package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowhr/flowhr/config"
	"github.com/flowhr/flowhr/controllers"
	"github.com/flowhr/flowhr/gamification"
	"github.com/flowhr/flowhr/middleware"
	"github.com/flowhr/flowhr/utils"
)

// Engine bundles the gamification collaborators the router hands to
// controllers. main constructs it once at boot.
type Engine struct {
	Cache      *gamification.VerificationCache
	Processor  *gamification.Processor
	Aggregator *gamification.Aggregator
	Store      *gamification.GormStore
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, engine Engine) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	employeeController := controllers.NewEmployeeController(db, engine.Processor)
	timeClockController := controllers.NewTimeClockController(db, engine.Processor)
	messageController := controllers.NewMessageController(db, engine.Processor)
	announcementController := controllers.NewAnnouncementController(db, engine.Processor)
	documentController := controllers.NewDocumentController(db, engine.Processor)
	taskController := controllers.NewTaskController(db, engine.Processor)
	gamificationController := controllers.NewGamificationController(db, engine.Processor, engine.Aggregator, engine.Store, engine.Cache)
	notificationController := controllers.NewNotificationController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/employees", employeeController.List)
	protected.GET("/employees/:id", employeeController.Get)
	protected.PATCH("/employees/:id", employeeController.Update)
	protected.POST("/employees", middleware.AdminRequired(), employeeController.Create)
	protected.DELETE("/employees/:id", middleware.AdminRequired(), employeeController.Deactivate)

	protected.POST("/timeclock/check-in", timeClockController.CheckIn)
	protected.POST("/timeclock/check-out", timeClockController.CheckOut)
	protected.GET("/timeclock/today", timeClockController.Today)

	protected.POST("/messages", messageController.Send)
	protected.GET("/messages", messageController.List)

	protected.GET("/announcements", announcementController.List)
	protected.POST("/announcements", middleware.AdminRequired(), announcementController.Create)
	protected.POST("/announcements/:id/read", announcementController.MarkRead)

	protected.GET("/documents", documentController.List)
	protected.POST("/documents", middleware.AdminRequired(), documentController.Create)
	protected.POST("/documents/:id/view", documentController.View)

	protected.GET("/tasks", taskController.List)
	protected.POST("/tasks", middleware.AdminRequired(), taskController.Create)
	protected.POST("/tasks/:id/complete", taskController.Complete)

	protected.POST("/gamification/actions", gamificationController.ProcessAction)
	protected.GET("/gamification/me", gamificationController.Me)
	protected.GET("/gamification/badges", gamificationController.Badges)
	protected.GET("/gamification/badges/next", gamificationController.NextBadges)
	protected.POST("/gamification/recompute", gamificationController.Recompute)
	protected.GET("/gamification/leaderboard", gamificationController.Leaderboard)
	protected.GET("/gamification/debug", middleware.AdminRequired(), gamificationController.Debug)

	protected.GET("/notifications", notificationController.List)
	protected.POST("/notifications/:id/read", notificationController.MarkRead)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
