package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"report-desk/internal/clipboard"
	"report-desk/internal/config"
	"report-desk/internal/editor"
	"report-desk/internal/handler"
	"report-desk/internal/logger"
	"report-desk/internal/middleware"
	"report-desk/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := service.Migrate(db); err != nil {
		slog.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	authSvc := service.NewAuthService(db)
	store := service.NewReportStore(db)
	parser := service.NewTaskParser(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)
	if cfg.AI.BaseURL == "" {
		slog.Warn("ai parser not configured, using deterministic fallback only")
	}

	var clip editor.Clipboard
	if cfg.Editor.Clipboard {
		clip = clipboard.New()
	}

	authH := handler.NewAuthHandler(authSvc)
	reportH := handler.NewReportHandler(store, authSvc)
	editorH := handler.NewEditorHandler(store, authSvc, parser, clip,
		time.Duration(cfg.Editor.AutosaveMS)*time.Millisecond)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.POST("/api/auth/signup", authH.Signup)
	r.POST("/api/auth/login", authH.Login)

	api := r.Group("/api", middleware.JWTAuth())
	api.GET("/auth/me", authH.Me)
	api.GET("/auth/palette", authH.Palette)
	api.PUT("/auth/user/:id", authH.UpdateUser)

	api.GET("/reports", reportH.List)
	api.POST("/reports", reportH.Save)
	api.DELETE("/reports/:id", reportH.Delete)
	api.GET("/reports/:id/render", reportH.Render)

	ed := api.Group("/editor")
	ed.POST("/open", editorH.Open)
	ed.GET("/:id", editorH.Get)
	ed.POST("/:id/close", editorH.Close)
	ed.POST("/:id/tasks/start", editorH.StartTask)
	ed.POST("/:id/tasks/parse", editorH.ParseTask)
	ed.POST("/:id/tasks/import", editorH.ImportTask)
	ed.POST("/:id/tasks/:taskId/stop", editorH.StopTask)
	ed.PUT("/:id/tasks/:taskId", editorH.EditTask)
	ed.DELETE("/:id/tasks/:taskId", editorH.RemoveTask)
	ed.POST("/:id/planning", editorH.AddPlanning)
	ed.PUT("/:id/planning/:entryId", editorH.EditPlanning)
	ed.DELETE("/:id/planning/:entryId", editorH.RemovePlanning)
	ed.PUT("/:id/meta", editorH.SetMeta)
	ed.GET("/:id/history", editorH.History)
	ed.GET("/:id/preview", editorH.Preview)
	ed.POST("/:id/dispatch", editorH.Dispatch)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
