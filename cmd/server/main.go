package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	blogapi "github.com/klass-lk/blog-api"
	"github.com/klass-lk/blog-api/internal/config"
	"github.com/klass-lk/blog-api/internal/controller"
	"github.com/klass-lk/blog-api/internal/middleware"
	"github.com/klass-lk/blog-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	postService := service.NewPostService(postStore)
	postController := controller.NewPostController(postService)

	gin.SetMode(cfg.GinMode)
	server := blogapi.New().
		SetShutdownTimeout(cfg.ShutdownTimeout).
		Use(middleware.RequestID()).
		OnShutdown(func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := closeStore(closeCtx); err != nil {
				log.Printf("store close error: %v", err)
			}
		})
	if cfg.LambdaRuntime {
		server.SetRuntime(blogapi.RuntimeLambda)
	}
	if len(cfg.CORSAllowOrigins) > 0 {
		server.CustomCORS(
			cfg.CORSAllowOrigins,
			[]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			[]string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			12*time.Hour,
		)
	} else {
		server.DefaultCORS()
	}

	server.RegisterController(cfg.PostsPath, postController)

	if err := server.Start(ctx, cfg.Port); err != nil {
		log.Printf("server error: %v", err)
	}
}
