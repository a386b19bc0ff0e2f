package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api/handler"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/api/router"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/appcontext"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/config"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/pkg/metrics"
)

// @title shoping-mall order service
// @version 1.0
// @description 商城訂單與付款服務

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        Authorization
// @description                 Description for Authorization header: Type "Bearer" followed by a space and the token. Example: "Bearer {token}"

func main() {
	cf := config.GetConfig()

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("module", cf.ModulerName).
		Logger()

	app, err := appcontext.NewApplicationContext(cf, &logger)
	if err != nil {
		log.Fatal(err)
		return
	}

	// 初始化 handler
	orderHandler := handler.NewOrderHandler(app.OrderService)

	server := api.NewServer(orderHandler)

	serverMetrics := metrics.NewServerMetrics(cf.ModulerName)

	// 設置路由
	r := router.SetupRouter(server, cf.AuthTokenKey, &logger, serverMetrics)

	// 設定服務器參數
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cf.ServerPort),
		Handler: r,
	}

	// 設置訊號監聽
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutDonwCompleted := make(chan struct{}, 1)
	// 監聽退出訊號
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Printf("Application shutdown error: %v", err)
		}

		shutDonwCompleted <- struct{}{}
	}()

	// 啟動服務
	log.Printf("Server starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal(err)
	}
	<-shutDonwCompleted
	log.Printf("closed completed")
}
