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
	"vex-storefront/internal/client"
	"vex-storefront/internal/config"
	"vex-storefront/internal/handler"
	"vex-storefront/internal/repository"
	"vex-storefront/internal/server"
	"vex-storefront/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitSqliteClient(cfg.DatabasePath)
	catalogClient := client.NewCatalogClient(&cfg.Catalog)
	gateway := client.NewSimulatedGateway()

	storageRepo := repository.NewStorageRepository(db)
	catalogRepo := repository.NewCatalogRepository(storageRepo)
	orderRepo := repository.NewOrderRepository(storageRepo)
	cartRepo := repository.NewCartRepository(storageRepo)

	notifier := service.NewLogNotifier()
	gate := service.NewConfirmGate()

	catalogStore := service.NewCatalogStore(catalogRepo, catalogClient, gate, notifier)
	orderLog := service.NewOrderLog(orderRepo)
	checkout := service.NewCheckout(cartRepo, orderLog, gateway, notifier)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), cfg.Catalog.FetchTimeout)
	catalogStore.Load(loadCtx)
	loadCancel()

	catalogHandler := handler.NewCatalogHandler(catalogStore, gate)
	orderHandler := handler.NewOrderHandler(orderLog)
	checkoutHandler := handler.NewCheckoutHandler(checkout, cartRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(catalogHandler, orderHandler, checkoutHandler)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
