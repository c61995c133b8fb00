package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hanifwst/klozet/internal/cart/domain"
	"github.com/hanifwst/klozet/internal/cart/infra/coupons"
	"github.com/hanifwst/klozet/internal/cartapi"
	"github.com/hanifwst/klozet/pkg/config"
	"github.com/hanifwst/klozet/pkg/logger"
	"github.com/hanifwst/klozet/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "cartapi",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	api := cartapi.NewServer(cartapi.Options{
		Products: demoProducts(),
		Coupons:  coupons.NewStatic(coupons.Defaults()...),
		Logger:   log,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/", api.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("cart api starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("cart api server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

func demoProducts() []cartapi.Product {
	return []cartapi.Product{
		{
			ID:       "shirt-1",
			Name:     "Oxford Shirt",
			ImageURL: "/img/shirt-1.jpg",
			Price:    domain.Money{Currency: "IDR", Amount: 120000},
			Stock:    25,
		},
		{
			ID:       "pant-1",
			Name:     "Chino Pant",
			ImageURL: "/img/pant-1.jpg",
			Price:    domain.Money{Currency: "IDR", Amount: 180000},
			Stock:    25,
		},
		{
			ID:       "combo-1",
			Name:     "Oxford + Chino Combo",
			ImageURL: "/img/combo-1.jpg",
			Price:    domain.Money{Currency: "IDR", Amount: 300000},
			Stock:    10,
		},
	}
}
