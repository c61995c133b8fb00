// Smoke tool for the cart engine: wires the full stack from env config,
// hydrates the session's cart, and prints a summary.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hanifwst/klozet/internal/cart/app"
	"github.com/hanifwst/klozet/internal/cart/infra/coupons"
	"github.com/hanifwst/klozet/internal/cart/infra/httpgw"
	"github.com/hanifwst/klozet/internal/cart/infra/localstore"
	"github.com/hanifwst/klozet/pkg/config"
	"github.com/hanifwst/klozet/pkg/logger"
	"github.com/hanifwst/klozet/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	client := httpgw.NewClient(cfg.CartAPIURL,
		func() string { return cfg.CartToken },
		httpgw.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		}),
	)

	store := app.NewStore(app.Options{
		Gateway: client,
		Storage: localstore.NewFileStore(cfg.GuestCartPath),
		Coupons: coupons.NewStatic(coupons.Defaults()...),
		Bound:   cfg.CartToken != "",
		Logger:  log,
	})

	if err := store.Fetch(ctx); err != nil {
		log.Error("fetch cart failed", slog.Any("err", err))
		os.Exit(1)
	}

	snap := store.Snapshot()
	log.Info("cart",
		slog.Bool("bound", store.Bound()),
		slog.Int("lines", len(snap.Items)),
		slog.Int("items", int(snap.Totals.ItemCount)),
		slog.String("currency", snap.Totals.Currency),
		slog.Int64("subtotal", snap.Totals.Subtotal),
		slog.Int64("discount", snap.Totals.Discount),
		slog.Int64("total", snap.Totals.Total),
	)
}
