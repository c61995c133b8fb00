package app_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifwst/klozet/internal/cart/app"
	"github.com/hanifwst/klozet/internal/cart/domain"
	"github.com/hanifwst/klozet/internal/cart/infra/coupons"
	"github.com/hanifwst/klozet/internal/cart/infra/httpgw"
	"github.com/hanifwst/klozet/internal/cart/infra/localstore"
	"github.com/hanifwst/klozet/internal/cart/pricing"
	"github.com/hanifwst/klozet/internal/cartapi"
)

// Full stack: file-backed guest cart, real HTTP client, in-process cart API.
func newEngine(t *testing.T) (*app.Store, *localstore.FileStore, *httpgw.Client) {
	t.Helper()

	api := cartapi.NewServer(cartapi.Options{
		Products: []cartapi.Product{
			{ID: "shirt-1", Name: "Oxford Shirt", Price: domain.Money{Currency: "IDR", Amount: 120}, Stock: 3},
			{ID: "pant-1", Name: "Chino Pant", Price: domain.Money{Currency: "IDR", Amount: 180}, Stock: 10},
		},
		Coupons: coupons.NewStatic(coupons.Defaults()...),
	})
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	token := "session-token"
	client := httpgw.NewClient(srv.URL, func() string { return token })
	storage := localstore.NewFileStore(filepath.Join(t.TempDir(), "guest-cart.json"))

	store := app.NewStore(app.Options{
		Gateway: client,
		Storage: storage,
		Coupons: coupons.NewStatic(coupons.Defaults()...),
	})
	return store, storage, client
}

func TestGuestToBoundLifecycle(t *testing.T) {
	ctx := context.Background()
	store, storage, client := newEngine(t)

	// Anonymous browsing: one shirt in the device-local cart.
	require.NoError(t, store.Fetch(ctx))
	require.NoError(t, store.AddItem(ctx, domain.AddItem{
		Product:  domain.ProductRef{ID: "shirt-1", Name: "Oxford Shirt", Price: domain.Money{Currency: "IDR", Amount: 120}},
		Quantity: 1,
		Size:     "M",
		Color:    "white",
		Option:   domain.OptionShirt,
	}))

	// The same user already has two shirts in their server cart.
	_, err := client.AddItem(ctx, domain.AddItem{
		Product:  domain.ProductRef{ID: "shirt-1"},
		Quantity: 2,
		Size:     "M",
		Color:    "white",
		Option:   domain.OptionShirt,
	})
	require.NoError(t, err)

	// Login: the server arbitrates the merge.
	require.NoError(t, store.MergeOnLogin(ctx))
	require.True(t, store.Bound())

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int32(3), snap.Items[0].Quantity, "store reflects the merge response, not a client-side sum")
	assert.Equal(t, pricing.Totals(snap.Items, snap.Coupon), snap.Totals)

	persisted, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted.Items, "guest storage is emptied by the merge")

	// Bound mutations flow through the server.
	itemID := snap.Items[0].ID
	require.NoError(t, store.UpdateQuantity(ctx, itemID, 2))
	assert.Equal(t, int32(2), store.Snapshot().Items[0].Quantity)

	err = store.UpdateQuantity(ctx, itemID, 99)
	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int32(3), se.MaxAllowed)
	assert.Equal(t, int32(2), store.Snapshot().Items[0].Quantity, "rejected update is never applied")

	require.NoError(t, store.ApplyCoupon(ctx, "WELCOME10"))
	snap = store.Snapshot()
	require.NotNil(t, snap.Coupon)
	assert.Equal(t, pricing.Totals(snap.Items, snap.Coupon), snap.Totals)

	require.NoError(t, store.Clear(ctx))
	snap = store.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.Totals.Total)
}

func TestGuestCartSurvivesRestart(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "guest-cart.json")
	storage := localstore.NewFileStore(path)
	catalog := coupons.NewStatic(coupons.Defaults()...)

	first := app.NewStore(app.Options{Storage: storage, Coupons: catalog})
	require.NoError(t, first.Fetch(ctx))
	require.NoError(t, first.AddItem(ctx, domain.AddItem{
		Product:  domain.ProductRef{ID: "pant-1", Name: "Chino", Price: domain.Money{Currency: "IDR", Amount: 180}},
		Quantity: 2,
		Option:   domain.OptionPant,
	}))

	// A new session over the same device storage sees the same cart.
	second := app.NewStore(app.Options{Storage: storage, Coupons: catalog})
	require.NoError(t, second.Fetch(ctx))

	snap := second.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int32(2), snap.Items[0].Quantity)
	assert.Equal(t, int64(360), snap.Totals.Total)
}
