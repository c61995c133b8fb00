package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifwst/klozet/internal/cart/domain"
	"github.com/hanifwst/klozet/internal/cart/pricing"
)

// The login scenario: one shirt accumulated as a guest, two already in the
// server cart. The gateway arbitrates; the store must reflect its response
// exactly, not a client-side sum.
func TestMergeOnLogin(t *testing.T) {
	ctx := context.Background()

	arbitrated := domain.CartState{
		Items: []domain.CartItem{{
			ID:        "srv-1",
			ProductID: "shirt-1",
			Name:      "Oxford Shirt",
			UnitPrice: domain.Money{Currency: "IDR", Amount: 120},
			Quantity:  3,
			Option:    domain.OptionShirt,
		}},
	}

	var sent []domain.CartItem
	gw := &fakeGateway{
		merge: func(_ context.Context, items []domain.CartItem) (domain.CartState, error) {
			sent = items
			return arbitrated, nil
		},
	}
	store, storage := guestStore(t, gw)
	require.NoError(t, store.AddItem(ctx, domain.AddItem{
		Product: shirtRef(), Quantity: 1, Option: domain.OptionShirt,
	}))

	require.NoError(t, store.MergeOnLogin(ctx))

	require.Len(t, sent, 1, "the merge request carries the guest lines")
	assert.Equal(t, int32(1), sent[0].Quantity)

	snap := store.Snapshot()
	if diff := cmp.Diff(arbitrated.Items, snap.Items, decCmp); diff != "" {
		t.Fatalf("store must mirror the merge response exactly:\n%s", diff)
	}
	assert.Equal(t, pricing.Totals(snap.Items, snap.Coupon), snap.Totals)
	assert.True(t, store.Bound())

	persisted, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted.Items, "guest storage must be empty after a successful merge")
}

func TestMergeFailureKeepsGuestCart(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("gateway down")

	gw := &fakeGateway{
		merge: func(context.Context, []domain.CartItem) (domain.CartState, error) {
			return domain.CartState{}, boom
		},
	}
	store, storage := guestStore(t, gw)
	require.NoError(t, store.AddItem(ctx, domain.AddItem{
		Product: shirtRef(), Quantity: 2, Option: domain.OptionShirt,
	}))

	require.ErrorIs(t, store.MergeOnLogin(ctx), boom)

	assert.False(t, store.Bound(), "a failed merge leaves the session anonymous")
	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int32(2), snap.Items[0].Quantity)
	assert.Equal(t, domain.StatusFailed, snap.Status)

	persisted, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted.Items, 1, "guest storage survives a failed merge")
}

func TestMergeTwiceIsRejected(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		merge: func(context.Context, []domain.CartItem) (domain.CartState, error) {
			return domain.CartState{}, nil
		},
	}
	store, _ := guestStore(t, gw)

	require.NoError(t, store.MergeOnLogin(ctx))
	require.ErrorIs(t, store.MergeOnLogin(ctx), domain.ErrInvalidInput)
}
