package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hanifwst/klozet/internal/cart/domain"
	"github.com/hanifwst/klozet/internal/cart/pricing"
)

// Store is the single source of truth for one session's cart. A guest store
// mutates device-local state synchronously; a bound store forwards every
// mutation to the gateway and replaces its state wholesale with the server's
// response. Totals are recomputed before any operation completes, so they
// never lag behind the item list.
//
// Responses are applied under a monotonic sequence number: when two requests
// are in flight and resolve out of order, the response issued later wins and
// the stale one is dropped.
type Store struct {
	gateway CartGateway
	storage GuestStorage
	coupons CouponCatalog
	log     *slog.Logger

	mu      sync.Mutex
	bound   bool
	items   []domain.CartItem
	coupon  *domain.Coupon
	totals  domain.Totals
	status  domain.Status
	lastErr error
	seq     uint64
	applied uint64
}

type Options struct {
	Gateway CartGateway
	Storage GuestStorage
	Coupons CouponCatalog
	// Bound starts the store in server-backed mode. A guest store becomes
	// bound through MergeOnLogin.
	Bound  bool
	Logger *slog.Logger
}

func NewStore(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		gateway: opts.Gateway,
		storage: opts.Storage,
		coupons: opts.Coupons,
		bound:   opts.Bound,
		status:  domain.StatusIdle,
		log:     log,
	}
}

// Snapshot returns a copy of the current cart for reading. Mutating the
// returned value has no effect on the store.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Cart{
		Items:     cloneItems(s.items),
		Coupon:    cloneCoupon(s.coupon),
		Totals:    s.totals,
		Status:    s.status,
		LastError: s.lastErr,
	}
}

// Totals returns the current derived totals, for badge and checkout reads.
func (s *Store) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Bound reports whether the store mirrors a server cart.
func (s *Store) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// Fetch hydrates the store: from guest storage for anonymous sessions, from
// the gateway for bound ones. On failure the current items are untouched.
func (s *Store) Fetch(ctx context.Context) error {
	if !s.Bound() {
		s.mu.Lock()
		defer s.mu.Unlock()
		state, err := s.storage.Load(ctx)
		if err != nil {
			err = fmt.Errorf("load guest cart: %w", err)
			s.status = domain.StatusFailed
			s.lastErr = err
			return err
		}
		s.items = state.Items
		s.coupon = state.Coupon
		s.recomputeLocked()
		s.status = domain.StatusSucceeded
		s.lastErr = nil
		return nil
	}

	seq := s.begin()
	state, err := s.gateway.FetchCart(ctx)
	if err != nil {
		return s.fail(seq, err)
	}
	s.applyState(seq, state)
	return nil
}

// AddItem appends a line, or bumps the quantity of the existing line with
// the same product and variant.
func (s *Store) AddItem(ctx context.Context, add domain.AddItem) error {
	if add.Product.ID == "" || add.Quantity < 1 || !add.Option.Valid() {
		return domain.ErrInvalidInput
	}

	if s.Bound() {
		seq := s.begin()
		items, err := s.gateway.AddItem(ctx, add)
		if err != nil {
			return s.fail(seq, err)
		}
		s.applyItems(seq, items)
		return nil
	}

	return s.guestMutate(ctx, func(state *domain.CartState) error {
		line := domain.CartItem{
			ProductID: add.Product.ID,
			Size:      add.Size,
			Color:     add.Color,
		}
		for i := range state.Items {
			if state.Items[i].SameLine(line) {
				state.Items[i].Quantity += add.Quantity
				return nil
			}
		}
		state.Items = append(state.Items, domain.CartItem{
			ID:        uuid.NewString(),
			ProductID: add.Product.ID,
			Name:      add.Product.Name,
			ImageURL:  add.Product.ImageURL,
			UnitPrice: add.Product.Price,
			Quantity:  add.Quantity,
			Size:      add.Size,
			Color:     add.Color,
			Option:    add.Option,
		})
		return nil
	})
}

// UpdateQuantity sets a line's quantity. Anything below one is a removal;
// zero and negative quantities are never stored.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int32) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, itemID)
	}

	if s.Bound() {
		seq := s.begin()
		items, err := s.gateway.SetItemQuantity(ctx, itemID, quantity)
		if err != nil {
			return s.fail(seq, err)
		}
		s.applyItems(seq, items)
		return nil
	}

	return s.guestMutate(ctx, func(state *domain.CartState) error {
		for i := range state.Items {
			if state.Items[i].ID == itemID {
				state.Items[i].Quantity = quantity
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// RemoveItem drops a line. Removing a line that is already gone succeeds.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	if s.Bound() {
		seq := s.begin()
		items, err := s.gateway.RemoveItem(ctx, itemID)
		if errors.Is(err, domain.ErrNotFound) {
			s.applyFiltered(seq, itemID)
			return nil
		}
		if err != nil {
			return s.fail(seq, err)
		}
		s.applyItems(seq, items)
		return nil
	}

	return s.guestMutate(ctx, func(state *domain.CartState) error {
		state.Items = filterItem(state.Items, itemID)
		return nil
	})
}

// ApplyCoupon validates and activates a coupon code, replacing any active
// one. An invalid code leaves the existing coupon in place.
func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrInvalidInput
	}

	if s.Bound() {
		seq := s.begin()
		state, err := s.gateway.ApplyCoupon(ctx, code)
		if err != nil {
			return s.fail(seq, err)
		}
		s.applyState(seq, state)
		return nil
	}

	coupon, err := s.coupons.Lookup(code)
	if err != nil {
		s.mu.Lock()
		s.status = domain.StatusFailed
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	return s.guestMutate(ctx, func(state *domain.CartState) error {
		state.Coupon = &coupon
		return nil
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	if s.Bound() {
		seq := s.begin()
		if err := s.gateway.ClearCart(ctx); err != nil {
			return s.fail(seq, err)
		}
		s.applyState(seq, domain.CartState{})
		return nil
	}

	return s.guestMutate(ctx, func(state *domain.CartState) error {
		state.Items = nil
		state.Coupon = nil
		return nil
	})
}

// MergeOnLogin folds the guest cart into the server cart and switches the
// store to bound mode. The gateway arbitrates duplicate lines; whatever it
// returns is the cart. Guest storage is cleared as soon as the merge
// response lands, so a second login cannot double-count the same lines.
// Callers must invoke this at most once per login transition.
func (s *Store) MergeOnLogin(ctx context.Context) error {
	s.mu.Lock()
	if s.bound {
		s.mu.Unlock()
		return fmt.Errorf("%w: cart is already bound", domain.ErrInvalidInput)
	}
	guestItems := cloneItems(s.items)
	s.status = domain.StatusLoading
	s.lastErr = nil
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	state, err := s.gateway.MergeItems(ctx, guestItems)
	if err != nil {
		return s.fail(seq, fmt.Errorf("merge guest cart: %w", err))
	}

	if s.storage != nil {
		if cerr := s.storage.Clear(ctx); cerr != nil {
			s.log.Error("clearing guest cart storage failed", slog.Any("err", cerr))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bound = true
	if seq > s.applied {
		s.applied = seq
	}
	s.items = state.Items
	s.coupon = state.Coupon
	s.recomputeLocked()
	s.status = domain.StatusSucceeded
	s.lastErr = nil
	return nil
}

// RecomputeTotals rebuilds totals from the current items and coupon. It is
// run internally after every mutation; calling it again is a no-op by
// construction.
func (s *Store) RecomputeTotals() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeLocked()
}

func (s *Store) recomputeLocked() {
	s.totals = pricing.Totals(s.items, s.coupon)
}

// begin marks an async operation in flight and hands out its sequence slot.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = domain.StatusLoading
	s.lastErr = nil
	s.seq++
	return s.seq
}

// fail records a terminal failure for one operation. Items, coupon, and
// totals stay exactly as they were. A failure that resolves after a newer
// response has been applied still reaches the caller but does not disturb
// the store's status.
func (s *Store) fail(seq uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq >= s.applied {
		s.status = domain.StatusFailed
		s.lastErr = err
	} else {
		s.log.Debug("stale cart failure ignored",
			slog.Uint64("seq", seq), slog.Uint64("applied", s.applied))
	}
	return err
}

func (s *Store) applyItems(seq uint64, items []domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		s.log.Warn("dropping stale cart response",
			slog.Uint64("seq", seq), slog.Uint64("applied", s.applied))
		return
	}
	s.applied = seq
	s.items = items
	s.recomputeLocked()
	s.status = domain.StatusSucceeded
	s.lastErr = nil
}

func (s *Store) applyState(seq uint64, state domain.CartState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		s.log.Warn("dropping stale cart response",
			slog.Uint64("seq", seq), slog.Uint64("applied", s.applied))
		return
	}
	s.applied = seq
	s.items = state.Items
	s.coupon = state.Coupon
	s.recomputeLocked()
	s.status = domain.StatusSucceeded
	s.lastErr = nil
}

// applyFiltered handles a remove that the server reports as already gone:
// the line is dropped locally and the operation counts as a success.
func (s *Store) applyFiltered(seq uint64, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		return
	}
	s.applied = seq
	s.items = filterItem(s.items, itemID)
	s.recomputeLocked()
	s.status = domain.StatusSucceeded
	s.lastErr = nil
}

// guestMutate applies a local mutation: build the next state on copies,
// persist it, then commit. If persisting fails the in-memory cart is left
// exactly as it was.
func (s *Store) guestMutate(ctx context.Context, fn func(*domain.CartState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.CartState{
		Items:  cloneItems(s.items),
		Coupon: cloneCoupon(s.coupon),
	}
	if err := fn(&next); err != nil {
		s.status = domain.StatusFailed
		s.lastErr = err
		return err
	}
	if err := s.storage.Save(ctx, next); err != nil {
		err = fmt.Errorf("persist guest cart: %w", err)
		s.status = domain.StatusFailed
		s.lastErr = err
		return err
	}
	s.items = next.Items
	s.coupon = next.Coupon
	s.recomputeLocked()
	s.status = domain.StatusSucceeded
	s.lastErr = nil
	return nil
}

func filterItem(items []domain.CartItem, itemID string) []domain.CartItem {
	out := items[:0:0]
	for _, it := range items {
		if it.ID != itemID {
			out = append(out, it)
		}
	}
	return out
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}

func cloneCoupon(c *domain.Coupon) *domain.Coupon {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}
