// Package cartapi is an in-memory reference implementation of the cart API
// contract. It backs local development and gives the HTTP client tests a
// real counterparty, including stock enforcement and merge arbitration.
package cartapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hanifwst/klozet/internal/cart/app"
	"github.com/hanifwst/klozet/internal/cart/domain"
)

// Product is a catalog entry the server prices and stock-checks against.
type Product struct {
	ID       string
	Name     string
	ImageURL string
	Price    domain.Money
	Stock    int32
}

type Options struct {
	Products []Product
	Coupons  app.CouponCatalog
	Logger   *slog.Logger
}

type Server struct {
	log     *slog.Logger
	coupons app.CouponCatalog

	mu       sync.Mutex
	products map[string]Product
	carts    map[string]*userCart // keyed by bearer token
}

type userCart struct {
	items  []domain.CartItem
	coupon *domain.Coupon
}

func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	products := make(map[string]Product, len(opts.Products))
	for _, p := range opts.Products {
		products[p.ID] = p
	}
	return &Server{
		log:      log,
		coupons:  opts.Coupons,
		products: products,
		carts:    make(map[string]*userCart),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cart", s.auth(s.getCart))
	mux.HandleFunc("POST /cart/add", s.auth(s.addItem))
	mux.HandleFunc("PUT /cart/item/{id}", s.auth(s.updateItem))
	mux.HandleFunc("DELETE /cart/item/{id}", s.auth(s.removeItem))
	mux.HandleFunc("POST /cart/coupon", s.auth(s.applyCoupon))
	mux.HandleFunc("POST /cart/merge", s.auth(s.merge))
	mux.HandleFunc("DELETE /cart/clear", s.auth(s.clear))
	return mux
}

type authedHandler func(w http.ResponseWriter, r *http.Request, cart *userCart)

// auth resolves the bearer token to its cart. Tokens are opaque here; any
// non-empty token owns exactly one cart.
func (s *Server) auth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, errorBody{Message: "missing bearer token"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		cart, ok := s.carts[token]
		if !ok {
			cart = &userCart{}
			s.carts[token] = cart
		}
		next(w, r, cart)
	}
}

func (s *Server) getCart(w http.ResponseWriter, _ *http.Request, cart *userCart) {
	writeCart(w, http.StatusOK, cart.items, cart.coupon, true)
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request, cart *userCart) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "malformed request body"})
		return
	}
	if req.Quantity < 1 || !domain.PurchaseOption(req.PurchaseOption).Valid() {
		writeError(w, http.StatusBadRequest, errorBody{Message: "invalid quantity or purchase option"})
		return
	}

	product, ok := s.products[req.ProductID]
	if !ok {
		writeError(w, http.StatusNotFound, errorBody{Message: "unknown product: " + req.ProductID})
		return
	}

	probe := domain.CartItem{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
	for i := range cart.items {
		if cart.items[i].SameLine(probe) {
			if cart.items[i].Quantity+req.Quantity > product.Stock {
				writeError(w, http.StatusConflict, errorBody{
					Message:        "insufficient stock",
					AvailableStock: product.Stock - cart.items[i].Quantity,
				})
				return
			}
			cart.items[i].Quantity += req.Quantity
			writeCart(w, http.StatusOK, cart.items, nil, false)
			return
		}
	}

	if req.Quantity > product.Stock {
		writeError(w, http.StatusConflict, errorBody{
			Message:        "insufficient stock",
			AvailableStock: product.Stock,
		})
		return
	}
	cart.items = append(cart.items, domain.CartItem{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		UnitPrice: product.Price,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
		Option:    domain.PurchaseOption(req.PurchaseOption),
	})
	writeCart(w, http.StatusOK, cart.items, nil, false)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request, cart *userCart) {
	itemID := r.PathValue("id")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "malformed request body"})
		return
	}

	for i := range cart.items {
		if cart.items[i].ID != itemID {
			continue
		}
		if req.Quantity < 1 {
			cart.items = append(cart.items[:i], cart.items[i+1:]...)
			writeCart(w, http.StatusOK, cart.items, nil, false)
			return
		}
		if p, ok := s.products[cart.items[i].ProductID]; ok && req.Quantity > p.Stock {
			writeError(w, http.StatusConflict, errorBody{
				Message:        "insufficient stock",
				AvailableStock: p.Stock,
				MaxAllowed:     p.Stock,
			})
			return
		}
		cart.items[i].Quantity = req.Quantity
		writeCart(w, http.StatusOK, cart.items, nil, false)
		return
	}
	writeError(w, http.StatusNotFound, errorBody{Message: "no such cart item: " + itemID})
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request, cart *userCart) {
	itemID := r.PathValue("id")
	for i := range cart.items {
		if cart.items[i].ID == itemID {
			cart.items = append(cart.items[:i], cart.items[i+1:]...)
			writeCart(w, http.StatusOK, cart.items, nil, false)
			return
		}
	}
	writeError(w, http.StatusNotFound, errorBody{Message: "no such cart item: " + itemID})
}

func (s *Server) applyCoupon(w http.ResponseWriter, r *http.Request, cart *userCart) {
	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "malformed request body"})
		return
	}

	coupon, err := s.coupons.Lookup(req.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "invalid coupon code: " + req.Code})
		return
	}
	cart.coupon = &coupon
	writeCart(w, http.StatusOK, cart.items, cart.coupon, true)
}

// merge folds an anonymous cart into this one. Duplicate lines (same
// product, size, color) sum their quantities; every line is clamped to
// catalog stock. The response is the authoritative post-merge cart.
func (s *Server) merge(w http.ResponseWriter, r *http.Request, cart *userCart) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Message: "malformed request body"})
		return
	}

incoming:
	for _, in := range req.Items {
		line := domain.CartItem{ProductID: in.ProductID, Size: in.Size, Color: in.Color}
		for i := range cart.items {
			if cart.items[i].SameLine(line) {
				cart.items[i].Quantity += in.Quantity
				continue incoming
			}
		}
		cart.items = append(cart.items, domain.CartItem{
			ID:        uuid.NewString(),
			ProductID: in.ProductID,
			Name:      in.Name,
			ImageURL:  in.Image,
			UnitPrice: domain.Money{Currency: in.Currency, Amount: in.Price},
			Quantity:  in.Quantity,
			Size:      in.Size,
			Color:     in.Color,
			Option:    domain.PurchaseOption(in.PurchaseOption),
		})
	}

	for i := range cart.items {
		if p, ok := s.products[cart.items[i].ProductID]; ok && cart.items[i].Quantity > p.Stock {
			cart.items[i].Quantity = p.Stock
		}
	}

	s.log.Info("merged guest cart",
		slog.Int("incoming", len(req.Items)), slog.Int("lines", len(cart.items)))
	writeCart(w, http.StatusOK, cart.items, cart.coupon, true)
}

func (s *Server) clear(w http.ResponseWriter, _ *http.Request, cart *userCart) {
	cart.items = nil
	cart.coupon = nil
	w.WriteHeader(http.StatusNoContent)
}
