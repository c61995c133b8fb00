// Package httpgw talks to the remote cart API over HTTP/JSON and maps its
// responses onto the canonical cart shapes. Everything downstream of this
// boundary is transport-agnostic.
package httpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hanifwst/klozet/internal/cart/domain"
)

// TokenSource returns the current bearer credential, or "" when the session
// is anonymous. It must not block; token acquisition lives elsewhere.
type TokenSource func() string

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(baseURL string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchCart(ctx context.Context) (domain.CartState, error) {
	var env cartEnvelope
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &env); err != nil {
		return domain.CartState{}, err
	}
	return env.Cart.toDomain(), nil
}

func (c *Client) AddItem(ctx context.Context, add domain.AddItem) ([]domain.CartItem, error) {
	body := addRequest{
		ProductID:      add.Product.ID,
		Quantity:       add.Quantity,
		Size:           add.Size,
		Color:          add.Color,
		PurchaseOption: string(add.Option),
	}
	var env cartEnvelope
	if err := c.do(ctx, http.MethodPost, "/cart/add", body, &env); err != nil {
		return nil, err
	}
	return env.Cart.toDomain().Items, nil
}

func (c *Client) SetItemQuantity(ctx context.Context, itemID string, quantity int32) ([]domain.CartItem, error) {
	body := updateRequest{Quantity: quantity}
	var env cartEnvelope
	if err := c.do(ctx, http.MethodPut, "/cart/item/"+itemID, body, &env); err != nil {
		return nil, err
	}
	return env.Cart.toDomain().Items, nil
}

func (c *Client) RemoveItem(ctx context.Context, itemID string) ([]domain.CartItem, error) {
	var env cartEnvelope
	if err := c.do(ctx, http.MethodDelete, "/cart/item/"+itemID, nil, &env); err != nil {
		return nil, err
	}
	return env.Cart.toDomain().Items, nil
}

func (c *Client) ApplyCoupon(ctx context.Context, code string) (domain.CartState, error) {
	var env cartEnvelope
	err := c.do(ctx, http.MethodPost, "/cart/coupon", couponRequest{Code: code}, &env)
	if err != nil {
		var re *ResponseError
		if errors.As(err, &re) && re.StatusCode == http.StatusBadRequest {
			return domain.CartState{}, fmt.Errorf("%w: %s", domain.ErrCouponInvalid, re.Message)
		}
		return domain.CartState{}, err
	}
	return env.Cart.toDomain(), nil
}

func (c *Client) MergeItems(ctx context.Context, items []domain.CartItem) (domain.CartState, error) {
	body := mergeRequest{Items: toWireItems(items)}
	var env cartEnvelope
	if err := c.do(ctx, http.MethodPost, "/cart/merge", body, &env); err != nil {
		return domain.CartState{}, err
	}
	return env.Cart.toDomain(), nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart/clear", nil, nil)
}

// ResponseError is a non-2xx reply that maps to no typed failure. Callers
// treat it as a transport-level error.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cart api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("cart api: status %d", e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cart api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, eb.Message)
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return &domain.StockError{
			Message:        eb.Message,
			AvailableStock: eb.AvailableStock,
			MaxAllowed:     eb.MaxAllowed,
		}
	default:
		return &ResponseError{StatusCode: resp.StatusCode, Message: eb.Message}
	}
}
