package localstore

import (
	"context"
	"sync"

	"github.com/hanifwst/klozet/internal/cart/domain"
)

// Memory is an in-process GuestStorage, used in tests and as a fallback when
// no storage path is configured.
type Memory struct {
	mu    sync.Mutex
	state domain.CartState
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (domain.CartState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *Memory) Save(_ context.Context, state domain.CartState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = domain.CartState{}
	return nil
}
