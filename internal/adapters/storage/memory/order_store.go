package memory

import (
	"sync"

	"github.com/PabloGalante/comanda-agent/internal/domain"
)

// OrderStore is a simple in-memory implementation of domain.OrderStore.
// It is NOT persistent: it holds the orders placed during this process's
// lifetime, nothing more.
type OrderStore struct {
	mu     sync.RWMutex
	orders []*domain.PlacedOrder
}

func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

// AppendOrder saves a placed order.
func (s *OrderStore) AppendOrder(order *domain.PlacedOrder) error {
	if order == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, cloneOrder(order))
	return nil
}

// ListOrders returns the last limit placed orders in placement order.
// If limit <= 0, returns all.
func (s *OrderStore) ListOrders(limit int) ([]*domain.PlacedOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := s.orders
	if limit > 0 && len(orders) > limit {
		orders = orders[len(orders)-limit:]
	}

	out := make([]*domain.PlacedOrder, len(orders))
	for i, o := range orders {
		out[i] = cloneOrder(o)
	}
	return out, nil
}

func cloneOrder(order *domain.PlacedOrder) *domain.PlacedOrder {
	c := *order
	c.Items = append([]string(nil), order.Items...)
	return &c
}
