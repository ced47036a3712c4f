package orders

import (
	"context"

	"github.com/PabloGalante/comanda-agent/internal/domain"
)

// Service holds the logic of reading placed orders
type Service struct {
	store domain.OrderStore
}

// NewService creates an orders service from an OrderStore
func NewService(store domain.OrderStore) *Service {
	return &Service{
		store: store,
	}
}

// List returns the last `limit` placed orders.
// If limit <= 0, a reasonable default value is used.
func (s *Service) List(ctx context.Context, limit int) ([]*domain.PlacedOrder, error) {
	if limit <= 0 {
		limit = 20
	}

	return s.store.ListOrders(limit)
}
