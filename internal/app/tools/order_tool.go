package tools

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/PabloGalante/comanda-agent/internal/domain"
	"github.com/PabloGalante/comanda-agent/internal/observability"
	"github.com/google/uuid"
)

// PlaceOrderToolName is the function name declared to the model.
const PlaceOrderToolName = "placeOrder"

// orderNumberRange bounds generated order numbers to [0, 10000).
const orderNumberRange = 10000

// PlaceOrderTool pretends to place a restaurant order. There is no kitchen
// behind it: it draws a random order number, records the order, and reports
// success. The number is cosmetic, collisions are fine.
type PlaceOrderTool struct {
	orders domain.OrderStore
	intn   func(n int) int
	now    func() time.Time
}

// NewPlaceOrderTool creates a new PlaceOrderTool. orders may be nil when
// nothing needs the placed-order log.
func NewPlaceOrderTool(orders domain.OrderStore) *PlaceOrderTool {
	return &PlaceOrderTool{
		orders: orders,
		intn:   rand.IntN,
		now:    time.Now,
	}
}

func (t *PlaceOrderTool) Name() string {
	return PlaceOrderToolName
}

func (t *PlaceOrderTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        PlaceOrderToolName,
		Description: "Places a food order for the customer. Call this once the customer has said what they want to order.",
		Parameters: domain.ParameterSchema{
			Properties: map[string]domain.PropertySpec{
				"items": {
					Type:        domain.ParamArray,
					Description: "The menu items the customer wants to order.",
					Items:       &domain.PropertySpec{Type: domain.ParamString},
				},
			},
			Required: []string{"items"},
		},
	}
}

// Call expects an input with this shape:
//
//	{"items": ["Margherita pizza", "Coke"]}
//
// Missing or empty items is reported to the model as a refusal, not as an
// error, so the model can ask the customer to clarify.
func (t *PlaceOrderTool) Call(ctx context.Context, tctx ToolContext, args map[string]any) (string, error) {
	items := stringSlice(args["items"])
	if len(items) == 0 {
		observability.LoggerFromContext(ctx).Warn().
			Str("tool", PlaceOrderToolName).
			Str("correlation_id", tctx.CorrelationID).
			Msg("order rejected: no items")
		return "Unable to place the order: no items were given.", nil
	}

	order := domain.Order{
		Number: t.intn(orderNumberRange),
		Items:  items,
	}

	if t.orders != nil {
		record := &domain.PlacedOrder{
			ID:            domain.OrderID(uuid.NewString()),
			Number:        order.Number,
			Items:         order.Items,
			CorrelationID: tctx.CorrelationID,
			PlacedAt:      t.now(),
		}
		if err := t.orders.AppendOrder(record); err != nil {
			return "", fmt.Errorf("%s: append failed: %w", PlaceOrderToolName, err)
		}
	}

	observability.LoggerFromContext(ctx).Info().
		Str("tool", PlaceOrderToolName).
		Str("correlation_id", tctx.CorrelationID).
		Int("order_number", order.Number).
		Strs("items", order.Items).
		Msg("order placed")

	return order.Confirmation(), nil
}

// --- internal helpers --- //

// stringSlice coerces a decoded JSON value into its non-empty strings.
// Function call arguments arrive as []any, tests tend to build []string.
func stringSlice(raw any) []string {
	var items []string

	appendItem := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" {
			items = append(items, v)
		}
	}

	switch list := raw.(type) {
	case []string:
		for _, item := range list {
			appendItem(item)
		}
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				appendItem(s)
			}
		}
	}

	return items
}
