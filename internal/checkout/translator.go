package checkout

import (
	"fmt"

	"github.com/karthikeyavasudha/clotherr/internal/domain"
)

// BuildOrderPayload converts the cart lines and shipping address into the
// order submission body. Pure: no side effects, safe to call repeatedly on
// the same input. Each item carries the line's unit price as the
// price-at-purchase snapshot; the catalog is not consulted again, so later
// price changes cannot alter an order already being placed.
func BuildOrderPayload(lines []domain.CartLine, addr domain.Address) domain.OrderPayload {
	items := make([]domain.OrderItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		total += line.Subtotal()
		items = append(items, domain.OrderItem{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.UnitPrice,
		})
	}

	return domain.OrderPayload{
		TotalAmount: total,
		// The order record keeps the short single-line form. Line2 and
		// country are collected on the form but not part of it.
		ShippingAddress: fmt.Sprintf("%s, %s, %s %s", addr.AddressLine1, addr.City, addr.State, addr.PostalCode),
		Status:          domain.OrderStatusPending,
		Items:           items,
	}
}
