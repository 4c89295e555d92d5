package service

import (
	"sort"
	"time"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/domain"
)

// DefaultGroupWindow is how far apart two separately-entered sales for the
// same customer may be and still land on one receipt.
const DefaultGroupWindow = 300 * time.Second

// Grouper assembles individual sale orders into per-customer receipts.
type Grouper interface {
	Group(orders []*domain.SaleOrder) []*domain.SaleGroup
}

type windowGrouper struct {
	window time.Duration
}

// NewWindowGrouper groups legacy single-line sales for the same customer
// entered within the window; consolidated orders always stand alone.
func NewWindowGrouper(window time.Duration) Grouper {
	return &windowGrouper{window: window}
}

// Group expects orders in ascending created_at order. The first order seen
// for a customer anchors its group; later legacy orders for the same name and
// phone join while within the window of the anchor. Consolidated orders are
// complete receipts already and never merge. Groups come back newest first.
func (g *windowGrouper) Group(orders []*domain.SaleOrder) []*domain.SaleGroup {
	type groupKey struct {
		name  string
		phone string
	}

	groups := []*domain.SaleGroup{}
	open := map[groupKey]*domain.SaleGroup{}

	for _, order := range orders {
		if order.IsMultiple {
			groups = append(groups, &domain.SaleGroup{
				CustomerName:  order.CustomerName,
				CustomerPhone: order.CustomerPhone,
				SoldBy:        order.SoldBy,
				CreatedAt:     order.CreatedAt,
				Orders:        []*domain.SaleOrder{order},
			})
			continue
		}

		key := groupKey{name: order.CustomerName, phone: order.CustomerPhone}
		if group, ok := open[key]; ok {
			delta := order.CreatedAt.Sub(group.CreatedAt)
			if delta < 0 {
				delta = -delta
			}
			if delta <= g.window {
				group.Orders = append(group.Orders, order)
				continue
			}
		}

		group := &domain.SaleGroup{
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			SoldBy:        order.SoldBy,
			CreatedAt:     order.CreatedAt,
			Orders:        []*domain.SaleOrder{order},
		}
		groups = append(groups, group)
		open[key] = group
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})

	return groups
}
