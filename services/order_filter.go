package services

import (
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
)

// OrderFilter holds the predicates of the order list screens. Zero-valued
// fields are inactive.
type OrderFilter struct {
	Statuses         []string
	OrderTypes       []string
	Search           string
	From             *time.Time
	To               *time.Time
	DeliveryPersonID *uint
}

// KitchenFilter lists what the kitchen still has to prepare.
func KitchenFilter() OrderFilter {
	return OrderFilter{Statuses: []string{models.OrderStatusPending, models.OrderStatusSentToKitchen}}
}

// DeliveryFilter lists orders waiting for or on their way with a rider.
func DeliveryFilter() OrderFilter {
	return OrderFilter{
		Statuses:   []string{models.OrderStatusReadyForDelivery, models.OrderStatusOutForDelivery},
		OrderTypes: []string{models.OrderTypeDelivery},
	}
}

// FilterOrders returns, in input order, the orders passing every active predicate.
func FilterOrders(orders []models.Order, f OrderFilter) []models.Order {
	statuses := lowerSet(f.Statuses)
	types := lowerSet(f.OrderTypes)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if len(statuses) > 0 && !statuses[NormalizeStatus(o.Status)] {
			continue
		}
		if len(types) > 0 && !types[strings.ToLower(strings.TrimSpace(o.OrderType))] {
			continue
		}
		if f.DeliveryPersonID != nil && (o.DeliveryPersonID == nil || *o.DeliveryPersonID != *f.DeliveryPersonID) {
			continue
		}
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && o.CreatedAt.After(*f.To) {
			continue
		}
		if search != "" && !matchesSearch(o, search) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matchesSearch(o models.Order, search string) bool {
	fields := []string{o.CustomerName, o.CustomerPhone, o.OrderID}
	if o.Customer != nil {
		fields = append(fields, o.Customer.Name, o.Customer.Phone)
	}
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = true
		}
	}
	return set
}
