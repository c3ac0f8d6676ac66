package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
)

const topProductsLimit = 10

type MethodTotal struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

type ProductSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderAnalytics is what the reports screen shows for a date range.
// Cancelled orders are counted by status but excluded from money figures.
type OrderAnalytics struct {
	From            *time.Time     `json:"from,omitempty"`
	To              *time.Time     `json:"to,omitempty"`
	OrderCount      int            `json:"order_count"`
	CancelledCount  int            `json:"cancelled_count"`
	Revenue         float64        `json:"revenue"`
	AverageTicket   float64        `json:"average_ticket"`
	Outstanding     float64        `json:"outstanding"`
	ByStatus        map[string]int `json:"by_status"`
	ByType          map[string]int `json:"by_type"`
	ByPaymentStatus map[string]int `json:"by_payment_status"`
	PaymentMethods  []MethodTotal  `json:"payment_methods"`
	TopProducts     []ProductSales `json:"top_products"`
}

// BuildOrderAnalytics aggregates the orders created within [from, to]. Nil
// bounds are open.
func BuildOrderAnalytics(orders []models.Order, from, to *time.Time) OrderAnalytics {
	a := OrderAnalytics{
		From:            from,
		To:              to,
		ByStatus:        map[string]int{},
		ByType:          map[string]int{},
		ByPaymentStatus: map[string]int{},
		PaymentMethods:  []MethodTotal{},
		TopProducts:     []ProductSales{},
	}

	revenue := decimal.Zero
	outstanding := decimal.Zero
	methods := map[string]*MethodTotal{}
	products := map[string]int{}

	for _, o := range FilterOrders(orders, OrderFilter{From: from, To: to}) {
		a.OrderCount++
		status := NormalizeStatus(o.Status)
		a.ByStatus[status]++
		a.ByType[strings.ToLower(strings.TrimSpace(o.OrderType))]++

		if status == models.OrderStatusCancelled {
			a.CancelledCount++
			continue
		}

		total := CalculateOrderTotal(o.Items)
		revenue = revenue.Add(decimal.NewFromFloat(total))

		payment := CalculatePaymentStatus(o.PaymentType, total)
		a.ByPaymentStatus[payment.Status]++
		outstanding = outstanding.Add(decimal.NewFromFloat(payment.RemainingAmount))
		for _, e := range payment.PaymentBreakdown {
			m, ok := methods[e.Type]
			if !ok {
				m = &MethodTotal{Method: e.Type}
				methods[e.Type] = m
			}
			m.Amount = decimal.NewFromFloat(m.Amount).Add(decimal.NewFromFloat(e.Amount)).InexactFloat64()
			m.Count++
		}

		for _, item := range o.Items {
			products[item.ProductName] += item.Quantity
		}
	}

	a.Revenue = revenue.InexactFloat64()
	a.Outstanding = outstanding.InexactFloat64()
	if billed := a.OrderCount - a.CancelledCount; billed > 0 {
		a.AverageTicket = revenue.Div(decimal.NewFromInt(int64(billed))).Round(2).InexactFloat64()
	}

	for _, m := range methods {
		a.PaymentMethods = append(a.PaymentMethods, *m)
	}
	sort.Slice(a.PaymentMethods, func(i, j int) bool {
		if a.PaymentMethods[i].Amount != a.PaymentMethods[j].Amount {
			return a.PaymentMethods[i].Amount > a.PaymentMethods[j].Amount
		}
		return a.PaymentMethods[i].Method < a.PaymentMethods[j].Method
	})

	for name, qty := range products {
		a.TopProducts = append(a.TopProducts, ProductSales{Name: name, Quantity: qty})
	}
	sort.Slice(a.TopProducts, func(i, j int) bool {
		if a.TopProducts[i].Quantity != a.TopProducts[j].Quantity {
			return a.TopProducts[i].Quantity > a.TopProducts[j].Quantity
		}
		return a.TopProducts[i].Name < a.TopProducts[j].Name
	})
	if len(a.TopProducts) > topProductsLimit {
		a.TopProducts = a.TopProducts[:topProductsLimit]
	}

	return a
}

// DeliveryStats summarizes one rider's orders.
type DeliveryStats struct {
	DeliveryPersonID       uint    `json:"delivery_person_id"`
	AssignedOrders         int     `json:"assigned_orders"`
	ActiveOrders           int     `json:"active_orders"`
	DeliveredOrders        int     `json:"delivered_orders"`
	CancelledOrders        int     `json:"cancelled_orders"`
	DeliveredRevenue       float64 `json:"delivered_revenue"`
	AverageDeliveryMinutes float64 `json:"average_delivery_minutes"`
}

// BuildDeliveryStats counts the orders assigned to deliveryPersonID. Delivery
// time runs from assignment to delivery.
func BuildDeliveryStats(deliveryPersonID uint, orders []models.Order) DeliveryStats {
	stats := DeliveryStats{DeliveryPersonID: deliveryPersonID}
	revenue := decimal.Zero
	var minutes float64
	var timed int

	for _, o := range FilterOrders(orders, OrderFilter{DeliveryPersonID: &deliveryPersonID}) {
		stats.AssignedOrders++
		switch NormalizeStatus(o.Status) {
		case models.OrderStatusDelivered:
			stats.DeliveredOrders++
			revenue = revenue.Add(decimal.NewFromFloat(CalculateOrderTotal(o.Items)))
			if o.AssignedAt != nil && o.DeliveredAt != nil && o.DeliveredAt.After(*o.AssignedAt) {
				minutes += o.DeliveredAt.Sub(*o.AssignedAt).Minutes()
				timed++
			}
		case models.OrderStatusCancelled:
			stats.CancelledOrders++
		case models.OrderStatusOutForDelivery:
			stats.ActiveOrders++
		}
	}

	stats.DeliveredRevenue = revenue.InexactFloat64()
	if timed > 0 {
		stats.AverageDeliveryMinutes = decimal.NewFromFloat(minutes / float64(timed)).Round(1).InexactFloat64()
	}
	return stats
}

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// OrderAnalytics loads the orders of the range with their lines and aggregates them.
func (s *ReportService) OrderAnalytics(ctx context.Context, from, to *time.Time) (OrderAnalytics, error) {
	q := s.db.WithContext(ctx).Preload("Items")
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}

	var orders []models.Order
	if err := q.Order("created_at ASC").Find(&orders).Error; err != nil {
		return OrderAnalytics{}, err
	}
	return BuildOrderAnalytics(orders, from, to), nil
}

func (s *ReportService) DeliveryStats(ctx context.Context, deliveryPersonID uint) (DeliveryStats, error) {
	var person models.DeliveryPerson
	if err := s.db.WithContext(ctx).First(&person, deliveryPersonID).Error; err != nil {
		return DeliveryStats{}, err
	}

	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Where("delivery_person_id = ?", deliveryPersonID).
		Find(&orders).Error; err != nil {
		return DeliveryStats{}, err
	}
	return BuildDeliveryStats(deliveryPersonID, orders), nil
}
