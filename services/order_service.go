package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
)

var ErrAddressRequired = errors.New("delivery orders need a customer address")

type ComplementInput struct {
	ItemName string  `json:"item_name" binding:"required"`
	Price    float64 `json:"price" binding:"gte=0"`
}

type OrderItemInput struct {
	ProductName     string            `json:"product_name" binding:"required"`
	VariantName     *string           `json:"variant_name"`
	Quantity        int               `json:"quantity" binding:"required,gt=0"`
	TotalPrice      float64           `json:"total_price" binding:"gte=0"`
	MenuID          *string           `json:"menu_id"`
	MenuSecondaryID *string           `json:"menu_secondary_id"`
	MenuName        *string           `json:"menu_name"`
	MenuPrice       *float64          `json:"menu_price"`
	MenuTax         *float64          `json:"menu_tax"`
	Supplement      *float64          `json:"supplement"`
	Complements     []ComplementInput `json:"complements" binding:"dive"`
}

// OrderInput is the body of create and update.
type OrderInput struct {
	OrderType       string           `json:"order_type" binding:"required,oneof=delivery pickup dine-in"`
	CustomerID      *uint            `json:"customer_id"`
	CustomerName    string           `json:"customer_name" binding:"required_without=CustomerID"`
	CustomerPhone   string           `json:"customer_phone" binding:"omitempty,phone"`
	CustomerAddress models.Address   `json:"customer_address"`
	Notes           string           `json:"notes"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	Payments        []PaymentEntry   `json:"payments" binding:"dive"`
}

// OrderView is an order with everything the screens derive from it.
type OrderView struct {
	models.Order
	Total          float64       `json:"total"`
	Payment        PaymentStatus `json:"payment"`
	AddressDisplay string        `json:"address_display"`
}

func NewOrderView(o models.Order) OrderView {
	total := CalculateOrderTotal(o.Items)
	return OrderView{
		Order:          o,
		Total:          total,
		Payment:        CalculatePaymentStatus(o.PaymentType, total),
		AddressDisplay: models.FormatAddress(o.CustomerAddress),
	}
}

func NewOrderViews(orders []models.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderView(o))
	}
	return out
}

// OrderDetail is the order summary screen.
type OrderDetail struct {
	OrderView
	Summary OrderSummary `json:"summary"`
}

// OrderService stores orders and announces every change.
type OrderService struct {
	db        *gorm.DB
	Lifecycle *OrderLifecycle
	now       func() time.Time
}

func NewOrderService(db *gorm.DB, publisher kds.Publisher) *OrderService {
	return &OrderService{db: db, Lifecycle: NewOrderLifecycle(db, publisher), now: time.Now}
}

func (s *OrderService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Complements").
		Preload("Customer").
		Preload("DeliveryPerson")
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.preloaded(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns the orders passing f, newest first. The date range is applied
// in SQL, the rest in memory.
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.preloaded(ctx)
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	if f.DeliveryPersonID != nil {
		q = q.Where("delivery_person_id = ?", *f.DeliveryPersonID)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return FilterOrders(orders, f), nil
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	order := models.Order{
		Status:      models.OrderStatusPending,
		OrderType:   strings.ToLower(in.OrderType),
		PaymentType: EncodePaymentType(in.Payments),
		Notes:       in.Notes,
		Items:       buildItems(in.Items),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fillCustomer(tx, &order, in); err != nil {
			return err
		}

		next, err := s.nextOrderNumber(tx)
		if err != nil {
			return err
		}
		order.OrderID = strconv.Itoa(next)

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.Lifecycle.Publish(ctx, kds.EventOrderCreated, *created)
	return created, nil
}

// Update replaces the editable parts of an open order, items included.
func (s *OrderService) Update(ctx context.Context, id uint, in OrderInput) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if IsTerminalStatus(order.Status) {
			return fmt.Errorf("%w: order %s is %s", ErrOrderTerminal, order.OrderID, order.Status)
		}

		orderType := strings.ToLower(in.OrderType)
		if orderType != strings.ToLower(order.OrderType) && !typeEditable(order.Status) {
			return fmt.Errorf("%w: cannot change order %s to %s once it is %s",
				ErrInvalidTransition, order.OrderID, orderType, NormalizeStatus(order.Status))
		}
		order.OrderType = orderType
		order.Notes = in.Notes
		if in.Payments != nil {
			order.PaymentType = EncodePaymentType(in.Payments)
		}
		if err := fillCustomer(tx, &order, in); err != nil {
			return err
		}

		if err := deleteItems(tx, order.ID); err != nil {
			return err
		}
		items := buildItems(in.Items)
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lifecycle.Publish(ctx, kds.EventOrderUpdated, *updated)
	return updated, nil
}

// UpdatePayment stores the payments of an order and returns its new status.
func (s *OrderService) UpdatePayment(ctx context.Context, id uint, entries []PaymentEntry) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if NormalizeStatus(order.Status) == models.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: order %s is cancelled", ErrOrderTerminal, order.OrderID)
	}

	order.PaymentType = EncodePaymentType(entries)
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_type", order.PaymentType).Error; err != nil {
		return nil, err
	}

	s.Lifecycle.Publish(ctx, kds.EventPaymentUpdated, *order)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if err := deleteItems(tx, id); err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		return err
	}

	s.Lifecycle.Publish(ctx, kds.EventOrderDeleted, order)
	return nil
}

func (s *OrderService) Transition(ctx context.Context, id uint, req TransitionRequest) (*models.Order, error) {
	return s.Lifecycle.Transition(ctx, id, req)
}

// typeEditable reports whether the order type can still change: only while
// the order has not left the kitchen.
func typeEditable(status string) bool {
	switch NormalizeStatus(status) {
	case models.OrderStatusPending, models.OrderStatusSentToKitchen:
		return true
	}
	return false
}

// nextOrderNumber continues today's sequence, starting at 1 each day. The
// upsert locks the day's counter row until the transaction ends, so two
// terminals creating orders at once never get the same number.
func (s *OrderService) nextOrderNumber(tx *gorm.DB) (int, error) {
	now := s.now()
	day := now.Format("2006-01-02")

	seed, err := highestOrderNumberSince(tx, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
	if err != nil {
		return 0, err
	}

	err = tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_number": gorm.Expr("order_sequences.last_number + 1"),
		}),
	}).Create(&models.OrderSequence{Day: day, LastNumber: seed + 1}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to reserve order number: %w", err)
	}

	var seq models.OrderSequence
	if err := tx.First(&seq, "day = ?", day).Error; err != nil {
		return 0, err
	}
	return seq.LastNumber, nil
}

// highestOrderNumberSince seeds a day's counter from orders already stored.
func highestOrderNumberSince(tx *gorm.DB, start time.Time) (int, error) {
	var numbers []string
	if err := tx.Model(&models.Order{}).Where("created_at >= ?", start).Pluck("order_id", &numbers).Error; err != nil {
		return 0, err
	}

	highest := 0
	for _, raw := range numbers {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > highest {
			highest = n
		}
	}
	return highest, nil
}

// fillCustomer copies the customer onto the order, falling back to the
// stored customer for anything the request left blank.
func fillCustomer(tx *gorm.DB, order *models.Order, in OrderInput) error {
	order.CustomerID = in.CustomerID
	order.Customer = nil
	order.CustomerName = strings.TrimSpace(in.CustomerName)
	order.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	order.CustomerAddress = models.StoreAddress(in.CustomerAddress)

	if in.CustomerID != nil {
		var customer models.Customer
		if err := tx.First(&customer, *in.CustomerID).Error; err != nil {
			return fmt.Errorf("customer %d: %w", *in.CustomerID, err)
		}
		if order.CustomerName == "" {
			order.CustomerName = customer.Name
		}
		if order.CustomerPhone == "" {
			order.CustomerPhone = customer.Phone
		}
		if order.CustomerAddress == "" {
			order.CustomerAddress = customer.Address
		}
	}

	if order.IsDelivery() && order.CustomerAddress == "" {
		return ErrAddressRequired
	}
	return nil
}

func buildItems(inputs []OrderItemInput) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		item := models.OrderItem{
			ProductName:     strings.TrimSpace(in.ProductName),
			VariantName:     in.VariantName,
			Quantity:        in.Quantity,
			TotalPrice:      in.TotalPrice,
			MenuID:          in.MenuID,
			MenuSecondaryID: in.MenuSecondaryID,
			MenuName:        in.MenuName,
			MenuPrice:       in.MenuPrice,
			MenuTax:         in.MenuTax,
			Supplement:      in.Supplement,
			Complements:     make([]models.OrderItemComplement, 0, len(in.Complements)),
		}
		for _, c := range in.Complements {
			item.Complements = append(item.Complements, models.OrderItemComplement{ItemName: c.ItemName, Price: c.Price})
		}
		items = append(items, item)
	}
	return items
}

func deleteItems(tx *gorm.DB, orderID uint) error {
	var itemIDs []uint
	if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Pluck("id", &itemIDs).Error; err != nil {
		return err
	}
	if len(itemIDs) > 0 {
		if err := tx.Where("order_item_id IN ?", itemIDs).Delete(&models.OrderItemComplement{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error
}

// SortOrdersByCreation orders oldest first, the way the kitchen reads them.
func SortOrdersByCreation(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}
