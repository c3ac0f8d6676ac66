package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// Lifecycle errors. Controllers answer 409 for all of them.
var (
	ErrInvalidTransition        = errors.New("invalid status transition")
	ErrOrderTerminal            = errors.New("order is already closed")
	ErrCancellationNoteRequired = errors.New("cancellation note is required")
	ErrDeliveryPersonRequired   = errors.New("delivery person is required")
	ErrNotDeliveryOrder         = errors.New("order is not a delivery order")
)

// Order actions
const (
	ActionSendToKitchen = "send-to-kitchen"
	ActionReady         = "ready"
	ActionAssign        = "assign"
	ActionDeliver       = "deliver"
	ActionComplete      = "complete"
	ActionCancel        = "cancel"
)

// TransitionRequest carries the action and whatever input it needs.
type TransitionRequest struct {
	Action           string
	DeliveryPersonID *uint
	Note             string
}

// IsLifecycleError reports whether err comes from a refused transition.
func IsLifecycleError(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrOrderTerminal) ||
		errors.Is(err, ErrCancellationNoteRequired) ||
		errors.Is(err, ErrDeliveryPersonRequired) ||
		errors.Is(err, ErrNotDeliveryOrder)
}

// NormalizeStatus lowercases and trims a status for comparison.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// IsTerminalStatus reports whether no further action is allowed.
func IsTerminalStatus(status string) bool {
	switch NormalizeStatus(status) {
	case models.OrderStatusDelivered, models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	}
	return false
}

// ApplyTransition moves order to the status the action leads to, stamping
// the matching timestamp. The order is left untouched on error.
func ApplyTransition(order *models.Order, req TransitionRequest, now time.Time) error {
	current := NormalizeStatus(order.Status)
	if IsTerminalStatus(current) {
		return fmt.Errorf("%w: order %s is %s", ErrOrderTerminal, order.OrderID, current)
	}

	invalid := func() error {
		return fmt.Errorf("%w: cannot %s an order that is %s", ErrInvalidTransition, req.Action, current)
	}

	switch req.Action {
	case ActionSendToKitchen:
		if current != models.OrderStatusPending {
			return invalid()
		}
		order.Status = models.OrderStatusSentToKitchen

	case ActionReady:
		if current != models.OrderStatusSentToKitchen {
			return invalid()
		}
		if order.IsDelivery() {
			order.Status = models.OrderStatusReadyForDelivery
		} else {
			order.Status = models.OrderStatusCompleted
		}
		order.ReadyAt = &now

	case ActionAssign:
		if !order.IsDelivery() {
			return fmt.Errorf("%w: order %s", ErrNotDeliveryOrder, order.OrderID)
		}
		if current != models.OrderStatusReadyForDelivery && current != models.OrderStatusOutForDelivery {
			return invalid()
		}
		if req.DeliveryPersonID == nil || *req.DeliveryPersonID == 0 {
			return ErrDeliveryPersonRequired
		}
		id := *req.DeliveryPersonID
		order.DeliveryPersonID = &id
		order.DeliveryPerson = nil
		order.Status = models.OrderStatusOutForDelivery
		order.AssignedAt = &now

	case ActionDeliver:
		if current != models.OrderStatusOutForDelivery {
			return invalid()
		}
		order.Status = models.OrderStatusDelivered
		order.DeliveredAt = &now

	case ActionComplete:
		if order.IsDelivery() {
			return invalid()
		}
		if current != models.OrderStatusPending && current != models.OrderStatusSentToKitchen {
			return invalid()
		}
		if order.ReadyAt == nil {
			order.ReadyAt = &now
		}
		order.Status = models.OrderStatusCompleted

	case ActionCancel:
		note := strings.TrimSpace(req.Note)
		if note == "" {
			return ErrCancellationNoteRequired
		}
		order.Status = models.OrderStatusCancelled
		order.CancellationNote = note
		order.CancelledAt = &now

	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, req.Action)
	}
	return nil
}

// OrderLifecycle applies transitions to stored orders and announces them.
type OrderLifecycle struct {
	db        *gorm.DB
	publisher kds.Publisher
	now       func() time.Time
}

func NewOrderLifecycle(db *gorm.DB, publisher kds.Publisher) *OrderLifecycle {
	if publisher == nil {
		publisher = kds.NopPublisher{}
	}
	return &OrderLifecycle{db: db, publisher: publisher, now: time.Now}
}

// Transition loads the order, applies the action and saves it in one
// transaction. The event goes out only after commit.
func (l *OrderLifecycle) Transition(ctx context.Context, orderID uint, req TransitionRequest) (*models.Order, error) {
	var order models.Order

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}

		if req.Action == ActionAssign && req.DeliveryPersonID != nil {
			var rider models.DeliveryPerson
			if err := tx.First(&rider, *req.DeliveryPersonID).Error; err != nil {
				return fmt.Errorf("delivery person %d: %w", *req.DeliveryPersonID, err)
			}
			if !rider.Active {
				return fmt.Errorf("%w: delivery person %d is inactive", ErrDeliveryPersonRequired, rider.ID)
			}
		}

		if err := ApplyTransition(&order, req, l.now()); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	if err := l.db.WithContext(ctx).
		Preload("Items.Complements").
		Preload("Customer").
		Preload("DeliveryPerson").
		First(&order, order.ID).Error; err != nil {
		return nil, err
	}

	event := kds.EventOrderStatusChanged
	if order.Status == models.OrderStatusCancelled {
		event = kds.EventOrderCancelled
	}
	l.Publish(ctx, event, order)

	utils.InfoLogger.Infof("Order %s: %s -> %s", order.OrderID, req.Action, order.Status)
	return &order, nil
}

// Publish sends an order event, logging instead of failing the caller.
func (l *OrderLifecycle) Publish(ctx context.Context, event string, order models.Order) {
	if err := l.publisher.Publish(ctx, kds.OrderEvent(event, order)); err != nil {
		utils.ErrorLogger.Errorf("Failed to publish %s for order %s: %v", event, order.OrderID, err)
	}
}
