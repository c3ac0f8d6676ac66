package services

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
)

func pickupInput() OrderInput {
	return OrderInput{
		OrderType:    models.OrderTypePickup,
		CustomerName: "Ana",
		Items: []OrderItemInput{
			{ProductName: "Pizza", Quantity: 1, TotalPrice: 12.5, Complements: []ComplementInput{{ItemName: "Extra cheese", Price: 1}}},
			{ProductName: "Water", Quantity: 2, TotalPrice: 3},
		},
	}
}

func TestOrderServiceCreate(t *testing.T) {
	db := setupTestDB(t)
	pub := &recordingPublisher{}
	svc := NewOrderService(db, pub)
	ctx := context.Background()

	first, err := svc.Create(ctx, pickupInput())
	require.NoError(t, err)
	assert.Equal(t, "1", first.OrderID)
	assert.Equal(t, models.OrderStatusPending, first.Status)
	assert.Equal(t, models.PaymentTypePending, first.PaymentType)
	require.Len(t, first.Items, 2)
	assert.Len(t, first.Items[0].Complements, 1)

	second, err := svc.Create(ctx, pickupInput())
	require.NoError(t, err)
	assert.Equal(t, "2", second.OrderID)

	view := NewOrderView(*second)
	assert.Equal(t, 15.5, view.Total)
	assert.Equal(t, PaymentUnpaid, view.Payment.Status)
	assert.Equal(t, []string{kds.EventOrderCreated, kds.EventOrderCreated}, pub.events())
}

func TestOrderServiceCreateDelivery(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)
	ctx := context.Background()

	in := pickupInput()
	in.OrderType = models.OrderTypeDelivery
	_, err := svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrAddressRequired)

	customer := models.Customer{Name: "Luis", Phone: "600123123", Address: "address=Sol 1|postal=28001|city=Madrid|province=Madrid"}
	require.NoError(t, db.Create(&customer).Error)

	in.CustomerName = ""
	in.CustomerID = &customer.ID
	in.Payments = []PaymentEntry{{Type: "cash", Amount: 15.5}}
	order, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Luis", order.CustomerName)
	assert.Equal(t, customer.Address, order.CustomerAddress)
	assert.Equal(t, "cash:15.50", order.PaymentType)
	assert.Equal(t, PaymentPaid, NewOrderView(*order).Payment.Status)
}

func TestOrderServiceUpdateAndPayment(t *testing.T) {
	db := setupTestDB(t)
	pub := &recordingPublisher{}
	svc := NewOrderService(db, pub)
	ctx := context.Background()

	order, err := svc.Create(ctx, pickupInput())
	require.NoError(t, err)

	in := pickupInput()
	in.Notes = "no onion"
	in.Items = []OrderItemInput{{ProductName: "Burger", Quantity: 1, TotalPrice: 9}}
	updated, err := svc.Update(ctx, order.ID, in)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Burger", updated.Items[0].ProductName)
	assert.Equal(t, "no onion", updated.Notes)

	var complements int64
	require.NoError(t, db.Model(&models.OrderItemComplement{}).Count(&complements).Error)
	assert.Zero(t, complements)

	paid, err := svc.UpdatePayment(ctx, order.ID, []PaymentEntry{{Type: "card", Amount: 5}})
	require.NoError(t, err)
	status := NewOrderView(*paid).Payment
	assert.Equal(t, PaymentPartial, status.Status)
	assert.Equal(t, 4.0, status.RemainingAmount)

	assert.Equal(t, []string{kds.EventOrderCreated, kds.EventOrderUpdated, kds.EventPaymentUpdated}, pub.events())
}

func TestOrderServiceUpdateClosedOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)
	ctx := context.Background()

	order, err := svc.Create(ctx, pickupInput())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, order.ID, TransitionRequest{Action: ActionCancel, Note: "customer left"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, order.ID, pickupInput())
	assert.ErrorIs(t, err, ErrOrderTerminal)
	_, err = svc.UpdatePayment(ctx, order.ID, []PaymentEntry{{Type: "cash", Amount: 1}})
	assert.ErrorIs(t, err, ErrOrderTerminal)
}

func TestOrderServiceListAndDelete(t *testing.T) {
	db := setupTestDB(t)
	pub := &recordingPublisher{}
	svc := NewOrderService(db, pub)
	ctx := context.Background()

	first, err := svc.Create(ctx, pickupInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, pickupInput())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, second.ID, TransitionRequest{Action: ActionSendToKitchen})
	require.NoError(t, err)

	all, err := svc.List(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	kitchen, err := svc.List(ctx, OrderFilter{Statuses: []string{models.OrderStatusSentToKitchen}})
	require.NoError(t, err)
	require.Len(t, kitchen, 1)
	assert.Equal(t, second.ID, kitchen[0].ID)

	require.NoError(t, svc.Delete(ctx, first.ID))
	_, err = svc.Get(ctx, first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var items int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", first.ID).Count(&items).Error)
	assert.Zero(t, items)
	assert.Equal(t, kds.EventOrderDeleted, pub.events()[len(pub.events())-1])
}

func deliveryInput() OrderInput {
	in := pickupInput()
	in.OrderType = models.OrderTypeDelivery
	in.CustomerAddress = models.Address{Street: "Calle Mayor 1", PostalCode: "28013", City: "Madrid", Province: "Madrid"}
	return in
}

func TestOrderServiceUpdateOrderType(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)
	ctx := context.Background()

	early, err := svc.Create(ctx, deliveryInput())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, early.ID, TransitionRequest{Action: ActionSendToKitchen})
	require.NoError(t, err)
	switched, err := svc.Update(ctx, early.ID, pickupInput())
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypePickup, switched.OrderType)

	order, err := svc.Create(ctx, deliveryInput())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, order.ID, TransitionRequest{Action: ActionSendToKitchen})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, order.ID, TransitionRequest{Action: ActionReady})
	require.NoError(t, err)

	_, err = svc.Update(ctx, order.ID, pickupInput())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	in := deliveryInput()
	in.OrderType = "DELIVERY"
	in.Notes = "ring twice"
	updated, err := svc.Update(ctx, order.ID, in)
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypeDelivery, updated.OrderType)
	assert.Equal(t, models.OrderStatusReadyForDelivery, updated.Status)
	assert.Equal(t, "ring twice", updated.Notes)
}

func TestOrderServiceConcurrentNumbers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)
	ctx := context.Background()

	const terminals = 8
	var wg sync.WaitGroup
	numbers := make(chan string, terminals)
	errs := make(chan error, terminals)
	for i := 0; i < terminals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := svc.Create(ctx, pickupInput())
			if err != nil {
				errs <- err
				return
			}
			numbers <- order.OrderID
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := map[string]bool{}
	for n := range numbers {
		assert.False(t, seen[n], "order number %s handed out twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, terminals)
	for i := 1; i <= terminals; i++ {
		assert.True(t, seen[strconv.Itoa(i)], "missing order number %d", i)
	}
}

func TestOrderNumberSeedsFromStoredOrders(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Order{
		OrderID: "41", Status: models.OrderStatusCompleted, OrderType: models.OrderTypePickup, PaymentType: "cash:5",
	}).Error)

	order, err := svc.Create(ctx, pickupInput())
	require.NoError(t, err)
	assert.Equal(t, "42", order.OrderID)

	var seq models.OrderSequence
	require.NoError(t, db.First(&seq, "day = ?", order.CreatedAt.Format("2006-01-02")).Error)
	assert.Equal(t, 42, seq.LastNumber)

	next, err := svc.Create(ctx, pickupInput())
	require.NoError(t, err)
	assert.Equal(t, "43", next.OrderID)
}
