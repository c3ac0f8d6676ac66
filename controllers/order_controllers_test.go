package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
)

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	r := newRouter(models.RoleStaff)
	orderCtrl := controllers.NewOrderController(services.NewOrderService(db, kds.NopPublisher{}))
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/filter", orderCtrl.GetOrdersByFilter)
	r.GET("/orders/:id", orderCtrl.GetOrderByID)
	r.GET("/orders/:id/summary", orderCtrl.GetOrderSummary)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.PUT("/orders/:id", orderCtrl.UpdateOrder)
	r.DELETE("/orders/:id", orderCtrl.DeleteOrder)
	r.PUT("/orders/:id/payment", orderCtrl.UpdatePayment)
	r.POST("/orders/:id/send-to-kitchen", orderCtrl.Transition(services.ActionSendToKitchen))
	r.POST("/orders/:id/ready", orderCtrl.Transition(services.ActionReady))
	r.POST("/orders/:id/cancel", orderCtrl.Transition(services.ActionCancel))
	return r
}

func menuOrderPayload() map[string]interface{} {
	return map[string]interface{}{
		"order_type":    "pickup",
		"customer_name": "Ana",
		"items": []map[string]interface{}{
			{"product_name": "Burger", "quantity": 1, "total_price": 0, "menu_id": "M1", "menu_secondary_id": "1",
				"menu_name": "Lunch", "menu_price": 10, "menu_tax": 1, "supplement": 0.5},
			{"product_name": "Fries", "quantity": 1, "total_price": 0, "menu_id": "M1", "menu_secondary_id": "1",
				"menu_name": "Lunch", "menu_price": 10, "menu_tax": 1},
			{"product_name": "Cola", "quantity": 2, "total_price": 4},
		},
	}
}

type orderResponse struct {
	ID      uint                   `json:"id"`
	OrderID string                 `json:"order_id"`
	Status  string                 `json:"status"`
	Total   float64                `json:"total"`
	Payment services.PaymentStatus `json:"payment"`
}

func TestCreateAndGetOrder(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)

	w, env := doJSON(t, r, http.MethodPost, "/orders", menuOrderPayload())
	require.Equal(t, http.StatusCreated, w.Code, env.Error)

	var created orderResponse
	decode(t, env.Data, &created)
	assert.Equal(t, "1", created.OrderID)
	assert.Equal(t, models.OrderStatusPending, created.Status)
	assert.Equal(t, 15.5, created.Total)
	assert.Equal(t, services.PaymentUnpaid, created.Payment.Status)

	w, env = doJSON(t, r, http.MethodGet, "/orders/1/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Summary services.OrderSummary `json:"summary"`
	}
	decode(t, env.Data, &detail)
	require.Len(t, detail.Summary.Groups, 1)
	assert.Equal(t, 2, len(detail.Summary.Groups[0].Items))
	assert.Len(t, detail.Summary.NonMenuItems, 1)

	w, _ = doJSON(t, r, http.MethodGet, "/orders/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)

	w, env := doJSON(t, r, http.MethodPost, "/orders", map[string]interface{}{"order_type": "takeaway", "customer_name": "Ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation failed", env.Error)
	assert.Contains(t, env.Fields, "order_type")
	assert.Contains(t, env.Fields, "items")

	payload := menuOrderPayload()
	payload["order_type"] = "delivery"
	w, env = doJSON(t, r, http.MethodPost, "/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.ErrAddressRequired.Error(), env.Error)
}

func TestOrderPaymentAndLifecycle(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)

	w, _ := doJSON(t, r, http.MethodPost, "/orders", menuOrderPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodPut, "/orders/1/payment", map[string]interface{}{
		"payments": []map[string]interface{}{{"type": "cash", "amount": 10}, {"type": "card", "amount": 5.5}},
	})
	require.Equal(t, http.StatusOK, w.Code, env.Error)
	var paid orderResponse
	decode(t, env.Data, &paid)
	assert.Equal(t, services.PaymentPaid, paid.Payment.Status)
	assert.Len(t, paid.Payment.PaymentBreakdown, 2)

	w, _ = doJSON(t, r, http.MethodPost, "/orders/1/ready", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/orders/1/send-to-kitchen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = doJSON(t, r, http.MethodPost, "/orders/1/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ready orderResponse
	decode(t, env.Data, &ready)
	assert.Equal(t, models.OrderStatusCompleted, ready.Status)

	w, _ = doJSON(t, r, http.MethodPut, "/orders/1", menuOrderPayload())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelRequiresNote(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)

	w, _ := doJSON(t, r, http.MethodPost, "/orders", menuOrderPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/orders/1/cancel", map[string]string{"note": ""})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.ErrCancellationNoteRequired.Error(), env.Error)

	w, _ = doJSON(t, r, http.MethodPost, "/orders/1/cancel", map[string]string{"note": "duplicate"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetOrdersByFilter(t *testing.T) {
	db := setupTestDB(t)
	r := setupOrderRouter(db)

	for _, name := range []string{"Ana", "Luis", "Marta"} {
		payload := menuOrderPayload()
		payload["customer_name"] = name
		w, _ := doJSON(t, r, http.MethodPost, "/orders", payload)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, _ := doJSON(t, r, http.MethodPost, "/orders/2/send-to-kitchen", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []orderResponse
	w, env := doJSON(t, r, http.MethodGet, "/orders/filter?status=sent%20to%20kitchen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, uint(2), orders[0].ID)

	w, env = doJSON(t, r, http.MethodGet, "/orders/filter?view=kitchen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &orders)
	assert.Len(t, orders, 3)

	w, env = doJSON(t, r, http.MethodGet, "/orders/filter?search=mar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, uint(3), orders[0].ID)

	w, _ = doJSON(t, r, http.MethodGet, "/orders/filter?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/orders/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = doJSON(t, r, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &orders)
	assert.Len(t, orders, 2)
}
