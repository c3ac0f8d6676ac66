package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// GetAllOrders -> every order, newest first
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context(), services.OrderFilter{})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", services.NewOrderViews(orders))
}

// GetOrdersByFilter -> status, type, search, date range and rider filters.
// view=kitchen|delivery applies the screen presets.
func (oc *OrderController) GetOrdersByFilter(c *gin.Context) {
	var filter services.OrderFilter
	switch c.Query("view") {
	case "kitchen":
		filter = services.KitchenFilter()
	case "delivery":
		filter = services.DeliveryFilter()
	}

	if statuses := splitQuery(c.QueryArray("status")); len(statuses) > 0 {
		filter.Statuses = statuses
	}
	if types := splitQuery(c.QueryArray("type")); len(types) > 0 {
		filter.OrderTypes = types
	}
	filter.Search = c.Query("search")

	var err error
	if filter.From, err = parseDate(c.Query("from"), false); err != nil {
		respondServiceError(c, err)
		return
	}
	if filter.To, err = parseDate(c.Query("to"), true); err != nil {
		respondServiceError(c, err)
		return
	}
	if raw := c.Query("delivery_person_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondServiceError(c, ErrInvalidID)
			return
		}
		rider := uint(id)
		filter.DeliveryPersonID = &rider
	}

	orders, err := oc.Orders.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if c.Query("view") == "kitchen" {
		services.SortOrdersByCreation(orders)
	}
	utils.RespondJSON(c, http.StatusOK, "Filtered orders", services.NewOrderViews(orders))
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", services.NewOrderView(*order))
}

// GetOrderSummary -> items split into menu groups and standalone lines, plus
// payment status
func (oc *OrderController) GetOrderSummary(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order summary", services.OrderDetail{
		OrderView: services.NewOrderView(*order),
		Summary:   services.SummarizeOrderItems(order.Items),
	})
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.OrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Infof("Order %s created (%s, %d items)", order.OrderID, order.OrderType, len(order.Items))
	utils.RespondJSON(c, http.StatusCreated, "Order created", services.NewOrderView(*order))
}

func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req services.OrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", services.NewOrderView(*order))
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := oc.Orders.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Infof("Order %d deleted by user %d", id, c.GetUint("user_id"))
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

// UpdatePayment -> body: {"payments": [{"type": "cash", "amount": 10}]}
func (oc *OrderController) UpdatePayment(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req struct {
		Payments []services.PaymentEntry `json:"payments" binding:"dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdatePayment(c.Request.Context(), id, req.Payments)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment updated", services.NewOrderView(*order))
}

// Transition returns the handler for one lifecycle action.
func (oc *OrderController) Transition(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondServiceError(c, err)
			return
		}

		var req struct {
			DeliveryPersonID *uint  `json:"delivery_person_id"`
			Note             string `json:"note"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.RespondError(c, http.StatusBadRequest, err)
				return
			}
		}

		order, err := oc.Orders.Transition(c.Request.Context(), id, services.TransitionRequest{
			Action:           action,
			DeliveryPersonID: req.DeliveryPersonID,
			Note:             req.Note,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Order "+order.Status, services.NewOrderView(*order))
	}
}

// splitQuery accepts both ?status=a&status=b and ?status=a,b.
func splitQuery(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
