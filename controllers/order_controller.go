package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pizzeria-service/middlewares"
	"pizzeria-service/models"
	"pizzeria-service/orders"
)

func (h *Handler) ListOrders(c *gin.Context) {
	defer middlewares.RecordOperation(c, "list")

	sales, err := h.store.ListOrders(c.Request.Context(), h.opts.OrdersLimit)
	if err != nil {
		storeError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// CreateOrder stores a sale finalized by a client. Missing bookkeeping fields
// are filled in the way the checkout pipeline would.
func (h *Handler) CreateOrder(c *gin.Context) {
	defer middlewares.RecordOperation(c, "create")

	var sale models.SaleRecord
	if err := c.ShouldBindJSON(&sale); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(sale.ID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order id is required"})
		return
	}
	if sale.Total < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Total cannot be negative"})
		return
	}
	if sale.Status == "" {
		sale.Status = models.StatusReceived
	}
	if !sale.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": orders.ErrUnknownStatus.Error()})
		return
	}
	if sale.PaymentMethod == "" {
		sale.PaymentMethod = models.PaymentCash
	}
	if sale.Timestamp == 0 {
		sale.Timestamp = h.now().UnixMilli()
	}
	if sale.ZoneName == "" {
		sale.ZoneName = models.PickupZoneName
	}
	if sale.Items == nil {
		sale.Items = []models.CartItem{}
	}
	if sale.ItemsDetail == "" {
		sale.ItemsDetail = orders.ItemsDetail(sale.Items)
	}
	sale.ItemsCount = len(sale.Items)

	if err := h.store.CreateOrder(c.Request.Context(), sale); err != nil {
		storeError(c, "create order", err)
		return
	}
	c.JSON(http.StatusCreated, sale)

	h.publish(c.Request.Context(), models.EventCreated, sale)
}

// UpdateOrderStatus sets a status directly. Only the edges of the status
// machine are accepted.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	defer middlewares.RecordOperation(c, "update_status")

	var request struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !request.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": orders.ErrUnknownStatus.Error()})
		return
	}

	sale, err := h.store.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, "get order", err)
		return
	}
	if !orders.CanTransition(sale.Status, request.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": orders.ErrInvalidTransition.Error(), "status": sale.Status})
		return
	}
	h.setStatus(c, sale, request.Status)
}

func (h *Handler) statusAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer middlewares.RecordOperation(c, action)

		sale, err := h.store.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			storeError(c, "get order", err)
			return
		}
		next, err := orders.Apply(sale.Status, action)
		if err != nil {
			code := http.StatusConflict
			if errors.Is(err, orders.ErrUnknownStatus) {
				code = http.StatusUnprocessableEntity
			}
			c.JSON(code, gin.H{"error": err.Error(), "status": sale.Status})
			return
		}
		h.setStatus(c, sale, next)
	}
}

func (h *Handler) setStatus(c *gin.Context, sale models.SaleRecord, status models.OrderStatus) {
	if err := h.store.UpdateOrderStatus(c.Request.Context(), sale.ID, status); err != nil {
		storeError(c, "update order status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})

	sale.Status = status
	h.publish(c.Request.Context(), models.EventStatusUpdated, sale)
}

func (h *Handler) OrderStats(c *gin.Context) {
	sales, err := h.store.ListOrders(c.Request.Context(), h.opts.OrdersLimit)
	if err != nil {
		storeError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders.Summarize(sales, h.now()))
}
