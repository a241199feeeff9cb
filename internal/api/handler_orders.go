package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"laundry-concierge/internal/calendar"
	"laundry-concierge/internal/model"
)

type createOrderRequest struct {
	PhoneNumber  string `json:"phone_number" binding:"required"`
	CustomerName string `json:"customer_name"`
	OrderStatus  string `json:"order_status"`
	PickupDate   string `json:"pickup_date"`
	DeliveryDate string `json:"delivery_date"`
}

// CreateOrder handles the POST /api/orders request.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, d := range []string{req.PickupDate, req.DeliveryDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(calendar.ISODate, d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dates must use YYYY-MM-DD"})
			return
		}
	}

	order := model.Order{
		PhoneNumber:  req.PhoneNumber,
		CustomerName: req.CustomerName,
		OrderStatus:  model.OrderStatus(req.OrderStatus),
		PickupDate:   req.PickupDate,
		DeliveryDate: req.DeliveryDate,
	}
	if err := h.store.CreateOrder(c.Request.Context(), &order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrderByPhone handles the GET /api/orders/:phone request.
func (h *Handler) GetOrderByPhone(c *gin.Context) {
	order, err := h.store.FindOrderByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
