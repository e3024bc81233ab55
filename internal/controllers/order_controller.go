package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"delivery_tracker/internal/geo"
	"delivery_tracker/internal/models"
	"delivery_tracker/internal/orders"
)

// OrderController exposes the lifecycle engine over HTTP.
type OrderController struct {
	engine *orders.Engine
}

func NewOrderController(engine *orders.Engine) *OrderController {
	return &OrderController{engine: engine}
}

// createOrderInput uses pointers so a zero coordinate still satisfies the
// required binding.
type createOrderInput struct {
	PickupLat  *float64 `json:"pickup_lat" binding:"required"`
	PickupLng  *float64 `json:"pickup_lng" binding:"required"`
	DropoffLat *float64 `json:"dropoff_lat" binding:"required"`
	DropoffLng *float64 `json:"dropoff_lng" binding:"required"`
}

// orderPayload is an order plus its planned route as GeoJSON.
type orderPayload struct {
	models.Order
	Route string `json:"route,omitempty"`
}

func toOrderPayload(o *models.Order) orderPayload {
	route, err := geo.ToGeoJSON(o.Geometry)
	if err != nil {
		logrus.WithError(err).WithField("order_id", o.ID).Warn("Could not render order route geometry.")
	}
	return orderPayload{Order: *o, Route: route}
}

// identityFromContext builds the engine principal from the claims the JWT
// middleware stored.
func identityFromContext(c *gin.Context) orders.Identity {
	return orders.Identity{
		ID:   c.MustGet("user_id").(uint),
		Role: c.MustGet("role").(string),
	}
}

// CreateOrder handles POST /orders.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pickup/dropoff coords"})
		return
	}

	order, err := oc.engine.CreateOrder(c.Request.Context(), identityFromContext(c),
		*input.PickupLat, *input.PickupLng, *input.DropoffLat, *input.DropoffLng)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": toOrderPayload(order)})
}

// GetOrder handles GET /orders/:id.
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.engine.GetOrder(c.Request.Context(), identityFromContext(c), c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderPayload(order)})
}

// StartOrder handles POST /orders/:id/start.
func (oc *OrderController) StartOrder(c *gin.Context) {
	order, err := oc.engine.StartOrder(c.Request.Context(), identityFromContext(c), c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderPayload(order)})
}

// CompleteOrder handles POST /orders/:id/complete.
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	order, err := oc.engine.CompleteOrder(c.Request.Context(), identityFromContext(c), c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderPayload(order)})
}

// writeEngineError maps the engine's error taxonomy to HTTP statuses.
func writeEngineError(c *gin.Context, err error) {
	var stateErr *orders.InvalidStateError
	switch {
	case errors.As(err, &stateErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": stateErr.Error()})
	case errors.Is(err, orders.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	default:
		logrus.WithError(err).Error("Order operation failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
