package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"delivery_tracker/internal/orders"
)

// DriverController serves driver-facing order listings.
type DriverController struct {
	engine *orders.Engine
}

func NewDriverController(engine *orders.Engine) *DriverController {
	return &DriverController{engine: engine}
}

// ListOrders handles GET /driver/orders, newest first.
func (dc *DriverController) ListOrders(c *gin.Context) {
	list, err := dc.engine.ListDriverOrders(c.Request.Context(), identityFromContext(c))
	if err != nil {
		writeEngineError(c, err)
		return
	}

	payload := make([]orderPayload, 0, len(list))
	for i := range list {
		payload = append(payload, toOrderPayload(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": payload})
}
