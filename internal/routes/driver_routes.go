package routes

import (
	"github.com/gin-gonic/gin"

	"delivery_tracker/internal/controllers"
	"delivery_tracker/internal/middleware"
	"delivery_tracker/internal/models"
)

func DriverRoutes(r *gin.Engine, dc *controllers.DriverController) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireAuthWithRole(models.RoleDriver))
	{
		driver.GET("/orders", dc.ListOrders)
	}
}
