package routes

import (
	"github.com/gin-gonic/gin"

	"delivery_tracker/internal/controllers"
	"delivery_tracker/internal/middleware"
	"delivery_tracker/internal/models"
)

func OrderRoutes(r *gin.Engine, oc *controllers.OrderController) {
	orders := r.Group("/orders")
	orders.Use(middleware.RequireAuth())
	{
		orders.GET("/:id", oc.GetOrder)
	}

	customer := r.Group("/orders")
	customer.Use(middleware.RequireAuthWithRole(models.RoleCustomer))
	{
		customer.POST("", oc.CreateOrder)
	}

	driver := r.Group("/orders")
	driver.Use(middleware.RequireAuthWithRole(models.RoleDriver))
	{
		driver.POST("/:id/start", oc.StartOrder)
		driver.POST("/:id/complete", oc.CompleteOrder)
	}
}
