package routes

import (
	"github.com/gin-gonic/gin"

	"delivery_tracker/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, wc *controllers.WebSocketController) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/location", wc.HandleLocationWebSocket)
	}
}
