package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"delivery_tracker/internal/controllers"
)

// Controllers bundles the handlers the router wires up. They are constructed
// in main with their dependencies, nothing here reaches for globals.
type Controllers struct {
	Orders *controllers.OrderController
	Driver *controllers.DriverController
	Socket *controllers.WebSocketController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	OrderRoutes(r, ctrl.Orders)
	DriverRoutes(r, ctrl.Driver)
	WebSocketRoutes(r, ctrl.Socket)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
