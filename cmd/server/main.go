package main

import (
	"log"
	"net/http"

	"delivery_tracker/internal/config"
	"delivery_tracker/internal/controllers"
	"delivery_tracker/internal/logger"
	"delivery_tracker/internal/middleware"
	"delivery_tracker/internal/orders"
	"delivery_tracker/internal/relay"
	"delivery_tracker/internal/routes"
	"delivery_tracker/internal/store"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()
	db := config.GetDB()

	timeout := config.StoreTimeout()
	orderStore := store.NewGormOrderStore(db, timeout)
	locationStore := store.NewGormLocationStore(db, timeout)

	engine := orders.NewEngine(orderStore)
	hub := relay.NewHub(locationStore)

	r := routes.SetupRouter(routes.Controllers{
		Orders: controllers.NewOrderController(engine),
		Driver: controllers.NewDriverController(engine),
		Socket: controllers.NewWebSocketController(hub),
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := config.ServerAddr()
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
