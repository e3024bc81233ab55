// Package orders implements the order lifecycle engine: creation, driver
// assignment, and the guarded CREATED -> ASSIGNED -> IN_PROGRESS -> COMPLETED
// state machine.
package orders

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"delivery_tracker/internal/geo"
	"delivery_tracker/internal/models"
	"delivery_tracker/internal/observability"
	"delivery_tracker/internal/store"
)

// Identity is the verified principal attached to every engine call. It is
// produced by the auth layer; the engine never sees credentials.
type Identity struct {
	ID   uint
	Role string
}

// Engine enforces the order lifecycle rules over a narrow store contract.
type Engine struct {
	orders store.OrderStore
}

func NewEngine(orders store.OrderStore) *Engine {
	return &Engine{orders: orders}
}

// CreateOrder creates an order for the customer and assigns the driver with
// the earliest registration timestamp, irrespective of availability or
// location. With no drivers registered the order stays CREATED and
// unassigned.
func (e *Engine) CreateOrder(ctx context.Context, customer Identity, pickupLat, pickupLng, dropoffLat, dropoffLng float64) (*models.Order, error) {
	if customer.Role != models.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can create orders", ErrForbidden)
	}
	if !finite(pickupLat) || !finite(pickupLng) || !finite(dropoffLat) || !finite(dropoffLng) {
		return nil, fmt.Errorf("%w: pickup/dropoff coordinates must be finite", ErrInvalidInput)
	}

	status := models.StatusCreated
	var driverID *uint
	id, err := e.orders.FindEarliestRegisteredDriver(ctx)
	switch {
	case err == nil:
		status = models.StatusAssigned
		driverID = &id
	case errors.Is(err, store.ErrNotFound):
		// No drivers registered yet, order waits unassigned.
	default:
		return nil, storeFailure(err)
	}

	geometry, err := geo.RouteLine(pickupLat, pickupLng, dropoffLat, dropoffLng)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	order := &models.Order{
		CustomerID: customer.ID,
		DriverID:   driverID,
		PickupLat:  pickupLat,
		PickupLng:  pickupLng,
		DropoffLat: dropoffLat,
		DropoffLng: dropoffLng,
		Status:     status,
		Geometry:   geometry,
	}
	if err := e.orders.Insert(ctx, order); err != nil {
		return nil, storeFailure(err)
	}

	observability.OrdersCreated.Inc()
	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"customer_id": customer.ID,
		"status":      order.Status,
	}).Info("Order created.")
	return order, nil
}

// GetOrder returns the order only to its customer or its assigned driver.
// Anyone else gets ErrNotFound, indistinguishable from a missing id.
func (e *Engine) GetOrder(ctx context.Context, requester Identity, orderID string) (*models.Order, error) {
	order, err := e.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure(err)
	}

	isCustomer := requester.Role == models.RoleCustomer && order.CustomerID == requester.ID
	isDriver := requester.Role == models.RoleDriver && order.DriverID != nil && *order.DriverID == requester.ID
	if !isCustomer && !isDriver {
		return nil, ErrNotFound
	}
	return order, nil
}

// StartOrder moves the driver's ASSIGNED order to IN_PROGRESS.
func (e *Engine) StartOrder(ctx context.Context, driver Identity, orderID string) (*models.Order, error) {
	return e.transition(ctx, driver, orderID, models.StatusAssigned, models.StatusInProgress, "start")
}

// CompleteOrder moves the driver's IN_PROGRESS order to COMPLETED.
func (e *Engine) CompleteOrder(ctx context.Context, driver Identity, orderID string) (*models.Order, error) {
	return e.transition(ctx, driver, orderID, models.StatusInProgress, models.StatusCompleted, "complete")
}

// ListDriverOrders returns the driver's orders, newest first.
func (e *Engine) ListDriverOrders(ctx context.Context, driver Identity) ([]models.Order, error) {
	if driver.Role != models.RoleDriver {
		return nil, fmt.Errorf("%w: only drivers can list assigned orders", ErrForbidden)
	}
	list, err := e.orders.ListByDriver(ctx, driver.ID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return list, nil
}

func (e *Engine) transition(ctx context.Context, driver Identity, orderID string, expected, next models.OrderStatus, action string) (*models.Order, error) {
	if driver.Role != models.RoleDriver {
		return nil, fmt.Errorf("%w: only drivers can %s orders", ErrForbidden, action)
	}

	order, err := e.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure(err)
	}
	if order.DriverID == nil || *order.DriverID != driver.ID {
		observability.OrderTransitions.WithLabelValues(action, "forbidden").Inc()
		return nil, fmt.Errorf("%w: order is not assigned to this driver", ErrForbidden)
	}
	if order.Status != expected {
		observability.OrderTransitions.WithLabelValues(action, "conflict").Inc()
		return nil, &InvalidStateError{Expected: expected, Action: action}
	}

	updated, err := e.orders.ConditionalUpdateStatus(ctx, orderID, expected, next)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPreconditionFailed):
			// Lost a race with a concurrent transition. The caller must
			// re-fetch and decide, no retry here.
			observability.OrderTransitions.WithLabelValues(action, "conflict").Inc()
			return nil, &InvalidStateError{Expected: expected, Action: action}
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, storeFailure(err)
		}
	}

	observability.OrderTransitions.WithLabelValues(action, "ok").Inc()
	logrus.WithFields(logrus.Fields{
		"order_id":  updated.ID,
		"driver_id": driver.ID,
		"status":    updated.Status,
	}).Info("Order status transitioned.")
	return updated, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
