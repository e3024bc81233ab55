// Package store holds the narrow persistence contracts the order lifecycle
// engine and the location relay depend on, plus their Postgres (gorm) and
// in-memory implementations.
package store

import (
	"context"
	"errors"
	"time"

	"delivery_tracker/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrPreconditionFailed is returned by ConditionalUpdateStatus when the
	// order exists but its status no longer matches the expected value.
	ErrPreconditionFailed = errors.New("status precondition failed")

	// ErrUnavailable is returned when the backing store failed or timed out.
	ErrUnavailable = errors.New("store unavailable")
)

// OrderStore is the transactional collaborator for Order rows.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)

	// ConditionalUpdateStatus atomically moves the order from expected to next
	// and returns the updated row. The compare and the write are a single
	// conditional update so two concurrent transitions can never both succeed
	// against a stale read.
	ConditionalUpdateStatus(ctx context.Context, id string, expected, next models.OrderStatus) (*models.Order, error)

	// ListByDriver returns the driver's orders, newest first.
	ListByDriver(ctx context.Context, driverID uint) ([]models.Order, error)

	// FindEarliestRegisteredDriver returns the id of the driver account with
	// the oldest registration timestamp, or ErrNotFound when none exist.
	FindEarliestRegisteredDriver(ctx context.Context) (uint, error)
}

// LocationStore appends location samples. Append-only, no reads on the hot
// path.
type LocationStore interface {
	Append(ctx context.Context, orderID string, lat, lng float64, recordedAt time.Time) error
}
