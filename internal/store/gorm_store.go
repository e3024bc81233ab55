package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"delivery_tracker/internal/models"
)

const defaultTimeout = 5 * time.Second

// GormOrderStore implements OrderStore on top of a gorm Postgres handle.
// Every call runs under a deadline so a stuck database surfaces as
// ErrUnavailable instead of blocking the caller.
type GormOrderStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormOrderStore(db *gorm.DB, timeout time.Duration) *GormOrderStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GormOrderStore{db: db, timeout: timeout}
}

func (s *GormOrderStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GormOrderStore) Insert(ctx context.Context, order *models.Order) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *GormOrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, unavailable(err)
	}
	return &order, nil
}

func (s *GormOrderStore) ConditionalUpdateStatus(ctx context.Context, id string, expected, next models.OrderStatus) (*models.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Single-statement compare-and-swap on status.
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if res.Error != nil {
		return nil, unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing order from a lost race.
		var order models.Order
		if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, unavailable(err)
		}
		return nil, ErrPreconditionFailed
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, unavailable(err)
	}
	return &order, nil
}

func (s *GormOrderStore) ListByDriver(ctx context.Context, driverID uint) ([]models.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, unavailable(err)
	}
	return orders, nil
}

func (s *GormOrderStore) FindEarliestRegisteredDriver(ctx context.Context) (uint, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var driver models.User
	if err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleDriver).
		Order("created_at ASC, id ASC").
		First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, unavailable(err)
	}
	return driver.ID, nil
}

// GormLocationStore implements LocationStore on the same handle.
type GormLocationStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormLocationStore(db *gorm.DB, timeout time.Duration) *GormLocationStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GormLocationStore{db: db, timeout: timeout}
}

func (s *GormLocationStore) Append(ctx context.Context, orderID string, lat, lng float64, recordedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	sample := models.LocationUpdate{
		OrderID:    orderID,
		Lat:        lat,
		Lng:        lng,
		RecordedAt: recordedAt,
	}
	if err := s.db.WithContext(ctx).Create(&sample).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
