package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"delivery_tracker/internal/models"
)

type driverRecord struct {
	id           uint
	registeredAt time.Time
}

// MemoryStore is an in-memory OrderStore and LocationStore. It backs tests;
// the mutex gives ConditionalUpdateStatus the same atomicity the Postgres
// single-statement update has.
type MemoryStore struct {
	mu      sync.Mutex
	orders  map[string]models.Order
	samples []models.LocationUpdate
	drivers []driverRecord

	// Err, when set, makes every operation fail with it.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]models.Order)}
}

// RegisterDriver records a driver account and its registration timestamp for
// the assignment policy.
func (m *MemoryStore) RegisterDriver(id uint, registeredAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers = append(m.drivers, driverRecord{id: id, registeredAt: registeredAt})
}

func (m *MemoryStore) Insert(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	order.UpdatedAt = order.CreatedAt
	m.orders[order.ID] = *order
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (m *MemoryStore) ConditionalUpdateStatus(ctx context.Context, id string, expected, next models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if order.Status != expected {
		return nil, ErrPreconditionFailed
	}
	order.Status = next
	order.UpdatedAt = time.Now().UTC()
	m.orders[id] = order
	return &order, nil
}

func (m *MemoryStore) ListByDriver(ctx context.Context, driverID uint) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Order
	for _, order := range m.orders {
		if order.DriverID != nil && *order.DriverID == driverID {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) FindEarliestRegisteredDriver(ctx context.Context) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	if len(m.drivers) == 0 {
		return 0, ErrNotFound
	}
	earliest := m.drivers[0]
	for _, d := range m.drivers[1:] {
		if d.registeredAt.Before(earliest.registeredAt) ||
			(d.registeredAt.Equal(earliest.registeredAt) && d.id < earliest.id) {
			earliest = d
		}
	}
	return earliest.id, nil
}

func (m *MemoryStore) Append(ctx context.Context, orderID string, lat, lng float64, recordedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.samples = append(m.samples, models.LocationUpdate{
		ID:         uint(len(m.samples) + 1),
		OrderID:    orderID,
		Lat:        lat,
		Lng:        lng,
		RecordedAt: recordedAt,
	})
	return nil
}

// Samples returns a copy of the appended location samples.
func (m *MemoryStore) Samples() []models.LocationUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.LocationUpdate, len(m.samples))
	copy(out, m.samples)
	return out
}
