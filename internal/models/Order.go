package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order. Transitions are strictly
// linear: CREATED -> ASSIGNED -> IN_PROGRESS -> COMPLETED, no skips, no
// reverse edges. COMPLETED is terminal.
type OrderStatus string

const (
	StatusCreated    OrderStatus = "CREATED"
	StatusAssigned   OrderStatus = "ASSIGNED"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusCompleted  OrderStatus = "COMPLETED"
)

// nextStatus holds the single legal successor for each status.
var nextStatus = map[OrderStatus]OrderStatus{
	StatusCreated:    StatusAssigned,
	StatusAssigned:   StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// Valid reports whether s is one of the four known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusAssigned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is the legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return nextStatus[s] == next
}

// Order is a delivery order. CustomerID and the pickup/dropoff coordinates
// are immutable after creation; DriverID is set iff the order has been
// assigned. Orders are never deleted, COMPLETED rows stay for audit.
type Order struct {
	ID         string      `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID uint        `json:"customer_id" gorm:"index;not null"`
	DriverID   *uint       `json:"driver_id" gorm:"index"`
	PickupLat  float64     `json:"pickup_lat"`
	PickupLng  float64     `json:"pickup_lng"`
	DropoffLat float64     `json:"dropoff_lat"`
	DropoffLng float64     `json:"dropoff_lng"`
	Status     OrderStatus `json:"status" gorm:"index"`

	// Planned pickup -> dropoff path as a WKB LINESTRING.
	Geometry []byte `json:"-" gorm:"type:bytea"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
