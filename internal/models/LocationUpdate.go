package models

import "time"

// LocationUpdate is one location sample received from a driver while an order
// is active. Rows are append-only: they feed the live broadcast and stay as
// the audit trail, never mutated or deleted.
type LocationUpdate struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    string    `json:"order_id" gorm:"type:uuid;index;not null"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}
