// internal/core/domain/alert.go
package domain

import "time"

// AlertKind identifies one of the independently tracked stock alerts. The
// kind doubles as the de-duplication key: at most one active alert per kind.
type AlertKind string

const (
	AlertLowStock   AlertKind = "low-stock"
	AlertOverweight AlertKind = "overweight"
)

// StockAlert is an active alert produced by the evaluator.
type StockAlert struct {
	Kind        AlertKind `json:"kind"`
	Message     string    `json:"message"`
	TotalWeight float64   `json:"total_weight"` // grams at evaluation time
	FiredAt     time.Time `json:"fired_at"`
}
