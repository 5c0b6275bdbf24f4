package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot for the admin console.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	SheetOpCount             uint64    `json:"sheet_op_count"`
	AverageSheetOpDurationMs float64   `json:"average_sheet_op_duration_ms"`
	NotificationsSent        uint64    `json:"notifications_sent"`
	NotificationsFailed      uint64    `json:"notifications_failed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
