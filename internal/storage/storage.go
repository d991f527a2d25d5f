// Package storage persists request logs and usage aggregates.
package storage

import "errors"

// Storage errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrStorageClosed = errors.New("storage is closed")
)

// Storage defines the interface for persistent data storage
type Storage interface {
	// Request logging operations
	LogRequest(log *RequestLog) error
	GetRequestLogs(filter LogFilter) ([]*RequestLog, error)
	DeleteRequestLogs(olderThan string) (int64, error)

	// Usage statistics operations
	GetUsageStats(filter StatsFilter) (*UsageStats, error)
	GetDailyUsage(startDate, endDate string) ([]*DailyUsage, error)
	UpdateDailyUsage(usage *DailyUsage) error

	// Maintenance operations
	Close() error
}
