package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStorage creates a new SQLite storage instance and runs migrations
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStorage{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// migrate creates the database schema
func (s *SQLiteStorage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS request_logs (
		id                TEXT PRIMARY KEY,
		request_id        TEXT NOT NULL,
		endpoint          TEXT NOT NULL,
		model             TEXT NOT NULL,
		prompt_tokens     INTEGER DEFAULT 0,
		completion_tokens INTEGER DEFAULT 0,
		total_tokens      INTEGER DEFAULT 0,
		status_code       INTEGER,
		error_message     TEXT,
		duration_ms       INTEGER,
		created_at        DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS usage_daily (
		date              TEXT NOT NULL,
		endpoint          TEXT NOT NULL,
		model             TEXT NOT NULL,
		request_count     INTEGER DEFAULT 0,
		prompt_tokens     INTEGER DEFAULT 0,
		completion_tokens INTEGER DEFAULT 0,
		total_tokens      INTEGER DEFAULT 0,
		error_count       INTEGER DEFAULT 0,
		PRIMARY KEY (date, endpoint, model)
	);

	CREATE INDEX IF NOT EXISTS idx_logs_created ON request_logs(created_at);
	CREATE INDEX IF NOT EXISTS idx_logs_endpoint ON request_logs(endpoint);
	CREATE INDEX IF NOT EXISTS idx_logs_model ON request_logs(model);
	CREATE INDEX IF NOT EXISTS idx_usage_date ON usage_daily(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// LogRequest inserts a request log entry
func (s *SQLiteStorage) LogRequest(log *RequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	if log == nil || log.ID == "" {
		return ErrInvalidInput
	}

	_, err := s.db.Exec(`INSERT INTO request_logs
		(id, request_id, endpoint, model, prompt_tokens, completion_tokens,
		 total_tokens, status_code, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.RequestID, log.Endpoint, log.Model,
		log.PromptTokens, log.CompletionTokens, log.TotalTokens,
		log.StatusCode, log.ErrorMessage, log.DurationMs, log.CreatedAt,
	)
	return err
}

// GetRequestLogs retrieves request logs matching the filter, newest first
func (s *SQLiteStorage) GetRequestLogs(filter LogFilter) ([]*RequestLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `SELECT id, request_id, endpoint, model, prompt_tokens,
		completion_tokens, total_tokens, status_code, error_message,
		duration_ms, created_at FROM request_logs WHERE 1=1`

	var args []interface{}

	if filter.Endpoint != "" {
		query += " AND endpoint = ?"
		args = append(args, filter.Endpoint)
	}
	if filter.Model != "" {
		query += " AND model = ?"
		args = append(args, filter.Model)
	}
	if filter.StatusCode != nil {
		query += " AND status_code = ?"
		args = append(args, *filter.StatusCode)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*RequestLog
	for rows.Next() {
		log := &RequestLog{}
		err := rows.Scan(&log.ID, &log.RequestID, &log.Endpoint, &log.Model,
			&log.PromptTokens, &log.CompletionTokens, &log.TotalTokens,
			&log.StatusCode, &log.ErrorMessage, &log.DurationMs, &log.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// DeleteRequestLogs removes logs older than the given date (YYYY-MM-DD).
// Returns the number of deleted rows.
func (s *SQLiteStorage) DeleteRequestLogs(olderThan string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStorageClosed
	}
	if olderThan == "" {
		return 0, ErrInvalidInput
	}

	result, err := s.db.Exec(`DELETE FROM request_logs WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpdateDailyUsage upserts the daily usage aggregate for (date, endpoint, model)
func (s *SQLiteStorage) UpdateDailyUsage(usage *DailyUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	if usage == nil || usage.Date == "" || usage.Endpoint == "" {
		return ErrInvalidInput
	}

	_, err := s.db.Exec(`INSERT INTO usage_daily
		(date, endpoint, model, request_count, prompt_tokens,
		 completion_tokens, total_tokens, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, endpoint, model) DO UPDATE SET
			request_count     = request_count + excluded.request_count,
			prompt_tokens     = prompt_tokens + excluded.prompt_tokens,
			completion_tokens = completion_tokens + excluded.completion_tokens,
			total_tokens      = total_tokens + excluded.total_tokens,
			error_count       = error_count + excluded.error_count`,
		usage.Date, usage.Endpoint, usage.Model, usage.RequestCount,
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens,
		usage.ErrorCount,
	)
	return err
}

// GetDailyUsage retrieves daily usage rows for a date range (inclusive)
func (s *SQLiteStorage) GetDailyUsage(startDate, endDate string) ([]*DailyUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query(`SELECT date, endpoint, model, request_count,
		prompt_tokens, completion_tokens, total_tokens, error_count
		FROM usage_daily
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC, endpoint, model`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []*DailyUsage
	for rows.Next() {
		u := &DailyUsage{}
		err := rows.Scan(&u.Date, &u.Endpoint, &u.Model, &u.RequestCount,
			&u.PromptTokens, &u.CompletionTokens, &u.TotalTokens, &u.ErrorCount)
		if err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}

	return usage, rows.Err()
}

// GetUsageStats retrieves aggregated usage statistics
func (s *SQLiteStorage) GetUsageStats(filter StatsFilter) (*UsageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `SELECT
		COALESCE(SUM(request_count), 0),
		COALESCE(SUM(prompt_tokens), 0),
		COALESCE(SUM(completion_tokens), 0),
		COALESCE(SUM(total_tokens), 0),
		COALESCE(SUM(error_count), 0)
		FROM usage_daily WHERE 1=1`

	cond, args := statsConditions(filter)
	query += cond

	stats := &UsageStats{
		ModelBreakdown: make(map[string]*ModelStats),
	}

	err := s.db.QueryRow(query, args...).Scan(
		&stats.TotalRequests,
		&stats.TotalPromptTokens,
		&stats.TotalCompletionTokens,
		&stats.TotalTokens,
		&stats.ErrorCount,
	)
	if err != nil {
		return nil, err
	}

	// Per-model breakdown
	modelQuery := `SELECT model,
		COALESCE(SUM(request_count), 0),
		COALESCE(SUM(prompt_tokens), 0),
		COALESCE(SUM(completion_tokens), 0),
		COALESCE(SUM(total_tokens), 0),
		COALESCE(SUM(error_count), 0)
		FROM usage_daily WHERE 1=1` + cond + " GROUP BY model"

	rows, err := s.db.Query(modelQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ms ModelStats
		err := rows.Scan(&ms.Model, &ms.RequestCount, &ms.PromptTokens,
			&ms.CompletionTokens, &ms.TotalTokens, &ms.ErrorCount)
		if err != nil {
			return nil, err
		}
		stats.ModelBreakdown[ms.Model] = &ms
	}

	return stats, rows.Err()
}

// statsConditions builds the shared WHERE clause tail for usage queries
func statsConditions(filter StatsFilter) (string, []interface{}) {
	var cond string
	var args []interface{}

	if filter.Endpoint != "" {
		cond += " AND endpoint = ?"
		args = append(args, filter.Endpoint)
	}
	if filter.Model != "" {
		cond += " AND model = ?"
		args = append(args, filter.Model)
	}
	if filter.StartDate != nil {
		cond += " AND date >= ?"
		args = append(args, filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		cond += " AND date <= ?"
		args = append(args, filter.EndDate.Format("2006-01-02"))
	}

	return cond, args
}
