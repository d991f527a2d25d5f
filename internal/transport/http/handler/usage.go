package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/adimehta/aiportal/internal/storage"
	"github.com/adimehta/aiportal/internal/types"
)

// Usage handles GET /usage, returning aggregated token statistics.
// Filters: start_date, end_date (YYYY-MM-DD), endpoint, model.
func (h *Repo) Usage(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		types.WriteError(w, http.StatusServiceUnavailable,
			types.ErrServiceUnavailable("Request logging is not available"))
		return
	}

	q := r.URL.Query()
	filter := storage.StatsFilter{
		Endpoint: q.Get("endpoint"),
		Model:    q.Get("model"),
	}
	var err error
	if filter.StartDate, err = parseDateParam(q.Get("start_date")); err != nil {
		types.WriteError(w, http.StatusBadRequest,
			types.NewAPIErrorWithParam("start_date must be YYYY-MM-DD", types.ErrorTypeInvalidRequest, "start_date"))
		return
	}
	if filter.EndDate, err = parseDateParam(q.Get("end_date")); err != nil {
		types.WriteError(w, http.StatusBadRequest,
			types.NewAPIErrorWithParam("end_date must be YYYY-MM-DD", types.ErrorTypeInvalidRequest, "end_date"))
		return
	}

	if q.Get("daily") == "true" {
		h.dailyUsage(w, filter)
		return
	}

	stats, err := h.Storage.GetUsageStats(filter)
	if err != nil {
		types.WriteError(w, http.StatusInternalServerError, types.ErrServer("Failed to read usage statistics"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// dailyUsage answers the day-by-day view of GET /usage (?daily=true),
// listing per-day rows instead of a single aggregate.
func (h *Repo) dailyUsage(w http.ResponseWriter, filter storage.StatsFilter) {
	start := "0001-01-01"
	if filter.StartDate != nil {
		start = filter.StartDate.Format("2006-01-02")
	}
	end := "9999-12-31"
	if filter.EndDate != nil {
		end = filter.EndDate.Format("2006-01-02")
	}

	rows, err := h.Storage.GetDailyUsage(start, end)
	if err != nil {
		types.WriteError(w, http.StatusInternalServerError, types.ErrServer("Failed to read usage statistics"))
		return
	}
	if rows == nil {
		rows = []*storage.DailyUsage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"daily": rows,
		"count": len(rows),
	})
}

// Logs handles GET /logs, returning recent request log entries.
// Filters: endpoint, model, status_code, limit, offset.
func (h *Repo) Logs(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		types.WriteError(w, http.StatusServiceUnavailable,
			types.ErrServiceUnavailable("Request logging is not available"))
		return
	}

	q := r.URL.Query()
	filter := storage.LogFilter{
		Endpoint: q.Get("endpoint"),
		Model:    q.Get("model"),
	}
	var err error
	if filter.Limit, err = parseIntParam(q.Get("limit")); err != nil {
		types.WriteError(w, http.StatusBadRequest,
			types.NewAPIErrorWithParam("limit must be an integer", types.ErrorTypeInvalidRequest, "limit"))
		return
	}
	if filter.Offset, err = parseIntParam(q.Get("offset")); err != nil {
		types.WriteError(w, http.StatusBadRequest,
			types.NewAPIErrorWithParam("offset must be an integer", types.ErrorTypeInvalidRequest, "offset"))
		return
	}
	if raw := q.Get("status_code"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			types.WriteError(w, http.StatusBadRequest,
				types.NewAPIErrorWithParam("status_code must be an integer", types.ErrorTypeInvalidRequest, "status_code"))
			return
		}
		filter.StatusCode = &code
	}

	logs, err := h.Storage.GetRequestLogs(filter)
	if err != nil {
		types.WriteError(w, http.StatusInternalServerError, types.ErrServer("Failed to read request logs"))
		return
	}
	if logs == nil {
		logs = []*storage.RequestLog{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"logs":  logs,
		"count": len(logs),
	})
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseIntParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}
