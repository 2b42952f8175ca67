package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// parseID extracts a positive integer form value.
func parseID(r *http.Request, field string) (int64, error) {
	v := strings.TrimSpace(r.Form.Get(field))
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", field, v)
	}
	return id, nil
}

// parseQuantity parses the portion count from a form value.
func parseQuantity(v string) (int64, error) {
	qty, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity: %q", v)
	}
	return qty, nil
}

// parseFormDate parses a date string in YYYY-MM-DD format.
func parseFormDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(dateStr))
}

// formatDays renders a day count with one decimal, or "n/a" when the
// value is undefined (no completed claims).
func formatDays(days float64) string {
	if math.IsNaN(days) {
		return "n/a"
	}
	return strconv.FormatFloat(days, 'f', 1, 64)
}

// formatQuantity renders a median that may be fractional.
func formatQuantity(q float64) string {
	if q == math.Trunc(q) {
		return strconv.FormatInt(int64(q), 10)
	}
	return strconv.FormatFloat(q, 'f', 1, 64)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
