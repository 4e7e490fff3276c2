// Package handlers contains the HTTP handlers. They stay thin: decode the
// request, call a service, write the result. All policy lives below them.
package handlers

import (
	"net/http"
	"strconv"

	"hallmate/internal/storage"
)

// queryInt64 parses an optional integer query parameter, returning 0 when
// absent or malformed.
func queryInt64(r *http.Request, key string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// queryInt parses an optional integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}

// dateRange reads the from/to query parameters as Unix timestamps.
func dateRange(r *http.Request) storage.DateRange {
	return storage.DateRange{
		From: queryInt64(r, "from"),
		To:   queryInt64(r, "to"),
	}
}
