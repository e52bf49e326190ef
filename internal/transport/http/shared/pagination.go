package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit/offset query parameters, clamping limit into
// (0, maxLimit] and offset to zero or above. Bad values fall back to the
// defaults rather than erroring.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	limit := intQuery(r, "limit", defaultLimit, 1)
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	offset := intQuery(r, "offset", 0, 0)
	return Pagination{Limit: limit, Offset: offset}
}

func intQuery(r *http.Request, name string, fallback, min int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return fallback
	}
	return v
}
