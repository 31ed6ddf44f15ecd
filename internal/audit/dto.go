package audit

import (
	"net/http"
	"strconv"
)

// ListQuery carries the pagination knobs parsed from the query string.
// Unparseable values fall back to zero and get clamped by the service, the
// same way out-of-range values do.
type ListQuery struct {
	Skip  int
	Limit int
}

func ParseListQuery(r *http.Request) ListQuery {
	return ListQuery{
		Skip:  parseIntParam(r, "skip"),
		Limit: parseIntParam(r, "limit"),
	}
}

func parseIntParam(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
