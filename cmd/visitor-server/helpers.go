package main

import (
	"fmt"
	"net/http"
	"strconv"
)

// intQueryParam reads an optional integer query parameter. The second return
// reports whether the parameter was present.
func intQueryParam(r *http.Request, key string) (int, bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("query parameter %q must be an integer", key)
	}

	return value, true, nil
}
