package common

import (
	"net/http"
	"strings"
)

// ParseBool accepts "true", "1" and "yes" (case-insensitive).
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Confirmed reports whether the request carries confirm=true.
func Confirmed(r *http.Request) bool {
	return ParseBool(r.URL.Query().Get("confirm"))
}

// AdminFlag is the query parameter that exposes admin controls.
type AdminFlag struct {
	Param string
	Value string
}

// Enabled reports whether the request sets the admin parameter to the expected value.
func (f AdminFlag) Enabled(r *http.Request) bool {
	if f.Param == "" {
		return false
	}
	values, ok := r.URL.Query()[f.Param]
	if !ok {
		return false
	}
	for _, v := range values {
		if strings.TrimSpace(v) == f.Value {
			return true
		}
	}
	return false
}
