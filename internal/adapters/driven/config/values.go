// Package config holds value conversion and environment overlay helpers
// shared by the configuration store adapters.
package config

import (
	"strconv"
	"strings"
)

// AsString returns val when it is a string.
func AsString(val any) string {
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// AsInt converts TOML (int64), JSON (float64) and environment (string) numbers.
func AsInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// AsBool accepts booleans and the strings strconv.ParseBool understands.
func AsBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

// AsStringSlice accepts string slices, TOML arrays and comma-separated strings.
func AsStringSlice(val any) []string {
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}
		return result
	default:
		return nil
	}
}
