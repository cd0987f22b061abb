package server

import (
	"fmt"
	"strconv"
	"strings"
)

// StringParam reads a string argument, returning def when absent.
func StringParam(params map[string]interface{}, key, def string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// IntParam reads a numeric argument. JSON numbers arrive as float64.
func IntParam(params map[string]interface{}, key string, def int) int {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

// FloatParam reads a numeric argument as float64.
func FloatParam(params map[string]interface{}, key string, def float64) float64 {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return def
}

// BoolParam reads a boolean argument.
func BoolParam(params map[string]interface{}, key string, def bool) bool {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return def
}

// ListParam reads a list argument given either as an array or as a comma
// separated string. Absent means nil.
func ListParam(params map[string]interface{}, key string) []string {
	v, ok := params[key]
	if !ok || v == nil {
		return nil
	}
	var raw []string
	switch l := v.(type) {
	case []interface{}:
		for _, item := range l {
			raw = append(raw, fmt.Sprint(item))
		}
	case []string:
		raw = l
	case string:
		raw = strings.Split(l, ",")
	}
	out := []string{}
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
