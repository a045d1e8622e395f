// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import "strings"

// stripMarkers returns a copy of value without internal marker keys.
// Non-container values are returned as-is.
func stripMarkers(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			if strings.HasPrefix(key, markerPrefix) {
				continue
			}

			out[key] = stripMarkers(item)
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, stripMarkers(item))
		}

		return out
	default:
		return typed
	}
}

// truncateDepth returns a copy of value with containers at or beyond max
// depth replaced by their empty equivalents. A max of zero or less disables
// truncation and returns value unchanged.
func truncateDepth(value any, max int) any {
	if max <= 0 {
		return value
	}

	return truncateValueDepth(value, 0, max)
}

// truncateValueDepth applies the depth limit while copying one level.
func truncateValueDepth(value any, depth, max int) any {
	switch typed := value.(type) {
	case map[string]any:
		if depth >= max {
			return map[string]any{}
		}

		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = truncateValueDepth(item, depth+1, max)
		}

		return out
	case []any:
		if depth >= max {
			return []any{}
		}

		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, truncateValueDepth(item, depth+1, max))
		}

		return out
	default:
		return typed
	}
}
