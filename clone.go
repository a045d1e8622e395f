// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import (
	"reflect"

	"github.com/goccy/go-json"
)

// cloneSchema deep-copies a schema tree while tracking container identity:
// a node revisited on the active path is replaced by a back-reference
// placeholder so self-referential schemas produce finite clones.
func cloneSchema(node map[string]any) map[string]any {
	cloned, _ := cloneValue(node, make(map[uintptr]struct{})).(map[string]any)
	return cloned
}

// cloneValue copies one value, substituting placeholders for active cycles.
func cloneValue(value any, active map[uintptr]struct{}) any {
	switch typed := value.(type) {
	case map[string]any:
		pointer := reflect.ValueOf(typed).Pointer()
		if _, busy := active[pointer]; busy {
			return map[string]any{"$ref": circularRefPointer}
		}

		active[pointer] = struct{}{}
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = cloneValue(item, active)
		}

		delete(active, pointer)
		return out
	case []any:
		if typed == nil {
			return []any(nil)
		}

		pointer := reflect.ValueOf(typed).Pointer()
		if _, busy := active[pointer]; busy {
			return []any{}
		}

		active[pointer] = struct{}{}
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, cloneValue(item, active))
		}

		delete(active, pointer)
		return out
	default:
		return typed
	}
}

// jsonRoundTrip re-encodes a schema object through JSON. The round trip
// intentionally discards structural sharing left behind by cloning.
func jsonRoundTrip(node map[string]any) map[string]any {
	data, err := json.Marshal(node)
	if err != nil {
		return map[string]any{}
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}

	return out
}
