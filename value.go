// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// markerPrefix marks internal bookkeeping keys injected into schema trees.
	markerPrefix = "x-widdershins-"
	// markerOldRef stores the original pointer of an already-resolved reference.
	markerOldRef = "x-widdershins-oldRef"
	// circularRefPointer substitutes for nodes revisited during cycle-safe cloning.
	circularRefPointer = "#/x-widdershins-circular"
)

// asString converts loosely typed schema values to string.
func asString(value any) string {
	text, _ := value.(string)
	return text
}

// asBool converts loosely typed schema values to bool with presence flag.
func asBool(value any) (bool, bool) {
	flag, ok := value.(bool)
	return flag, ok
}

// asSlice converts loosely typed schema values to generic slice.
func asSlice(value any) []any {
	items, _ := value.([]any)
	return items
}

// asStringSlice converts loosely typed schema values to string slice.
func asStringSlice(value any) []string {
	items := asSlice(value)
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		text := asString(item)
		if text == "" {
			continue
		}

		out = append(out, text)
	}

	return out
}

// asMap converts loosely typed schema values to generic object.
func asMap(value any) map[string]any {
	object, _ := value.(map[string]any)
	return object
}

// toSchemaMap returns value as a schema object when it is one.
func toSchemaMap(value any) (map[string]any, bool) {
	object, ok := value.(map[string]any)
	if !ok || object == nil {
		return nil, false
	}

	return object, true
}

// sortedKeys returns deterministic sorted keys for generic objects.
func sortedKeys(object map[string]any) []string {
	out := make([]string, 0, len(object))
	for key := range object {
		out = append(out, key)
	}

	sort.Strings(out)
	return out
}

// resolveJSONPointer resolves JSON pointer token path from root document value.
func resolveJSONPointer(root any, ref string) (any, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "#" {
		return root, true
	}

	if !strings.HasPrefix(ref, "#/") {
		return nil, false
	}

	current := root
	tokens := strings.SplitSeq(strings.TrimPrefix(ref, "#/"), "/")
	for token := range tokens {
		token = decodeJSONPointerToken(token)

		switch typed := current.(type) {
		case map[string]any:
			next, exists := typed[token]
			if !exists {
				return nil, false
			}

			current = next
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(typed) {
				return nil, false
			}

			current = typed[index]
		default:
			return nil, false
		}
	}

	return current, true
}

// decodeJSONPointerToken unescapes one JSON pointer token.
func decodeJSONPointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// referencePointer returns the reference pointer carried by a schema node,
// preferring the resolved-reference marker over a live $ref.
func referencePointer(node map[string]any) string {
	if ref := asString(node[markerOldRef]); ref != "" {
		return ref
	}

	return asString(node["$ref"])
}

// referenceName extracts the target name from a JSON pointer reference.
func referenceName(ref string) string {
	ref = strings.TrimSuffix(strings.TrimSpace(ref), "/")
	if ref == "" {
		return ""
	}

	parts := strings.Split(ref, "/")
	return decodeJSONPointerToken(parts[len(parts)-1])
}
