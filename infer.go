// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import "github.com/goccy/go-json"

// anyType labels nodes whose effective type stays ambiguous after inference.
const anyType = "any"

// objectHintKeys indicate an object schema when no explicit type is given.
var objectHintKeys = []string{
	"properties",
	"patternProperties",
	"additionalProperties",
	"minProperties",
	"maxProperties",
	"required",
}

// arrayHintKeys indicate an array schema when no explicit type is given.
var arrayHintKeys = []string{
	"items",
	"additionalItems",
	"minItems",
	"maxItems",
	"uniqueItems",
}

// numericHintKeys indicate a numeric schema when no explicit type is given.
// String length and pattern constraints count toward the numeric class here.
var numericHintKeys = []string{
	"minimum",
	"maximum",
	"exclusiveMinimum",
	"exclusiveMaximum",
	"multipleOf",
	"minLength",
	"maxLength",
	"pattern",
}

// inferType derives the effective type of a schema node lacking an explicit
// "type" keyword from its structural keyword groups and enum value types.
// A single surviving candidate wins; anything else is labeled "any".
func inferType(node map[string]any) string {
	if node == nil {
		return anyType
	}

	candidates := make(map[string]struct{}, 4)
	if hasAnyKey(node, objectHintKeys) {
		candidates["object"] = struct{}{}
	}

	if hasAnyKey(node, arrayHintKeys) {
		candidates["array"] = struct{}{}
	}

	if hasAnyKey(node, numericHintKeys) {
		candidates["number"] = struct{}{}
	}

	for _, value := range asSlice(node["enum"]) {
		if name := valueTypeName(value); name != "" {
			candidates[name] = struct{}{}
		}
	}

	if len(candidates) != 1 {
		return anyType
	}

	for name := range candidates {
		return name
	}

	return anyType
}

// hasAnyKey reports whether node carries at least one of the given keywords.
func hasAnyKey(node map[string]any, keys []string) bool {
	for _, key := range keys {
		if _, ok := node[key]; ok {
			return true
		}
	}

	return false
}

// valueTypeName maps a runtime JSON value to its schema type name.
func valueTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return ""
	}
}
