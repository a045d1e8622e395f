// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

// Package sampler synthesizes placeholder payload values from JSON Schema
// and OpenAPI schema objects. Generation is deterministic: object keys are
// visited in sorted order and combinator branches resolve to their first
// entry.
package sampler

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrMaxDepth reports that generation exceeded the configured depth cap.
	ErrMaxDepth = errors.New("sampler: maximum schema depth exceeded")
	// ErrInvalidItems reports an array items keyword that is not a schema object.
	ErrInvalidItems = errors.New("sampler: array items is not a schema object")
	// ErrInvalidSchema reports a schema node that is not a schema object.
	ErrInvalidSchema = errors.New("sampler: node is not a schema object")
)

// Options configures one generation run.
type Options struct {
	// SkipReadOnly omits readOnly properties from generated objects.
	SkipReadOnly bool
	// SkipWriteOnly omits writeOnly properties from generated objects.
	SkipWriteOnly bool
	// MaxDepth caps schema nesting during generation, <=0 means unlimited.
	MaxDepth int
}

// formatPlaceholders provides representative values for common string formats.
var formatPlaceholders = map[string]string{
	"date":      "2019-08-24",
	"date-time": "2019-08-24T14:15:22Z",
	"email":     "user@example.com",
	"hostname":  "example.com",
	"ipv4":      "192.168.0.1",
	"ipv6":      "2001:db8::1",
	"password":  "pa$$word",
	"uri":       "http://example.com",
	"url":       "http://example.com",
	"uuid":      "497f6eca-6276-4993-bfeb-53cbbbba6f08",
	"binary":    "string",
	"byte":      "c3RyaW5n",
}

// scalarPlaceholders provides fallback values for typed scalar schemas.
var scalarPlaceholders = map[string]any{
	"string":  "string",
	"number":  0,
	"integer": 0,
	"boolean": true,
	"null":    nil,
}

// Generate synthesizes a placeholder value for schema. Local references
// are resolved against root; references that cannot be resolved are echoed
// back as a bare reference object so callers can detect them.
func Generate(schema map[string]any, opt Options, root map[string]any) (any, error) {
	builder := &sampleBuilder{
		opt:        opt,
		root:       root,
		activeRefs: make(map[string]int),
	}

	return builder.buildNode(schema, 0)
}

// sampleBuilder carries generation state for one Generate call.
type sampleBuilder struct {
	opt        Options
	root       map[string]any
	activeRefs map[string]int
}

// buildNode synthesizes the value for one schema node.
func (builder *sampleBuilder) buildNode(node map[string]any, depth int) (any, error) {
	if node == nil {
		return nil, ErrInvalidSchema
	}

	if builder.opt.MaxDepth > 0 && depth > builder.opt.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d", ErrMaxDepth, depth)
	}

	if ref := asString(node["$ref"]); ref != "" {
		return builder.buildReference(node, ref, depth)
	}

	if value, ok := explicitValue(node); ok {
		return value, nil
	}

	schemaType := schemaTypeName(node)

	switch {
	case schemaType == "object" || (schemaType == "" && hasObjectShape(node)):
		return builder.buildObject(node, depth)
	case schemaType == "array" || (schemaType == "" && hasArrayShape(node)):
		return builder.buildArray(node, depth)
	}

	if value, ok, err := builder.buildCombinator(node, depth); ok {
		return value, err
	}

	if schemaType == "string" {
		return stringPlaceholder(node), nil
	}

	if value, ok := scalarPlaceholders[schemaType]; ok {
		return value, nil
	}

	// A schema with no type and no structural hints.
	return map[string]any{}, nil
}

// buildReference resolves a local reference and generates from its target,
// keeping sibling keywords as overrides.
func (builder *sampleBuilder) buildReference(node map[string]any, ref string, depth int) (any, error) {
	resolved, ok := builder.resolveLocalReference(ref)
	if !ok {
		return map[string]any{"$ref": ref}, nil
	}

	release, ok := builder.enterReference(ref)
	if !ok {
		return nil, nil
	}
	defer release()

	return builder.buildNode(mergeSchemaObjects(resolved, node), depth)
}

// buildObject synthesizes an object value with sorted property order.
func (builder *sampleBuilder) buildObject(node map[string]any, depth int) (any, error) {
	out := make(map[string]any)
	properties, ok := node["properties"].(map[string]any)
	if !ok {
		return out, nil
	}

	for _, key := range sortedKeys(properties) {
		property, ok := properties[key].(map[string]any)
		if !ok {
			continue
		}

		if builder.skipProperty(property) {
			continue
		}

		value, err := builder.buildNode(property, depth+1)
		if err != nil {
			return nil, err
		}

		out[key] = value
	}

	return out, nil
}

// skipProperty reports whether access restriction options exclude property.
func (builder *sampleBuilder) skipProperty(property map[string]any) bool {
	if builder.opt.SkipReadOnly {
		if readOnly, ok := property["readOnly"].(bool); ok && readOnly {
			return true
		}
	}

	if builder.opt.SkipWriteOnly {
		if writeOnly, ok := property["writeOnly"].(bool); ok && writeOnly {
			return true
		}
	}

	return false
}

// buildArray synthesizes a single-element array from the items schema.
func (builder *sampleBuilder) buildArray(node map[string]any, depth int) (any, error) {
	itemsRaw, exists := node["items"]
	if !exists {
		return []any{}, nil
	}

	items, ok := itemsRaw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrInvalidItems, itemsRaw)
	}

	value, err := builder.buildNode(items, depth+1)
	if err != nil {
		return nil, err
	}

	return []any{value}, nil
}

// buildCombinator synthesizes from the first branch of a combinator keyword.
func (builder *sampleBuilder) buildCombinator(node map[string]any, depth int) (any, bool, error) {
	for _, keyword := range []string{"allOf", "oneOf", "anyOf"} {
		branches, ok := node[keyword].([]any)
		if !ok {
			continue
		}

		for _, raw := range branches {
			branch, ok := raw.(map[string]any)
			if !ok {
				continue
			}

			value, err := builder.buildNode(branch, depth+1)
			return value, true, err
		}
	}

	return nil, false, nil
}

// resolveLocalReference resolves a local JSON pointer against the root document.
func (builder *sampleBuilder) resolveLocalReference(ref string) (map[string]any, bool) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "#") || builder.root == nil {
		return nil, false
	}

	current := any(builder.root)
	if ref != "#" {
		if !strings.HasPrefix(ref, "#/") {
			return nil, false
		}

		for token := range strings.SplitSeq(strings.TrimPrefix(ref, "#/"), "/") {
			token = strings.ReplaceAll(token, "~1", "/")
			token = strings.ReplaceAll(token, "~0", "~")

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
	}

	resolved, ok := current.(map[string]any)
	return resolved, ok
}

// enterReference registers one active reference and returns a release callback.
func (builder *sampleBuilder) enterReference(ref string) (func(), bool) {
	if builder.activeRefs[ref] > 0 {
		return nil, false
	}

	builder.activeRefs[ref]++
	return func() {
		builder.activeRefs[ref]--
		if builder.activeRefs[ref] <= 0 {
			delete(builder.activeRefs, ref)
		}
	}, true
}

// explicitValue returns a declared example value when the schema carries one.
func explicitValue(node map[string]any) (any, bool) {
	if value, ok := node["default"]; ok {
		return value, true
	}

	if values, ok := node["examples"].([]any); ok && len(values) > 0 {
		return values[0], true
	}

	if value, ok := node["example"]; ok {
		return value, true
	}

	if value, ok := node["const"]; ok {
		return value, true
	}

	if values, ok := node["enum"].([]any); ok && len(values) > 0 {
		return values[0], true
	}

	return nil, false
}

// stringPlaceholder returns a format-aware placeholder for string schemas.
func stringPlaceholder(node map[string]any) string {
	if value, ok := formatPlaceholders[asString(node["format"])]; ok {
		return value
	}

	if pattern := asString(node["pattern"]); pattern != "" {
		return pattern
	}

	return scalarPlaceholders["string"].(string)
}

// schemaTypeName returns the first non-null type value from the type keyword.
func schemaTypeName(node map[string]any) string {
	typeValue, exists := node["type"]
	if !exists {
		return ""
	}

	if text := strings.ToLower(asString(typeValue)); text != "" {
		return text
	}

	items, _ := typeValue.([]any)
	for _, item := range items {
		text := strings.ToLower(asString(item))
		if text == "" || text == "null" {
			continue
		}

		return text
	}

	for _, item := range items {
		if strings.ToLower(asString(item)) == "null" {
			return "null"
		}
	}

	return ""
}

// hasObjectShape reports whether the schema has object structure keywords.
func hasObjectShape(node map[string]any) bool {
	if _, ok := node["properties"].(map[string]any); ok {
		return true
	}

	_, ok := node["additionalProperties"]
	return ok
}

// hasArrayShape reports whether the schema has array structure keywords.
func hasArrayShape(node map[string]any) bool {
	_, ok := node["items"]
	return ok
}

// mergeSchemaObjects merges a resolved reference target with sibling overrides.
func mergeSchemaObjects(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}

	for key, value := range overlay {
		if key == "$ref" {
			continue
		}

		out[key] = value
	}

	return out
}

// asString coerces a schema keyword value to string.
func asString(value any) string {
	text, _ := value.(string)
	return text
}

// sortedKeys returns map keys in deterministic sorted order.
func sortedKeys(value map[string]any) []string {
	keys := make([]string, 0, len(value))
	for key := range value {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}
