// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import (
	"bytes"
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
)

// LoadDocument reads and parses one OpenAPI document file into a generic
// JSON-compatible tree. YAML and JSON inputs are both accepted.
func LoadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-controlled input path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadDocumentFile, err)
	}

	return LoadDocumentBytes(data)
}

// LoadDocumentBytes parses one OpenAPI document into a generic
// JSON-compatible tree with numbers preserved as json.Number.
func LoadDocumentBytes(data []byte) (map[string]any, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDocument, err)
	}

	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var document map[string]any
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	return document, nil
}

// Dereference returns a copy of document with every resolvable local
// reference expanded in place. Sibling keywords next to a reference are
// kept as overrides of the resolved target, and each expanded node records
// the original pointer under an internal marker key. Cyclic references stay
// as raw reference objects.
func Dereference(document map[string]any) map[string]any {
	resolver := &referenceResolver{
		root:       document,
		activeRefs: make(map[string]int),
	}

	resolved, _ := resolver.resolveValue(document).(map[string]any)
	return resolved
}

// referenceResolver tracks active pointers during one Dereference pass.
type referenceResolver struct {
	root       map[string]any
	activeRefs map[string]int
}

// resolveValue rebuilds one tree value with references expanded.
func (resolver *referenceResolver) resolveValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return resolver.resolveObject(typed)
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, resolver.resolveValue(item))
		}

		return out
	default:
		return typed
	}
}

// resolveObject expands one object, inlining its reference if it has one.
func (resolver *referenceResolver) resolveObject(object map[string]any) map[string]any {
	ref := asString(object["$ref"])
	if ref == "" {
		out := make(map[string]any, len(object))
		for key, item := range object {
			out[key] = resolver.resolveValue(item)
		}

		return out
	}

	raw, ok := resolveJSONPointer(resolver.root, ref)
	if !ok {
		return copyShallowObject(object)
	}

	target, ok := toSchemaMap(raw)
	if !ok {
		return copyShallowObject(object)
	}

	if resolver.activeRefs[ref] > 0 {
		return copyShallowObject(object)
	}

	resolver.activeRefs[ref]++
	defer func() {
		resolver.activeRefs[ref]--
		if resolver.activeRefs[ref] <= 0 {
			delete(resolver.activeRefs, ref)
		}
	}()

	out := resolver.resolveObject(target)
	for key, item := range object {
		if key == "$ref" {
			continue
		}

		out[key] = resolver.resolveValue(item)
	}

	out[markerOldRef] = ref
	return out
}

// copyShallowObject copies one object without descending into values.
func copyShallowObject(object map[string]any) map[string]any {
	out := make(map[string]any, len(object))
	for key, item := range object {
		out[key] = item
	}

	return out
}
