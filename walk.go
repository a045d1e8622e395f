// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import "strconv"

// walkState carries traversal bookkeeping for one schema node visit.
// A fresh record is threaded into every recursive call; callbacks never
// observe shared mutable traversal state.
type walkState struct {
	// depth is the structural traversal depth, zero at the document root.
	depth int
	// property is the path step that led to this node, for example
	// "properties/name", "allOf/0", "items" or "additionalProperties".
	property string
	// parent is the schema object that owns this node, nil at the root.
	parent map[string]any
	// top is true only for the root node of the walked schema.
	top bool
	// itemsAncestor is true when any ancestor step entered an array
	// items or additionalItems sub-schema.
	itemsAncestor bool
}

// walkFunc is invoked once per visited schema node.
type walkFunc func(node map[string]any, parent map[string]any, state *walkState)

// walkSchema visits node and every sub-schema depth-first in deterministic
// order: array item schemas, additional properties, combinator branches in
// listed order, then properties and pattern properties by sorted key.
// Combinator branches are visited as ordinary children and sibling keys of
// reference nodes are kept intact.
func walkSchema(node map[string]any, parent map[string]any, state *walkState, visit walkFunc) {
	if node == nil {
		return
	}

	visit(node, parent, state)

	child := func(value any, property string, itemsChild bool) {
		sub, ok := toSchemaMap(value)
		if !ok {
			return
		}

		walkSchema(sub, node, &walkState{
			depth:         state.depth + 1,
			property:      property,
			parent:        node,
			itemsAncestor: state.itemsAncestor || itemsChild,
		}, visit)
	}

	child(node["items"], "items", true)
	child(node["additionalItems"], "additionalItems", true)
	child(node["additionalProperties"], "additionalProperties", false)

	for _, keyword := range []string{"allOf", "anyOf", "oneOf"} {
		for index, branch := range asSlice(node[keyword]) {
			child(branch, keyword+"/"+strconv.Itoa(index), false)
		}
	}

	child(node["not"], "not", false)

	if properties := asMap(node["properties"]); len(properties) > 0 {
		for _, key := range sortedKeys(properties) {
			child(properties[key], "properties/"+key, false)
		}
	}

	if properties := asMap(node["patternProperties"]); len(properties) > 0 {
		for _, key := range sortedKeys(properties) {
			child(properties[key], "patternProperties/"+key, false)
		}
	}
}
