// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import (
	"fmt"
	"strings"
)

// Block is a titled group of rows for one schema scope or one combinator
// branch. Row order is discovery order during traversal.
type Block struct {
	// Title names the block: the root schema title, a combinator keyword
	// or its translated label, or the continuation label.
	Title string
	// Description carries the root schema description for the seed block.
	Description string
	// ExternalDocs carries the root schema externalDocs object, if any.
	ExternalDocs map[string]any
	// Rows lists the named schema nodes discovered inside this block.
	Rows []Row
}

// Row describes a single named schema node for table rendering.
type Row struct {
	// Name is the derived node name.
	Name string
	// DisplayName is Name prefixed by one indent marker per depth level.
	DisplayName string
	// Type is the effective schema type, possibly inferred, with a
	// "|null" suffix for nullable nodes.
	Type string
	// SafeType is the rendered type: a reference link for references, a
	// bracketed item type for arrays, otherwise Type, with an appended
	// "(format)" suffix when a format is declared.
	SafeType string
	// Format is the raw schema format keyword.
	Format string
	// Description is the post-processed node description.
	Description string
	// Required reports whether the node name appears in its immediate
	// parent's required list.
	Required bool
	// Restrictions lists access restriction labels (read-only, write-only).
	Restrictions string
	// Depth is the display indent level, never negative.
	Depth int
	// Reference is the original pointer for reference nodes.
	Reference string
	// Schema is the traversed node itself; callers must not mutate it.
	Schema map[string]any
}

// Flatten walks schema depth-first and returns an ordered sequence of
// titled row blocks describing every named node. The offset shifts every
// row's display depth; root resolves reference pointers for description
// backfill and discriminator titles. Flatten is a pure function of its
// arguments and never mutates schema.
func Flatten(schema map[string]any, offset int, opt *Options, root map[string]any) []Block {
	flattener := &schemaFlattener{
		opt:       opt,
		tr:        opt.translations(),
		root:      root,
		offset:    offset,
		skipDepth: -1,
		firstRow:  true,
	}

	seed := Block{}
	if schema != nil {
		seed.Title = asString(schema["title"])
		seed.Description = asString(schema["description"])
		seed.ExternalDocs = asMap(schema["externalDocs"])
	}

	flattener.blocks = append(flattener.blocks, seed)
	walkSchema(schema, nil, &walkState{top: true}, flattener.visit)
	return flattener.blocks
}

// schemaFlattener holds bookkeeping for one Flatten call.
type schemaFlattener struct {
	opt    *Options
	tr     Translations
	root   map[string]any
	offset int
	blocks []Block

	// indent is the display indent counter, moved only by named rows.
	indent int
	// lastDepth is the traversal depth of the last named row.
	lastDepth int
	// firstRow is true until the first named row establishes a baseline.
	firstRow bool
	// blockDepth is the traversal depth at which the open combinator
	// block started, zero when no combinator block is open.
	blockDepth int
	// skipDepth is the traversal depth of the reference row whose
	// descendants are being suppressed, -1 when inactive.
	skipDepth int
}

// visit handles one traversed schema node.
func (flattener *schemaFlattener) visit(node, parent map[string]any, state *walkState) {
	keyword, branch, isBlock := combinatorSlot(state.property)
	if isBlock {
		flattener.openBlock(node, keyword, branch, state.depth)
	} else if flattener.blockDepth != 0 && state.depth < flattener.blockDepth {
		flattener.blocks = append(flattener.blocks, Block{Title: flattener.tr.Continued})
		flattener.blockDepth = 0
	}

	if flattener.skipDepth >= 0 && state.depth <= flattener.skipDepth {
		flattener.skipDepth = -1
	}

	suppressed := flattener.skipDepth >= 0 && state.depth > flattener.skipDepth

	name := deriveRowName(node, state, flattener.tr)
	if strings.HasPrefix(name, markerPrefix) {
		name = ""
	}

	if suppressed {
		name = ""
	}

	if name == "" {
		if !state.top && !suppressed {
			_, _ = fmt.Fprintf(flattener.opt.diagnostics(), "warning: schema node without derivable name at %q\n", state.property)
		}

		return
	}

	if !flattener.firstRow {
		if state.depth > flattener.lastDepth {
			flattener.indent++
		}

		if state.depth < flattener.lastDepth {
			flattener.indent--
			if flattener.indent < 0 {
				flattener.indent = 0
			}
		}
	}

	flattener.firstRow = false
	flattener.lastDepth = state.depth

	row := flattener.buildRow(node, parent, state, name)
	if ref := referencePointer(node); ref != "" && flattener.opt != nil && flattener.opt.ShallowSchemas && flattener.skipDepth < 0 {
		flattener.skipDepth = state.depth
	}

	last := len(flattener.blocks) - 1
	flattener.blocks[last].Rows = append(flattener.blocks[last].Rows, row)
}

// openBlock starts a new block for one combinator branch.
func (flattener *schemaFlattener) openBlock(node map[string]any, keyword string, branch, depth int) {
	title := keyword
	if branch > 0 {
		title = combinatorBranchTitle(keyword)
	}

	if discriminator := discriminatorLabel(node, flattener.root); discriminator != "" {
		title += " - discriminator: " + discriminator
	}

	flattener.blocks = append(flattener.blocks, Block{Title: title})
	flattener.blockDepth = depth
}

// buildRow assembles the row for one named node.
func (flattener *schemaFlattener) buildRow(node, parent map[string]any, state *walkState, name string) Row {
	row := Row{
		Name:   name,
		Schema: node,
	}

	row.Depth = flattener.indent + flattener.offset
	if row.Depth < 0 {
		row.Depth = 0
	}

	row.DisplayName = strings.TrimSpace(strings.Repeat(flattener.tr.Indent, row.Depth) + " " + name)

	row.Type = asString(node["type"])
	if row.Type == "" {
		row.Type = inferType(node)
	}

	if nullable, ok := asBool(node["nullable"]); ok && nullable {
		row.Type += "|null"
	}

	row.SafeType = row.Type

	row.Description = formatRowDescription(asString(node["description"]), flattener.opt)

	if ref := referencePointer(node); ref != "" {
		row.Reference = ref
		row.SafeType = referenceLink(ref)
		if row.Description == "" {
			row.Description = flattener.referencedDescription(ref)
		}
	} else if strings.HasPrefix(row.Type, "array") {
		if itemsType := flattener.arrayItemsType(node); itemsType != "" {
			row.SafeType = "[" + itemsType + "]"
		}
	}

	row.Format = asString(node["format"])
	if row.Format != "" {
		row.SafeType += "(" + row.Format + ")"
	}

	var required []string
	if parent != nil {
		required = asStringSlice(parent["required"])
	}

	row.Required = isRequired(required, propertySegment(state.property))
	row.Restrictions = restrictionLabel(node, flattener.tr)

	return row
}

// referencedDescription backfills a description from the reference target.
func (flattener *schemaFlattener) referencedDescription(ref string) string {
	raw, ok := resolveJSONPointer(flattener.root, ref)
	if !ok {
		return ""
	}

	target, ok := toSchemaMap(raw)
	if !ok {
		return ""
	}

	return formatRowDescription(asString(target["description"]), flattener.opt)
}

// arrayItemsType derives the bracketed item type string for an array node.
func (flattener *schemaFlattener) arrayItemsType(node map[string]any) string {
	items, ok := toSchemaMap(node["items"])
	if !ok {
		return ""
	}

	if itemsType := asString(items["type"]); itemsType != "" {
		return itemsType
	}

	if ref := referencePointer(items); ref != "" {
		return referenceLink(ref)
	}

	if keyword := combinatorKeyword(items); keyword != "" {
		return keyword
	}

	return inferType(items)
}

// combinatorSlot parses a combinator path step into keyword and branch index.
func combinatorSlot(property string) (string, int, bool) {
	if property == "not" {
		return "not", 0, true
	}

	for _, keyword := range []string{"allOf", "anyOf", "oneOf"} {
		if !strings.HasPrefix(property, keyword+"/") {
			continue
		}

		branch := 0
		if _, err := fmt.Sscanf(property[len(keyword)+1:], "%d", &branch); err != nil {
			branch = 0
		}

		return keyword, branch, true
	}

	return "", 0, false
}

// combinatorBranchTitle translates combinator keywords for branches past
// the first one.
func combinatorBranchTitle(keyword string) string {
	switch keyword {
	case "allOf":
		return "and"
	case "anyOf":
		return "or"
	case "oneOf":
		return "xor"
	default:
		return keyword
	}
}

// combinatorKeyword returns the single combinator keyword a node carries.
func combinatorKeyword(node map[string]any) string {
	for _, keyword := range []string{"allOf", "anyOf", "oneOf"} {
		if len(asSlice(node[keyword])) > 0 {
			return keyword
		}
	}

	if _, ok := toSchemaMap(node["not"]); ok {
		return "not"
	}

	return ""
}

// discriminatorLabel builds the "<prefix>.<propertyName>" discriminator
// suffix for a combinator block. The prefix is the reference target name;
// the property name comes from the node or its resolved target.
func discriminatorLabel(node, root map[string]any) string {
	ref := referencePointer(node)
	property := asString(asMap(node["discriminator"])["propertyName"])
	if property == "" && ref != "" {
		if raw, ok := resolveJSONPointer(root, ref); ok {
			if target, ok := toSchemaMap(raw); ok {
				property = asString(asMap(target["discriminator"])["propertyName"])
			}
		}
	}

	if property == "" {
		return ""
	}

	if prefix := referenceName(ref); prefix != "" {
		return prefix + "." + property
	}

	return property
}

// deriveRowName applies the name derivation ladder; nodes that stay
// unnamed never become rows.
func deriveRowName(node map[string]any, state *walkState, tr Translations) string {
	segment := propertySegment(state.property)
	if segment != "" && strings.HasPrefix(state.property, "properties/") {
		return segment
	}

	if title := asString(node["title"]); title != "" {
		return title
	}

	if state.top {
		return ""
	}

	if strings.HasPrefix(state.property, "additionalProperties") {
		return "**additionalProperties**"
	}

	if strings.HasPrefix(state.property, "additionalItems") {
		return "**additionalItems**"
	}

	if segment != "" && strings.HasPrefix(state.property, "patternProperties/") {
		return "*" + segment + "*"
	}

	if !state.itemsAncestor {
		return "*" + tr.Anonymous + "*"
	}

	return ""
}

// propertySegment extracts the name part of a slash-separated path step.
func propertySegment(property string) string {
	index := strings.Index(property, "/")
	if index < 0 {
		return ""
	}

	return property[index+1:]
}

// isRequired reports whether key is present in the required list.
func isRequired(required []string, key string) bool {
	if key == "" {
		return false
	}

	for _, item := range required {
		if item == key {
			return true
		}
	}

	return false
}

// restrictionLabel joins access restriction labels for one node.
func restrictionLabel(node map[string]any, tr Translations) string {
	labels := make([]string, 0, 2)
	if readOnly, ok := asBool(node["readOnly"]); ok && readOnly {
		labels = append(labels, tr.ReadOnly)
	}

	if writeOnly, ok := asBool(node["writeOnly"]); ok && writeOnly {
		labels = append(labels, tr.WriteOnly)
	}

	return strings.Join(labels, ", ")
}

// referenceLink renders a reference pointer as an anchor link string.
func referenceLink(ref string) string {
	name := referenceName(ref)
	return "[" + name + "](#schema" + strings.ToLower(name) + ")"
}

// formatRowDescription applies the configured description post-processing.
func formatRowDescription(text string, opt *Options) string {
	if text == "undefined" {
		return ""
	}

	if opt == nil {
		return text
	}

	if opt.Trim {
		text = strings.TrimSpace(text)
	}

	if opt.Join {
		text = strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " ")
	}

	if opt.Truncate {
		if index := strings.IndexByte(text, '\n'); index >= 0 {
			text = text[:index]
		}
	}

	return text
}
