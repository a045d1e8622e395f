// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestFlattenEndToEnd(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type":     "object",
		"required": []any{"id"},
		"properties": map[string]any{
			"id":   map[string]any{"type": "integer"},
			"name": map[string]any{"type": "string"},
		},
	}

	blocks := Flatten(schema, 0, quietOptions(), nil)
	if len(blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(blocks))
	}

	rows := blocks[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %+v", rows)
	}

	if rows[0].Name != "id" || rows[0].Depth != 0 || rows[0].Type != "integer" || !rows[0].Required {
		t.Fatalf("unexpected id row: %+v", rows[0])
	}

	if rows[1].Name != "name" || rows[1].Depth != 0 || rows[1].Type != "string" || rows[1].Required {
		t.Fatalf("unexpected name row: %+v", rows[1])
	}
}

func TestFlattenIsIdempotent(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pet": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
			},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	}

	first := Flatten(schema, 0, quietOptions(), nil)
	second := Flatten(schema, 0, quietOptions(), nil)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("flatten output differs between runs:\n%+v\n%+v", first, second)
	}
}

func TestFlattenDepthNeverNegative(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nested": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"leaf": map[string]any{"type": "string"},
				},
			},
		},
	}

	for _, block := range Flatten(schema, -5, quietOptions(), nil) {
		for _, row := range block.Rows {
			if row.Depth < 0 {
				t.Fatalf("negative depth in row %+v", row)
			}
		}
	}
}

func TestFlattenNestedPropertyDepth(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"owner": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"email": map[string]any{"type": "string"},
				},
			},
		},
	}

	rows := Flatten(schema, 0, quietOptions(), nil)[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %+v", rows)
	}

	if rows[0].Name != "owner" || rows[0].Depth != 0 {
		t.Fatalf("unexpected owner row: %+v", rows[0])
	}

	if rows[1].Name != "email" || rows[1].Depth != 1 {
		t.Fatalf("unexpected email row: %+v", rows[1])
	}

	if rows[1].DisplayName != "» email" {
		t.Fatalf("unexpected display name %q", rows[1].DisplayName)
	}
}

func TestFlattenCombinatorBlockTitles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		keyword string
		second  string
	}{
		{"allOf", "and"},
		{"anyOf", "or"},
		{"oneOf", "xor"},
	}

	for _, tc := range cases {
		t.Run(tc.keyword, func(t *testing.T) {
			t.Parallel()

			schema := map[string]any{
				tc.keyword: []any{
					map[string]any{"title": "First", "type": "object"},
					map[string]any{"title": "Second", "type": "object"},
				},
			}

			blocks := Flatten(schema, 0, quietOptions(), nil)
			if len(blocks) != 3 {
				t.Fatalf("expected seed plus two branch blocks, got %+v", blocks)
			}

			if blocks[1].Title != tc.keyword {
				t.Fatalf("first branch title %q, want %q", blocks[1].Title, tc.keyword)
			}

			if blocks[2].Title != tc.second {
				t.Fatalf("second branch title %q, want %q", blocks[2].Title, tc.second)
			}

			if len(blocks[1].Rows) != 1 || blocks[1].Rows[0].Name != "First" {
				t.Fatalf("unexpected first branch rows: %+v", blocks[1].Rows)
			}
		})
	}
}

func TestFlattenContinuedBlockAfterCombinator(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"choice": map[string]any{
				"oneOf": []any{
					map[string]any{"title": "Option", "type": "object"},
				},
			},
			"status": map[string]any{"type": "string"},
		},
	}

	blocks := Flatten(schema, 0, quietOptions(), nil)
	if len(blocks) != 3 {
		t.Fatalf("expected seed, branch and continued blocks, got %+v", blocks)
	}

	if blocks[1].Title != "oneOf" {
		t.Fatalf("unexpected branch title %q", blocks[1].Title)
	}

	if blocks[2].Title != "continued" {
		t.Fatalf("unexpected continuation title %q", blocks[2].Title)
	}

	if len(blocks[2].Rows) != 1 || blocks[2].Rows[0].Name != "status" {
		t.Fatalf("continued block should hold the resumed row: %+v", blocks[2].Rows)
	}
}

func TestFlattenDiscriminatorBlockTitle(t *testing.T) {
	t.Parallel()

	root := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Cat": map[string]any{"type": "object"},
			},
		},
	}

	schema := map[string]any{
		"oneOf": []any{
			map[string]any{
				"title":         "Cat",
				markerOldRef:    "#/components/schemas/Cat",
				"discriminator": map[string]any{"propertyName": "petType"},
			},
		},
	}

	blocks := Flatten(schema, 0, quietOptions(), root)
	if blocks[1].Title != "oneOf - discriminator: Cat.petType" {
		t.Fatalf("unexpected block title %q", blocks[1].Title)
	}
}

func TestFlattenRequiredPropagation(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"tag":  map[string]any{"type": "string"},
		},
	}

	rows := Flatten(schema, 0, quietOptions(), nil)[0].Rows
	for _, row := range rows {
		want := row.Name == "name"
		if row.Required != want {
			t.Fatalf("row %q required=%v, want %v", row.Name, row.Required, want)
		}
	}
}

func TestFlattenReferenceLinkAndBackfill(t *testing.T) {
	t.Parallel()

	root := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": map[string]any{
					"type":        "object",
					"description": "A pet in the store",
				},
			},
		},
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pet": map[string]any{
				"type":       "object",
				markerOldRef: "#/components/schemas/Pet",
			},
		},
	}

	rows := Flatten(schema, 0, quietOptions(), root)[0].Rows
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %+v", rows)
	}

	if rows[0].SafeType != "[Pet](#schemapet)" {
		t.Fatalf("unexpected safe type %q", rows[0].SafeType)
	}

	if rows[0].Reference != "#/components/schemas/Pet" {
		t.Fatalf("unexpected reference %q", rows[0].Reference)
	}

	if rows[0].Description != "A pet in the store" {
		t.Fatalf("description not backfilled: %+v", rows[0])
	}
}

func TestFlattenShallowSuppressesReferenceDescendants(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pet": map[string]any{
				"type":       "object",
				markerOldRef: "#/components/schemas/Pet",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
			},
			"status": map[string]any{"type": "string"},
		},
	}

	shallow := quietOptions()
	shallow.ShallowSchemas = true

	rows := Flatten(schema, 0, shallow, nil)[0].Rows
	names := rowNames(rows)
	if !reflect.DeepEqual(names, []string{"pet", "status"}) {
		t.Fatalf("shallow rows %v, want [pet status]", names)
	}

	deep := Flatten(schema, 0, quietOptions(), nil)[0].Rows
	if !reflect.DeepEqual(rowNames(deep), []string{"pet", "name", "status"}) {
		t.Fatalf("deep rows %v, want [pet name status]", rowNames(deep))
	}
}

func TestFlattenArrayItemTypes(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"names": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"pets": map[string]any{
				"type":  "array",
				"items": map[string]any{markerOldRef: "#/components/schemas/Pet"},
			},
			"mixed": map[string]any{
				"type": "array",
				"items": map[string]any{
					"oneOf": []any{map[string]any{"type": "string"}},
				},
			},
		},
	}

	rows := Flatten(schema, 0, quietOptions(), nil)
	byName := map[string]Row{}
	for _, block := range rows {
		for _, row := range block.Rows {
			byName[row.Name] = row
		}
	}

	if byName["names"].SafeType != "[string]" {
		t.Fatalf("unexpected names type %q", byName["names"].SafeType)
	}

	if byName["pets"].SafeType != "[[Pet](#schemapet)]" {
		t.Fatalf("unexpected pets type %q", byName["pets"].SafeType)
	}

	if byName["mixed"].SafeType != "[oneOf]" {
		t.Fatalf("unexpected mixed type %q", byName["mixed"].SafeType)
	}
}

func TestFlattenNullableAndFormat(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"deleted": map[string]any{
				"type":     "string",
				"format":   "date-time",
				"nullable": true,
			},
		},
	}

	row := Flatten(schema, 0, quietOptions(), nil)[0].Rows[0]
	if row.Type != "string|null" {
		t.Fatalf("unexpected type %q", row.Type)
	}

	if row.SafeType != "string|null(date-time)" {
		t.Fatalf("unexpected safe type %q", row.SafeType)
	}

	if row.Format != "date-time" {
		t.Fatalf("unexpected format %q", row.Format)
	}
}

func TestFlattenRestrictionsLabels(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":     map[string]any{"type": "integer", "readOnly": true},
			"secret": map[string]any{"type": "string", "writeOnly": true},
		},
	}

	rows := Flatten(schema, 0, quietOptions(), nil)[0].Rows
	if rows[0].Restrictions != "read-only" {
		t.Fatalf("unexpected restrictions %q", rows[0].Restrictions)
	}

	if rows[1].Restrictions != "write-only" {
		t.Fatalf("unexpected restrictions %q", rows[1].Restrictions)
	}
}

func TestFlattenDescriptionFormatting(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "  first line\nsecond line  ",
			},
			"missing": map[string]any{
				"type":        "string",
				"description": "undefined",
			},
		},
	}

	opt := quietOptions()
	opt.Trim = true
	opt.Join = true

	rows := Flatten(schema, 0, opt, nil)[0].Rows
	if rows[1].Description != "first line second line" {
		t.Fatalf("unexpected joined description %q", rows[1].Description)
	}

	if rows[0].Description != "" {
		t.Fatalf("literal undefined should be blanked: %q", rows[0].Description)
	}

	truncate := quietOptions()
	truncate.Truncate = true
	rows = Flatten(schema, 0, truncate, nil)[0].Rows
	if rows[1].Description != "  first line" {
		t.Fatalf("unexpected truncated description %q", rows[1].Description)
	}
}

func TestFlattenNameDerivationLadder(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"holder": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
				"patternProperties": map[string]any{
					"^x-": map[string]any{"type": "string"},
				},
			},
		},
		"anyOf": []any{
			map[string]any{"type": "object"},
		},
	}

	var names []string
	for _, block := range Flatten(schema, 0, quietOptions(), nil) {
		names = append(names, rowNames(block.Rows)...)
	}

	want := []string{"*anonymous*", "holder", "**additionalProperties**", "*^x-*"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("row names %v, want %v", names, want)
	}
}

func TestFlattenBlanksMarkerPropertyNames(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			markerPrefix + "internal": map[string]any{"type": "string"},
			"visible":                 map[string]any{"type": "string"},
		},
	}

	rows := Flatten(schema, 0, quietOptions(), nil)[0].Rows
	if !reflect.DeepEqual(rowNames(rows), []string{"visible"}) {
		t.Fatalf("marker property must not produce a row: %v", rowNames(rows))
	}
}

func TestFlattenWarnsOnUnnamedNode(t *testing.T) {
	t.Parallel()

	var diagnostics bytes.Buffer
	opt := &Options{Diagnostics: &diagnostics}

	schema := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	Flatten(schema, 0, opt, nil)
	if !strings.Contains(diagnostics.String(), "warning:") {
		t.Fatalf("expected unnamed node diagnostic, got %q", diagnostics.String())
	}
}

func TestFlattenSeedBlockMetadata(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"title":        "Pet",
		"description":  "A pet in the store",
		"externalDocs": map[string]any{"url": "https://example.com/pets"},
		"type":         "object",
	}

	blocks := Flatten(schema, 0, quietOptions(), nil)
	if blocks[0].Title != "Pet" || blocks[0].Description != "A pet in the store" {
		t.Fatalf("unexpected seed block: %+v", blocks[0])
	}

	if blocks[0].ExternalDocs["url"] != "https://example.com/pets" {
		t.Fatalf("external docs not carried: %+v", blocks[0].ExternalDocs)
	}
}

func TestFlattenDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pet": map[string]any{markerOldRef: "#/components/schemas/Pet"},
		},
	}

	snapshot := cloneSchema(schema)
	Flatten(schema, 0, quietOptions(), nil)

	if !reflect.DeepEqual(schema, snapshot) {
		t.Fatalf("input schema mutated:\n%+v\n%+v", schema, snapshot)
	}
}

func rowNames(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Name)
	}

	return out
}

func quietOptions() *Options {
	return &Options{Diagnostics: &bytes.Buffer{}}
}
