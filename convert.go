// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import (
	"fmt"
	"os"
	"strings"

	"github.com/JoBrad/widdershins/sampler"
)

// ConvertFile reads an OpenAPI document from a file and converts it into
// Markdown reference documentation.
func ConvertFile(path string, opt Options) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-controlled input path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadDocumentFile, err)
	}

	return Convert(data, opt)
}

// Convert converts one OpenAPI document into deterministic Markdown: a
// titled header, one section per component schema with a properties table
// and an example payload, and one request body example per operation that
// declares one.
func Convert(docBytes []byte, opt Options) (string, error) {
	document, err := LoadDocumentBytes(docBytes)
	if err != nil {
		return "", err
	}

	return ConvertDocument(document, opt)
}

// ConvertDocument converts an already parsed OpenAPI document tree.
func ConvertDocument(document map[string]any, opt Options) (string, error) {
	resolved := Dereference(document)

	schemas := componentSchemas(resolved)
	if len(schemas) == 0 {
		return "", ErrNoSchemas
	}

	var out strings.Builder
	out.WriteString("# " + documentTitle(resolved, &opt) + "\n\n")

	for _, name := range sortedKeys(schemas) {
		schema, ok := toSchemaMap(schemas[name])
		if !ok {
			continue
		}

		section, err := convertSchemaSection(name, schema, &opt, resolved)
		if err != nil {
			return "", err
		}

		out.WriteString(section)
	}

	operations, err := convertOperations(resolved, &opt)
	if err != nil {
		return "", err
	}

	out.WriteString(operations)

	return ensureTrailingNewline(normalizeMarkdownOutput(out.String())), nil
}

// convertSchemaSection renders the table and example for one named schema.
func convertSchemaSection(name string, schema map[string]any, opt *Options, root map[string]any) (string, error) {
	var out strings.Builder
	out.WriteString(RenderSchemaSection(name, Flatten(schema, 0, opt, root)))

	example, err := RenderExampleBlock(Sample(schema, opt, opt.Sampler, root), opt.ExampleFormat)
	if err != nil {
		return "", err
	}

	out.WriteString("\n" + example + "\n")
	return out.String(), nil
}

// convertOperations renders request body examples for every operation that
// declares a JSON request body schema.
func convertOperations(document map[string]any, opt *Options) (string, error) {
	paths := asMap(document["paths"])
	if len(paths) == 0 {
		return "", nil
	}

	var out strings.Builder
	for _, path := range sortedKeys(paths) {
		operations := asMap(paths[path])
		for _, method := range sortedKeys(operations) {
			operation := asMap(operations[method])
			schema := requestBodySchema(operation)
			if schema == nil {
				continue
			}

			heading := asString(operation["operationId"])
			if heading == "" {
				heading = strings.ToUpper(method) + " " + path
			}

			example, err := RenderExampleBlock(Sample(schema, opt, requestSamplerOptions(opt), document), opt.ExampleFormat)
			if err != nil {
				return "", err
			}

			out.WriteString("## " + tableSafe(heading) + "\n\n")
			out.WriteString("> Body parameter\n\n")
			out.WriteString(example + "\n")
		}
	}

	return out.String(), nil
}

// requestSamplerOptions excludes read-only properties from request examples.
func requestSamplerOptions(opt *Options) sampler.Options {
	samplerOpt := opt.Sampler
	samplerOpt.SkipReadOnly = true
	return samplerOpt
}

// requestBodySchema extracts the JSON request body schema of one operation.
func requestBodySchema(operation map[string]any) map[string]any {
	content := asMap(asMap(operation["requestBody"])["content"])
	for _, mediaType := range sortedKeys(content) {
		if !strings.Contains(mediaType, "json") {
			continue
		}

		if schema, ok := toSchemaMap(asMap(content[mediaType])["schema"]); ok {
			return schema
		}
	}

	return nil
}

// componentSchemas returns the reusable schema map of the document,
// accepting both OpenAPI 3 and Swagger 2 layouts.
func componentSchemas(document map[string]any) map[string]any {
	if schemas := asMap(asMap(document["components"])["schemas"]); len(schemas) > 0 {
		return schemas
	}

	return asMap(document["definitions"])
}

// documentTitle selects the rendered document title.
func documentTitle(document map[string]any, opt *Options) string {
	if opt != nil && strings.TrimSpace(opt.Title) != "" {
		return tableSafe(opt.Title)
	}

	if title := asString(asMap(document["info"])["title"]); title != "" {
		return tableSafe(title)
	}

	return defaultTitle
}
