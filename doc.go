// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

/*
Package widdershins converts OpenAPI documents into Markdown reference
documentation: one properties table per schema plus a synthesized example
payload per schema and request body.

The package focuses on deterministic output. Schema properties, component
schemas and operations are emitted in sorted order, and example synthesis
resolves combinator branches to their first entry.

Convert a whole document from file:

	md, err := widdershins.ConvertFile("openapi.yaml", widdershins.Options{
		Sample:        true,
		ExampleFormat: widdershins.ExampleFormatJSON,
	})
	if err != nil {
		return err
	}

	fmt.Println(md)

Flatten one schema into table rows:

	document, err := widdershins.LoadDocument("openapi.yaml")
	if err != nil {
		return err
	}

	resolved := widdershins.Dereference(document)
	schema := resolved["components"].(map[string]any)["schemas"].(map[string]any)["Pet"].(map[string]any)

	blocks := widdershins.Flatten(schema, 0, &widdershins.Options{Trim: true}, resolved)
	for _, block := range blocks {
		for _, row := range block.Rows {
			fmt.Println(row.DisplayName, row.SafeType)
		}
	}

Synthesize an example payload:

	value := widdershins.Sample(schema, &widdershins.Options{Sample: true}, sampler.Options{}, resolved)

	data, err := widdershins.EncodeExample(value, widdershins.ExampleFormatYAML)
	if err != nil {
		return err
	}

	fmt.Println(string(data))
*/
package widdershins
