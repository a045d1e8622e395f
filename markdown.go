// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	// ExampleFormatJSON encodes example payloads as pretty JSON.
	ExampleFormatJSON ExampleFormat = "json"
	// ExampleFormatYAML encodes example payloads as YAML.
	ExampleFormatYAML ExampleFormat = "yaml"
)

// ExampleFormat configures the fenced example payload encoding.
type ExampleFormat string

// normalizeExampleFormat validates and normalizes caller format value.
func normalizeExampleFormat(format ExampleFormat) (ExampleFormat, error) {
	normalized := ExampleFormat(strings.ToLower(strings.TrimSpace(string(format))))
	switch normalized {
	case "":
		return ExampleFormatJSON, nil
	case ExampleFormatJSON, ExampleFormatYAML:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExampleFormat, format)
	}
}

// RenderSchemaSection renders one named schema as a Markdown section with
// one properties table per block.
func RenderSchemaSection(name string, blocks []Block) string {
	var out strings.Builder
	out.WriteString("## " + tableSafe(name) + "\n")
	out.WriteString("<a id=\"schema" + strings.ToLower(name) + "\"></a>\n\n")

	for index, block := range blocks {
		if index == 0 {
			if block.Description != "" {
				out.WriteString(cleanInline(block.Description) + "\n\n")
			}
		} else if block.Title != "" {
			out.WriteString("*" + tableSafe(block.Title) + "*\n\n")
		}

		if len(block.Rows) == 0 {
			continue
		}

		out.WriteString("|Name|Type|Required|Restrictions|Description|\n")
		out.WriteString("|---|---|---|---|---|\n")
		for _, row := range block.Rows {
			out.WriteString("|" + tableSafe(row.DisplayName) +
				"|" + tableSafe(row.SafeType) +
				"|" + requiredLabel(row.Required) +
				"|" + orNone(tableSafe(row.Restrictions)) +
				"|" + orNone(cleanInline(row.Description)) + "|\n")
		}

		out.WriteString("\n")
	}

	return out.String()
}

// RenderExampleBlock renders an example payload as a fenced code block.
func RenderExampleBlock(value any, format ExampleFormat) (string, error) {
	format, err := normalizeExampleFormat(format)
	if err != nil {
		return "", err
	}

	data, err := EncodeExample(value, format)
	if err != nil {
		return "", err
	}

	return "```" + string(format) + "\n" + string(data) + "```\n", nil
}

// EncodeExample serializes an example payload in the selected format.
func EncodeExample(value any, format ExampleFormat) ([]byte, error) {
	format, err := normalizeExampleFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case ExampleFormatYAML:
		return encodeExampleYAML(value)
	default:
		return encodeExampleJSON(value)
	}
}

// encodeExampleJSON serializes an example payload as pretty JSON.
func encodeExampleJSON(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleJSON, err)
	}

	return out.Bytes(), nil
}

// encodeExampleYAML serializes an example payload as YAML.
func encodeExampleYAML(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(normalizeYAMLValue(value)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	return out.Bytes(), nil
}

// normalizeYAMLValue converts json.Number values so the YAML encoder emits
// plain numeric scalars.
func normalizeYAMLValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalizeYAMLValue(item)
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, normalizeYAMLValue(item))
		}

		return out
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return integer
		}

		if float, err := typed.Float64(); err == nil {
			return float
		}

		return typed.String()
	default:
		return typed
	}
}

// requiredLabel renders the required table cell value.
func requiredLabel(required bool) string {
	if required {
		return "true"
	}

	return "false"
}

// orNone renders empty cell values as an explicit marker.
func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return "none"
	}

	return value
}

// tableSafe escapes characters that would break a Markdown table cell.
func tableSafe(value string) string {
	value = strings.ReplaceAll(value, "|", "\\|")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}

// cleanInline collapses whitespace for single-line Markdown contexts.
func cleanInline(value string) string {
	value = normalizeLineEndings(value)
	value = strings.ReplaceAll(value, "|", "\\|")
	return strings.Join(strings.Fields(value), " ")
}

// escapeInline escapes backticks in inline code segments.
func escapeInline(value string) string {
	return strings.ReplaceAll(value, "`", "\\`")
}

// normalizeLineEndings converts CRLF/CR to LF.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

// normalizeMarkdownOutput collapses extra blank lines outside fenced blocks.
func normalizeMarkdownOutput(text string) string {
	text = normalizeLineEndings(text)
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	inFence := false
	blankCount := 0
	for _, rawLine := range lines {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			blankCount = 0
			continue
		}

		if !inFence && trimmed == "" {
			if blankCount == 0 {
				out = append(out, "")
			}

			blankCount++
			continue
		}

		blankCount = 0
		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// ensureTrailingNewline guarantees exactly one trailing newline in output.
func ensureTrailingNewline(value string) string {
	value = strings.TrimRight(value, "\n")
	return value + "\n"
}
