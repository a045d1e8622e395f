// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import "errors"

var (
	// ErrReadDocumentFile is returned when document file loading fails.
	ErrReadDocumentFile = errors.New("read document file")
	// ErrLoadDocument is returned when OpenAPI document parsing fails.
	ErrLoadDocument = errors.New("load openapi document")
	// ErrDecodeDocument is returned when document tree conversion fails.
	ErrDecodeDocument = errors.New("decode document tree")
	// ErrNoSchemas is returned when a document defines no component schemas.
	ErrNoSchemas = errors.New("document has no component schemas")
	// ErrUnknownExampleFormat is returned when example format is not supported.
	ErrUnknownExampleFormat = errors.New("unknown example format")
	// ErrEncodeExampleJSON is returned when example JSON encoding fails.
	ErrEncodeExampleJSON = errors.New("encode example json")
	// ErrEncodeExampleYAML is returned when example YAML encoding fails.
	ErrEncodeExampleYAML = errors.New("encode example yaml")
)
