// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/JoBrad/widdershins/sampler"
)

const (
	// defaultTitle is used when caller does not provide custom title.
	defaultTitle = "API reference"
	// defaultContinuedLabel titles blocks that resume a parent scope.
	defaultContinuedLabel = "continued"
	// defaultAnonymousLabel names schema nodes without a derivable name.
	defaultAnonymousLabel = "anonymous"
	// defaultIndentMarker is repeated per depth level in display names.
	defaultIndentMarker = "»"
	// defaultReadOnlyLabel is the restriction text for read-only properties.
	defaultReadOnlyLabel = "read-only"
	// defaultWriteOnlyLabel is the restriction text for write-only properties.
	defaultWriteOnlyLabel = "write-only"
)

// Translations carries caller-supplied display strings used in block titles,
// row names and restriction labels. Empty fields fall back to English
// defaults.
type Translations struct {
	// Continued titles the block emitted when rows resume a parent scope
	// after a combinator branch.
	Continued string
	// Anonymous names schema nodes without any derivable name.
	Anonymous string
	// Indent is repeated per depth level in row display names.
	Indent string
	// ReadOnly is the restriction label for read-only properties.
	ReadOnly string
	// WriteOnly is the restriction label for write-only properties.
	WriteOnly string
}

// GenerateFunc produces an example value for one schema node against the
// full document. Sample treats a returned error or panic as a recoverable
// synthesis failure.
type GenerateFunc func(schema map[string]any, opt sampler.Options, root map[string]any) (any, error)

// Options enumerates every recognized conversion option with its default.
// One Options value belongs to one conversion run: it accumulates the
// deduplication memo for sampler diagnostics and must not be shared across
// unrelated conversions.
type Options struct {
	// Title overrides the rendered document title.
	Title string
	// Sample enables example synthesis; when false Sample returns the
	// cleaned raw clone of the node.
	Sample bool
	// MaxDepth limits nesting of synthesized examples; zero or less
	// disables truncation.
	MaxDepth int
	// ShallowSchemas suppresses descendants of the first-seen reference
	// row instead of expanding referenced schemas inline.
	ShallowSchemas bool
	// Trim trims whitespace around row descriptions.
	Trim bool
	// Join collapses newlines in row descriptions to single spaces.
	Join bool
	// Truncate keeps only the first line of row descriptions.
	Truncate bool
	// Verbose adds a dump of the failing schema node to first-seen
	// sampler diagnostics.
	Verbose bool
	// ExampleFormat selects the fenced example encoding in Convert output.
	ExampleFormat ExampleFormat
	// Translations supplies caller display strings.
	Translations Translations
	// Diagnostics receives flattener warnings and sampler diagnostics;
	// defaults to stderr.
	Diagnostics io.Writer
	// Generator produces example values; defaults to sampler.Generate.
	Generator GenerateFunc
	// Sampler is forwarded opaquely to the generator by Convert.
	Sampler sampler.Options

	// samplerErrors deduplicates synthesis diagnostics for this run.
	// Created lazily on first failure.
	samplerErrors map[string]struct{}
}

// translations returns the display strings with defaults applied.
func (opt *Options) translations() Translations {
	out := Translations{}
	if opt != nil {
		out = opt.Translations
	}

	if out.Continued == "" {
		out.Continued = defaultContinuedLabel
	}

	if out.Anonymous == "" {
		out.Anonymous = defaultAnonymousLabel
	}

	if out.Indent == "" {
		out.Indent = defaultIndentMarker
	}

	if out.ReadOnly == "" {
		out.ReadOnly = defaultReadOnlyLabel
	}

	if out.WriteOnly == "" {
		out.WriteOnly = defaultWriteOnlyLabel
	}

	return out
}

// diagnostics returns the diagnostics sink with the stderr default applied.
func (opt *Options) diagnostics() io.Writer {
	if opt == nil || opt.Diagnostics == nil {
		return os.Stderr
	}

	return opt.Diagnostics
}

// generate invokes the configured generator and converts panics into
// synthesis errors so no failure escapes the sampling boundary.
func (opt *Options) generate(schema map[string]any, samplerOpt sampler.Options, root map[string]any) (value any, err error) {
	generator := sampler.Generate
	if opt != nil && opt.Generator != nil {
		generator = opt.Generator
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			value = nil
			err = fmt.Errorf("sample generator panic: %v", recovered)
		}
	}()

	return generator(schema, samplerOpt, root)
}

// reportSamplerError emits one full diagnostic per distinct error message
// per run and a compact repeat marker for duplicates.
func (opt *Options) reportSamplerError(err error, node map[string]any) {
	if err == nil || opt == nil {
		return
	}

	out := opt.diagnostics()
	message := err.Error()
	if _, seen := opt.samplerErrors[message]; seen {
		_, _ = fmt.Fprint(out, "!")
		return
	}

	if opt.samplerErrors == nil {
		opt.samplerErrors = make(map[string]struct{})
	}

	opt.samplerErrors[message] = struct{}{}
	_, _ = fmt.Fprintf(out, "sample generation failed: %s\n", message)
	if opt.Verbose {
		_, _ = fmt.Fprint(out, spew.Sdump(node))
	}
}
