// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package widdershins

import (
	"github.com/JoBrad/widdershins/sampler"
)

// Sample returns an example payload for one schema node. A declared
// example value wins outright; otherwise the node is cloned cycle-safe and
// handed to the configured generator with root as reference context.
// Synthesis failures never escape: every path returns a defined value,
// falling back to the cleaned clone when generation cannot succeed.
func Sample(node map[string]any, opt *Options, samplerOpt sampler.Options, root map[string]any) any {
	if node == nil {
		return nil
	}

	if example, ok := node["example"]; ok {
		return example
	}

	clone := cloneSchema(node)
	if opt == nil || !opt.Sample {
		return finishSample(clone, opt)
	}

	value, err := opt.generate(clone, samplerOpt, root)
	if err == nil && isUnresolvedReference(value) {
		value, err = opt.generate(jsonRoundTrip(clone), samplerOpt, root)
	}

	if err == nil && isEmptyObject(value) {
		value = sampleThroughEnvelope(clone, opt, samplerOpt, root)
	}

	if err != nil {
		opt.reportSamplerError(err, node)

		value, err = opt.generate(jsonRoundTrip(clone), samplerOpt, root)
		if err != nil {
			opt.reportSamplerError(err, node)
			value = clone
		}
	}

	return finishSample(value, opt)
}

// sampleThroughEnvelope retries generation with the clone wrapped in a
// synthetic object property, coercing generators that refuse untyped input.
func sampleThroughEnvelope(clone map[string]any, opt *Options, samplerOpt sampler.Options, root map[string]any) any {
	envelope := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"anonymous": clone,
		},
	}

	wrapped, err := opt.generate(envelope, samplerOpt, root)
	if err != nil {
		opt.reportSamplerError(err, clone)
		return map[string]any{}
	}

	result, ok := wrapped.(map[string]any)
	if !ok {
		return map[string]any{}
	}

	return result["anonymous"]
}

// finishSample strips internal marker keys and applies depth truncation.
func finishSample(value any, opt *Options) any {
	maxDepth := 0
	if opt != nil {
		maxDepth = opt.MaxDepth
	}

	return truncateDepth(stripMarkers(value), maxDepth)
}

// isUnresolvedReference reports whether value is a bare reference object
// echoed back by the generator.
func isUnresolvedReference(value any) bool {
	object, ok := value.(map[string]any)
	if !ok {
		return false
	}

	_, ok = object["$ref"]
	return ok
}

// isEmptyObject reports whether value is an object with zero own keys.
func isEmptyObject(value any) bool {
	object, ok := value.(map[string]any)
	return ok && len(object) == 0
}
