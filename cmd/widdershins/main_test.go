// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const documentFixture = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        '200':
          description: ok
components:
  schemas:
    Pet:
      type: object
      required:
        - name
      properties:
        id:
          type: integer
          readOnly: true
        name:
          type: string
`

func TestRunConvertWritesMarkdownToStdout(t *testing.T) {
	t.Parallel()

	documentPath := writeDocumentFixture(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"convert", documentPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "# Petstore") {
		t.Fatalf("stdout missing document title: %s", stdout.String())
	}

	if !strings.Contains(stdout.String(), "## Pet") {
		t.Fatalf("stdout missing schema section: %s", stdout.String())
	}
}

func TestRunConvertFromStdin(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"convert"}, strings.NewReader(documentFixture), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "```json") {
		t.Fatalf("stdout missing example block: %s", stdout.String())
	}
}

func TestRunConvertWritesOutputFile(t *testing.T) {
	t.Parallel()

	documentPath := writeDocumentFixture(t)
	outputPath := filepath.Join(t.TempDir(), "reference.md")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"convert", "--title", "Custom Title", documentPath, outputPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}

	if !strings.Contains(string(data), "# Custom Title") {
		t.Fatalf("output file missing custom title: %s", data)
	}
}

func TestRunConvertYAMLFormat(t *testing.T) {
	t.Parallel()

	documentPath := writeDocumentFixture(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"convert", "-f", "yaml", documentPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "```yaml") {
		t.Fatalf("stdout missing yaml example block: %s", stdout.String())
	}
}

func TestRunSamplePrintsSchemaExample(t *testing.T) {
	t.Parallel()

	documentPath := writeDocumentFixture(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"sample", documentPath, "Pet"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "\"name\"") {
		t.Fatalf("stdout missing sampled property: %s", stdout.String())
	}
}

func TestRunSampleUnknownSchema(t *testing.T) {
	t.Parallel()

	documentPath := writeDocumentFixture(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"sample", documentPath, "Ghost"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run exit code = %d, want 1", code)
	}

	if !strings.Contains(stderr.String(), "not found") {
		t.Fatalf("stderr missing lookup error: %s", stderr.String())
	}
}

func TestRunUnknownFlag(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"convert", "--bogus"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("run exit code = %d, want 2", code)
	}
}

func TestRunHelp(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := run([]string{"--help"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "convert") {
		t.Fatalf("help output missing subcommands: %s", stdout.String())
	}
}

func TestRunConvertEmptyStdin(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code := runWithIO([]string{"convert"}, strings.NewReader("  "), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run exit code = %d, want 1", code)
	}

	if !strings.Contains(stderr.String(), "empty input") {
		t.Fatalf("stderr missing empty input error: %s", stderr.String())
	}
}

func writeDocumentFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "openapi.yaml")
	if err := os.WriteFile(path, []byte(documentFixture), 0o600); err != nil {
		t.Fatalf("write document fixture: %v", err)
	}

	return path
}
