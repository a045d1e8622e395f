// SPDX-License-Identifier: MIT
// Copyright (c) 2026 JoBrad
// Source: github.com/JoBrad/widdershins

// widdershins converts OpenAPI documents to Markdown reference docs.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/JoBrad/widdershins"
	"github.com/JoBrad/widdershins/sampler"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/JoBrad/widdershins"
	_buildTime string
)

// cliOptions describes widdershins CLI flags and subcommands.
type cliOptions struct {
	Version versionCommand `command:"version" description:"Print version information"`
	Convert convertCommand `command:"convert" description:"Convert OpenAPI document to markdown"`
	Sample  sampleCommand  `command:"sample" description:"Print example payload for one component schema"`
}

// renderFlags groups markdown rendering flags shared by subcommands.
type renderFlags struct {
	Title      string `short:"T" long:"title" description:"Markdown document title (document info title when omitted)"`
	Format     string `short:"f" long:"format" description:"Example payload encoding" choice:"json" choice:"yaml" default:"json"`
	NoSample   bool   `long:"no-sample" description:"Disable example synthesis and echo cleaned schema values"`
	MaxDepth   int    `short:"d" long:"max-depth" description:"Truncate example payloads below this depth (0 disables)"`
	Shallow    bool   `short:"s" long:"shallow" description:"Suppress rows below the first reference to each schema"`
	Trim       bool   `long:"trim" description:"Trim whitespace around descriptions"`
	Join       bool   `long:"join" description:"Collapse description newlines to spaces"`
	Truncate   bool   `long:"truncate" description:"Keep only the first description line"`
	Verbose    bool   `short:"v" long:"verbose" description:"Dump failing schema nodes in sampler diagnostics"`
	NoReadOnly bool   `long:"omit-readonly" description:"Omit read-only properties from example payloads"`
}

// options maps CLI flags to conversion options.
func (render *renderFlags) options(diagnostics io.Writer) widdershins.Options {
	return widdershins.Options{
		Title:          render.Title,
		Sample:         !render.NoSample,
		MaxDepth:       render.MaxDepth,
		ShallowSchemas: render.Shallow,
		Trim:           render.Trim,
		Join:           render.Join,
		Truncate:       render.Truncate,
		Verbose:        render.Verbose,
		ExampleFormat:  widdershins.ExampleFormat(render.Format),
		Diagnostics:    diagnostics,
		Sampler: sampler.Options{
			SkipReadOnly: render.NoReadOnly,
		},
	}
}

// convertCommand converts an OpenAPI document into markdown documentation.
type convertCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input OpenAPI file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output markdown file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	RenderFlags renderFlags `group:"Render"`
}

// Execute runs convert subcommand.
func (command *convertCommand) Execute(_ []string) error {
	return command.runner.runConvert(command.RenderFlags, command.Args.Input, command.Args.Output)
}

// sampleCommand prints an example payload for one component schema.
type sampleCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input OpenAPI file path (optional; stdin when omitted)"`
		Schema string `positional-arg-name:"schema" description:"Component schema name" required:"yes"`
	} `positional-args:"yes"`

	RenderFlags renderFlags `group:"Render"`
}

// Execute runs sample subcommand.
func (command *sampleCommand) Execute(_ []string) error {
	return command.runner.runSample(command.RenderFlags, command.Args.Input, command.Args.Schema)
}

// versionCommand prints version information.
type versionCommand struct {
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	printVersionInfo()
	return nil
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "widdershins"
	}

	programName = filepath.Base(programName)
	runner := cliRunner{
		programName: programName,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runConvert executes document-to-markdown flow and writes result to stdout or file.
func (runner *cliRunner) runConvert(render renderFlags, inputPath, outputPath string) error {
	docBytes, err := runner.readDocumentInput(inputPath)
	if err != nil {
		return fmt.Errorf("read document input: %w", err)
	}

	rendered, err := widdershins.Convert(docBytes, render.options(runner.stderr))
	if err != nil {
		return fmt.Errorf("convert document: %w", err)
	}

	if strings.TrimSpace(outputPath) == "" {
		if _, err := io.WriteString(runner.stdout, rendered); err != nil {
			return fmt.Errorf("write markdown to stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, []byte(rendered), 0o600); err != nil {
		return fmt.Errorf("write markdown file %q: %w", outputPath, err)
	}

	return nil
}

// runSample prints one synthesized example payload to stdout.
func (runner *cliRunner) runSample(render renderFlags, inputPath, schemaName string) error {
	docBytes, err := runner.readDocumentInput(inputPath)
	if err != nil {
		return fmt.Errorf("read document input: %w", err)
	}

	document, err := widdershins.LoadDocumentBytes(docBytes)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	resolved := widdershins.Dereference(document)
	schema, ok := componentSchema(resolved, schemaName)
	if !ok {
		return fmt.Errorf("schema %q not found in document components", schemaName)
	}

	opt := render.options(runner.stderr)
	value := widdershins.Sample(schema, &opt, opt.Sampler, resolved)

	data, err := widdershins.EncodeExample(value, opt.ExampleFormat)
	if err != nil {
		return fmt.Errorf("encode example: %w", err)
	}

	if _, err := runner.stdout.Write(data); err != nil {
		return fmt.Errorf("write example to stdout: %w", err)
	}

	return nil
}

// componentSchema looks up one named schema in OpenAPI 3 or Swagger 2 layout.
func componentSchema(document map[string]any, name string) (map[string]any, bool) {
	for _, container := range []any{
		mapValue(mapValue(document, "components"), "schemas"),
		mapValue(document, "definitions"),
	} {
		schemas, ok := container.(map[string]any)
		if !ok {
			continue
		}

		if schema, ok := schemas[name].(map[string]any); ok {
			return schema, true
		}
	}

	return nil, false
}

// mapValue returns one nested map key or nil.
func mapValue(value any, key string) any {
	object, ok := value.(map[string]any)
	if !ok {
		return nil
	}

	return object[key]
}

// readDocumentInput reads an OpenAPI document from file path or stdin.
func (runner *cliRunner) readDocumentInput(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- caller-controlled input path
		if err != nil {
			return nil, fmt.Errorf("read document file %q: %w", path, err)
		}

		return data, nil
	}

	data, err := io.ReadAll(runner.stdin)
	if err != nil {
		return nil, fmt.Errorf("read document from stdin: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("read document from stdin: empty input")
	}

	return data, nil
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Convert.runner = runner
	options.Sample.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}

	return nil
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"convert": strings.TrimSpace(fmt.Sprintf(`
Convert an OpenAPI document to markdown reference documentation.
Reads the document from file argument or stdin; writes markdown to file argument or stdout.

Examples:
> $ %s convert openapi.yaml > reference.md
> $ cat openapi.json | %s convert -f yaml --shallow > reference.md
`, programName, programName)),
		"sample": strings.TrimSpace(fmt.Sprintf(`
Print a synthesized example payload for one component schema.

Examples:
> $ %s sample openapi.yaml Pet
> $ %s sample -f yaml --omit-readonly openapi.yaml Order
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

func printVersionInfo() {
	fmt.Printf(`url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
}
