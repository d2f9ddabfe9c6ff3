// Command gutenberg is the CLI tool for the block parser.
// It provides commands for parsing delimiter-annotated documents,
// serializing block lists, and serving the REST API.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	json "github.com/goccy/go-json"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/parser"
	"github.com/nirbhay18/gutenberg/core/registry"
	"github.com/nirbhay18/gutenberg/internal/api"
	"github.com/nirbhay18/gutenberg/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for gutenberg.
var CLI struct {
	// Global flags
	TypesDir  string `name:"types-dir" short:"t" help:"Directory of block type definition files" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `name:"log-format" help:"Log format (json, text)" default:"json"`

	Parse     ParseCmd     `cmd:"" help:"Parse a document into blocks"`
	Serialize SerializeCmd `cmd:"" help:"Serialize a block list back to a document"`
	Types     TypesCmd     `cmd:"" help:"List registered block types"`
	Serve     ServeCmd     `cmd:"" help:"Start the REST API server"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// buildRegistry creates a registry with the default types plus any
// definitions found in the global --types-dir.
func buildRegistry() (*registry.Registry, error) {
	reg := registry.New()
	if err := registry.RegisterDefaults(reg); err != nil {
		return nil, err
	}
	if CLI.TypesDir != "" {
		if err := registry.LoadDir(reg, CLI.TypesDir); err != nil {
			return nil, fmt.Errorf("loading type definitions from %s: %w", CLI.TypesDir, err)
		}
	}
	return reg, nil
}

// readInput reads from the given path, or stdin when the path is "-" or
// empty.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// ParseCmd parses a document into a JSON block list.
type ParseCmd struct {
	Path   string `arg:"" optional:"" help:"Document to parse (defaults to stdin)"`
	Output string `short:"o" help:"Write JSON output to file instead of stdout" type:"path"`
	Pretty bool   `help:"Indent the JSON output"`
}

func (c *ParseCmd) Run() error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	data, err := readInput(c.Path)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	parsed, err := parser.Parse(reg, string(data))
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	var out []byte
	if c.Pretty {
		out, err = json.MarshalIndent(parsed, "", "  ")
	} else {
		out, err = json.Marshal(parsed)
	}
	if err != nil {
		return fmt.Errorf("encoding blocks: %w", err)
	}
	out = append(out, '\n')

	if c.Output != "" {
		return os.WriteFile(c.Output, out, 0644)
	}
	_, err = os.Stdout.Write(out)
	return err
}

// SerializeCmd renders a JSON block list back to a document.
type SerializeCmd struct {
	Path   string `arg:"" optional:"" help:"JSON block list to serialize (defaults to stdin)"`
	Output string `short:"o" help:"Write document to file instead of stdout" type:"path"`
}

func (c *SerializeCmd) Run() error {
	data, err := readInput(c.Path)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var bs []*blocks.Block
	if err := json.Unmarshal(data, &bs); err != nil {
		return fmt.Errorf("decoding block list: %w", err)
	}

	content, err := parser.SerializeBlocks(bs)
	if err != nil {
		return fmt.Errorf("serializing blocks: %w", err)
	}

	if c.Output != "" {
		return os.WriteFile(c.Output, []byte(content+"\n"), 0644)
	}
	fmt.Println(content)
	return nil
}

// TypesCmd lists the registered block types.
type TypesCmd struct {
	JSON bool `help:"Output as JSON"`
}

func (c *TypesCmd) Run() error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	names := reg.Names()
	if c.JSON {
		out, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, name := range names {
		t := reg.Lookup(name)
		if t != nil && t.Title != "" {
			fmt.Printf("%s\t%s\n", name, t.Title)
		} else {
			fmt.Println(name)
		}
	}
	return nil
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port           int      `help:"HTTP server port" default:"8080"`
	AllowedOrigins []string `name:"allowed-origins" help:"CORS allowed origins (empty = allow all)"`
	MaxBody        int64    `name:"max-body" help:"Maximum request body size in bytes"`
}

func (c *ServeCmd) Run() error {
	cfg := api.Config{
		Port:            c.Port,
		TypesDir:        CLI.TypesDir,
		AllowedOrigins:  c.AllowedOrigins,
		MaxDocumentSize: c.MaxBody,
	}
	return api.Start(cfg)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("gutenberg version %s\n", version)
	return nil
}

func initLogging() {
	level := logging.LevelInfo
	switch CLI.LogLevel {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}

	format := logging.FormatJSON
	if CLI.LogFormat == "text" {
		format = logging.FormatText
	}

	logging.InitLogger(level, format)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("gutenberg"),
		kong.Description("Delimiter-annotated block parser"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	initLogging()
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
