// marq translates template files into markup-builder token streams.
//
// Each input file (or stdin) is one template invocation: leading directives
// followed by the root block. Project-wide defaults for the entry point and
// debug printing come from marq.yaml; directives inside a template always
// win over those defaults.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/njreid/marq/pkg/marq"
)

type CLI struct {
	Config  string `help:"Project config file." default:"marq.yaml" type:"path"`
	Entry   string `help:"Entry-point path wrapping the compiled tree, e.g. ui::html. Overrides the config file." placeholder:"PATH"`
	Debug   bool   `help:"Print each compiled output stream as it is produced."`
	Out     string `help:"Write output to this file instead of stdout." short:"o" type:"path"`
	Verbose bool   `help:"Enable debug logging." short:"v"`

	Paths []string `arg:"" optional:"" help:"Template files, or '-' for stdin." type:"path"`
}

// projectConfig is the optional marq.yaml file at the project root.
type projectConfig struct {
	Entry string `yaml:"entry"`
	Debug bool   `yaml:"debug"`
}

func main() {
	var cli CLI
	ktx := kong.Parse(&cli,
		kong.Name("marq"),
		kong.Description("Compile-time translator from marq templates to markup-builder calls."),
		kong.UsageOnError(),
	)
	ktx.FatalIfErrorf(run(&cli, os.Stdout))
}

func run(cli *CLI, stdout io.Writer) error {
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings, err := resolveSettings(cli, log)
	if err != nil {
		return err
	}

	out := stdout
	if cli.Out != "" {
		f, err := os.Create(cli.Out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	paths := cli.Paths
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	for _, path := range paths {
		if err := translateFile(settings, path, out, log); err != nil {
			return err
		}
	}
	return nil
}

func resolveSettings(cli *CLI, log *slog.Logger) (marq.Settings, error) {
	settings := marq.DefaultSettings()

	data, err := os.ReadFile(cli.Config)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("no project config", "path", cli.Config)
	case err != nil:
		return settings, fmt.Errorf("reading config: %w", err)
	default:
		var pc projectConfig
		if err := yaml.Unmarshal(data, &pc); err != nil {
			return settings, fmt.Errorf("parsing %s: %w", cli.Config, err)
		}
		if pc.Entry != "" {
			settings.Entry, err = marq.ParseEntry(pc.Entry)
			if err != nil {
				return settings, fmt.Errorf("entry in %s: %w", cli.Config, err)
			}
		}
		settings.DebugPrint = pc.Debug
		log.Debug("loaded project config", "path", cli.Config, "entry", pc.Entry)
	}

	if cli.Entry != "" {
		settings.Entry, err = marq.ParseEntry(cli.Entry)
		if err != nil {
			return settings, fmt.Errorf("--entry: %w", err)
		}
	}
	settings.DebugPrint = settings.DebugPrint || cli.Debug
	return settings, nil
}

func translateFile(settings marq.Settings, path string, out io.Writer, log *slog.Logger) error {
	var source []byte
	var err error
	if path == "-" {
		source, err = io.ReadAll(os.Stdin)
	} else {
		source, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	tokens, err := marq.Lex(string(source))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	input, err := marq.Parse(tokens)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	compiled, err := settings.Apply(input.Configs).Compile(input.Root)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	log.Debug("translated", "path", path, "tokens", len(compiled))
	rendered := marq.Render(compiled)
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	_, err = io.WriteString(out, rendered)
	return err
}
