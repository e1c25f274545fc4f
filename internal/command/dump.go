package command

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/joeycumines/acttree/internal/act"
	"github.com/joeycumines/acttree/internal/config"
	"gopkg.in/yaml.v3"
)

// DumpCommand prints the tree built by a script.
type DumpCommand struct {
	*BaseCommand
	config *config.Config

	style    string
	format   string
	color    string
	advance  int
	logLevel string
}

// NewDumpCommand creates a new dump command.
func NewDumpCommand(cfg *config.Config) *DumpCommand {
	return &DumpCommand{
		BaseCommand: NewBaseCommand(
			"dump",
			"Print the tree built by a script",
			"dump [options] script.js",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the dump command.
func (c *DumpCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.style, "style", "", "Listing style: plain, annotated (default from dump.style)")
	fs.StringVar(&c.format, "format", "", "Output format: text, yaml, json (default from dump.format)")
	fs.StringVar(&c.color, "color", "", "Color mode: auto, always, never")
	fs.IntVar(&c.advance, "advance", 0, "Advance the tree this many times before printing")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// Execute prints the tree of the script named by args.
func (c *DumpCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(stderr, "dump requires exactly one script")
		return fmt.Errorf("expected one script, got %d", len(args))
	}

	style := c.style
	if style == "" {
		style = config.DefaultSchema().ResolveSection(c.config, "dump", "style")
	}
	if style != "plain" && style != "annotated" {
		return fmt.Errorf("invalid dump style: %s", style)
	}
	format := c.format
	if format == "" {
		format = config.DefaultSchema().ResolveSection(c.config, "dump", "format")
	}
	switch format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("invalid dump format: %s", format)
	}
	color, err := resolveColor(c.color, c.config, "dump", stdout)
	if err != nil {
		return err
	}

	lc, err := resolveLogConfig("", c.logLevel, c.config, "dump")
	if err != nil {
		return err
	}
	defer lc.close()
	logger := lc.logger(stderr)

	s, err := loadScript(context.Background(), args[0],
		config.DefaultSchema().ResolveDuration(c.config, "dump", "script.timeout"), logger)
	if err != nil {
		return err
	}
	defer s.close()

	root := s.root()
	for i := 0; i < c.advance; i++ {
		status, err := root.Advance()
		if err != nil {
			return fmt.Errorf("advance %d: %w", i+1, err)
		}
		if status.Terminal() {
			break
		}
	}

	switch {
	case format == "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(act.Inspect(root)); err != nil {
			return err
		}
		return enc.Close()
	case format == "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(act.Inspect(root))
	case style == "plain":
		return act.Fprint(stdout, root)
	}
	styles := act.PlainStyles()
	if color {
		styles = act.DefaultStyles()
	}
	return act.FprintStyled(stdout, root, styles)
}
