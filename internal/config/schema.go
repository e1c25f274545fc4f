package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OptionType is the expected type of an option value.
type OptionType string

const (
	TypeString   OptionType = "string"
	TypeBool     OptionType = "bool"
	TypeInt      OptionType = "int"
	TypeDuration OptionType = "duration"
)

// ConfigOption declares one option.
type ConfigOption struct {
	// Key is the option name as written in the file.
	Key string
	// Type is used for validation and by the typed getters.
	Type OptionType
	// Default is the value used when the option is not set anywhere.
	Default string
	// Description is shown by "config schema".
	Description string
	// Section is "" for global options.
	Section string
	// EnvVar, when set, overrides the file value.
	EnvVar string
}

// ConfigSchema declares the known options. It drives validation, help text,
// typed resolution and environment overrides.
type ConfigSchema struct {
	options   []*ConfigOption
	byKey     map[string]*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema creates an empty schema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{
		byKey:     make(map[string]*ConfigOption),
		bySection: make(map[string]map[string]*ConfigOption),
	}
}

// Register adds opt. A later registration of the same key in the same
// section replaces the earlier one.
func (s *ConfigSchema) Register(opt ConfigOption) {
	ref := new(ConfigOption)
	*ref = opt
	s.options = append(s.options, ref)
	if opt.Section == "" {
		s.byKey[opt.Key] = ref
		return
	}
	if s.bySection[opt.Section] == nil {
		s.bySection[opt.Section] = make(map[string]*ConfigOption)
	}
	s.bySection[opt.Section][opt.Key] = ref
}

// RegisterAll adds every option in opts.
func (s *ConfigSchema) RegisterAll(opts []ConfigOption) {
	for _, opt := range opts {
		s.Register(opt)
	}
}

// Lookup returns the option for key in section ("" for global), or nil.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	if section == "" {
		return s.byKey[key]
	}
	return s.bySection[section][key]
}

// IsKnown reports whether key may appear in section. Global keys may appear
// in any section, overriding the global value there.
func (s *ConfigSchema) IsKnown(section, key string) bool {
	if section != "" && s.bySection[section][key] != nil {
		return true
	}
	return s.byKey[key] != nil
}

// GlobalOptions returns the global options in registration order.
func (s *ConfigSchema) GlobalOptions() []ConfigOption {
	return s.SectionOptions("")
}

// SectionOptions returns the options of section in registration order.
func (s *ConfigSchema) SectionOptions(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns the sorted names of sections with registered options.
func (s *ConfigSchema) Sections() []string {
	out := make([]string, 0, len(s.bySection))
	for sec := range s.bySection {
		out = append(out, sec)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the effective value of a global option: the environment
// variable declared for it, then the file value, then the default.
func (s *ConfigSchema) Resolve(c *Config, key string) string {
	return s.ResolveSection(c, "", key)
}

// ResolveSection is Resolve for an option read in section. The section's own
// value wins over the global one, and a section default over a global
// default.
func (s *ConfigSchema) ResolveSection(c *Config, section, key string) string {
	opt := s.Lookup(section, key)
	global := s.Lookup("", key)
	for _, o := range []*ConfigOption{opt, global} {
		if o != nil && o.EnvVar != "" {
			if v, ok := os.LookupEnv(o.EnvVar); ok {
				return v
			}
		}
	}
	if c != nil {
		if v, ok := c.GetSectionOption(section, key); ok {
			return v
		}
	}
	for _, o := range []*ConfigOption{opt, global} {
		if o != nil {
			return o.Default
		}
	}
	return ""
}

// ResolveBool resolves key in section as a boolean, false when unparseable.
func (s *ConfigSchema) ResolveBool(c *Config, section, key string) bool {
	b, err := parseBool(s.ResolveSection(c, section, key))
	return err == nil && b
}

// ResolveInt resolves key in section as an integer, 0 when unparseable.
func (s *ConfigSchema) ResolveInt(c *Config, section, key string) int {
	i, err := strconv.Atoi(s.ResolveSection(c, section, key))
	if err != nil {
		return 0
	}
	return i
}

// ResolveDuration resolves key in section as a duration, 0 when unparseable.
func (s *ConfigSchema) ResolveDuration(c *Config, section, key string) time.Duration {
	d, err := time.ParseDuration(s.ResolveSection(c, section, key))
	if err != nil {
		return 0
	}
	return d
}

// ValidateConfig reports unknown options and values that do not match their
// declared type, sorted.
func ValidateConfig(c *Config, s *ConfigSchema) []string {
	var issues []string

	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
			continue
		}
		if err := validateType(opt.Type, value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}

	for section, opts := range c.Sections {
		for key, value := range opts {
			if !s.IsKnown(section, key) {
				issues = append(issues, fmt.Sprintf("unknown option in [%s]: %q (value: %q)", section, key, value))
				continue
			}
			opt := s.Lookup(section, key)
			if opt == nil {
				opt = s.Lookup("", key)
			}
			if err := validateType(opt.Type, value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}

	sort.Strings(issues)
	return issues
}

func validateType(t OptionType, value string) error {
	switch t {
	case TypeString, "":
		return nil
	case TypeBool:
		if _, err := parseBool(value); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("expected duration, got %q", value)
		}
	default:
		return fmt.Errorf("unknown option type %q", t)
	}
	return nil
}

// FormatHelp renders every option, global ones first, then per section.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder

	if globals := s.GlobalOptions(); len(globals) > 0 {
		b.WriteString("Global Options:\n")
		for _, o := range globals {
			writeOptionHelp(&b, o)
		}
	}

	for _, sec := range s.Sections() {
		opts := s.SectionOptions(sec)
		if len(opts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range opts {
			writeOptionHelp(&b, o)
		}
	}

	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-20s %s", o.Key, o.Description)
	parts := make([]string, 0, 3)
	if o.Type != "" && o.Type != TypeString {
		parts = append(parts, "type: "+string(o.Type))
	}
	if o.Default != "" {
		parts = append(parts, "default: "+o.Default)
	}
	if o.EnvVar != "" {
		parts = append(parts, "env: "+o.EnvVar)
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// DefaultSchema returns the schema of every option acttree understands.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	s.RegisterAll([]ConfigOption{
		{Key: "log.level", Type: TypeString, Default: "info", Description: "Log level: debug, info, warn, error", EnvVar: "ACTTREE_LOG_LEVEL"},
		{Key: "log.file", Type: TypeString, Description: "Write JSON logs to this file instead of stderr", EnvVar: "ACTTREE_LOG_FILE"},
		{Key: "log.max-size-mb", Type: TypeInt, Default: "10", Description: "Rotate the log file once it exceeds this size"},
		{Key: "log.max-files", Type: TypeInt, Default: "5", Description: "Rotated log files to keep"},
		{Key: "color", Type: TypeString, Default: "auto", Description: "Color mode: auto, always, never", EnvVar: "ACTTREE_COLOR"},
		{Key: "tick.interval", Type: TypeDuration, Default: "10ms", Description: "Delay between ticks of a driven tree"},
		{Key: "tick.max", Type: TypeInt, Default: "0", Description: "Maximum ticks per tree, 0 for no limit"},
		{Key: "script.timeout", Type: TypeDuration, Default: "5s", Description: "Maximum wait for a script call on the event loop"},

		{Key: "summary", Section: "run", Type: TypeBool, Default: "true", Description: "Print a result line per tree"},
		{Key: "fail-exit", Section: "run", Type: TypeBool, Default: "true", Description: "Exit non-zero when a tree fails"},

		{Key: "style", Section: "dump", Type: TypeString, Default: "annotated", Description: "Listing style: plain, annotated"},
		{Key: "format", Section: "dump", Type: TypeString, Default: "text", Description: "Output format: text, yaml, json"},
	})
	return s
}
