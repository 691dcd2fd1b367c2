package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ColorMode is the stderrColor setting: "auto", "always" or "never".
// Boolean scalars are accepted as well.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func (c *ColorMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("stderrColor: expected a scalar at line %d", node.Line)
	}
	*c = ParseColorMode(node.Value)
	return nil
}

func ParseColorMode(s string) ColorMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always", "true", "yes", "on", "1":
		return ColorAlways
	case "never", "false", "no", "off", "0":
		return ColorNever
	}
	return ColorAuto
}

// Options are the engine flags recognised by the evaluator and its callers.
type Options struct {
	AllowEval              bool      `yaml:"allowEval" json:"allowEval"`
	AllowJavaScript        bool      `yaml:"allowJavaScript" json:"allowJavaScript"`
	AllowDatabase          bool      `yaml:"allowDatabase" json:"allowDatabase"`
	UseStdLibAutomatically bool      `yaml:"useStdLibAutomatically" json:"useStdLibAutomatically"`
	StrictMode             bool      `yaml:"strictMode" json:"strictMode"`
	StderrPrefix           string    `yaml:"stderrPrefix" json:"stderrPrefix"`
	StderrColor            ColorMode `yaml:"stderrColor" json:"stderrColor"`
	StdLibRoot             string    `yaml:"stdLibRoot" json:"stdLibRoot"`
	MaxDepth               int       `yaml:"maxDepth" json:"maxDepth"`
	Debug                  bool      `yaml:"debug" json:"debug"`
}

func Default() Options {
	return Options{StderrColor: ColorAuto, MaxDepth: DefaultMaxDepth}
}

// Depth returns the effective evaluator nesting limit.
func (o Options) Depth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// ConfigFileNames are probed in the project root, in order.
var ConfigFileNames = []string{".tinyrc.yaml", ".tinyrc.yml", ".tinyrc.json"}

// FindConfig returns the first options file present in dir, or "".
func FindConfig(dir string) string {
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// Parse decodes a YAML or JSON options document on top of the defaults.
func Parse(data []byte) (Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	return opts, nil
}

// Load reads an options file (empty path means defaults) and then applies
// TINY_* environment variables.
func Load(path string) (Options, error) {
	opts := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Options{}, fmt.Errorf("read options %s: %w", path, err)
		}
		opts, err = Parse(data)
		if err != nil {
			return Options{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := opts.ApplyEnv(os.LookupEnv); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ApplyEnv overrides fields from environment variables. lookup is
// os.LookupEnv in production and a map in tests.
func (o *Options) ApplyEnv(lookup func(string) (string, bool)) error {
	bools := []struct {
		name string
		dst  *bool
	}{
		{"TINY_ALLOW_EVAL", &o.AllowEval},
		{"TINY_ALLOW_JS", &o.AllowJavaScript},
		{"TINY_ALLOW_DB", &o.AllowDatabase},
		{"TINY_USE_STDLIB", &o.UseStdLibAutomatically},
		{"TINY_STRICT", &o.StrictMode},
		{"TINY_DEBUG", &o.Debug},
	}
	for _, b := range bools {
		v, ok := lookup(b.name)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		*b.dst = parsed
	}
	if v, ok := lookup("TINY_STDLIB"); ok && v != "" {
		o.StdLibRoot = v
	}
	if v, ok := lookup("TINY_STDERR_PREFIX"); ok {
		o.StderrPrefix = v
	}
	if v, ok := lookup("TINY_STDERR_COLOR"); ok && v != "" {
		o.StderrColor = ParseColorMode(v)
	}
	if v, ok := lookup("TINY_MAX_DEPTH"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TINY_MAX_DEPTH: %w", err)
		}
		o.MaxDepth = n
	}
	return nil
}
