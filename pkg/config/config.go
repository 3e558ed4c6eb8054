// Package config holds the export options read from a YAML file and
// overridden by command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an output asset format.
type Format string

const (
	FormatOBJ  Format = "obj"
	FormatGLTF Format = "gltf"
	FormatGLB  Format = "glb"
)

// Ext returns the file extension written for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ParseFormat converts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatOBJ, FormatGLTF, FormatGLB:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want obj, gltf or glb)", s)
}

// ParseFormats splits a comma-separated list of format names.
func ParseFormats(list string) ([]Format, error) {
	var out []Format
	for _, s := range strings.Split(list, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		f, err := ParseFormat(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (f *Format) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseFormat(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*f = v
	return nil
}

// Config is the export configuration.
type Config struct {
	OutputDir string   `yaml:"output_dir"`
	Prefix    string   `yaml:"prefix"`
	Formats   []Format `yaml:"formats"`
	Summary   bool     `yaml:"summary"`
	Check     bool     `yaml:"check"`
	// Catalog is the path of the SQLite export catalog. Empty disables it.
	Catalog   string   `yaml:"catalog"`
}

const defaultPrefix = "city"

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		OutputDir: ".",
		Prefix:    defaultPrefix,
		Formats:   []Format{FormatOBJ},
		Summary:   true,
	}
}

// Load reads a YAML config file. Keys absent from the file keep their
// defaults.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing config YAML: %w", err)
	}
	c.Normalize()
	return c, nil
}

// Normalize removes duplicate formats and fills empty fields with defaults.
func (c *Config) Normalize() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	c.Prefix = strings.TrimSpace(c.Prefix)
	c.Catalog = strings.TrimSpace(c.Catalog)
	if c.Prefix == "" {
		c.Prefix = defaultPrefix
	}

	seen := make(map[Format]bool, len(c.Formats))
	formats := c.Formats[:0]
	for _, f := range c.Formats {
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		formats = []Format{FormatOBJ}
	}
	c.Formats = formats
}

// Path returns the output path for format f.
func (c Config) Path(f Format) string {
	return filepath.Join(c.OutputDir, c.Prefix+f.Ext())
}

// SummaryPath returns the output path of the summary report.
func (c Config) SummaryPath() string {
	return filepath.Join(c.OutputDir, c.Prefix+"_summary.json")
}
