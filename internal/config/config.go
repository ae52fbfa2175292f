// Package config loads the onedoc.toml (or onedoc.yaml) file that lists the
// documents to generate and the link remapping shared by all of them.
package config

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/go-onedoc/internal/errors"
	"github.com/agentflare-ai/go-onedoc/internal/linktable"
	"github.com/agentflare-ai/go-onedoc/internal/source"
)

// FileNames are the config file names looked up in the module root, in
// order.
var FileNames = []string{"onedoc.toml", "onedoc.yaml", "onedoc.yml"}

// DefaultOutput is the output file name of the default document.
const DefaultOutput = "README.md"

// Config is the onedoc configuration.
type Config struct {
	// Docs each produce one output file.
	Docs []Doc `toml:"doc" yaml:"doc"`
	// Links maps link names (for [`Name`] in doc comments) and relative paths
	// (for Markdown inputs) to destination URLs.
	Links map[string]string `toml:"links" yaml:"links"`

	// Path is the file the config was read from. Empty when no file exists.
	Path string `toml:"-" yaml:"-"`
}

// Doc describes one output document.
type Doc struct {
	// Inputs are processed in order and concatenated.
	Inputs Inputs `toml:"input" yaml:"input"`
	Output string `toml:"output" yaml:"output"`
	// Template is optional; the built-in template is used when empty.
	Template string `toml:"template" yaml:"template"`
}

// Inputs accepts either a single path or a list of paths.
type Inputs []string

// UnmarshalTOML implements toml.Unmarshaler.
func (in *Inputs) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*in = Inputs{v}
		return nil
	case []any:
		out := make(Inputs, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("input: expected string, got %T", item)
			}
			out = append(out, s)
		}
		*in = out
		return nil
	default:
		return fmt.Errorf("input: expected string or list of strings, got %T", v)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (in *Inputs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*in = Inputs{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*in = list
		return nil
	default:
		return fmt.Errorf("line %d: input: expected string or list of strings", node.Line)
	}
}

// Find returns the first config file present in dir, or "" when there is
// none.
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the config at path. A path that does not exist yields an empty
// config; the caller supplies the default document.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, errors.KindIO, "failed to read config file").
			WithPath(path).
			Build()
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindConfig, "failed to parse TOML").
				WithPath(path).
				Build()
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.Newf(errors.KindConfig, "unknown keys: %s", strings.Join(keys, ", ")).
				WithPath(path).
				Build()
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, errors.KindConfig, "failed to parse YAML").
				WithPath(path).
				Build()
		}
	default:
		return nil, errors.Newf(errors.KindConfig, "unsupported config format %q", filepath.Ext(path)).
			WithPath(path).
			Build()
	}
	cfg.Path = path
	return cfg, nil
}

// Dir returns the directory relative paths in the config are resolved
// against.
func (c *Config) Dir() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Normalize makes every input, output and template path absolute by joining
// relative ones with root.
func (c *Config) Normalize(root string) {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, filepath.FromSlash(p))
	}
	for i := range c.Docs {
		doc := &c.Docs[i]
		for j, input := range doc.Inputs {
			doc.Inputs[j] = join(input)
		}
		doc.Output = join(doc.Output)
		doc.Template = join(doc.Template)
	}
}

// Validate checks every document before any of them is processed.
func (c *Config) Validate() error {
	for i, doc := range c.Docs {
		if len(doc.Inputs) == 0 {
			return errors.Newf(errors.KindConfig, "doc %d has no input", i+1).
				WithPath(c.Path).
				Build()
		}
		if strings.TrimSpace(doc.Output) == "" {
			return errors.Newf(errors.KindConfig, "doc %d has no output", i+1).
				WithPath(c.Path).
				Build()
		}
		for _, input := range doc.Inputs {
			if _, err := source.KindOf(input); err != nil {
				return err
			}
		}
	}
	for _, key := range slices.Sorted(maps.Keys(c.Links)) {
		if linktable.RefName(key) == "" {
			return errors.Newf(errors.KindConfig, "link %q has an empty reference name", key).
				WithPath(c.Path).
				Build()
		}
	}
	return nil
}

// DefaultDoc is the document generated when the config lists none: the Go
// file carrying the package doc comment, preferring doc.go, rendered to
// README.md in the package directory.
func DefaultDoc(dir string, goFiles []string) (Doc, error) {
	input := ""
	for _, f := range goFiles {
		if filepath.Base(f) == "doc.go" {
			input = f
			break
		}
	}
	if input == "" {
		fset := token.NewFileSet()
		for _, f := range goFiles {
			file, err := parser.ParseFile(fset, f, nil, parser.PackageClauseOnly|parser.ParseComments)
			if err != nil {
				continue
			}
			if file.Doc != nil {
				input = f
				break
			}
		}
	}
	if input == "" {
		return Doc{}, errors.New(errors.KindConfig, "failed to determine default input: no file has a package doc comment").
			WithPath(dir).
			Build()
	}
	return Doc{
		Inputs: Inputs{input},
		Output: filepath.Join(dir, DefaultOutput),
	}, nil
}
