package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/routes"
	"github.com/vango-dev/routekit/pkg/validators"
)

// DefaultFile is the routes file read when no path is given.
const DefaultFile = "routes.yaml"

// Format is the encoding of a routes file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension. Anything other than
// ".json" is read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Config is the content of a routes file.
type Config struct {
	// TrailingSlash makes every rendered path end in "/".
	TrailingSlash bool `yaml:"trailingSlash" json:"trailingSlash,omitempty"`

	// Conflicts is the conflict policy: "strict" (default) or "override".
	Conflicts string `yaml:"conflicts" json:"conflicts,omitempty"`

	// Routes are the route definitions in declaration order.
	Routes []Route `yaml:"routes" json:"routes"`

	// path is where the config was loaded from.
	path string

	// lines holds the line and column of each route entry (YAML only).
	lines []position
}

// Route is one route entry of a routes file.
type Route struct {
	// Path is the route pattern, e.g. "/users/:id".
	Path string `yaml:"path" json:"path"`

	// Name registers the route for lookup by name.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Params maps parameter names to validator specs ("int", "uuid", ...).
	Params map[string]string `yaml:"params,omitempty" json:"params,omitempty"`

	// Query maps query keys to validator specs.
	Query map[string]string `yaml:"query,omitempty" json:"query,omitempty"`

	// Meta is attached to the route as is.
	Meta map[string]any `yaml:"meta,omitempty" json:"meta,omitempty"`
}

type position struct {
	line, column int
}

// Load reads and validates the routes file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.New("R040").
				WithDetail("No routes file found at " + path).
				WithSuggestion("Create " + DefaultFile + " or pass --config")
		}
		return nil, errors.New("R040").Wrap(err)
	}

	return parse(data, FormatOf(path), path)
}

// Parse decodes and validates a routes file.
func Parse(data []byte, format Format) (*Config, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, path string) (*Config, error) {
	cfg := &Config{path: path}
	source := "the routes file"
	if path != "" {
		source = path
	}

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.New("R041").
				WithDetail(fmt.Sprintf("Failed to parse %s as JSON: %v", source, err)).
				WithSuggestion("Check that the routes file is valid JSON")
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.New("R041").
				WithDetail(fmt.Sprintf("Failed to parse %s as YAML: %v", source, err)).
				WithSuggestion("Check indentation and that every route has a path")
		}
		cfg.lines = routeLines(data)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// routeLines finds the position of each entry of the top-level routes
// sequence.
func routeLines(data []byte) []position {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "routes" || root.Content[i+1].Kind != yaml.SequenceNode {
			continue
		}
		items := root.Content[i+1].Content
		out := make([]position, len(items))
		for j, item := range items {
			out[j] = position{line: item.Line, column: item.Column}
		}
		return out
	}
	return nil
}

// Validate checks settings and validator specs without building a table.
func (c *Config) Validate() error {
	if _, ok := routes.ParseConflictPolicy(c.Conflicts); !ok {
		return errors.New("R042").
			WithDetail(fmt.Sprintf("conflicts must be %q or %q, got %q", routes.ConflictStrict, routes.ConflictOverride, c.Conflicts))
	}

	for i, r := range c.Routes {
		if strings.TrimSpace(r.Path) == "" {
			return c.at(i, errors.New("R001").WithDetail(fmt.Sprintf("route %d has no path", i)))
		}
		if _, err := resolve(r.Params); err != nil {
			return c.at(i, validatorError(r, "params", err))
		}
		if _, err := resolve(r.Query); err != nil {
			return c.at(i, validatorError(r, "query", err))
		}
	}
	return nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Sources converts the route entries into definitions, resolving validator
// specs.
func (c *Config) Sources() ([]routes.Source, error) {
	out := make([]routes.Source, 0, len(c.Routes))
	for i, r := range c.Routes {
		params, err := resolve(r.Params)
		if err != nil {
			return nil, c.at(i, validatorError(r, "params", err))
		}
		query, err := resolve(r.Query)
		if err != nil {
			return nil, c.at(i, validatorError(r, "query", err))
		}

		out = append(out, routes.Definition{
			Path:   r.Path,
			Name:   r.Name,
			Params: params,
			Query:  query,
			Meta:   routes.Meta(r.Meta),
		})
	}
	return out, nil
}

// Options converts the table settings into routes options.
func (c *Config) Options() []routes.Option {
	policy, _ := routes.ParseConflictPolicy(c.Conflicts)
	return []routes.Option{
		routes.WithTrailingSlash(c.TrailingSlash),
		routes.WithConflictPolicy(policy),
	}
}

// Build compiles the config into a table. Extra options apply after the
// file's settings. A rejected definition is reported at its line in the
// file.
func (c *Config) Build(opts ...routes.Option) (*routes.Table, error) {
	sources, err := c.Sources()
	if err != nil {
		return nil, err
	}

	table, err := routes.New(sources, append(c.Options(), opts...)...)
	if err != nil {
		var de *routes.DefinitionError
		if stderrors.As(err, &de) {
			return nil, c.at(de.Index, errors.FromError(err))
		}
		return nil, errors.FromError(err)
	}
	return table, nil
}

// at attaches the position of route i when it is known.
func (c *Config) at(i int, e *errors.Error) *errors.Error {
	if c.path == "" || i < 0 || i >= len(c.lines) {
		return e
	}
	pos := c.lines[i]
	return e.WithLocation(c.path, pos.line, pos.column)
}

func resolve(specs map[string]string) (map[string]any, error) {
	if specs == nil {
		return nil, nil
	}
	out := make(map[string]any, len(specs))
	for key, spec := range specs {
		v, err := validators.Lookup(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func validatorError(r Route, section string, err error) *errors.Error {
	return errors.New("R043").
		WithDetail(fmt.Sprintf("route %s, %s: %v", r.Path, section, err)).
		WithSuggestion("Use int, uint, float, bool, string, uuid, slug, regexp:<expr>, oneof:<a>|<b>, or cel:<expr>")
}
