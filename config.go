package msgbundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by NewConfig for unusable declarations.
var ErrInvalidConfig = errors.New("msgbundle: invalid config")

// Config declares a provider stack: layers in precedence order, explicit
// fallback chains for file layers, and lookup hooks. It can be assembled with
// options or decoded from a YAML or JSON document.
type Config struct {
	Layers     []LayerConfig       `yaml:"layers" json:"layers"`
	Fallbacks  map[string][]string `yaml:"fallbacks" json:"fallbacks"`
	LogMissing bool                `yaml:"log_missing" json:"log_missing"`

	// FS resolves layer paths. When nil, paths are read from the operating
	// system, relative to the working directory.
	FS        fs.FS                   `yaml:"-" json:"-"`
	Hooks     []LookupHook            `yaml:"-" json:"-"`
	Formatter Formatter               `yaml:"-" json:"-"`
	Loader    []LoaderOption          `yaml:"-" json:"-"`
	Resolver  *StaticFallbackResolver `yaml:"-" json:"-"`
}

// LayerConfig is one entry of the provider stack. Exactly one of Path or
// Messages is set. Locale restricts inline messages to a single locale.
type LayerConfig struct {
	Path     string            `yaml:"path,omitempty" json:"path,omitempty"`
	Locale   string            `yaml:"locale,omitempty" json:"locale,omitempty"`
	Messages map[string]string `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// Option mutates Config during construction
type Option func(*Config) error

// NewConfig builds Config via supplied options
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFS resolves layer paths inside fsys.
func WithFS(fsys fs.FS) Option {
	return func(c *Config) error {
		c.FS = fsys
		return nil
	}
}

// WithLayer appends a layer with the lowest precedence so far.
func WithLayer(layer LayerConfig) Option {
	return func(c *Config) error {
		c.Layers = append(c.Layers, layer)
		return nil
	}
}

// WithPaths appends one file layer per resource path.
func WithPaths(paths ...string) Option {
	return func(c *Config) error {
		for _, p := range paths {
			c.Layers = append(c.Layers, LayerConfig{Path: p})
		}
		return nil
	}
}

// WithMessages appends an inline layer. An empty locale serves every locale.
func WithMessages(locale string, messages map[string]string) Option {
	return func(c *Config) error {
		c.Layers = append(c.Layers, LayerConfig{Locale: locale, Messages: messages})
		return nil
	}
}

// WithFallback sets the chain tried by file layers for locale.
func WithFallback(locale string, fallbacks ...string) Option {
	return func(c *Config) error {
		if c.Fallbacks == nil {
			c.Fallbacks = make(map[string][]string)
		}
		c.Fallbacks[locale] = append(c.Fallbacks[locale], fallbacks...)
		return nil
	}
}

// WithLookupHooks registers hooks on the built bundle.
func WithLookupHooks(hooks ...LookupHook) Option {
	return func(c *Config) error {
		c.Hooks = append(c.Hooks, hooks...)
		return nil
	}
}

// WithMissingKeyLog logs each missed key once.
func WithMissingKeyLog(enabled bool) Option {
	return func(c *Config) error {
		c.LogMissing = enabled
		return nil
	}
}

// WithConfigFormatter replaces PrintfFormatter on the built bundle.
func WithConfigFormatter(formatter Formatter) Option {
	return func(c *Config) error {
		if formatter == nil {
			return fmt.Errorf("%w: nil formatter", ErrInvalidConfig)
		}
		c.Formatter = formatter
		return nil
	}
}

// WithLoaderOptions is passed to every file layer's LoadingProvider.
func WithLoaderOptions(opts ...LoaderOption) Option {
	return func(c *Config) error {
		c.Loader = append(c.Loader, opts...)
		return nil
	}
}

// WithConfigFile merges a YAML (.yaml, .yml) or JSON (.json) document read
// from the operating system. Layers from the file come after layers declared
// so far; fallbacks are merged per locale.
func WithConfigFile(name string) Option {
	return func(c *Config) error {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("msgbundle: read config %s: %w", name, err)
		}
		return c.merge(name, data)
	}
}

// WithConfigData is WithConfigFile for an in-memory document. format is
// "yaml" or "json".
func WithConfigData(format string, data []byte) Option {
	return func(c *Config) error {
		return c.merge("config."+format, data)
	}
}

func (c *Config) merge(name string, data []byte) error {
	var file Config

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("msgbundle: decode config %s: %w", name, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("msgbundle: decode config %s: %w", name, err)
		}
	default:
		return fmt.Errorf("%w: config %s", ErrUnsupportedFormat, name)
	}

	c.Layers = append(c.Layers, file.Layers...)
	for locale, chain := range file.Fallbacks {
		if c.Fallbacks == nil {
			c.Fallbacks = make(map[string][]string)
		}
		c.Fallbacks[locale] = append(c.Fallbacks[locale], chain...)
	}
	c.LogMissing = c.LogMissing || file.LogMissing
	return nil
}

func (c *Config) validate() error {
	var errs []error

	for i, layer := range c.Layers {
		hasPath := strings.TrimSpace(layer.Path) != ""
		switch {
		case hasPath && layer.Messages != nil:
			errs = append(errs, fmt.Errorf("%w: layer %d sets both path and messages", ErrInvalidConfig, i))
		case !hasPath && layer.Messages == nil:
			errs = append(errs, fmt.Errorf("%w: layer %d sets neither path nor messages", ErrInvalidConfig, i))
		case hasPath && layer.Locale != "":
			errs = append(errs, fmt.Errorf("%w: layer %d: locale applies to inline messages only", ErrInvalidConfig, i))
		}
		if layer.Locale != "" {
			if _, err := ParseLocale(layer.Locale); err != nil {
				errs = append(errs, fmt.Errorf("%w: layer %d: %w", ErrInvalidConfig, i, err))
			}
		}
	}

	resolver := NewStaticFallbackResolver()
	for locale, chain := range c.Fallbacks {
		tag, err := ParseLocale(locale)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: fallback %q: %w", ErrInvalidConfig, locale, err))
			continue
		}
		tags := make([]language.Tag, 0, len(chain))
		for _, fallback := range chain {
			ft, err := ParseLocale(fallback)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: fallback %q -> %q: %w", ErrInvalidConfig, locale, fallback, err))
				continue
			}
			tags = append(tags, ft)
		}
		resolver.Set(tag, tags...)
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	c.Resolver = resolver
	return nil
}

// BuildBuilder returns a builder holding the declared stack, for callers
// that want to stack more providers before freezing.
func (c *Config) BuildBuilder() (*Builder, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if c.Resolver == nil {
		if err := c.validate(); err != nil {
			return nil, err
		}
	}

	opts := []BuilderOption{WithHooks(c.Hooks...)}
	if c.Formatter != nil {
		opts = append(opts, WithFormatter(c.Formatter))
	}
	if c.LogMissing {
		opts = append(opts, WithHooks(NewMissingKeyLogger(nil)))
	}

	b := NewBuilder(opts...)
	for _, layer := range c.Layers {
		b.AppendProvider(c.layerProvider(layer))
	}
	return b, nil
}

// BuildBundle freezes the declared stack.
func (c *Config) BuildBundle() (*Bundle, error) {
	b, err := c.BuildBuilder()
	if err != nil {
		return nil, err
	}
	return b.Freeze(), nil
}

func (c *Config) layerProvider(layer LayerConfig) SourceProvider {
	if strings.TrimSpace(layer.Path) == "" {
		src := NewMapSource(layer.Messages)
		if layer.Locale == "" {
			return SingleSourceProvider(src)
		}
		return LocaleSourceProvider(MustParseLocale(layer.Locale), src)
	}

	fsys, name := c.FS, layer.Path
	if fsys == nil {
		fsys, name = osResource(layer.Path)
	}
	loader := FallbackLoader(c.Resolver, NewFileLoader(fsys, name))
	return NewLoadingProvider(loader, c.Loader...)
}
