package msgbundle

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestConfigFallbackChain(t *testing.T) {
	cfg, err := NewConfig(
		WithFallback("es", "en", "fr", "en"),
	)
	require.NoError(t, err)

	chain := cfg.Resolver.Resolve(language.Spanish)
	assert.Equal(t, []language.Tag{language.Spanish, language.English, language.French, Root}, chain)
}

func TestBuildBundleStacksLayers(t *testing.T) {
	fsys := fstest.MapFS{
		"i18n/app.properties":    {Data: []byte("greet = Hello, %s!\nbye = Bye")},
		"i18n/app_es.properties": {Data: []byte("greet = Hola, %s!")},
	}

	cfg, err := NewConfig(
		WithFS(fsys),
		WithMessages("es-MX", map[string]string{"greet": "¡Quiúbole, %s!"}),
		WithMessages("", map[string]string{"bye": "Later"}),
		WithPaths("i18n/app"),
		WithFallback("es-AR", "es"),
	)
	require.NoError(t, err)

	bundle, err := cfg.BuildBundle()
	require.NoError(t, err)
	assert.Equal(t, 3, bundle.Len())

	tests := []struct {
		locale string
		key    string
		want   string
	}{
		{locale: "es-MX", key: "greet", want: "¡Quiúbole, Ana!"},
		{locale: "es-AR", key: "greet", want: "Hola, Ana!"},
		{locale: "de", key: "greet", want: "Hello, Ana!"},
		{locale: "de", key: "bye", want: "Later"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.key, func(t *testing.T) {
			var args []any
			if tt.key == "greet" {
				args = []any{"Ana"}
			}
			got, err := bundle.Printf(MustParseLocale(tt.locale), tt.key, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFromYAMLAndJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"base.properties": {Data: []byte("k = base")},
	}

	yamlDoc := []byte(`
layers:
  - messages:
      k: inline
    locale: fr
  - path: base
fallbacks:
  fr-CA: [fr]
log_missing: true
`)
	jsonDoc := []byte(`{"layers": [{"messages": {"k": "inline"}, "locale": "fr"}, {"path": "base"}], "fallbacks": {"fr-CA": ["fr"]}, "log_missing": true}`)

	for format, data := range map[string][]byte{"yaml": yamlDoc, "json": jsonDoc} {
		t.Run(format, func(t *testing.T) {
			cfg, err := NewConfig(WithFS(fsys), WithConfigData(format, data))
			require.NoError(t, err)

			require.Len(t, cfg.Layers, 2)
			assert.True(t, cfg.LogMissing)
			assert.Equal(t, []string{"fr"}, cfg.Fallbacks["fr-CA"])

			bundle, err := cfg.BuildBundle()
			require.NoError(t, err)
			assert.Equal(t, "inline", bundle.MessageFor(language.French, "k"))
			assert.Equal(t, "base", bundle.MessageFor(language.MustParse("fr-CA"), "k"))
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.properties"), []byte("k = from disk"), 0o644))

	cfgPath := filepath.Join(dir, "bundle.yaml")
	doc := "layers:\n  - path: " + filepath.Join(dir, "app") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(doc), 0o644))

	cfg, err := NewConfig(WithConfigFile(cfgPath))
	require.NoError(t, err)

	bundle, err := cfg.BuildBundle()
	require.NoError(t, err)
	assert.Equal(t, "from disk", bundle.Message("k"))

	_, err = NewConfig(WithConfigFile(filepath.Join(dir, "missing.yaml")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewConfigRejectsInvalidDeclarations(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{name: "both path and messages", opt: WithLayer(LayerConfig{Path: "a", Messages: map[string]string{}})},
		{name: "neither", opt: WithLayer(LayerConfig{})},
		{name: "locale on path layer", opt: WithLayer(LayerConfig{Path: "a", Locale: "fr"})},
		{name: "bad layer locale", opt: WithMessages("not a locale!", map[string]string{})},
		{name: "bad fallback locale", opt: WithFallback("???", "en")},
		{name: "bad fallback target", opt: WithFallback("es", "???")},
		{name: "nil formatter", opt: WithConfigFormatter(nil)},
		{name: "unsupported document", opt: WithConfigData("toml", []byte("a = 1"))},
		{name: "broken yaml", opt: WithConfigData("yaml", []byte("layers: [unterminated"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.opt)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}

	_, err := NewConfig(WithLayer(LayerConfig{}))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewConfig(WithConfigData("toml", nil))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestBuildBundleAppliesHooksAndFormatter(t *testing.T) {
	var before, after int
	hook := LookupHookFuncs{
		Before: func(*LookupContext) { before++ },
		After:  func(*LookupContext) { after++ },
	}

	cfg, err := NewConfig(
		WithMessages("", map[string]string{"home.title": "Welcome"}),
		WithLookupHooks(hook),
		WithConfigFormatter(FormatterFunc(func(template string, _ ...any) (string, error) {
			return template + "!", nil
		})),
	)
	require.NoError(t, err)

	bundle, err := cfg.BuildBundle()
	require.NoError(t, err)

	got, err := bundle.Printf(Root, "home.title")
	require.NoError(t, err)
	assert.Equal(t, "Welcome!", got)
	assert.Equal(t, 1, before)
	assert.Equal(t, 1, after)
}

func TestConfigBuildNil(t *testing.T) {
	var cfg *Config
	bundle, err := cfg.BuildBundle()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, bundle)
}

func TestConfigLiteralIsValidatedOnBuild(t *testing.T) {
	cfg := &Config{Layers: []LayerConfig{{}}}
	_, err := cfg.BuildBuilder()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
