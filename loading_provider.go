package msgbundle

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

// SourceLoader materializes the source for one locale. Returning (nil, nil)
// means the locale has no mapping; a non-nil error means the load failed.
type SourceLoader interface {
	Load(locale language.Tag) (MessageSource, error)
}

// SourceLoaderFunc adapts a bare function to the SourceLoader interface.
type SourceLoaderFunc func(locale language.Tag) (MessageSource, error)

// Load implements SourceLoader for SourceLoaderFunc
func (fn SourceLoaderFunc) Load(locale language.Tag) (MessageSource, error) {
	return fn(locale)
}

// LoaderOption configures a LoadingProvider.
type LoaderOption func(*LoadingProvider)

// WithLoaderLogger sets the logger used to report load failures.
func WithLoaderLogger(logger zerolog.Logger) LoaderOption {
	return func(p *LoadingProvider) {
		p.logger = &logger
	}
}

// LoadingProvider invokes its loader at most once per distinct locale and
// keeps the outcome, success or failure, for its whole life. Create it with
// NewLoadingProvider; a zero LoadingProvider has no loader and reports every
// locale as a failed load.
type LoadingProvider struct {
	loader SourceLoader
	logger *zerolog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[language.Tag]loadResult
}

type loadResult struct {
	source MessageSource
	err    error
}

var _ SourceProvider = &LoadingProvider{}

// NewLoadingProvider wraps loader. A nil loader panics with a ContractError.
func NewLoadingProvider(loader SourceLoader, opts ...LoaderOption) *LoadingProvider {
	if loader == nil {
		contractViolation(keyNilLoader)
	}

	p := &LoadingProvider{
		loader: loader,
		cache:  make(map[language.Tag]loadResult),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Source returns the cached or freshly loaded source for locale. Failed
// loads and missing mappings both report ok=false.
func (p *LoadingProvider) Source(locale language.Tag) (MessageSource, bool) {
	src, err := p.Load(locale)
	if err != nil || src == nil {
		return nil, false
	}
	return src, true
}

// Load is Source with the failure preserved. Errors wrap ErrSourceLoad.
func (p *LoadingProvider) Load(locale language.Tag) (MessageSource, error) {
	if res, ok := p.cached(locale); ok {
		return res.source, res.err
	}

	v, _, _ := p.group.Do(locale.String(), func() (any, error) {
		if res, ok := p.cached(locale); ok {
			return res, nil
		}

		res := p.invoke(locale)

		p.mu.Lock()
		if p.cache == nil {
			p.cache = make(map[language.Tag]loadResult)
		}
		p.cache[locale] = res
		p.mu.Unlock()

		return res, nil
	})

	res := v.(loadResult)
	return res.source, res.err
}

// Loaded reports how many locales have a cached outcome.
func (p *LoadingProvider) Loaded() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.cache)
}

func (p *LoadingProvider) cached(locale language.Tag) (loadResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	res, ok := p.cache[locale]
	return res, ok
}

func (p *LoadingProvider) invoke(locale language.Tag) (res loadResult) {
	defer func() {
		if r := recover(); r != nil {
			res = loadResult{err: fmt.Errorf("%w: locale %s: panic: %v", ErrSourceLoad, locale, r)}
			p.log().Error().Err(res.err).Str("locale", locale.String()).Msg("Message source loader panicked")
		}
	}()

	if p.loader == nil {
		return loadResult{err: fmt.Errorf("%w: locale %s: no loader configured", ErrSourceLoad, locale)}
	}

	src, err := p.loader.Load(locale)
	if err != nil {
		err = fmt.Errorf("%w: locale %s: %w", ErrSourceLoad, locale, err)
		p.log().Warn().Err(err).Str("locale", locale.String()).Msg("Failed to load message source")
		return loadResult{err: err}
	}

	if src == nil {
		p.log().Debug().Str("locale", locale.String()).Msg("No message source for locale")
	}
	return loadResult{source: src}
}

func (p *LoadingProvider) log() *zerolog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return Logger()
}
