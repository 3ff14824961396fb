package msgbundle

import (
	"golang.org/x/text/language"
)

// SourceProvider picks the message source to use for a locale. The locale
// matching policy belongs to the provider, never to the bundle.
type SourceProvider interface {
	// Source returns the source for locale and ok=false when there is none.
	Source(locale language.Tag) (MessageSource, bool)
}

// SourceProviderFunc adapts a bare function to the SourceProvider interface.
type SourceProviderFunc func(locale language.Tag) (MessageSource, bool)

// Source implements SourceProvider for SourceProviderFunc
func (fn SourceProviderFunc) Source(locale language.Tag) (MessageSource, bool) {
	return fn(locale)
}

// StaticProvider maps locales to sources with an exact-match table. Locales
// without an entry get the default source, if one was set.
type StaticProvider struct {
	defaultSource MessageSource
	sources       map[language.Tag]MessageSource
}

var _ SourceProvider = &StaticProvider{}

// Source returns the exact entry for locale, else the default source.
func (p *StaticProvider) Source(locale language.Tag) (MessageSource, bool) {
	if p == nil {
		return nil, false
	}
	if src, ok := p.sources[locale]; ok {
		return src, true
	}
	if p.defaultSource != nil {
		return p.defaultSource, true
	}
	return nil, false
}

// Locales lists the locales that have an explicit entry.
func (p *StaticProvider) Locales() []language.Tag {
	if p == nil || len(p.sources) == 0 {
		return nil
	}
	out := make([]language.Tag, 0, len(p.sources))
	for locale := range p.sources {
		out = append(out, locale)
	}
	sortTags(out)
	return out
}

// StaticProviderBuilder accumulates the table of a StaticProvider. It is not
// safe for concurrent use. The zero value is an empty builder.
type StaticProviderBuilder struct {
	defaultSource MessageSource
	sources       map[language.Tag]MessageSource
}

// NewStaticProviderBuilder returns an empty builder.
func NewStaticProviderBuilder() *StaticProviderBuilder {
	return &StaticProviderBuilder{sources: make(map[language.Tag]MessageSource)}
}

// AddSource binds source to locale, replacing any previous binding.
// A nil source panics with a ContractError.
func (b *StaticProviderBuilder) AddSource(locale language.Tag, source MessageSource) *StaticProviderBuilder {
	if source == nil {
		contractViolation(keyNilSource)
	}
	if b.sources == nil {
		b.sources = make(map[language.Tag]MessageSource)
	}
	b.sources[locale] = source
	return b
}

// SetDefaultSource sets the source used for locales with no explicit entry.
// A nil source panics with a ContractError.
func (b *StaticProviderBuilder) SetDefaultSource(source MessageSource) *StaticProviderBuilder {
	if source == nil {
		contractViolation(keyNilDefaultSource)
	}
	b.defaultSource = source
	return b
}

// Build snapshots the builder. Further changes to b do not affect the result.
func (b *StaticProviderBuilder) Build() *StaticProvider {
	sources := make(map[language.Tag]MessageSource, len(b.sources))
	for locale, src := range b.sources {
		sources[locale] = src
	}
	return &StaticProvider{
		defaultSource: b.defaultSource,
		sources:       sources,
	}
}

// SingleSourceProvider returns a provider that answers every locale with source.
func SingleSourceProvider(source MessageSource) *StaticProvider {
	return NewStaticProviderBuilder().SetDefaultSource(source).Build()
}

// LocaleSourceProvider returns a provider that only answers locale.
func LocaleSourceProvider(locale language.Tag, source MessageSource) *StaticProvider {
	return NewStaticProviderBuilder().AddSource(locale, source).Build()
}
