package msgbundle

import (
	"slices"
)

// Builder accumulates the ordered provider stack of a Bundle. Providers near
// the front take precedence. A Builder is not safe for concurrent use.
type Builder struct {
	providers []SourceProvider
	formatter Formatter
	hooks     []LookupHook
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithFormatter replaces PrintfFormatter. A nil formatter panics with a
// ContractError.
func WithFormatter(formatter Formatter) BuilderOption {
	return func(b *Builder) {
		b.SetFormatter(formatter)
	}
}

// WithHooks registers lookup hooks, run in order.
func WithHooks(hooks ...LookupHook) BuilderOption {
	return func(b *Builder) {
		b.AddHooks(hooks...)
	}
}

// NewBuilder returns an empty builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{formatter: PrintfFormatter}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// AppendSource adds source, valid for every locale, with the lowest precedence.
func (b *Builder) AppendSource(source MessageSource) *Builder {
	return b.AppendProvider(wrapSource(source))
}

// AppendProvider adds provider with the lowest precedence.
func (b *Builder) AppendProvider(provider SourceProvider) *Builder {
	if provider == nil {
		contractViolation(keyNilProvider)
	}
	b.providers = append(b.providers, provider)
	return b
}

// PrependSource adds source, valid for every locale, ahead of everything
// added so far.
func (b *Builder) PrependSource(source MessageSource) *Builder {
	return b.PrependProvider(wrapSource(source))
}

// PrependProvider adds provider ahead of everything added so far.
func (b *Builder) PrependProvider(provider SourceProvider) *Builder {
	if provider == nil {
		contractViolation(keyNilProvider)
	}
	b.providers = slices.Insert(b.providers, 0, provider)
	return b
}

// SetFormatter replaces the formatter used by Printf.
func (b *Builder) SetFormatter(formatter Formatter) *Builder {
	if formatter == nil {
		contractViolation(keyNilFormatter)
	}
	b.formatter = formatter
	return b
}

// AddHooks appends lookup hooks. Nil hooks are skipped.
func (b *Builder) AddHooks(hooks ...LookupHook) *Builder {
	b.hooks = append(b.hooks, filterHooks(hooks)...)
	return b
}

// Len reports the number of providers.
func (b *Builder) Len() int {
	return len(b.providers)
}

// Freeze snapshots the builder into an immutable Bundle. The builder stays
// usable and later changes to it are not visible through the bundle.
func (b *Builder) Freeze() *Bundle {
	return &Bundle{
		providers: slices.Clone(b.providers),
		formatter: b.formatter,
		hooks:     slices.Clone(b.hooks),
	}
}

func wrapSource(source MessageSource) SourceProvider {
	if source == nil {
		contractViolation(keyNilSource)
	}
	return SingleSourceProvider(source)
}
