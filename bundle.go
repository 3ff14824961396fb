// Package msgbundle resolves localized, printf formatted messages from an
// ordered stack of message sources.
//
// A Builder collects SourceProviders; Freeze turns it into an immutable,
// concurrency safe Bundle and Thaw turns a Bundle back into an independent
// Builder. The first provider whose source binds a key wins. Missing keys
// resolve to a visible sentinel ("!key!") rather than an error.
package msgbundle

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"golang.org/x/text/language"
)

// Bundle is an immutable stack of providers. It is safe for concurrent use.
type Bundle struct {
	providers []SourceProvider
	formatter Formatter
	hooks     []LookupHook
}

// MissingSentinel is the text returned for a key that no source binds.
func MissingSentinel(key string) string {
	return "!" + key + "!"
}

// Thaw returns a new Builder seeded with a copy of the bundle's providers,
// formatter and hooks. Changing the builder never affects b.
func (b *Bundle) Thaw() *Builder {
	out := NewBuilder()
	if b == nil {
		return out
	}
	out.providers = slices.Clone(b.providers)
	out.formatter = b.formatter
	out.hooks = slices.Clone(b.hooks)
	return out
}

// Len reports the number of providers.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.providers)
}

// Providers returns a copy of the provider stack in precedence order.
func (b *Bundle) Providers() []SourceProvider {
	if b == nil {
		return nil
	}
	return slices.Clone(b.providers)
}

// Message resolves key for the Root locale.
func (b *Bundle) Message(key string) string {
	return b.MessageFor(Root, key)
}

// MessageFor resolves key for locale without formatting. An empty key panics
// with a ContractError; a miss returns MissingSentinel(key).
func (b *Bundle) MessageFor(locale language.Tag, key string) string {
	requireKey(key)

	ctx := &LookupContext{Locale: locale, Key: key}
	b.before(ctx)

	ctx.Template, ctx.Found = b.lookup(ctx.Locale, ctx.Key)
	if ctx.Found {
		ctx.Result = ctx.Template
	} else {
		ctx.Result = MissingSentinel(ctx.Key)
	}

	b.after(ctx)
	return ctx.Result
}

// Lookup returns the raw template bound to key for locale and ok=false on a
// miss. Hooks are not run.
func (b *Bundle) Lookup(locale language.Tag, key string) (string, bool) {
	requireKey(key)
	return b.lookup(locale, key)
}

// Printf resolves key for locale and formats the template with args. A miss
// returns MissingSentinel(key) untouched and a nil error. A template that
// does not match args returns an error wrapping ErrFormat.
func (b *Bundle) Printf(locale language.Tag, key string, args ...any) (string, error) {
	requireKey(key)

	ctx := &LookupContext{Locale: locale, Key: key, Args: args}
	b.before(ctx)

	ctx.Template, ctx.Found = b.lookup(ctx.Locale, ctx.Key)
	if ctx.Found {
		ctx.Result, ctx.Err = b.format(ctx.Key, ctx.Template, ctx.Args)
	} else {
		ctx.Result = MissingSentinel(ctx.Key)
	}

	b.after(ctx)
	return ctx.Result, ctx.Err
}

// CheckNotNil returns a *PreconditionError of kind NilReference carrying the
// Root message for key when value is nil, and nil otherwise.
func (b *Bundle) CheckNotNil(value any, key string, args ...any) error {
	return b.CheckNotNilFor(Root, value, key, args...)
}

// CheckNotNilFor is CheckNotNil with an explicit locale.
func (b *Bundle) CheckNotNilFor(locale language.Tag, value any, key string, args ...any) error {
	requireKey(key)
	if !isNil(value) {
		return nil
	}
	return b.precondition(NilReference, locale, key, args)
}

// CheckArgument returns a *PreconditionError of kind IllegalArgument
// carrying the Root message for key when cond is false, and nil otherwise.
func (b *Bundle) CheckArgument(cond bool, key string, args ...any) error {
	return b.CheckArgumentFor(Root, cond, key, args...)
}

// CheckArgumentFor is CheckArgument with an explicit locale.
func (b *Bundle) CheckArgumentFor(locale language.Tag, cond bool, key string, args ...any) error {
	requireKey(key)
	if cond {
		return nil
	}
	return b.precondition(IllegalArgument, locale, key, args)
}

func (b *Bundle) precondition(kind PreconditionKind, locale language.Tag, key string, args []any) error {
	msg, err := b.Printf(locale, key, args...)
	if err != nil {
		// keep the unformatted template as the message body
		msg, _ = b.lookup(locale, key)
	}
	return &PreconditionError{Kind: kind, Key: key, Message: msg, Cause: err}
}

// lookup walks the providers in precedence order; the first match wins.
func (b *Bundle) lookup(locale language.Tag, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	for _, provider := range b.providers {
		src, ok := provider.Source(locale)
		if !ok || src == nil {
			continue
		}
		if msg, ok := src.Message(key); ok {
			return msg, true
		}
	}
	return "", false
}

func (b *Bundle) format(key, template string, args []any) (string, error) {
	formatter := PrintfFormatter
	if b != nil && b.formatter != nil {
		formatter = b.formatter
	}

	out, err := formatter.Format(template, args...)
	if err == nil {
		return out, nil
	}

	var fe *FormatError
	if errors.As(err, &fe) {
		if fe.Key == "" {
			fe.Key = key
		}
		return "", fe
	}
	if errors.Is(err, ErrFormat) {
		return "", err
	}
	return "", fmt.Errorf("%w: key %q: %w", ErrFormat, key, err)
}

func (b *Bundle) before(ctx *LookupContext) {
	if b == nil {
		return
	}
	for _, hook := range b.hooks {
		hook.BeforeLookup(ctx)
	}
}

func (b *Bundle) after(ctx *LookupContext) {
	if b == nil {
		return
	}
	for _, hook := range b.hooks {
		hook.AfterLookup(ctx)
	}
}

func requireKey(key string) {
	if key == "" {
		contractViolation(keyEmptyKey)
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
