package msgbundle

import (
	"golang.org/x/text/language"
)

// HelperConfig configures template helper exports
type HelperConfig struct {
	// LocaleKey names the entry holding the locale when a helper receives a
	// map as its first argument. Defaults to "locale".
	LocaleKey string
	// OnFormatError renders Printf failures. The default renders the miss
	// sentinel for the key.
	OnFormatError func(locale language.Tag, key string, args []any, err error) string
}

// TemplateHelpers exposes bundle lookups as a FuncMap for html/template and
// text/template:
//
//	{{ msg . "home.title" }}
//	{{ msg "fr" "greeting" .User.Name }}
//	{{ if has . "banner" }}...{{ end }}
//
// The first argument selects the locale: a language.Tag, a locale string, or
// a map carrying one under LocaleKey. Anything else is Root.
func TemplateHelpers(b *Bundle, cfg HelperConfig) map[string]any {
	if b == nil {
		contractViolation(keyNilBundle)
	}
	if cfg.LocaleKey == "" {
		cfg.LocaleKey = "locale"
	}

	return map[string]any{
		"msg": func(locale any, key string, args ...any) string {
			tag := cfg.locale(locale)
			out, err := b.Printf(tag, key, args...)
			if err != nil {
				if cfg.OnFormatError != nil {
					return cfg.OnFormatError(tag, key, args, err)
				}
				return MissingSentinel(key)
			}
			return out
		},
		"has": func(locale any, key string) bool {
			_, ok := b.Lookup(cfg.locale(locale), key)
			return ok
		},
		"locale": func(locale any) string {
			return cfg.locale(locale).String()
		},
	}
}

func (cfg HelperConfig) locale(v any) language.Tag {
	switch t := v.(type) {
	case language.Tag:
		return t
	case string:
		if tag, err := ParseLocale(t); err == nil {
			return tag
		}
	case map[string]any:
		return cfg.locale(t[cfg.LocaleKey])
	case map[string]string:
		return cfg.locale(t[cfg.LocaleKey])
	}
	return Root
}
