package msgbundle

import (
	"golang.org/x/text/language"
)

// FallbackResolver resolves the ordered list of locales to try for a request,
// most specific first.
type FallbackResolver interface {
	Resolve(locale language.Tag) []language.Tag
}

// FallbackResolverFunc adapts a bare function to FallbackResolver.
type FallbackResolverFunc func(locale language.Tag) []language.Tag

func (fn FallbackResolverFunc) Resolve(locale language.Tag) []language.Tag {
	return fn(locale)
}

// ParentFallbackResolver resolves to LocaleChain.
var ParentFallbackResolver FallbackResolver = FallbackResolverFunc(LocaleChain)

// StaticFallbackResolver holds explicit chains and defers to LocaleChain for
// locales without one.
type StaticFallbackResolver struct {
	chains map[language.Tag][]language.Tag
}

// NewStaticFallbackResolver returns an empty resolver.
func NewStaticFallbackResolver() *StaticFallbackResolver {
	return &StaticFallbackResolver{chains: make(map[language.Tag][]language.Tag)}
}

// Set registers the fallbacks tried after locale itself. Root is appended
// when missing so the unsuffixed resource is always the last resort.
func (s *StaticFallbackResolver) Set(locale language.Tag, fallbacks ...language.Tag) *StaticFallbackResolver {
	chain := make([]language.Tag, 0, len(fallbacks)+2)
	seen := map[language.Tag]struct{}{locale: {}}
	chain = append(chain, locale)
	for _, fallback := range fallbacks {
		if _, exists := seen[fallback]; exists {
			continue
		}
		seen[fallback] = struct{}{}
		chain = append(chain, fallback)
	}
	if _, exists := seen[Root]; !exists {
		chain = append(chain, Root)
	}
	s.chains[locale] = chain
	return s
}

func (s *StaticFallbackResolver) Resolve(locale language.Tag) []language.Tag {
	if s != nil {
		if chain, ok := s.chains[locale]; ok {
			out := make([]language.Tag, len(chain))
			copy(out, chain)
			return out
		}
	}
	return LocaleChain(locale)
}

// FallbackLoader wraps loader so that each locale from resolver is tried in
// turn until one yields a source. A load failure stops the walk and is
// returned as is. A nil resolver means ParentFallbackResolver.
func FallbackLoader(resolver FallbackResolver, loader SourceLoader) SourceLoader {
	if loader == nil {
		contractViolation(keyNilLoader)
	}
	if resolver == nil {
		resolver = ParentFallbackResolver
	}
	return SourceLoaderFunc(func(locale language.Tag) (MessageSource, error) {
		for _, candidate := range resolver.Resolve(locale) {
			src, err := loader.Load(candidate)
			if err != nil {
				return nil, err
			}
			if src != nil {
				return src, nil
			}
		}
		return nil, nil
	})
}
