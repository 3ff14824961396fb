package msgbundle

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Root is the locale that carries no language information. Sources
// registered for Root act as the last step of every fallback chain.
var Root = language.Und

// ParseLocale parses a BCP 47 tag. Underscore separated forms such as
// "pt_BR" are accepted; empty input yields Root.
func ParseLocale(s string) (language.Tag, error) {
	normalized := normalizeLocale(s)
	if normalized == "" {
		return Root, nil
	}

	tag, err := language.Parse(normalized)
	if err != nil {
		return Root, fmt.Errorf("%w: %q: %v", ErrInvalidLocale, s, err)
	}
	return tag, nil
}

// MustParseLocale is like ParseLocale but panics on invalid input.
func MustParseLocale(s string) language.Tag {
	tag, err := ParseLocale(s)
	if err != nil {
		panic(err)
	}
	return tag
}

// LocaleChain returns locale followed by its coarser forms, ending with Root.
// Variants and extensions are dropped first, then the region, then the script.
func LocaleChain(locale language.Tag) []language.Tag {
	chain := []language.Tag{locale}
	if locale == Root {
		return chain
	}

	seen := map[language.Tag]struct{}{locale: {}}
	appendTag := func(parts ...any) {
		tag, err := language.Compose(parts...)
		if err != nil {
			return
		}
		if _, exists := seen[tag]; exists {
			return
		}
		seen[tag] = struct{}{}
		chain = append(chain, tag)
	}

	base, script, region := locale.Raw()
	appendTag(base, script, region)
	appendTag(base, script)
	appendTag(base)

	if _, exists := seen[Root]; !exists {
		chain = append(chain, Root)
	}
	return chain
}

// localeSuffix renders locale the way resource file names expect it,
// "fr_FR" for fr-FR and "" for Root.
func localeSuffix(locale language.Tag) string {
	if locale == Root {
		return ""
	}
	return strings.ReplaceAll(locale.String(), "-", "_")
}

// normalizeLocale replaces underscores with hyphens and trims whitespace.
func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

func sortTags(tags []language.Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].String() < tags[j].String() })
}
