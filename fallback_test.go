package msgbundle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestStaticFallbackResolver(t *testing.T) {
	esMX := language.MustParse("es-MX")
	resolver := NewStaticFallbackResolver().
		Set(esMX, language.Spanish, language.English, language.Spanish, esMX)

	assert.Equal(t,
		[]language.Tag{esMX, language.Spanish, language.English, Root},
		resolver.Resolve(esMX),
	)

	// unknown locales use the parent chain
	assert.Equal(t,
		LocaleChain(language.MustParse("pt-BR")),
		resolver.Resolve(language.MustParse("pt-BR")),
	)

	// callers get a copy
	chain := resolver.Resolve(esMX)
	chain[1] = language.German
	assert.Equal(t, language.Spanish, resolver.Resolve(esMX)[1])
}

func TestFallbackLoaderWalksChain(t *testing.T) {
	sources := map[language.Tag]MessageSource{
		language.French: NewMapSource(map[string]string{"k": "fr"}),
		Root:            NewMapSource(map[string]string{"k": "root"}),
	}

	var tried []language.Tag
	loader := FallbackLoader(nil, SourceLoaderFunc(func(locale language.Tag) (MessageSource, error) {
		tried = append(tried, locale)
		return sources[locale], nil
	}))

	src, err := loader.Load(language.MustParse("fr-CA"))
	require.NoError(t, err)
	got, _ := src.Message("k")
	assert.Equal(t, "fr", got)
	assert.Equal(t, []language.Tag{language.MustParse("fr-CA"), language.French}, tried)

	tried = nil
	src, err = loader.Load(language.German)
	require.NoError(t, err)
	got, _ = src.Message("k")
	assert.Equal(t, "root", got)
	assert.Equal(t, []language.Tag{language.German, Root}, tried)
}

func TestFallbackLoaderStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var tried int
	loader := FallbackLoader(ParentFallbackResolver, SourceLoaderFunc(func(locale language.Tag) (MessageSource, error) {
		tried++
		if locale == language.French {
			return nil, boom
		}
		return nil, nil
	}))

	_, err := loader.Load(language.MustParse("fr-FR"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, tried)
}

func TestFallbackLoaderNoMapping(t *testing.T) {
	loader := FallbackLoader(nil, SourceLoaderFunc(func(language.Tag) (MessageSource, error) {
		return nil, nil
	}))

	src, err := loader.Load(language.French)
	assert.NoError(t, err)
	assert.Nil(t, src)
}

func TestFallbackLoaderNilLoader(t *testing.T) {
	assertContractPanic(t, "message source loader cannot be nil", func() {
		FallbackLoader(nil, nil)
	})
}
