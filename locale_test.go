package msgbundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{in: "", want: Root},
		{in: "  ", want: Root},
		{in: "fr", want: language.French},
		{in: "fr_FR", want: language.MustParse("fr-FR")},
		{in: " pt-BR ", want: language.MustParse("pt-BR")},
		{in: "zh_Hant_TW", want: language.MustParse("zh-Hant-TW")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocale(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocaleInvalid(t *testing.T) {
	_, err := ParseLocale("not a locale!")
	assert.ErrorIs(t, err, ErrInvalidLocale)

	assert.Panics(t, func() { MustParseLocale("???") })
}

func TestLocaleChain(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "und", want: []string{"und"}},
		{in: "fr", want: []string{"fr", "und"}},
		{in: "fr-FR", want: []string{"fr-FR", "fr", "und"}},
		{in: "zh-Hant-TW", want: []string{"zh-Hant-TW", "zh-Hant", "zh", "und"}},
		{in: "ca-ES-valencia", want: []string{"ca-ES-valencia", "ca-ES", "ca", "und"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got []string
			for _, tag := range LocaleChain(language.MustParse(tt.in)) {
				got = append(got, tag.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocaleSuffix(t *testing.T) {
	assert.Equal(t, "", localeSuffix(Root))
	assert.Equal(t, "fr", localeSuffix(language.French))
	assert.Equal(t, "fr_FR", localeSuffix(language.MustParse("fr-FR")))
	assert.Equal(t, "zh_Hant_TW", localeSuffix(language.MustParse("zh-Hant-TW")))
}
