package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for code, want := range map[string]Language{
		"":   English,
		"en": English,
		"pl": Polish,
		"nl": Dutch,
	} {
		got, err := Parse(code)
		require.NoError(t, err, code)
		require.Equal(t, want, got, code)
	}

	if _, err := Parse("de"); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestTranslateFallsBackToKey(t *testing.T) {
	tr := NewTranslator(Polish)

	require.Equal(t, "Temp zasilania", tr.T("Heat supply temp"))
	require.Equal(t, "Heat temp spread", tr.T("Heat temp spread")) // no entry
	require.Equal(t, "Off", NewTranslator(English).T("Off"))
}
