package accesskit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateIdentifier tests identifier validation rules
func TestValidateIdentifier(t *testing.T) {
	valid := []string{
		"admin",
		"files.read",
		"project_manager",
		"org-viewer",
		"a.b.c",
		"Role2",
	}
	for _, identifier := range valid {
		assert.NoError(t, ValidateIdentifier(identifier), "identifier %q should be valid", identifier)
	}

	invalid := []string{
		"",
		".",
		"files.",
		".read",
		"files..read",
		"files read",
		"files/read",
		"files.read!",
		"café",
	}
	for _, identifier := range invalid {
		err := ValidateIdentifier(identifier)
		assert.Error(t, err, "identifier %q should be invalid", identifier)
		assert.True(t, IsValidation(err))
	}
}

// TestNormalizeLanguageCode tests language code canonicalization
func TestNormalizeLanguageCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en_us", "en_us"},
		{"en-US", "en_us"},
		{"EN_US", "en_us"},
		{"zh_cn", "zh_cn"},
		{"zh-CN", "zh_cn"},
		{"fr", "fr"},
	}
	for _, tc := range cases {
		got, err := NormalizeLanguageCode(tc.in)
		require.NoError(t, err, "code %q should parse", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

// TestNormalizeLanguageCodeRejectsGarbage tests rejection of malformed codes
func TestNormalizeLanguageCodeRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "!!", "not a language"} {
		_, err := NormalizeLanguageCode(code)
		assert.Error(t, err, "code %q should be rejected", code)
		assert.True(t, IsValidation(err))
	}
}

// TestDefaultLanguageIsNormalized ensures the fallback code is already in
// canonical form
func TestDefaultLanguageIsNormalized(t *testing.T) {
	got, err := NormalizeLanguageCode(DefaultLanguage)
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, got)
}
