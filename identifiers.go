package accesskit

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the fallback language code used when a requested
// language has no current attribute row.
const DefaultLanguage = "en_us"

// ValidateIdentifier checks if an identifier string is acceptable for a role
// or permission. Identifiers are non-empty, dot-separated sequences of
// lowercase/uppercase letters, digits, underscores, and hyphens.
//
// Examples of valid identifiers: "admin", "files.read", "project_manager".
func ValidateIdentifier(identifier string) error {
	if identifier == "" {
		return NewError(ErrValidation, "identifier cannot be empty")
	}

	parts := strings.Split(identifier, ".")
	for _, part := range parts {
		if part == "" {
			return NewError(ErrValidation, "identifier parts cannot be empty").
				WithIdentifier(identifier)
		}
		for _, c := range part {
			if !isValidIdentifierChar(c) {
				return NewError(ErrValidation, "identifier contains invalid character").
					WithIdentifier(identifier)
			}
		}
	}

	return nil
}

func isValidIdentifierChar(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '-'
}

// NormalizeLanguageCode canonicalizes a language code into the underscore
// form attribute rows are stored under: "en-US", "EN_us", and "en_us" all
// normalize to "en_us". Unparseable codes are rejected with ErrValidation.
func NormalizeLanguageCode(code string) (string, error) {
	if code == "" {
		return "", NewError(ErrValidation, "language code cannot be empty")
	}

	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", NewError(ErrValidation, "unrecognized language code").
			WithLanguage(code, "")
	}

	return strings.ToLower(strings.ReplaceAll(tag.String(), "-", "_")), nil
}
