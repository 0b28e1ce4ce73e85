package manifest

import (
	"strings"
	"unicode"
)

// DeriveCLIName converts an MCP tool name to its default CLI form:
// underscores and camelCase boundaries become single hyphens and the
// result is lower-cased. Already-kebab input passes through unchanged.
//
//	build_sim       -> build-sim
//	getAppBundleId  -> get-app-bundle-id
//	build_simApp    -> build-sim-app
//	BUILD_SIM       -> build-sim
func DeriveCLIName(mcpName string) string {
	var b strings.Builder
	b.Grow(len(mcpName) + 4)

	// prev is the previous *input* rune ('-' after an emitted separator),
	// so an all-caps run like BUILD is not split letter by letter.
	var prev rune
	for _, r := range mcpName {
		switch {
		case r == '_' || r == '-' || r == ' ':
			if prev != 0 && prev != '-' {
				b.WriteRune('-')
			}
			prev = '-'
		case unicode.IsUpper(r):
			// A boundary only where the previous rune was lower-case or a
			// digit; BUILD stays one word.
			if prev != 0 && prev != '-' && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prev = r
		default:
			b.WriteRune(unicode.ToLower(r))
			prev = r
		}
	}

	return strings.Trim(b.String(), "-")
}
