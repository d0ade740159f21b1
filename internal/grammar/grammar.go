// Package grammar supplies English pluralization for diagnostic messages
// ("1 dependency" vs "2 dependencies") so lint rules never hand-roll an
// `if n == 1` branch.
package grammar

import (
	"fmt"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// irregular maps each countable noun the lint engine's diagnostics use to
// its plural form. Regular "+s" nouns are handled by the fallback in Count,
// but are still registered here so every noun goes through the same
// plural-selection machinery rather than a special case.
var irregular = map[string]string{
	"dependency": "dependencies",
	"feature":    "features",
	"crate":      "crates",
	"file":       "files",
	"edge":       "edges",
	"diagnostic": "diagnostics",
	"manifest":   "manifests",
}

var printer = message.NewPrinter(language.English)

func init() {
	for singular, pl := range irregular {
		key := "%d " + singular
		if err := message.Set(language.English, key, plural.Selectf(1, "%d",
			plural.One, key,
			plural.Other, "%d "+pl,
		)); err != nil {
			panic(fmt.Errorf("grammar: failed to register %q: %w", singular, err))
		}
	}
}

// Count renders "n noun" with the correct English plural form, e.g.
// Count(1, "dependency") == "1 dependency", Count(3, "dependency") == "3 dependencies".
// Nouns outside the registered set fall back to a naive "+s" suffix.
func Count(n int, noun string) string {
	if _, ok := irregular[noun]; ok {
		return printer.Sprintf("%d "+noun, n)
	}
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
