package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no collation locale is configured.
const DefaultLocale = "en"

// ParseLocale validates a BCP 47 tag for name collation.
func ParseLocale(locale string) (language.Tag, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return tag, nil
}

// CompareNames orders two trek names under the collation rules of tag.
func CompareNames(tag language.Tag, a, b string) int {
	return collate.New(tag).CompareString(a, b)
}

// SortTreks sorts treks in place by name, ascending under the collation rules
// of tag. Equal names keep their input order. A trek without a name sorts as
// the empty string.
func SortTreks(treks []Trek, tag language.Tag) {
	c := collate.New(tag)
	sort.SliceStable(treks, func(i, j int) bool {
		return c.CompareString(treks[i].Name, treks[j].Name) < 0
	})
}
