// SPDX-License-Identifier: Apache-2.0

package report

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortByName stable-sorts items by a display name using English collation, so
// "apim" and "APIM" sit together and accents do not push names to the end.
func SortByName[T any](items []T, name func(T) string) {
	c := collate.New(language.English)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(name(items[i]), name(items[j])) < 0
	})
}
