package catalog

import "strings"

// FilterByPreferences narrows the catalog to items matching at least one
// preference. A preference matches an item when any of the item's tags
// contains the preference as a case-insensitive substring, so "vegan" matches
// both "vegan" and "veganish". Matches are unioned across preferences and
// deduplicated by catalog position; the result keeps ascending catalog order.
//
// An empty preference list returns the catalog unchanged. A blank preference
// string matches every tagged item, since the empty string is a substring of
// any tag; only items with no tags at all fail it.
//
// Allergens intentionally play no part here: catalog items carry no allergen
// field, so allergen restrictions are advisory context for the generation
// prompt only.
func FilterByPreferences(items []FoodItem, preferences []string) []FoodItem {
	if len(preferences) == 0 {
		return items
	}

	matched := make(map[int]struct{})
	for _, preference := range preferences {
		needle := strings.ToLower(strings.TrimSpace(preference))
		for idx, item := range items {
			if _, ok := matched[idx]; ok {
				continue
			}
			if anyTagContains(item.Tags, needle) {
				matched[idx] = struct{}{}
			}
		}
	}

	out := make([]FoodItem, 0, len(matched))
	for idx, item := range items {
		if _, ok := matched[idx]; ok {
			out = append(out, item)
		}
	}
	return out
}

func anyTagContains(tags []string, needle string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
