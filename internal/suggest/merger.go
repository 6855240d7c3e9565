// Package suggest produces AI title/tag suggestions and merges them with
// session state.
package suggest

// Suggestion is the result of one AI metadata call. Either tag may be empty.
type Suggestion struct {
	Title        string `json:"title"`
	PrimaryTag   string `json:"primary_tag"`
	SecondaryTag string `json:"secondary_tag"`
}

// MergeTags unions the current tag set with the non-empty suggested tags.
// Existing tags keep their prior order; newly introduced tags follow in
// (primary, secondary) order. The merge is idempotent: re-applying the same
// suggestion changes nothing. Titles are never merged; callers replace the
// title outright.
func MergeTags(current []string, primary, secondary string) []string {
	merged := make([]string, 0, len(current)+2)
	seen := make(map[string]struct{}, len(current)+2)

	for _, tag := range current {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}

	for _, tag := range []string{primary, secondary} {
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}

	return merged
}
