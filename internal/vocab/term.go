package vocab

// Term is a single vocabulary entry: the source-language text plus the
// category it was listed under. Category is free-form; empty means
// uncategorized. Terms are compared structurally, so the same text under two
// different categories counts as two distinct terms.
type Term struct {
	Text     string
	Category string
}

// Diff computes the set difference between two term lists in both
// directions: added holds terms present in remote but not local, removed
// holds terms present in local but not remote. Inputs need not be
// deduplicated; outputs are, preserving first-seen input order.
func Diff(remote, local []Term) (added, removed []Term) {
	added = subtract(remote, local)
	removed = subtract(local, remote)
	return added, removed
}

// subtract returns the terms of a that are not in b, deduplicated.
func subtract(a, b []Term) []Term {
	exclude := make(map[Term]struct{}, len(b))
	for _, t := range b {
		exclude[t] = struct{}{}
	}

	var result []Term
	seen := make(map[Term]struct{}, len(a))
	for _, t := range a {
		if _, ok := exclude[t]; ok {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
