package vocab

import "strings"

// Parse extracts vocabulary terms from word-list document text.
//
// The format is line oriented:
//   - blank lines are ignored
//   - a line starting with '#' sets the current category for all following
//     terms (the marker is stripped and the remainder trimmed)
//   - any other line is split on ';' into term texts; each is trimmed and
//     empty results are dropped, so a trailing semicolon is harmless
//
// The result is deduplicated preserving first-seen order. Parse is a pure
// function of its input.
func Parse(content string) []Term {
	var terms []Term
	category := ""

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			category = strings.TrimSpace(line[1:])
			continue
		}

		for _, text := range strings.Split(line, ";") {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			terms = append(terms, Term{Text: text, Category: category})
		}
	}

	return dedup(terms)
}

// dedup removes structurally equal duplicates keeping first occurrences.
func dedup(terms []Term) []Term {
	seen := make(map[Term]struct{}, len(terms))
	var result []Term
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
