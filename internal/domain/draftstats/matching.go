package draftstats

import "strings"

const MaxSuggestions = 5

// NameMatches reports whether owner loosely matches input: either contains
// the other ignoring case, or they share a whitespace-separated word.
func NameMatches(input, owner string) bool {
	a := strings.ToLower(strings.TrimSpace(input))
	b := strings.ToLower(strings.TrimSpace(owner))
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(a) {
		tokens[token] = struct{}{}
	}
	for _, token := range strings.Fields(b) {
		if _, ok := tokens[token]; ok {
			return true
		}
	}
	return false
}

// Suggest returns up to limit owners matching input, in the order given,
// without case-insensitive duplicates.
func Suggest(input string, owners []string, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, len(owners))
	for _, owner := range owners {
		if len(out) >= limit {
			break
		}
		key := strings.ToLower(owner)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if NameMatches(input, owner) {
			out = append(out, owner)
		}
	}
	return out
}
