package models

import "strings"

// SafeList is the user's list of ingredient fragments that should not be
// flagged. Matching is substring based in both directions: an entry "egg"
// hides "egg (allergen)", and an entry "soy sauce" hides "soy".
type SafeList []string

// Matches reports whether entry and item overlap as substrings in either
// direction. Empty strings never match.
func Matches(entry, item string) bool {
	if entry == "" || item == "" {
		return false
	}
	return strings.Contains(item, entry) || strings.Contains(entry, item)
}

// Contains reports whether any entry matches item.
func (l SafeList) Contains(item string) bool {
	for _, entry := range l {
		if Matches(entry, item) {
			return true
		}
	}
	return false
}

// Filter returns the ingredients that are not covered by the list, keeping
// their order.
func (l SafeList) Filter(ingredients []string) []string {
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if !l.Contains(ing) {
			out = append(out, ing)
		}
	}
	return out
}

// With returns the list with item appended. The input is trimmed; empty
// input and exact duplicates leave the list unchanged and report false.
func (l SafeList) With(item string) (SafeList, bool) {
	item = strings.TrimSpace(item)
	if item == "" || l.has(item) {
		return l, false
	}
	out := make(SafeList, 0, len(l)+1)
	out = append(out, l...)
	return append(out, item), true
}

// Without returns the list minus every exact occurrence of item.
func (l SafeList) Without(item string) (SafeList, bool) {
	out := make(SafeList, 0, len(l))
	removed := false
	for _, entry := range l {
		if entry == item {
			removed = true
			continue
		}
		out = append(out, entry)
	}
	return out, removed
}

// Union is the exact-string set union of local and remote: local entries in
// their order, then remote entries not already present.
func Union(local, remote SafeList) SafeList {
	out := make(SafeList, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local)+len(remote))
	for _, list := range []SafeList{local, remote} {
		for _, entry := range list {
			if _, ok := seen[entry]; ok {
				continue
			}
			seen[entry] = struct{}{}
			out = append(out, entry)
		}
	}
	return out
}

func (l SafeList) has(item string) bool {
	for _, entry := range l {
		if entry == item {
			return true
		}
	}
	return false
}
