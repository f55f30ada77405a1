package services

import (
	"sort"
	"strings"
)

// ListGroups returns the sorted set of distinct non-empty scope group names
// across all items, for pick-lists.
func ListGroups(items []*LineItem) []string {
	seen := make(map[string]bool)
	var groups []string
	for _, item := range SanitizeItems(items) {
		if item.ScopeGroup == "" || seen[item.ScopeGroup] {
			continue
		}
		seen[item.ScopeGroup] = true
		groups = append(groups, item.ScopeGroup)
	}
	sort.Strings(groups)
	return groups
}

// AssignGroup sets the scope group of the item with the given id, or clears
// it when groupName is empty. New names create new groups implicitly; no
// existence check is performed. Returns false if the item was not found.
func AssignGroup(items []*LineItem, itemID, groupName string) bool {
	for _, item := range SanitizeItems(items) {
		if item.ID == itemID {
			item.ScopeGroup = groupName
			return true
		}
	}
	return false
}

// RenameCategory rewrites the category on every item currently displayed
// under old to new, and returns how many items were rewritten. Alias-aware:
// an item with no explicit category is displayed under Miscellaneous, so
// renaming Miscellaneous must catch it too.
func RenameCategory(items []*LineItem, old, new string) int {
	renamed := 0
	for _, item := range SanitizeItems(items) {
		if NormalizeCategory(item.Category) == NormalizeCategory(old) {
			item.Category = new
			renamed++
		}
	}
	return renamed
}

// RenameGroup rewrites the scope group on every item holding old (compared
// case-insensitively, matching how groups are auto-matched) to new.
func RenameGroup(items []*LineItem, old, new string) int {
	renamed := 0
	for _, item := range SanitizeItems(items) {
		if item.ScopeGroup != "" && strings.EqualFold(item.ScopeGroup, old) {
			item.ScopeGroup = new
			renamed++
		}
	}
	return renamed
}

// RemoveCategory deletes every item whose (possibly aliased) category equals
// name and returns the surviving items plus the removed count. Destructive
// and unconditional; confirming intent is the caller's job.
func RemoveCategory(items []*LineItem, name string) ([]*LineItem, int) {
	target := NormalizeCategory(name)
	kept := make([]*LineItem, 0, len(items))
	removed := 0
	for _, item := range SanitizeItems(items) {
		if NormalizeCategory(item.Category) == target {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	return kept, removed
}

// groupHeuristic ties a bundle of description keywords to the group-name
// keywords they imply. The three bundles are a fixed seed list; this is
// deliberately not a general rule engine.
type groupHeuristic struct {
	descKeywords  []string
	groupKeywords []string
}

var groupHeuristics = []groupHeuristic{
	{[]string{"fire", "pit"}, []string{"fire"}},
	{[]string{"retaining", "wall", "base", "drainage"}, []string{"retaining", "wall"}},
	{[]string{"concrete", "slab", "rebar", "pour"}, []string{"concrete", "slab"}},
}

// AutoMatch decides whether a new or edited description should join one of
// the existing scope groups. Rules, in order: case-insensitive exact match;
// case-insensitive substring match in either direction; the fixed domain
// heuristics. Returns the matched group name, or "" and false when nothing
// matches or no groups exist yet.
func AutoMatch(description string, groups []string) (string, bool) {
	if len(groups) == 0 {
		return "", false
	}
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return "", false
	}

	for _, group := range groups {
		if strings.EqualFold(desc, group) {
			return group, true
		}
	}

	for _, group := range groups {
		lower := strings.ToLower(group)
		if strings.Contains(desc, lower) || strings.Contains(lower, desc) {
			return group, true
		}
	}

	for _, h := range groupHeuristics {
		if !containsAny(desc, h.descKeywords) {
			continue
		}
		for _, group := range groups {
			if containsAny(strings.ToLower(group), h.groupKeywords) {
				return group, true
			}
		}
	}

	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// ApplyDescriptionEdit is the explicit two-step pipeline for editing an
// item's description: propose a group for the new text, then apply the edit
// and, when a group matched, the group assignment as a visible side effect.
// It returns the matched group name so the caller can surface the silent
// mutation to the user.
func ApplyDescriptionEdit(item *LineItem, newDescription string, groups []string) (matchedGroup string, autoGrouped bool) {
	if item == nil {
		return "", false
	}
	matchedGroup, autoGrouped = AutoMatch(newDescription, groups)
	item.Description = newDescription
	if autoGrouped {
		item.ScopeGroup = matchedGroup
	}
	return matchedGroup, autoGrouped
}
