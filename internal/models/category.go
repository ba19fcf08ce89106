package models

import "sort"

// Category is a single budget category. Hidden is true when either the
// category itself or its owning group is hidden.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GroupName string `json:"group_name"`
	Hidden    bool   `json:"hidden"`
	Deleted   bool   `json:"deleted"`
}

// Eligible reports whether the category may be assigned to a transaction.
func (c Category) Eligible() bool {
	return !c.Hidden && !c.Deleted
}

// CategoryGroup is a named group of categories as served by the budget service.
type CategoryGroup struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Hidden     bool       `json:"hidden"`
	Deleted    bool       `json:"deleted"`
	Categories []Category `json:"categories"`
}

// CategoryMap is a point-in-time snapshot of categories keyed by identifier.
// Two snapshots taken at different times in a run may disagree about
// eligibility; callers must look up against the snapshot they were given.
type CategoryMap map[string]Category

// FlattenCategoryGroups maps category groups to a flat CategoryMap. A category
// inside a hidden group is treated as hidden itself.
func FlattenCategoryGroups(groups []CategoryGroup) CategoryMap {
	m := make(CategoryMap)
	for _, group := range groups {
		for _, cat := range group.Categories {
			cat.GroupName = group.Name
			cat.Hidden = cat.Hidden || group.Hidden
			cat.Deleted = cat.Deleted || group.Deleted
			m[cat.ID] = cat
		}
	}
	return m
}

// EligibleCategories returns the eligible categories of the snapshot sorted by
// group name then category name, for stable presentation.
func (m CategoryMap) EligibleCategories() []Category {
	out := make([]Category, 0, len(m))
	for _, cat := range m {
		if cat.Eligible() {
			out = append(out, cat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupName != out[j].GroupName {
			return out[i].GroupName < out[j].GroupName
		}
		return out[i].Name < out[j].Name
	})
	return out
}
