// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "estudeapostilas/internal/models"

// EmptyMessage is shown when no handout matches the current filters.
const EmptyMessage = "Nenhum material encontrado com esses filtros."

// CategoryEntry is one row of the category sidebar.
type CategoryEntry struct {
	Label            string `json:"label"`
	HasSubCategories bool   `json:"hasSubCategories"`
	Selected         bool   `json:"selected"`
}

// View is everything the catalog page needs to render one state.
type View struct {
	State         State                `json:"state"`
	Heading       string               `json:"heading"`
	Categories    []CategoryEntry      `json:"categories"`
	SubCategories []models.SubCategory `json:"subcategories"`
	Handouts      []models.Handout     `json:"handouts"`
	Empty         bool                 `json:"empty"`
	EmptyMessage  string               `json:"emptyMessage,omitempty"`
}

// View filters handouts with the current state and assembles the page.
func (n *Navigator) View(handouts []models.Handout) View {
	cats := models.Categories()
	entries := make([]CategoryEntry, 0, len(cats)+1)
	entries = append(entries, CategoryEntry{Label: All, Selected: n.state.Category == All})
	for _, c := range cats {
		entries = append(entries, CategoryEntry{
			Label:            c.String(),
			HasSubCategories: n.HasSubCategories(c),
			Selected:         n.state.Category == c.String(),
		})
	}

	v := View{
		State:         n.state,
		Heading:       n.Heading(),
		Categories:    entries,
		SubCategories: n.VisibleSubCategories(),
		Handouts:      Apply(handouts, n.state.Filter()),
	}
	if len(v.Handouts) == 0 {
		v.Empty = true
		v.EmptyMessage = EmptyMessage
	}
	return v
}

// Replay builds a Navigator from raw request inputs, applying them in
// the order a visitor would: category, then subcategory, then search.
// An unknown category falls back to All and a subcategory outside the
// selected category is dropped, so the result is always a valid state.
func Replay(subcategories []models.SubCategory, category, subcategory, query string) *Navigator {
	n := NewNavigator(subcategories)
	if category != "" {
		if err := n.SelectCategory(category); err != nil {
			_ = n.SelectCategory(All)
		}
	}
	if subcategory != "" {
		if err := n.SelectSubCategory(subcategory); err != nil {
			_ = n.SelectSubCategory(All)
		}
	}
	n.Search(query)
	return n
}
