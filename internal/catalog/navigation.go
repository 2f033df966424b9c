// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"fmt"

	"estudeapostilas/internal/models"
)

// ErrSubCategoryNotInCategory is returned when a subcategory is selected
// that does not belong to the currently selected category.
var ErrSubCategoryNotInCategory = errors.New("subcategory does not belong to the selected category")

// State is the catalog navigation selection.
type State struct {
	Category    string `json:"category"`
	SubCategory string `json:"subcategory"`
	Query       string `json:"query"`
}

// InitialState is the state of a freshly opened catalog.
func InitialState() State {
	return State{Category: All, SubCategory: All, Query: ""}
}

// Filter returns the filter inputs equivalent to s.
func (s State) Filter() Filter {
	return Filter{Category: s.Category, SubCategory: s.SubCategory, Query: s.Query}
}

// Navigator owns the navigation state for one catalog view. It keeps the
// invariant that a selected subcategory always belongs to the selected
// category: every transition that could break it either resets the
// subcategory or is rejected.
type Navigator struct {
	state         State
	subcategories []models.SubCategory
}

// NewNavigator starts in InitialState over the given subcategory list.
func NewNavigator(subcategories []models.SubCategory) *Navigator {
	return &Navigator{
		state:         InitialState(),
		subcategories: subcategories,
	}
}

// State returns the current selection.
func (n *Navigator) State() State {
	return n.state
}

// SelectCategory switches to category c (a label or All). The subcategory
// selection is always reset, even when c equals the current category.
func (n *Navigator) SelectCategory(c string) error {
	if c != All {
		if _, err := models.ParseCategory(c); err != nil {
			return err
		}
	}
	n.state.Category = c
	n.state.SubCategory = All
	return nil
}

// SelectSubCategory narrows the current category to subcategory id.
// Selecting All is always allowed. Any other id must be visible under
// the current category; otherwise the state is left unchanged.
func (n *Navigator) SelectSubCategory(id string) error {
	if id == All {
		n.state.SubCategory = All
		return nil
	}
	for _, s := range n.VisibleSubCategories() {
		if s.ID.String() == id {
			n.state.SubCategory = id
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSubCategoryNotInCategory, id)
}

// Search sets the free-text query. It does not touch the selections.
func (n *Navigator) Search(q string) {
	n.state.Query = q
}

// Clear resets every filter to the initial state.
func (n *Navigator) Clear() {
	n.state = InitialState()
}

// VisibleSubCategories returns the subcategories of the selected
// category, in list order. It is empty while the category is All.
func (n *Navigator) VisibleSubCategories() []models.SubCategory {
	out := []models.SubCategory{}
	if n.state.Category == All {
		return out
	}
	for _, s := range n.subcategories {
		if string(s.Category) == n.state.Category {
			out = append(out, s)
		}
	}
	return out
}

// HasSubCategories reports whether any subcategory belongs to c.
func (n *Navigator) HasSubCategories(c models.Category) bool {
	for _, s := range n.subcategories {
		if s.Category == c {
			return true
		}
	}
	return false
}

// Heading returns the title shown above the result grid.
func (n *Navigator) Heading() string {
	switch {
	case n.state.Category == All:
		return "Materiais Recentes"
	case n.state.SubCategory == All:
		return "Apostilas de " + n.state.Category
	}
	for _, s := range n.subcategories {
		if s.ID.String() == n.state.SubCategory {
			return n.state.Category + " > " + s.Name
		}
	}
	return "Apostilas de " + n.state.Category
}
