// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the public catalog: filtering the handout
// list by category, subcategory and free-text search, and the navigation
// state that drives those filters from sidebar clicks.
package catalog

import (
	"strings"

	"estudeapostilas/internal/models"
)

// All is the selection value meaning "no restriction" for both the
// category and the subcategory filter.
const All = "All"

// Filter holds the three independent catalog filter inputs. Category is
// All or a category label; SubCategory is All or a subcategory ID.
type Filter struct {
	Category    string
	SubCategory string
	Query       string
}

// Match reports whether h satisfies all three predicates.
func (f Filter) Match(h models.Handout) bool {
	return f.matchCategory(h) && f.matchSubCategory(h) && f.matchQuery(h)
}

func (f Filter) matchCategory(h models.Handout) bool {
	return f.Category == All || f.Category == "" || string(h.Category) == f.Category
}

func (f Filter) matchSubCategory(h models.Handout) bool {
	if f.SubCategory == All || f.SubCategory == "" {
		return true
	}
	return h.SubCategoryID != nil && h.SubCategoryID.String() == f.SubCategory
}

func (f Filter) matchQuery(h models.Handout) bool {
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(h.Title), q) ||
		strings.Contains(strings.ToLower(h.Description), q)
}

// Apply returns the handouts matching f in their original order. The
// source slice is never modified. The result is never nil so an empty
// catalog serialises as [].
func Apply(handouts []models.Handout, f Filter) []models.Handout {
	out := make([]models.Handout, 0, len(handouts))
	for _, h := range handouts {
		if f.Match(h) {
			out = append(out, h)
		}
	}
	return out
}
