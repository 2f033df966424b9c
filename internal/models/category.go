// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"slices"
)

// Category is one of the fixed top-level subject groupings of the catalog.
// It is both a domain tag on handouts and the grouping key of the sidebar.
type Category string

const (
	CategoryConcursos  Category = "Concursos"
	CategoryGraduacao  Category = "Graduação"
	CategoryTecnico    Category = "Técnico"
	CategoryIdiomas    Category = "Idiomas"
	CategoryVestibular Category = "Vestibular"
	CategoryTI         Category = "Tecnologia da Informação"
	CategoryGeral      Category = "Geral"
)

// categories holds the enumeration in display order. The first entry is
// the default category of a new handout draft.
var categories = []Category{
	CategoryConcursos,
	CategoryGraduacao,
	CategoryTecnico,
	CategoryIdiomas,
	CategoryVestibular,
	CategoryTI,
	CategoryGeral,
}

// ErrUnknownCategory is returned when a label is not part of the enumeration.
var ErrUnknownCategory = errors.New("unknown category")

// Categories returns every category in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

// DefaultCategory returns the category preselected on a new handout form.
func DefaultCategory() Category {
	return categories[0]
}

// ParseCategory converts an exact label into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the enumeration values.
func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

func (c Category) String() string {
	return string(c)
}
