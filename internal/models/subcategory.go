// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubCategory is a named grouping nested under exactly one Category.
type SubCategory struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// SubCategoryDraft is the admin form payload for a new subcategory.
type SubCategoryDraft struct {
	Name     string   `json:"name" validate:"required,max=120"`
	Category Category `json:"category" validate:"required,category"`
}

// SubCategoryPatch is a sparse update. Empty strings mean "leave as is",
// so a rename can never blank out the name.
type SubCategoryPatch struct {
	Name     string   `json:"name,omitempty" validate:"omitempty,max=120"`
	Category Category `json:"category,omitempty" validate:"omitempty,category"`
}

// IsEmpty reports whether the patch would change nothing.
func (p SubCategoryPatch) IsEmpty() bool {
	return p.Name == "" && p.Category == ""
}
