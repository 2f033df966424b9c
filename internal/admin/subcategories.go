// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"estudeapostilas/internal/catalog"
	"estudeapostilas/internal/models"
)

// CreateSubCategory validates and inserts a subcategory.
func (w *Workflow) CreateSubCategory(ctx context.Context, d models.SubCategoryDraft) (*models.SubCategory, catalog.Snapshot, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := w.check(d); err != nil {
		return nil, catalog.Snapshot{}, err
	}

	c, err := w.subcategories.Create(ctx, d)
	if err != nil {
		return nil, catalog.Snapshot{}, &MutationError{Op: OpSave, Entity: EntitySubCategory, Err: err}
	}
	slog.Info("subcategory created", "id", c.ID, "name", c.Name, "category", c.Category)
	return c, w.List(ctx), nil
}

// UpdateSubCategory renames or moves a subcategory. Handouts linked to it
// keep their own category.
func (w *Workflow) UpdateSubCategory(ctx context.Context, id uuid.UUID, p models.SubCategoryPatch) (catalog.Snapshot, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := w.check(p); err != nil {
		return catalog.Snapshot{}, err
	}
	if p.IsEmpty() {
		return w.List(ctx), nil
	}
	if err := w.subcategories.Update(ctx, id, p); err != nil {
		return catalog.Snapshot{}, &MutationError{Op: OpSave, Entity: EntitySubCategory, Err: err}
	}
	slog.Info("subcategory updated", "id", id)
	return w.List(ctx), nil
}

// DeleteSubCategory removes a subcategory once confirmed. Handouts that
// referenced it are left pointing at the deleted ID.
func (w *Workflow) DeleteSubCategory(ctx context.Context, id uuid.UUID, confirmed bool) (catalog.Snapshot, error) {
	if !confirmed {
		return catalog.Snapshot{}, ErrConfirmationRequired
	}
	if err := w.subcategories.Delete(ctx, id); err != nil {
		return catalog.Snapshot{}, &MutationError{Op: OpDelete, Entity: EntitySubCategory, Err: err}
	}
	slog.Info("subcategory deleted", "id", id)
	return w.List(ctx), nil
}
