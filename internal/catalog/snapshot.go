// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"estudeapostilas/internal/models"
)

// HandoutLister lists every handout, newest first, with the subcategory
// projection joined in.
type HandoutLister interface {
	List(ctx context.Context) ([]models.Handout, error)
}

// SubCategoryLister lists every subcategory by name.
type SubCategoryLister interface {
	List(ctx context.Context) ([]models.SubCategory, error)
}

// Snapshot is one consistent read of both lists.
type Snapshot struct {
	Handouts      []models.Handout     `json:"handouts"`
	SubCategories []models.SubCategory `json:"subcategories"`
}

// Load fetches both lists concurrently. A failed fetch is logged and
// leaves its list empty; Load itself never fails.
func Load(ctx context.Context, handouts HandoutLister, subcategories SubCategoryLister) Snapshot {
	snap := Snapshot{
		Handouts:      []models.Handout{},
		SubCategories: []models.SubCategory{},
	}

	var g errgroup.Group
	g.Go(func() error {
		list, err := handouts.List(ctx)
		if err != nil {
			slog.Error("fetch handouts failed", "error", err)
			return nil
		}
		if list != nil {
			snap.Handouts = list
		}
		return nil
	})
	g.Go(func() error {
		list, err := subcategories.List(ctx)
		if err != nil {
			slog.Error("fetch subcategories failed", "error", err)
			return nil
		}
		if list != nil {
			snap.SubCategories = list
		}
		return nil
	})
	_ = g.Wait()

	return snap
}
