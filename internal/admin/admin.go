// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package admin implements the admin panel's create/update/delete
// workflow for handouts and subcategories. Every mutation validates its
// input, uploads a staged cover before writing the row that points at it,
// and returns a fresh catalog snapshot so callers never patch lists in
// place.
package admin

import (
	"context"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"estudeapostilas/internal/catalog"
	"estudeapostilas/internal/models"
)

// HandoutGateway is the handout table as the workflow needs it.
type HandoutGateway interface {
	List(ctx context.Context) ([]models.Handout, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Handout, error)
	Create(ctx context.Context, d models.HandoutDraft) (*models.Handout, error)
	Update(ctx context.Context, id uuid.UUID, p models.HandoutPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubCategoryGateway is the subcategory table as the workflow needs it.
type SubCategoryGateway interface {
	List(ctx context.Context) ([]models.SubCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error)
	Create(ctx context.Context, d models.SubCategoryDraft) (*models.SubCategory, error)
	Update(ctx context.Context, id uuid.UUID, p models.SubCategoryPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ObjectStorage stores cover images and maps their keys to public URLs.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PublicURL(key string) string
}

// Workflow runs admin mutations against the gateways.
type Workflow struct {
	handouts      HandoutGateway
	subcategories SubCategoryGateway
	storage       ObjectStorage
	validate      *validator.Validate

	// Now is used for the default year of a reset form.
	Now func() time.Time
}

// New creates a Workflow. storage may be nil, in which case any mutation
// with a staged cover fails with ErrStorageUnavailable.
func New(handouts HandoutGateway, subcategories SubCategoryGateway, storage ObjectStorage) *Workflow {
	return &Workflow{
		handouts:      handouts,
		subcategories: subcategories,
		storage:       storage,
		validate:      newValidator(),
		Now:           time.Now,
	}
}

// List fetches both lists. It never fails: a list whose fetch errors is
// logged and returned empty.
func (w *Workflow) List(ctx context.Context) catalog.Snapshot {
	return catalog.Load(ctx, w.handouts, w.subcategories)
}
