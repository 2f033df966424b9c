// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"estudeapostilas/internal/catalog"
	"estudeapostilas/internal/coverimage"
	"estudeapostilas/internal/models"
	"estudeapostilas/internal/slug"
	"estudeapostilas/internal/store"
)

// coverPrefix is the object key prefix for uploaded covers.
const coverPrefix = "thumbnails/"

// Cover is an image file staged in the form, not yet uploaded.
type Cover struct {
	Filename string
	Data     []byte
}

// CreateHandout validates the draft, uploads the staged cover (if any),
// then inserts the handout. An uploaded cover's URL replaces any typed
// thumbnail URL. A failed upload aborts before the insert.
func (w *Workflow) CreateHandout(ctx context.Context, d models.HandoutDraft, cover *Cover) (*models.Handout, catalog.Snapshot, error) {
	if err := w.check(d); err != nil {
		return nil, catalog.Snapshot{}, err
	}
	if d.SubCategoryID != nil {
		if err := w.checkSubCategory(ctx, d.Category, *d.SubCategoryID, true); err != nil {
			return nil, catalog.Snapshot{}, err
		}
	}

	key, err := w.uploadCover(ctx, cover)
	if err != nil {
		return nil, catalog.Snapshot{}, err
	}
	if key != "" {
		d.Thumbnail = w.storage.PublicURL(key)
	}

	h, err := w.handouts.Create(ctx, d)
	if err != nil {
		if key != "" {
			slog.Warn("cover left without a handout", "key", key, "error", err)
		}
		return nil, catalog.Snapshot{}, &MutationError{Op: OpSave, Entity: EntityHandout, Err: err}
	}

	slog.Info("handout created", "id", h.ID, "title", h.Title)
	return h, w.List(ctx), nil
}

// UpdateHandout applies a sparse patch. Fields absent from the patch keep
// their stored value. When the patch moves the handout to another
// category or subcategory, the pairing is checked against the stored row.
func (w *Workflow) UpdateHandout(ctx context.Context, id uuid.UUID, p models.HandoutPatch, cover *Cover) (catalog.Snapshot, error) {
	p = p.Normalize()
	if err := w.check(p); err != nil {
		return catalog.Snapshot{}, err
	}
	if p.IsEmpty() && cover == nil {
		return w.List(ctx), nil
	}

	if p.Category != nil || (p.SubCategoryID.Set && p.SubCategoryID.ID != nil) {
		current, err := w.handouts.FindByID(ctx, id)
		if err != nil {
			return catalog.Snapshot{}, &MutationError{Op: OpSave, Entity: EntityHandout, Err: err}
		}
		if current == nil {
			return catalog.Snapshot{}, &MutationError{Op: OpSave, Entity: EntityHandout, Err: fmt.Errorf("handout %s: %w", id, store.ErrNotFound)}
		}
		effective := p.ApplyTo(*current)
		if effective.SubCategoryID != nil {
			explicit := p.SubCategoryID.Set
			if err := w.checkSubCategory(ctx, effective.Category, *effective.SubCategoryID, explicit); err != nil {
				return catalog.Snapshot{}, err
			}
		}
	}

	key, err := w.uploadCover(ctx, cover)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	if key != "" {
		url := w.storage.PublicURL(key)
		p.Thumbnail = &url
	}

	if err := w.handouts.Update(ctx, id, p); err != nil {
		if key != "" {
			slog.Warn("cover left without a handout", "key", key, "error", err)
		}
		return catalog.Snapshot{}, &MutationError{Op: OpSave, Entity: EntityHandout, Err: err}
	}

	slog.Info("handout updated", "id", id)
	return w.List(ctx), nil
}

// DeleteHandout removes a handout once confirmed. There is no undo.
func (w *Workflow) DeleteHandout(ctx context.Context, id uuid.UUID, confirmed bool) (catalog.Snapshot, error) {
	if !confirmed {
		return catalog.Snapshot{}, ErrConfirmationRequired
	}
	if err := w.handouts.Delete(ctx, id); err != nil {
		return catalog.Snapshot{}, &MutationError{Op: OpDelete, Entity: EntityHandout, Err: err}
	}
	slog.Info("handout deleted", "id", id)
	return w.List(ctx), nil
}

// checkSubCategory verifies that subID belongs to category. A missing
// subcategory is an error only when the caller chose it explicitly;
// a link inherited from the stored row may already dangle.
func (w *Workflow) checkSubCategory(ctx context.Context, category models.Category, subID uuid.UUID, explicit bool) error {
	sub, err := w.subcategories.FindByID(ctx, subID)
	if err != nil {
		return &MutationError{Op: OpSave, Entity: EntityHandout, Err: err}
	}
	if sub == nil {
		if explicit {
			return &ValidationError{Field: "subcategory_id", Message: "subcategoria não encontrada"}
		}
		return nil
	}
	if sub.Category != category {
		return &ValidationError{
			Field:   "subcategory_id",
			Message: fmt.Sprintf("a subcategoria %q não pertence à categoria %s", sub.Name, category),
		}
	}
	return nil
}

// uploadCover normalises and uploads cover, returning its object key.
// A nil cover uploads nothing and returns "".
func (w *Workflow) uploadCover(ctx context.Context, cover *Cover) (string, error) {
	if cover == nil {
		return "", nil
	}
	img, err := coverimage.Prepare(cover.Filename, cover.Data)
	if err != nil {
		return "", &ValidationError{Field: "cover", Message: err.Error()}
	}
	if w.storage == nil {
		return "", &MutationError{Op: OpSave, Entity: EntityHandout, Err: ErrStorageUnavailable}
	}

	key := coverKey(cover.Filename, img.Ext)
	if err := w.storage.Upload(ctx, key, img.ContentType, bytes.NewReader(img.Data), int64(len(img.Data))); err != nil {
		return "", &MutationError{Op: OpSave, Entity: EntityHandout, Err: fmt.Errorf("upload cover: %w", err)}
	}
	return key, nil
}

// coverKey names an uploaded cover after its file name, with a random
// suffix so re-uploads never collide.
func coverKey(filename, ext string) string {
	base := slug.Generate(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		return coverPrefix + uuid.NewString() + ext
	}
	return coverPrefix + base + "-" + uuid.NewString() + ext
}
