// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"estudeapostilas/internal/catalog"
	"estudeapostilas/internal/models"
	"estudeapostilas/internal/store"
)

// HandoutForm is the admin editor's state: the draft being typed, the
// handout being edited (nil when adding), the staged cover and the last
// notice shown. A failed submit leaves everything but Notice untouched so
// the admin can retry.
type HandoutForm struct {
	EditingID *uuid.UUID          `json:"editingId,omitempty"`
	Draft     models.HandoutDraft `json:"draft"`
	Cover     *Cover              `json:"-"`
	Notice    string              `json:"notice,omitempty"`

	// loaded is the draft as it was stored when Edit ran.
	loaded models.HandoutDraft
}

// NewHandoutForm returns a blank form.
func NewHandoutForm(now time.Time) *HandoutForm {
	return &HandoutForm{Draft: models.DefaultHandoutDraft(now)}
}

// Edit loads h into the form for editing.
func (f *HandoutForm) Edit(h models.Handout) {
	id := h.ID
	f.EditingID = &id
	f.Draft = DraftFromHandout(h)
	f.loaded = f.Draft
	f.Cover = nil
	f.Notice = ""
}

// Reset clears the form back to the defaults.
func (f *HandoutForm) Reset(now time.Time) {
	*f = HandoutForm{Draft: models.DefaultHandoutDraft(now)}
}

// Patch returns the edits made since Edit as a sparse patch.
func (f *HandoutForm) Patch() models.HandoutPatch {
	return PatchFromDraft(f.loaded, f.Draft)
}

// Apply writes the fields present in p over the draft.
func (f *HandoutForm) Apply(p models.HandoutPatch) {
	d := f.Draft
	h := p.ApplyTo(models.Handout{
		Title:         d.Title,
		Category:      d.Category,
		SubCategoryID: d.SubCategoryID,
		Description:   d.Description,
		Author:        d.Author,
		Pages:         d.Pages,
		Year:          d.Year,
		Rating:        d.Rating,
		DownloadURL:   d.DownloadURL,
		Thumbnail:     d.Thumbnail,
	})
	f.Draft = DraftFromHandout(h)
}

// DraftFromHandout copies a stored handout's editable fields.
func DraftFromHandout(h models.Handout) models.HandoutDraft {
	return models.HandoutDraft{
		Title:         h.Title,
		Category:      h.Category,
		SubCategoryID: h.SubCategoryID,
		Description:   h.Description,
		Author:        h.Author,
		Pages:         h.Pages,
		Year:          h.Year,
		Rating:        h.Rating,
		DownloadURL:   h.DownloadURL,
		Thumbnail:     h.Thumbnail,
	}
}

// PatchFromDraft returns a patch holding only the fields of d that differ
// from loaded. An unchanged subcategory link stays out of the patch, so a
// link that dangles is carried over instead of being chosen again.
func PatchFromDraft(loaded, d models.HandoutDraft) models.HandoutPatch {
	var p models.HandoutPatch
	if d.Title != loaded.Title {
		p.Title = &d.Title
	}
	if d.Category != loaded.Category {
		p.Category = &d.Category
	}
	if !sameID(d.SubCategoryID, loaded.SubCategoryID) {
		p.SubCategoryID = models.SetID(d.SubCategoryID)
	}
	if d.Description != loaded.Description {
		p.Description = &d.Description
	}
	if d.Author != loaded.Author {
		p.Author = &d.Author
	}
	if d.Pages != loaded.Pages {
		p.Pages = &d.Pages
	}
	if d.Year != loaded.Year {
		p.Year = &d.Year
	}
	if d.Rating != loaded.Rating {
		p.Rating = &d.Rating
	}
	if d.DownloadURL != loaded.DownloadURL {
		p.DownloadURL = &d.DownloadURL
	}
	if d.Thumbnail != loaded.Thumbnail {
		p.Thumbnail = &d.Thumbnail
	}
	return p
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// EditHandout loads the stored handout id into a new form.
func (w *Workflow) EditHandout(ctx context.Context, id uuid.UUID) (*HandoutForm, error) {
	h, err := w.handouts.FindByID(ctx, id)
	if err != nil {
		return nil, &MutationError{Op: OpSave, Entity: EntityHandout, Err: err}
	}
	if h == nil {
		return nil, &MutationError{Op: OpSave, Entity: EntityHandout, Err: fmt.Errorf("handout %s: %w", id, store.ErrNotFound)}
	}
	f := NewHandoutForm(w.Now())
	f.Edit(*h)
	return f, nil
}

// SubmitHandout saves the form: an insert when adding, a patch of the
// changed fields when editing. On success the form is reset and the saved
// handout is returned along with the refreshed lists. On failure the form
// keeps its draft, cover and editing target, and Notice carries the message.
func (w *Workflow) SubmitHandout(ctx context.Context, f *HandoutForm) (*models.Handout, catalog.Snapshot, error) {
	var (
		saved *models.Handout
		snap  catalog.Snapshot
		err   error
	)
	if f.EditingID == nil {
		saved, snap, err = w.CreateHandout(ctx, f.Draft, f.Cover)
	} else {
		id := *f.EditingID
		snap, err = w.UpdateHandout(ctx, id, f.Patch(), f.Cover)
		if err == nil {
			saved = findHandout(snap.Handouts, id)
		}
	}
	if err != nil {
		f.Notice = NoticeFor(err)
		return nil, catalog.Snapshot{}, err
	}

	f.Reset(w.Now())
	f.Notice = "Material salvo com sucesso!"
	return saved, snap, nil
}

// NoticeFor returns the admin-facing message for a workflow error.
func NoticeFor(err error) string {
	var mErr *MutationError
	var vErr *ValidationError
	switch {
	case errors.As(err, &mErr):
		return mErr.Notice()
	case errors.As(err, &vErr):
		return "Verifique o campo " + vErr.Field + ": " + vErr.Message + "."
	case errors.Is(err, ErrConfirmationRequired):
		return "Confirme a exclusão para continuar."
	}
	return "Erro inesperado."
}

func findHandout(list []models.Handout, id uuid.UUID) *models.Handout {
	for i := range list {
		if list[i].ID == id {
			h := list[i]
			return &h
		}
	}
	return nil
}
