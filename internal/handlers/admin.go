// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"estudeapostilas/internal/admin"
	"estudeapostilas/internal/catalog"
	"estudeapostilas/internal/coverimage"
	"estudeapostilas/internal/models"
	"estudeapostilas/internal/store"
)

// maxAdminUpload bounds a multipart handout submission: the cover plus
// room for the JSON field and multipart framing.
const maxAdminUpload = coverimage.MaxBytes + 1<<20

// Multipart field names of a handout submission.
const (
	handoutField = "handout"
	coverField   = "cover"
)

const (
	noticeSaved   = "Material salvo com sucesso!"
	noticeDeleted = "Material excluído com sucesso!"
	noticeSubSave = "Subcategoria salva com sucesso!"
	noticeSubDel  = "Subcategoria excluída com sucesso!"
)

// mutationResponse is returned by every successful admin mutation: the
// refreshed lists plus the notice to show.
type mutationResponse struct {
	Handout     *models.Handout     `json:"handout,omitempty"`
	SubCategory *models.SubCategory `json:"subcategory,omitempty"`
	Snapshot    catalog.Snapshot    `json:"snapshot"`
	Notice      string              `json:"notice"`
}

// Admin serves the admin panel's CRUD endpoints.
type Admin struct {
	workflow *admin.Workflow
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(workflow *admin.Workflow) *Admin {
	return &Admin{workflow: workflow}
}

// Snapshot returns both lists as the admin panel shows them.
func (a *Admin) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.workflow.List(r.Context()))
}

// CreateHandout adds a handout. The body is either multipart (a JSON
// "handout" field plus an optional "cover" file) or plain JSON.
func (a *Admin) CreateHandout(w http.ResponseWriter, r *http.Request) {
	form := admin.NewHandoutForm(a.workflow.Now())
	cover, ok := readHandoutSubmission(w, r, &form.Draft)
	if !ok {
		return
	}
	form.Cover = cover

	saved, snap, err := a.workflow.SubmitHandout(r.Context(), form)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Handout: saved, Snapshot: snap, Notice: form.Notice})
}

// UpdateHandout loads the stored handout into an edit form, applies the
// submitted patch to it and saves the fields that changed. Body shapes are
// the same as create.
func (a *Admin) UpdateHandout(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var patch models.HandoutPatch
	cover, ok := readHandoutSubmission(w, r, &patch)
	if !ok {
		return
	}

	form, err := a.workflow.EditHandout(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	form.Apply(patch)
	form.Cover = cover

	saved, snap, err := a.workflow.SubmitHandout(r.Context(), form)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Handout: saved, Snapshot: snap, Notice: form.Notice})
}

// DeleteHandout removes a handout; ?confirm=true is required.
func (a *Admin) DeleteHandout(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	snap, err := a.workflow.DeleteHandout(r.Context(), id, confirmed(r))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Snapshot: snap, Notice: noticeDeleted})
}

// SubCategories lists subcategories for the admin panel.
func (a *Admin) SubCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.workflow.List(r.Context()).SubCategories)
}

// CreateSubCategory adds a subcategory from a JSON draft.
func (a *Admin) CreateSubCategory(w http.ResponseWriter, r *http.Request) {
	var d models.SubCategoryDraft
	if err := decodeJSON(w, r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida.")
		return
	}

	saved, snap, err := a.workflow.CreateSubCategory(r.Context(), d)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{SubCategory: saved, Snapshot: snap, Notice: noticeSubSave})
}

// UpdateSubCategory renames or moves a subcategory.
func (a *Admin) UpdateSubCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var p models.SubCategoryPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida.")
		return
	}

	snap, err := a.workflow.UpdateSubCategory(r.Context(), id, p)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Snapshot: snap, Notice: noticeSubSave})
}

// DeleteSubCategory removes a subcategory; ?confirm=true is required.
// Handouts linked to it keep their dangling link.
func (a *Admin) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	snap, err := a.workflow.DeleteSubCategory(r.Context(), id, confirmed(r))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Snapshot: snap, Notice: noticeSubDel})
}

func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

// readHandoutSubmission decodes the handout payload into v and returns
// the staged cover, if any. It writes the error response itself.
func readHandoutSubmission(w http.ResponseWriter, r *http.Request, v any) (*admin.Cover, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := decodeJSON(w, r, v); err != nil {
			writeError(w, http.StatusBadRequest, "Requisição inválida.")
			return nil, false
		}
		return nil, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAdminUpload)
	if err := r.ParseMultipartForm(maxAdminUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Arquivo muito grande. O limite é 10 MB.")
		} else {
			writeError(w, http.StatusBadRequest, "Requisição inválida.")
		}
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	// A cover-only edit may leave the handout field out.
	if raw := strings.TrimSpace(r.FormValue(handoutField)); raw != "" {
		if err := json.Unmarshal([]byte(raw), v); err != nil {
			writeError(w, http.StatusBadRequest, "Campo handout inválido.")
			return nil, false
		}
	}

	file, header, err := r.FormFile(coverField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Capa inválida.")
		return nil, false
	}
	defer file.Close()

	data, err := readAll(file, coverimage.MaxBytes)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Arquivo muito grande. O limite é 10 MB.")
		return nil, false
	}
	return &admin.Cover{Filename: header.Filename, Data: data}, true
}

// writeWorkflowError maps a workflow error to its status code and the
// admin-facing notice.
func writeWorkflowError(w http.ResponseWriter, err error) {
	var (
		vErr *admin.ValidationError
		mErr *admin.MutationError
	)
	notice := admin.NoticeFor(err)

	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: notice, Field: vErr.Field})
	case errors.Is(err, admin.ErrConfirmationRequired):
		writeError(w, http.StatusConflict, notice)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Registro não encontrado.")
	case errors.Is(err, admin.ErrStorageUnavailable):
		slog.Warn("cover upload without object storage", "error", err)
		writeError(w, http.StatusServiceUnavailable, notice)
	case errors.As(err, &mErr):
		slog.Error("admin mutation failed", "error", err)
		writeError(w, http.StatusBadGateway, notice)
	default:
		slog.Error("admin request failed", "error", err)
		writeError(w, http.StatusInternalServerError, notice)
	}
}
