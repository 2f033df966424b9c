// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Handout is a downloadable study document listed in the catalog.
//
// SubCategoryID is the authoritative link to a subcategory. SubCategory is
// a read-time projection filled only by list queries and is never used as
// a write source. SubCategoryID may point to a subcategory that has since
// been deleted: deletes do not cascade.
type Handout struct {
	ID            uuid.UUID    `json:"id"`
	Title         string       `json:"title"`
	Category      Category     `json:"category"`
	SubCategory   *SubCategory `json:"subCategory,omitempty"`
	SubCategoryID *uuid.UUID   `json:"subcategory_id,omitempty"`
	Description   string       `json:"description"`
	Author        string       `json:"author"`
	Pages         int          `json:"pages"`
	Year          int          `json:"year"`
	Rating        float64      `json:"rating"`
	DownloadURL   string       `json:"downloadUrl"`
	Thumbnail     string       `json:"thumbnail"`
	CreatedAt     time.Time    `json:"created_at"`
}

// HandoutDraft is an in-progress handout held by the admin form before
// the store assigns it an ID.
type HandoutDraft struct {
	Title         string     `json:"title" validate:"required,max=300"`
	Category      Category   `json:"category" validate:"required,category"`
	SubCategoryID *uuid.UUID `json:"subcategory_id,omitempty"`
	Description   string     `json:"description" validate:"required,max=5000"`
	Author        string     `json:"author" validate:"max=200"`
	Pages         int        `json:"pages" validate:"gte=0"`
	Year          int        `json:"year" validate:"gte=0,lte=9999"`
	Rating        float64    `json:"rating" validate:"gte=0,lte=5"`
	DownloadURL   string     `json:"downloadUrl" validate:"required,url"`
	Thumbnail     string     `json:"thumbnail" validate:"omitempty,url"`
}

// DefaultHandoutDraft returns the blank form shown after a successful save.
func DefaultHandoutDraft(now time.Time) HandoutDraft {
	return HandoutDraft{
		Category: DefaultCategory(),
		Pages:    0,
		Year:     now.Year(),
		Rating:   5.0,
	}
}

// HandoutPatch is a sparse update: nil fields are left untouched in the
// store. Title, Category and DownloadURL are only written when non-empty,
// so an edit can never blank them out. A Thumbnail pointing at "" clears
// the cover.
type HandoutPatch struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,max=300"`
	Category      *Category  `json:"category,omitempty" validate:"omitempty,category"`
	SubCategoryID OptionalID `json:"subcategory_id"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Author        *string    `json:"author,omitempty" validate:"omitempty,max=200"`
	Pages         *int       `json:"pages,omitempty" validate:"omitempty,gte=0"`
	Year          *int       `json:"year,omitempty" validate:"omitempty,gte=0,lte=9999"`
	Rating        *float64   `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	DownloadURL   *string    `json:"downloadUrl,omitempty" validate:"omitempty,url"`
	Thumbnail     *string    `json:"thumbnail,omitempty" validate:"omitempty,url_or_empty"`
}

// Normalize drops empty Title, Category and DownloadURL values.
func (p HandoutPatch) Normalize() HandoutPatch {
	if p.Title != nil && *p.Title == "" {
		p.Title = nil
	}
	if p.Category != nil && *p.Category == "" {
		p.Category = nil
	}
	if p.DownloadURL != nil && *p.DownloadURL == "" {
		p.DownloadURL = nil
	}
	return p
}

// IsEmpty reports whether the normalized patch would change nothing.
func (p HandoutPatch) IsEmpty() bool {
	n := p.Normalize()
	return n.Title == nil && n.Category == nil && !n.SubCategoryID.Set &&
		n.Description == nil && n.Author == nil && n.Pages == nil &&
		n.Year == nil && n.Rating == nil && n.DownloadURL == nil && n.Thumbnail == nil
}

// ApplyTo returns h with the patch's fields written over it.
func (p HandoutPatch) ApplyTo(h Handout) Handout {
	p = p.Normalize()
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Category != nil {
		h.Category = *p.Category
	}
	if p.SubCategoryID.Set {
		h.SubCategoryID = p.SubCategoryID.ID
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Author != nil {
		h.Author = *p.Author
	}
	if p.Pages != nil {
		h.Pages = *p.Pages
	}
	if p.Year != nil {
		h.Year = *p.Year
	}
	if p.Rating != nil {
		h.Rating = *p.Rating
	}
	if p.DownloadURL != nil {
		h.DownloadURL = *p.DownloadURL
	}
	if p.Thumbnail != nil {
		h.Thumbnail = *p.Thumbnail
	}
	return h
}

// OptionalID distinguishes an absent key from an explicit null in a JSON
// patch. Set is true whenever the key was present; ID is nil for null.
type OptionalID struct {
	Set bool
	ID  *uuid.UUID
}

// SetID returns an OptionalID that links to id, or unlinks when id is nil.
func SetID(id *uuid.UUID) OptionalID {
	return OptionalID{Set: true, ID: id}
}

// UnmarshalJSON is only invoked when the key is present.
func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		o.ID = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.ID == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.ID)
}
