// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"errors"
	"fmt"
)

var (
	// ErrConfirmationRequired is returned by deletes that were not confirmed.
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	// ErrStorageUnavailable is returned when a cover is staged but no
	// object storage is configured.
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// Mutation operations.
const (
	OpSave   = "save"
	OpDelete = "delete"
)

// Entities a MutationError can refer to.
const (
	EntityHandout     = "handout"
	EntitySubCategory = "subcategory"
)

// MutationError wraps a failed upload or store write.
type MutationError struct {
	Op     string
	Entity string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Notice is the message shown to the admin.
func (e *MutationError) Notice() string {
	noun := "material"
	if e.Entity == EntitySubCategory {
		noun = "subcategoria"
	}
	if e.Op == OpDelete {
		return "Erro ao excluir " + noun + "."
	}
	return "Erro ao salvar " + noun + "."
}

// ValidationError reports the first invalid field of a draft or patch.
// Field uses the JSON name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
