package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID identifies an RFP record. Catalog records carry human-assigned IDs
// ("RFP-2024-017"); records extracted from uploaded documents get a
// generated upload ID. IDs are unique within a processing run.
type ID string

// NewUploadID generates an ID for a record extracted from an uploaded
// document. The UUID suffix keeps concurrent uploads distinct.
func NewUploadID() ID {
	return ID(fmt.Sprintf("RFP-UPLOAD-%s", uuid.New().String()[:8]))
}

// String returns the string representation of the ID.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool {
	return id == ""
}

// Validate checks that the ID is non-empty and has no surrounding
// whitespace.
func (id ID) Validate() error {
	if id == "" {
		return NewError(RFP_INVALID, "record ID cannot be empty")
	}
	if strings.TrimSpace(string(id)) != string(id) {
		return NewError(RFP_INVALID, fmt.Sprintf("record ID %q has surrounding whitespace", id))
	}
	return nil
}
