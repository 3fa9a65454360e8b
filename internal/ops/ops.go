package ops

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/quarrydev/strata/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// ValidateRunID checks that id is a well-formed ULID and returns its
// canonical uppercase form.
func ValidateRunID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("run id is required")
	}
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return "", errors.NewInvalidRequest("run id must be a valid ULID")
	}
	return parsed.String(), nil
}
