package models

import (
	"time"

	"github.com/google/uuid"
)

// Workbook registers a known workbook file. The modification time doubles
// as the invalidation token for the derived-result cache: whenever the
// file on disk advances, cached overviews for it go stale.
type Workbook struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	Label     string    `json:"label"`
	ModTime   time.Time `json:"mod_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
