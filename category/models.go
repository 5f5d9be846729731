// Package category defines the spending-category entity.
package category

import (
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// Category labels transactions for reporting. Its name is denormalized onto
// transactions and re-synchronized on rename.
type Category struct {
	types.Entity
	ID     id.ID  `json:"id"`
	UserID id.ID  `json:"user_id"`
	Name   string `json:"name"`
	Icon   string `json:"icon,omitempty"`
}
