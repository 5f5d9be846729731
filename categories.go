package cofrin

import (
	"context"

	"github.com/thiagodosanjos/cofrin/category"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// CreateCategory creates a new spending category.
func (e *Engine) CreateCategory(ctx context.Context, userID id.ID, name, icon string) (*category.Category, error) {
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "must not be empty"}
	}

	c := &category.Category{
		Entity: types.NewEntity(),
		ID:     id.NewCategoryID(),
		UserID: userID,
		Name:   name,
		Icon:   icon,
	}
	if err := e.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCategory fetches one category.
func (e *Engine) GetCategory(ctx context.Context, userID, categoryID id.ID) (*category.Category, error) {
	return e.store.GetCategory(ctx, userID, categoryID)
}

// ListCategories returns all of the user's categories.
func (e *Engine) ListCategories(ctx context.Context, userID id.ID) ([]*category.Category, error) {
	return e.store.ListCategories(ctx, userID)
}

// UpdateCategory persists edits to a category. A rename re-synchronizes the
// denormalized category name on the user's transactions.
func (e *Engine) UpdateCategory(ctx context.Context, c *category.Category) error {
	current, err := e.store.GetCategory(ctx, c.UserID, c.ID)
	if err != nil {
		return err
	}

	c.Touch()
	if err := e.store.UpdateCategory(ctx, c); err != nil {
		return err
	}

	if c.Name == current.Name {
		return nil
	}

	txns, err := e.store.ListTransactions(ctx, c.UserID)
	if err != nil {
		return err
	}
	for _, t := range txns {
		if t.CategoryID != c.ID || t.CategoryName == c.Name {
			continue
		}
		t.CategoryName = c.Name
		if err := e.store.UpdateTransaction(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// DeleteCategory removes a category. Transactions keep their denormalized
// category name so existing history still renders.
func (e *Engine) DeleteCategory(ctx context.Context, userID, categoryID id.ID) error {
	return e.store.DeleteCategory(ctx, userID, categoryID)
}
