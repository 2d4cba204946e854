package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/igoorcb/finance-control/internal/core"
)

// CategoryService owns category CRUD with the same referential-integrity
// guard as accounts: a category is never deleted while referenced.
type CategoryService struct {
	store Store
}

func NewCategoryService(store Store) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) Create(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.IsActive = true
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.store.CreateCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		"component", "category",
		"category_id", c.ID,
		"name", c.Name,
		"kind", string(c.Kind))

	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (core.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// List returns all categories ordered by name ascending, each with the
// number of transactions referencing it.
func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		count, err := s.store.CountTransactionsByCategory(ctx, categories[i].ID)
		if err != nil {
			return nil, fmt.Errorf("count category transactions: %w", err)
		}
		categories[i].TransactionCount = int(count)
	}
	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, patch CategoryPatch) (core.Category, error) {
	if patch.Kind != nil && !patch.Kind.Valid() {
		return core.Category{}, core.Validation("invalid category type")
	}
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return core.Category{}, err
	}
	updated, err := s.store.UpdateCategory(ctx, id, patch)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return err
	}

	count, err := s.store.CountTransactionsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count category transactions: %w", err)
	}
	if count > 0 {
		return core.Conflict("cannot delete category with transactions")
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted", "component", "category", "category_id", id)
	return nil
}
