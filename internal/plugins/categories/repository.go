package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/keyxmakerx/chronospace/internal/apperror"
	"github.com/keyxmakerx/chronospace/internal/database"
)

// CategoryRepository defines the data access contract for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id int64) (*Category, error)
	NameExists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, skip, limit int) ([]Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a repository backed by the given pool.
func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts the category and sets its generated ID.
func (r *categoryRepository) Create(ctx context.Context, category *Category) error {
	query := `INSERT INTO categories (name, description, color, icon, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		category.Name, category.Description, category.Color, category.Icon, category.CreatedAt,
	)
	if database.IsUniqueViolation(err) {
		return apperror.NewConflict(MsgDuplicateName)
	}
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading category id: %w", err)
	}
	category.ID = id
	return nil
}

// FindByID retrieves a category by primary key.
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*Category, error) {
	var cat Category
	err := r.db.GetContext(ctx, &cat, `SELECT `+Columns+` FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound(MsgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying category by id: %w", err)
	}
	return &cat, nil
}

// NameExists reports whether a category with exactly this name exists.
func (r *categoryRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM categories WHERE name = ?)`, name)
	if err != nil {
		return false, fmt.Errorf("checking category name: %w", err)
	}
	return exists, nil
}

// List returns one page of categories in insertion order.
func (r *categoryRepository) List(ctx context.Context, skip, limit int) ([]Category, error) {
	cats := []Category{}
	query := `SELECT ` + Columns + ` FROM categories ORDER BY id LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &cats, query, limit, skip); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return cats, nil
}

// Delete removes a category. Its event associations go with it through
// ON DELETE CASCADE; the events themselves stay.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted category: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound(MsgNotFound)
	}
	return nil
}
