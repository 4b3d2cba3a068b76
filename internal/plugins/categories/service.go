package categories

import (
	"context"
	"strings"
	"time"

	"github.com/keyxmakerx/chronospace/internal/apperror"
	"github.com/keyxmakerx/chronospace/internal/timestamp"
)

// Client-facing messages.
const (
	MsgNotFound      = "Category not found"
	MsgDuplicateName = "Category with this name already exists"
)

// CategoryService handles business logic for categories.
type CategoryService interface {
	Create(ctx context.Context, input CategoryCreate) (*Category, error)
	Get(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context, skip, limit int) ([]Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	repo CategoryRepository
	now  func() time.Time
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo CategoryRepository) CategoryService {
	return &categoryService{repo: repo, now: time.Now}
}

// Create rejects duplicate names, then stores the category.
func (s *categoryService) Create(ctx context.Context, input CategoryCreate) (*Category, error) {
	// MySQL's binary collation ignores trailing spaces in comparisons and
	// SQLite does not, so names are stored trimmed on both.
	name := strings.TrimSpace(input.Name)
	exists, err := s.repo.NameExists(ctx, name)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if exists {
		return nil, apperror.NewConflict(MsgDuplicateName)
	}

	cat := &Category{
		Name:        name,
		Description: input.Description,
		Color:       input.Color,
		Icon:        input.Icon,
		CreatedAt:   timestamp.Storage(s.now()),
	}
	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, apperror.Wrap(err)
	}
	return cat, nil
}

// Get returns a single category.
func (s *categoryService) Get(ctx context.Context, id int64) (*Category, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err)
	}
	return cat, nil
}

// List returns one page of categories.
func (s *categoryService) List(ctx context.Context, skip, limit int) ([]Category, error) {
	cats, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, apperror.Wrap(err)
	}
	return cats, nil
}

// Delete removes a category and detaches it from every event.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	return apperror.Wrap(s.repo.Delete(ctx, id))
}
