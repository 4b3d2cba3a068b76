package categories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keyxmakerx/chronospace/internal/apperror"
)

// --- Mock Repository ---

// mockCategoryRepo implements CategoryRepository for testing.
type mockCategoryRepo struct {
	createFn     func(ctx context.Context, category *Category) error
	findByIDFn   func(ctx context.Context, id int64) (*Category, error)
	nameExistsFn func(ctx context.Context, name string) (bool, error)
	listFn       func(ctx context.Context, skip, limit int) ([]Category, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *Category) error {
	if m.createFn != nil {
		return m.createFn(ctx, category)
	}
	category.ID = 1
	return nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id int64) (*Category, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound(MsgNotFound)
}

func (m *mockCategoryRepo) NameExists(ctx context.Context, name string) (bool, error) {
	if m.nameExistsFn != nil {
		return m.nameExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockCategoryRepo) List(ctx context.Context, skip, limit int) ([]Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx, skip, limit)
	}
	return []Category{}, nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Test Helpers ---

func newTestService(repo *mockCategoryRepo) *categoryService {
	return &categoryService{
		repo: repo,
		now:  func() time.Time { return time.Date(2024, 5, 1, 8, 30, 0, 0, time.FixedZone("EST", -5*3600)) },
	}
}

func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func TestCreate_Success(t *testing.T) {
	svc := newTestService(&mockCategoryRepo{})
	icon := "fa-landmark"

	cat, err := svc.Create(context.Background(), CategoryCreate{Name: "Politics", Icon: &icon})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.ID != 1 || cat.Name != "Politics" || *cat.Icon != icon {
		t.Errorf("unexpected category %+v", cat)
	}
	if cat.CreatedAt.Location() != time.UTC || cat.CreatedAt.Hour() != 13 {
		t.Errorf("created_at should be stored in UTC, got %v", cat.CreatedAt)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	svc := newTestService(&mockCategoryRepo{
		nameExistsFn: func(context.Context, string) (bool, error) { return true, nil },
		createFn: func(context.Context, *Category) error {
			t.Fatal("create should not be called for a duplicate")
			return nil
		},
	})
	_, err := svc.Create(context.Background(), CategoryCreate{Name: "Politics"})
	assertAppError(t, err, 400)
	if apperror.SafeMessage(err) != MsgDuplicateName {
		t.Errorf("unexpected message %q", apperror.SafeMessage(err))
	}
}

func TestCreate_TrimsName(t *testing.T) {
	var checked string
	svc := newTestService(&mockCategoryRepo{
		nameExistsFn: func(_ context.Context, name string) (bool, error) {
			checked = name
			return false, nil
		},
	})

	cat, err := svc.Create(context.Background(), CategoryCreate{Name: "Politics  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checked != "Politics" || cat.Name != "Politics" {
		t.Errorf("expected trimmed name, checked %q stored %q", checked, cat.Name)
	}
}

func TestCreate_InsertFailure(t *testing.T) {
	svc := newTestService(&mockCategoryRepo{
		createFn: func(context.Context, *Category) error { return errors.New("no such table: categories") },
	})
	_, err := svc.Create(context.Background(), CategoryCreate{Name: "Politics"})
	assertAppError(t, err, 500)
	if apperror.SafeMessage(err) == "no such table: categories" {
		t.Error("internal cause leaked into the client message")
	}
}

func TestGet(t *testing.T) {
	svc := newTestService(&mockCategoryRepo{
		findByIDFn: func(_ context.Context, id int64) (*Category, error) {
			if id == 1 {
				return &Category{ID: 1, Name: "Politics"}, nil
			}
			return nil, apperror.NewNotFound(MsgNotFound)
		},
	})

	cat, err := svc.Get(context.Background(), 1)
	if err != nil || cat.Name != "Politics" {
		t.Fatalf("unexpected result %+v, %v", cat, err)
	}
	_, err = svc.Get(context.Background(), 2)
	assertAppError(t, err, 404)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(&mockCategoryRepo{
		deleteFn: func(context.Context, int64) error { return apperror.NewNotFound(MsgNotFound) },
	})
	assertAppError(t, svc.Delete(context.Background(), 5), 404)
}
