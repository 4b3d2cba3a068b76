package epochs

import (
	"context"
	"strings"
	"time"

	"github.com/keyxmakerx/chronospace/internal/apperror"
	"github.com/keyxmakerx/chronospace/internal/timestamp"
)

// Client-facing messages.
const (
	MsgNotFound      = "Epoch not found"
	MsgDuplicateName = "Epoch with this name already exists"
	MsgHasEvents     = "Epoch still has events"
)

// EpochService handles business logic for epochs.
type EpochService interface {
	Create(ctx context.Context, input EpochCreate) (*Epoch, error)
	Get(ctx context.Context, id int64) (*Epoch, error)
	List(ctx context.Context, skip, limit int) ([]Epoch, error)
	Delete(ctx context.Context, id int64) error
}

type epochService struct {
	repo EpochRepository
	now  func() time.Time
}

// NewEpochService creates a new epoch service.
func NewEpochService(repo EpochRepository) EpochService {
	return &epochService{repo: repo, now: time.Now}
}

// Create checks the date range and name uniqueness, then stores the epoch.
func (s *epochService) Create(ctx context.Context, input EpochCreate) (*Epoch, error) {
	start, err := timestamp.Parse(input.StartDate)
	if err != nil {
		return nil, apperror.NewFieldError("Input should be a valid datetime", "datetime_parsing", "body", "start_date")
	}
	end, err := timestamp.Parse(input.EndDate)
	if err != nil {
		return nil, apperror.NewFieldError("Input should be a valid datetime", "datetime_parsing", "body", "end_date")
	}
	if end.Before(start) {
		return nil, apperror.NewFieldError("End date must not be before start date", "value_error", "body", "end_date")
	}

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

	epoch := &Epoch{
		Name:        name,
		Description: input.Description,
		StartDate:   timestamp.Storage(start),
		EndDate:     timestamp.Storage(end),
		Color:       input.Color,
		CreatedAt:   timestamp.Storage(s.now()),
	}
	if err := s.repo.Create(ctx, epoch); err != nil {
		return nil, apperror.Wrap(err)
	}
	return epoch, nil
}

// Get returns a single epoch.
func (s *epochService) Get(ctx context.Context, id int64) (*Epoch, error) {
	epoch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err)
	}
	return epoch, nil
}

// List returns one page of epochs.
func (s *epochService) List(ctx context.Context, skip, limit int) ([]Epoch, error) {
	epochs, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, apperror.Wrap(err)
	}
	return epochs, nil
}

// Delete removes an epoch that no event references.
func (s *epochService) Delete(ctx context.Context, id int64) error {
	return apperror.Wrap(s.repo.Delete(ctx, id))
}
