package events

import (
	"context"
	"time"

	"github.com/keyxmakerx/chronospace/internal/apperror"
	"github.com/keyxmakerx/chronospace/internal/timestamp"
)

// EventService handles business logic for events.
type EventService interface {
	Create(ctx context.Context, input EventCreate) (*Event, error)
	Get(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, filter ListFilter) ([]Event, error)
	Delete(ctx context.Context, id int64) error
}

type eventService struct {
	repo EventRepository
	now  func() time.Time
}

// NewEventService creates a new event service.
func NewEventService(repo EventRepository) EventService {
	return &eventService{repo: repo, now: time.Now}
}

// Create stores the event with whichever of the requested categories exist
// and returns it fully resolved.
func (s *eventService) Create(ctx context.Context, input EventCreate) (*Event, error) {
	date, err := timestamp.Parse(input.Date)
	if err != nil {
		return nil, apperror.NewFieldError("Input should be a valid datetime", "datetime_parsing", "body", "date")
	}

	importance := DefaultImportance
	if input.Importance != nil {
		importance = *input.Importance
	}

	now := timestamp.Storage(s.now())
	event := &Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        timestamp.Storage(date),
		Location:    input.Location,
		Importance:  importance,
		MediaURL:    input.MediaURL,
		EpochID:     input.EpochID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, event, dedupe(input.CategoryIDs)); err != nil {
		return nil, apperror.Wrap(err)
	}

	created, err := s.repo.FindByID(ctx, event.ID)
	if err != nil {
		return nil, apperror.Wrap(err)
	}
	return created, nil
}

// Get returns a single resolved event.
func (s *eventService) Get(ctx context.Context, id int64) (*Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err)
	}
	return event, nil
}

// List returns one page of events matching filter. Date bounds are
// normalized the same way stored dates are.
func (s *eventService) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	if filter.StartDate != nil {
		t := timestamp.Storage(*filter.StartDate)
		filter.StartDate = &t
	}
	if filter.EndDate != nil {
		t := timestamp.Storage(*filter.EndDate)
		filter.EndDate = &t
	}

	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Wrap(err)
	}
	return events, nil
}

// Delete removes an event and its category links.
func (s *eventService) Delete(ctx context.Context, id int64) error {
	return apperror.Wrap(s.repo.Delete(ctx, id))
}

// dedupe drops repeated ids, keeping first-seen order.
func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
