package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/keyxmakerx/chronospace/internal/apperror"
	"github.com/keyxmakerx/chronospace/internal/database"
	"github.com/keyxmakerx/chronospace/internal/plugins/categories"
)

// MsgNotFound is returned for unknown event ids.
const MsgNotFound = "Event not found"

// EventRepository defines the data access contract for events.
type EventRepository interface {
	// Create writes the event and its links to the given categories in one
	// transaction. Category ids that do not exist are skipped.
	Create(ctx context.Context, event *Event, categoryIDs []int64) error
	FindByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, filter ListFilter) ([]Event, error)
	Delete(ctx context.Context, id int64) error
}

type eventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a repository backed by the given pool.
func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

// selectEvents reads events with their epoch joined in. Epoch columns are
// aliased "epoch.<col>" so sqlx fills the nested Epoch struct.
const selectEvents = `SELECT e.id AS id, e.title AS title, e.description AS description,
       e.date AS date, e.location AS location, e.importance AS importance,
       e.media_url AS media_url, e.epoch_id AS epoch_id,
       e.created_at AS created_at, e.updated_at AS updated_at,
       ep.id AS "epoch.id", ep.name AS "epoch.name", ep.description AS "epoch.description",
       ep.start_date AS "epoch.start_date", ep.end_date AS "epoch.end_date",
       ep.color AS "epoch.color", ep.created_at AS "epoch.created_at"
  FROM events e
 INNER JOIN epochs ep ON ep.id = e.epoch_id`

// selectLinks reads the categories of a batch of events.
const selectLinks = `SELECT ec.event_id AS event_id,
       c.id AS id, c.name AS name, c.description AS description,
       c.color AS color, c.icon AS icon, c.created_at AS created_at
  FROM event_category ec
 INNER JOIN categories c ON c.id = ec.category_id
 WHERE ec.event_id IN (?)
 ORDER BY ec.event_id, c.id`

// categoryLink is one row of selectLinks.
type categoryLink struct {
	EventID int64 `db:"event_id"`
	categories.Category
}

// Create inserts the event row and its category links atomically.
func (r *eventRepository) Create(ctx context.Context, event *Event, categoryIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning event transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := existingCategoryIDs(ctx, tx, categoryIDs)
	if err != nil {
		return err
	}

	query := `INSERT INTO events (title, description, date, location, importance, media_url, epoch_id, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, query,
		event.Title, event.Description, event.Date, event.Location, event.Importance,
		event.MediaURL, event.EpochID, event.CreatedAt, event.UpdatedAt,
	)
	if database.IsForeignKeyViolation(err) {
		return apperror.NewFieldError("Epoch not found", "value_error", "body", "epoch_id")
	}
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading event id: %w", err)
	}

	for _, categoryID := range existing {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_category (event_id, category_id) VALUES (?, ?)`, id, categoryID,
		); err != nil {
			return fmt.Errorf("linking event to category %d: %w", categoryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing event: %w", err)
	}
	event.ID = id
	return nil
}

// existingCategoryIDs filters ids down to those present in categories.
func existingCategoryIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id FROM categories WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("building category lookup: %w", err)
	}
	var existing []int64
	if err := tx.SelectContext(ctx, &existing, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("resolving category ids: %w", err)
	}
	return existing, nil
}

// FindByID retrieves one event with its epoch and categories.
func (r *eventRepository) FindByID(ctx context.Context, id int64) (*Event, error) {
	var event Event
	err := r.db.GetContext(ctx, &event, selectEvents+` WHERE e.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound(MsgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying event by id: %w", err)
	}

	page := []Event{event}
	if err := r.attachCategories(ctx, page); err != nil {
		return nil, err
	}
	return &page[0], nil
}

// List returns one page of events matching filter, in insertion order.
func (r *eventRepository) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(selectEvents)

	if filter.CategoryID != nil {
		b.WriteString(` INNER JOIN event_category fc ON fc.event_id = e.id AND fc.category_id = ?`)
		args = append(args, *filter.CategoryID)
	}

	var where []string
	if filter.EpochID != nil {
		where = append(where, `e.epoch_id = ?`)
		args = append(args, *filter.EpochID)
	}
	if filter.StartDate != nil {
		where = append(where, `e.date >= ?`)
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		where = append(where, `e.date <= ?`)
		args = append(args, *filter.EndDate)
	}
	if len(where) > 0 {
		b.WriteString(` WHERE ` + strings.Join(where, ` AND `))
	}

	b.WriteString(` ORDER BY e.id LIMIT ? OFFSET ?`)
	args = append(args, filter.Limit, filter.Skip)

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, b.String(), args...); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	if err := r.attachCategories(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// attachCategories loads the categories for every event in one query and
// fills Categories and CategoryIDs in place.
func (r *eventRepository) attachCategories(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, len(events))
	byID := make(map[int64]*Event, len(events))
	for i := range events {
		ev := &events[i]
		ev.Categories = []categories.Category{}
		ev.CategoryIDs = []int64{}
		ids[i] = ev.ID
		byID[ev.ID] = ev
	}

	query, args, err := sqlx.In(selectLinks, ids)
	if err != nil {
		return fmt.Errorf("building category batch: %w", err)
	}
	var links []categoryLink
	if err := r.db.SelectContext(ctx, &links, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("loading event categories: %w", err)
	}

	for _, link := range links {
		ev := byID[link.EventID]
		ev.Categories = append(ev.Categories, link.Category)
		ev.CategoryIDs = append(ev.CategoryIDs, link.ID)
	}
	return nil
}

// Delete removes an event. Its category links cascade.
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted event: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound(MsgNotFound)
	}
	return nil
}
