package epochs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/keyxmakerx/chronospace/internal/apperror"
	"github.com/keyxmakerx/chronospace/internal/database"
)

// EpochRepository defines the data access contract for epochs.
type EpochRepository interface {
	Create(ctx context.Context, epoch *Epoch) error
	FindByID(ctx context.Context, id int64) (*Epoch, error)
	NameExists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, skip, limit int) ([]Epoch, error)
	Delete(ctx context.Context, id int64) error
}

type epochRepository struct {
	db *sqlx.DB
}

// NewEpochRepository creates a repository backed by the given pool.
func NewEpochRepository(db *sqlx.DB) EpochRepository {
	return &epochRepository{db: db}
}

// Create inserts the epoch and sets its generated ID. A duplicate name
// that slipped past the service pre-check surfaces as a conflict.
func (r *epochRepository) Create(ctx context.Context, epoch *Epoch) error {
	query := `INSERT INTO epochs (name, description, start_date, end_date, color, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		epoch.Name, epoch.Description, epoch.StartDate, epoch.EndDate, epoch.Color, epoch.CreatedAt,
	)
	if database.IsUniqueViolation(err) {
		return apperror.NewConflict(MsgDuplicateName)
	}
	if err != nil {
		return fmt.Errorf("inserting epoch: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading epoch id: %w", err)
	}
	epoch.ID = id
	return nil
}

// FindByID retrieves an epoch by primary key.
func (r *epochRepository) FindByID(ctx context.Context, id int64) (*Epoch, error) {
	var e Epoch
	err := r.db.GetContext(ctx, &e, `SELECT `+Columns+` FROM epochs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound(MsgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying epoch by id: %w", err)
	}
	return &e, nil
}

// NameExists reports whether an epoch with exactly this name exists.
func (r *epochRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM epochs WHERE name = ?)`, name)
	if err != nil {
		return false, fmt.Errorf("checking epoch name: %w", err)
	}
	return exists, nil
}

// List returns one page of epochs in insertion order.
func (r *epochRepository) List(ctx context.Context, skip, limit int) ([]Epoch, error) {
	epochs := []Epoch{}
	query := `SELECT ` + Columns + ` FROM epochs ORDER BY id LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &epochs, query, limit, skip); err != nil {
		return nil, fmt.Errorf("listing epochs: %w", err)
	}
	return epochs, nil
}

// Delete removes an epoch. Events reference epochs with ON DELETE RESTRICT,
// so an epoch that still has events yields a conflict.
func (r *epochRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM epochs WHERE id = ?`, id)
	if database.IsForeignKeyViolation(err) {
		return apperror.NewConflict(MsgHasEvents)
	}
	if err != nil {
		return fmt.Errorf("deleting epoch: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted epoch: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound(MsgNotFound)
	}
	return nil
}
