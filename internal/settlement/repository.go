package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const settlementColumns = `id, group_id, from_member_id, to_member_id, amount, note, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row scanner) (*Settlement, error) {
	s := &Settlement{}
	if err := row.Scan(
		&s.ID,
		&s.GroupID,
		&s.FromMemberID,
		&s.ToMemberID,
		&s.Amount,
		&s.Note,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new settlement
func (r *Repository) Create(ctx context.Context, s *Settlement) error {
	query := `
		INSERT INTO settlements (id, group_id, from_member_id, to_member_id, amount, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.ID,
		s.GroupID,
		s.FromMemberID,
		s.ToMemberID,
		s.Amount,
		s.Note,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create settlement: %w", err)
	}
	return nil
}

// GetByID retrieves a settlement by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE id = $1`

	s, err := scanSettlement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return s, nil
}

// ListByGroupID retrieves a page of a group's settlements, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Settlement, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM settlements WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `SELECT ` + settlementColumns + ` FROM settlements
		WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	settlements, err := r.query(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return settlements, total, nil
}

// ListAllByGroupID retrieves every settlement of a group in recording order
func (r *Repository) ListAllByGroupID(ctx context.Context, groupID string) ([]*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements
		WHERE group_id = $1
		ORDER BY created_at ASC`
	return r.query(ctx, query, groupID)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*Settlement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// Delete removes a settlement. It reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM settlements WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete settlement: %w", err)
	}
	return n > 0, nil
}
