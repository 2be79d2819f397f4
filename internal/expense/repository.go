package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles expense and share persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an expense and all of its shares in one transaction
func (r *Repository) Create(ctx context.Context, e *Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (id, group_id, payer_id, description, amount, split_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = tx.QueryRowContext(ctx, query,
		e.ID,
		e.GroupID,
		e.PayerID,
		e.Description,
		e.Amount,
		e.SplitType,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	shareQuery := `
		INSERT INTO expense_shares (expense_id, member_id, amount_owed, position)
		VALUES ($1, $2, $3, $4)
	`
	for i, s := range e.Shares {
		if _, err := tx.ExecContext(ctx, shareQuery, e.ID, s.MemberID, s.AmountOwed, i); err != nil {
			return fmt.Errorf("failed to create share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense: %w", err)
	}
	return nil
}

const selectExpense = `
	SELECT id, group_id, payer_id, description, amount, split_type, created_at
	FROM expenses
`

func scanExpense(row interface{ Scan(...any) error }) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.GroupID,
		&e.PayerID,
		&e.Description,
		&e.Amount,
		&e.SplitType,
		&e.CreatedAt,
	)
	return e, err
}

// GetByID retrieves an expense with its shares
func (r *Repository) GetByID(ctx context.Context, id string) (*Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, selectExpense+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := r.attachShares(ctx, []*Expense{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// ListByGroupID retrieves a page of a group's expenses, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	expenses, err := r.query(ctx, selectExpense+`
		WHERE group_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, groupID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// ListAllByGroupID retrieves every expense of a group with its shares
func (r *Repository) ListAllByGroupID(ctx context.Context, groupID string) ([]*Expense, error) {
	return r.query(ctx, selectExpense+`
		WHERE group_id = $1
		ORDER BY created_at, id
	`, groupID)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	if err := r.attachShares(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// attachShares loads the shares of all expenses with a single query
func (r *Repository) attachShares(ctx context.Context, expenses []*Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	ids := make([]string, len(expenses))
	byID := make(map[string]*Expense, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
		byID[e.ID] = e
	}

	query := `
		SELECT expense_id, member_id, amount_owed
		FROM expense_shares
		WHERE expense_id = ANY($1::uuid[])
		ORDER BY expense_id, position
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var s Share
		if err := rows.Scan(&expenseID, &s.MemberID, &s.AmountOwed); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		if e, ok := byID[expenseID]; ok {
			e.Shares = append(e.Shares, s)
		}
	}
	return rows.Err()
}

// Delete removes an expense; its shares cascade
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
