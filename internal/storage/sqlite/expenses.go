package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateExpense persists an expense and its shares in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, paid_by, split_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount.String(), expense.PaidBy,
		string(expense.Policy), toMillis(expense.CreatedAt),
	)
	if err != nil {
		return wrapInsert("expense", err)
	}

	for i, share := range expense.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, position, participant, amount) VALUES (?, ?, ?, ?)",
			expense.ID, i, share.Participant, share.Amount.String(),
		)
		if err != nil {
			return wrapInsert("expense share", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListExpenses retrieves all expenses ordered by ID, including their shares.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, paid_by, split_type, created_at FROM expenses ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[int64]int)
	for rows.Next() {
		var (
			e         models.Expense
			policy    string
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.PaidBy, &policy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Policy = models.SplitPolicy(policy)
		e.CreatedAt = fromMillis(createdAt)
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	shareRows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, participant, amount FROM expense_shares ORDER BY expense_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var (
			expenseID int64
			share     models.Share
		)
		if err := shareRows.Scan(&expenseID, &share.Participant, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		i, ok := index[expenseID]
		if !ok {
			continue
		}
		expenses[i].Shares = append(expenses[i].Shares, share)
		expenses[i].Participants = append(expenses[i].Participants, share.Participant)
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	return expenses, nil
}
