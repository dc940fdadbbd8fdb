package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jsreddy/splitscenario/internal/models"
	"github.com/jsreddy/splitscenario/internal/storage"
)

// CreateScenario persists a scenario and all its child rows in one
// transaction.
func (s *SQLiteStore) CreateScenario(ctx context.Context, scenario *models.Scenario) error {
	if scenario.ID == "" {
		scenario.ID = uuid.New().String()
	}
	if scenario.CreatedAt == 0 {
		scenario.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO scenarios (id, user_id, category, currency, input, date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		scenario.ID, scenario.UserID, scenario.Category, scenario.Currency,
		scenario.Input, scenario.Date, scenario.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scenario: %w", err)
	}

	for _, name := range scenario.Participants {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO scenario_participants (scenario_id, name) VALUES (?, ?)",
			scenario.ID, name,
		); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for _, name := range scenario.Excluded {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO scenario_excluded (scenario_id, name) VALUES (?, ?)",
			scenario.ID, name,
		); err != nil {
			return fmt.Errorf("failed to insert excluded name: %w", err)
		}
	}

	for i, exp := range scenario.Expenses {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO expenses (scenario_id, position, payer, amount, description) VALUES (?, ?, ?, ?, ?)",
			scenario.ID, i, exp.Payer, exp.Amount, exp.Description,
		); err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
	}

	for _, b := range scenario.Balances {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO balances (scenario_id, name, balance) VALUES (?, ?, ?)",
			scenario.ID, b.Name, b.Balance,
		); err != nil {
			return fmt.Errorf("failed to insert balance: %w", err)
		}
	}

	for i, st := range scenario.Settlements {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO settlements (scenario_id, position, from_name, to_name, amount) VALUES (?, ?, ?, ?, ?)",
			scenario.ID, i, st.From, st.To, st.Amount,
		); err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListScenariosByUser retrieves all of a user's scenarios, newest scenario
// date first.
func (s *SQLiteStore) ListScenariosByUser(ctx context.Context, userID string) ([]*models.Scenario, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, category, currency, input, date, created_at FROM scenarios WHERE user_id = ? ORDER BY date DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []*models.Scenario
	for rows.Next() {
		sc := &models.Scenario{}
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.Category, &sc.Currency, &sc.Input, &sc.Date, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenarios: %w", err)
	}

	for _, sc := range scenarios {
		if err := s.loadScenarioChildren(ctx, sc); err != nil {
			return nil, err
		}
	}
	return scenarios, nil
}

// loadScenarioChildren fills in the participant, exclusion, expense, balance
// and settlement rows for one scenario.
func (s *SQLiteStore) loadScenarioChildren(ctx context.Context, sc *models.Scenario) error {
	var err error
	sc.Participants, err = s.queryNames(ctx,
		"SELECT name FROM scenario_participants WHERE scenario_id = ? ORDER BY name", sc.ID)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}

	sc.Excluded, err = s.queryNames(ctx,
		"SELECT name FROM scenario_excluded WHERE scenario_id = ? ORDER BY name", sc.ID)
	if err != nil {
		return fmt.Errorf("failed to get excluded names: %w", err)
	}

	expRows, err := s.db.QueryContext(ctx,
		"SELECT payer, amount, description FROM expenses WHERE scenario_id = ? ORDER BY position", sc.ID)
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	defer expRows.Close()
	for expRows.Next() {
		var exp models.Expense
		if err := expRows.Scan(&exp.Payer, &exp.Amount, &exp.Description); err != nil {
			return fmt.Errorf("failed to scan expense: %w", err)
		}
		sc.Expenses = append(sc.Expenses, exp)
	}
	if err := expRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expenses: %w", err)
	}

	balRows, err := s.db.QueryContext(ctx,
		"SELECT name, balance FROM balances WHERE scenario_id = ? ORDER BY name", sc.ID)
	if err != nil {
		return fmt.Errorf("failed to get balances: %w", err)
	}
	defer balRows.Close()
	for balRows.Next() {
		var b models.Balance
		if err := balRows.Scan(&b.Name, &b.Balance); err != nil {
			return fmt.Errorf("failed to scan balance: %w", err)
		}
		sc.Balances = append(sc.Balances, b)
	}
	if err := balRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate balances: %w", err)
	}

	setRows, err := s.db.QueryContext(ctx,
		"SELECT from_name, to_name, amount FROM settlements WHERE scenario_id = ? ORDER BY position", sc.ID)
	if err != nil {
		return fmt.Errorf("failed to get settlements: %w", err)
	}
	defer setRows.Close()
	for setRows.Next() {
		var st models.Settlement
		if err := setRows.Scan(&st.From, &st.To, &st.Amount); err != nil {
			return fmt.Errorf("failed to scan settlement: %w", err)
		}
		sc.Settlements = append(sc.Settlements, st)
	}
	return setRows.Err()
}

// queryNames runs a single-column name query.
func (s *SQLiteStore) queryNames(ctx context.Context, query, scenarioID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, scenarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteScenario removes a scenario and its child rows, scoped to the owner.
func (s *SQLiteStore) DeleteScenario(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM scenarios WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
