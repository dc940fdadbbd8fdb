package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: users must be created BEFORE scenarios due to the foreign key
// constraint.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scenarios (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    category TEXT NOT NULL,
    currency TEXT NOT NULL,
    input TEXT NOT NULL,
    date INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS scenario_participants (
    scenario_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (scenario_id, name),
    FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS scenario_excluded (
    scenario_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (scenario_id, name),
    FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    scenario_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    payer TEXT NOT NULL,
    amount REAL NOT NULL,
    description TEXT NOT NULL,
    PRIMARY KEY (scenario_id, position),
    FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS balances (
    scenario_id TEXT NOT NULL,
    name TEXT NOT NULL,
    balance REAL NOT NULL,
    PRIMARY KEY (scenario_id, name),
    FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settlements (
    scenario_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    from_name TEXT NOT NULL,
    to_name TEXT NOT NULL,
    amount REAL NOT NULL,
    PRIMARY KEY (scenario_id, position),
    FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_scenarios_user_id ON scenarios(user_id);
CREATE INDEX IF NOT EXISTS idx_scenarios_date ON scenarios(date);
CREATE INDEX IF NOT EXISTS idx_expenses_scenario_id ON expenses(scenario_id);
CREATE INDEX IF NOT EXISTS idx_balances_scenario_id ON balances(scenario_id);
CREATE INDEX IF NOT EXISTS idx_settlements_scenario_id ON settlements(scenario_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
