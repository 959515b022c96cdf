package sqlite

// Amounts are stored as decimal strings and timestamps as fixed-width UTC strings.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS clients (
    id              TEXT PRIMARY KEY,
    client_name     TEXT NOT NULL,
    phone_number    TEXT,
    created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
    id                          TEXT PRIMARY KEY,
    client_id                   TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    goal_type                   TEXT NOT NULL,
    goal_amount                 TEXT NOT NULL,
    initial_amount              TEXT NOT NULL,
    current_amount              TEXT NOT NULL,
    monthly_contribution        TEXT NOT NULL,
    withdrawal_period_months    INTEGER NOT NULL DEFAULT 0 CHECK (withdrawal_period_months BETWEEN 0 AND 1200),
    expected_return_rate        TEXT NOT NULL,
    created_at                  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goal_history (
    id                  TEXT PRIMARY KEY,
    goal_id             TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
    goal_amount         TEXT NOT NULL,
    current_amount      TEXT NOT NULL,
    last_message_sent   TEXT,
    created_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_goals_client ON goals(client_id);
CREATE INDEX IF NOT EXISTS idx_goal_history_goal_created ON goal_history(goal_id, created_at);
`
