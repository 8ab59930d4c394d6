package sqlite

import "github.com/jmoiron/sqlx"

// schema creates the todo table. It runs on startup and is idempotent.
// AUTOINCREMENT keeps ids of deleted todos from being handed out again.
const schema = `
CREATE TABLE IF NOT EXISTS todo (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL DEFAULT '',
    details TEXT NOT NULL DEFAULT '',
    done BOOLEAN NOT NULL DEFAULT 0
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
