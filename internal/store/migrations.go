package store

import (
	"context"
	"database/sql"
	"strings"
)

// schema contains the DDL for all panel tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id        TEXT PRIMARY KEY,
		parent_id TEXT NOT NULL DEFAULT '',
		position  INTEGER NOT NULL DEFAULT 0,
		is_group  INTEGER NOT NULL DEFAULT 0,
		is_mapped INTEGER NOT NULL DEFAULT 0,
		tooltip   TEXT NOT NULL DEFAULT '',
		operator  TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS task_instances (
		task_id       TEXT NOT NULL,
		run_id        TEXT NOT NULL,
		state         TEXT NOT NULL DEFAULT 'no_status',
		start_date    TEXT,
		end_date      TEXT,
		mapped_states TEXT,
		PRIMARY KEY (task_id, run_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_parent_id ON tasks(parent_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_task_instances_run_id ON task_instances(run_id)`,
}

// alterStatements are column additions that need special handling since
// SQLite doesn't support IF NOT EXISTS for ALTER TABLE ADD COLUMN.
var alterStatements = []struct {
	table    string
	column   string
	alterSQL string
	indexSQL string // Optional index to create after column is added
}{
	{
		table:    "task_instances",
		column:   "updated_at",
		alterSQL: "ALTER TABLE task_instances ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''",
	},
}

// migrate executes all schema DDL statements, alter migrations, and post-migration indexes.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	for _, alter := range alterStatements {
		if err := addColumnIfNotExists(ctx, db, alter.table, alter.column, alter.alterSQL); err != nil {
			return err
		}
		if alter.indexSQL != "" {
			if _, err := db.ExecContext(ctx, alter.indexSQL); err != nil {
				return err
			}
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(ctx context.Context, db *sql.DB, table, column, alterSQL string) error {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return err
	}

	exists := false
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue *string
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			rows.Close()
			return err
		}
		if strings.EqualFold(name, column) {
			exists = true
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	// Release the connection before the ALTER; the pool holds a single one.
	rows.Close()
	if exists {
		return nil
	}

	_, err = db.ExecContext(ctx, alterSQL)
	return err
}
