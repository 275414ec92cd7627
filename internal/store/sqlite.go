package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/taskpanel/internal/logging"
	"github.com/me/taskpanel/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// One connection: an in-memory database exists per connection, and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logging.Component(logger, "store"),
		now:    time.Now,
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the connection and that the tasks table exists.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tasks LIMIT 1`).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("ping tasks: %w", err)
	}
	return nil
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Task writes ---

func (s *SQLiteStore) PutTask(ctx context.Context, task *model.Task, parentID string, position int) error {
	s.logger.Debug("sql", "op", "upsert", "table", "tasks", "id", task.ID, "parent_id", parentID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tasks (id, parent_id, position, is_group, is_mapped, tooltip, operator)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   parent_id = excluded.parent_id, position = excluded.position,
		   is_group = excluded.is_group, is_mapped = excluded.is_mapped,
		   tooltip = excluded.tooltip, operator = excluded.operator`,
		task.ID, parentID, position, boolInt(task.IsGroup()), boolInt(task.IsMapped), task.Tooltip, task.Operator,
	)
	if err != nil {
		return fmt.Errorf("upsert task %s: %w", task.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_instances WHERE task_id = ?`, task.ID); err != nil {
		return fmt.Errorf("clear instances of %s: %w", task.ID, err)
	}

	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	for _, ti := range task.Instances {
		var mapped *string
		if ti.MappedStates != nil {
			b, err := json.Marshal(ti.MappedStates)
			if err != nil {
				return fmt.Errorf("marshal mapped states: %w", err)
			}
			m := string(b)
			mapped = &m
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO task_instances (task_id, run_id, state, start_date, end_date, mapped_states, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			task.ID, ti.RunID, ti.State.String(),
			timeColumn(ti.StartDate), timeColumn(ti.EndDate), mapped, updatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert instance %s/%s: %w", task.ID, ti.RunID, err)
		}
	}

	return tx.Commit()
}

// --- Task reads ---

func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	s.logger.Debug("sql", "op", "select", "table", "tasks", "id", id)

	var task model.Task
	var isGroup, isMapped int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, is_group, is_mapped, tooltip, operator FROM tasks WHERE id = ?`, id,
	).Scan(&task.ID, &isGroup, &isMapped, &task.Tooltip, &task.Operator)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	task.IsMapped = isMapped != 0

	if task.Instances, err = s.listInstances(ctx, task.ID); err != nil {
		return nil, err
	}

	if isGroup != 0 {
		childIDs, err := s.childIDs(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		task.Children = make([]*model.Task, 0, len(childIDs))
		for _, cid := range childIDs {
			child, err := s.GetTask(ctx, cid)
			if err != nil {
				return nil, err
			}
			if child != nil {
				task.Children = append(task.Children, child)
			}
		}
	}
	return &task, nil
}

func (s *SQLiteStore) ListTasks(ctx context.Context) ([]*model.Task, error) {
	s.logger.Debug("sql", "op", "list", "table", "tasks")

	ids, err := s.childIDs(ctx, "")
	if err != nil {
		return nil, err
	}
	tasks := make([]*model.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if t != nil {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// childIDs reads all ids before returning so the single connection is free
// for the caller's next query.
func (s *SQLiteStore) childIDs(ctx context.Context, parentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM tasks WHERE parent_id = ? ORDER BY position, id`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) listInstances(ctx context.Context, taskID string) ([]*model.TaskInstance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, run_id, state, start_date, end_date, mapped_states
		 FROM task_instances WHERE task_id = ? ORDER BY run_id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []*model.TaskInstance
	for rows.Next() {
		ti, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, ti)
	}
	return instances, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInstance(row scanner) (*model.TaskInstance, error) {
	var ti model.TaskInstance
	var state string
	var startDate, endDate, mapped *string

	if err := row.Scan(&ti.TaskID, &ti.RunID, &state, &startDate, &endDate, &mapped); err != nil {
		return nil, err
	}

	var err error
	if ti.State, err = model.ParseTaskState(state); err != nil {
		return nil, fmt.Errorf("instance %s/%s: %w", ti.TaskID, ti.RunID, err)
	}
	if ti.StartDate, err = parseTimeColumn(startDate); err != nil {
		return nil, fmt.Errorf("instance %s/%s start_date: %w", ti.TaskID, ti.RunID, err)
	}
	if ti.EndDate, err = parseTimeColumn(endDate); err != nil {
		return nil, fmt.Errorf("instance %s/%s end_date: %w", ti.TaskID, ti.RunID, err)
	}
	if mapped != nil {
		if err := json.Unmarshal([]byte(*mapped), &ti.MappedStates); err != nil {
			return nil, fmt.Errorf("unmarshal mapped states: %w", err)
		}
	}
	return &ti, nil
}

func timeColumn(o model.OptionalTime) *string {
	t, ok := o.Get()
	if !ok {
		return nil
	}
	v := t.UTC().Format(time.RFC3339Nano)
	return &v
}

func parseTimeColumn(v *string) (model.OptionalTime, error) {
	if v == nil {
		return model.None(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, *v)
	if err != nil {
		return model.None(), err
	}
	return model.Some(t), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
