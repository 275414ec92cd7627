package store

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/me/taskpanel/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleTree() []*model.Task {
	start := time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC)
	return []*model.Task{
		{
			ID:      "etl",
			Tooltip: "Extract and load",
			Children: []*model.Task{
				{
					ID:       "etl.extract",
					Operator: "BashOperator",
					Instances: []*model.TaskInstance{
						{TaskID: "etl.extract", RunID: "r1", State: model.StateSuccess,
							StartDate: model.Some(start), EndDate: model.Some(start.Add(time.Minute))},
					},
				},
				{
					ID: "etl.load",
					Instances: []*model.TaskInstance{
						{TaskID: "etl.load", RunID: "r1"},
					},
				},
			},
			Instances: []*model.TaskInstance{
				{TaskID: "etl", RunID: "r1", State: model.StateRunning, StartDate: model.Some(start)},
			},
		},
		{
			ID:       "fanout",
			IsMapped: true,
			Instances: []*model.TaskInstance{
				{TaskID: "fanout", RunID: "r1", State: model.StateQueued,
					MappedStates: map[string]int{"success": 3, "": 2}},
			},
		},
		{ID: "empty_group", Children: []*model.Task{}},
	}
}

func seedSample(t *testing.T, st *SQLiteStore) {
	t.Helper()
	n, err := Seed(context.Background(), st, sampleTree())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 5 {
		t.Fatalf("seeded %d tasks, want 5", n)
	}
}

// --- Migration tests ---

func TestMigrate_Idempotent(t *testing.T) {
	st := testStore(t)
	// Migrate a second time; should not error.
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

// --- Task tests ---

func TestPing(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.Ping(ctx); err == nil {
		t.Error("Ping before Migrate: expected error")
	}
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := st.Ping(ctx); err != nil {
		t.Errorf("Ping on empty store: %v", err)
	}
	if _, err := Seed(ctx, st, sampleTree()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := st.Ping(ctx); err != nil {
		t.Errorf("Ping on seeded store: %v", err)
	}
}

func TestGetTask_Group(t *testing.T) {
	st := testStore(t)
	seedSample(t, st)

	got, err := st.GetTask(context.Background(), "etl")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("got nil task")
	}
	if !got.IsGroup() || len(got.Children) != 2 {
		t.Fatalf("children = %+v", got.Children)
	}
	if got.Children[0].ID != "etl.extract" || got.Children[1].ID != "etl.load" {
		t.Errorf("children order = %s, %s", got.Children[0].ID, got.Children[1].ID)
	}
	if got.Tooltip != "Extract and load" {
		t.Errorf("tooltip = %q", got.Tooltip)
	}

	extract := got.Children[0].InstanceFor("r1")
	if extract == nil || extract.State != model.StateSuccess {
		t.Fatalf("extract instance = %+v", extract)
	}
	end, ok := extract.EndDate.Get()
	if !ok || !end.Equal(time.Date(2022, 5, 1, 10, 1, 0, 0, time.UTC)) {
		t.Errorf("end date = %v, %v", end, ok)
	}

	load := got.Children[1].InstanceFor("r1")
	if load == nil || load.State != model.StateNone || load.StartDate.Present() {
		t.Errorf("load instance = %+v", load)
	}
}

func TestGetTask_Mapped(t *testing.T) {
	st := testStore(t)
	seedSample(t, st)

	got, err := st.GetTask(context.Background(), "fanout")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsMapped || got.IsGroup() {
		t.Errorf("flags: mapped=%v group=%v", got.IsMapped, got.IsGroup())
	}
	ti := got.InstanceFor("r1")
	want := map[string]int{"success": 3, "": 2}
	if !reflect.DeepEqual(ti.MappedStates, want) {
		t.Errorf("mapped states = %v, want %v", ti.MappedStates, want)
	}
}

func TestGetTask_EmptyGroupStaysGroup(t *testing.T) {
	st := testStore(t)
	seedSample(t, st)

	got, err := st.GetTask(context.Background(), "empty_group")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsGroup() || len(got.Children) != 0 {
		t.Errorf("empty group = %+v", got)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	st := testStore(t)
	got, err := st.GetTask(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestPutTask_ReplacesInstances(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	task := &model.Task{
		ID:        "t",
		Instances: []*model.TaskInstance{{TaskID: "t", RunID: "r1", State: model.StateQueued}},
	}
	if err := st.PutTask(ctx, task, "", 0); err != nil {
		t.Fatalf("put: %v", err)
	}
	task.Operator = "BashOperator"
	task.Instances = []*model.TaskInstance{{TaskID: "t", RunID: "r2", State: model.StateRunning}}
	if err := st.PutTask(ctx, task, "", 0); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := st.GetTask(ctx, "t")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Operator != "BashOperator" {
		t.Errorf("operator = %q", got.Operator)
	}
	if len(got.Instances) != 1 || got.Instances[0].RunID != "r2" {
		t.Errorf("instances = %+v", got.Instances)
	}
}

func TestListTasks(t *testing.T) {
	st := testStore(t)
	seedSample(t, st)

	tasks, err := st.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	want := []string{"etl", "fanout", "empty_group"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if len(tasks[0].Children) != 2 {
		t.Errorf("root group children not loaded: %+v", tasks[0].Children)
	}
}
