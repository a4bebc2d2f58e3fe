package services

import (
	"context"
	"errors"
	"testing"

	"taskboard/app/logging"
	"taskboard/app/models"
	"taskboard/app/store"
)

// --- fakes ---

type fakeRepo struct {
	loadFn func() ([]models.Task, error)
	saveFn func([]models.Task) error
	saved  [][]models.Task
}

func (r *fakeRepo) Load(ctx context.Context) ([]models.Task, error) {
	if r.loadFn == nil {
		return nil, nil
	}
	return r.loadFn()
}

func (r *fakeRepo) Save(ctx context.Context, tasks []models.Task) error {
	r.saved = append(r.saved, tasks)
	if r.saveFn == nil {
		return nil
	}
	return r.saveFn(tasks)
}

func newService(t *testing.T, repo *fakeRepo, capacity int) *TaskService {
	t.Helper()
	return NewTaskService(context.Background(), store.New(capacity), repo, logging.Discard())
}

// --- tests ---

func TestNewTaskService_LoadsStore(t *testing.T) {
	repo := &fakeRepo{loadFn: func() ([]models.Task, error) {
		return []models.Task{{ID: "a", Title: "A"}, {ID: "b", Title: "B", Status: 5}}, nil
	}}

	svc := newService(t, repo, 0)

	tasks := svc.GetTasks(context.Background())
	if len(tasks) != 2 || tasks[1].Status != models.StatusDone {
		t.Fatalf("GetTasks()=%+v, want 2 tasks with b clamped to DONE", tasks)
	}
}

func TestNewTaskService_LoadFailureStartsEmpty(t *testing.T) {
	repo := &fakeRepo{loadFn: func() ([]models.Task, error) {
		return nil, errors.New("disk gone")
	}}

	svc := newService(t, repo, 0)

	if got := svc.GetTasks(context.Background()); len(got) != 0 {
		t.Fatalf("GetTasks() len=%d, want 0", len(got))
	}
}

func TestCreateTask_BlankTitle(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(t, repo, 0)

	_, err := svc.CreateTask(context.Background(), "   ", "desc")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("CreateTask() err=%v, want %v", err, ErrValidation)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("Save() called %d times, want 0", len(repo.saved))
	}
}

func TestCreateTask_Persists(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(t, repo, 0)

	task, err := svc.CreateTask(context.Background(), "Write docs", "")
	if err != nil {
		t.Fatalf("CreateTask() err=%v, want nil", err)
	}
	if task.Status != models.StatusTodo {
		t.Fatalf("status=%s, want TODO", task.Status)
	}
	if len(repo.saved) != 1 || len(repo.saved[0]) != 1 || repo.saved[0][0].ID != task.ID {
		t.Fatalf("saved=%+v, want one snapshot with the new task", repo.saved)
	}
}

func TestCreateTask_SaveFailureKeepsTask(t *testing.T) {
	repo := &fakeRepo{saveFn: func([]models.Task) error { return errors.New("read-only fs") }}
	svc := newService(t, repo, 0)

	task, err := svc.CreateTask(context.Background(), "t", "")
	if err != nil {
		t.Fatalf("CreateTask() err=%v, want nil", err)
	}
	if _, err := svc.GetTaskByID(context.Background(), task.ID); err != nil {
		t.Fatalf("GetTaskByID() err=%v, want nil", err)
	}
}

func TestCreateTask_CapacityExceeded(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(t, repo, 1)

	if _, err := svc.CreateTask(context.Background(), "one", ""); err != nil {
		t.Fatalf("first CreateTask() err=%v, want nil", err)
	}
	_, err := svc.CreateTask(context.Background(), "two", "")
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("second CreateTask() err=%v, want %v", err, ErrCapacityExceeded)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("Save() called %d times, want 1", len(repo.saved))
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(t, repo, 0)
	task, _ := svc.CreateTask(context.Background(), "t", "")

	tests := []struct {
		raw  string
		want models.Status
	}{
		{"2", models.StatusDone},
		{" 1 ", models.StatusDoing},
		{"-5", models.StatusTodo},
		{"99", models.StatusDone},
		{"abc", models.StatusTodo},
	}

	for _, tt := range tests {
		got, err := svc.UpdateStatus(context.Background(), task.ID, tt.raw)
		if err != nil {
			t.Fatalf("UpdateStatus(%q) err=%v, want nil", tt.raw, err)
		}
		if got.Status != tt.want {
			t.Fatalf("UpdateStatus(%q) status=%s, want %s", tt.raw, got.Status, tt.want)
		}
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := newService(t, &fakeRepo{}, 0)

	_, err := svc.UpdateStatus(context.Background(), "missing", "1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateStatus() err=%v, want %v", err, ErrNotFound)
	}
}

func TestDeleteTask(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(t, repo, 0)
	task, _ := svc.CreateTask(context.Background(), "t", "")

	if err := svc.DeleteTask(context.Background(), task.ID); err != nil {
		t.Fatalf("DeleteTask() err=%v, want nil", err)
	}
	if err := svc.DeleteTask(context.Background(), task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteTask() err=%v, want %v", err, ErrNotFound)
	}
	last := repo.saved[len(repo.saved)-1]
	if len(last) != 0 {
		t.Fatalf("last snapshot=%+v, want empty", last)
	}
}
