package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"taskboard/app/models"
	"taskboard/app/persistence"
	"taskboard/app/store"
)

// TaskService handles task-related operations.
// One lock covers every read-modify-persist sequence.
type TaskService struct {
	mu     sync.RWMutex
	store  *store.Store
	repo   persistence.Repository
	logger *log.Logger
}

// NewTaskService creates a TaskService and fills the store from repo.
// A load failure is logged and leaves the store empty.
func NewTaskService(ctx context.Context, st *store.Store, repo persistence.Repository, logger *log.Logger) *TaskService {
	s := &TaskService{store: st, repo: repo, logger: logger}

	tasks, err := repo.Load(ctx)
	if err != nil {
		logger.Warn("failed to load tasks", "err", err)
	}
	n := st.Replace(tasks)
	logger.Info("tasks loaded", "count", n, "capacity", st.Cap())

	return s
}

// GetTasks returns all tasks in board order.
func (s *TaskService) GetTasks(ctx context.Context) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.List()
}

// GetTaskByID returns a single task.
func (s *TaskService) GetTaskByID(ctx context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.store.Get(id)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return task, nil
}

// CreateTask adds a new task. The title must not be blank.
func (s *TaskService) CreateTask(ctx context.Context, title, description string) (models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.Create(title, description)
	if err != nil {
		return models.Task{}, err
	}
	s.persist(ctx)
	return task, nil
}

// UpdateStatus parses raw as an integer status (invalid text counts as 0)
// and applies it, clamped, to the task.
func (s *TaskService) UpdateStatus(ctx context.Context, id, raw string) (models.Task, error) {
	status, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		status = int(models.StatusTodo)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.UpdateStatus(id, status)
	if err != nil {
		return models.Task{}, err
	}
	s.persist(ctx)
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

// persist rewrites the backing store. The in-memory state stays
// authoritative when the write fails. Callers hold s.mu.
func (s *TaskService) persist(ctx context.Context) {
	// The mutation already happened; a client hanging up must not skip the write.
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.Save(ctx, s.store.List()); err != nil {
		s.logger.Warn("failed to persist tasks", "err", err)
	}
}
