// Package store keeps the authoritative in-memory task collection.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"taskboard/app/models"
)

var (
	ErrNotFound         = errors.New("task not found")
	ErrCapacityExceeded = errors.New("task capacity exceeded")
)

// idLength is the length of generated task ids.
const idLength = 8

// Store is an ordered, capacity-bounded collection of tasks.
// It is not safe for concurrent use; callers serialize access.
type Store struct {
	tasks    []models.Task
	capacity int
	now      func() time.Time
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDSource overrides id generation.
func WithIDSource(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates an empty store. A non-positive capacity means models.MaxTasks.
func New(capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = models.MaxTasks
	}
	s := &Store{
		capacity: capacity,
		now:      time.Now,
		newID:    shortID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func shortID() string {
	return uuid.New().String()[:idLength]
}

// Len returns the number of live tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Cap returns the maximum number of live tasks.
func (s *Store) Cap() int { return s.capacity }

// Create appends a new TODO task.
func (s *Store) Create(title, description string) (models.Task, error) {
	if len(s.tasks) >= s.capacity {
		return models.Task{}, ErrCapacityExceeded
	}

	id := s.newID()
	for s.contains(id) {
		id = s.newID()
	}

	task := models.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      models.StatusTodo,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.tasks = append(s.tasks, task)
	return task, nil
}

// List returns a copy of all tasks in order.
func (s *Store) List() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Find returns the position of the task with the given id.
func (s *Store) Find(id string) (int, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (models.Task, bool) {
	i, ok := s.Find(id)
	if !ok {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// UpdateStatus sets the status of a task, clamping it into range.
func (s *Store) UpdateStatus(id string, status int) (models.Task, error) {
	i, ok := s.Find(id)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	s.tasks[i].Status = models.ClampStatus(status)
	return s.tasks[i], nil
}

// Delete removes a task, keeping the remaining tasks in order.
func (s *Store) Delete(id string) error {
	i, ok := s.Find(id)
	if !ok {
		return ErrNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// Replace installs tasks read from a backing store. Statuses are clamped,
// a repeated id keeps its first occurrence and anything past capacity is
// dropped. It returns the number of tasks installed.
func (s *Store) Replace(tasks []models.Task) int {
	s.tasks = make([]models.Task, 0, min(len(tasks), s.capacity))
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if len(s.tasks) >= s.capacity {
			break
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		t.Status = models.ClampStatus(int(t.Status))
		s.tasks = append(s.tasks, t)
	}
	return len(s.tasks)
}

func (s *Store) contains(id string) bool {
	_, ok := s.Find(id)
	return ok
}
