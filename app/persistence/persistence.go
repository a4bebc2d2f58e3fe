// Package persistence mirrors the task store to a durable backend.
package persistence

import (
	"context"
	"strconv"
	"strings"
	"time"

	"taskboard/app/models"
)

// Repository loads and fully rewrites the persisted task list.
type Repository interface {
	Load(ctx context.Context) ([]models.Task, error)
	Save(ctx context.Context, tasks []models.Task) error
}

// LoadStats describes what a load accepted and what it dropped.
type LoadStats struct {
	Accepted     int
	Malformed    int
	OverCapacity int
}

func parseStatus(s string) models.Status {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return models.StatusTodo
	}
	return models.ClampStatus(n)
}

func parseCreatedAt(s string, now func() time.Time) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return now().UnixMilli()
	}
	return n
}
