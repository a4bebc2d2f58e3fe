package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"taskboard/app/models"
)

// Neo4jRepository mirrors the task list as :Task nodes. Every save replaces
// the whole set inside one write transaction.
type Neo4jRepository struct {
	driver   neo4j.DriverWithContext
	database string
	limit    int
	now      func() time.Time
}

// NewNeo4jRepository creates a repository backed by driver.
func NewNeo4jRepository(driver neo4j.DriverWithContext, database string, limit int) *Neo4jRepository {
	if limit <= 0 {
		limit = models.MaxTasks
	}
	return &Neo4jRepository{
		driver:   driver,
		database: database,
		limit:    limit,
		now:      time.Now,
	}
}

func (r *Neo4jRepository) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: r.database})
}

// Load retrieves all tasks ordered by their saved position.
func (r *Neo4jRepository) Load(ctx context.Context) ([]models.Task, error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task) "+
				"RETURN t.id AS id, t.title AS title, t.description AS description, "+
				"t.status AS status, t.created_at AS created_at "+
				"ORDER BY t.position LIMIT $limit",
			map[string]any{"limit": r.limit},
		)
		if err != nil {
			return nil, err
		}

		var tasks []models.Task
		for res.Next(ctx) {
			tasks = append(tasks, r.taskFromValues(res.Record().AsMap()))
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load tasks from neo4j: %w", err)
	}

	tasks, _ := result.([]models.Task)
	return tasks, nil
}

// Save replaces every :Task node with the given list.
func (r *Neo4jRepository) Save(ctx context.Context, tasks []models.Task) error {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, "MATCH (t:Task) DETACH DELETE t", nil); err != nil {
			return nil, err
		}
		if len(tasks) == 0 {
			return nil, nil
		}
		_, err := tx.Run(ctx,
			"UNWIND $tasks AS row "+
				"CREATE (:Task {id: row.id, title: row.title, description: row.description, "+
				"status: row.status, created_at: row.created_at, position: row.position})",
			map[string]any{"tasks": taskParams(tasks)},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("save tasks to neo4j: %w", err)
	}
	return nil
}

func taskParams(tasks []models.Task) []map[string]any {
	rows := make([]map[string]any, len(tasks))
	for i, t := range tasks {
		rows[i] = map[string]any{
			"id":          t.ID,
			"title":       t.Title,
			"description": t.Description,
			"status":      int64(t.Status),
			"created_at":  t.CreatedAt,
			"position":    int64(i),
		}
	}
	return rows
}

// taskFromValues applies the same defaults as the record file: a missing or
// invalid status becomes TODO and a missing timestamp becomes now.
func (r *Neo4jRepository) taskFromValues(values map[string]any) models.Task {
	str := func(key string) string {
		s, _ := values[key].(string)
		return s
	}

	task := models.Task{
		ID:          str("id"),
		Title:       str("title"),
		Description: str("description"),
		Status:      models.StatusTodo,
		CreatedAt:   r.now().UnixMilli(),
	}

	switch v := values["status"].(type) {
	case int64:
		task.Status = models.ClampStatus(int(v))
	case string:
		task.Status = parseStatus(v)
	}

	switch v := values["created_at"].(type) {
	case int64:
		task.CreatedAt = v
	case string:
		task.CreatedAt = parseCreatedAt(v, r.now)
	}

	return task
}
