package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"taskboard/app/codec"
	"taskboard/app/services"
)

const maxBodyBytes = 1 << 20

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service *services.TaskService
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService) *TaskController {
	return &TaskController{Service: service}
}

// GetTasks handles GET /api/tasks.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	body, err := codec.EncodeTasks(c.Service.GetTasks(r.Context()))
	if err != nil {
		WriteServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// CreateTask handles POST /api/tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	title, _ := fields.Get("titulo")
	description, _ := fields.Get("descricao")

	task, err := c.Service.CreateTask(r.Context(), title, description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	body, err := codec.EncodeTask(task)
	if err != nil {
		WriteServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// UpdateTaskStatus handles PATCH /api/tasks/{taskID}/status.
func (c *TaskController) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]

	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	status, ok := fields.Get("status")
	if !ok {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	task, err := c.Service.UpdateStatus(r.Context(), taskID, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	body, err := codec.EncodeTask(task)
	if err != nil {
		WriteServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// DeleteTask handles DELETE /api/tasks/{taskID}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	if err := c.Service.DeleteTask(r.Context(), taskID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusNoContent)
}

func readFields(r *http.Request) (codec.Object, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return codec.Fields(data), nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, "title is required")
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrCapacityExceeded):
		writeError(w, http.StatusInsufficientStorage, "task capacity exceeded")
	default:
		WriteServerError(w)
	}
}
