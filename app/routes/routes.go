package routes

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"taskboard/app/controllers"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController) {
	router.HandleFunc("/", controllers.Index).Methods(http.MethodGet)

	router.HandleFunc("/api/tasks", taskController.GetTasks).Methods(http.MethodGet)
	router.HandleFunc("/api/tasks", taskController.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/api/tasks/{taskID}/status", taskController.UpdateTaskStatus).Methods(http.MethodPatch)
	router.HandleFunc("/api/tasks/{taskID}", taskController.DeleteTask).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(controllers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
}

// New builds the full handler: router, request logging and panic recovery.
func New(taskController *controllers.TaskController, logger *log.Logger) http.Handler {
	router := mux.NewRouter()
	RegisterRoutes(router, taskController)
	return recoverPanics(logger, logRequests(logger, router))
}

// Only the page reports 405; any other method/path mismatch is a plain 404.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		controllers.MethodNotAllowed(w, r)
		return
	}
	controllers.NotFound(w, r)
}
