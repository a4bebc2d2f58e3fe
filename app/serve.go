package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskboard/app/config"
	"taskboard/app/controllers"
	"taskboard/app/logging"
	"taskboard/app/persistence"
	"taskboard/app/routes"
	"taskboard/app/services"
	"taskboard/app/store"
)

var (
	serveAddr     string
	serveDataFile string
	serveBackend  string
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the task board server.

Examples:
  taskboard serve --addr :8080
  taskboard serve --data-file /var/lib/taskboard/tasks.csv
  taskboard serve --backend neo4j`,
		RunE: runServe,
	}
	addServeFlags(cmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&serveDataFile, "data-file", "", "record file path (default data_tasks.csv)")
	cmd.Flags().StringVar(&serveBackend, "backend", "", "persistence backend: file or neo4j")
}

// loadConfig reads the config and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveDataFile != "" {
		cfg.DataFile = serveDataFile
	}
	if serveBackend != "" {
		cfg.Backend = serveBackend
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openRepository builds the configured backend. The returned func releases
// backend resources.
func openRepository(ctx context.Context, cfg config.Config) (persistence.Repository, func(), error) {
	if cfg.Backend != config.BackendNeo4j {
		return persistence.NewFileRepository(cfg.DataFile, cfg.MaxTasks), func() {}, nil
	}

	driver, err := config.InitNeo4j(cfg.Neo4j)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Neo4j connection: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, nil, fmt.Errorf("neo4j unreachable at %s: %w", cfg.Neo4j.URI, err)
	}
	closeFn := func() { driver.Close(context.Background()) }
	return persistence.NewNeo4jRepository(driver, cfg.Neo4j.Database, cfg.MaxTasks), closeFn, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log)

	ctx := context.Background()
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	taskService := services.NewTaskService(ctx, store.New(cfg.MaxTasks), repo, logger)
	taskController := controllers.NewTaskController(taskService)

	server := &http.Server{
		Addr:     cfg.Addr,
		Handler:  routes.New(taskController, logger),
		ErrorLog: logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", cfg.Addr, "backend", cfg.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}
	logger.Info("shut down signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout.Duration)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("shut down gracefully")
	return nil
}
