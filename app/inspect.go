package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/app/codec"
	"taskboard/app/logging"
	"taskboard/app/models"
	"taskboard/app/persistence"
	"taskboard/app/services"
	"taskboard/app/store"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the record file and report skipped records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			repo := persistence.NewFileRepository(cfg.DataFile, cfg.MaxTasks)
			tasks, stats, err := repo.LoadWithStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("load %s: %w", cfg.DataFile, err)
			}

			counts := map[models.Status]int{}
			for _, t := range tasks {
				counts[t.Status]++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:          %s\n", repo.Path())
			fmt.Fprintf(out, "Tasks:         %d / %d\n", stats.Accepted, cfg.MaxTasks)
			fmt.Fprintf(out, "  TODO:        %d\n", counts[models.StatusTodo])
			fmt.Fprintf(out, "  DOING:       %d\n", counts[models.StatusDoing])
			fmt.Fprintf(out, "  DONE:        %d\n", counts[models.StatusDone])
			fmt.Fprintf(out, "Malformed:     %d\n", stats.Malformed)
			fmt.Fprintf(out, "Over capacity: %d\n", stats.OverCapacity)
			return nil
		},
	}
	cmd.Flags().StringVar(&serveDataFile, "data-file", "", "record file path (default data_tasks.csv)")
	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all persisted tasks as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			repo, closeRepo, err := openRepository(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			tasks, err := repo.Load(ctx)
			if err != nil {
				return err
			}
			body, err := codec.EncodeTasks(tasks)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}
	cmd.Flags().StringVar(&serveDataFile, "data-file", "", "record file path (default data_tasks.csv)")
	cmd.Flags().StringVar(&serveBackend, "backend", "", "persistence backend: file or neo4j")
	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one persisted task as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			repo, closeRepo, err := openRepository(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := services.NewTaskService(ctx, store.New(cfg.MaxTasks), repo, logging.New(cfg.Log))
			task, err := svc.GetTaskByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("task %s: %w", args[0], err)
			}
			body, err := codec.EncodeTask(task)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}
	cmd.Flags().StringVar(&serveDataFile, "data-file", "", "record file path (default data_tasks.csv)")
	cmd.Flags().StringVar(&serveBackend, "backend", "", "persistence backend: file or neo4j")
	return cmd
}
