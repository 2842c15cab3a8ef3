package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tactache/tactache-api/internal/database"
	"github.com/tactache/tactache-api/internal/export"
	"github.com/tactache/tactache-api/internal/policy"
	"github.com/tactache/tactache-api/internal/repository"
)

var (
	exportUser   string
	exportStatus string
	exportOut    string
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's tasks to a PDF file",
		Long: `Write the tasks a user created or is assigned to as a PDF.

Examples:
  tactache export --user alice
  tactache export --user alice --status done --out done.pdf`,
		RunE: runExport,
	}
	cmd.Flags().StringVarP(&exportUser, "user", "u", "", "username whose tasks are exported")
	cmd.Flags().StringVarP(&exportStatus, "status", "s", "", "only export tasks with this status (todo, in_progress, done)")
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (defaults to taches_<date>.pdf)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close()

	_, taskService, _, err := a.services()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	user, err := repository.NewUserRepository(a.db).FindByUsername(ctx, exportUser)
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", exportUser, err)
	}

	actor := policy.Actor{ID: user.ID, Role: user.Role}
	tasks, err := taskService.ExportTasks(ctx, actor, exportStatus)
	if err != nil {
		return err
	}

	now := time.Now()
	out := exportOut
	if out == "" {
		out = export.Filename(now.In(a.cfg.Location()))
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	if err := export.Render(f, export.Input{
		Owner:       user.Username,
		Tasks:       tasks,
		GeneratedAt: now,
		Loc:         a.cfg.Location(),
	}); err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}

	a.log.Info("export written", slog.String("file", out), slog.Int("tasks", len(tasks)))
	return f.Close()
}
