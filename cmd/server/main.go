package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tactache/tactache-api/internal/config"
	"github.com/tactache/tactache-api/internal/database"
	"github.com/tactache/tactache-api/internal/logging"
	"github.com/tactache/tactache-api/internal/policy"
	"github.com/tactache/tactache-api/internal/repository"
	"github.com/tactache/tactache-api/internal/services"
	"gorm.io/gorm"
)

var Version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "tactache",
		Short:   "TacTâche - collaborative task board API",
		Version: Version,
		// Running the binary without a subcommand starts the server.
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults to $"+config.ConfigFileEnv+")")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every subcommand needs once configuration is loaded.
type app struct {
	cfg *config.Config
	log *slog.Logger
	db  *gorm.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := database.Connect(cfg, log); err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: database.GetDB()}, nil
}

func (a *app) policy() (policy.Policy, error) {
	visibility, err := policy.ParseVisibility(a.cfg.TaskVisibility)
	if err != nil {
		return policy.Policy{}, err
	}
	return policy.Policy{Visibility: visibility, LockCompleted: a.cfg.LockCompletedTasks}, nil
}

func (a *app) services() (*services.AuthService, *services.TaskService, *services.CommentService, error) {
	pol, err := a.policy()
	if err != nil {
		return nil, nil, nil, err
	}

	userRepo := repository.NewUserRepository(a.db)
	taskRepo := repository.NewTaskRepository(a.db)
	commentRepo := repository.NewCommentRepository(a.db)

	return services.NewAuthService(userRepo),
		services.NewTaskService(taskRepo, pol, a.cfg.Location()),
		services.NewCommentService(commentRepo, taskRepo, pol),
		nil
}
