package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/taskbot/internal/chat"
	"github.com/sandeepkv93/taskbot/internal/commands"
	"github.com/sandeepkv93/taskbot/internal/config"
	"github.com/sandeepkv93/taskbot/internal/guard"
	"github.com/sandeepkv93/taskbot/internal/httpstore"
	"github.com/sandeepkv93/taskbot/internal/logging"
	"github.com/sandeepkv93/taskbot/internal/model"
	"github.com/sandeepkv93/taskbot/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const interactiveAnnotation = "interactive"

// taskBackend is what the CLI needs beyond the chat session's Store.
type taskBackend interface {
	chat.Store
	ToggleTask(ctx context.Context, id string) (model.Task, error)
}

type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}
	root := &cobra.Command{
		Use:   "taskbot",
		Short: "Manage tasks by chatting with them",
		Long: `taskbot turns plain sentences into task operations.

  title: buy milk, due date: tomorrow, priority: high
  show me my tasks
  change laundry to done
  delete the grocery shopping task

Run without arguments to open the chat interface.`,
		SilenceUsage: true,
		Annotations:  map[string]string{interactiveAnnotation: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChat(cmd.Context())
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newChatCmd(a),
		newSayCmd(a),
		newTasksCmd(a),
		newToggleCmd(a),
		newMigrateCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()

	opts := logging.Options{
		Level:       cfg.Logging.Level,
		File:        cfg.Logging.File,
		Development: cfg.Logging.Development,
	}
	if a.verbose {
		opts.Level = "debug"
	}
	// Log lines on stderr would tear the full-screen UI.
	if cmd.Annotations[interactiveAnnotation] == "true" && opts.File == "" {
		a.logger = zap.NewNop()
		return nil
	}
	logger, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// openStore returns the configured backend and a func releasing it.
func (a *app) openStore() (taskBackend, func() error, error) {
	switch a.cfg.Store.Backend {
	case config.BackendHTTP:
		client, err := httpstore.New(a.cfg.Store.BaseURL, a.cfg.Store.Token, httpstore.WithTimeout(a.cfg.Store.Timeout))
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("using http store", zap.String("base_url", a.cfg.Store.BaseURL))
		return client, func() error { return nil }, nil
	default:
		repo, err := a.openSQLite()
		if err != nil {
			return nil, nil, err
		}
		if err := storage.MigrateUp(repo.DB()); err != nil {
			_ = repo.Close()
			return nil, nil, err
		}
		a.logger.Debug("using sqlite store",
			zap.String("driver", a.cfg.Store.Driver),
			zap.String("path", a.cfg.Store.Path),
		)
		return storage.NewTaskStore(repo), repo.Close, nil
	}
}

func (a *app) openSQLite() (*storage.SQLiteRepository, error) {
	if dir := filepath.Dir(a.cfg.Store.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return storage.OpenSQLite(a.cfg.Store.Driver, a.cfg.Store.Path)
}

func (a *app) newSession(store chat.Store, hooks chat.Hooks) *chat.Session {
	rules := a.cfg.Guards.Apply(guard.DefaultRules())
	return chat.NewSession(store,
		chat.WithInterpreter(commands.NewInterpreter(rules)),
		chat.WithLogger(a.logger),
		chat.WithHooks(hooks),
	)
}

// storeErr adds a hint for auth failures from the REST backend.
func storeErr(err error) error {
	if httpstore.IsUnauthorized(err) {
		return fmt.Errorf("%w (check store.token or TASKBOT_API_TOKEN)", err)
	}
	var se *model.StoreError
	if errors.As(err, &se) && se.Status == 0 {
		return fmt.Errorf("%w (is the task service reachable?)", err)
	}
	return err
}
