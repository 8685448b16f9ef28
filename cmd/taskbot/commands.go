package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskbot/internal/chat"
	"github.com/sandeepkv93/taskbot/internal/config"
	"github.com/sandeepkv93/taskbot/internal/reply"
	"github.com/sandeepkv93/taskbot/internal/storage"
	"github.com/sandeepkv93/taskbot/internal/update"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "chat",
		Short:       "Open the interactive chat interface",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{interactiveAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChat(cmd.Context())
		},
	}
}

func (a *app) runChat(ctx context.Context) error {
	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	effects := update.NewEffects(16)
	session := a.newSession(store, effects.Hooks())
	m := update.NewModel(session, store, effects.C(), update.Options{
		TaskPaneWidth: a.cfg.UI.TaskPaneWidth,
		Markdown:      a.cfg.UI.Markdown,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

func newSayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "say <message...>",
		Short: "Send one message and print the reply",
		Example: `  taskbot say add pay rent, due date: tomorrow
  taskbot say show me my tasks`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			session := a.newSession(store, chat.Hooks{})
			msg, ok := session.Submit(cmd.Context(), strings.Join(args, " "))
			if !ok {
				return errors.New("say: message is empty")
			}
			fmt.Fprintln(a.out, msg.Content)
			return nil
		},
	}
}

func newTasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "Print the task table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			tasks, err := store.ListTasks(cmd.Context())
			if err != nil {
				return storeErr(err)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(a.out, reply.NoTasks)
				return nil
			}
			fmt.Fprint(a.out, reply.TaskTable(tasks))
			return nil
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			task, err := store.ToggleTask(cmd.Context(), args[0])
			if err != nil {
				return storeErr(err)
			}
			fmt.Fprintf(a.out, "Task \"%s\" is now %s.\n", task.Title, task.Status)
			return nil
		},
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the SQLite schema",
	}
	run := func(name string, apply func(*storage.SQLiteRepository) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: "Run " + name + " migrations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if a.cfg.Store.Backend != config.BackendSQLite {
					return fmt.Errorf("migrate: store backend is %q, not sqlite", a.cfg.Store.Backend)
				}
				repo, err := a.openSQLite()
				if err != nil {
					return err
				}
				defer repo.Close()
				if err := apply(repo); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "migrations %s applied to %s\n", name, a.cfg.Store.Path)
				return nil
			},
		}
	}
	cmd.AddCommand(
		run("up", func(r *storage.SQLiteRepository) error { return storage.MigrateUp(r.DB()) }),
		run("down", func(r *storage.SQLiteRepository) error { return storage.MigrateDown(r.DB()) }),
	)
	return cmd
}
