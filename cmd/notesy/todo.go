package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTodoCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage your study task list",
	}
	cmd.AddCommand(newTodoListCmd(env), newTodoAddCmd(env), newTodoRemoveCmd(env))
	return cmd
}

func newTodoListCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks (a demo list when signed out)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := env.apiClient()
			if err != nil {
				return err
			}
			todos, err := api.Todos(cmd.Context())
			if err != nil {
				return friendlyError(err, env.serverURL())
			}

			out := cmd.OutOrStdout()
			if len(todos) == 0 {
				fmt.Fprintln(out, "No tasks yet.")
				return nil
			}
			for _, t := range todos {
				fmt.Fprintf(out, "%s  %s\n", t.ID, t.Text)
			}
			return nil
		},
	}
}

func newTodoAddCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := env.apiClient()
			if err != nil {
				return err
			}
			todo, err := api.AddTodo(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return friendlyError(err, env.serverURL())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", todo.ID)
			return nil
		},
	}
}

func newTodoRemoveCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			api, err := env.apiClient()
			if err != nil {
				return err
			}
			if err := api.RemoveTodo(cmd.Context(), id); err != nil {
				return friendlyError(err, env.serverURL())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
			return nil
		},
	}
}
