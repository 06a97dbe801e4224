package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/phrazzld/notesy-api/internal/client"
	"github.com/phrazzld/notesy-api/internal/events"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/summarize"
	"github.com/phrazzld/notesy-api/internal/tui"
)

func newStudyCmd(env *cliEnv) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Open the interactive study screen",
		Long: `Open the interactive study screen.

Type or paste notes, press ctrl+s to summarize them and, when signed in,
ctrl+g to turn them into flashcards. Use --file to start from a .docx document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			api, err := env.apiClient()
			if err != nil {
				return err
			}
			session := env.resolveSession(ctx, api, cmd.ErrOrStderr())
			remote := env.remoteSummarizer(api.Token())

			sessions := events.NewSessionEmitter(env.logger)
			defer sessions.Subscribe(tokenSwapper(api, remote))()
			defer sessions.Subscribe(events.SessionHandlerFunc(
				func(_ context.Context, event *events.SessionEvent) error {
					if event.Type != events.SessionLogout {
						return nil
					}
					return env.saveToken("")
				}))()

			model := tui.New(tui.Config{
				Context:      ctx,
				Summarizer:   remote,
				Ingester:     newIngester(),
				Limits:       ingest.DefaultLimits(),
				Session:      session,
				Sessions:     sessions,
				DocumentPath: file,
			})
			defer model.Close()

			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run study screen: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "load a .docx document into the editor (signed-in users)")
	return cmd
}

// tokenSwapper keeps both HTTP clients on the token of the active session.
func tokenSwapper(api *client.Client, remote *summarize.RemoteClient) events.SessionHandler {
	return events.SessionHandlerFunc(func(_ context.Context, event *events.SessionEvent) error {
		api.SetToken(event.Token)
		remote.SetToken(event.Token)
		return nil
	})
}
