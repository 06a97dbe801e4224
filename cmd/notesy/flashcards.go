package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/flashcard"
	"github.com/phrazzld/notesy-api/internal/ingest"
)

func newFlashcardsCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "flashcards [file]",
		Aliases: []string{"cards"},
		Short:   "Print flashcards generated from notes (signed-in users)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			api, err := env.apiClient()
			if err != nil {
				return err
			}
			session := env.resolveSession(ctx, api, cmd.ErrOrStderr())
			if !session.CanGenerateFlashcards() {
				return ingest.ErrFlashcardsGated
			}

			text, err := readInput(ctx, cmd, args, session)
			if err != nil {
				return err
			}
			text, err = promote(text, session)
			if err != nil {
				return err
			}

			deck := flashcard.Generate(text.Raw)

			out := cmd.OutOrStdout()
			for i, card := range deck.Cards() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "Card %d/%d\nQ: %s\nA: %s\n", i+1, deck.Len(), card.Question, card.Answer)
			}
			return nil
		},
	}
}

// guestOrMember returns a local session for offline commands. The member
// session carries a throwaway identity and is never sent to the server.
func guestOrMember(member bool) domain.Session {
	if member {
		return domain.AuthenticatedSession(uuid.New(), "")
	}
	return domain.AnonymousSession()
}
