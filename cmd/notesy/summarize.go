package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

func newSummarizeCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [file]",
		Short: "Summarize notes from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			api, err := env.apiClient()
			if err != nil {
				return err
			}
			session := env.resolveSession(ctx, api, cmd.ErrOrStderr())

			text, err := readInput(ctx, cmd, args, session)
			if err != nil {
				return err
			}
			text, err = promote(text, session)
			if err != nil {
				return err
			}

			res, err := env.remoteSummarizer(api.Token()).Summarize(ctx, text.Raw)
			if err != nil {
				return errors.New(summarize.UserMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
			env.logger.Debug("summary received",
				"model_used", res.ModelUsed,
				"sentences_used", res.SentencesUsed)
			return nil
		},
	}
}

func newCountCmd(env *cliEnv) *cobra.Command {
	var authenticated bool

	cmd := &cobra.Command{
		Use:   "count [file]",
		Short: "Count words against the quota without contacting the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := guestOrMember(authenticated)

			text, err := readInput(cmd.Context(), cmd, args, session)
			if err != nil {
				return err
			}
			policy := ingest.PolicyFor(session)
			state := ingest.StateOf(text, policy)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s / %s words (%s)\n",
				ingest.FormatCount(text.WordCount), ingest.FormatCount(policy.WordLimit), state)
			if state == ingest.DraftOverQuota {
				fmt.Fprintln(out, policy.Check(text))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&authenticated, "member", false, "count against the signed-in limit")
	return cmd
}
