package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/fieldsurvey/internal/store"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Read submitted surveys",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions as JSON, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")

		opts := store.QueryOpts{Limit: limit}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		subs, err := st.SubmissionRepo().List(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if subs == nil {
			subs = []store.Submission{}
		}
		return writeJSON(cmd, subs)
	},
}

var submissionsShowCmd = &cobra.Command{
	Use:   "show <submission-id>",
	Short: "Print one submission as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sub, err := st.SubmissionRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if sub == nil {
			return fmt.Errorf("no submission with id %q", args[0])
		}
		return writeJSON(cmd, sub)
	},
}

func init() {
	submissionsListCmd.Flags().Int("limit", 0, "Maximum number of submissions (0 = all)")
	submissionsListCmd.Flags().Duration("since", 0, "Only submissions newer than this, e.g. 24h")

	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsShowCmd)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
