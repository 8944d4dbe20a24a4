package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/fieldsurvey/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions with recorded answers",
	Long: `List the sessions found in the answer log, most recent first.

Any listed session that has not been submitted can be continued with
fieldsurvey --resume <session-id>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.EventRepo().Sessions(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return err
		}
		subs, err := st.SubmissionRepo().List(ctx, store.QueryOpts{})
		if err != nil {
			return err
		}
		submitted := make(map[string]string, len(subs))
		for _, s := range subs {
			submitted[s.SessionID] = s.ID
		}

		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SESSION\tANSWERS\tSTARTED\tLAST ANSWER\tSUBMISSION")
		for _, s := range sessions {
			sub := submitted[s.SessionID]
			if sub == "" {
				sub = "-"
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", s.SessionID, s.Events,
				s.FirstSeen.Local().Format(time.DateTime), s.LastSeen.Local().Format(time.DateTime), sub)
		}
		return tw.Flush()
	},
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "Maximum number of sessions to list (0 = all)")
}

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
