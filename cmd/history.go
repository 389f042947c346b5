package cmd

import (
	"github.com/mj1618/desktop-recorder/internal/output"
	"github.com/mj1618/desktop-recorder/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored recording sessions or print one session's script",
	Long: `List sessions saved with 'generate --save' or 'record --save', newest first.
With --session, print that session's script lines.

Examples:
  desktop-recorder history
  desktop-recorder history --format json
  desktop-recorder history --session 0190f5b6-... > script.py`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("session", "", "Print the script of this session")
	historyCmd.Flags().String("db", "", "Session database (default from config store.path)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	sessionID, _ := cmd.Flags().GetString("session")
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = appConfig.Store.Path
	}

	ctx := cmd.Context()
	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if sessionID != "" {
		lines, err := st.SessionLines(ctx, sessionID)
		if err != nil {
			return err
		}
		return output.WriteScript(cmd.OutOrStdout(), lines)
	}

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return err
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	return output.Fprint(cmd.OutOrStdout(), sessions)
}
