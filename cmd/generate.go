package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mj1618/desktop-recorder/internal/model"
	"github.com/mj1618/desktop-recorder/internal/output"
	"github.com/mj1618/desktop-recorder/internal/recorder"
	"github.com/mj1618/desktop-recorder/internal/store"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a pywinauto script from a captured event log",
	Long: `Replay a captured event log against a control-tree snapshot and print the
pywinauto code that reproduces the interaction.

Without --out the script is written to stdout. With --out the script goes to
the file and a summary (session id, line count) is printed in --format.

Examples:
  desktop-recorder generate --events session.yaml --tree tree.yaml
  desktop-recorder generate --events session.json --tree tree.yaml --key-only --scale-click
  desktop-recorder generate --events session.yaml --tree tree.yaml --out script.py --save`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("events", "", "Event log file (YAML or JSON)")
	generateCmd.Flags().String("tree", "", "Control-tree snapshot file (YAML or JSON)")
	generateCmd.Flags().String("out", "", "Write the script to this file instead of stdout")
	generateCmd.Flags().Bool("save", false, "Store the session and its lines in the history database")
	generateCmd.Flags().String("db", "", "Session database for --save (default from config store.path)")
	generateCmd.MarkFlagRequired("events") //nolint:errcheck
}

func runGenerate(cmd *cobra.Command, args []string) error {
	eventsPath, _ := cmd.Flags().GetString("events")
	treePath, _ := cmd.Flags().GetString("tree")
	outPath, _ := cmd.Flags().GetString("out")
	save, _ := cmd.Flags().GetBool("save")
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = appConfig.Store.Path
	}

	tree, events, err := loadInputs(eventsPath, treePath)
	if err != nil {
		return err
	}

	cfg := recorderConfig(nil)
	sessionID, lines := generateScript(tree, events, cfg, appLogger)
	appLogger.Info("script generated", "session", sessionID, "events", len(events), "lines", len(lines))

	result := output.ScriptResult{
		Session: sessionID,
		Events:  len(events),
		Lines:   lines,
	}
	if save {
		if err := saveSession(cmd.Context(), dbPath, sessionID, filepath.Base(eventsPath), cfg, lines); err != nil {
			return err
		}
		result.Saved = true
	}

	if outPath == "" {
		return output.WriteScript(cmd.OutOrStdout(), lines)
	}
	var buf bytes.Buffer
	if err := output.WriteScript(&buf, lines); err != nil {
		return err
	}
	if err := writeFile(outPath, buf.Bytes()); err != nil {
		return err
	}
	result.Output = outPath
	return output.Fprint(cmd.OutOrStdout(), result)
}

// generateScript runs events through a fresh recorder and returns its
// session id with the generated lines.
func generateScript(tree *model.Tree, events []recorder.Event, cfg recorder.Config, logger *slog.Logger) (string, []string) {
	session := recorder.NewSession()
	lines := recorder.Generate(tree, events, recorder.Options{
		Config:  cfg,
		Session: session,
		Logger:  logger,
	})
	return session.ID, lines
}

func saveSession(ctx context.Context, dbPath, sessionID, source string, cfg recorder.Config, lines []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if _, err := st.CreateSession(ctx, store.Session{
		ID:         sessionID,
		Source:     source,
		KeyOnly:    cfg.KeyOnly,
		ScaleClick: cfg.ScaleClick,
	}); err != nil {
		return err
	}
	if err := st.AppendLines(ctx, sessionID, lines); err != nil {
		return err
	}
	if err := st.FinishSession(ctx, sessionID, time.Time{}); err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}
