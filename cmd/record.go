package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mj1618/desktop-recorder/internal/output"
	"github.com/mj1618/desktop-recorder/internal/platform"
	"github.com/mj1618/desktop-recorder/internal/recorder"
	"github.com/mj1618/desktop-recorder/internal/store"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record live interactions and print script lines as they happen",
	Long: `Capture hook and accessibility events from the running desktop and print
pywinauto code for each recognised interaction. Stop with Ctrl-C; pending
typed text is flushed on exit.

Live capture needs a platform backend. On platforms without one, capture
events with another tool and replay them with 'generate'.`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().Bool("save", false, "Store the session and its lines in the history database")
	recordCmd.Flags().String("db", "", "Session database for --save (default from config store.path)")
	recordCmd.Flags().Duration("duration", 0, "Stop recording after this long (0 = until interrupted)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	save, _ := cmd.Flags().GetBool("save")
	duration, _ := cmd.Flags().GetDuration("duration")
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = appConfig.Store.Path
	}

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	var st *store.Store
	if save {
		st, err = store.Open(ctx, dbPath)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
	}
	return runRecording(ctx, provider, recorderConfig(nil), cmd.OutOrStdout(), st)
}

// runRecording streams events from provider through a recorder, writing
// lines to w as windows complete. When st is non-nil the session is stored.
func runRecording(ctx context.Context, provider *platform.Provider, cfg recorder.Config, w io.Writer, st *store.Store) error {
	if provider == nil || provider.Events == nil || provider.Tree == nil {
		return platform.ErrUnsupported
	}
	tree, err := provider.Tree.ReadTree(ctx)
	if err != nil {
		return fmt.Errorf("read control tree: %w", err)
	}

	session := recorder.NewSession()
	rec := recorder.New(tree, recorder.Options{Config: cfg, Session: session, Logger: appLogger})
	if st != nil {
		if _, err := st.CreateSession(ctx, store.Session{
			ID:         session.ID,
			Source:     "live",
			KeyOnly:    cfg.KeyOnly,
			ScaleClick: cfg.ScaleClick,
		}); err != nil {
			return err
		}
	}
	appLogger.Info("recording started", "session", session.ID)

	emit := func(lines []string) error {
		if err := output.WriteScript(w, lines); err != nil {
			return err
		}
		if st != nil && len(lines) > 0 {
			// The capture context may already be cancelled when flushing.
			return st.AppendLines(context.WithoutCancel(ctx), session.ID, lines)
		}
		return nil
	}

	streamErr := provider.Events.Stream(ctx, func(ev recorder.Event) error {
		return emit(rec.Feed(ev))
	})
	if streamErr != nil && !errors.Is(streamErr, context.Canceled) && !errors.Is(streamErr, context.DeadlineExceeded) {
		return fmt.Errorf("event stream: %w", streamErr)
	}
	if err := emit(rec.Close()); err != nil {
		return err
	}
	if st != nil {
		if err := st.FinishSession(context.WithoutCancel(ctx), session.ID, time.Now().UTC()); err != nil {
			return err
		}
	}
	appLogger.Info("recording stopped", "session", session.ID)
	return nil
}
