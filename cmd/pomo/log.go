package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pomo/internal/model"
	"github.com/verte-zerg/pomo/internal/output"
	"github.com/verte-zerg/pomo/internal/pomodoro"
	"github.com/verte-zerg/pomo/internal/store"
)

const defaultLogLimit = 20

var (
	logLimit int
	logMode  string
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "List recent completed countdowns",
		Args:  cobra.NoArgs,
		RunE:  runLogCmd,
	}
	cmd.Flags().IntVarP(&logLimit, "limit", "n", defaultLogLimit, "number of entries to show")
	cmd.Flags().StringVar(&logMode, "mode", "", "only show one mode: focus, short or long")
	return cmd
}

func runLogCmd(cmd *cobra.Command, _ []string) error {
	if logLimit < 1 {
		return fmt.Errorf("--limit must be >= 1")
	}
	var mode *model.Mode
	if logMode != "" {
		parsed, err := model.ParseMode(logMode)
		if err != nil {
			return fmt.Errorf("invalid --mode value: %w", err)
		}
		mode = &parsed
	}
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	entries, err := st.RecentCompletions(cmdContext(cmd), logLimit, mode)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	ui := newUI(cmd)
	if len(entries) == 0 {
		ui.Info("No completed sessions yet. Run 'pomo' to start one.")
		return nil
	}
	now := time.Now()
	table := ui.Table([]string{"Ended", "Mode", "Length", "Task"})
	for _, e := range entries {
		task := e.Task
		if task == "" {
			task = "-"
		}
		if err := table.Append([]string{
			humanize.RelTime(e.EndedAt, now, "ago", "from now"),
			modeColor(e.Mode),
			pomodoro.Clock(e.DurationSec),
			task,
		}); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func modeColor(mode model.Mode) string {
	if mode == model.Focus {
		return output.Red(mode.Label())
	}
	return output.Green(mode.Label())
}
