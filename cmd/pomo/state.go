package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/pomo/internal/model"
	"github.com/verte-zerg/pomo/internal/output"
	"github.com/verte-zerg/pomo/internal/pomodoro"
	"github.com/verte-zerg/pomo/internal/stats"
	"github.com/verte-zerg/pomo/internal/store"
)

var statusYAML bool

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's count, goal and settings",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
	cmd.Flags().BoolVar(&statusYAML, "yaml", false, "print status as YAML")
	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset today's completed session count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(s *pomodoro.Session, ui *output.UI) error {
				if err := s.ResetDailyCount(); err != nil {
					return fmt.Errorf("failed to save stats: %w", err)
				}
				ui.Success("Session count reset (goal %d)", s.Stats().DailyGoal)
				return nil
			})
		},
	}
}

func newGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "goal up|down",
		Short:     "Raise or lower the daily goal by one",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := goalDelta(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, func(s *pomodoro.Session, ui *output.UI) error {
				if err := s.AdjustGoal(delta); err != nil {
					return fmt.Errorf("failed to save stats: %w", err)
				}
				ui.Success("Daily goal is now %d", s.Stats().DailyGoal)
				return nil
			})
		},
	}
}

func newTaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "task [label...]",
		Short: "Set the current task label (no arguments clears it)",
		RunE: func(cmd *cobra.Command, args []string) error {
			label := strings.Join(args, " ")
			return withSession(cmd, func(s *pomodoro.Session, ui *output.UI) error {
				if err := s.SetTask(label); err != nil {
					return fmt.Errorf("failed to save stats: %w", err)
				}
				if task := s.Stats().CurrentTask; task != "" {
					ui.Success("Current task: %s", output.Cyan(task))
				} else {
					ui.Info("Current task cleared")
				}
				return nil
			})
		},
	}
}

func goalDelta(arg string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "up", "+":
		return 1, nil
	case "down", "-":
		return -1, nil
	default:
		return 0, fmt.Errorf("goal direction must be up or down")
	}
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
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

	ctx := cmdContext(cmd)
	ui := newUI(cmd)
	record := loadStats(ctx, pomodoro.NewStatsAdapter(st), cliLogger(cmd))
	now := time.Now()
	status, err := buildStatus(ctx, st, record, now)
	if err != nil {
		return err
	}
	if statusYAML {
		return status.WriteYAML(cmd.OutOrStdout())
	}
	ui.PrintStatus(status, now)
	return nil
}

func buildStatus(ctx context.Context, st *store.Store, record model.SessionStats, now time.Time) (output.Status, error) {
	all, err := st.ListCompletions(ctx, model.StatsConfig{})
	if err != nil {
		return output.Status{}, fmt.Errorf("failed to load history: %w", err)
	}
	today := stats.DayOf(now, now.Location())
	focusToday, focusTotal := 0, 0
	for _, c := range all {
		if c.Mode != model.Focus {
			continue
		}
		focusTotal++
		if !c.EndedAt.Before(today) {
			focusToday++
		}
	}
	last, ok, err := st.LastCompletion(ctx, model.Focus)
	if err != nil {
		return output.Status{}, fmt.Errorf("failed to load last focus: %w", err)
	}
	var lastPtr *model.Completion
	if ok {
		lastPtr = &last
	}
	return output.NewStatus(record, focusToday, focusTotal, lastPtr), nil
}

// withSession opens the store, loads the stats record into a stopped
// session and runs fn against it. Mutations persist through the session.
func withSession(cmd *cobra.Command, fn func(*pomodoro.Session, *output.UI) error) error {
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

	logger := cliLogger(cmd)
	adapter := pomodoro.NewStatsAdapter(st)
	record := loadStats(cmdContext(cmd), adapter, logger)
	session := pomodoro.NewSession(model.Focus, record, pomodoro.Deps{
		Saver:  adapter,
		Logger: logger,
	})
	return fn(session, newUI(cmd))
}

func newUI(cmd *cobra.Command) *output.UI {
	return &output.UI{Out: cmd.OutOrStdout(), ErrOut: cmd.ErrOrStderr()}
}

func cliLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
