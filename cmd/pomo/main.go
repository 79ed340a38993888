// Package main provides the CLI entrypoint for pomo.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pomo/internal/audio"
	"github.com/verte-zerg/pomo/internal/config"
	"github.com/verte-zerg/pomo/internal/model"
	"github.com/verte-zerg/pomo/internal/pomodoro"
	"github.com/verte-zerg/pomo/internal/store"
	"github.com/verte-zerg/pomo/internal/tui"
)

const (
	defaultStartMode = "focus"
	defaultSteam     = true
	defaultBell      = true
)

var (
	dbPath string

	timerMode         string
	timerSteam        bool
	timerSoundCommand string
	timerBell         bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pomo",
		Short:         "Terminal Pomodoro timer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the SQLite database")
	rootCmd.Flags().StringVar(&timerMode, "mode", defaultStartMode, "starting mode: focus, short or long")
	rootCmd.Flags().BoolVar(&timerSteam, "steam", defaultSteam, "animate steam above the timer while running")
	rootCmd.Flags().StringVar(&timerSoundCommand, "sound-command", "", "command used to play the completion tone (default: auto-detect)")
	rootCmd.Flags().BoolVar(&timerBell, "bell", defaultBell, "ring the terminal bell when no sound command is available")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newGoalCmd())
	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newLogCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "mode", &timerMode, fileCfg.Timer.StartMode)
	applyBoolConfig(cmd, "steam", &timerSteam, fileCfg.Timer.Steam)
	applyStringConfig(cmd, "sound-command", &timerSoundCommand, fileCfg.Sound.Command)
	applyBoolConfig(cmd, "bell", &timerBell, fileCfg.Sound.Bell)

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logFile, err := openLogFile(config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	adapter := pomodoro.NewStatsAdapter(st)
	stats := loadStats(cmdContext(cmd), adapter, logger)

	bell := &programBell{}
	player := audio.New(audio.Options{
		Command:  cfg.SoundCommand,
		Bell:     cfg.Bell,
		CacheDir: config.DefaultToneCacheDir(),
		Out:      bell,
		Logger:   logger,
	})
	if cp, ok := player.(*audio.CommandPlayer); ok {
		defer cp.Wait()
	}

	session := pomodoro.NewSession(cfg.StartMode, stats, pomodoro.Deps{
		Saver:    adapter,
		Recorder: st,
		Player:   player,
		Logger:   logger,
	})
	logger.Info("timer started", "mode", cfg.StartMode.String(), "completed", stats.CompletedSessions, "goal", stats.DailyGoal)

	program := tea.NewProgram(tui.NewModel(session, cfg, logger), tea.WithAltScreen())
	bell.program = program
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// programBell turns terminal bell writes into messages for the running
// program, which owns the terminal.
type programBell struct {
	program *tea.Program
}

func (b *programBell) Write(p []byte) (int, error) {
	if b.program != nil {
		// Send blocks until the event loop receives; the bell may be rung
		// from inside Update.
		go b.program.Send(tui.BellMsg{})
	}
	return len(p), nil
}

func buildConfig() (model.Config, error) {
	mode, err := model.ParseMode(timerMode)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --mode value: %w", err)
	}
	cfg := model.Config{
		StartMode:    mode,
		Steam:        timerSteam,
		SoundCommand: strings.TrimSpace(timerSoundCommand),
		Bell:         timerBell,
		DBPath:       strings.TrimSpace(dbPath),
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if !cfg.StartMode.Valid() {
		return fmt.Errorf("--mode must be focus, short or long")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("--db must not be empty")
	}
	return nil
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Timer.DBPath)
	return fileCfg, nil
}

// loadStats returns the persisted record, or defaults when it is missing or
// unreadable.
func loadStats(ctx context.Context, adapter *pomodoro.StatsAdapter, logger *slog.Logger) model.SessionStats {
	stats, err := adapter.Load(ctx)
	switch {
	case errors.Is(err, pomodoro.ErrMalformedStats):
		logger.Warn("stats record is malformed; using defaults", "error", err)
	case err != nil:
		logger.Warn("failed to read stats record; using defaults", "error", err)
	}
	return stats
}

func openLogFile(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "pomo")
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return f, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
