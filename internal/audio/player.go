package audio

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Player plays the completion tone without blocking the caller.
type Player interface {
	PlayTone()
}

// Options selects and configures a Player.
type Options struct {
	// Command is an external player invoked with the tone file as its last
	// argument. Empty means auto-detect.
	Command  string
	Bell     bool
	CacheDir string
	Out      io.Writer
	Logger   *slog.Logger
}

var candidatePlayers = []string{"afplay", "paplay", "aplay -q", "pw-play"}

const playTimeout = 5 * time.Second

// New returns a command player when one is configured or found on PATH,
// falling back to the terminal bell, or a silent player.
func New(opts Options) Player {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var fallback Player = Silent{}
	if opts.Bell && opts.Out != nil {
		fallback = NewBell(opts.Out)
	}
	argv := strings.Fields(opts.Command)
	if len(argv) == 0 {
		argv = detectPlayer()
	}
	if len(argv) == 0 || opts.CacheDir == "" {
		return fallback
	}
	return &CommandPlayer{
		argv:     argv,
		cacheDir: opts.CacheDir,
		fallback: fallback,
		log:      logger,
		run:      runCommand,
	}
}

func detectPlayer() []string {
	for _, candidate := range candidatePlayers {
		argv := strings.Fields(candidate)
		if _, err := exec.LookPath(argv[0]); err == nil {
			return argv
		}
	}
	return nil
}

func runCommand(ctx context.Context, name string, args []string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Silent discards tone requests.
type Silent struct{}

// PlayTone implements Player.
func (Silent) PlayTone() {}

// Bell rings the terminal bell.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// PlayTone implements Player.
func (b *Bell) PlayTone() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		// Best-effort bell.
		_ = err
	}
}

// CommandPlayer runs an external audio player on the synthesized tone.
type CommandPlayer struct {
	argv     []string
	cacheDir string
	fallback Player
	log      *slog.Logger
	run      func(ctx context.Context, name string, args []string) error

	once     sync.Once
	tonePath string
	toneErr  error
	wg       sync.WaitGroup
}

// PlayTone implements Player. The external process runs in the background.
func (p *CommandPlayer) PlayTone() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.play(); err != nil {
			p.log.Warn("failed to play tone", "player", p.argv[0], "error", err)
			p.fallback.PlayTone()
		}
	}()
}

// Wait blocks until every started playback has finished.
func (p *CommandPlayer) Wait() {
	p.wg.Wait()
}

func (p *CommandPlayer) play() error {
	p.once.Do(func() {
		p.tonePath, p.toneErr = WriteToneFile(p.cacheDir)
	})
	if p.toneErr != nil {
		return p.toneErr
	}
	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()
	args := append(append([]string(nil), p.argv[1:]...), p.tonePath)
	return p.run(ctx, p.argv[0], args)
}
