package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneWAVHeader(t *testing.T) {
	data := ToneWAV()
	samples := int(float64(ToneSampleRate) * ToneLength.Seconds())
	require.Len(t, data, wavHeaderSize+samples*2)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint32(ToneSampleRate), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(samples*2), binary.LittleEndian.Uint32(data[40:44]))
}

func TestToneDecays(t *testing.T) {
	samples := ToneSamples()
	peak := func(from, to int) float64 {
		m := 0.0
		for _, s := range samples[from:to] {
			m = math.Max(m, math.Abs(float64(s)))
		}
		return m / math.MaxInt16
	}
	window := ToneSampleRate / 100
	assert.InDelta(t, ToneStartGain, peak(0, window), 0.02)
	assert.Less(t, peak(len(samples)-window, len(samples)), 0.02)
}

func TestWriteToneFileReuses(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteToneFile(dir)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, toneFileName), path)

	again, err := WriteToneFile(dir)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	info2, err := os.Stat(again)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), info2.ModTime())
}

func TestBellWritesBEL(t *testing.T) {
	var buf bytes.Buffer
	NewBell(&buf).PlayTone()
	assert.Equal(t, "\a", buf.String())
}

type recordingPlayer struct {
	mu    sync.Mutex
	plays int
}

func (r *recordingPlayer) PlayTone() {
	r.mu.Lock()
	r.plays++
	r.mu.Unlock()
}

func newTestCommandPlayer(t *testing.T, runErr error) (*CommandPlayer, *recordingPlayer, *[]string) {
	t.Helper()
	fallback := &recordingPlayer{}
	var got []string
	p := &CommandPlayer{
		argv:     []string{"aplay", "-q"},
		cacheDir: t.TempDir(),
		fallback: fallback,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		run: func(_ context.Context, name string, args []string) error {
			got = append([]string{name}, args...)
			return runErr
		},
	}
	return p, fallback, &got
}

func TestCommandPlayerRunsWithToneFile(t *testing.T) {
	p, fallback, got := newTestCommandPlayer(t, nil)
	p.PlayTone()
	p.Wait()
	require.Len(t, *got, 3)
	assert.Equal(t, "aplay", (*got)[0])
	assert.Equal(t, "-q", (*got)[1])
	assert.Equal(t, toneFileName, filepath.Base((*got)[2]))
	assert.Equal(t, 0, fallback.plays)
}

func TestCommandPlayerFallsBackOnError(t *testing.T) {
	p, fallback, _ := newTestCommandPlayer(t, errors.New("no device"))
	p.PlayTone()
	p.Wait()
	assert.Equal(t, 1, fallback.plays)
}

func TestNewWithoutCacheDirUsesBell(t *testing.T) {
	var buf bytes.Buffer
	p := New(Options{Command: "aplay", Bell: true, Out: &buf})
	_, ok := p.(*Bell)
	assert.True(t, ok)

	silent := New(Options{Command: "aplay"})
	assert.Equal(t, Silent{}, silent)
}
