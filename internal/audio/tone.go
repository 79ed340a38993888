// Package audio plays the completion tone.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Completion tone parameters: a sine at ToneFrequency whose gain ramps
// exponentially from ToneStartGain to ToneEndGain over ToneLength.
const (
	ToneFrequency  = 800.0
	ToneLength     = 500 * time.Millisecond
	ToneStartGain  = 0.3
	ToneEndGain    = 0.01
	ToneSampleRate = 44100

	toneFileName  = "tone.wav"
	bitsPerSample = 16
	wavHeaderSize = 44
)

// ToneSamples returns the 16-bit mono PCM samples of the completion tone.
func ToneSamples() []int16 {
	count := int(float64(ToneSampleRate) * ToneLength.Seconds())
	samples := make([]int16, count)
	ratio := ToneEndGain / ToneStartGain
	for i := range samples {
		t := float64(i) / ToneSampleRate
		gain := ToneStartGain * math.Pow(ratio, t/ToneLength.Seconds())
		v := math.Sin(2*math.Pi*ToneFrequency*t) * gain
		samples[i] = int16(math.Round(v * math.MaxInt16))
	}
	return samples
}

// ToneWAV encodes the completion tone as a RIFF/WAVE file.
func ToneWAV() []byte {
	samples := ToneSamples()
	dataSize := uint32(len(samples) * bitsPerSample / 8)
	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + int(dataSize))

	buf.WriteString("RIFF")
	writeLE(&buf, uint32(36)+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	writeLE(&buf, uint32(16))
	writeLE(&buf, uint16(1)) // PCM
	writeLE(&buf, uint16(1)) // mono
	writeLE(&buf, uint32(ToneSampleRate))
	writeLE(&buf, uint32(ToneSampleRate*bitsPerSample/8))
	writeLE(&buf, uint16(bitsPerSample/8))
	writeLE(&buf, uint16(bitsPerSample))
	buf.WriteString("data")
	writeLE(&buf, dataSize)
	writeLE(&buf, samples)
	return buf.Bytes()
}

func writeLE(buf *bytes.Buffer, v any) {
	// bytes.Buffer writes never fail.
	_ = binary.Write(buf, binary.LittleEndian, v)
}

// WriteToneFile writes the tone into dir and returns its path. An existing
// file is reused.
func WriteToneFile(dir string) (string, error) {
	path := filepath.Join(dir, toneFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > wavHeaderSize {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create tone dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "tone-*.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create temp tone: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmp.Write(ToneWAV()); err != nil {
		return "", fmt.Errorf("failed to write tone: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close tone: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write tone: %w", err)
	}
	return path, nil
}
