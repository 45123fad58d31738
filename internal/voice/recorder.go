package voice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// FFmpegRecorder captures microphone audio with ffmpeg. Recording stops
// either at the duration cap or when the context is cancelled, whichever
// comes first; the partial file is kept on cancellation.
type FFmpegRecorder struct {
	binPath      string
	maxDuration  time.Duration
	sampleRateHz int
	channels     int
}

// NewFFmpegRecorder builds a recorder with a hard duration cap.
func NewFFmpegRecorder(maxDuration time.Duration) *FFmpegRecorder {
	if maxDuration <= 0 {
		maxDuration = 90 * time.Second
	}
	return &FFmpegRecorder{
		binPath:      "ffmpeg",
		maxDuration:  maxDuration,
		sampleRateHz: 16000,
		channels:     1,
	}
}

// Available reports whether ffmpeg can be found.
func (r *FFmpegRecorder) Available() bool {
	_, err := exec.LookPath(r.binPath)
	return err == nil
}

func (r *FFmpegRecorder) Record(ctx context.Context, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create recording dir: %w", err)
	}

	args := []string{
		"-y",
		"-f", captureFormat(),
		"-i", captureDevice(),
		"-t", strconv.Itoa(int(r.maxDuration.Seconds())),
		"-ac", strconv.Itoa(r.channels),
		"-ar", strconv.Itoa(r.sampleRateHz),
		outPath,
	}

	cmd := exec.CommandContext(ctx, r.binPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("ffmpeg record failed: %w; out=%s", err, string(out))
	}

	if info, statErr := os.Stat(outPath); statErr != nil || info.Size() == 0 {
		return fmt.Errorf("no audio captured at %s", outPath)
	}
	return nil
}

func captureFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "alsa"
	}
}

func captureDevice() string {
	switch runtime.GOOS {
	case "darwin":
		return ":0"
	case "windows":
		return "audio=default"
	default:
		return "default"
	}
}
