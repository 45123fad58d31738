package voice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// WhisperTranscriber shells out to a local whisper binary. It writes the
// transcript as a .txt next to the audio file and reads it back.
type WhisperTranscriber struct {
	binPath  string
	model    string
	language string
	timeout  time.Duration
}

// NewWhisperTranscriber builds a transcriber around the whisper CLI.
// binPath defaults to "whisper" and model to "base".
func NewWhisperTranscriber(binPath, model string) *WhisperTranscriber {
	if binPath == "" {
		binPath = "whisper"
	}
	if model == "" {
		model = "base"
	}
	return &WhisperTranscriber{
		binPath:  binPath,
		model:    model,
		language: "en",
		timeout:  2 * time.Minute,
	}
}

// Available reports whether the whisper binary can be found.
func (t *WhisperTranscriber) Available() bool {
	_, err := exec.LookPath(t.binPath)
	return err == nil
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", &TranscriptionError{Op: "stat audio", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	outDir := filepath.Dir(audioPath)
	cmd := exec.CommandContext(ctx, t.binPath,
		audioPath,
		"--model", t.model,
		"--language", t.language,
		"--output_format", "txt",
		"--output_dir", outDir,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &TranscriptionError{Op: "run whisper", Err: fmt.Errorf("%w; out=%s", err, string(out))}
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	txtPath := filepath.Join(outDir, base+".txt")
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", &TranscriptionError{Op: "read transcript", Err: err}
	}
	defer os.Remove(txtPath)

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", &TranscriptionError{Op: "read transcript", Err: fmt.Errorf("empty transcript for %s", audioPath)}
	}
	return text, nil
}
