// Package voice wraps local audio tooling for the interactive CLI. Voice is
// an input/output layer only: text in the transcript is canonical, and every
// failure here degrades to the text path instead of breaking the interview.
package voice

import (
	"context"
	"fmt"
)

// TranscriptionError reports a failed speech-to-text attempt. The caller is
// expected to fall back to typed input; the answer is never committed from a
// failed transcription.
type TranscriptionError struct {
	Op  string
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription %s: %v", e.Op, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// Transcriber turns a recorded audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Speaker reads a question aloud. Implementations must not fail the turn:
// returning an error only means the caller should print the text instead.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Recorder captures microphone input into an audio file.
type Recorder interface {
	Record(ctx context.Context, outPath string) error
}
