package voice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
	"unicode/utf8"
)

// GoogleSpeaker synthesizes speech through the public Google Translate TTS
// endpoint and plays it with whatever player the host offers. Long questions
// are truncated to the endpoint's informal length limit.
type GoogleSpeaker struct {
	client   *http.Client
	language string
	tmpDir   string
}

const ttsMaxChars = 200

func NewGoogleSpeaker() *GoogleSpeaker {
	return &GoogleSpeaker{
		client:   &http.Client{Timeout: 15 * time.Second},
		language: "en",
		tmpDir:   os.TempDir(),
	}
}

func (s *GoogleSpeaker) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	text = truncateForTTS(text)

	audioPath, err := s.fetch(ctx, text)
	if err != nil {
		return err
	}
	defer os.Remove(audioPath)

	return playAudio(ctx, audioPath)
}

// truncateForTTS caps the text at the endpoint's informal length limit
// without splitting a multi-byte rune.
func truncateForTTS(text string) string {
	if utf8.RuneCountInString(text) <= ttsMaxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:ttsMaxChars])
}

func (s *GoogleSpeaker) fetch(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", s.language)
	q.Set("q", text)
	endpoint := "https://translate.google.com/translate_tts?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build tts request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch tts audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tts endpoint returned status %d", resp.StatusCode)
	}

	outPath := filepath.Join(s.tmpDir, fmt.Sprintf("interview_question_%d.mp3", time.Now().UnixMilli()))
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create tts file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("write tts file: %w", err)
	}
	return outPath, nil
}

// playAudio tries the platform players in order. ffplay comes first because
// it ships with ffmpeg, which the recorder already requires.
func playAudio(ctx context.Context, path string) error {
	var candidates [][]string
	switch runtime.GOOS {
	case "darwin":
		candidates = [][]string{
			{"afplay", path},
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path},
		}
	case "windows":
		candidates = [][]string{
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path},
		}
	default:
		candidates = [][]string{
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path},
			{"mpg123", "-q", path},
			{"aplay", path},
		}
	}

	var lastErr error
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err != nil {
			lastErr = err
			continue
		}
		cmd := exec.CommandContext(ctx, c[0], c[1:]...)
		if err := cmd.Run(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("no usable audio player: %v", lastErr)
}
