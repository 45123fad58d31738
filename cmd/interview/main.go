package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"ctrl-hire/internal/api"
	"ctrl-hire/internal/coach"
	"ctrl-hire/internal/config"
	"ctrl-hire/internal/evaluator"
	"ctrl-hire/internal/interviewer"
	"ctrl-hire/internal/metrics"
	"ctrl-hire/internal/prompts"
	"ctrl-hire/internal/storage"
	"ctrl-hire/internal/voice"
)

func main() {
	_ = godotenv.Load()

	appCfg := config.LoadAppConfig()
	if err := appCfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	cfg, err := config.Load("config/interview.yaml")
	if err != nil {
		cfg = config.Default()
	}

	persona, err := prompts.LoadPersonaConfig("config/agents.yaml", "config/tasks.yaml")
	if err != nil {
		persona = prompts.DefaultPersonaConfig()
	}

	store := storage.New(appCfg.SessionDir)
	m := metrics.New()
	builder := prompts.NewBuilder(persona, cfg)

	llm := api.NewClient(
		appCfg.OpenRouter.BaseURL,
		appCfg.OpenRouter.APIKey,
		cfg.Model.Name,
		cfg.Model.Temperature,
		cfg.Model.MaxTokens,
		appCfg.OpenRouter.Timeout,
	)

	evalSvc := evaluator.New(llm, store, builder, cfg, m)
	interviewSvc := interviewer.New(llm, store, builder, cfg, m, evalSvc)
	coachSvc := coach.New(llm, store, builder, cfg, m)

	stdin := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	fmt.Println("=== Mock Interview Practice ===")
	fmt.Println()

	profile, mode := collectProfile(stdin)

	voiceMode, transcriber, recorder, speaker := setupVoice(stdin)

	fmt.Println("\nStarting your interview. Answer each question; the interviewer decides when to finish.")

	rec, err := interviewSvc.CreateSession(ctx, profile, mode)
	if err != nil {
		log.Fatalf("Failed to start interview: %v", err)
	}
	fmt.Printf("Session: %s\n", rec.SessionID)

	if rec.Persona != "" {
		intro := fmt.Sprintf("Hi %s, I'm %s and I'll be your interviewer today.", profile.UserName, rec.Persona)
		fmt.Printf("\n%s\n", intro)
		if voiceMode && speaker != nil {
			_ = speaker.Speak(ctx, intro)
		}
	}

	question := rec.State.PendingQuestion
	stub := rec.State.PendingStub
	round := rec.State.Phase

	for {
		fmt.Printf("\n[%s] Interviewer: %s\n", round, question)
		if stub != "" {
			fmt.Printf("\n--- code ---\n%s\n------------\n", stub)
		}
		if voiceMode && speaker != nil {
			if err := speaker.Speak(ctx, question); err != nil {
				fmt.Printf("(audio unavailable: %v)\n", err)
			}
		}

		answer := readAnswer(ctx, stdin, voiceMode, transcriber, recorder)
		if answer == "" {
			fmt.Println("Empty answer, please try again.")
			continue
		}
		if strings.EqualFold(answer, "/quit") {
			fmt.Println("Interview abandoned. You can still request feedback for the answered questions.")
			break
		}

		result, err := interviewSvc.SubmitAnswer(ctx, rec.SessionID, answer)
		if err != nil {
			log.Fatalf("Turn failed: %v", err)
		}

		if result.Evaluation != nil {
			fmt.Printf("\n[technical check] %s (score %.2f)\n", result.Evaluation.ShortVerdict, result.Evaluation.Score)
		}

		if result.Finished {
			fmt.Println("\nThe interviewer has wrapped up the session.")
			break
		}

		question = result.Question
		stub = result.CodeStub
		round = result.Round
	}

	fmt.Println("\nGenerating your feedback report...")
	feedback, err := coachSvc.GenerateFeedback(ctx, rec.SessionID)
	if err != nil {
		log.Fatalf("Feedback generation failed: %v", err)
	}
	printFeedback(feedback)
	fmt.Printf("\nFull session saved under %s\n", appCfg.SessionDir)
}

func collectProfile(stdin *bufio.Reader) (storage.CandidateProfile, storage.InterviewMode) {
	profile := storage.CandidateProfile{
		UserName:        ask(stdin, "Your name: "),
		TargetRole:      ask(stdin, "Target role (e.g. Backend Engineer): "),
		ExperienceLevel: ask(stdin, "Experience level (junior/mid/senior): "),
		CompanyType:     ask(stdin, "Company type (startup/enterprise/faang): "),
	}

	style := ask(stdin, "Feedback style (coaching/strict) [coaching]: ")
	if strings.EqualFold(style, string(storage.FeedbackStrict)) {
		profile.FeedbackStyle = storage.FeedbackStrict
	} else {
		profile.FeedbackStyle = storage.FeedbackCoaching
	}

	mode := storage.ModeGeneral
	if strings.EqualFold(ask(stdin, "Interview against a specific job description? (y/N): "), "y") {
		fmt.Println("Paste the job description, end with an empty line:")
		var lines []string
		for {
			line, err := stdin.ReadString('\n')
			line = strings.TrimRight(line, "\r\n")
			if line == "" || err != nil {
				break
			}
			lines = append(lines, line)
		}
		jd := strings.TrimSpace(strings.Join(lines, "\n"))
		if jd != "" {
			profile.JobDescription = jd
			mode = storage.ModeJobDescription
		} else {
			fmt.Println("No job description given, running a general interview.")
		}
	}

	return profile, mode
}

// setupVoice probes the local audio toolchain. Anything missing drops the
// session back to typed answers.
func setupVoice(stdin *bufio.Reader) (bool, voice.Transcriber, voice.Recorder, voice.Speaker) {
	if !strings.EqualFold(ask(stdin, "Use voice mode? (y/N): "), "y") {
		return false, nil, nil, nil
	}

	transcriber := voice.NewWhisperTranscriber(os.Getenv("WHISPER_BIN"), os.Getenv("WHISPER_MODEL"))
	recorder := voice.NewFFmpegRecorder(90 * time.Second)

	if !transcriber.Available() {
		fmt.Println("whisper not found in PATH, falling back to text mode.")
		return false, nil, nil, nil
	}
	if !recorder.Available() {
		fmt.Println("ffmpeg not found in PATH, falling back to text mode.")
		return false, nil, nil, nil
	}

	return true, transcriber, recorder, voice.NewGoogleSpeaker()
}

// readAnswer records and transcribes in voice mode, with typed input as the
// fallback on any failure. A failed transcription never becomes an answer.
func readAnswer(ctx context.Context, stdin *bufio.Reader, voiceMode bool, transcriber voice.Transcriber, recorder voice.Recorder) string {
	if voiceMode {
		fmt.Print("\nPress Enter to record your answer (up to 90s), or type it directly: ")
		line, _ := stdin.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}

		audioPath := filepath.Join(os.TempDir(), fmt.Sprintf("interview_answer_%d.wav", time.Now().UnixMilli()))
		defer os.Remove(audioPath)

		fmt.Println("Recording... speak now.")
		if err := recorder.Record(ctx, audioPath); err != nil {
			fmt.Printf("Recording failed (%v), please type your answer.\n", err)
			return ask(stdin, "> ")
		}

		fmt.Println("Transcribing...")
		text, err := transcriber.Transcribe(ctx, audioPath)
		if err != nil {
			fmt.Printf("Transcription failed (%v), please type your answer.\n", err)
			return ask(stdin, "> ")
		}
		fmt.Printf("You said: %s\n", text)
		return text
	}

	return ask(stdin, "\nYour answer (or /quit to stop): ")
}

func ask(stdin *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

func printFeedback(f *storage.CoachFeedback) {
	fmt.Println("\n========== FEEDBACK REPORT ==========")
	fmt.Printf("\n%s\n", f.OverallSummary)

	fmt.Println("\nScores (1-5):")
	fmt.Printf("  Communication:  %d\n", f.DimensionScores.Communication)
	fmt.Printf("  Structure:      %d\n", f.DimensionScores.Structure)
	fmt.Printf("  Role knowledge: %d\n", f.DimensionScores.RoleKnowledge)
	fmt.Printf("  Confidence:     %d\n", f.DimensionScores.Confidence)

	if len(f.Strengths) > 0 {
		fmt.Println("\nStrengths:")
		for _, s := range f.Strengths {
			fmt.Printf("  + %s\n", s)
		}
	}
	if len(f.ImprovementAreas) > 0 {
		fmt.Println("\nAreas to improve:")
		for _, s := range f.ImprovementAreas {
			fmt.Printf("  - %s\n", s)
		}
	}

	if len(f.PerRoundFeedback) > 0 {
		fmt.Println("\nPer-round notes:")
		rounds := make([]string, 0, len(f.PerRoundFeedback))
		for r := range f.PerRoundFeedback {
			rounds = append(rounds, r)
		}
		sort.Strings(rounds)
		for _, r := range rounds {
			fmt.Printf("  [%s] %s\n", r, f.PerRoundFeedback[r])
		}
	}

	if len(f.SampleImprovedAnswers) > 0 {
		fmt.Println("\nSample improved answers:")
		indices := make([]int, 0, len(f.SampleImprovedAnswers))
		for k := range f.SampleImprovedAnswers {
			if i, err := strconv.Atoi(k); err == nil {
				indices = append(indices, i)
			}
		}
		sort.Ints(indices)
		for _, i := range indices {
			fmt.Printf("  Q%d: %s\n", i, f.SampleImprovedAnswers[strconv.Itoa(i)])
		}
	}
	fmt.Println("\n=====================================")
}
