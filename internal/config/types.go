package config

// Config holds the interview tunables loaded from interview.yaml.
type Config struct {
	Interview InterviewConfig `yaml:"interview"`
	Model     ModelConfig     `yaml:"model"`
}

// InterviewConfig bounds the turn loop. The follow-up ceiling is not here
// on purpose: it is a hard invariant of the controller, not a tunable.
type InterviewConfig struct {
	// TranscriptWindow is how many recent entries are serialized into the
	// interviewer prompt, keeping request size stable.
	TranscriptWindow int `yaml:"transcript_window"`
	// ChattyAnswerChars is the answer length above which the controller
	// passes a "chatty" hint to the model.
	ChattyAnswerChars int `yaml:"chatty_answer_chars"`
	// MaxValidationAttempts bounds the retry-with-correction loop around
	// every model call.
	MaxValidationAttempts int `yaml:"max_validation_attempts"`
}

// ModelConfig selects the completion model.
type ModelConfig struct {
	Name        string  `yaml:"name"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

func (c *Config) GetTranscriptWindow() int {
	return c.Interview.TranscriptWindow
}

func (c *Config) GetChattyAnswerChars() int {
	return c.Interview.ChattyAnswerChars
}

func (c *Config) GetMaxValidationAttempts() int {
	return c.Interview.MaxValidationAttempts
}
