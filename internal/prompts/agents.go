// Package prompts builds the structured requests sent to the completion
// service for the interviewer, evaluator and coach roles.
package prompts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// AgentConfig is one persona definition from agents.yaml.
type AgentConfig struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// TaskConfig is one task definition from tasks.yaml.
type TaskConfig struct {
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
}

// PersonaConfig bundles the two roles and their tasks.
type PersonaConfig struct {
	Interviewer     AgentConfig
	Coach           AgentConfig
	InterviewerTask TaskConfig
	CoachTask       TaskConfig
}

// DefaultPersonaConfig is used when the YAML files are absent.
func DefaultPersonaConfig() *PersonaConfig {
	return &PersonaConfig{
		Interviewer: AgentConfig{
			Role:      "Dynamic Interview Conductor",
			Goal:      "Conduct a realistic, adaptive mock interview for the candidate's target role, one question at a time.",
			Backstory: "A seasoned interviewer who has run hundreds of panels across startups and large companies, known for probing follow-ups and a calm, professional manner.",
		},
		Coach: AgentConfig{
			Role:      "Interview Performance Coach",
			Goal:      "Score the completed interview and give the candidate concrete, honest feedback they can act on.",
			Backstory: "A career coach who reviews interview transcripts for a living and never invents facts that are not in the transcript.",
		},
		InterviewerTask: TaskConfig{
			Description:    "Given the candidate profile, the conversation so far and the latest answer, decide the next interview turn.",
			ExpectedOutput: "A single JSON object with the next question, round label, follow-up flag and end flag.",
		},
		CoachTask: TaskConfig{
			Description:    "Analyze the full interview transcript and produce a structured performance report.",
			ExpectedOutput: "A single JSON object with an overall summary, per-dimension scores, strengths and improvement areas.",
		},
	}
}

type agentsFile struct {
	DynamicInterviewConductor AgentConfig `yaml:"dynamic_interview_conductor"`
	InterviewPerformanceCoach AgentConfig `yaml:"interview_performance_coach"`
}

type tasksFile struct {
	ConductDynamicInterviewSession TaskConfig `yaml:"conduct_dynamic_interview_session"`
	AnalyzeInterviewPerformance    TaskConfig `yaml:"analyze_interview_performance"`
}

// LoadPersonaConfig reads agents.yaml and tasks.yaml. Fields left empty in
// the files keep their defaults.
func LoadPersonaConfig(agentsPath, tasksPath string) (*PersonaConfig, error) {
	cfg := DefaultPersonaConfig()

	agentsData, err := os.ReadFile(agentsPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", agentsPath, err)
	}
	var agents agentsFile
	if err := yaml.Unmarshal(agentsData, &agents); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", agentsPath, err)
	}

	tasksData, err := os.ReadFile(tasksPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", tasksPath, err)
	}
	var tasks tasksFile
	if err := yaml.Unmarshal(tasksData, &tasks); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", tasksPath, err)
	}

	mergeAgent(&cfg.Interviewer, agents.DynamicInterviewConductor)
	mergeAgent(&cfg.Coach, agents.InterviewPerformanceCoach)
	mergeTask(&cfg.InterviewerTask, tasks.ConductDynamicInterviewSession)
	mergeTask(&cfg.CoachTask, tasks.AnalyzeInterviewPerformance)

	return cfg, nil
}

func mergeAgent(dst *AgentConfig, src AgentConfig) {
	if src.Role != "" {
		dst.Role = src.Role
	}
	if src.Goal != "" {
		dst.Goal = src.Goal
	}
	if src.Backstory != "" {
		dst.Backstory = src.Backstory
	}
}

func mergeTask(dst *TaskConfig, src TaskConfig) {
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.ExpectedOutput != "" {
		dst.ExpectedOutput = src.ExpectedOutput
	}
}
