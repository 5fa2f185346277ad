package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PromptConfig prompt configuration structure
type PromptConfig struct {
	// System is the persona instruction for answer completions.
	System string `yaml:"system"`
	// Router is the instruction for the needs-search classification call.
	Router string `yaml:"router"`
	// ContextInstruction wraps retrieved search results around a question.
	// It takes two arguments: the context text and the question.
	ContextInstruction string `yaml:"context_instruction"`
	// CompletionError is returned when the completion call fails.
	CompletionError string `yaml:"completion_error"`
	// Apology is returned when the orchestrator hits an unexpected failure.
	Apology string `yaml:"apology"`
}

// DefaultPromptConfig returns default prompt configuration
func DefaultPromptConfig() *PromptConfig {
	return &PromptConfig{
		System: "You are an expert AI assistant with deep knowledge across multiple domains. " +
			"Provide accurate, detailed, and well-structured answers. Be clear, concise, and helpful. " +
			"If you're unsure about something, say so.",
		Router: "You are an intelligent assistant that determines if a user's question requires current, " +
			"real-time information from the internet (news, stock prices, weather, latest events, recent statistics). " +
			"Answer only 'Yes' or 'No'. Say 'Yes' if the question asks about recent events, current news, live data, " +
			"or anything that changes frequently and needs up-to-date information. Say 'No' for general knowledge, " +
			"definitions, how-to questions, or historical facts.",
		ContextInstruction: "Use the following context to answer the question:\n%s\n\nQuestion: %s",
		CompletionError:    "An unexpected error occurred while contacting the model API.",
		Apology:            "Sorry, something went wrong. Check the logs for details.",
	}
}

// PromptConfigPath returns the prompt config file path
func PromptConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prompt.yaml"), nil
}

// LoadPromptConfig loads prompt configuration from file, falling back to
// defaults for any field the file leaves unset.
func LoadPromptConfig() (*PromptConfig, error) {
	configPath, err := PromptConfigPath()
	if err != nil {
		return DefaultPromptConfig(), nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultPromptConfig(), nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt config: %w", err)
	}

	// Parse config on top of defaults
	cfg := DefaultPromptConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse prompt config: %w", err)
	}

	return cfg, nil
}

// BuildPrompt assembles the user prompt, injecting search context when present.
func (p *PromptConfig) BuildPrompt(question, context string) string {
	if context == "" {
		return question
	}
	return fmt.Sprintf(p.ContextInstruction, context, question)
}
