package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvModelAPIKey is the environment variable holding the LLM API key.
	EnvModelAPIKey = "GROQ_API_KEY"
	// EnvWebSearchAPIKey is the environment variable holding the search API key.
	EnvWebSearchAPIKey = "TAVILY_API_KEY"
)

// Secrets sensitive configuration resolved from the environment and the
// .secrets file. Environment variables take precedence over file entries.
type Secrets struct {
	values map[string]string
}

// NewSecrets creates a new Secrets instance
func NewSecrets() *Secrets {
	return &Secrets{
		values: make(map[string]string),
	}
}

// SecretsPath returns the secrets file path
func SecretsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".secrets"), nil
}

// LoadSecrets loads secrets from the .secrets file
func LoadSecrets() (*Secrets, error) {
	secrets := NewSecrets()

	secretsPath, err := SecretsPath()
	if err != nil {
		return secrets, nil // Return empty secrets if path can't be determined
	}

	// Check if secrets file exists
	if _, err := os.Stat(secretsPath); os.IsNotExist(err) {
		return secrets, nil // Return empty secrets if file doesn't exist
	}

	// Open and read the file
	file, err := os.Open(secretsPath)
	if err != nil {
		return secrets, nil // Return empty secrets on error
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key=value pairs
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			secrets.values[key] = value
		}
	}

	return secrets, scanner.Err()
}

// Get returns the value for a key, preferring the environment over the file
func (s *Secrets) Get(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if s == nil || s.values == nil {
		return ""
	}
	return s.values[key]
}

// Has checks if a key is set in either the environment or the file
func (s *Secrets) Has(key string) bool {
	return s.Get(key) != ""
}

// GetModelAPIKey returns the LLM API key
func (s *Secrets) GetModelAPIKey() string {
	return s.Get(EnvModelAPIKey)
}

// GetWebSearchAPIKey returns the web search API key
func (s *Secrets) GetWebSearchAPIKey() string {
	return s.Get(EnvWebSearchAPIKey)
}
