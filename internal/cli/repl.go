package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/hession/askmate/internal/chatbot"
	"github.com/hession/askmate/internal/config"
	"github.com/hession/askmate/internal/history"
	"github.com/hession/askmate/internal/llm"
	"github.com/hession/askmate/internal/logger"
	"github.com/hession/askmate/internal/websearch"
)

const (
	Version = "0.1.0"

	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// Run starts the CLI interactive interface
func Run(cfg *config.Config) error {
	printWelcome()

	// Initialize components
	llmClient := llm.New(
		cfg.Model.APIKey,
		cfg.Model.BaseURL,
		cfg.Model.Model,
		cfg.Model.MaxTokens,
	)

	promptCfg, err := config.LoadPromptConfig()
	if err != nil {
		return fmt.Errorf("failed to load prompt config: %w", err)
	}

	bot := chatbot.New(
		llmClient,
		newProvider(cfg),
		promptCfg,
		chatbot.WithTemperature(cfg.Model.Temperature),
		chatbot.WithSearchLimit(cfg.WebSearch.DefaultLimit),
	)

	// Transcript store is best-effort: a broken database must not keep the
	// chatbot from answering.
	var store history.Store
	var sessionID string
	if cfg.History.Enabled {
		sqlStore, err := history.NewSQLiteStore(cfg.History.DBPath)
		if err != nil {
			logger.Warn("History store unavailable, continuing without it: %v", err)
		} else {
			defer sqlStore.Close()
			id, err := sqlStore.CreateSession()
			if err != nil {
				logger.Warn("Failed to start history session: %v", err)
			} else {
				store = sqlStore
				sessionID = id
			}
		}
	}

	return runREPL(bot, store, sessionID, cfg)
}

// newProvider selects the search provider from config
func newProvider(cfg *config.Config) websearch.Provider {
	timeout := time.Duration(cfg.WebSearch.TimeoutSeconds) * time.Second
	switch strings.ToLower(strings.TrimSpace(cfg.WebSearch.Provider)) {
	case "duckduckgo", "ddg":
		return websearch.NewDuckDuckGoProvider(cfg.WebSearch.BaseURL, cfg.WebSearch.UserAgent, timeout)
	default:
		return websearch.NewTavilyProvider(cfg.WebSearch.BaseURL, cfg.WebSearch.UserAgent, cfg.WebSearch.APIKey, timeout)
	}
}

// printWelcome prints welcome message
func printWelcome() {
	fmt.Printf("\n%sAskMate v%s%s - ask me anything\n", colorCyan, Version, colorReset)
	fmt.Printf("%sQuestions that need current information are answered with live web search.%s\n", colorGray, colorReset)
	fmt.Printf("%sType 'exit' or 'quit' to stop, /help for commands.%s\n\n", colorGray, colorReset)
}

// printFarewell prints the goodbye message
func printFarewell() {
	fmt.Printf("\n%sGoodbye!%s\n", colorCyan, colorReset)
}

// isExitCommand reports whether input is a termination command.
// Matching is whitespace-trimmed and case-insensitive.
func isExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}

// historyFilePath returns the readline history file path
func historyFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(homeDir, ".askmate")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ""
	}
	return filepath.Join(dir, "readline_history")
}

// runREPL runs the interactive read loop
func runREPL(bot *chatbot.Chatbot, store history.Store, sessionID string, cfg *config.Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            fmt.Sprintf("%sYou: %s", colorGreen, colorReset),
		HistoryFile:       historyFilePath(),
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal as a graceful termination
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		printFarewell()
		cancel()
		rl.Close()
		os.Exit(0)
	}()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				printFarewell()
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input := strings.TrimSpace(line)

		if isExitCommand(input) {
			printFarewell()
			return nil
		}

		// Built-in slash commands
		if strings.HasPrefix(input, "/") {
			if handleCommand(input, store, cfg) {
				continue
			}
			printFarewell()
			return nil
		}

		// Everything else, empty lines included, is a question
		processTurn(ctx, bot, store, sessionID, input)
	}
}

// processTurn answers one question and records it. A failed turn is
// reported and logged but never terminates the loop.
func processTurn(ctx context.Context, bot *chatbot.Chatbot, store history.Store, sessionID, input string) {
	answer := bot.Ask(ctx, input)

	fmt.Printf("\n%s--- Chatbot Response ---%s\n", colorBlue, colorReset)
	fmt.Println(answer.Response)

	if answer.SearchResults != "" {
		fmt.Printf("\n%s--- Search Results ---%s\n", colorYellow, colorReset)
		fmt.Println(answer.SearchResults)
	}
	fmt.Printf("%s------------------------%s\n\n", colorGray, colorReset)

	if store != nil {
		rec := &history.Record{
			Query:         answer.Query,
			Source:        string(answer.Source),
			Response:      answer.Response,
			SearchResults: answer.SearchResults,
		}
		if err := store.SaveRecord(sessionID, rec); err != nil {
			logger.Warn("Failed to save history record: %v", err)
		}
	}
}

// handleCommand handles built-in commands, returns true to continue loop, false to exit
func handleCommand(cmd string, store history.Store, cfg *config.Config) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case "/help":
		printHelp()
		return true

	case "/config":
		fmt.Println(cfg.String())
		return true

	case "/history":
		printHistory(store, cfg.History.DisplayLimit)
		return true

	case "/exit", "/quit", "/q":
		return false

	default:
		fmt.Printf("%sUnknown command: %s%s\n", colorYellow, cmd, colorReset)
		fmt.Println("Type /help for available commands")
		return true
	}
}

// printHistory prints the most recently answered questions
func printHistory(store history.Store, limit int) {
	if store == nil {
		fmt.Printf("%sHistory is disabled or unavailable%s\n", colorGray, colorReset)
		return
	}

	records, err := store.RecentRecords(limit)
	if err != nil {
		fmt.Printf("%sFailed to load history: %v%s\n", colorRed, err, colorReset)
		return
	}
	if len(records) == 0 {
		fmt.Printf("%sNo questions answered yet%s\n", colorGray, colorReset)
		return
	}

	fmt.Printf("%sRecent questions:%s\n", colorCyan, colorReset)
	for _, rec := range records {
		label := chatbot.Source(rec.Source).String()
		fmt.Printf("  %s[%s]%s %s\n", colorGray, label, colorReset, truncateForDisplay(rec.Query, 60))
		fmt.Printf("      %s\n", truncateForDisplay(rec.Response, 80))
	}
}

// truncateForDisplay flattens text to a single line of at most maxLen runes
func truncateForDisplay(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}

// printHelp prints help information
func printHelp() {
	fmt.Printf(`
%sAskMate Help%s

%sBuilt-in Commands:%s
  /help      - Show this help message
  /config    - Show current configuration
  /history   - Show recently answered questions
  /exit      - Exit program (same as typing 'exit' or 'quit')

%sHow it works:%s
  Every line you type is treated as a question. AskMate first asks the
  model whether the question needs current information; if so it runs a
  web search and feeds the results to the model as context. The sources
  used are printed under a separate heading.

%sExamples:%s
  "What is the capital of France?"
  "Who won the most recent F1 race?"
  "What's today's weather in Paris?"

`, colorCyan, colorReset, colorYellow, colorReset, colorYellow, colorReset, colorYellow, colorReset)
}
