package chatbot

import (
	"context"
	"strings"

	"github.com/hession/askmate/internal/config"
	"github.com/hession/askmate/internal/llm"
	"github.com/hession/askmate/internal/logger"
	"github.com/hession/askmate/internal/websearch"
)

const (
	// answerTemperature keeps answer completions near-deterministic.
	answerTemperature = 0.2
	// routerTemperature makes the needs-search classification fully greedy.
	routerTemperature = 0.0
)

// Source identifies which path produced an answer.
type Source string

const (
	// SourceLLMOnly means the model answered without search context.
	SourceLLMOnly Source = "llm_only"
	// SourceSearchAndLLM means web search results were injected into the prompt.
	SourceSearchAndLLM Source = "search_and_llm"
)

// String returns a display label for the source
func (s Source) String() string {
	switch s {
	case SourceSearchAndLLM:
		return "Search + LLM"
	default:
		return "LLM only"
	}
}

// Answer is the structured result of one chatbot invocation.
// SearchResults is set if and only if Source is SourceSearchAndLLM.
type Answer struct {
	Query         string
	Source        Source
	Response      string
	SearchResults string
}

// Completer sends chat-completion requests. *llm.Client satisfies it; tests
// substitute their own.
type Completer interface {
	Chat(ctx context.Context, messages []llm.Message, temperature float64) (string, error)
}

// Chatbot routes a question either straight to the model or through web
// search first, and never surfaces an error to its caller.
type Chatbot struct {
	completer   Completer
	searcher    websearch.Provider
	prompts     *config.PromptConfig
	temperature float64
	searchLimit int
}

// Option chatbot configuration option
type Option func(*Chatbot)

// WithTemperature overrides the answer-completion temperature.
func WithTemperature(t float64) Option {
	return func(c *Chatbot) {
		c.temperature = t
	}
}

// WithSearchLimit overrides the number of search results requested.
func WithSearchLimit(limit int) Option {
	return func(c *Chatbot) {
		if limit > 0 {
			c.searchLimit = limit
		}
	}
}

// New creates a new Chatbot instance
func New(completer Completer, searcher websearch.Provider, prompts *config.PromptConfig, opts ...Option) *Chatbot {
	if prompts == nil {
		prompts = config.DefaultPromptConfig()
	}

	bot := &Chatbot{
		completer:   completer,
		searcher:    searcher,
		prompts:     prompts,
		temperature: answerTemperature,
		searchLimit: 3,
	}

	for _, opt := range opts {
		opt(bot)
	}

	return bot
}

// Ask answers a single query. It decides whether the question needs live
// web data, optionally retrieves search results, completes the answer, and
// always returns a displayable Answer even when everything below it failed.
func (c *Chatbot) Ask(ctx context.Context, query string) (answer Answer) {
	answer = Answer{
		Query:  query,
		Source: SourceLLMOnly,
	}

	// Outermost safety net: lower layers are fail-soft already, so anything
	// arriving here is a genuine bug. The caller still gets a string.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unexpected panic while answering %q: %v", query, r)
			answer.Response = c.prompts.Apology
		}
	}()

	if c.NeedsSearch(ctx, query) {
		answer.Source = SourceSearchAndLLM
		answer.SearchResults = c.search(ctx, query)
		answer.Response = c.complete(ctx, query, answer.SearchResults)
	} else {
		answer.Response = c.complete(ctx, query, "")
	}

	logger.Info("Query processed. Source: %s", answer.Source)
	return answer
}

// NeedsSearch asks the model whether the question requires current,
// real-time information. Any failure counts as "no": answering from model
// knowledge beats cascading a broken classifier into the search path.
func (c *Chatbot) NeedsSearch(ctx context.Context, question string) bool {
	messages := []llm.Message{
		{Role: "system", Content: c.prompts.Router},
		{Role: "user", Content: "Question: " + question},
	}

	reply, err := c.completer.Chat(ctx, messages, routerTemperature)
	if err != nil {
		logger.Error("Search decision failed for %q: %v", question, err)
		return false
	}

	normalized := strings.ToLower(strings.TrimSpace(reply))
	logger.Debug("Search decision for %q: %s", question, normalized)
	return strings.HasPrefix(normalized, "yes")
}

// complete asks the model for an answer, grounding it in searchContext when
// one is given. Failures degrade to the configured error string.
func (c *Chatbot) complete(ctx context.Context, question, searchContext string) string {
	messages := []llm.Message{
		{Role: "system", Content: c.prompts.System},
		{Role: "user", Content: c.prompts.BuildPrompt(question, searchContext)},
	}

	reply, err := c.completer.Chat(ctx, messages, c.temperature)
	if err != nil {
		logger.Error("Completion failed for %q: %v", question, err)
		return c.prompts.CompletionError
	}

	logger.Debug("Received from model: %s", reply)
	return reply
}

// search retrieves web results and formats them for display and prompt
// injection. Failures degrade to a readable error line so the completion
// still runs, just without useful context.
func (c *Chatbot) search(ctx context.Context, query string) string {
	resp, err := c.searcher.Search(ctx, query, c.searchLimit)
	if err != nil {
		logger.Error("Search via %s failed for %q: %v", c.searcher.Name(), query, err)
		return "Error fetching search results: " + err.Error()
	}

	return websearch.Format(resp.Results)
}
