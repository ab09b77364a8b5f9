package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Provider generates outreach copy with a language model
type Provider interface {
	// Name returns the provider name
	Name() string

	// Icebreaker writes a one-sentence opener for a cold email
	Icebreaker(ctx context.Context, req IcebreakerRequest) (string, error)
}

// IcebreakerRequest describes the company an opener is written for
type IcebreakerRequest struct {
	CompanyName string
	Description string
	Highlights  []string
	FirstName   string

	// Model overrides the configured model
	Model string
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	Timeout   int // seconds
	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the defaults; generation is disabled
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 120,
	}
}

const systemPrompt = "You write short, specific opening lines for cold emails from an early-stage venture investor to startup founders."

// MaxIcebreakerLen bounds the generated opener
const MaxIcebreakerLen = 300

// BuildPrompt constructs the user prompt for one company
func BuildPrompt(req IcebreakerRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", req.CompanyName)
	if req.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", truncate(req.Description, 600))
	}
	if len(req.Highlights) > 0 {
		hs := req.Highlights
		if len(hs) > 5 {
			hs = hs[:5]
		}
		fmt.Fprintf(&b, "Highlights: %s\n", strings.Join(hs, "; "))
	}
	if req.FirstName != "" {
		fmt.Fprintf(&b, "Founder first name: %s\n", req.FirstName)
	}
	b.WriteString(`
Write ONE sentence (under 30 words) that opens an email to the founder.
Rules:
1. Refer to something concrete from the description or highlights.
2. No greeting, no sign-off, no links, no emojis.
3. Do not invent facts, numbers or customers.
Reply with the sentence only.`)
	return b.String()
}

var urlPattern = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)

// cleanIcebreaker normalizes model output to a single sentence and rejects
// replies that are empty or contain links
func cleanIcebreaker(text string) (string, error) {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	text = strings.Trim(text, "\"'“”")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty icebreaker")
	}
	if urlPattern.MatchString(text) {
		return "", fmt.Errorf("icebreaker contains a link: %q", text)
	}
	return truncate(text, MaxIcebreakerLen), nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func maxTokens(c Config) int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 120
}
