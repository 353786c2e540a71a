// Package providers registers the built-in completion providers with the llm factory.
package providers

import (
	"context"

	"docinsight/internal/config"
	"docinsight/internal/llm"
	"docinsight/internal/llm/claude"
	"docinsight/internal/llm/gemini"
	"docinsight/internal/llm/openai"
	"docinsight/internal/port"
)

// Register adds the claude, openai and gemini factories.
func Register() {
	llm.RegisterProvider("claude", func(cfg *config.ProviderConfig) (port.Completer, error) {
		return claude.NewCompleter(cfg), nil
	})
	llm.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.Completer, error) {
		return openai.NewCompleter(cfg), nil
	})
	llm.RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.Completer, error) {
		return gemini.NewCompleter(context.Background(), cfg)
	})
}
