// Package llm is the prompt-to-text boundary used by the reference player.
package llm

import "context"

// Generator maps a prompt to a raw text reply. Implementations may be
// unavailable; callers treat any error as "no reply".
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
