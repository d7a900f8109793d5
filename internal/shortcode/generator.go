package shortcode

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultLength is the length of the first codes drawn for a recipe.
	DefaultLength = 3
	// ShortAttempts is the number of draws at DefaultLength before escalating.
	ShortAttempts = 5
	// MaxLength bounds any stored code.
	MaxLength = 6
)

// Oracle reports whether a code is already assigned to a recipe.
type Oracle interface {
	Exists(ctx context.Context, code string) (bool, error)
}

// OracleFunc adapts a plain function to an Oracle.
type OracleFunc func(ctx context.Context, code string) (bool, error)

func (of OracleFunc) Exists(ctx context.Context, code string) (bool, error) {
	return of(ctx, code)
}

// Source draws a random code of the requested length.
type Source func(length int) (string, error)

// Generator draws short hexadecimal codes and escalates to a longer code
// once the short space looks crowded.
type Generator struct {
	Length   int
	Attempts int
	Source   Source
}

func NewGenerator() *Generator {
	return &Generator{
		Length:   DefaultLength,
		Attempts: ShortAttempts,
		Source:   RandomHex,
	}
}

// RandomHex takes the leading hex digits of a random UUID.
func RandomHex(length int) (string, error) {
	if length <= 0 || length > MaxLength {
		return "", fmt.Errorf("invalid short code length %d", length)
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", "")[:length], nil
}

// Candidate returns a code that the oracle did not know about at the time of
// the check. The caller still has to claim it against the store.
func (g *Generator) Candidate(ctx context.Context, oracle Oracle) (string, error) {
	for attempt := 0; attempt < g.Attempts; attempt++ {
		code, free, err := g.draw(ctx, oracle, g.Length)
		if err != nil {
			return "", err
		}
		if free {
			return code, nil
		}
	}
	for {
		code, free, err := g.draw(ctx, oracle, g.Length+1)
		if err != nil {
			return "", err
		}
		if free {
			return code, nil
		}
	}
}

func (g *Generator) draw(ctx context.Context, oracle Oracle, length int) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	code, err := g.Source(length)
	if err != nil {
		return "", false, fmt.Errorf("failed to draw short code: %w", err)
	}
	exists, err := oracle.Exists(ctx, code)
	if err != nil {
		return "", false, fmt.Errorf("failed to check short code %s: %w", code, err)
	}
	return code, !exists, nil
}
