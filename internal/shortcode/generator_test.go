package shortcode_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"foodgram.io/backend/internal/shortcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codeSet map[string]bool

func (cs codeSet) Exists(ctx context.Context, code string) (bool, error) {
	return cs[code], nil
}

func scripted(codes ...string) (shortcode.Source, *[]int) {
	var lengths []int
	return func(length int) (string, error) {
		lengths = append(lengths, length)
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code, nil
	}, &lengths
}

func TestRandomHex(t *testing.T) {
	for length := 1; length <= shortcode.MaxLength; length++ {
		code, err := shortcode.RandomHex(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		assert.True(t, shortcode.Valid(code), "code %q should be hex", code)
	}

	_, err := shortcode.RandomHex(0)
	assert.Error(t, err)
	_, err = shortcode.RandomHex(shortcode.MaxLength + 1)
	assert.Error(t, err)
}

func TestGenerator_FirstFreeCode(t *testing.T) {
	source, lengths := scripted("abc")
	gen := &shortcode.Generator{Length: 3, Attempts: 5, Source: source}

	code, err := gen.Candidate(context.Background(), codeSet{})
	require.NoError(t, err)
	assert.Equal(t, "abc", code)
	assert.Equal(t, []int{3}, *lengths)
}

func TestGenerator_EscalatesAfterShortAttempts(t *testing.T) {
	taken := codeSet{"aaa": true, "aab": true, "aac": true, "aad": true, "aae": true, "aaaa": true}
	source, lengths := scripted("aaa", "aab", "aac", "aad", "aae", "aaaa", "beef")
	gen := &shortcode.Generator{Length: 3, Attempts: shortcode.ShortAttempts, Source: source}

	code, err := gen.Candidate(context.Background(), taken)
	require.NoError(t, err)
	assert.Equal(t, "beef", code)
	assert.Equal(t, []int{3, 3, 3, 3, 3, 4, 4}, *lengths)
}

func TestGenerator_NeverReturnsTakenCode(t *testing.T) {
	taken := codeSet{}
	remaining := "7f3"
	for i := 0; i < 16*16*16; i++ {
		code := fmt.Sprintf("%03x", i)
		if code != remaining {
			taken[code] = true
		}
	}
	gen := shortcode.NewGenerator()

	for i := 0; i < 10000; i++ {
		code, err := gen.Candidate(context.Background(), taken)
		require.NoError(t, err)
		assert.False(t, taken[code], "code %q was already taken", code)
		switch len(code) {
		case 3:
			assert.Equal(t, remaining, code)
		case 4:
		default:
			t.Fatalf("unexpected code length for %q", code)
		}
	}
}

func TestGenerator_OracleFailure(t *testing.T) {
	boom := errors.New("boom")
	gen := shortcode.NewGenerator()

	_, err := gen.Candidate(context.Background(), shortcode.OracleFunc(func(ctx context.Context, code string) (bool, error) {
		return false, boom
	}))
	assert.ErrorIs(t, err, boom)
}

func TestGenerator_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := shortcode.NewGenerator()

	_, err := gen.Candidate(ctx, codeSet{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLink(t *testing.T) {
	assert.Equal(t, "https://foodgram.io/s/abc", shortcode.Link("https://foodgram.io", "abc"))
	assert.Equal(t, "https://foodgram.io/s/abc", shortcode.Link("https://foodgram.io/", "abc"))
	assert.False(t, shortcode.Valid(""))
	assert.False(t, shortcode.Valid("xyz"))
	assert.False(t, shortcode.Valid("abcdef0"))
	assert.True(t, shortcode.Valid("0a9f"))
}
