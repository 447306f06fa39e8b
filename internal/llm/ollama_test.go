package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOllamaGenerate(t *testing.T) {
	t.Parallel()

	o := NewOllama("http://mock/", "llama3", 0)
	o.client = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			require.Equal(t, "/api/chat", r.URL.Path)
			var req ollamaChatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "llama3", req.Model)
			require.False(t, req.Stream)
			require.Len(t, req.Messages, 1)
			require.Equal(t, "pick a word", req.Messages[0].Content)
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     make(http.Header),
				Body:       io.NopCloser(strings.NewReader(`{"message":{"role":"assistant","content":"  GUESS: CRANE\n"}}`)),
			}, nil
		}),
	}

	out, err := o.Generate(context.Background(), "pick a word")
	require.NoError(t, err)
	require.Equal(t, "GUESS: CRANE", out)
}

func TestOllamaErrors(t *testing.T) {
	t.Parallel()

	t.Run("status", func(t *testing.T) {
		o := NewOllama("http://mock", "llama3", 0)
		o.client = &http.Client{
			Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusNotFound,
					Header:     make(http.Header),
					Body:       io.NopCloser(strings.NewReader(`model not found`)),
				}, nil
			}),
		}
		_, err := o.Generate(context.Background(), "x")
		require.ErrorContains(t, err, "status 404")
	})

	t.Run("model required", func(t *testing.T) {
		_, err := NewOllama("", "", 0).Generate(context.Background(), "x")
		require.Error(t, err)
	})
}

func TestGeneratorFunc(t *testing.T) {
	var g Generator = GeneratorFunc(func(_ context.Context, p string) (string, error) {
		return "echo " + p, nil
	})
	out, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "echo hi", out)
}

type roundTripFunc func(r *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
