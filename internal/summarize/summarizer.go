// Package summarize produces short summaries of note text, preferring a
// remote model when one is configured and falling back to deterministic local
// truncation.
package summarize

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Summary sources reported to clients.
const (
	SourceFallback = "fallback"
	SourceGenAI    = "genai"
)

const (
	// fallbackLimit is the character count at which the fallback stops
	// accumulating sentences. The sentence that crosses it is kept whole.
	fallbackLimit = 300
	// remoteMinInput gates the remote call: shorter inputs are not worth a
	// network round trip.
	remoteMinInput = 50
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Fallback returns the deterministic local summary: leading sentences
// accumulated until the 300-character mark, ending with a period. Text with
// no sentence terminators is treated as a single sentence.
func Fallback(text string) string {
	if text == "" {
		return ""
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if sentences == nil {
		sentences = []string{text}
	}
	var b strings.Builder
	for _, s := range sentences {
		if b.Len() >= fallbackLimit {
			break
		}
		b.WriteString(strings.TrimSpace(s))
		b.WriteString(" ")
	}
	out := strings.TrimSpace(b.String())
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}

// Backend produces a model-generated summary for text.
type Backend interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Service wraps the fallback heuristic with an optional remote backend.
type Service struct {
	backend Backend
	timeout time.Duration
}

// New creates a Service. A nil backend means fallback-only operation.
func New(backend Backend, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{backend: backend, timeout: timeout}
}

// Summarize returns a summary and its source. The remote path never surfaces
// an error: any backend failure is logged and the fallback stands. The remote
// result is adopted only when it is non-empty and differs from the input.
func (s *Service) Summarize(ctx context.Context, text string) (summary, source string) {
	summary = Fallback(text)
	source = SourceFallback

	if s.backend == nil || len(text) <= remoteMinInput {
		return summary, source
	}

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	remote, err := s.backend.Summarize(rctx, text)
	if err != nil {
		slog.Warn("remote summarization failed, using fallback",
			slog.String("error", err.Error()))
		return summary, source
	}
	remote = strings.TrimSpace(remote)
	if remote == "" || remote == strings.TrimSpace(text) {
		return summary, source
	}
	return remote, SourceGenAI
}
