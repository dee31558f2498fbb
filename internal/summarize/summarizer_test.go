package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFallbackShortText(t *testing.T) {
	if got := Fallback("Short."); got != "Short." {
		t.Errorf("Fallback = %q, want %q", got, "Short.")
	}
}

func TestFallbackEmpty(t *testing.T) {
	if got := Fallback(""); got != "" {
		t.Errorf("Fallback(\"\") = %q, want empty", got)
	}
}

func TestFallbackNoTerminator(t *testing.T) {
	got := Fallback("no punctuation here")
	if got != "no punctuation here." {
		t.Errorf("Fallback = %q", got)
	}
}

func TestFallbackEndsWithPeriod(t *testing.T) {
	for _, text := range []string{
		"Is it done? Maybe!",
		"One. Two. Three.",
		"Exclaim! And ask? Then state.",
	} {
		got := Fallback(text)
		if !strings.HasSuffix(got, ".") && !strings.HasSuffix(got, "!") && !strings.HasSuffix(got, "?") {
			t.Errorf("Fallback(%q) = %q does not end with a terminator", text, got)
		}
		if got[len(got)-1] != '.' && !strings.HasSuffix(got, "!") && !strings.HasSuffix(got, "?") {
			t.Errorf("Fallback(%q) = %q", text, got)
		}
	}
}

func TestFallbackBoundedLength(t *testing.T) {
	sentence := "This sentence is exactly forty-two chars! "
	text := strings.Repeat(sentence, 40)

	got := Fallback(text)
	// May overshoot 300 only by the sentence that crossed the threshold.
	if len(got) > 300+len(sentence) {
		t.Errorf("len = %d, want <= %d", len(got), 300+len(sentence))
	}
	if !strings.HasSuffix(got, ".") {
		t.Errorf("summary %q does not end with a period", got)
	}
}

func TestFallbackIdempotentStructure(t *testing.T) {
	text := strings.Repeat("A sentence that fills space nicely. ", 30)
	once := Fallback(text)
	twice := Fallback(once)
	if len(twice) > 300+len(once) {
		t.Errorf("re-summarized len = %d", len(twice))
	}
	if !strings.HasSuffix(twice, ".") {
		t.Errorf("re-summarized %q does not end with a period", twice)
	}
}

// recordingBackend counts calls and returns a fixed result.
type recordingBackend struct {
	calls  int
	result string
	err    error
}

func (b *recordingBackend) Summarize(context.Context, string) (string, error) {
	b.calls++
	return b.result, b.err
}

func TestSummarizeNoBackend(t *testing.T) {
	svc := New(nil, time.Second)
	longText := strings.Repeat("Plenty of text in this note to summarize. ", 5)

	summary, source := svc.Summarize(context.Background(), longText)
	if source != SourceFallback {
		t.Errorf("source = %q, want fallback", source)
	}
	if summary == "" {
		t.Error("summary is empty")
	}
}

func TestSummarizeShortInputSkipsBackend(t *testing.T) {
	backend := &recordingBackend{result: "remote summary"}
	svc := New(backend, time.Second)

	summary, source := svc.Summarize(context.Background(), "Short.")
	if backend.calls != 0 {
		t.Errorf("backend calls = %d, want 0", backend.calls)
	}
	if source != SourceFallback || summary != "Short." {
		t.Errorf("got (%q, %q)", summary, source)
	}
}

func TestSummarizeBackendSuccess(t *testing.T) {
	backend := &recordingBackend{result: "A crisp remote summary."}
	svc := New(backend, time.Second)
	longText := strings.Repeat("Detailed notes about many different things. ", 4)

	summary, source := svc.Summarize(context.Background(), longText)
	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls)
	}
	if source != SourceGenAI {
		t.Errorf("source = %q, want genai", source)
	}
	if summary != "A crisp remote summary." {
		t.Errorf("summary = %q", summary)
	}
}

func TestSummarizeBackendFailureAbsorbed(t *testing.T) {
	backend := &recordingBackend{err: errors.New("boom")}
	svc := New(backend, time.Second)
	longText := strings.Repeat("Detailed notes about many different things. ", 4)

	summary, source := svc.Summarize(context.Background(), longText)
	if source != SourceFallback {
		t.Errorf("source = %q, want fallback", source)
	}
	if summary != Fallback(longText) {
		t.Errorf("summary = %q, want fallback result", summary)
	}
}

func TestSummarizeBackendEchoRejected(t *testing.T) {
	longText := strings.Repeat("Detailed notes about many different things. ", 4)
	backend := &recordingBackend{result: longText}
	svc := New(backend, time.Second)

	_, source := svc.Summarize(context.Background(), longText)
	if source != SourceFallback {
		t.Errorf("source = %q, want fallback when model echoes input", source)
	}
}

func TestSummarizeBackendEmptyRejected(t *testing.T) {
	backend := &recordingBackend{result: "   "}
	svc := New(backend, time.Second)
	longText := strings.Repeat("Detailed notes about many different things. ", 4)

	_, source := svc.Summarize(context.Background(), longText)
	if source != SourceFallback {
		t.Errorf("source = %q, want fallback on blank model output", source)
	}
}

func TestInferenceClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/test-model" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		fmt.Fprint(w, `[{"summary_text":"model output"}]`)
	}))
	defer srv.Close()

	c := NewInferenceClient(InferenceConfig{
		Endpoint: srv.URL,
		Model:    "test-model",
		Token:    "tok",
		Timeout:  time.Second,
	})
	got, err := c.Summarize(context.Background(), "some long input text")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "model output" {
		t.Errorf("got %q", got)
	}
}

func TestInferenceClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewInferenceClient(InferenceConfig{Endpoint: srv.URL, Model: "m", Timeout: time.Second})
	if _, err := c.Summarize(context.Background(), "text"); err == nil {
		t.Error("expected error on 503")
	}
}

func TestInferenceClientMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"not":"an array"}`)
	}))
	defer srv.Close()

	c := NewInferenceClient(InferenceConfig{Endpoint: srv.URL, Model: "m", Timeout: time.Second})
	if _, err := c.Summarize(context.Background(), "text"); err == nil {
		t.Error("expected error on malformed response")
	}
}
