package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	calls  int
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeneratorComplete(t *testing.T) {
	models := &fakeModels{resp: textResponse(" {\"organizationIds\":[]", "", "\"actorIds\":[]} ")}
	g := newGenerator(models, "gemini-pro", zap.NewNop())

	output, err := g.Complete(context.Background(), "  find investors ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "{\"organizationIds\":[]\n\"actorIds\":[]}" {
		t.Fatalf("unexpected output: %q", output)
	}

	if models.calls != 1 {
		t.Fatalf("expected a single call, got %d", models.calls)
	}

	if models.model != "gemini-pro" || models.prompt != "find investors" {
		t.Fatalf("unexpected request: model=%q prompt=%q", models.model, models.prompt)
	}

	if models.config == nil || models.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json response mime type, got %+v", models.config)
	}
}

func TestGeneratorDefaultModel(t *testing.T) {
	g := newGenerator(&fakeModels{}, "  ", nil)
	if g.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", g.Model())
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	g := newGenerator(&fakeModels{resp: &genai.GenerateContentResponse{}}, "gemini-pro", zap.NewNop())

	output, err := g.Complete(context.Background(), "anything")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output != "" {
		t.Fatalf("expected empty output, got %q", output)
	}
}

func TestGeneratorWrapsAPIErrors(t *testing.T) {
	apiErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models := &fakeModels{err: apiErr}
	g := newGenerator(models, "gemini-pro", zap.NewNop())

	_, err := g.Complete(context.Background(), "anything")

	var got genai.APIError
	if !errors.As(err, &got) || got.Code != http.StatusInternalServerError {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
	if models.calls != 1 {
		t.Fatalf("expected no retries, got %d calls", models.calls)
	}
}

func TestGeneratorRejectsEmptyPrompt(t *testing.T) {
	models := &fakeModels{}
	g := newGenerator(models, "", zap.NewNop())

	if _, err := g.Complete(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if models.calls != 0 {
		t.Fatalf("expected no call, got %d", models.calls)
	}

	var nilGen *Generator
	if _, err := nilGen.Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error for nil generator")
	}
}
