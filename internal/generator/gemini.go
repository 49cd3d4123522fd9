package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// GeminiGenerator implements QuestionGenerator using the Google Gemini SDK
// with structured JSON output.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGeminiGenerator creates a new Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, modelID string, log zerolog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	if modelID == "" {
		modelID = "gemini-2.0-flash"
	}
	return &GeminiGenerator{
		client: client,
		model:  modelID,
		log:    log.With().Str("component", "generator").Logger(),
	}, nil
}

type generatedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) ([]model.MCQ, error) {
	temp := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   questionListSchema(),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: buildPrompt(req)}},
	}}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	var items []generatedQuestion
	if err := json.Unmarshal([]byte(result.Text()), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOutput, err)
	}

	mcqs := make([]model.MCQ, 0, len(items))
	for _, item := range items {
		m, err := toMCQ(item, req)
		if err != nil {
			g.log.Warn().Err(err).Str("skill", req.SkillName).Msg("dropping malformed generated question")
			continue
		}
		mcqs = append(mcqs, m)
	}
	if len(mcqs) == 0 {
		return nil, ErrBadOutput
	}
	return mcqs, nil
}

// toMCQ validates one generated item and assigns it a fresh id.
func toMCQ(item generatedQuestion, req Request) (model.MCQ, error) {
	if strings.TrimSpace(item.Question) == "" {
		return model.MCQ{}, fmt.Errorf("empty question text")
	}
	if len(item.Options) != 4 {
		return model.MCQ{}, fmt.Errorf("expected 4 options, got %d", len(item.Options))
	}
	answerIdx := -1
	for i, opt := range item.Options {
		if opt == item.Answer {
			answerIdx = i
			break
		}
	}
	if answerIdx < 0 {
		return model.MCQ{}, fmt.Errorf("answer does not match any option")
	}
	letters := []string{"A", "B", "C", "D"}
	return model.MCQ{
		MCQID:         uuid.NewString(),
		JobID:         req.JobID,
		SkillName:     req.SkillName,
		Question:      item.Question,
		OptionA:       item.Options[0],
		OptionB:       item.Options[1],
		OptionC:       item.Options[2],
		OptionD:       item.Options[3],
		CorrectAnswer: letters[answerIdx],
		Band:          req.Band,
	}, nil
}

func questionListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:     genai.TypeObject,
			Required: []string{"question", "options", "answer"},
			Properties: map[string]*genai.Schema{
				"question": {Type: genai.TypeString},
				"options": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"answer": {Type: genai.TypeString},
			},
		},
	}
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
