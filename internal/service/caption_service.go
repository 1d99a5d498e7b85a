package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"google.golang.org/genai"

	config "github.com/wellbeat/awareness-api/configs"
	"github.com/wellbeat/awareness-api/internal/apperrors"
	"github.com/wellbeat/awareness-api/internal/metrics"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

const (
	maxInstructionLen = 500
	maxCaptionLen     = 2200
	maxVariations     = 5
)

var allowedTones = []string{"professional", "friendly", "educational", "urgent", "humorous"}

const rewriteSystemInstruction = `
You are a social media caption assistant for a health-awareness campaign.
Rewrite the caption you are given into between 1 and 5 distinct variations.
The response MUST be a valid JSON object with two keys:
1. variations: an array of objects, each with "id" (integer starting at 1),
   "caption" (string, at most 2200 characters) and "tone" (one of:
   "professional", "friendly", "educational", "urgent", "humorous").
2. count: the number of variations produced (between 1 and 5).
Keep any factual health claims intact. Keep hashtags if present.
You MUST NOT wrap the JSON output in a markdown code block. The response
should contain ONLY the raw JSON string.
`

const editSystemInstruction = `
You are a social media caption assistant for a health-awareness campaign.
Apply the user's instruction to the caption they provide.
The response MUST be a valid JSON object with two keys:
1. caption: the edited caption (string, at most 2200 characters).
2. explanation: a one-sentence description of what you changed.
Keep any factual health claims intact unless the instruction says otherwise.
You MUST NOT wrap the JSON output in a markdown code block. The response
should contain ONLY the raw JSON string.
`

// CaptionGenerator is the seam over the LLM API.
type CaptionGenerator interface {
	Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error)
}

type geminiGenerator struct {
	apiKey string
}

func NewGeminiGenerator(apiKey string) CaptionGenerator {
	return &geminiGenerator{apiKey: apiKey}
}

func (g *geminiGenerator) Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: g.apiKey,
	})
	if err != nil {
		return "", err
	}

	result, err := client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		},
	)
	if err != nil {
		return "", err
	}

	return result.Text(), nil
}

type CaptionService interface {
	Rewrite(ctx context.Context, caption, instruction string) (*transfer.CaptionRewriteResult, error)
	Edit(ctx context.Context, caption, instruction string) (*transfer.CaptionEditResult, error)
}

type captionService struct {
	cfg config.Config
	gen CaptionGenerator
}

func NewCaptionService(cfg config.Config, gen CaptionGenerator) CaptionService {
	return &captionService{cfg: cfg, gen: gen}
}

func (s *captionService) Rewrite(ctx context.Context, caption, instruction string) (*transfer.CaptionRewriteResult, error) {
	prompt := "Caption:\n" + caption
	if instruction != "" {
		prompt += "\n\nAdditional instruction:\n" + instruction
	}

	raw, err := s.generate(ctx, "rewrite", rewriteSystemInstruction, prompt, instruction)
	if err != nil {
		return nil, err
	}

	var result transfer.CaptionRewriteResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("model returned malformed JSON: %w", err)
	}
	if err := validateRewrite(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *captionService) Edit(ctx context.Context, caption, instruction string) (*transfer.CaptionEditResult, error) {
	prompt := "Caption:\n" + caption + "\n\nInstruction:\n" + instruction

	raw, err := s.generate(ctx, "edit", editSystemInstruction, prompt, instruction)
	if err != nil {
		return nil, err
	}

	var result transfer.CaptionEditResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("model returned malformed JSON: %w", err)
	}
	if len([]rune(result.Caption)) > maxCaptionLen {
		return nil, apperrors.Upstream("gemini", 0, "model produced a caption over the length limit")
	}
	return &result, nil
}

// generate validates preconditions, then retries the whole external
// call a bounded number of times with a fixed delay. Each attempt
// carries its own timeout budget.
func (s *captionService) generate(ctx context.Context, operation, systemInstruction, prompt, instruction string) (string, error) {
	if len([]rune(instruction)) > maxInstructionLen {
		return "", apperrors.Validation("instruction",
			fmt.Sprintf("must be at most %d characters", maxInstructionLen))
	}
	if s.cfg.Gemini.APIKey == "" {
		return "", apperrors.MissingConfig("GEMINI_API_KEY")
	}

	attempts := s.cfg.Gemini.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Gemini.Timeout)
		raw, err := s.gen.Generate(attemptCtx, s.cfg.Gemini.Model, systemInstruction, prompt)
		cancel()
		metrics.CaptionGenerationDuration.WithLabelValues(s.cfg.Gemini.Model, operation).Observe(time.Since(start).Seconds())

		if err == nil {
			return raw, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Str("operation", operation).Msg("caption generation attempt failed")

		if attempt < attempts {
			select {
			case <-time.After(s.cfg.Gemini.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", apperrors.Upstream("gemini", 0, lastErr.Error())
}

func validateRewrite(result *transfer.CaptionRewriteResult) error {
	if result.Count < 1 || result.Count > maxVariations || len(result.Variations) != result.Count {
		return apperrors.Upstream("gemini", 0, "model produced an invalid variation count")
	}
	for _, v := range result.Variations {
		if len([]rune(v.Caption)) > maxCaptionLen {
			return apperrors.Upstream("gemini", 0, "model produced a caption over the length limit")
		}
		if !lo.Contains(allowedTones, v.Tone) {
			return apperrors.Upstream("gemini", 0, fmt.Sprintf("model produced an unknown tone %q", v.Tone))
		}
	}
	return nil
}
