package gemini

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/models"

	"google.golang.org/genai"
)

const opSummary = "summarization"

var errEmptyResponse = errors.New("gemini returned an empty response")

// generator is the part of the genai client used for summarization
type generator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// quota consumes one request from the local request budget
type quota interface {
	AcquireQuota(ctx context.Context) error
}

// Gemini service
type Service struct {
	config  *config.Config
	models  generator
	limiter quota // nil means no local limit
}

// Configure safety settings to block none
var blockNone = genai.HarmBlockThresholdBlockNone
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHateSpeech, Threshold: blockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: blockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: blockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: blockNone},
}

// Create new Gemini service
func New(ctx context.Context, config *config.Config, limiter *Limiter) (*Service, error) {
	// Configure new client
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: config.GeminiAPIKey})
	if err != nil {
		return nil, err
	}

	s := &Service{config: config, models: client.Models}
	if limiter != nil { // avoid a typed nil in the interface
		s.limiter = limiter
	}

	return s, nil
}

// buildPrompt appends the transcript to the instruction preamble.
// Nothing is added in between and the transcript is never truncated.
func buildPrompt(preamble, transcript string) string {
	return preamble + transcript
}

// Summarize sends the prompt built from the transcript to Gemini
// and returns the model's text verbatim.
// Errors are *models.PipelineError of kind QuotaExceeded or UpstreamFailure.
func (s *Service) Summarize(ctx context.Context, transcript string) (string, error) {

	if s.limiter != nil {
		switch err := s.limiter.AcquireQuota(ctx); {
		case isLimit(err):
			log.Printf("Gemini local quota: %v", err)
			return "", classify(err)
		case err != nil:
			// The budget can't be checked, the upstream still enforces its own
			log.Printf("Calling Gemini without the local quota: %v", err)
		}
	}

	parts := []*genai.Part{
		genai.NewPartFromText(buildPrompt(s.config.GeminiPrompt.Text, transcript)),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := s.models.GenerateContent(
		ctx,
		s.config.GeminiModel,
		contents,
		&genai.GenerateContentConfig{SafetySettings: safetySettings},
	)

	if err != nil {
		if delay, ok := retryDelay(err); ok {
			log.Printf("Gemini asked to retry in %v: %v", delay, err)
		} else {
			log.Printf("Gemini request failed: %v", err)
		}
		return "", classify(err)
	}

	if len(result.Candidates) == 0 {
		err = &BlockedErr{Feedback: result.PromptFeedback}
		log.Printf("Gemini request failed: %v", err)
		return "", models.NewError(models.KindUpstreamFailure, opSummary, err)
	}

	summary := result.Text()
	if strings.TrimSpace(summary) == "" {
		return "", models.NewError(models.KindUpstreamFailure, opSummary, errEmptyResponse)
	}

	return summary, nil
}
