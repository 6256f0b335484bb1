package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/internal/utils"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	statusExhausted = "RESOURCE_EXHAUSTED"
	retryInfoType   = "type.googleapis.com/google.rpc.RetryInfo"
)

type BlockedErr struct {
	Feedback *genai.GenerateContentResponsePromptFeedback
}

// Implement error interface
func (b *BlockedErr) Error() string {

	if b.Feedback == nil {
		return "gemini returned no candidates with no reason"
	}

	return fmt.Sprintf(
		"gemini returned no candidates, reason=%s",
		b.Feedback.BlockReason,
	)
}

// classify wraps err into a pipeline error of the proper kind
func classify(err error) error {
	if quotaExceeded(err) {
		return models.NewError(models.KindQuotaExceeded, opSummary, err)
	}
	return models.NewError(models.KindUpstreamFailure, opSummary, err)
}

// quotaExceeded checks if the error signals an exhausted request budget,
// either local or upstream
func quotaExceeded(err error) bool {

	if errors.Is(err, ErrDailyLimitReached) || errors.Is(err, ErrMinuteLimitReached) {
		return true
	}

	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == statusExhausted
	}

	if st, ok := status.FromError(err); ok {
		return st.Code() == codes.ResourceExhausted
	}

	return false
}

// asAPIError finds a genai.APIError in the chain, by value or by pointer
func asAPIError(err error) (genai.APIError, bool) {

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}

	return genai.APIError{}, false
}

// retryDelay extracts the retry hint from either a gRPC status
// or the details of a genai REST error
func retryDelay(err error) (time.Duration, bool) {

	if delay, ok := utils.RetryDelay(err); ok {
		return delay, true
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return 0, false
	}

	for _, detail := range apiErr.Details {
		if detail["@type"] != retryInfoType {
			continue
		}

		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}

		if delay, err := time.ParseDuration(raw); err == nil {
			return delay, true
		}
	}

	return 0, false
}
