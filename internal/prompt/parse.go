package prompt

import (
	"encoding/json"
	"fmt"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
)

// ParseQuestions decodes a question-generation response. A parse failure
// yields an empty list together with ErrParse so the caller can warn the
// user instead of crashing the creation flow.
func ParseQuestions(raw string) ([]model.Question, error) {
	var payload struct {
		InterviewQuestions []model.Question `json:"interviewQuestions"`
	}
	if err := json.Unmarshal([]byte(StripFences(raw)), &payload); err != nil {
		return nil, fmt.Errorf("questions response: %v: %w", err, domain.ErrParse)
	}
	if len(payload.InterviewQuestions) == 0 {
		return nil, fmt.Errorf("questions response empty: %w", domain.ErrParse)
	}
	return payload.InterviewQuestions, nil
}

// ParseFeedback decodes a feedback-generation response into the fixed
// rating criteria plus summary and recommendation. Ratings are clamped to
// 1-10; missing or unrecognized recommendations map to Not Available.
func ParseFeedback(raw string) (model.Ratings, string, model.Recommendation, string, error) {
	var payload struct {
		Rating            model.Ratings `json:"rating"`
		Summary           string        `json:"summary"`
		Recommendation    string        `json:"Recommendation"`
		RecommendationMsg string        `json:"RecommendationMsg"`
	}
	if err := json.Unmarshal([]byte(StripFences(raw)), &payload); err != nil {
		return model.Ratings{}, "", "", "", fmt.Errorf("feedback response: %v: %w", err, domain.ErrParse)
	}
	payload.Rating.Clamp()
	return payload.Rating, payload.Summary, model.NormalizeRecommendation(payload.Recommendation), payload.RecommendationMsg, nil
}
