package model

import (
	"math"
	"time"
)

// Recommendation is an open string enum. The scoring prompt asks for
// Hire / Do Not Hire, but older prompt revisions produced Consider, so
// parsing accepts it; anything unrecognized maps to Not Available.
type Recommendation string

const (
	RecommendationHire         Recommendation = "Hire"
	RecommendationConsider     Recommendation = "Consider"
	RecommendationDoNotHire    Recommendation = "Do Not Hire"
	RecommendationNotAvailable Recommendation = "Not Available"
)

// NormalizeRecommendation maps a raw model-produced value onto the known
// set, defaulting to Not Available rather than guessing.
func NormalizeRecommendation(raw string) Recommendation {
	switch raw {
	case string(RecommendationHire), string(RecommendationConsider), string(RecommendationDoNotHire):
		return Recommendation(raw)
	default:
		return RecommendationNotAvailable
	}
}

// Ratings holds the four fixed scoring criteria, each 1-10.
type Ratings struct {
	TechnicalSkills int `json:"technicalSkills"`
	Communication   int `json:"communication"`
	ProblemSolving  int `json:"problemSolving"`
	Experience      int `json:"experience"`
}

// Clamp forces every criterion into the 1-10 band.
func (r *Ratings) Clamp() {
	r.TechnicalSkills = clampRating(r.TechnicalSkills)
	r.Communication = clampRating(r.Communication)
	r.ProblemSolving = clampRating(r.ProblemSolving)
	r.Experience = clampRating(r.Experience)
}

func clampRating(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// Feedback is the structured post-session assessment derived from a
// completed session's transcript. Immutable; exactly one per completed
// session that produced one.
type Feedback struct {
	ID                string
	InterviewToken    string
	CandidateName     string
	CandidateEmail    string
	Ratings           Ratings
	Summary           string
	Recommendation    Recommendation
	RecommendationMsg string
	CreatedAt         time.Time
}

// Overall is the display rating: arithmetic mean of the four criteria,
// rounded to the nearest integer.
func (f *Feedback) Overall() int {
	sum := f.Ratings.TechnicalSkills + f.Ratings.Communication + f.Ratings.ProblemSolving + f.Ratings.Experience
	return int(math.Round(float64(sum) / 4.0))
}
