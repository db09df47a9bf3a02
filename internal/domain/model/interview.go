package model

import (
	"strconv"
	"time"
)

// Question is one generated interview question with its category label.
type Question struct {
	Text     string `json:"question"`
	Category string `json:"type"`
}

// Interview is the recruiter-authored definition of a role and its
// question set. Immutable once created, except for delete.
type Interview struct {
	ID             string
	Token          string // link identity; anyone holding it may join
	OwnerID        string
	JobPosition    string
	JobDescription string
	// Duration is stored as the free-form value the creation form submits
	// ("5" | "15" | "30" | "45" | "60"). Coerce via DurationSeconds.
	Duration  string
	Types     []string
	Questions []Question
	CreatedAt time.Time
}

const defaultDurationMinutes = 30

// DurationMinutes coerces the stored duration at the boundary instead of
// trusting its type. Non-numeric or non-positive values fall back to 30.
func (iv *Interview) DurationMinutes() int {
	n, err := strconv.Atoi(iv.Duration)
	if err != nil || n <= 0 {
		return defaultDurationMinutes
	}
	return n
}

func (iv *Interview) DurationSeconds() int {
	return iv.DurationMinutes() * 60
}

// HasType reports whether category is one of the requested type labels.
func (iv *Interview) HasType(category string) bool {
	for _, t := range iv.Types {
		if t == category {
			return true
		}
	}
	return false
}

func NewInterview(id, token, ownerID, jobPosition, jobDescription, duration string, types []string, questions []Question) *Interview {
	return &Interview{
		ID:             id,
		Token:          token,
		OwnerID:        ownerID,
		JobPosition:    jobPosition,
		JobDescription: jobDescription,
		Duration:       duration,
		Types:          types,
		Questions:      questions,
		CreatedAt:      time.Now(),
	}
}
